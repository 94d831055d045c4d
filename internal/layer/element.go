package layer

// Element models a layer's rendered DOM element: the attribute surface
// the binding machine needs for focus wiring and accessibility tagging.
// Layers without a rendered representation return a nil Element and are
// silently skipped by element-dependent features.
type Element struct {
	id    string
	attrs map[string]string
}

// NewElement creates an element model with the given id.
func NewElement(id string) *Element {
	return &Element{id: id, attrs: make(map[string]string)}
}

// ID returns the element id.
func (e *Element) ID() string { return e.id }

// SetAttr sets an attribute.
func (e *Element) SetAttr(key, value string) {
	e.attrs[key] = value
}

// Attr returns an attribute value and whether it is set.
func (e *Element) Attr(key string) (string, bool) {
	v, ok := e.attrs[key]
	return v, ok
}

// RemoveAttr deletes an attribute.
func (e *Element) RemoveAttr(key string) {
	delete(e.attrs, key)
}
