package layer

import (
	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-overlay/internal/mapview"
)

// Group is a feature group: a layer that delegates operations across
// its children. Child events propagate to the group, so one binding on
// the group serves every child.
type Group struct {
	Base
	children []Layer
}

// NewGroup creates a group over the given children.
func NewGroup(id string, children ...Layer) *Group {
	g := &Group{}
	g.Base = newBase(id, g)
	for _, c := range children {
		g.Add(c)
	}
	return g
}

// Add inserts a child and starts propagating its events to the group.
func (g *Group) Add(c Layer) {
	g.children = append(g.children, c)
	c.Events().AddParent(g.ev)
	if g.mapRef != nil {
		c.AddTo(g.mapRef)
	}
}

// RemoveChild detaches a child from the group.
func (g *Group) RemoveChild(c Layer) {
	for i, cand := range g.children {
		if cand == c {
			g.children = append(g.children[:i:i], g.children[i+1:]...)
			c.Events().RemoveParent(g.ev)
			return
		}
	}
}

// Children implements the group iteration capability.
func (g *Group) Children() []Layer { return g.children }

// Element returns nil: a group has no rendered element of its own.
func (g *Group) Element() *Element { return nil }

// Position returns false: a group has no single anchor; operations that
// need one delegate across the children instead.
func (g *Group) Position() (orb.Point, bool) {
	return orb.Point{}, false
}

// AddTo attaches the group and all its children to m.
func (g *Group) AddTo(m *mapview.Map) {
	for _, c := range g.children {
		c.AddTo(m)
	}
	g.Base.AddTo(m)
}

// Remove detaches the group and all its children.
func (g *Group) Remove() {
	for _, c := range g.children {
		c.Remove()
	}
	g.Base.Remove()
}
