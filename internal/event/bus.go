package event

import "sync"

// Notice is an overlay notification published for external observers
// (the editor SSE stream).
type Notice struct {
	Session   string `json:"session"`
	Type      string `json:"type"` // "tooltipopen", "tooltipclose", "autopanstart"
	LayerID   string `json:"layerId,omitempty"`
	Direction string `json:"direction,omitempty"`

	// Content and Opacity describe the rendered container, set for
	// tooltipopen notices so the client can paint without a fetch.
	Content string  `json:"content,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`

	// Position is the tooltip's layer-space pixel position, set for
	// tooltipopen notices.
	Position *struct{ X, Y float64 } `json:"position,omitempty"`

	// Delta is the corrective pan delta, set for autopanstart notices.
	Delta *struct{ X, Y float64 } `json:"delta,omitempty"`
}

// Bus is a fan-out pub/sub for overlay notices.
type Bus struct {
	mu   sync.RWMutex
	subs map[chan Notice]struct{}
}

// NewBus creates a new bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[chan Notice]struct{})}
}

// Publish sends a notice to all subscribers (non-blocking).
func (b *Bus) Publish(n Notice) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- n:
		default:
			// subscriber too slow, skip
		}
	}
}

// Subscribe returns a buffered channel that receives notices.
func (b *Bus) Subscribe() chan Notice {
	ch := make(chan Notice, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(ch chan Notice) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
	close(ch)
}

// DefaultBus is the package-level notice bus.
var DefaultBus = NewBus()
