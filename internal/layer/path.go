package layer

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Path is a polyline or polygon feature. Its tooltip anchor is the
// geometry centroid.
type Path struct {
	Base
	points orb.LineString
	closed bool
	el     *Element
}

// NewPath creates a path from a point sequence. closed marks a polygon
// ring rather than an open polyline.
func NewPath(id string, points []orb.Point, closed bool) *Path {
	p := &Path{points: orb.LineString(points), closed: closed, el: NewElement("path-" + id)}
	p.Base = newBase(id, p)
	return p
}

// Element returns the path's rendered element model.
func (p *Path) Element() *Element { return p.el }

// Points returns the path geometry.
func (p *Path) Points() []orb.Point { return []orb.Point(p.points) }

// Closed reports whether the path is a polygon ring.
func (p *Path) Closed() bool { return p.closed }

// Position returns the geometry centroid, or false for an empty path.
func (p *Path) Position() (orb.Point, bool) {
	if len(p.points) == 0 {
		return orb.Point{}, false
	}
	if p.closed && len(p.points) >= 3 {
		ring := orb.Ring(p.points)
		if ring[0] != ring[len(ring)-1] {
			ring = append(append(orb.Ring{}, ring...), ring[0])
		}
		c, _ := planar.CentroidArea(orb.Polygon{ring})
		return c, true
	}
	c, _ := planar.CentroidArea(p.points)
	return c, true
}
