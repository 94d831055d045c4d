package mapview

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/joeblew999/plat-overlay/internal/geom"
)

// tileSize is the pixel size of one web-mercator tile.
const tileSize = 256

// earthCircumference is the spherical mercator world extent in meters.
const earthCircumference = 2 * math.Pi * 6378137

// scale returns the world size in pixels at a zoom level.
func scale(zoom float64) float64 {
	return tileSize * math.Pow(2, zoom)
}

// projectPoint converts a geographic point to absolute pixel coordinates
// at the given zoom. Pixel origin is the top-left of the mercator world.
func projectPoint(ll orb.Point, zoom float64) geom.Point {
	merc := project.WGS84.ToMercator(ll)
	s := scale(zoom) / earthCircumference
	return geom.Point{
		X: (merc[0] + earthCircumference/2) * s,
		Y: (earthCircumference/2 - merc[1]) * s,
	}
}

// unprojectPoint converts absolute pixel coordinates back to a geographic
// point at the given zoom.
func unprojectPoint(p geom.Point, zoom float64) orb.Point {
	s := scale(zoom) / earthCircumference
	merc := orb.Point{
		p.X/s - earthCircumference/2,
		earthCircumference/2 - p.Y/s,
	}
	return project.Mercator.ToWGS84(merc)
}
