package properties

import (
	"strconv"
	"strings"
)

// Point is a longitude/latitude coordinate pair in degrees.
type Point struct {
	Lon float64
	Lat float64
}

// LinearRing is a closed sequence of points. The first point is not
// required to be repeated at the end; WKT output closes the ring.
type LinearRing []Point

// Polygon is an exterior ring optionally followed by interior rings.
type Polygon []LinearRing

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// String renders the point as a WKT POINT.
func (p Point) String() string {
	return "POINT (" + formatCoord(p.Lon) + " " + formatCoord(p.Lat) + ")"
}

func (r LinearRing) wkt() string {
	var b strings.Builder
	b.WriteString("(")
	for i, p := range r {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatCoord(p.Lon))
		b.WriteString(" ")
		b.WriteString(formatCoord(p.Lat))
	}
	if len(r) > 0 && r[0] != r[len(r)-1] {
		b.WriteString(", ")
		b.WriteString(formatCoord(r[0].Lon))
		b.WriteString(" ")
		b.WriteString(formatCoord(r[0].Lat))
	}
	b.WriteString(")")
	return b.String()
}

// String renders the polygon as a WKT POLYGON.
func (g Polygon) String() string {
	if len(g) == 0 {
		return "POLYGON EMPTY"
	}
	rings := make([]string, len(g))
	for i, r := range g {
		rings[i] = r.wkt()
	}
	return "POLYGON (" + strings.Join(rings, ", ") + ")"
}
