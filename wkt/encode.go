package wkt

import (
	"math"
	"strconv"
	"strings"

	"github.com/woozymasta/geoconv/geo"
)

// Encode returns the text form of g. An SRID code is written as the EWKT
// prefix; collection members are written without one.
func Encode(g geo.Geometry) (string, error) {
	data, err := Append(nil, g)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// MustEncode is like Encode but panics on error.
func MustEncode(g geo.Geometry) string {
	s, err := Encode(g)
	if err != nil {
		panic(err)
	}
	return s
}

// Append appends the text form of g to dst. On error dst is returned unchanged.
func Append(dst []byte, g geo.Geometry) ([]byte, error) {
	if g == nil {
		return dst, geo.ErrNilGeometry
	}
	w := writer{buf: dst}

	if srid := g.SpatialRef(); !srid.IsZero() {
		n, ok := srid.Int()
		if !ok || n < 0 {
			return dst, geo.NewError(geo.KindInvalidSRID, srid.String())
		}
		w.buf = append(w.buf, "SRID="...)
		w.buf = strconv.AppendInt(w.buf, int64(n), 10)
		w.buf = append(w.buf, ';')
	}

	w.geometry(g)
	if w.err != nil {
		return dst, w.err
	}
	return w.buf, nil
}

type writer struct {
	buf []byte
	err error
}

func (w *writer) geometry(g geo.Geometry) {
	if g == nil {
		w.err = geo.ErrNilGeometry
		return
	}

	t := g.Type()
	w.buf = append(w.buf, strings.ToUpper(t.Base().String())...)
	if t.HasZ() {
		w.buf = append(w.buf, " Z"...)
	}
	if isEmpty(g) {
		w.buf = append(w.buf, " EMPTY"...)
		return
	}

	switch g := g.(type) {
	case geo.Point:
		w.parenthesized(g.Coordinates.Sequence())
	case geo.PointZ:
		w.parenthesized(g.Coordinates.Sequence())
	case geo.LineString:
		list1(w, g.Coordinates, geo.XY.Sequence)
	case geo.LineStringZ:
		list1(w, g.Coordinates, geo.XYZ.Sequence)
	case geo.Polygon:
		list2(w, g.Coordinates, geo.XY.Sequence)
	case geo.PolygonZ:
		list2(w, g.Coordinates, geo.XYZ.Sequence)
	case geo.MultiPoint:
		list1(w, g.Coordinates, func(c geo.XY) []float64 {
			if math.IsNaN(c.X) && math.IsNaN(c.Y) {
				return nil
			}
			return c.Sequence()
		})
	case geo.MultiPointZ:
		list1(w, g.Coordinates, func(c geo.XYZ) []float64 {
			if math.IsNaN(c.X) && math.IsNaN(c.Y) && math.IsNaN(c.Z) {
				return nil
			}
			return c.Sequence()
		})
	case geo.MultiLineString:
		list2(w, g.Coordinates, geo.XY.Sequence)
	case geo.MultiLineStringZ:
		list2(w, g.Coordinates, geo.XYZ.Sequence)
	case geo.MultiPolygon:
		list3(w, g.Coordinates, geo.XY.Sequence)
	case geo.MultiPolygonZ:
		list3(w, g.Coordinates, geo.XYZ.Sequence)
	case geo.GeometryCollection:
		w.buf = append(w.buf, '(')
		for i, m := range g.Geometries {
			if i > 0 {
				w.buf = append(w.buf, ',')
			}
			w.geometry(m)
		}
		w.buf = append(w.buf, ')')
	}
}

func isEmpty(g geo.Geometry) bool {
	switch g := g.(type) {
	case geo.Point:
		return g.Coordinates == nil
	case geo.PointZ:
		return g.Coordinates == nil
	case geo.LineString:
		return len(g.Coordinates) == 0
	case geo.LineStringZ:
		return len(g.Coordinates) == 0
	case geo.Polygon:
		return len(g.Coordinates) == 0
	case geo.PolygonZ:
		return len(g.Coordinates) == 0
	case geo.MultiPoint:
		return len(g.Coordinates) == 0
	case geo.MultiPointZ:
		return len(g.Coordinates) == 0
	case geo.MultiLineString:
		return len(g.Coordinates) == 0
	case geo.MultiLineStringZ:
		return len(g.Coordinates) == 0
	case geo.MultiPolygon:
		return len(g.Coordinates) == 0
	case geo.MultiPolygonZ:
		return len(g.Coordinates) == 0
	case geo.GeometryCollection:
		return len(g.Geometries) == 0
	}
	return false
}

// coord writes space separated numbers, or EMPTY for a nil sequence.
func (w *writer) coord(seq []float64) {
	if seq == nil {
		w.buf = append(w.buf, "EMPTY"...)
		return
	}
	for i, v := range seq {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			w.err = geo.NewError(geo.KindMalformedCoordinate, v)
			return
		}
		if i > 0 {
			w.buf = append(w.buf, ' ')
		}
		w.buf = strconv.AppendFloat(w.buf, v, 'f', -1, 64)
	}
}

func (w *writer) parenthesized(seq []float64) {
	w.buf = append(w.buf, '(')
	w.coord(seq)
	w.buf = append(w.buf, ')')
}

func list1[C any](w *writer, cs []C, leaf func(C) []float64) {
	if len(cs) == 0 {
		w.buf = append(w.buf, "EMPTY"...)
		return
	}
	w.buf = append(w.buf, '(')
	for i, c := range cs {
		if i > 0 {
			w.buf = append(w.buf, ',')
		}
		w.coord(leaf(c))
	}
	w.buf = append(w.buf, ')')
}

func list2[C any](w *writer, css [][]C, leaf func(C) []float64) {
	if len(css) == 0 {
		w.buf = append(w.buf, "EMPTY"...)
		return
	}
	w.buf = append(w.buf, '(')
	for i, cs := range css {
		if i > 0 {
			w.buf = append(w.buf, ',')
		}
		list1(w, cs, leaf)
	}
	w.buf = append(w.buf, ')')
}

func list3[C any](w *writer, csss [][][]C, leaf func(C) []float64) {
	if len(csss) == 0 {
		w.buf = append(w.buf, "EMPTY"...)
		return
	}
	w.buf = append(w.buf, '(')
	for i, css := range csss {
		if i > 0 {
			w.buf = append(w.buf, ',')
		}
		list2(w, css, leaf)
	}
	w.buf = append(w.buf, ')')
}
