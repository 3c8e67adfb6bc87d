// Package geomconv converts between geo geometries and github.com/twpayne/go-geom.
//
// go-geom has no place for properties, so they are dropped by ToGeom. Only
// integer SRIDs survive the conversion; go-geom uses 0 for "no SRID".
package geomconv

import (
	"github.com/woozymasta/geoconv/geo"

	"github.com/twpayne/go-geom"
)

// ToGeom converts g to the equivalent go-geom value.
func ToGeom(g geo.Geometry) (geom.T, error) {
	if g == nil {
		return nil, geo.ErrNilGeometry
	}
	srid := 0
	if ref := g.SpatialRef(); !ref.IsZero() {
		n, ok := ref.Int()
		if !ok {
			return nil, geo.NewError(geo.KindInvalidSRID, ref.String())
		}
		srid = n
	}

	switch g := g.(type) {
	case geo.Point:
		if g.Coordinates == nil {
			return geom.NewPointEmpty(geom.XY).SetSRID(srid), nil
		}
		return geom.NewPointFlat(geom.XY, g.Coordinates.Sequence()).SetSRID(srid), nil
	case geo.PointZ:
		if g.Coordinates == nil {
			return geom.NewPointEmpty(geom.XYZ).SetSRID(srid), nil
		}
		return geom.NewPointFlat(geom.XYZ, g.Coordinates.Sequence()).SetSRID(srid), nil

	case geo.LineString:
		return geom.NewLineString(geom.XY).MustSetCoords(coords1(g.Coordinates, geo.XY.Sequence)).SetSRID(srid), nil
	case geo.LineStringZ:
		return geom.NewLineString(geom.XYZ).MustSetCoords(coords1(g.Coordinates, geo.XYZ.Sequence)).SetSRID(srid), nil
	case geo.Polygon:
		return geom.NewPolygon(geom.XY).MustSetCoords(coords2(g.Coordinates, geo.XY.Sequence)).SetSRID(srid), nil
	case geo.PolygonZ:
		return geom.NewPolygon(geom.XYZ).MustSetCoords(coords2(g.Coordinates, geo.XYZ.Sequence)).SetSRID(srid), nil
	case geo.MultiPoint:
		return geom.NewMultiPoint(geom.XY).MustSetCoords(coords1(g.Coordinates, geo.XY.Sequence)).SetSRID(srid), nil
	case geo.MultiPointZ:
		return geom.NewMultiPoint(geom.XYZ).MustSetCoords(coords1(g.Coordinates, geo.XYZ.Sequence)).SetSRID(srid), nil
	case geo.MultiLineString:
		return geom.NewMultiLineString(geom.XY).MustSetCoords(coords2(g.Coordinates, geo.XY.Sequence)).SetSRID(srid), nil
	case geo.MultiLineStringZ:
		return geom.NewMultiLineString(geom.XYZ).MustSetCoords(coords2(g.Coordinates, geo.XYZ.Sequence)).SetSRID(srid), nil
	case geo.MultiPolygon:
		return geom.NewMultiPolygon(geom.XY).MustSetCoords(coords3(g.Coordinates, geo.XY.Sequence)).SetSRID(srid), nil
	case geo.MultiPolygonZ:
		return geom.NewMultiPolygon(geom.XYZ).MustSetCoords(coords3(g.Coordinates, geo.XYZ.Sequence)).SetSRID(srid), nil

	case geo.GeometryCollection:
		gc := geom.NewGeometryCollection()
		for _, m := range g.Geometries {
			t, err := ToGeom(m)
			if err != nil {
				return nil, err
			}
			if err := gc.Push(t); err != nil {
				return nil, err
			}
		}
		return gc.SetSRID(srid), nil
	}
	return nil, geo.NewError(geo.KindUnrecognizedType, g.Type().String())
}

// FromGeom converts a go-geom value. Layouts with M fail with
// geo.ErrUnrecognizedType.
func FromGeom(t geom.T) (geo.Geometry, error) {
	if t == nil {
		return nil, geo.ErrNilGeometry
	}

	var z bool
	switch t.Layout() {
	case geom.XY:
	case geom.XYZ:
		z = true
	case geom.NoLayout:
		// empty collections only
	default:
		return nil, geo.NewError(geo.KindUnrecognizedType, t.Layout())
	}

	var srid geo.SRID
	if n := t.SRID(); n != 0 {
		srid = geo.Code(n)
	}

	switch t := t.(type) {
	case *geom.Point:
		if z {
			if t.Empty() {
				return geo.PointZ{SRID: srid}, nil
			}
			c, err := geo.TripleFromSequence(t.Coords())
			if err != nil {
				return nil, err
			}
			return geo.PointZ{Coordinates: &c, SRID: srid}, nil
		}
		if t.Empty() {
			return geo.Point{SRID: srid}, nil
		}
		c, err := geo.PairFromSequence(t.Coords())
		if err != nil {
			return nil, err
		}
		return geo.Point{Coordinates: &c, SRID: srid}, nil

	case *geom.LineString:
		if z {
			cs, err := geo.Map(t.Coords(), triple)
			return wrap(geo.LineStringZ{Coordinates: cs, SRID: srid}, err)
		}
		cs, err := geo.Map(t.Coords(), pair)
		return wrap(geo.LineString{Coordinates: cs, SRID: srid}, err)

	case *geom.Polygon:
		if z {
			cs, err := depth2(t.Coords(), triple)
			return wrap(geo.PolygonZ{Coordinates: cs, SRID: srid}, err)
		}
		cs, err := depth2(t.Coords(), pair)
		return wrap(geo.Polygon{Coordinates: cs, SRID: srid}, err)

	case *geom.MultiPoint:
		if z {
			cs, err := geo.Map(t.Coords(), triple)
			return wrap(geo.MultiPointZ{Coordinates: cs, SRID: srid}, err)
		}
		cs, err := geo.Map(t.Coords(), pair)
		return wrap(geo.MultiPoint{Coordinates: cs, SRID: srid}, err)

	case *geom.MultiLineString:
		if z {
			cs, err := depth2(t.Coords(), triple)
			return wrap(geo.MultiLineStringZ{Coordinates: cs, SRID: srid}, err)
		}
		cs, err := depth2(t.Coords(), pair)
		return wrap(geo.MultiLineString{Coordinates: cs, SRID: srid}, err)

	case *geom.MultiPolygon:
		if z {
			cs, err := depth3(t.Coords(), triple)
			return wrap(geo.MultiPolygonZ{Coordinates: cs, SRID: srid}, err)
		}
		cs, err := depth3(t.Coords(), pair)
		return wrap(geo.MultiPolygon{Coordinates: cs, SRID: srid}, err)

	case *geom.GeometryCollection:
		gs, err := geo.Map(t.Geoms(), FromGeom)
		return wrap(geo.GeometryCollection{Geometries: gs, SRID: srid}, err)
	}
	return nil, geo.NewError(geo.KindUnrecognizedType, t)
}

func wrap(g geo.Geometry, err error) (geo.Geometry, error) {
	if err != nil {
		return nil, err
	}
	return g, nil
}

func pair(c geom.Coord) (geo.XY, error) {
	return geo.PairFromSequence(c)
}

func triple(c geom.Coord) (geo.XYZ, error) {
	return geo.TripleFromSequence(c)
}

func depth2[C any](css [][]geom.Coord, leaf func(geom.Coord) (C, error)) ([][]C, error) {
	return geo.Map(css, func(cs []geom.Coord) ([]C, error) { return geo.Map(cs, leaf) })
}

func depth3[C any](csss [][][]geom.Coord, leaf func(geom.Coord) (C, error)) ([][][]C, error) {
	return geo.Map(csss, func(css [][]geom.Coord) ([][]C, error) { return depth2(css, leaf) })
}

func coords1[C any](cs []C, seq func(C) []float64) []geom.Coord {
	out := make([]geom.Coord, len(cs))
	for i, c := range cs {
		out[i] = seq(c)
	}
	return out
}

func coords2[C any](css [][]C, seq func(C) []float64) [][]geom.Coord {
	out := make([][]geom.Coord, len(css))
	for i, cs := range css {
		out[i] = coords1(cs, seq)
	}
	return out
}

func coords3[C any](csss [][][]C, seq func(C) []float64) [][][]geom.Coord {
	out := make([][][]geom.Coord, len(csss))
	for i, css := range csss {
		out[i] = coords2(css, seq)
	}
	return out
}
