package geojson

import (
	"fmt"

	"github.com/woozymasta/geoconv/geo"
)

// Encode turns g into a document tree. The absence value encodes as Null.
//
// A present SRID is written as a named "crs" member. PointZ is written as a
// three-component "Point"; the other Z variants keep their "<Type>Z" tag so that
// Decode restores them.
func Encode(g geo.Geometry) (Value, error) {
	if g == nil {
		return Null{}, nil
	}
	obj, err := encodeGeometry(g)
	if err != nil {
		return nil, err
	}
	if srid := g.SpatialRef(); !srid.IsZero() {
		obj["crs"] = crsValue(srid)
	}
	return obj, nil
}

// MustEncode is like Encode but panics on error.
func MustEncode(g geo.Geometry) Value {
	v, err := Encode(g)
	if err != nil {
		panic(err)
	}
	return v
}

func encodeGeometry(g geo.Geometry) (Object, error) {
	if g == nil {
		return nil, geo.ErrNilGeometry
	}

	obj := Object{"type": String(g.Type().String())}
	switch g := g.(type) {
	case geo.Point:
		obj["coordinates"] = Array{}
		if g.Coordinates != nil {
			obj["coordinates"] = xy(*g.Coordinates)
		}
	case geo.PointZ:
		if g.Coordinates == nil {
			obj["coordinates"] = Array{}
		} else {
			obj["type"] = String(geo.TypePoint.String())
			obj["coordinates"] = xyz(*g.Coordinates)
		}
	case geo.LineString:
		obj["coordinates"] = seq1(g.Coordinates, xy)
	case geo.LineStringZ:
		obj["coordinates"] = seq1(g.Coordinates, xyz)
	case geo.Polygon:
		obj["coordinates"] = seq2(g.Coordinates, xy)
	case geo.PolygonZ:
		obj["coordinates"] = seq2(g.Coordinates, xyz)
	case geo.MultiPoint:
		obj["coordinates"] = seq1(g.Coordinates, xy)
	case geo.MultiPointZ:
		obj["coordinates"] = seq1(g.Coordinates, xyz)
	case geo.MultiLineString:
		obj["coordinates"] = seq2(g.Coordinates, xy)
	case geo.MultiLineStringZ:
		obj["coordinates"] = seq2(g.Coordinates, xyz)
	case geo.MultiPolygon:
		obj["coordinates"] = seq3(g.Coordinates, xy)
	case geo.MultiPolygonZ:
		obj["coordinates"] = seq3(g.Coordinates, xyz)
	case geo.GeometryCollection:
		members := make(Array, len(g.Geometries))
		for i, m := range g.Geometries {
			mv, err := encodeGeometry(m)
			if err != nil {
				return nil, err
			}
			members[i] = mv
		}
		obj["geometries"] = members
	default:
		return nil, geo.NewError(geo.KindUnrecognizedType, fmt.Sprintf("%T", g))
	}

	if props := g.Props(); len(props) > 0 {
		pv, err := FromAny(props)
		if err != nil {
			return nil, err
		}
		obj["properties"] = pv
	}
	return obj, nil
}

func xy(c geo.XY) Value { return Array{Number(c.X), Number(c.Y)} }

func xyz(c geo.XYZ) Value { return Array{Number(c.X), Number(c.Y), Number(c.Z)} }

func seq1[C any](cs []C, leaf func(C) Value) Array {
	out := make(Array, len(cs))
	for i, c := range cs {
		out[i] = leaf(c)
	}
	return out
}

func seq2[C any](css [][]C, leaf func(C) Value) Array {
	out := make(Array, len(css))
	for i, cs := range css {
		out[i] = seq1(cs, leaf)
	}
	return out
}

func seq3[C any](csss [][][]C, leaf func(C) Value) Array {
	out := make(Array, len(csss))
	for i, css := range csss {
		out[i] = seq2(css, leaf)
	}
	return out
}
