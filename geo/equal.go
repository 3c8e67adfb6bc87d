package geo

import (
	"math"
	"reflect"
)

// Equal reports whether a and b are the same variant with the same spatial
// reference, properties and coordinates. Nil and empty slices or maps compare equal.
func Equal(a, b Geometry) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() || a.SpatialRef() != b.SpatialRef() {
		return false
	}
	if !equalProps(a.Props(), b.Props()) {
		return false
	}

	switch a := a.(type) {
	case Point:
		return equalPtr(a.Coordinates, b.(Point).Coordinates)
	case PointZ:
		return equalPtr(a.Coordinates, b.(PointZ).Coordinates)
	case LineString:
		return equal1(a.Coordinates, b.(LineString).Coordinates)
	case LineStringZ:
		return equal1(a.Coordinates, b.(LineStringZ).Coordinates)
	case Polygon:
		return equal2(a.Coordinates, b.(Polygon).Coordinates)
	case PolygonZ:
		return equal2(a.Coordinates, b.(PolygonZ).Coordinates)
	case MultiPoint:
		return equal1(a.Coordinates, b.(MultiPoint).Coordinates)
	case MultiPointZ:
		return equal1(a.Coordinates, b.(MultiPointZ).Coordinates)
	case MultiLineString:
		return equal2(a.Coordinates, b.(MultiLineString).Coordinates)
	case MultiLineStringZ:
		return equal2(a.Coordinates, b.(MultiLineStringZ).Coordinates)
	case MultiPolygon:
		return equal3(a.Coordinates, b.(MultiPolygon).Coordinates)
	case MultiPolygonZ:
		return equal3(a.Coordinates, b.(MultiPolygonZ).Coordinates)
	case GeometryCollection:
		other := b.(GeometryCollection).Geometries
		if len(a.Geometries) != len(other) {
			return false
		}
		for i := range a.Geometries {
			if !Equal(a.Geometries[i], other[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func equalProps(a, b map[string]any) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == len(b)
	}
	return reflect.DeepEqual(a, b)
}

// coord is a coordinate that compares NaN components as equal, so empty
// member points survive a round trip.
type coord[C any] interface {
	XY | XYZ
	same(C) bool
}

func (c XY) same(o XY) bool {
	return sameFloat(c.X, o.X) && sameFloat(c.Y, o.Y)
}

func (c XYZ) same(o XYZ) bool {
	return sameFloat(c.X, o.X) && sameFloat(c.Y, o.Y) && sameFloat(c.Z, o.Z)
}

func sameFloat(a, b float64) bool {
	return a == b || math.IsNaN(a) && math.IsNaN(b)
}

func equalPtr[C coord[C]](a, b *C) bool {
	if a == nil || b == nil {
		return a == b
	}
	return (*a).same(*b)
}

func equal1[C coord[C]](a, b []C) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].same(b[i]) {
			return false
		}
	}
	return true
}

func equal2[C coord[C]](a, b [][]C) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equal1(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equal3[C coord[C]](a, b [][][]C) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equal2(a[i], b[i]) {
			return false
		}
	}
	return true
}
