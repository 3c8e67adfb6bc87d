package geo

// Type identifies a geometry variant.
type Type uint8

// Geometry variants. Every base type except GeometryCollection has a Z sibling.
const (
	TypeUnknown Type = iota
	TypePoint
	TypePointZ
	TypeLineString
	TypeLineStringZ
	TypePolygon
	TypePolygonZ
	TypeMultiPoint
	TypeMultiPointZ
	TypeMultiLineString
	TypeMultiLineStringZ
	TypeMultiPolygon
	TypeMultiPolygonZ
	TypeGeometryCollection
)

var typeNames = [...]string{
	TypeUnknown:            "Unknown",
	TypePoint:              "Point",
	TypePointZ:             "PointZ",
	TypeLineString:         "LineString",
	TypeLineStringZ:        "LineStringZ",
	TypePolygon:            "Polygon",
	TypePolygonZ:           "PolygonZ",
	TypeMultiPoint:         "MultiPoint",
	TypeMultiPointZ:        "MultiPointZ",
	TypeMultiLineString:    "MultiLineString",
	TypeMultiLineStringZ:   "MultiLineStringZ",
	TypeMultiPolygon:       "MultiPolygon",
	TypeMultiPolygonZ:      "MultiPolygonZ",
	TypeGeometryCollection: "GeometryCollection",
}

// String returns the type tag, e.g. "MultiPolygonZ".
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return typeNames[TypeUnknown]
}

// HasZ reports whether t carries a third coordinate component.
func (t Type) HasZ() bool {
	switch t {
	case TypePointZ, TypeLineStringZ, TypePolygonZ,
		TypeMultiPointZ, TypeMultiLineStringZ, TypeMultiPolygonZ:
		return true
	}
	return false
}

// Base returns the two-dimensional sibling of t.
func (t Type) Base() Type {
	if t.HasZ() {
		return t - 1
	}
	return t
}

// ParseType maps a tag such as "LineStringZ" to its variant.
func ParseType(tag string) (Type, bool) {
	for t := TypePoint; t <= TypeGeometryCollection; t++ {
		if typeNames[t] == tag {
			return t, true
		}
	}
	return TypeUnknown, false
}

// TypeOf maps a base tag and Z-ness to a variant. Distinct inputs never share a result.
func TypeOf(tag string, z bool) (Type, bool) {
	t, ok := ParseType(tag)
	if !ok || t.HasZ() {
		return TypeUnknown, false
	}
	if !z {
		return t, true
	}
	if t == TypeGeometryCollection {
		return TypeUnknown, false
	}
	return t + 1, true
}
