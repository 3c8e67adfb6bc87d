// Package geo defines the canonical geometry model shared by the GeoJSON, WKB and WKT codecs.
package geo

// Geometry is one of the variants defined in this package.
// A nil Geometry is the absence value ("no geometry"), distinct from an error.
type Geometry interface {
	Type() Type
	SpatialRef() SRID
	Props() map[string]any
	isGeometry()
}

// XY is a two-dimensional coordinate.
type XY struct {
	X, Y float64
}

// XYZ is a three-dimensional coordinate.
type XYZ struct {
	X, Y, Z float64
}

// Point is a single position. A nil Coordinates is the empty point.
type Point struct {
	Coordinates *XY
	SRID        SRID
	Properties  map[string]any
}

// PointZ is a single position with elevation.
type PointZ struct {
	Coordinates *XYZ
	SRID        SRID
	Properties  map[string]any
}

// LineString is a sequence of positions.
type LineString struct {
	Coordinates []XY
	SRID        SRID
	Properties  map[string]any
}

// LineStringZ is a sequence of positions with elevation.
type LineStringZ struct {
	Coordinates []XYZ
	SRID        SRID
	Properties  map[string]any
}

// Polygon is a list of rings, exterior first.
type Polygon struct {
	Coordinates [][]XY
	SRID        SRID
	Properties  map[string]any
}

// PolygonZ is a list of rings with elevation.
type PolygonZ struct {
	Coordinates [][]XYZ
	SRID        SRID
	Properties  map[string]any
}

// MultiPoint is a set of positions.
type MultiPoint struct {
	Coordinates []XY
	SRID        SRID
	Properties  map[string]any
}

// MultiPointZ is a set of positions with elevation.
type MultiPointZ struct {
	Coordinates []XYZ
	SRID        SRID
	Properties  map[string]any
}

// MultiLineString is a set of line strings.
type MultiLineString struct {
	Coordinates [][]XY
	SRID        SRID
	Properties  map[string]any
}

// MultiLineStringZ is a set of line strings with elevation.
type MultiLineStringZ struct {
	Coordinates [][]XYZ
	SRID        SRID
	Properties  map[string]any
}

// MultiPolygon is a set of polygons.
type MultiPolygon struct {
	Coordinates [][][]XY
	SRID        SRID
	Properties  map[string]any
}

// MultiPolygonZ is a set of polygons with elevation.
type MultiPolygonZ struct {
	Coordinates [][][]XYZ
	SRID        SRID
	Properties  map[string]any
}

// GeometryCollection holds heterogeneous geometries. Its Properties are
// independent of the members' properties.
type GeometryCollection struct {
	Geometries []Geometry
	SRID       SRID
	Properties map[string]any
}

func (Point) Type() Type              { return TypePoint }
func (PointZ) Type() Type             { return TypePointZ }
func (LineString) Type() Type         { return TypeLineString }
func (LineStringZ) Type() Type        { return TypeLineStringZ }
func (Polygon) Type() Type            { return TypePolygon }
func (PolygonZ) Type() Type           { return TypePolygonZ }
func (MultiPoint) Type() Type         { return TypeMultiPoint }
func (MultiPointZ) Type() Type        { return TypeMultiPointZ }
func (MultiLineString) Type() Type    { return TypeMultiLineString }
func (MultiLineStringZ) Type() Type   { return TypeMultiLineStringZ }
func (MultiPolygon) Type() Type       { return TypeMultiPolygon }
func (MultiPolygonZ) Type() Type      { return TypeMultiPolygonZ }
func (GeometryCollection) Type() Type { return TypeGeometryCollection }

func (g Point) SpatialRef() SRID              { return g.SRID }
func (g PointZ) SpatialRef() SRID             { return g.SRID }
func (g LineString) SpatialRef() SRID         { return g.SRID }
func (g LineStringZ) SpatialRef() SRID        { return g.SRID }
func (g Polygon) SpatialRef() SRID            { return g.SRID }
func (g PolygonZ) SpatialRef() SRID           { return g.SRID }
func (g MultiPoint) SpatialRef() SRID         { return g.SRID }
func (g MultiPointZ) SpatialRef() SRID        { return g.SRID }
func (g MultiLineString) SpatialRef() SRID    { return g.SRID }
func (g MultiLineStringZ) SpatialRef() SRID   { return g.SRID }
func (g MultiPolygon) SpatialRef() SRID       { return g.SRID }
func (g MultiPolygonZ) SpatialRef() SRID      { return g.SRID }
func (g GeometryCollection) SpatialRef() SRID { return g.SRID }

func (g Point) Props() map[string]any              { return g.Properties }
func (g PointZ) Props() map[string]any             { return g.Properties }
func (g LineString) Props() map[string]any         { return g.Properties }
func (g LineStringZ) Props() map[string]any        { return g.Properties }
func (g Polygon) Props() map[string]any            { return g.Properties }
func (g PolygonZ) Props() map[string]any           { return g.Properties }
func (g MultiPoint) Props() map[string]any         { return g.Properties }
func (g MultiPointZ) Props() map[string]any        { return g.Properties }
func (g MultiLineString) Props() map[string]any    { return g.Properties }
func (g MultiLineStringZ) Props() map[string]any   { return g.Properties }
func (g MultiPolygon) Props() map[string]any       { return g.Properties }
func (g MultiPolygonZ) Props() map[string]any      { return g.Properties }
func (g GeometryCollection) Props() map[string]any { return g.Properties }

func (Point) isGeometry()              {}
func (PointZ) isGeometry()             {}
func (LineString) isGeometry()         {}
func (LineStringZ) isGeometry()        {}
func (Polygon) isGeometry()            {}
func (PolygonZ) isGeometry()           {}
func (MultiPoint) isGeometry()         {}
func (MultiPointZ) isGeometry()        {}
func (MultiLineString) isGeometry()    {}
func (MultiLineStringZ) isGeometry()   {}
func (MultiPolygon) isGeometry()       {}
func (MultiPolygonZ) isGeometry()      {}
func (GeometryCollection) isGeometry() {}

// WithSRID returns a copy of g carrying srid. Collection members are left untouched.
func WithSRID(g Geometry, srid SRID) Geometry {
	switch g := g.(type) {
	case Point:
		g.SRID = srid
		return g
	case PointZ:
		g.SRID = srid
		return g
	case LineString:
		g.SRID = srid
		return g
	case LineStringZ:
		g.SRID = srid
		return g
	case Polygon:
		g.SRID = srid
		return g
	case PolygonZ:
		g.SRID = srid
		return g
	case MultiPoint:
		g.SRID = srid
		return g
	case MultiPointZ:
		g.SRID = srid
		return g
	case MultiLineString:
		g.SRID = srid
		return g
	case MultiLineStringZ:
		g.SRID = srid
		return g
	case MultiPolygon:
		g.SRID = srid
		return g
	case MultiPolygonZ:
		g.SRID = srid
		return g
	case GeometryCollection:
		g.SRID = srid
		return g
	}
	return g
}
