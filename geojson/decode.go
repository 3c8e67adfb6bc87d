package geojson

import (
	"github.com/woozymasta/geoconv/geo"
)

// Decode builds a geometry from a parsed document.
//
// The document shapes are tried in order, first match wins:
//   - an object with "geometries" is a GeometryCollection whose "crs" applies to every member;
//   - an object with "coordinates" is a single geometry;
//   - a "Feature" yields its geometry with the feature's properties and no SRID,
//     or nil when the geometry is null;
//   - a "FeatureCollection" yields a GeometryCollection of its non-null feature geometries.
//
// Anything else fails with geo.ErrUnrecognizedDocument.
func Decode(doc Value) (geo.Geometry, error) {
	obj, ok := doc.(Object)
	if !ok {
		return nil, geo.NewError(geo.KindUnrecognizedDocument, doc)
	}

	if geoms, ok := obj["geometries"]; ok {
		srid, err := ResolveSRID(obj["crs"])
		if err != nil {
			return nil, err
		}
		return decodeCollection(geoms, obj["properties"], srid)
	}

	if coords, ok := obj["coordinates"]; ok {
		srid, err := ResolveSRID(obj["crs"])
		if err != nil {
			return nil, err
		}
		return decodeGeometry(obj["type"], coords, obj["properties"], srid)
	}

	switch obj["type"] {
	case String("Feature"):
		return decodeFeature(obj)
	case String("FeatureCollection"):
		return decodeFeatureCollection(obj)
	}

	return nil, geo.NewError(geo.KindUnrecognizedDocument, doc)
}

// MustDecode is like Decode but panics on error.
func MustDecode(doc Value) geo.Geometry {
	g, err := Decode(doc)
	if err != nil {
		panic(err)
	}
	return g
}

func decodeCollection(geoms, props Value, srid geo.SRID) (geo.Geometry, error) {
	arr, ok := geoms.(Array)
	if !ok {
		return nil, geo.NewError(geo.KindUnrecognizedDocument, geoms)
	}
	properties, err := decodeProperties(props)
	if err != nil {
		return nil, err
	}

	members, err := geo.Map(arr, func(m Value) (geo.Geometry, error) {
		obj, ok := m.(Object)
		if !ok {
			return nil, geo.NewError(geo.KindUnrecognizedDocument, m)
		}
		if nested, ok := obj["geometries"]; ok {
			return decodeCollection(nested, obj["properties"], srid)
		}
		return decodeGeometry(obj["type"], obj["coordinates"], obj["properties"], srid)
	})
	if err != nil {
		return nil, err
	}

	return geo.GeometryCollection{Geometries: members, SRID: srid, Properties: properties}, nil
}

// decodeFeature never consults a crs: feature geometries always have an absent SRID.
func decodeFeature(obj Object) (geo.Geometry, error) {
	g := obj["geometry"]
	if IsNull(g) {
		return nil, nil
	}

	gobj, ok := g.(Object)
	if !ok {
		return nil, geo.NewError(geo.KindUnrecognizedDocument, g)
	}
	if geoms, ok := gobj["geometries"]; ok {
		return decodeCollection(geoms, obj["properties"], geo.SRID{})
	}
	return decodeGeometry(gobj["type"], gobj["coordinates"], obj["properties"], geo.SRID{})
}

// decodeFeatureCollection drops null feature geometries. Feature properties
// stay on the member geometries, the collection itself gets none.
func decodeFeatureCollection(obj Object) (geo.Geometry, error) {
	features, ok := obj["features"].(Array)
	if !ok {
		return nil, geo.NewError(geo.KindUnrecognizedDocument, obj)
	}

	members := make([]geo.Geometry, 0, len(features))
	for _, f := range features {
		fobj, ok := f.(Object)
		if !ok || fobj["type"] != String("Feature") {
			return nil, geo.NewError(geo.KindUnrecognizedDocument, f)
		}
		g, err := decodeFeature(fobj)
		if err != nil {
			return nil, err
		}
		if g == nil {
			continue
		}
		members = append(members, g)
	}

	return geo.GeometryCollection{Geometries: members}, nil
}

func decodeProperties(v Value) (map[string]any, error) {
	if IsNull(v) {
		return nil, nil
	}
	obj, ok := v.(Object)
	if !ok {
		return nil, geo.NewError(geo.KindUnrecognizedDocument, v)
	}
	if len(obj) == 0 {
		return nil, nil
	}
	return ToAny(obj).(map[string]any), nil
}

func decodeGeometry(tag, coords, props Value, srid geo.SRID) (geo.Geometry, error) {
	name, ok := tag.(String)
	if !ok {
		return nil, geo.NewError(geo.KindUnrecognizedType, tag)
	}
	properties, err := decodeProperties(props)
	if err != nil {
		return nil, err
	}
	return dispatch(string(name), coords, properties, srid)
}

// dispatch selects the variant from the type tag. Z variants come only from an
// explicit "<Type>Z" tag, except for Point where a triple selects PointZ.
func dispatch(tag string, coords Value, props map[string]any, srid geo.SRID) (geo.Geometry, error) {
	switch tag {
	case "Point":
		if arr, ok := coords.(Array); ok {
			switch len(arr) {
			case 3:
				c, err := triple(arr)
				if err != nil {
					return nil, err
				}
				return geo.PointZ{Coordinates: &c, SRID: srid, Properties: props}, nil
			case 2:
				c, err := pair(arr)
				if err != nil {
					return nil, err
				}
				return geo.Point{Coordinates: &c, SRID: srid, Properties: props}, nil
			case 0:
				return geo.Point{SRID: srid, Properties: props}, nil
			}
		}

	case "PointZ":
		if arr, ok := coords.(Array); ok {
			if len(arr) == 0 {
				return geo.PointZ{SRID: srid, Properties: props}, nil
			}
			c, err := triple(arr)
			if err != nil {
				return nil, err
			}
			return geo.PointZ{Coordinates: &c, SRID: srid, Properties: props}, nil
		}

	case "LineString":
		cs, err := depth1(coords, pair)
		if err != nil {
			return nil, err
		}
		return geo.LineString{Coordinates: cs, SRID: srid, Properties: props}, nil

	case "LineStringZ":
		cs, err := depth1(coords, triple)
		if err != nil {
			return nil, err
		}
		return geo.LineStringZ{Coordinates: cs, SRID: srid, Properties: props}, nil

	case "MultiPoint":
		cs, err := depth1(coords, pair)
		if err != nil {
			return nil, err
		}
		return geo.MultiPoint{Coordinates: cs, SRID: srid, Properties: props}, nil

	case "MultiPointZ":
		cs, err := depth1(coords, triple)
		if err != nil {
			return nil, err
		}
		return geo.MultiPointZ{Coordinates: cs, SRID: srid, Properties: props}, nil

	case "Polygon":
		cs, err := depth2(coords, pair)
		if err != nil {
			return nil, err
		}
		return geo.Polygon{Coordinates: cs, SRID: srid, Properties: props}, nil

	case "PolygonZ":
		cs, err := depth2(coords, triple)
		if err != nil {
			return nil, err
		}
		return geo.PolygonZ{Coordinates: cs, SRID: srid, Properties: props}, nil

	case "MultiLineString":
		cs, err := depth2(coords, pair)
		if err != nil {
			return nil, err
		}
		return geo.MultiLineString{Coordinates: cs, SRID: srid, Properties: props}, nil

	case "MultiLineStringZ":
		cs, err := depth2(coords, triple)
		if err != nil {
			return nil, err
		}
		return geo.MultiLineStringZ{Coordinates: cs, SRID: srid, Properties: props}, nil

	case "MultiPolygon":
		cs, err := depth3(coords, pair)
		if err != nil {
			return nil, err
		}
		return geo.MultiPolygon{Coordinates: cs, SRID: srid, Properties: props}, nil

	case "MultiPolygonZ":
		cs, err := depth3(coords, triple)
		if err != nil {
			return nil, err
		}
		return geo.MultiPolygonZ{Coordinates: cs, SRID: srid, Properties: props}, nil
	}

	// unmatched: a bare triple is retried without its third component
	if arr, ok := coords.(Array); ok && len(arr) == 3 {
		return dispatch(tag, arr[:2], props, srid)
	}
	return nil, geo.NewError(geo.KindUnrecognizedType, tag)
}

func numbers(v Value) ([]float64, error) {
	arr, ok := v.(Array)
	if !ok {
		return nil, geo.NewError(geo.KindMalformedCoordinate, v)
	}
	out := make([]float64, len(arr))
	for i, e := range arr {
		n, ok := e.(Number)
		if !ok {
			return nil, geo.NewError(geo.KindMalformedCoordinate, v)
		}
		out[i] = float64(n)
	}
	return out, nil
}

func pair(v Value) (geo.XY, error) {
	seq, err := numbers(v)
	if err != nil {
		return geo.XY{}, err
	}
	return geo.PairFromSequence(seq)
}

func triple(v Value) (geo.XYZ, error) {
	seq, err := numbers(v)
	if err != nil {
		return geo.XYZ{}, err
	}
	return geo.TripleFromSequence(seq)
}

func array(v Value) (Array, error) {
	arr, ok := v.(Array)
	if !ok {
		return nil, geo.NewError(geo.KindMalformedCoordinate, v)
	}
	return arr, nil
}

func depth1[C any](v Value, leaf func(Value) (C, error)) ([]C, error) {
	arr, err := array(v)
	if err != nil {
		return nil, err
	}
	return geo.Map(arr, leaf)
}

func depth2[C any](v Value, leaf func(Value) (C, error)) ([][]C, error) {
	arr, err := array(v)
	if err != nil {
		return nil, err
	}
	return geo.Map(arr, func(e Value) ([]C, error) { return depth1(e, leaf) })
}

func depth3[C any](v Value, leaf func(Value) (C, error)) ([][][]C, error) {
	arr, err := array(v)
	if err != nil {
		return nil, err
	}
	return geo.Map(arr, func(e Value) ([][]C, error) { return depth2(e, leaf) })
}
