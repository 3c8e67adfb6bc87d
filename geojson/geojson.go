package geojson

import (
	"github.com/woozymasta/geoconv/geo"
)

// Unmarshal parses JSON text and decodes it. It returns (nil, nil) for a
// Feature whose geometry is null.
func Unmarshal(data []byte) (geo.Geometry, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Decode(doc)
}

// Marshal encodes g as compact JSON text.
func Marshal(g geo.Geometry) ([]byte, error) {
	doc, err := Encode(g)
	if err != nil {
		return nil, err
	}
	return Format(doc)
}

// MustUnmarshal is like Unmarshal but panics on error.
func MustUnmarshal(data []byte) geo.Geometry {
	g, err := Unmarshal(data)
	if err != nil {
		panic(err)
	}
	return g
}

// MustMarshal is like Marshal but panics on error.
func MustMarshal(g geo.Geometry) []byte {
	data, err := Marshal(g)
	if err != nil {
		panic(err)
	}
	return data
}
