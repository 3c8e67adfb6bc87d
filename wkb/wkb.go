// Package wkb implements Well Known Binary encoding and decoding with the
// extended (EWKB) SRID and Z flags used by PostGIS.
//
// Layout of every geometry:
//
//	[1]  byte order (0 big endian, 1 little endian)
//	[4]  type word: base code, optionally OR'd with the Z and SRID flags
//	[4]  SRID, present iff the SRID flag is set
//	[..] payload: float64 components, uint32-counted sequences, nested geometries
package wkb

import (
	"encoding/binary"

	"github.com/woozymasta/geoconv/geo"
)

// ByteOrder is the leading flag of an encoded geometry.
type ByteOrder byte

// Byte orders.
const (
	// BigEndian is XDR.
	BigEndian ByteOrder = 0
	// LittleEndian is NDR.
	LittleEndian ByteOrder = 1
)

func (o ByteOrder) binary() binary.AppendByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (o ByteOrder) String() string {
	switch o {
	case BigEndian:
		return "xdr"
	case LittleEndian:
		return "ndr"
	}
	return "invalid"
}

// Geometry type codes.
const (
	pointCode              = 1
	lineStringCode         = 2
	polygonCode            = 3
	multiPointCode         = 4
	multiLineStringCode    = 5
	multiPolygonCode       = 6
	geometryCollectionCode = 7
)

// Type word flags. Z and M may also be expressed as ISO offsets.
const (
	flagZ    uint32 = 0x80000000
	flagM    uint32 = 0x40000000
	flagSRID uint32 = 0x20000000

	isoZ = 1000
)

const (
	headerSize = 1 + 4
	countSize  = 4
	floatSize  = 8
)

// MaxDepth bounds the nesting of geometries inside collections.
const MaxDepth = 64

var baseTypes = [...]geo.Type{
	pointCode:              geo.TypePoint,
	lineStringCode:         geo.TypeLineString,
	polygonCode:            geo.TypePolygon,
	multiPointCode:         geo.TypeMultiPoint,
	multiLineStringCode:    geo.TypeMultiLineString,
	multiPolygonCode:       geo.TypeMultiPolygon,
	geometryCollectionCode: geo.TypeGeometryCollection,
}

// typeFromWord maps a type word (SRID flag already removed) to a variant.
func typeFromWord(word uint32) (geo.Type, bool) {
	if word&flagM != 0 {
		return geo.TypeUnknown, false
	}
	z := word&flagZ != 0
	code := word &^ flagZ

	switch code / 1000 * 1000 {
	case 0:
	case isoZ:
		if z {
			return geo.TypeUnknown, false
		}
		z = true
		code -= isoZ
	default:
		// M, ZM and unknown ranges
		return geo.TypeUnknown, false
	}

	if code == 0 || code >= uint32(len(baseTypes)) {
		return geo.TypeUnknown, false
	}
	if code == geometryCollectionCode {
		// members carry their own dimensions
		return geo.TypeGeometryCollection, true
	}
	return geo.TypeOf(baseTypes[code].String(), z)
}

// wordFromType is the inverse of typeFromWord, using the EWKB Z flag.
func wordFromType(t geo.Type) uint32 {
	var word uint32
	for code, base := range baseTypes {
		if base != geo.TypeUnknown && base == t.Base() {
			word = uint32(code)
		}
	}
	if t.HasZ() {
		word |= flagZ
	}
	return word
}

func stride(t geo.Type) int {
	if t.HasZ() {
		return 3
	}
	return 2
}
