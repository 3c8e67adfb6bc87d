package wkb

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"math"
	"strings"

	"github.com/woozymasta/geoconv/geo"
)

// Encode returns the EWKB form of g in the given byte order.
func Encode(g geo.Geometry, order ByteOrder) ([]byte, error) {
	return Append(nil, g, order)
}

// Append appends the encoding of g to dst. On error dst is returned unchanged.
func Append(dst []byte, g geo.Geometry, order ByteOrder) ([]byte, error) {
	if order != BigEndian && order != LittleEndian {
		return dst, geo.NewError(geo.KindInvalidByteOrder, byte(order))
	}
	e := encoder{buf: dst, order: order, bo: order.binary()}
	if err := e.geometry(g); err != nil {
		return dst, err
	}
	return e.buf, nil
}

// Write encodes g to w.
func Write(w io.Writer, g geo.Geometry, order ByteOrder) error {
	data, err := Encode(g, order)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// EncodeHex returns the upper case hexadecimal form, as used by PostGIS.
func EncodeHex(g geo.Geometry, order ByteOrder) (string, error) {
	data, err := Encode(g, order)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(data)), nil
}

// MustEncode is like Encode but panics on error.
func MustEncode(g geo.Geometry, order ByteOrder) []byte {
	data, err := Encode(g, order)
	if err != nil {
		panic(err)
	}
	return data
}

// emptyBits is the quiet NaN PostGIS writes for empty point coordinates.
const emptyBits = 0x7FF8000000000000

type encoder struct {
	buf   []byte
	order ByteOrder
	bo    binary.AppendByteOrder
}

func (e *encoder) header(t geo.Type, srid geo.SRID) error {
	word := wordFromType(t)
	code, ok, err := sridCode(srid)
	if err != nil {
		return err
	}
	if ok {
		word |= flagSRID
	}

	e.buf = append(e.buf, byte(e.order))
	e.buf = e.bo.AppendUint32(e.buf, word)
	if ok {
		e.buf = e.bo.AppendUint32(e.buf, code)
	}
	return nil
}

// sridCode reports the numeric code to write. Named identifiers have no
// binary form.
func sridCode(srid geo.SRID) (uint32, bool, error) {
	if srid.IsZero() {
		return 0, false, nil
	}
	n, ok := srid.Int()
	if !ok || n < 0 || uint64(n) > math.MaxUint32 {
		return 0, false, geo.NewError(geo.KindInvalidSRID, srid.String())
	}
	return uint32(n), true, nil
}

func (e *encoder) count(n int) {
	e.buf = e.bo.AppendUint32(e.buf, uint32(n))
}

func (e *encoder) float(v float64) {
	e.buf = e.bo.AppendUint64(e.buf, math.Float64bits(v))
}

func (e *encoder) xy(c geo.XY) {
	e.float(c.X)
	e.float(c.Y)
}

func (e *encoder) xyz(c geo.XYZ) {
	e.float(c.X)
	e.float(c.Y)
	e.float(c.Z)
}

func writeCoords[C any](e *encoder, cs []C, leaf func(*encoder, C)) {
	e.count(len(cs))
	for _, c := range cs {
		leaf(e, c)
	}
}

func writeRings[C any](e *encoder, rings [][]C, leaf func(*encoder, C)) {
	e.count(len(rings))
	for _, r := range rings {
		writeCoords(e, r, leaf)
	}
}

func (e *encoder) geometry(g geo.Geometry) error {
	if g == nil {
		return geo.ErrNilGeometry
	}
	if err := e.header(g.Type(), g.SpatialRef()); err != nil {
		return err
	}

	nan := math.Float64frombits(emptyBits)
	switch g := g.(type) {
	case geo.Point:
		if g.Coordinates == nil {
			e.xy(geo.XY{X: nan, Y: nan})
		} else {
			e.xy(*g.Coordinates)
		}
	case geo.PointZ:
		if g.Coordinates == nil {
			e.xyz(geo.XYZ{X: nan, Y: nan, Z: nan})
		} else {
			e.xyz(*g.Coordinates)
		}
	case geo.LineString:
		writeCoords(e, g.Coordinates, (*encoder).xy)
	case geo.LineStringZ:
		writeCoords(e, g.Coordinates, (*encoder).xyz)
	case geo.Polygon:
		writeRings(e, g.Coordinates, (*encoder).xy)
	case geo.PolygonZ:
		writeRings(e, g.Coordinates, (*encoder).xyz)

	case geo.MultiPoint:
		e.count(len(g.Coordinates))
		for _, c := range g.Coordinates {
			_ = e.header(geo.TypePoint, geo.SRID{})
			e.xy(c)
		}
	case geo.MultiPointZ:
		e.count(len(g.Coordinates))
		for _, c := range g.Coordinates {
			_ = e.header(geo.TypePointZ, geo.SRID{})
			e.xyz(c)
		}
	case geo.MultiLineString:
		e.count(len(g.Coordinates))
		for _, ls := range g.Coordinates {
			_ = e.header(geo.TypeLineString, geo.SRID{})
			writeCoords(e, ls, (*encoder).xy)
		}
	case geo.MultiLineStringZ:
		e.count(len(g.Coordinates))
		for _, ls := range g.Coordinates {
			_ = e.header(geo.TypeLineStringZ, geo.SRID{})
			writeCoords(e, ls, (*encoder).xyz)
		}
	case geo.MultiPolygon:
		e.count(len(g.Coordinates))
		for _, p := range g.Coordinates {
			_ = e.header(geo.TypePolygon, geo.SRID{})
			writeRings(e, p, (*encoder).xy)
		}
	case geo.MultiPolygonZ:
		e.count(len(g.Coordinates))
		for _, p := range g.Coordinates {
			_ = e.header(geo.TypePolygonZ, geo.SRID{})
			writeRings(e, p, (*encoder).xyz)
		}

	case geo.GeometryCollection:
		e.count(len(g.Geometries))
		for _, m := range g.Geometries {
			if err := e.geometry(m); err != nil {
				return err
			}
		}
	}
	return nil
}
