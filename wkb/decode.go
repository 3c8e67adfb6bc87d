package wkb

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/woozymasta/geoconv/geo"
)

// Shortfall describes where a buffer ran out. It is the input carried by
// truncated buffer errors.
type Shortfall struct {
	Offset int
	Want   uint64
	Have   int
}

func (s Shortfall) String() string {
	return fmt.Sprintf("offset %d: want %d bytes, have %d", s.Offset, s.Want, s.Have)
}

// Decode reads one geometry from data. The whole buffer must be consumed.
func Decode(data []byte) (geo.Geometry, error) {
	d := decoder{buf: data}
	g, err := d.geometry()
	if err != nil {
		return nil, err
	}
	if d.off != len(d.buf) {
		return nil, geo.NewError(geo.KindTrailingData, len(d.buf)-d.off)
	}
	return g, nil
}

// DecodeChunks decodes a geometry split across several buffers.
func DecodeChunks(chunks ...[]byte) (geo.Geometry, error) {
	if len(chunks) == 1 {
		return Decode(chunks[0])
	}
	return Decode(bytes.Join(chunks, nil))
}

// Read decodes a geometry from everything r yields.
func Read(r io.Reader) (geo.Geometry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// DecodeHex decodes the hexadecimal form, as printed by PostGIS. A leading
// `\x` or `0x` is accepted.
func DecodeHex(s string) (geo.Geometry, error) {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{`\x`, "0x"} {
		s = strings.TrimPrefix(s, prefix)
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, geo.NewError(geo.KindSyntax, err.Error())
	}
	return Decode(data)
}

// MustDecode is like Decode but panics on error.
func MustDecode(data []byte) geo.Geometry {
	g, err := Decode(data)
	if err != nil {
		panic(err)
	}
	return g
}

type decoder struct {
	buf   []byte
	off   int
	depth int
}

func (d *decoder) need(n uint64) error {
	have := len(d.buf) - d.off
	if n > uint64(have) {
		return geo.NewError(geo.KindTruncatedBuffer, Shortfall{Offset: d.off, Want: n, Have: have})
	}
	return nil
}

// count reads a sequence length and checks that the buffer can hold that many
// elements of at least elemSize bytes each.
func (d *decoder) count(o binary.ByteOrder, elemSize int) (int, error) {
	if err := d.need(countSize); err != nil {
		return 0, err
	}
	n := o.Uint32(d.buf[d.off:])
	d.off += countSize
	if err := d.need(uint64(n) * uint64(elemSize)); err != nil {
		return 0, err
	}
	return int(n), nil
}

func (d *decoder) float(o binary.ByteOrder) float64 {
	v := math.Float64frombits(o.Uint64(d.buf[d.off:]))
	d.off += floatSize
	return v
}

func readXY(d *decoder, o binary.ByteOrder) geo.XY {
	return geo.XY{X: d.float(o), Y: d.float(o)}
}

func readXYZ(d *decoder, o binary.ByteOrder) geo.XYZ {
	return geo.XYZ{X: d.float(o), Y: d.float(o), Z: d.float(o)}
}

func (d *decoder) header() (binary.ByteOrder, geo.Type, geo.SRID, error) {
	var srid geo.SRID
	if err := d.need(headerSize); err != nil {
		return nil, geo.TypeUnknown, srid, err
	}

	var o binary.ByteOrder
	switch flag := d.buf[d.off]; ByteOrder(flag) {
	case BigEndian:
		o = binary.BigEndian
	case LittleEndian:
		o = binary.LittleEndian
	default:
		return nil, geo.TypeUnknown, srid, geo.NewError(geo.KindInvalidByteOrder, flag)
	}
	word := o.Uint32(d.buf[d.off+1:])
	d.off += headerSize

	if word&flagSRID != 0 {
		if err := d.need(4); err != nil {
			return nil, geo.TypeUnknown, srid, err
		}
		srid = geo.Code(int(o.Uint32(d.buf[d.off:])))
		d.off += 4
	}

	t, ok := typeFromWord(word &^ flagSRID)
	if !ok {
		return nil, geo.TypeUnknown, srid, geo.NewError(geo.KindUnknownTypeCode, word)
	}
	return o, t, srid, nil
}

func (d *decoder) geometry() (geo.Geometry, error) {
	if d.depth >= MaxDepth {
		return nil, geo.NewError(geo.KindTooDeep, d.off)
	}
	d.depth++
	defer func() { d.depth-- }()

	o, t, srid, err := d.header()
	if err != nil {
		return nil, err
	}
	width := stride(t) * floatSize

	switch t {
	case geo.TypePoint:
		if err := d.need(uint64(width)); err != nil {
			return nil, err
		}
		c := readXY(d, o)
		if math.IsNaN(c.X) && math.IsNaN(c.Y) {
			return geo.Point{SRID: srid}, nil
		}
		return geo.Point{Coordinates: &c, SRID: srid}, nil

	case geo.TypePointZ:
		if err := d.need(uint64(width)); err != nil {
			return nil, err
		}
		c := readXYZ(d, o)
		if math.IsNaN(c.X) && math.IsNaN(c.Y) && math.IsNaN(c.Z) {
			return geo.PointZ{SRID: srid}, nil
		}
		return geo.PointZ{Coordinates: &c, SRID: srid}, nil

	case geo.TypeLineString:
		cs, err := readCoords(d, o, width, readXY)
		if err != nil {
			return nil, err
		}
		return geo.LineString{Coordinates: cs, SRID: srid}, nil

	case geo.TypeLineStringZ:
		cs, err := readCoords(d, o, width, readXYZ)
		if err != nil {
			return nil, err
		}
		return geo.LineStringZ{Coordinates: cs, SRID: srid}, nil

	case geo.TypePolygon:
		cs, err := readRings(d, o, width, readXY)
		if err != nil {
			return nil, err
		}
		return geo.Polygon{Coordinates: cs, SRID: srid}, nil

	case geo.TypePolygonZ:
		cs, err := readRings(d, o, width, readXYZ)
		if err != nil {
			return nil, err
		}
		return geo.PolygonZ{Coordinates: cs, SRID: srid}, nil

	case geo.TypeMultiPoint:
		cs, err := readMembers(d, o, geo.TypePoint, func(g geo.Geometry) geo.XY {
			if c := g.(geo.Point).Coordinates; c != nil {
				return *c
			}
			return geo.XY{X: math.NaN(), Y: math.NaN()}
		})
		if err != nil {
			return nil, err
		}
		return geo.MultiPoint{Coordinates: cs, SRID: srid}, nil

	case geo.TypeMultiPointZ:
		cs, err := readMembers(d, o, geo.TypePointZ, func(g geo.Geometry) geo.XYZ {
			if c := g.(geo.PointZ).Coordinates; c != nil {
				return *c
			}
			return geo.XYZ{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}
		})
		if err != nil {
			return nil, err
		}
		return geo.MultiPointZ{Coordinates: cs, SRID: srid}, nil

	case geo.TypeMultiLineString:
		cs, err := readMembers(d, o, geo.TypeLineString, func(g geo.Geometry) []geo.XY {
			return g.(geo.LineString).Coordinates
		})
		if err != nil {
			return nil, err
		}
		return geo.MultiLineString{Coordinates: cs, SRID: srid}, nil

	case geo.TypeMultiLineStringZ:
		cs, err := readMembers(d, o, geo.TypeLineStringZ, func(g geo.Geometry) []geo.XYZ {
			return g.(geo.LineStringZ).Coordinates
		})
		if err != nil {
			return nil, err
		}
		return geo.MultiLineStringZ{Coordinates: cs, SRID: srid}, nil

	case geo.TypeMultiPolygon:
		cs, err := readMembers(d, o, geo.TypePolygon, func(g geo.Geometry) [][]geo.XY {
			return g.(geo.Polygon).Coordinates
		})
		if err != nil {
			return nil, err
		}
		return geo.MultiPolygon{Coordinates: cs, SRID: srid}, nil

	case geo.TypeMultiPolygonZ:
		cs, err := readMembers(d, o, geo.TypePolygonZ, func(g geo.Geometry) [][]geo.XYZ {
			return g.(geo.PolygonZ).Coordinates
		})
		if err != nil {
			return nil, err
		}
		return geo.MultiPolygonZ{Coordinates: cs, SRID: srid}, nil

	case geo.TypeGeometryCollection:
		gs, err := readMembers(d, o, geo.TypeUnknown, func(g geo.Geometry) geo.Geometry { return g })
		if err != nil {
			return nil, err
		}
		return geo.GeometryCollection{Geometries: gs, SRID: srid}, nil
	}

	return nil, geo.NewError(geo.KindUnknownTypeCode, wordFromType(t))
}

func readCoords[C any](d *decoder, o binary.ByteOrder, width int, leaf func(*decoder, binary.ByteOrder) C) ([]C, error) {
	n, err := d.count(o, width)
	if err != nil {
		return nil, err
	}
	out := make([]C, n)
	for i := range out {
		out[i] = leaf(d, o)
	}
	return out, nil
}

func readRings[C any](d *decoder, o binary.ByteOrder, width int, leaf func(*decoder, binary.ByteOrder) C) ([][]C, error) {
	n, err := d.count(o, countSize)
	if err != nil {
		return nil, err
	}
	out := make([][]C, n)
	for i := range out {
		if out[i], err = readCoords(d, o, width, leaf); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// readMembers reads counted nested geometries. Each member has its own header;
// want restricts the member variant unless it is geo.TypeUnknown.
func readMembers[T any](d *decoder, o binary.ByteOrder, want geo.Type, unwrap func(geo.Geometry) T) ([]T, error) {
	n, err := d.count(o, headerSize)
	if err != nil {
		return nil, err
	}
	out := make([]T, n)
	for i := range out {
		g, err := d.geometry()
		if err != nil {
			return nil, err
		}
		if want != geo.TypeUnknown && g.Type() != want {
			return nil, geo.NewError(geo.KindUnknownTypeCode, wordFromType(g.Type()))
		}
		out[i] = unwrap(g)
	}
	return out, nil
}
