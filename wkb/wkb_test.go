package wkb

import (
	"bytes"
	"encoding/hex"
	"math"
	"testing"

	"github.com/woozymasta/geoconv/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
)

func roundTripCases() []geo.Geometry {
	return []geo.Geometry{
		geo.Point{Coordinates: &geo.XY{X: 1, Y: 2}},
		geo.Point{SRID: geo.Code(4326)},
		geo.PointZ{Coordinates: &geo.XYZ{X: 1, Y: 2, Z: 3}, SRID: geo.Code(4326)},
		geo.PointZ{},
		geo.LineString{Coordinates: []geo.XY{{1, 2}, {3, 4}}},
		geo.LineString{Coordinates: []geo.XY{}},
		geo.LineStringZ{Coordinates: []geo.XYZ{{1, 2, 3}, {4, 5, 6}}},
		geo.Polygon{Coordinates: [][]geo.XY{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}, SRID: geo.Code(3857)},
		geo.PolygonZ{Coordinates: [][]geo.XYZ{{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 0, 1}}}},
		geo.MultiPoint{Coordinates: []geo.XY{{1, 2}, {3, 4}}},
		geo.MultiPointZ{Coordinates: []geo.XYZ{{1, 2, 3}}},
		geo.MultiPoint{Coordinates: []geo.XY{{math.NaN(), math.NaN()}, {1, 2}}},
		geo.MultiLineString{Coordinates: [][]geo.XY{}},
		geo.MultiLineString{Coordinates: [][]geo.XY{{{1, 2}, {3, 4}}, {}}},
		geo.MultiLineStringZ{Coordinates: [][]geo.XYZ{{{1, 2, 3}, {3, 4, 5}}}},
		geo.MultiPolygon{Coordinates: [][][]geo.XY{{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}}},
		geo.MultiPolygonZ{Coordinates: [][][]geo.XYZ{{{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 0, 0}}}}},
		geo.GeometryCollection{Geometries: []geo.Geometry{}},
		geo.GeometryCollection{
			SRID: geo.Code(4326),
			Geometries: []geo.Geometry{
				geo.Point{Coordinates: &geo.XY{X: 1, Y: 1}},
				geo.LineStringZ{Coordinates: []geo.XYZ{{1, 2, 3}}, SRID: geo.Code(4326)},
				geo.GeometryCollection{Geometries: []geo.Geometry{geo.PointZ{}}},
			},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	for _, order := range []ByteOrder{LittleEndian, BigEndian} {
		for _, g := range roundTripCases() {
			t.Run(order.String()+"/"+g.Type().String(), func(t *testing.T) {
				data, err := Encode(g, order)
				require.NoError(t, err)
				assert.Equal(t, byte(order), data[0])

				got, err := Decode(data)
				require.NoError(t, err, hex.EncodeToString(data))
				assert.True(t, geo.Equal(g, got), "want %#v, got %#v", g, got)
			})
		}
	}
}

func TestDecodeKnownBytes(t *testing.T) {
	testCases := []struct {
		desc     string
		hex      string
		expected geo.Geometry
	}{
		{
			desc:     "ndr point",
			hex:      "0101000000000000000000F03F0000000000000040",
			expected: geo.Point{Coordinates: &geo.XY{X: 1, Y: 2}},
		},
		{
			desc:     "xdr point",
			hex:      "00000000013FF00000000000004000000000000000",
			expected: geo.Point{Coordinates: &geo.XY{X: 1, Y: 2}},
		},
		{
			desc:     "ewkb point with srid",
			hex:      "0101000020E6100000000000000000F03F0000000000000040",
			expected: geo.Point{Coordinates: &geo.XY{X: 1, Y: 2}, SRID: geo.Code(4326)},
		},
		{
			desc:     "ewkb point z",
			hex:      "0101000080000000000000F03F00000000000000400000000000000840",
			expected: geo.PointZ{Coordinates: &geo.XYZ{X: 1, Y: 2, Z: 3}},
		},
		{
			desc:     "iso point z",
			hex:      "01E9030000000000000000F03F00000000000000400000000000000840",
			expected: geo.PointZ{Coordinates: &geo.XYZ{X: 1, Y: 2, Z: 3}},
		},
		{
			desc:     "empty point",
			hex:      "0101000000000000000000F87F000000000000F87F",
			expected: geo.Point{},
		},
		{
			desc:     "empty collection",
			hex:      "010700000000000000",
			expected: geo.GeometryCollection{},
		},
		{
			desc:     "z flagged collection",
			hex:      "010700008000000000",
			expected: geo.GeometryCollection{},
		},
		{
			desc: "multipoint with mixed member byte orders",
			hex: "010400000002000000" +
				"0101000000000000000000F03F0000000000000040" +
				"000000000140080000000000004010000000000000",
			expected: geo.MultiPoint{Coordinates: []geo.XY{{1, 2}, {3, 4}}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := DecodeHex(tc.hex)
			require.NoError(t, err)
			assert.True(t, geo.Equal(tc.expected, got), "want %#v, got %#v", tc.expected, got)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	testCases := []struct {
		desc string
		hex  string
		kind geo.Kind
	}{
		{"empty buffer", "", geo.KindTruncatedBuffer},
		{"short header", "0101", geo.KindTruncatedBuffer},
		{"short point", "0101000000000000000000F03F", geo.KindTruncatedBuffer},
		{"short srid", "0101000020E610", geo.KindTruncatedBuffer},
		{"huge count", "0102000000FFFFFFFF", geo.KindTruncatedBuffer},
		{"byte order", "0201000000000000000000F03F0000000000000040", geo.KindInvalidByteOrder},
		{"type code zero", "0100000000", geo.KindUnknownTypeCode},
		{"type code eight", "0108000000", geo.KindUnknownTypeCode},
		{"m flag", "0101000040000000000000F03F0000000000000040", geo.KindUnknownTypeCode},
		{"iso m", "01D1070000", geo.KindUnknownTypeCode},
		{"iso zm", "01B90B0000", geo.KindUnknownTypeCode},
		{"z flag with iso z", "01E9030080", geo.KindUnknownTypeCode},
		{
			"multipoint with linestring member",
			"010400000001000000" + "010200000000000000",
			geo.KindUnknownTypeCode,
		},
		{
			"multipoint with z member",
			"010400000001000000" + "0101000080000000000000F03F00000000000000400000000000000840",
			geo.KindUnknownTypeCode,
		},
		{"trailing data", "0101000000000000000000F03F000000000000004000", geo.KindTrailingData},
		{"not hex", "zz", geo.KindSyntax},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := DecodeHex(tc.hex)
			require.Error(t, err)
			assert.Equal(t, tc.kind, geo.KindOf(err), err.Error())
		})
	}
}

func nestedCollections(levels int) []byte {
	// every level is a collection holding one member; the innermost is empty
	level := []byte{1, 7, 0, 0, 0, 1, 0, 0, 0}
	data := bytes.Repeat(level, levels-1)
	return append(data, 1, 7, 0, 0, 0, 0, 0, 0, 0)
}

func TestDecodeDeepNesting(t *testing.T) {
	g, err := Decode(nestedCollections(MaxDepth))
	require.NoError(t, err)
	assert.Equal(t, geo.TypeGeometryCollection, g.Type())

	_, err = Decode(nestedCollections(MaxDepth + 1))
	require.ErrorIs(t, err, geo.ErrTooDeep)

	_, err = Decode(nestedCollections(900000))
	require.ErrorIs(t, err, geo.ErrTooDeep)
}

func TestTruncatedShortfall(t *testing.T) {
	_, err := Decode([]byte{1, 1, 0, 0, 0, 0})
	var gerr *geo.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, Shortfall{Offset: 5, Want: 16, Have: 1}, gerr.Input)
}

func TestEncodeErrors(t *testing.T) {
	_, err := Encode(nil, LittleEndian)
	require.ErrorIs(t, err, geo.ErrNilGeometry)

	_, err = Encode(geo.Point{SRID: geo.Named("urn:ogc:def:crs:OGC:1.3:CRS84")}, LittleEndian)
	require.ErrorIs(t, err, geo.ErrInvalidSRID)

	_, err = Encode(geo.Point{SRID: geo.Code(-1)}, LittleEndian)
	require.ErrorIs(t, err, geo.ErrInvalidSRID)

	_, err = Encode(geo.GeometryCollection{Geometries: []geo.Geometry{nil}}, LittleEndian)
	require.ErrorIs(t, err, geo.ErrNilGeometry)

	_, err = Encode(geo.Point{}, ByteOrder(7))
	require.ErrorIs(t, err, geo.ErrInvalidByteOrder)
}

func TestAppendKeepsPrefix(t *testing.T) {
	prefix := []byte("wkb:")
	data, err := Append(prefix, geo.Point{Coordinates: &geo.XY{X: 1, Y: 2}}, LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, "wkb:", string(data[:4]))

	g, err := Decode(data[4:])
	require.NoError(t, err)
	assert.Equal(t, geo.TypePoint, g.Type())

	failed, err := Append(prefix, nil, LittleEndian)
	require.Error(t, err)
	assert.Equal(t, prefix, failed)
}

func TestStreams(t *testing.T) {
	g := geo.LineString{Coordinates: []geo.XY{{1, 2}, {3, 4}}, SRID: geo.Code(4326)}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, g, BigEndian))

	data := buf.Bytes()
	got, err := DecodeChunks(data[:3], data[3:10], data[10:])
	require.NoError(t, err)
	assert.True(t, geo.Equal(g, got))

	got, err = Read(bytes.NewReader(data))
	require.NoError(t, err)
	assert.True(t, geo.Equal(g, got))
}

func TestHex(t *testing.T) {
	s, err := EncodeHex(geo.Point{Coordinates: &geo.XY{X: 1, Y: 2}, SRID: geo.Code(4326)}, LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, "0101000020E6100000000000000000F03F0000000000000040", s)

	for _, in := range []string{s, `\x` + s, "0x" + s, " " + s + "\n"} {
		g, err := DecodeHex(in)
		require.NoError(t, err, in)
		assert.Equal(t, geo.TypePoint, g.Type())
	}
}

func TestMatchesGoGeom(t *testing.T) {
	testCases := []struct {
		ours   geo.Geometry
		theirs geom.T
	}{
		{
			geo.Point{Coordinates: &geo.XY{X: 1, Y: 2}, SRID: geo.Code(4326)},
			geom.NewPointFlat(geom.XY, []float64{1, 2}).SetSRID(4326),
		},
		{
			geo.PointZ{Coordinates: &geo.XYZ{X: 1, Y: 2, Z: 3}},
			geom.NewPointFlat(geom.XYZ, []float64{1, 2, 3}),
		},
		{
			geo.LineString{Coordinates: []geo.XY{{1, 2}, {3, 4}}},
			geom.NewLineStringFlat(geom.XY, []float64{1, 2, 3, 4}),
		},
		{
			geo.PolygonZ{Coordinates: [][]geo.XYZ{{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 0, 1}}}, SRID: geo.Code(3857)},
			geom.NewPolygonFlat(geom.XYZ, []float64{0, 0, 1, 1, 0, 1, 1, 1, 1, 0, 0, 1}, []int{12}).SetSRID(3857),
		},
		{
			geo.MultiPoint{Coordinates: []geo.XY{{1, 2}, {3, 4}}},
			geom.NewMultiPointFlat(geom.XY, []float64{1, 2, 3, 4}),
		},
		{
			geo.MultiLineString{Coordinates: [][]geo.XY{{{1, 2}, {3, 4}}}},
			geom.NewMultiLineStringFlat(geom.XY, []float64{1, 2, 3, 4}, []int{4}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.ours.Type().String(), func(t *testing.T) {
			expected, err := ewkb.Marshal(tc.theirs, ewkb.NDR)
			require.NoError(t, err)

			got, err := Encode(tc.ours, LittleEndian)
			require.NoError(t, err)
			assert.Equal(t, expected, got)

			decoded, err := Decode(expected)
			require.NoError(t, err)
			assert.True(t, geo.Equal(tc.ours, decoded))
		})
	}
}
