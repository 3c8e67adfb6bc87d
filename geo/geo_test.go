package geo

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeOf(t *testing.T) {
	seen := make(map[Type]string)
	for _, tag := range []string{"Point", "LineString", "Polygon", "MultiPoint", "MultiLineString", "MultiPolygon", "GeometryCollection"} {
		for _, z := range []bool{false, true} {
			typ, ok := TypeOf(tag, z)
			if tag == "GeometryCollection" && z {
				assert.False(t, ok)
				continue
			}
			require.True(t, ok, "%s z=%v", tag, z)
			assert.Equal(t, z, typ.HasZ())
			assert.Equal(t, tag, typ.Base().String())

			key := fmt.Sprintf("%s/%v", tag, z)
			prev, dup := seen[typ]
			assert.False(t, dup, "%s collides with %s", key, prev)
			seen[typ] = key
		}
	}

	_, ok := TypeOf("PointZ", false)
	assert.False(t, ok, "Z tags are not base tags")
	_, ok = TypeOf("Blob", false)
	assert.False(t, ok)
}

func TestParseType(t *testing.T) {
	typ, ok := ParseType("MultiLineStringZ")
	require.True(t, ok)
	assert.Equal(t, TypeMultiLineStringZ, typ)
	assert.Equal(t, TypeMultiLineString, typ.Base())

	_, ok = ParseType("multilinestring")
	assert.False(t, ok, "tags are case sensitive")
	assert.Equal(t, "Unknown", Type(200).String())
}

func TestPairFromSequence(t *testing.T) {
	c, err := PairFromSequence([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, XY{1, 2}, c)

	_, err = PairFromSequence([]float64{1})
	require.ErrorIs(t, err, ErrMalformedCoordinate)
}

func TestTripleFromSequence(t *testing.T) {
	c, err := TripleFromSequence([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, XYZ{1, 2, 3}, c)
	assert.Equal(t, []float64{1, 2, 3}, c.Sequence())

	for _, seq := range [][]float64{{1, 2}, {1, 2, 3, 4}, nil} {
		_, err = TripleFromSequence(seq)
		require.ErrorIs(t, err, ErrMalformedCoordinate, "%v", seq)
	}
}

func TestMapNested(t *testing.T) {
	in := [][][]float64{{{1, 2}, {3, 4}}, {}}
	out, err := Map(in, func(ring [][]float64) ([]XY, error) {
		return Map(ring, PairFromSequence)
	})
	require.NoError(t, err)
	assert.Equal(t, [][]XY{{{1, 2}, {3, 4}}, {}}, out)

	_, err = Map([][]float64{{1, 2}, {3}}, PairFromSequence)
	require.ErrorIs(t, err, ErrMalformedCoordinate)
}

func TestErrorCarriesInput(t *testing.T) {
	err := error(NewError(KindUnrecognizedType, "Blob"))
	err = fmt.Errorf("decode: %w", err)

	assert.True(t, errors.Is(err, ErrUnrecognizedType))
	assert.False(t, errors.Is(err, ErrUnrecognizedDocument))
	assert.Equal(t, KindUnrecognizedType, KindOf(err))

	var ge *Error
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, "Blob", ge.Input)
	assert.Equal(t, `geo: unrecognized type: "Blob"`, ge.Error())
}

func TestSRID(t *testing.T) {
	var none SRID
	assert.True(t, none.IsZero())
	_, ok := none.Int()
	assert.False(t, ok)

	n, ok := Code(4326).Int()
	assert.True(t, ok)
	assert.Equal(t, 4326, n)
	assert.Equal(t, "4326", Code(4326).String())

	name, ok := Named("urn:ogc:def:crs:OGC::CRS84").Name()
	assert.True(t, ok)
	assert.Equal(t, "urn:ogc:def:crs:OGC::CRS84", name)
	assert.NotEqual(t, Code(0), none)
}

func TestEqual(t *testing.T) {
	a := LineString{Coordinates: []XY{{1, 2}}, Properties: map[string]any{}}
	b := LineString{Coordinates: []XY{{1, 2}}}
	assert.True(t, Equal(a, b))

	assert.False(t, Equal(a, LineStringZ{Coordinates: []XYZ{{1, 2, 0}}}))
	assert.False(t, Equal(a, WithSRID(b, Code(4326))))
	assert.True(t, Equal(Point{}, Point{}))
	assert.False(t, Equal(Point{}, Point{Coordinates: &XY{}}))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, Point{}))

	c1 := GeometryCollection{Geometries: []Geometry{a, Point{Coordinates: &XY{1, 1}}}}
	c2 := GeometryCollection{Geometries: []Geometry{b, Point{Coordinates: &XY{1, 1}}}}
	assert.True(t, Equal(c1, c2))
	c2.Geometries = c2.Geometries[:1]
	assert.False(t, Equal(c1, c2))
}

func TestEqualNaN(t *testing.T) {
	nan := math.NaN()
	g := MultiPoint{Coordinates: []XY{{nan, nan}, {1, 2}}}
	assert.True(t, Equal(g, g))

	z := PointZ{Coordinates: &XYZ{X: 1, Y: 2, Z: nan}}
	assert.True(t, Equal(z, z))
	assert.False(t, Equal(z, PointZ{Coordinates: &XYZ{X: 1, Y: 2, Z: 0}}))

	assert.False(t, Equal(g, MultiPoint{Coordinates: []XY{{nan, 0}, {1, 2}}}))
}

func TestWithSRID(t *testing.T) {
	g := WithSRID(MultiPolygonZ{}, Code(3857))
	assert.Equal(t, Code(3857), g.SpatialRef())
	assert.Equal(t, TypeMultiPolygonZ, g.Type())
}
