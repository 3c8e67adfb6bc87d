package render

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/woozymasta/geoconv/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/webp"
)

func opaque(opts Options) Options {
	opts.Padding = 0
	opts.Fill = color.RGBA{R: 0xff, A: 0xff}
	return opts
}

func TestRenderPolygon(t *testing.T) {
	opts := opaque(DefaultOptions())
	opts.Size = 64

	square := geo.Polygon{Coordinates: [][]geo.XY{{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}}}
	img, err := Render(square, opts)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())

	assert.Equal(t, opts.Fill, img.RGBAAt(32, 32))
}

func TestRenderKeepsAspect(t *testing.T) {
	opts := opaque(DefaultOptions())
	opts.Size = 64

	// wide and flat: the top rows stay background
	strip := geo.Polygon{Coordinates: [][]geo.XY{{{0, 0}, {100, 0}, {100, 30}, {0, 30}, {0, 0}}}}
	img, err := Render(strip, opts)
	require.NoError(t, err)

	assert.Equal(t, opts.Background, img.RGBAAt(32, 4))
	assert.Equal(t, opts.Fill, img.RGBAAt(32, 32))
}

func TestRenderEmpty(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 16

	for _, g := range []geo.Geometry{
		geo.Point{},
		geo.GeometryCollection{},
		geo.MultiPoint{Coordinates: []geo.XY{}},
	} {
		img, err := Render(g, opts)
		require.NoError(t, err)
		assert.Equal(t, opts.Background, img.RGBAAt(8, 8))
	}

	opts.Size = 0
	_, err := Render(geo.Point{}, opts)
	require.Error(t, err)
}

func TestRenderSinglePoint(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 32
	opts.LineWidth = 4

	img, err := Render(geo.PointZ{Coordinates: &geo.XYZ{X: 5, Y: 5, Z: 1}}, opts)
	require.NoError(t, err)
	assert.NotEqual(t, opts.Background, img.RGBAAt(16, 16))
	assert.Equal(t, opts.Background, img.RGBAAt(1, 1))
}

func TestWebP(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 48
	opts.Lossless = true

	g := geo.GeometryCollection{Geometries: []geo.Geometry{
		geo.LineString{Coordinates: []geo.XY{{0, 0}, {5, 8}, {9, 2}}},
		geo.MultiPolygonZ{Coordinates: [][][]geo.XYZ{{{{1, 1, 0}, {3, 1, 0}, {3, 3, 0}, {1, 1, 0}}}}},
	}}

	var buf bytes.Buffer
	require.NoError(t, WebP(&buf, g, opts))
	require.Greater(t, buf.Len(), 12)
	assert.Equal(t, "RIFF", buf.String()[:4])
	assert.Equal(t, "WEBP", buf.String()[8:12])

	img, err := webp.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 48, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}
