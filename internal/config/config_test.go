package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/geoconv/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
byte_order: XDR
minify: true
preview:
  size: 4096
samples:
  - name: square
    index: 2
    aliases: [box]
    geojson:
      type: Polygon
      crs:
        type: name
        properties:
          name: EPSG:4326
      coordinates:
        - [[0, 0], [1, 0], [1, 1], [0, 0]]
  - name: route
    description: A short walk
    wkt: SRID=3857;LINESTRING Z(0 0 1, 10 10 2)
  - name: broken
    wkt: LINESTRING(0 0,
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "xdr", cfg.ByteOrder)
	assert.True(t, cfg.Minify)
	assert.Equal(t, int64(DefaultMaxBodySize), cfg.MaxBodySize)
	assert.Equal(t, MaxPreviewSize, cfg.Preview.Size)
	assert.Equal(t, float32(85), cfg.Preview.Quality)
	require.Len(t, cfg.Samples, 3)
	assert.Equal(t, []string{"box"}, cfg.Samples[0].Aliases)
	require.NotNil(t, cfg.Samples[0].Index)
	assert.Equal(t, 2, *cfg.Samples[0].Index)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, "ndr", cfg.ByteOrder)
	assert.Equal(t, DefaultPreviewSize, cfg.Preview.Size)
	assert.Empty(t, cfg.Samples)

	_, err = Parse([]byte("byte_order: middle"))
	require.Error(t, err)

	_, err = Parse([]byte("samples: {"))
	require.Error(t, err)
}

func TestSampleDecode(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	square, err := cfg.Samples[0].Decode()
	require.NoError(t, err)
	expected := geo.Polygon{
		Coordinates: [][]geo.XY{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}},
		SRID:        geo.Code(4326),
	}
	assert.True(t, geo.Equal(expected, square), "%#v", square)

	route, err := cfg.Samples[1].Decode()
	require.NoError(t, err)
	assert.Equal(t, geo.TypeLineStringZ, route.Type())
	assert.Equal(t, geo.Code(3857), route.SpatialRef())

	_, err = cfg.Samples[2].Decode()
	require.ErrorIs(t, err, geo.ErrSyntax)
	assert.Contains(t, err.Error(), "sample broken")

	_, err = Sample{Name: "void"}.Decode()
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Samples, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
