package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/woozymasta/geoconv/geo"
	"github.com/woozymasta/geoconv/internal/config"
	"github.com/woozymasta/geoconv/internal/convert"
	"github.com/woozymasta/geoconv/wkb"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
minify: true
max_body_size: 256
preview:
  size: 32
samples:
  - name: route
    index: 2
    wkt: SRID=4326;LINESTRING(0 0,3 4)
  - name: square
    index: 1
    aliases: [box, route]
    geojson:
      type: Polygon
      coordinates:
        - [[0, 0], [2, 0], [2, 2], [0, 0]]
  - name: spot
    wkt: POINT(1 2)
  - name: broken
    wkt: POINT(1
`

func newTestServer(t *testing.T) (*ServerContext, *httptest.Server) {
	t.Helper()
	cfg, err := config.Parse([]byte(testConfig))
	require.NoError(t, err)

	ctx, err := NewServerContext(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(RequestLogger(ctx.Routes()))
	t.Cleanup(srv.Close)
	return ctx, srv
}

func do(t *testing.T, method, url, body string, header ...string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestNewServerContext(t *testing.T) {
	ctx, _ := newTestServer(t)

	require.Len(t, ctx.Samples, 3)
	assert.Equal(t, "square", ctx.Samples[0].Name)
	assert.Equal(t, "route", ctx.Samples[1].Name)
	assert.Equal(t, "spot", ctx.Samples[2].Name)
	assert.Equal(t, "4326", ctx.Samples[1].SRID)

	s, ok := ctx.Sample("box")
	require.True(t, ok)
	assert.Equal(t, "square", s.Name)

	// a sample name wins over another sample's alias
	s, ok = ctx.Sample("route")
	require.True(t, ok)
	assert.Equal(t, "route", s.Name)

	_, ok = ctx.Sample("broken")
	assert.False(t, ok)

	_, err := NewServerContext(&config.Config{ByteOrder: "pdp"})
	require.Error(t, err)
}

func TestHandleFormats(t *testing.T) {
	_, srv := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/formats", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []formatInfo
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list, len(convert.Formats))
	assert.Contains(t, string(body), `"name":"wkb"`)
}

func TestHandleConvert(t *testing.T) {
	_, srv := newTestServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/api/convert?to=hex", "POINT(1 2)")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	g, err := wkb.DecodeHex(string(body))
	require.NoError(t, err)
	assert.True(t, geo.Equal(geo.Point{Coordinates: &geo.XY{X: 1, Y: 2}}, g))

	resp, body = do(t, http.MethodPost, srv.URL+"/api/convert?from=geojson&to=wkt&srid=3857",
		`{"type":"Point","coordinates":[1,2]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "SRID=3857;POINT(1 2)", string(body))

	resp, body = do(t, http.MethodPost, srv.URL+"/api/convert", "POINT(1 2)")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/geo+json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"type":"Point","coordinates":[1,2]}`, string(body))

	resp, body = do(t, http.MethodPost, srv.URL+"/api/convert?to=geojson&indent=2", "POINT(1 2)")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "\n  ")
}

func TestHandleConvertErrors(t *testing.T) {
	_, srv := newTestServer(t)

	testCases := []struct {
		desc   string
		query  string
		body   string
		status int
		kind   string
	}{
		{"syntax", "?from=wkt", "POINT(1 2", http.StatusUnprocessableEntity, "syntax error"},
		{"type", "", `{"type":"Circle","coordinates":[1,2]}`, http.StatusUnprocessableEntity, "unrecognized type"},
		{"unknown format", "?to=shp", "POINT(1 2)", http.StatusBadRequest, ""},
		{"auto target", "?to=auto", "POINT(1 2)", http.StatusBadRequest, ""},
		{"bad indent", "?indent=x", "POINT(1 2)", http.StatusBadRequest, ""},
		{"undetectable", "", "hello", http.StatusUnsupportedMediaType, ""},
		{"empty", "", "  ", http.StatusBadRequest, ""},
		{"too large", "?from=wkt", "POINT(" + strings.Repeat("1", 300) + " 2)", http.StatusRequestEntityTooLarge, ""},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, srv.URL+"/api/convert"+tc.query, tc.body)
			assert.Equal(t, tc.status, resp.StatusCode, string(body))

			var e errorBody
			require.NoError(t, json.Unmarshal(body, &e))
			assert.NotEmpty(t, e.Error)
			assert.Equal(t, tc.kind, e.Kind)
		})
	}

	resp, _ := do(t, http.MethodGet, srv.URL+"/api/convert", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHandleSamples(t *testing.T) {
	_, srv := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/samples", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 3)
	assert.Equal(t, "square", list[0]["name"])
	assert.Equal(t, "Polygon", list[0]["type"])
	assert.Equal(t, "LineString", list[1]["type"])
}

func TestHandleSample(t *testing.T) {
	_, srv := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/samples/box", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"type":"Polygon","coordinates":[[[0,0],[2,0],[2,2],[0,0]]]}`, string(body))

	etag := resp.Header.Get("ETag")
	require.NotEmpty(t, etag)

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/samples/box", "", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)

	resp, body = do(t, http.MethodGet, srv.URL+"/api/samples/route?to=wkt", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "SRID=4326;LINESTRING(0 0,3 4)", string(body))
	assert.NotEqual(t, etag, resp.Header.Get("ETag"))

	resp, body = do(t, http.MethodGet, srv.URL+"/api/samples/spot?to=wkb", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/octet-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, byte(1), body[0])

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/samples/broken", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandlePreview(t *testing.T) {
	_, srv := newTestServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/api/preview?size=24", "POLYGON((0 0,1 0,1 1,0 0))")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "image/webp", resp.Header.Get("Content-Type"))
	assert.Equal(t, "RIFF", string(body[:4]))

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/preview?size=99999", "POINT(1 2)")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/preview", "POINT(1")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, body = do(t, http.MethodGet, srv.URL+"/api/samples/square/preview", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "WEBP", string(body[8:12]))
}

func TestMetricsEndpoint(t *testing.T) {
	_, srv := newTestServer(t)

	do(t, http.MethodPost, srv.URL+"/api/convert?to=wkt", "POINT(1 2)")
	do(t, http.MethodGet, srv.URL+"/nowhere", "")

	resp, body := do(t, http.MethodGet, srv.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	text := string(body)
	assert.Contains(t, text, `geoconv_http_requests_total{method="POST",path="POST /api/convert",status="200"}`)
	assert.Contains(t, text, `path="unmatched",status="404"`)
	assert.Contains(t, text, `geoconv_codec_conversions_total{from="auto",result="ok",to="wkt"}`)
}
