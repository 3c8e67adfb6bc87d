// Package server handles HTTP requests and middleware.
package server

import (
	"bytes"
	"hash/fnv"
	"io"
	"net/http"
	"strconv"

	"github.com/woozymasta/geoconv/geo"
	"github.com/woozymasta/geoconv/internal/config"
	"github.com/woozymasta/geoconv/internal/convert"
	"github.com/woozymasta/geoconv/internal/metrics"
	"github.com/woozymasta/geoconv/internal/render"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const etagCap = 64

type formatInfo struct {
	Name        convert.Format `json:"name"`
	ContentType string         `json:"content_type"`
	Ext         string         `json:"ext"`
	Binary      bool           `json:"binary"`
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// Routes registers the API handlers.
func (s *ServerContext) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/formats", s.HandleFormats)
	mux.HandleFunc("POST /api/convert", s.HandleConvert)
	mux.HandleFunc("POST /api/preview", s.HandlePreview)
	mux.HandleFunc("GET /api/samples", s.HandleSamplesList)
	mux.HandleFunc("GET /api/samples/{name}", s.HandleSample)
	mux.HandleFunc("GET /api/samples/{name}/preview", s.HandleSamplePreview)
	mux.Handle("GET /metrics", metrics.Handler())
	return mux
}

// HandleFormats lists the supported formats.
func (s *ServerContext) HandleFormats(w http.ResponseWriter, r *http.Request) {
	list := make([]formatInfo, 0, len(convert.Formats))
	for _, f := range convert.Formats {
		list = append(list, formatInfo{Name: f, ContentType: f.ContentType(), Ext: f.Ext(), Binary: f.Binary()})
	}
	s.writeJSON(w, http.StatusOK, list)
}

// HandleSamplesList serves the configured samples.
func (s *ServerContext) HandleSamplesList(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Samples)
}

// HandleConvert converts the request body.
// Query: from (default auto), to (default geojson), srid, indent.
func (s *ServerContext) HandleConvert(w http.ResponseWriter, r *http.Request) {
	from, to, opts, err := s.queryOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out, err := convert.Convert(data, from, to, opts)
	metrics.ObserveConversion(string(from), string(to), len(out), err)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeGeometry(w, r, to, out, false)
}

// HandlePreview renders the request body as a WebP image.
// Query: from (default auto), size.
func (s *ServerContext) HandlePreview(w http.ResponseWriter, r *http.Request) {
	from, err := convert.ParseFormat(r.URL.Query().Get("from"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts, err := s.previewOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	g, err := convert.Decode(data, from)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writePreview(w, r, g, opts)
}

// HandleSample serves one sample, by name or alias, in the requested format.
func (s *ServerContext) HandleSample(w http.ResponseWriter, r *http.Request) {
	sample, ok := s.Sample(r.PathValue("name"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	_, to, opts, err := s.queryOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	g := sample.Geometry
	if !opts.SRID.IsZero() {
		g = geo.WithSRID(g, opts.SRID)
	}

	out, err := convert.Encode(g, to, opts)
	metrics.ObserveConversion("sample", string(to), len(out), err)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeGeometry(w, r, to, out, true)
}

// HandleSamplePreview renders a sample as a WebP image.
func (s *ServerContext) HandleSamplePreview(w http.ResponseWriter, r *http.Request) {
	sample, ok := s.Sample(r.PathValue("name"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	opts, err := s.previewOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writePreview(w, r, sample.Geometry, opts)
}

func (s *ServerContext) queryOptions(r *http.Request) (convert.Format, convert.Format, convert.Options, error) {
	q := r.URL.Query()
	opts := s.Convert

	from, err := convert.ParseFormat(q.Get("from"))
	if err != nil {
		return "", "", opts, err
	}

	to := convert.GeoJSON
	if v := q.Get("to"); v != "" {
		if to, err = convert.ParseFormat(v); err != nil {
			return "", "", opts, err
		}
		if to == convert.Auto {
			return "", "", opts, errors.Wrap(convert.ErrUnknownFormat, "target format cannot be auto")
		}
	}

	if opts.SRID, err = convert.ParseSRID(q.Get("srid")); err != nil {
		return "", "", opts, err
	}

	if v := q.Get("indent"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 8 {
			return "", "", opts, errors.Errorf("indent must be 0..8, got %q", v)
		}
		opts.Indent = string(bytes.Repeat([]byte{' '}, n))
	}

	return from, to, opts, nil
}

func (s *ServerContext) previewOptions(r *http.Request) (render.Options, error) {
	opts := s.Preview
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > config.MaxPreviewSize {
			return opts, errors.Errorf("size must be 1..%d, got %q", config.MaxPreviewSize, v)
		}
		opts.Size = n
	}
	return opts, nil
}

func (s *ServerContext) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body := http.MaxBytesReader(w, r.Body, s.Config.MaxBodySize)
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty request body")
	}
	return data, nil
}

func (s *ServerContext) writePreview(w http.ResponseWriter, r *http.Request, g geo.Geometry, opts render.Options) {
	var buf bytes.Buffer
	if err := render.WebP(&buf, g, opts); err != nil {
		log.Error().Err(err).Msg("Failed to render preview")
		s.writeErrorStatus(w, http.StatusInternalServerError, err)
		return
	}
	s.writeBody(w, r, "image/webp", buf.Bytes(), true)
}

// writeGeometry writes an encoded geometry, minifying GeoJSON when configured.
func (s *ServerContext) writeGeometry(w http.ResponseWriter, r *http.Request, f convert.Format, out []byte, cache bool) {
	if f == convert.GeoJSON && s.Config.Minify && s.Convert.Indent == "" && r.URL.Query().Get("indent") == "" {
		if minified, err := convert.Minify(out, 0); err == nil {
			out = minified
		} else {
			log.Warn().Err(err).Msg("Failed to minify response")
		}
	}
	s.writeBody(w, r, f.ContentType(), out, cache)
}

// writeBody writes data, with a content ETag when cache is set.
func (s *ServerContext) writeBody(w http.ResponseWriter, r *http.Request, contentType string, data []byte, cache bool) {
	if cache {
		h := fnv.New64a()
		_, _ = h.Write(data)

		buf := make([]byte, 0, etagCap)
		buf = append(buf, '"')
		buf = strconv.AppendInt(buf, int64(len(data)), 16)
		buf = append(buf, '-')
		buf = strconv.AppendUint(buf, h.Sum64(), 16)
		buf = append(buf, '"')
		etag := string(buf)

		// check If-None-Match (client sent ETag)
		if match := r.Header.Get("If-None-Match"); match == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "public, no-cache")
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *ServerContext) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}

func (s *ServerContext) writeError(w http.ResponseWriter, err error) {
	s.writeErrorStatus(w, statusOf(err), err)
}

func (s *ServerContext) writeErrorStatus(w http.ResponseWriter, status int, err error) {
	body := errorBody{Error: err.Error()}
	if k := geo.KindOf(err); k != 0 {
		body.Kind = k.String()
	}
	s.writeJSON(w, status, body)
}

// statusOf maps codec failures to 422 and every other request problem to 400.
func statusOf(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, convert.ErrUndetectable):
		return http.StatusUnsupportedMediaType
	case geo.KindOf(err) != 0, errors.Is(err, geo.ErrNilGeometry):
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}
