// Package convert ties the codecs together: format names, content sniffing
// and one-shot conversion between encodings.
package convert

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Format names an encoding.
type Format string

// Supported formats.
const (
	Auto    Format = "auto"
	GeoJSON Format = "geojson"
	YAML    Format = "yaml"
	WKT     Format = "wkt"
	WKB     Format = "wkb"
	Hex     Format = "hex"
)

// Formats lists the concrete formats in display order.
var Formats = []Format{GeoJSON, YAML, WKT, WKB, Hex}

var (
	// ErrUnknownFormat is returned for a format name that is not supported.
	ErrUnknownFormat = errors.New("unknown format")
	// ErrUndetectable is returned when sniffing cannot tell the format.
	ErrUndetectable = errors.New("cannot detect format")
)

var aliases = map[string]Format{
	"auto":    Auto,
	"":        Auto,
	"geojson": GeoJSON,
	"json":    GeoJSON,
	"yaml":    YAML,
	"yml":     YAML,
	"wkt":     WKT,
	"ewkt":    WKT,
	"wkb":     WKB,
	"ewkb":    WKB,
	"hex":     Hex,
	"hexwkb":  Hex,
}

// ParseFormat resolves a format name or alias, case-insensitively.
func ParseFormat(s string) (Format, error) {
	if f, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
}

// ContentType is the MIME type used when serving the format.
func (f Format) ContentType() string {
	switch f {
	case GeoJSON:
		return "application/geo+json"
	case YAML:
		return "application/yaml"
	case WKB:
		return "application/octet-stream"
	}
	return "text/plain; charset=utf-8"
}

// Ext is the file extension, with the dot.
func (f Format) Ext() string {
	if f == GeoJSON {
		return ".geojson"
	}
	return "." + string(f)
}

// Binary reports whether the format is not text.
func (f Format) Binary() bool {
	return f == WKB
}

// FormatFromPath picks a format by file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return GeoJSON, true
	case ".yaml", ".yml":
		return YAML, true
	case ".wkt", ".ewkt":
		return WKT, true
	case ".wkb", ".ewkb":
		return WKB, true
	case ".hex":
		return Hex, true
	}
	return "", false
}

var wktPrefixes = []string{
	"SRID", "POINT", "LINESTRING", "POLYGON", "MULTIPOINT",
	"MULTILINESTRING", "MULTIPOLYGON", "GEOMETRYCOLLECTION",
}

// Detect guesses the format of data.
func Detect(data []byte) (Format, error) {
	if len(data) > 0 && (data[0] == 0 || data[0] == 1) {
		return WKB, nil
	}

	text := bytes.TrimSpace(data)
	if len(text) == 0 {
		return "", ErrUndetectable
	}

	switch {
	case text[0] == '{' || bytes.Equal(text, []byte("null")):
		return GeoJSON, nil
	case isHex(text):
		return Hex, nil
	}

	upper := strings.ToUpper(string(text[:min(len(text), 20)]))
	for _, prefix := range wktPrefixes {
		if strings.HasPrefix(upper, prefix) {
			return WKT, nil
		}
	}

	if bytes.Contains(text, []byte("type")) {
		return YAML, nil
	}
	return "", ErrUndetectable
}

func isHex(text []byte) bool {
	for _, prefix := range [][]byte{[]byte(`\x`), []byte("0x")} {
		text = bytes.TrimPrefix(text, prefix)
	}
	if len(text) < 2*5 || len(text)%2 != 0 {
		return false
	}
	for _, c := range text {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}
