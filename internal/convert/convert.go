package convert

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/woozymasta/geoconv/geo"
	"github.com/woozymasta/geoconv/geojson"
	"github.com/woozymasta/geoconv/wkb"
	"github.com/woozymasta/geoconv/wkt"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/tdewolff/minify/v2"
	jsonmin "github.com/tdewolff/minify/v2/json"
	"gopkg.in/yaml.v3"
)

// Options tune encoding.
type Options struct {
	// SRID replaces the spatial reference of the decoded geometry when set.
	SRID geo.SRID
	// Indent pretty-prints GeoJSON and sets the YAML indentation width.
	Indent string
	// ByteOrder of WKB and hex output.
	ByteOrder wkb.ByteOrder
	// Precision rounds GeoJSON numbers to this many significant digits; 0 keeps them.
	Precision int
}

// DefaultOptions writes little endian WKB and compact JSON.
func DefaultOptions() Options {
	return Options{ByteOrder: wkb.LittleEndian}
}

// ParseSRID reads an SRID option: a bare integer is a code, anything else a name.
func ParseSRID(s string) (geo.SRID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return geo.SRID{}, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return geo.SRID{}, errors.Wrapf(geo.NewError(geo.KindInvalidSRID, s), "srid")
		}
		return geo.Code(n), nil
	}
	return geo.Named(s), nil
}

// ParseByteOrder reads ndr or xdr.
func ParseByteOrder(s string) (wkb.ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ndr":
		return wkb.LittleEndian, nil
	case "xdr":
		return wkb.BigEndian, nil
	}
	return 0, errors.Errorf("byte order must be ndr or xdr, got %q", s)
}

// Decode reads a geometry in format f. Auto sniffs the format first.
func Decode(data []byte, f Format) (geo.Geometry, error) {
	if f == Auto || f == "" {
		var err error
		if f, err = Detect(data); err != nil {
			return nil, err
		}
	}

	switch f {
	case GeoJSON:
		return geojson.Unmarshal(data)
	case YAML:
		var tree any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, errors.Wrap(err, "parse yaml")
		}
		doc, err := geojson.FromAny(tree)
		if err != nil {
			return nil, errors.Wrap(err, "yaml tree")
		}
		return geojson.Decode(doc)
	case WKT:
		return wkt.Decode(string(data))
	case WKB:
		return wkb.Decode(data)
	case Hex:
		return wkb.DecodeHex(string(data))
	}
	return nil, errors.Wrapf(ErrUnknownFormat, "%q", string(f))
}

// Encode writes g in format f.
func Encode(g geo.Geometry, f Format, opts Options) ([]byte, error) {
	switch f {
	case GeoJSON:
		return encodeJSON(g, opts)
	case YAML:
		return encodeYAML(g, opts)
	case WKT:
		s, err := wkt.Encode(g)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	case WKB:
		return wkb.Encode(g, opts.ByteOrder)
	case Hex:
		s, err := wkb.EncodeHex(g, opts.ByteOrder)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	}
	return nil, errors.Wrapf(ErrUnknownFormat, "%q", string(f))
}

// Convert decodes data from one format and encodes it into another.
func Convert(data []byte, from, to Format, opts Options) ([]byte, error) {
	g, err := Decode(data, from)
	if err != nil {
		return nil, err
	}
	if g != nil && !opts.SRID.IsZero() {
		g = geo.WithSRID(g, opts.SRID)
	}
	return Encode(g, to, opts)
}

func encodeJSON(g geo.Geometry, opts Options) ([]byte, error) {
	doc, err := geojson.Encode(g)
	if err != nil {
		return nil, err
	}
	data, err := geojson.Format(doc)
	if err != nil {
		return nil, err
	}

	if opts.Precision > 0 {
		if data, err = Minify(data, opts.Precision); err != nil {
			return nil, err
		}
	}

	if opts.Indent != "" {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", opts.Indent); err != nil {
			return nil, errors.Wrap(err, "indent json")
		}
		data = buf.Bytes()
	}
	return data, nil
}

func encodeYAML(g geo.Geometry, opts Options) ([]byte, error) {
	doc, err := geojson.Encode(g)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	width := len(strings.ReplaceAll(opts.Indent, "\t", "  "))
	if width < 2 {
		width = 2
	}
	enc.SetIndent(width)
	if err := enc.Encode(geojson.ToAny(doc)); err != nil {
		return nil, errors.Wrap(err, "encode yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encode yaml")
	}
	return buf.Bytes(), nil
}

var jsonType = regexp.MustCompile(`[/+]json$`)

// Minify compacts JSON text and, when precision is positive, rounds numbers to
// that many significant digits.
func Minify(data []byte, precision int) ([]byte, error) {
	m := minify.New()
	m.AddRegexp(jsonType, &jsonmin.Minifier{Precision: precision})

	out, err := m.Bytes("application/geo+json", data)
	if err != nil {
		return nil, errors.Wrap(err, "minify json")
	}
	return out, nil
}
