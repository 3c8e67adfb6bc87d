// Package config handles the conversion service configuration file.
package config

import (
	"os"
	"strings"

	"github.com/woozymasta/geoconv/geo"
	"github.com/woozymasta/geoconv/geojson"
	"github.com/woozymasta/geoconv/wkt"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Defaults applied by Load.
const (
	DefaultMaxBodySize = 8 << 20
	DefaultPreviewSize = 256
	MaxPreviewSize     = 2048
)

// Config represents the root configuration file structure.
type Config struct {
	// ndr (default) or xdr
	ByteOrder   string   `yaml:"byte_order,omitempty" json:"byte_order"`
	MaxBodySize int64    `yaml:"max_body_size,omitempty" json:"max_body_size"`
	Precision   int      `yaml:"precision,omitempty" json:"precision,omitempty"`
	Minify      bool     `yaml:"minify,omitempty" json:"minify"`
	Preview     Preview  `yaml:"preview,omitempty" json:"preview"`
	Samples     []Sample `yaml:"samples,omitempty" json:"-"`
}

// Preview controls rendered WebP previews.
type Preview struct {
	Size     int     `yaml:"size,omitempty" json:"size"`
	Quality  float32 `yaml:"quality,omitempty" json:"quality"`
	Lossless bool    `yaml:"lossless,omitempty" json:"lossless"`
}

// Sample is a named geometry served by the samples API.
type Sample struct {
	Index *int `yaml:"index,omitempty" json:"index,omitempty"`

	// defining GeoJSON directly in config.yaml
	Inline map[string]any `yaml:"geojson,omitempty" json:"-"`

	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	WKT         string   `yaml:"wkt,omitempty" json:"-"`
	Aliases     []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses YAML configuration and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	cfg.ByteOrder = strings.ToLower(cfg.ByteOrder)
	switch cfg.ByteOrder {
	case "":
		cfg.ByteOrder = "ndr"
	case "ndr", "xdr":
	default:
		return nil, errors.Errorf("byte_order must be ndr or xdr, got %q", cfg.ByteOrder)
	}

	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.Preview.Size <= 0 {
		cfg.Preview.Size = DefaultPreviewSize
	}
	if cfg.Preview.Size > MaxPreviewSize {
		cfg.Preview.Size = MaxPreviewSize
	}
	if cfg.Preview.Quality <= 0 {
		cfg.Preview.Quality = 85
	}

	return &cfg, nil
}

// Decode builds the sample geometry from its inline GeoJSON tree or WKT.
func (s Sample) Decode() (geo.Geometry, error) {
	switch {
	case s.Inline != nil:
		doc, err := geojson.FromAny(s.Inline)
		if err != nil {
			return nil, errors.Wrapf(err, "sample %s", s.Name)
		}
		g, err := geojson.Decode(doc)
		if err != nil {
			return nil, errors.Wrapf(err, "sample %s", s.Name)
		}
		return g, nil

	case s.WKT != "":
		g, err := wkt.Decode(s.WKT)
		if err != nil {
			return nil, errors.Wrapf(err, "sample %s", s.Name)
		}
		return g, nil
	}
	return nil, errors.Errorf("sample %s: neither geojson nor wkt is set", s.Name)
}
