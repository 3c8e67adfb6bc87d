package server

import (
	"sort"

	"github.com/woozymasta/geoconv/geo"
	"github.com/woozymasta/geoconv/internal/config"
	"github.com/woozymasta/geoconv/internal/convert"
	"github.com/woozymasta/geoconv/internal/render"

	"github.com/rs/zerolog/log"
)

// Sample is a configured sample with its decoded geometry.
type Sample struct {
	config.Sample
	Type     string       `json:"type"`
	SRID     string       `json:"srid,omitempty"`
	Geometry geo.Geometry `json:"-"`
}

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config         *config.Config
	Samples        []Sample
	SampleResolver map[string]int
	Convert        convert.Options
	Preview        render.Options
}

// NewServerContext decodes the configured samples and sets up the name resolver.
// Samples that fail to decode are skipped.
func NewServerContext(cfg *config.Config) (*ServerContext, error) {
	log.Info().Int("config_samples_count", len(cfg.Samples)).Msg("Initializing server context")

	order, err := convert.ParseByteOrder(cfg.ByteOrder)
	if err != nil {
		return nil, err
	}
	opts := convert.DefaultOptions()
	opts.ByteOrder = order
	opts.Precision = cfg.Precision

	preview := render.DefaultOptions()
	preview.Size = cfg.Preview.Size
	preview.Quality = cfg.Preview.Quality
	preview.Lossless = cfg.Preview.Lossless

	samples := make([]Sample, 0, len(cfg.Samples))
	for _, sc := range cfg.Samples {
		g, err := sc.Decode()
		if err != nil {
			log.Warn().Err(err).Str("sample", sc.Name).Msg("Skipping sample: cannot decode geometry")
			continue
		}
		if g == nil {
			log.Warn().Str("sample", sc.Name).Msg("Skipping sample: null geometry")
			continue
		}

		s := Sample{Sample: sc, Type: g.Type().String(), Geometry: g}
		if srid := g.SpatialRef(); !srid.IsZero() {
			s.SRID = srid.String()
		}
		samples = append(samples, s)

		log.Debug().
			Str("sample", sc.Name).
			Str("type", s.Type).
			Msg("Sample validated and added to context")
	}

	sort.Slice(samples, func(i, j int) bool {
		idxI, idxJ := 999999, 999999
		if samples[i].Index != nil {
			idxI = *samples[i].Index
		}
		if samples[j].Index != nil {
			idxJ = *samples[j].Index
		}
		if idxI != idxJ {
			return idxI < idxJ
		}

		return samples[i].Name < samples[j].Name
	})

	resolver := make(map[string]int, len(samples))
	for i, s := range samples {
		resolver[s.Name] = i
	}
	for i, s := range samples {
		for _, alias := range s.Aliases {
			if _, taken := resolver[alias]; taken {
				log.Warn().Str("alias", alias).Str("sample", s.Name).Msg("Alias already in use, ignoring")
				continue
			}
			resolver[alias] = i
		}
	}

	log.Info().
		Int("valid_samples_count", len(samples)).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:         cfg,
		Samples:        samples,
		SampleResolver: resolver,
		Convert:        opts,
		Preview:        preview,
	}, nil
}

// Sample resolves a sample by name or alias.
func (s *ServerContext) Sample(name string) (Sample, bool) {
	i, ok := s.SampleResolver[name]
	if !ok {
		return Sample{}, false
	}
	return s.Samples[i], true
}
