package main

import (
	"io"
	"os"
	"strings"

	"github.com/woozymasta/geoconv/geo"
	"github.com/woozymasta/geoconv/internal/convert"
	"github.com/woozymasta/geoconv/internal/logger"
	"github.com/woozymasta/geoconv/internal/render"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input     string `short:"i" long:"in"         description:"Input file path. Reads from stdin if empty"`
	Output    string `short:"o" long:"out"        description:"Output file path. Writes to stdout if empty"`
	From      string `short:"f" long:"from"       env:"GEOCONV_FROM" description:"Input format, detected from extension or content when auto" default:"auto"`
	To        string `short:"t" long:"to"         env:"GEOCONV_TO"   description:"Output format (geojson, yaml, wkt, wkb, hex); taken from --out extension if empty"`
	ByteOrder string `short:"b" long:"byte-order" env:"GEOCONV_BYTE_ORDER" description:"WKB byte order" choice:"ndr" choice:"xdr" default:"ndr"`
	SRID      string `short:"s" long:"srid"       description:"Replace the spatial reference (code or CRS name)"`
	Indent    int    `long:"indent"               description:"Indent GeoJSON and YAML output by this many spaces"`
	Precision int    `long:"precision"            description:"Round GeoJSON numbers to this many significant digits"`
	Compact   bool   `long:"compact"              description:"Minify GeoJSON output"`
	Preview   string `long:"preview"              description:"Also render a WebP preview to this path"`
	Size      int    `long:"preview-size"         description:"Preview size in pixels" default:"256"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Trace().Msg("No .env file found")
	}

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	from, to, convOpts, err := resolve(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid options")
	}

	var input []byte
	if opts.Input != "" {
		input, err = os.ReadFile(opts.Input)
	} else {
		input, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read input")
	}

	g, err := convert.Decode(input, from)
	if err != nil {
		log.Fatal().Err(err).Str("from", string(from)).Msg("Failed to decode geometry")
	}

	if g != nil && !convOpts.SRID.IsZero() {
		g = geo.WithSRID(g, convOpts.SRID)
	}

	output, err := convert.Encode(g, to, convOpts)
	if err != nil {
		log.Fatal().Err(err).Str("to", string(to)).Msg("Failed to encode geometry")
	}
	if opts.Compact && to == convert.GeoJSON {
		if output, err = convert.Minify(output, opts.Precision); err != nil {
			log.Fatal().Err(err).Msg("Failed to minify output")
		}
	}
	if !to.Binary() && !strings.HasSuffix(string(output), "\n") {
		output = append(output, '\n')
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, output, 0644); err != nil {
			log.Fatal().Err(err).Msg("Failed to write output file")
		}
		log.Info().
			Str("from", string(from)).
			Str("to", string(to)).
			Str("path", opts.Output).
			Int("bytes", len(output)).
			Msg("Geometry converted")
	} else if _, err := os.Stdout.Write(output); err != nil {
		log.Fatal().Err(err).Msg("Failed to write output")
	}

	if opts.Preview != "" {
		if err := writePreview(opts, g); err != nil {
			log.Fatal().Err(err).Msg("Failed to render preview")
		}
		log.Info().Str("path", opts.Preview).Msg("Preview rendered")
	}
}

func resolve(opts Options) (convert.Format, convert.Format, convert.Options, error) {
	convOpts := convert.DefaultOptions()

	from, err := convert.ParseFormat(opts.From)
	if err != nil {
		return "", "", convOpts, err
	}
	if from == convert.Auto && opts.Input != "" {
		if f, ok := convert.FormatFromPath(opts.Input); ok {
			from = f
		}
	}

	to, err := convert.ParseFormat(opts.To)
	if err != nil {
		return "", "", convOpts, err
	}
	if to == convert.Auto {
		f, ok := convert.FormatFromPath(opts.Output)
		if !ok {
			return "", "", convOpts, errors.New("--to is required when --out has no known extension")
		}
		to = f
	}

	if convOpts.ByteOrder, err = convert.ParseByteOrder(opts.ByteOrder); err != nil {
		return "", "", convOpts, err
	}
	if convOpts.SRID, err = convert.ParseSRID(opts.SRID); err != nil {
		return "", "", convOpts, err
	}
	if opts.Indent > 0 {
		convOpts.Indent = strings.Repeat(" ", opts.Indent)
	}
	convOpts.Precision = opts.Precision

	return from, to, convOpts, nil
}

func writePreview(opts Options, g geo.Geometry) error {
	f, err := os.Create(opts.Preview)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", opts.Preview).Msg("Failed to close file")
		}
	}()

	ro := render.DefaultOptions()
	ro.Size = opts.Size
	return render.WebP(f, g, ro)
}
