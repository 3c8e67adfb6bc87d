package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/woozymasta/geoconv/internal/batch"
	"github.com/woozymasta/geoconv/internal/convert"
	"github.com/woozymasta/geoconv/internal/logger"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	In        string `short:"i" long:"in"          env:"BATCH_IN"          description:"Input directory" required:"true"`
	Out       string `short:"o" long:"out"         env:"BATCH_OUT"         description:"Output directory" required:"true"`
	From      string `short:"f" long:"from"        env:"BATCH_FROM"        description:"Input format" default:"auto"`
	To        string `short:"t" long:"to"          env:"BATCH_TO"          description:"Output format" default:"geojson"`
	ByteOrder string `short:"b" long:"byte-order"  env:"BATCH_BYTE_ORDER"  description:"WKB byte order" choice:"ndr" choice:"xdr" default:"ndr"`
	SRID      string `short:"s" long:"srid"        env:"BATCH_SRID"        description:"Replace the spatial reference (code or CRS name)"`
	Precision int    `long:"precision"             env:"BATCH_PRECISION"   description:"Round GeoJSON numbers to this many significant digits"`
	Workers   int    `short:"p" long:"concurrency" env:"CONCURRENCY"       description:"Concurrency, defaults to the number of CPUs"`
	Force     bool   `short:"F" long:"force"       description:"Force overwrite of existing files"`
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

	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	bo := batch.Options{Workers: opts.Workers, Force: opts.Force, Convert: convert.DefaultOptions()}
	var err error
	if bo.From, err = convert.ParseFormat(opts.From); err != nil {
		log.Fatal().Err(err).Msg("Invalid --from")
	}
	if bo.To, err = convert.ParseFormat(opts.To); err != nil {
		log.Fatal().Err(err).Msg("Invalid --to")
	}
	if bo.Convert.ByteOrder, err = convert.ParseByteOrder(opts.ByteOrder); err != nil {
		log.Fatal().Err(err).Msg("Invalid --byte-order")
	}
	if bo.Convert.SRID, err = convert.ParseSRID(opts.SRID); err != nil {
		log.Fatal().Err(err).Msg("Invalid --srid")
	}
	bo.Convert.Precision = opts.Precision

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	results, err := batch.Run(ctx, opts.In, opts.Out, bo)
	if err != nil {
		log.Fatal().Err(err).Msg("Batch conversion failed")
	}

	var converted, skipped, failed int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			log.Error().Err(r.Err).Str("path", r.Src).Msg("Failed to convert")
		case r.Skipped:
			skipped++
		default:
			converted++
		}
	}

	log.Info().
		Int("converted", converted).
		Int("skipped", skipped).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("Batch finished")

	if failed > 0 {
		os.Exit(1)
	}
}
