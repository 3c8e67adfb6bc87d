// Package batch converts every geometry file of a directory tree.
package batch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/woozymasta/geoconv/internal/convert"
	"github.com/woozymasta/geoconv/internal/metrics"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Options controls a batch run.
type Options struct {
	// Auto picks the source format by extension, then by content.
	From convert.Format
	To   convert.Format

	Workers int
	// Force overwrites outputs that already exist.
	Force   bool
	Convert convert.Options
}

// Result describes one input file.
type Result struct {
	Src     string
	Dst     string
	Skipped bool
	Err     error
}

type job struct {
	src, dst string
}

// Run converts files under inDir into outDir, keeping the relative layout
// and replacing extensions. Per-file failures are reported in the results;
// the returned error is for failures of the walk itself.
func Run(ctx context.Context, inDir, outDir string, opts Options) ([]Result, error) {
	if opts.To == convert.Auto || opts.To == "" {
		return nil, errors.New("target format must be set")
	}
	if opts.From == "" {
		opts.From = convert.Auto
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	jobs, err := collect(inDir, outDir, opts)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("in", inDir).
		Str("out", outDir).
		Int("files", len(jobs)).
		Int("workers", opts.Workers).
		Msg("Starting batch conversion")

	queue := make(chan job, len(jobs))
	results := make(chan Result, len(jobs))

	go func() {
		for _, j := range jobs {
			queue <- j
		}
		close(queue)
	}()

	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				results <- process(ctx, j, opts)
			}
		}()
	}
	wg.Wait()
	close(results)

	out := make([]Result, 0, len(jobs))
	for res := range results {
		out = append(out, res)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Src < out[k].Src })

	return out, nil
}

func collect(inDir, outDir string, opts Options) ([]job, error) {
	var jobs []job
	err := filepath.WalkDir(inDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := convert.FormatFromPath(path); !ok && opts.From == convert.Auto {
			log.Trace().Str("path", path).Msg("Unknown extension, skipping")
			return nil
		}

		rel, err := filepath.Rel(inDir, path)
		if err != nil {
			return err
		}
		base := strings.TrimSuffix(rel, filepath.Ext(rel))
		jobs = append(jobs, job{src: path, dst: filepath.Join(outDir, base+opts.To.Ext())})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", inDir)
	}
	return jobs, nil
}

func process(ctx context.Context, j job, opts Options) Result {
	res := Result{Src: j.src, Dst: j.dst}
	if err := ctx.Err(); err != nil {
		res.Err = err
		metrics.BatchFiles.WithLabelValues("error").Inc()
		return res
	}

	if !opts.Force {
		if info, err := os.Stat(j.dst); err == nil && info.Size() > 0 {
			res.Skipped = true
			metrics.BatchFiles.WithLabelValues("skipped").Inc()
			log.Debug().Str("path", j.dst).Msg("Output exists, skipping")
			return res
		}
	}

	res.Err = convertFile(j, opts)
	if res.Err != nil {
		metrics.BatchFiles.WithLabelValues("error").Inc()
		log.Warn().Err(res.Err).Str("path", j.src).Msg("Failed to convert file")
		return res
	}

	metrics.BatchFiles.WithLabelValues("ok").Inc()
	log.Debug().Str("src", j.src).Str("dst", j.dst).Msg("Converted")
	return res
}

func convertFile(j job, opts Options) error {
	data, err := os.ReadFile(j.src)
	if err != nil {
		return err
	}

	from := opts.From
	if from == convert.Auto {
		if f, ok := convert.FormatFromPath(j.src); ok {
			from = f
		}
	}

	out, err := convert.Convert(data, from, opts.To, opts.Convert)
	metrics.ObserveConversion(string(from), string(opts.To), len(out), err)
	if err != nil {
		return err
	}
	if !opts.To.Binary() && !strings.HasSuffix(string(out), "\n") {
		out = append(out, '\n')
	}

	return save(j.dst, out)
}

// save writes data to path, creating parent directories.
func save(path string, data []byte) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
			if err == nil {
				err = closeErr
			}
		}
	}()

	_, err = f.Write(data)
	return err
}
