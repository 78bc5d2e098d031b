// Package remap compresses the label range of a record file.
//
// Run makes two sequential passes over the input. The first pass counts how
// often each label occurs (Count). Labels occurring at least MinHits times
// are kept and renumbered densely by ascending value (Build), and the
// new-to-old table is written to the mapping file. The second pass rewrites
// every record with its surviving labels renumbered (Rewrite).
package remap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bimmerbailey/remapper/internal/compress"
	"github.com/bimmerbailey/remapper/internal/parser"
	"github.com/bimmerbailey/remapper/internal/source"
)

// Options configures a remap run.
type Options struct {
	Input            source.Source // opened once per pass
	OutputPath       string
	MappingPath      string
	MinHits          uint64
	MaxLineBytes     int          // 0 keeps the parser default
	CompressionLevel int          // for compressed output/mapping paths
	Logger           *slog.Logger // nil discards
}

// Summary describes a completed run.
type Summary struct {
	Input        string        `json:"input"`
	Records      int           `json:"records"`
	EmptyRecords int           `json:"empty_records"`
	Distinct     int           `json:"distinct_labels"`
	MaxLabel     uint32        `json:"max_label"`
	Kept         int           `json:"kept"`
	Dropped      int           `json:"dropped"`
	Rewrite      RewriteStats  `json:"rewrite"`
	Elapsed      time.Duration `json:"elapsed"`
}

// Run executes the count, build and rewrite phases in order. It stops at the
// first error; the output file may be left truncated in that case.
func Run(ctx context.Context, opts Options) (Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("input", opts.Input.Name())
	parseOpts := []parser.Option{parser.WithMaxLineBytes(opts.MaxLineBytes)}

	start := time.Now()
	summary := Summary{Input: opts.Input.Name()}

	logger.Debug("counting labels")
	freq, err := countPass(ctx, opts.Input, parseOpts)
	if err != nil {
		return summary, fmt.Errorf("counting labels in %s: %w", opts.Input.Name(), err)
	}
	summary.Records = freq.Records()
	summary.EmptyRecords = freq.EmptyRecords()
	summary.Distinct = freq.Distinct()
	summary.MaxLabel = freq.Max()
	logger.Info("counted labels",
		"records", summary.Records,
		"distinct", summary.Distinct,
		"max_label", summary.MaxLabel,
	)

	table := Build(freq, opts.MinHits)
	summary.Kept = table.Len()
	summary.Dropped = summary.Distinct - summary.Kept
	logger.Info("built label mapping",
		"min_hits", opts.MinHits,
		"kept", summary.Kept,
		"dropped", summary.Dropped,
	)

	if err := writeFile(opts.MappingPath, opts.CompressionLevel, func(w io.Writer) error {
		return WriteMapping(w, table.Entries())
	}); err != nil {
		return summary, fmt.Errorf("writing mapping file %s: %w", opts.MappingPath, err)
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	logger.Debug("rewriting records", "output", opts.OutputPath)
	summary.Rewrite, err = rewritePass(ctx, opts, table, parseOpts)
	if err != nil {
		return summary, fmt.Errorf("rewriting %s: %w", opts.Input.Name(), err)
	}

	summary.Elapsed = time.Since(start)
	logger.Info("remap complete",
		"records", summary.Rewrite.Records,
		"labels_in", summary.Rewrite.LabelsIn,
		"labels_out", summary.Rewrite.LabelsOut,
		"elapsed", summary.Elapsed,
	)
	return summary, nil
}

// CountSource runs only the counting pass over src.
func CountSource(ctx context.Context, src source.Source, opts ...parser.Option) (*Frequencies, error) {
	freq, err := countPass(ctx, src, opts)
	if err != nil {
		return nil, fmt.Errorf("counting labels in %s: %w", src.Name(), err)
	}
	return freq, nil
}

func countPass(ctx context.Context, src source.Source, opts []parser.Option) (*Frequencies, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return Count(rc, opts...)
}

func rewritePass(ctx context.Context, opts Options, table *Table, parseOpts []parser.Option) (RewriteStats, error) {
	rc, err := opts.Input.Open(ctx)
	if err != nil {
		return RewriteStats{}, err
	}
	defer rc.Close()

	var stats RewriteStats
	err = writeFile(opts.OutputPath, opts.CompressionLevel, func(w io.Writer) error {
		var err error
		stats, err = Rewrite(rc, w, table, parseOpts...)
		return err
	})
	return stats, err
}

// writeFile creates path, hands it to fn and closes it, reporting the first
// error from either.
func writeFile(path string, level int, fn func(io.Writer) error) error {
	w, err := compress.Create(path, level)
	if err != nil {
		return err
	}
	if err := fn(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
