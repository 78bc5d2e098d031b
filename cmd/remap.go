package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bimmerbailey/remapper/internal/output"
	"github.com/bimmerbailey/remapper/internal/remap"
	"github.com/bimmerbailey/remapper/internal/source"
	"github.com/bimmerbailey/remapper/internal/watch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var remapCmd = &cobra.Command{
	Use:   "remap -i <input> -o <output> -m <mapping-file> -n <min-hits>",
	Short: "Drop rare labels and renumber the rest densely",
	Long: `Remove every label with fewer than --min-hits total occurrences, renumber
the remaining labels 0..k-1 in ascending order of their old value, and
rewrite the input with the new numbering.

The mapping file lists one "new<TAB>old" pair per kept label. Files ending
in .gz, .zst or .lz4 are decompressed and compressed transparently. The
input may also be an s3://bucket/key URI.

Examples:
  remapper remap -i reads.aln -o reads.remapped.aln -m mapping.tsv -n 2
  remapper remap -i s3://runs/7/reads.aln.gz -o out.aln -m mapping.tsv -n 5
  remapper remap -i reads.aln -o out.aln -m mapping.tsv -n 2 --watch`,
	Args: cobra.NoArgs,
	RunE: runRemap,
}

func init() {
	addRemapFlags(remapCmd)
	rootCmd.AddCommand(remapCmd)
}

// addRemapFlags registers the remap flags on cmd.
func addRemapFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "label file to read (path or s3:// URI)")
	cmd.Flags().StringP("output", "o", "", "rewritten label file to create")
	cmd.Flags().StringP("mapping-file", "m", "", "mapping output file with new<TAB>old pairs, one per line")
	cmd.Flags().Uint64P("min-hits", "n", 0, "minimum number of hits for a label to be kept")
	cmd.Flags().Bool("watch", false, "re-run whenever the input file changes")

	for _, name := range []string{"input", "output", "mapping-file", "min-hits"} {
		_ = cmd.MarkFlagRequired(name)
	}
}

func runRemap(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	mappingPath, _ := cmd.Flags().GetString("mapping-file")
	minHits, _ := cmd.Flags().GetUint64("min-hits")
	watchInput, _ := cmd.Flags().GetBool("watch")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	src, err := source.Parse(input, cfg.S3)
	if err != nil {
		return err
	}

	if err := checkDistinctPaths(src, outputPath, mappingPath); err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	opts := remap.Options{
		Input:            src,
		OutputPath:       outputPath,
		MappingPath:      mappingPath,
		MinHits:          minHits,
		MaxLineBytes:     cfg.Scan.MaxLineBytes,
		CompressionLevel: cfg.Compression.Level,
		Logger:           logger,
	}
	writer := output.New(cmd.OutOrStdout(), output.ParseFormat(viper.GetString("format"))).
		WithColor(output.ColorAuto)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	runOnce := func(ctx context.Context) error {
		summary, err := remap.Run(ctx, opts)
		if err != nil {
			return err
		}
		return writer.WriteSummary(summary)
	}

	if !watchInput {
		return runOnce(ctx)
	}

	file, ok := src.(source.File)
	if !ok {
		return fmt.Errorf("--watch: %s: %w", src.Name(), watch.ErrNotWatchable)
	}
	debounce, err := cfg.DebounceDuration()
	if err != nil {
		return err
	}

	if err := runOnce(ctx); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("watching input for changes", "path", file.Path, "debounce", debounce)
	return watch.New(watch.Options{
		Path:     file.Path,
		Debounce: debounce,
		OnChange: runOnce,
		Logger:   logger,
	}).Run(ctx)
}

// checkDistinctPaths rejects runs that would overwrite a local input or
// write both results to one file.
func checkDistinctPaths(src source.Source, outputPath, mappingPath string) error {
	if samePath(outputPath, mappingPath) {
		return fmt.Errorf("--output and --mapping-file must differ")
	}
	file, ok := src.(source.File)
	if !ok {
		return nil
	}
	if samePath(file.Path, outputPath) || samePath(file.Path, mappingPath) {
		return fmt.Errorf("refusing to overwrite input %s", file.Path)
	}
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
