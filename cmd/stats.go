package cmd

import (
	"context"

	"github.com/bimmerbailey/remapper/internal/analyzer"
	"github.com/bimmerbailey/remapper/internal/config"
	"github.com/bimmerbailey/remapper/internal/output"
	"github.com/bimmerbailey/remapper/internal/parser"
	"github.com/bimmerbailey/remapper/internal/remap"
	"github.com/bimmerbailey/remapper/internal/source"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var statsCmd = &cobra.Command{
	Use:   "stats [flags] <file>...",
	Short: "Show label frequency statistics",
	Long: `Count label occurrences and report what a given --min-hits threshold would
keep: distinct and kept labels, retained hits, the most frequent labels and a
frequency histogram. Nothing is written.

Examples:
  remapper stats reads.aln
  remapper stats --min-hits 10 --top 5 reads.aln.gz
  remapper stats --format table runs/*.aln`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStats,
}

func init() {
	addStatsFlags(statsCmd)
	rootCmd.AddCommand(statsCmd)
}

func addStatsFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64P("min-hits", "n", 1, "threshold to evaluate")
	cmd.Flags().Int("top", 10, "number of top labels to show")
	cmd.Flags().Bool("no-color", false, "disable colored output")
}

func runStats(cmd *cobra.Command, args []string) error {
	minHits, _ := cmd.Flags().GetUint64("min-hits")
	topN, _ := cmd.Flags().GetInt("top")
	noColor, _ := cmd.Flags().GetBool("no-color")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	files, err := config.ExpandGlobs(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	a := analyzer.New()
	all := make([]analyzer.Stats, 0, len(files))

	for _, name := range files {
		src, err := source.Parse(name, cfg.S3)
		if err != nil {
			return err
		}

		logger.Debug("counting labels", "input", src.Name())
		freq, err := remap.CountSource(ctx, src, parser.WithMaxLineBytes(cfg.Scan.MaxLineBytes))
		if err != nil {
			return err
		}

		stats := a.ComputeStats(freq, minHits, topN)
		stats.Input = src.Name()
		all = append(all, stats)
	}

	colorMode := output.ColorAuto
	if noColor {
		colorMode = output.ColorNever
	}

	return output.New(cmd.OutOrStdout(), output.ParseFormat(viper.GetString("format"))).
		WithColor(colorMode).
		WriteStats(all)
}
