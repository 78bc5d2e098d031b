// Package output provides formatted output rendering for label statistics
// and remap summaries. It supports text, JSON, and table formats.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bimmerbailey/remapper/internal/analyzer"
	"github.com/bimmerbailey/remapper/internal/remap"
)

// Format represents an output format type.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat converts a string to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// Writer handles writing formatted output.
type Writer struct {
	w         io.Writer
	format    Format
	colorMode ColorMode
}

// New creates a new output Writer. Colour is off until WithColor is used.
func New(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format, colorMode: ColorNever}
}

// WithColor sets when text output is coloured.
func (wr *Writer) WithColor(mode ColorMode) *Writer {
	wr.colorMode = mode
	return wr
}

// WriteJSON outputs any value as indented JSON.
func (wr *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(wr.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteStats outputs one statistics block per input in the configured
// format. JSON output is a single object for one input and an array
// otherwise.
func (wr *Writer) WriteStats(stats []analyzer.Stats) error {
	switch wr.format {
	case FormatJSON:
		if len(stats) == 1 {
			return wr.WriteJSON(stats[0])
		}
		return wr.WriteJSON(stats)
	case FormatTable:
		return wr.writeStatsTable(stats)
	default:
		return wr.writeStatsText(stats)
	}
}

// WriteSummary outputs the result of a remap run.
func (wr *Writer) WriteSummary(s remap.Summary) error {
	switch wr.format {
	case FormatJSON:
		return wr.WriteJSON(s)
	case FormatTable:
		tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "INPUT\tRECORDS\tDISTINCT\tKEPT\tDROPPED\tLABELS IN\tLABELS OUT")
		fmt.Fprintln(tw, "-----\t-------\t--------\t----\t-------\t---------\t----------")
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			s.Input, s.Records, s.Distinct, s.Kept, s.Dropped, s.Rewrite.LabelsIn, s.Rewrite.LabelsOut)
		return tw.Flush()
	default:
		colorize := shouldColorize(wr.colorMode, wr.w)
		fmt.Fprintf(wr.w, "Remapped %s: %d records, kept %d of %d labels (%s), %d of %d label hits retained in %s\n",
			s.Input, s.Records, s.Kept, s.Distinct,
			colorizeDropped(s.Dropped, colorize),
			s.Rewrite.LabelsOut, s.Rewrite.LabelsIn, s.Elapsed.Round(time.Millisecond))
		return nil
	}
}

func (wr *Writer) writeStatsText(all []analyzer.Stats) error {
	colorize := shouldColorize(wr.colorMode, wr.w)

	for i, s := range all {
		if i > 0 {
			fmt.Fprintln(wr.w)
		}
		if s.Input != "" {
			fmt.Fprintf(wr.w, "Input: %s\n", s.Input)
		}
		fmt.Fprintf(wr.w, "Records: %d (%d without labels)\n", s.Records, s.EmptyRecords)
		fmt.Fprintf(wr.w, "Label Occurrences: %d\n", s.Occurrences)
		fmt.Fprintf(wr.w, "Distinct Labels: %d (max label %d)\n", s.DistinctLabels, s.MaxLabel)
		fmt.Fprintf(wr.w, "Min Hits: %d\n", s.MinHits)
		fmt.Fprintf(wr.w, "Kept Labels: %d\n", s.Kept)
		fmt.Fprintf(wr.w, "Dropped Labels: %d\n", s.Dropped)
		fmt.Fprintf(wr.w, "Retained Hits: %d (%s)\n", s.KeptHits,
			colorizeRate(s.RetainedRate, fmt.Sprintf("%.2f%%", s.RetainedRate*100), colorize))

		if len(s.TopLabels) > 0 {
			fmt.Fprintln(wr.w, "\nTop Labels:")
			for _, lc := range s.TopLabels {
				line := fmt.Sprintf("  [%d] %d", lc.Count, lc.Label)
				if !lc.Kept {
					line += " (dropped)"
				}
				fmt.Fprintln(wr.w, colorizeLabel(lc.Kept, line, colorize))
			}
		}

		if len(s.Histogram) > 0 {
			fmt.Fprintln(wr.w, "\nFrequency Histogram:")
			for _, b := range s.Histogram {
				fmt.Fprintf(wr.w, "  %d-%d: %d\n", b.Min, b.Max, b.Labels)
			}
		}
	}
	return nil
}

func (wr *Writer) writeStatsTable(all []analyzer.Stats) error {
	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INPUT\tRECORDS\tHITS\tDISTINCT\tMAX\tMIN HITS\tKEPT\tDROPPED\tRETAINED")
	fmt.Fprintln(tw, "-----\t-------\t----\t--------\t---\t--------\t----\t-------\t--------")
	for _, s := range all {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%.2f%%\n",
			s.Input, s.Records, s.Occurrences, s.DistinctLabels, s.MaxLabel,
			s.MinHits, s.Kept, s.Dropped, s.RetainedRate*100)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, s := range all {
		if len(s.TopLabels) == 0 {
			continue
		}
		fmt.Fprintln(wr.w)
		if len(all) > 1 {
			fmt.Fprintf(wr.w, "==> %s <==\n", s.Input)
		}
		tw = tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "LABEL\tCOUNT\tSTATUS")
		fmt.Fprintln(tw, "-----\t-----\t------")
		for _, lc := range s.TopLabels {
			status := "KEPT"
			if !lc.Kept {
				status = "DROPPED"
			}
			fmt.Fprintf(tw, "%d\t%d\t%s\n", lc.Label, lc.Count, status)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
