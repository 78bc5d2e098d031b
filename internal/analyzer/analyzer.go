// Package analyzer summarises label frequency tables: how many labels a
// threshold keeps, how much of the data survives, and which labels dominate.
package analyzer

import (
	"sort"

	"github.com/bimmerbailey/remapper/internal/remap"
)

// Stats holds aggregate statistics for one input at one threshold.
type Stats struct {
	Input          string       `json:"input,omitempty"`
	MinHits        uint64       `json:"min_hits"`
	Records        int          `json:"records"`
	EmptyRecords   int          `json:"empty_records"`
	Occurrences    uint64       `json:"occurrences"`
	DistinctLabels int          `json:"distinct_labels"`
	MaxLabel       uint32       `json:"max_label"`
	Kept           int          `json:"kept"`
	Dropped        int          `json:"dropped"`
	KeptHits       uint64       `json:"kept_hits"`
	RetainedRate   float64      `json:"retained_rate"` // KeptHits / Occurrences
	TopLabels      []LabelCount `json:"top_labels,omitempty"`
	Histogram      []Bucket     `json:"histogram,omitempty"`
}

// LabelCount tracks a label and how often it appears.
type LabelCount struct {
	Label uint32 `json:"label"`
	Count uint64 `json:"count"`
	Kept  bool   `json:"kept"`
}

// Bucket counts distinct labels whose frequency lies in [Min, Max].
type Bucket struct {
	Min    uint64 `json:"min"`
	Max    uint64 `json:"max"`
	Labels int    `json:"labels"`
}

// Analyzer computes statistics over frequency tables.
type Analyzer struct{}

// New creates a new Analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// ComputeStats calculates aggregate statistics for freq at threshold minHits
// and returns the topN most frequent labels.
func (a *Analyzer) ComputeStats(freq *remap.Frequencies, minHits uint64, topN int) Stats {
	stats := Stats{
		MinHits:        minHits,
		Records:        freq.Records(),
		EmptyRecords:   freq.EmptyRecords(),
		Occurrences:    freq.Occurrences(),
		DistinctLabels: freq.Distinct(),
		MaxLabel:       freq.Max(),
	}

	if !freq.Seen() {
		return stats
	}

	counts := make([]LabelCount, 0, freq.Distinct())
	freq.Each(func(label uint32, count uint64) {
		kept := count >= minHits
		if kept {
			stats.Kept++
			stats.KeptHits += count
		}
		counts = append(counts, LabelCount{Label: label, Count: count, Kept: kept})
	})
	stats.Dropped = stats.DistinctLabels - stats.Kept

	if stats.Occurrences > 0 {
		stats.RetainedRate = float64(stats.KeptHits) / float64(stats.Occurrences)
	}

	stats.TopLabels = topLabels(counts, topN)
	stats.Histogram = histogram(counts)

	return stats
}

// topLabels extracts the N most frequent labels, breaking ties by label.
func topLabels(counts []LabelCount, n int) []LabelCount {
	sorted := make([]LabelCount, len(counts))
	copy(sorted, counts)

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Label < sorted[j].Label
	})

	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}

	return sorted
}

// histogram buckets labels by frequency on a power-of-two scale: 1, 2-3,
// 4-7, and so on. Empty buckets between populated ones are kept.
func histogram(counts []LabelCount) []Bucket {
	var buckets []Bucket
	for _, c := range counts {
		idx := 0
		for v := c.Count; v > 1; v >>= 1 {
			idx++
		}
		for len(buckets) <= idx {
			lo := uint64(1) << len(buckets)
			buckets = append(buckets, Bucket{Min: lo, Max: lo<<1 - 1})
		}
		buckets[idx].Labels++
	}
	return buckets
}
