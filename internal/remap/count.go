package remap

import (
	"io"

	"github.com/bimmerbailey/remapper/internal/parser"
)

// Frequencies is the label frequency table gathered by Count.
type Frequencies struct {
	counts       map[uint32]uint64
	max          uint32
	records      int
	emptyRecords int
	occurrences  uint64
}

func newFrequencies() *Frequencies {
	return &Frequencies{counts: make(map[uint32]uint64)}
}

func (f *Frequencies) add(label uint32) {
	f.counts[label]++
	f.occurrences++
	if label > f.max {
		f.max = label
	}
}

// Count returns how often label occurred.
func (f *Frequencies) Count(label uint32) uint64 { return f.counts[label] }

// Distinct is the number of distinct labels seen.
func (f *Frequencies) Distinct() int { return len(f.counts) }

// Max is the largest label seen, or 0 when no label was seen.
func (f *Frequencies) Max() uint32 { return f.max }

// Seen reports whether any label was seen.
func (f *Frequencies) Seen() bool { return len(f.counts) > 0 }

// Records is the number of records consumed.
func (f *Frequencies) Records() int { return f.records }

// EmptyRecords is the number of records without labels.
func (f *Frequencies) EmptyRecords() int { return f.emptyRecords }

// Occurrences is the total number of label tokens.
func (f *Frequencies) Occurrences() uint64 { return f.occurrences }

// Each calls fn for every distinct label in unspecified order.
func (f *Frequencies) Each(fn func(label uint32, count uint64)) {
	for label, count := range f.counts {
		fn(label, count)
	}
}

// Count tallies every label in r.
func Count(r io.Reader, opts ...parser.Option) (*Frequencies, error) {
	freq := newFrequencies()
	err := parser.New(opts...).Stream(r, func(rec parser.Record) error {
		freq.records++
		if len(rec.Labels) == 0 {
			freq.emptyRecords++
			return nil
		}
		for i := range rec.Labels {
			label, err := rec.Label(i)
			if err != nil {
				return err
			}
			freq.add(label)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return freq, nil
}
