package remap

import (
	"bufio"
	"io"
	"strconv"

	"github.com/bimmerbailey/remapper/internal/parser"
)

// RewriteStats summarises a rewrite pass.
type RewriteStats struct {
	Records   int    `json:"records"`
	LabelsIn  uint64 `json:"labels_in"`
	LabelsOut uint64 `json:"labels_out"`
	Emptied   int    `json:"emptied"` // records that had labels but kept none
}

// Rewrite copies every record of r to w with surviving labels renumbered
// through t and dropped labels removed. Identifiers and record order are
// preserved; every record ends with a newline.
func Rewrite(r io.Reader, w io.Writer, t *Table, opts ...parser.Option) (RewriteStats, error) {
	var stats RewriteStats
	bw := bufio.NewWriter(w)
	var buf []byte

	err := parser.New(opts...).Stream(r, func(rec parser.Record) error {
		stats.Records++
		buf = append(buf[:0], rec.ID...)
		kept := 0
		for i := range rec.Labels {
			old, err := rec.Label(i)
			if err != nil {
				return err
			}
			stats.LabelsIn++
			if idx, ok := t.Lookup(old); ok {
				buf = append(buf, ' ')
				buf = strconv.AppendUint(buf, uint64(idx), 10)
				kept++
			}
		}
		buf = append(buf, '\n')
		stats.LabelsOut += uint64(kept)
		if kept == 0 && len(rec.Labels) > 0 {
			stats.Emptied++
		}
		_, err := bw.Write(buf)
		return err
	})
	if err != nil {
		return stats, err
	}
	return stats, bw.Flush()
}
