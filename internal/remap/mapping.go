package remap

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Entry is one line of the mapping file.
type Entry struct {
	New uint32 `json:"new"`
	Old uint32 `json:"old"`
}

// WriteMapping writes one "new<TAB>old" line per entry.
func WriteMapping(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	for _, e := range entries {
		buf = strconv.AppendUint(buf[:0], uint64(e.New), 10)
		buf = append(buf, '\t')
		buf = strconv.AppendUint(buf, uint64(e.Old), 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadMapping parses a mapping file written by WriteMapping.
func ReadMapping(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		newStr, oldStr, ok := strings.Cut(scanner.Text(), "\t")
		if !ok {
			return nil, fmt.Errorf("mapping line %d: missing tab separator", lineNum)
		}
		n, err := strconv.ParseUint(newStr, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("mapping line %d: new index: %w", lineNum, err)
		}
		o, err := strconv.ParseUint(oldStr, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("mapping line %d: old label: %w", lineNum, err)
		}
		entries = append(entries, Entry{New: uint32(n), Old: uint32(o)})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
