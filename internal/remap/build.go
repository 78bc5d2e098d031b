package remap

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
)

// unmapped marks a lookup slot whose label was dropped or never seen.
const unmapped = math.MaxUint32

// maxDenseLookup caps the dense old->new slice at 64 MiB. Tables whose
// largest label is beyond it answer lookups by rank in the kept bitmap, so
// memory follows the number of kept labels rather than the largest value.
const maxDenseLookup = 1 << 24

// Table is the result of selecting and renumbering labels.
type Table struct {
	kept   *roaring.Bitmap
	lookup []uint32 // indexed by old label; nil when sparse
}

// Build keeps every label whose count is at least minHits and numbers the
// kept labels by ascending rank.
func Build(freq *Frequencies, minHits uint64) *Table {
	kept := roaring.New()
	freq.Each(func(label uint32, count uint64) {
		if count >= minHits {
			kept.Add(label)
		}
	})

	t := &Table{kept: kept}
	if !freq.Seen() || uint64(freq.Max()) >= maxDenseLookup {
		return t
	}

	t.lookup = make([]uint32, uint64(freq.Max())+1)
	for i := range t.lookup {
		t.lookup[i] = unmapped
	}

	var next uint32
	it := kept.Iterator()
	for it.HasNext() {
		t.lookup[it.Next()] = next
		next++
	}
	return t
}

// Lookup returns the new index of an old label.
func (t *Table) Lookup(old uint32) (uint32, bool) {
	if t.lookup == nil {
		if !t.kept.Contains(old) {
			return 0, false
		}
		return uint32(t.kept.Rank(old) - 1), true
	}
	if uint64(old) >= uint64(len(t.lookup)) {
		return 0, false
	}
	v := t.lookup[old]
	return v, v != unmapped
}

// Len is the number of kept labels.
func (t *Table) Len() int { return int(t.kept.GetCardinality()) }

// Kept returns the kept labels in ascending order.
func (t *Table) Kept() []uint32 { return t.kept.ToArray() }

// Entries returns the (new, old) pairs in ascending new-index order.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, 0, t.Len())
	it := t.kept.Iterator()
	for it.HasNext() {
		entries = append(entries, Entry{New: uint32(len(entries)), Old: it.Next()})
	}
	return entries
}
