package remap

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCount(t *testing.T) {
	freq, err := Count(strings.NewReader(basicInput))
	require.NoError(t, err)

	want := map[uint32]uint64{0: 3, 5: 3, 7: 2, 2: 2, 1: 1, 3: 1, 4: 1, 8: 1}
	got := make(map[uint32]uint64)
	freq.Each(func(label uint32, count uint64) { got[label] = count })

	assert.Equal(t, want, got)
	assert.Equal(t, uint32(8), freq.Max())
	assert.True(t, freq.Seen())
	assert.Equal(t, 8, freq.Distinct())
	assert.Equal(t, 3, freq.Records())
	assert.Equal(t, uint64(14), freq.Occurrences())
	assert.Equal(t, uint64(0), freq.Count(6))
}

func TestCount_Empty(t *testing.T) {
	freq, err := Count(strings.NewReader(""))
	require.NoError(t, err)
	assert.False(t, freq.Seen())
	assert.Equal(t, uint32(0), freq.Max())
	assert.Equal(t, 0, freq.Distinct())

	table := Build(freq, 0)
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.Entries())
	_, ok := table.Lookup(0)
	assert.False(t, ok)
}

func TestCount_EmptyRecords(t *testing.T) {
	freq, err := Count(strings.NewReader("a\nb 1\nc\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, freq.Records())
	assert.Equal(t, 2, freq.EmptyRecords())
}

func TestBuild(t *testing.T) {
	freq, err := Count(strings.NewReader(basicInput))
	require.NoError(t, err)

	tests := []struct {
		minHits  uint64
		wantKept []uint32
	}{
		{0, []uint32{0, 1, 2, 3, 4, 5, 7, 8}},
		{1, []uint32{0, 1, 2, 3, 4, 5, 7, 8}},
		{2, []uint32{0, 2, 5, 7}},
		{3, []uint32{0, 5}},
		{4, []uint32{}},
	}

	for _, tt := range tests {
		table := Build(freq, tt.minHits)
		assert.Equal(t, tt.wantKept, table.Kept(), "minHits=%d", tt.minHits)
		assert.Equal(t, len(tt.wantKept), table.Len())

		for rank, old := range tt.wantKept {
			idx, ok := table.Lookup(old)
			require.True(t, ok, "label %d should be kept at minHits=%d", old, tt.minHits)
			assert.Equal(t, uint32(rank), idx)
		}

		// Never-seen and out-of-range labels have no mapping.
		for _, old := range []uint32{6, 9, 1 << 20} {
			_, ok := table.Lookup(old)
			assert.False(t, ok, "label %d", old)
		}
	}
}

func TestBuild_SparseLabels(t *testing.T) {
	input := "a 4294967295 7 4294967295\nb 200000000 7\nc 200000000 9\n"
	freq, err := Count(strings.NewReader(input))
	require.NoError(t, err)

	table := Build(freq, 2)
	assert.Nil(t, table.lookup, "large label range should not allocate a dense lookup")
	assert.Equal(t, []Entry{{0, 7}, {1, 200000000}, {2, 4294967295}}, table.Entries())

	for old, want := range map[uint32]uint32{7: 0, 200000000: 1, 4294967295: 2} {
		idx, ok := table.Lookup(old)
		require.True(t, ok, "label %d", old)
		assert.Equal(t, want, idx, "label %d", old)
	}
	for _, old := range []uint32{0, 9, 199999999, 4294967294} {
		_, ok := table.Lookup(old)
		assert.False(t, ok, "label %d", old)
	}

	var out bytes.Buffer
	_, err = Rewrite(strings.NewReader(input), &out, table)
	require.NoError(t, err)
	assert.Equal(t, "a 2 0 2\nb 1 0\nc 1\n", out.String())
}

func TestTable_Entries(t *testing.T) {
	freq, err := Count(strings.NewReader(basicInput))
	require.NoError(t, err)

	entries := Build(freq, 2).Entries()
	assert.Equal(t, []Entry{{0, 0}, {1, 2}, {2, 5}, {3, 7}}, entries)
}

func TestRewrite(t *testing.T) {
	freq, err := Count(strings.NewReader(basicInput))
	require.NoError(t, err)

	var out bytes.Buffer
	stats, err := Rewrite(strings.NewReader(basicInput), &out, Build(freq, 3))
	require.NoError(t, err)

	assert.Equal(t, "1 0 1\n2 1 0\n0 0 1\n", out.String())
	assert.Equal(t, RewriteStats{Records: 3, LabelsIn: 14, LabelsOut: 6}, stats)
}

func TestRewrite_Emptied(t *testing.T) {
	input := "a 1 2\nb\nc 3 3\n"
	freq, err := Count(strings.NewReader(input))
	require.NoError(t, err)

	var out bytes.Buffer
	stats, err := Rewrite(strings.NewReader(input), &out, Build(freq, 2))
	require.NoError(t, err)

	assert.Equal(t, "a\nb\nc 0 0\n", out.String())
	assert.Equal(t, 1, stats.Emptied)
}

func TestRewrite_LabelBeyondTable(t *testing.T) {
	freq, err := Count(strings.NewReader("a 1 1\n"))
	require.NoError(t, err)

	// Input changed between passes: label 50 was never counted.
	var out bytes.Buffer
	_, err = Rewrite(strings.NewReader("a 1 50 1\n"), &out, Build(freq, 1))
	require.NoError(t, err)
	assert.Equal(t, "a 0 0\n", out.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRewrite_WriteError(t *testing.T) {
	freq, err := Count(strings.NewReader(basicInput))
	require.NoError(t, err)

	_, err = Rewrite(strings.NewReader(basicInput), failingWriter{}, Build(freq, 1))
	require.EqualError(t, err, "disk full")
}

func TestWriteReadMapping(t *testing.T) {
	entries := []Entry{{0, 3}, {1, 10}, {2, 4294967295}}

	var buf bytes.Buffer
	require.NoError(t, WriteMapping(&buf, entries))
	assert.Equal(t, "0\t3\n1\t10\n2\t4294967295\n", buf.String())

	got, err := ReadMapping(&buf)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestWriteMapping_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMapping(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestReadMapping_Invalid(t *testing.T) {
	for _, input := range []string{"0 3\n", "x\t3\n", "0\ty\n", "0\t-1\n"} {
		_, err := ReadMapping(strings.NewReader(input))
		assert.Error(t, err, "input %q", input)
	}
}
