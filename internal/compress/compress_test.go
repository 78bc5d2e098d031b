package compress

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		want Codec
	}{
		{"reads.txt", None},
		{"reads", None},
		{"reads.aln.gz", Gzip},
		{"READS.GZ", Gzip},
		{"reads.zst", Zstd},
		{"reads.zstd", Zstd},
		{"reads.lz4", LZ4},
		{"dir.gz/reads", None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.name))
		})
	}
}

func TestCreateOpen(t *testing.T) {
	payload := []byte("1 0 5 7\n2 5 0 7 8 2\n0 0 1 2 3 4 5\n")

	for _, name := range []string{"out.txt", "out.gz", "out.zst", "out.lz4"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			w, err := Create(path, 0)
			require.NoError(t, err)
			_, err = w.Write(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			r, err := Open(path)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())

			assert.Equal(t, payload, got)
		})
	}
}

func TestCreateCompresses(t *testing.T) {
	payload := bytes.Repeat([]byte("read 1 2 3 4 5 6 7 8 9\n"), 1000)

	for _, name := range []string{"out.gz", "out.zst", "out.lz4"} {
		path := filepath.Join(t.TempDir(), name)
		w, err := Create(path, 3)
		require.NoError(t, err)
		_, err = w.Write(payload)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Less(t, info.Size(), int64(len(payload)), name)
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.gz"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenCorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.gz")
	require.NoError(t, os.WriteFile(path, []byte("not gzip"), 0o600))

	_, err := Open(path)
	require.Error(t, err)
}
