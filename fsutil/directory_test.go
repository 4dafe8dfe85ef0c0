package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ReplaceWithCopyRemovesTarget(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "keep.txt"), []byte("new"), os.ModePerm))

	dst := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dst, "stale.txt"), []byte("old"), os.ModePerm))

	require.NoError(t, ReplaceWithCopy(src, dst))

	_, err := os.Stat(filepath.Join(dst, "stale.txt"))
	require.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(filepath.Join(dst, "keep.txt"))
	require.NoError(t, err)
	require.Equal(t, []byte("new"), data)
}

func Test_ReplaceWithCopyRejectsOverlap(t *testing.T) {
	seed := filepath.Join(t.TempDir(), "seed")
	require.NoError(t, os.MkdirAll(filepath.Join(seed, "sub"), os.ModePerm))
	require.NoError(t, os.WriteFile(filepath.Join(seed, "keep.txt"), []byte("x"), os.ModePerm))

	tests := []struct {
		name string
		src  string
		dst  string
	}{
		{"SamePath", seed, seed},
		{"DstInsideSrc", seed, filepath.Join(seed, "sub")},
		{"SrcInsideDst", filepath.Join(seed, "sub"), seed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ReplaceWithCopy(tt.src, tt.dst)
			require.ErrorContains(t, err, "overlaps")

			_, err = os.Stat(filepath.Join(seed, "keep.txt"))
			require.NoError(t, err, "the source tree must stay intact")
		})
	}
}
