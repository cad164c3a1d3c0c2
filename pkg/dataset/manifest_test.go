package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManifestFormat(t *testing.T) {
	raw, err := NewManifest("/tmp/out").Marshal()
	require.NoError(t, err)
	require.Equal(t, `path: /tmp/out
train: images/train
val: images/val
test: images/val
names:
  0: others
  1: car
  2: van
  3: bus
`, string(raw))
}

func TestWriteManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ManifestFilename), "path: somewhere else\n")
	require.NoError(t, WriteManifest(dir))

	m, err := LoadManifest(ManifestPath(dir))
	require.NoError(t, err)
	require.Equal(t, dir, m.Path)
	require.Equal(t, "images/train", m.Train)
	require.Equal(t, "images/val", m.Val)
	require.Equal(t, m.Val, m.Test)
	require.Equal(t, map[int]string{0: "others", 1: "car", 2: "van", 3: "bus"}, m.Names)
}

func TestWriteManifestMissingDir(t *testing.T) {
	err := WriteManifest(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
