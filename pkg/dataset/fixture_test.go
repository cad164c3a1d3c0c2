package dataset

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, filename, content string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(filename), 0755))
	require.NoError(t, os.WriteFile(filename, []byte(content), 0644))
}

type fixture struct {
	imageDir string
	labelDir string
	outDir   string
}

// Builds a small raw dataset:
//
//	MVI_20011: 2 images, 2 labels in labels/a
//	MVI_20012: 1 image (same name as in MVI_20011), 1 label in labels/b/c
//	MVI_2001:  1 image, no labels of its own (but it is a prefix of MVI_20011)
//	MVI_39031: 1 image, no labels
//	seq1:      1 image, one well-formed label and one with only 2 tokens
func newFixture(t *testing.T) *fixture {
	root := t.TempDir()
	f := &fixture{
		imageDir: filepath.Join(root, "images"),
		labelDir: filepath.Join(root, "labels"),
		outDir:   filepath.Join(root, "out"),
	}
	writeFile(t, filepath.Join(f.imageDir, "MVI_20011", "img00001.jpg"), "20011-1")
	writeFile(t, filepath.Join(f.imageDir, "MVI_20011", "img00002.jpg"), "20011-2")
	writeFile(t, filepath.Join(f.imageDir, "MVI_20011", "notes.txt"), "not an image")
	writeFile(t, filepath.Join(f.imageDir, "MVI_20011", "nested", "img00003.jpg"), "not copied")
	writeFile(t, filepath.Join(f.imageDir, "MVI_20012", "img00001.jpg"), "20012-1")
	writeFile(t, filepath.Join(f.imageDir, "MVI_2001", "img00001.jpg"), "2001-1")
	writeFile(t, filepath.Join(f.imageDir, "MVI_39031", "img00001.jpg"), "39031-1")
	writeFile(t, filepath.Join(f.imageDir, "seq1", "frame7.jpg"), "seq1-7")
	writeFile(t, filepath.Join(f.imageDir, "stray.jpg"), "not a sequence")

	writeFile(t, filepath.Join(f.labelDir, "a", "MVI_20011_img00001.txt"), "1 0.5 0.5 0.1 0.1\n")
	writeFile(t, filepath.Join(f.labelDir, "a", "MVI_20011_img00002.txt"), "2 0.5 0.5 0.2 0.2\n3 0.1 0.1 0.1 0.1\n")
	writeFile(t, filepath.Join(f.labelDir, "b", "c", "MVI_20012_img00001.txt"), "0 0.3 0.3 0.1 0.1\n")
	writeFile(t, filepath.Join(f.labelDir, "seq1_a.txt"), "1 0.5 0.5 0.5 0.5\n")
	writeFile(t, filepath.Join(f.labelDir, "seq1_a_00007.txt"), "")
	writeFile(t, filepath.Join(f.labelDir, "MVI_39031.json"), "{}")
	return f
}

func (f *fixture) config() Config {
	c := DefaultConfig()
	c.ImageDir = f.imageDir
	c.LabelDir = f.labelDir
	c.OutputDir = f.outDir
	return c
}

// Returns relative path -> content for every file under root
func snapshot(t *testing.T, root string) map[string]string {
	files := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		files[filepath.ToSlash(rel)] = string(raw)
		return nil
	})
	require.NoError(t, err)
	return files
}
