package dataset

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Archive writes the manifest, images and labels of a prepared dataset into a zip stream.
// Entries are written in lexical order, and without timestamps, so the same tree always produces the same archive.
func Archive(w io.Writer, root string) error {
	zipWriter := zip.NewWriter(w)

	if err := addToZip(zipWriter, ManifestPath(root), ManifestFilename); err != nil {
		return err
	}
	for _, top := range []string{"images", "labels"} {
		err := filepath.WalkDir(filepath.Join(root, top), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			return addToZip(zipWriter, path, filepath.ToSlash(rel))
		})
		if err != nil {
			return err
		}
	}
	return zipWriter.Close()
}

func addToZip(zipWriter *zip.Writer, src, name string) error {
	method := zip.Deflate
	if ext := strings.ToLower(filepath.Ext(name)); ext == ".jpg" || ext == ".jpeg" || ext == ".png" {
		// Already compressed
		method = zip.Store
	}
	file, err := os.Open(src)
	if err != nil {
		return err
	}
	defer file.Close()
	dst, err := zipWriter.CreateHeader(&zip.FileHeader{Name: name, Method: method})
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, file)
	return err
}
