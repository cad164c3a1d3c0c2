package iox

import (
	"io"
	"os"
	"path/filepath"
)

// WriteStreamToFile copies src into dstFilename. On failure, the partially written file is removed.
func WriteStreamToFile(dstFilename string, src io.Reader) (int64, error) {
	dstFile, err := os.Create(dstFilename)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(dstFile, src)
	if err == nil {
		err = dstFile.Close()
	} else {
		dstFile.Close()
	}
	if err != nil {
		os.Remove(dstFilename)
		return 0, err
	}
	return n, nil
}

// CopyFile copies the bytes of src into dst, overwriting dst if it exists
func CopyFile(dst, src string) (int64, error) {
	file, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	return WriteStreamToFile(dst, file)
}

// WriteFileAtomic writes data to a temporary file in the same directory, and then renames it over filename
func WriteFileAtomic(filename string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, filename); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
