package dataset

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LabelSeparator joins the tokens of a label file name: <sequence>_<segment>_<frame>.txt
const LabelSeparator = "_"

const labelExt = ".txt"

// DiscoverSequences returns the sorted names of all sequences in imageDir that have at least
// one label file under labelDir. A sequence is an immediate subdirectory of imageDir.
// Having no usable sequences is not an error.
func DiscoverSequences(imageDir, labelDir string) ([]string, error) {
	candidates, err := sequenceDirs(imageDir)
	if err != nil {
		return nil, err
	}
	labels, err := findLabelFiles(labelDir)
	if err != nil {
		return nil, err
	}
	names := labelNames(labels)

	usable := []string{}
	for _, seq := range candidates {
		if hasPrefix(names, sequencePrefix(seq)) {
			usable = append(usable, seq)
		}
	}
	sort.Strings(usable)
	return usable, nil
}

func sequencePrefix(seq string) string {
	return seq + LabelSeparator
}

// Returns the names of the subdirectories of imageDir
func sequenceDirs(imageDir string) ([]string, error) {
	entries, err := os.ReadDir(imageDir)
	if err != nil {
		return nil, err
	}
	dirs := []string{}
	for _, e := range entries {
		isDir := e.IsDir()
		if !isDir && e.Type()&fs.ModeSymlink != 0 {
			if st, err := os.Stat(filepath.Join(imageDir, e.Name())); err == nil {
				isDir = st.IsDir()
			}
		}
		if isDir {
			dirs = append(dirs, e.Name())
		}
	}
	return dirs, nil
}

// Returns the full paths of all label files under labelDir, in lexical order
func findLabelFiles(labelDir string) ([]string, error) {
	files := []string{}
	err := filepath.WalkDir(labelDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), labelExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Returns the sorted base names of files
func labelNames(files []string) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f)
	}
	sort.Strings(names)
	return names
}

// Returns true if any element of the sorted slice 'names' starts with prefix
func hasPrefix(names []string, prefix string) bool {
	i := sort.SearchStrings(names, prefix)
	return i < len(names) && strings.HasPrefix(names[i], prefix)
}

// Returns the label files that belong to the sequence
func sequenceLabels(labels []string, seq string) []string {
	prefix := sequencePrefix(seq)
	matches := []string{}
	for _, f := range labels {
		if strings.HasPrefix(filepath.Base(f), prefix) {
			matches = append(matches, f)
		}
	}
	return matches
}

// Returns the images of a sequence directory, which is not searched recursively
func sequenceImages(seqDir, ext string) ([]string, error) {
	entries, err := os.ReadDir(seqDir)
	if err != nil {
		return nil, err
	}
	images := []string{}
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ext {
			images = append(images, filepath.Join(seqDir, e.Name()))
		}
	}
	return images, nil
}

// LabelFrameID extracts the frame identifier from a label file name.
// MVI_20011_img00123.txt -> img00123
// Names with fewer than 3 tokens have no frame identifier.
func LabelFrameID(name string) (string, bool) {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	parts := strings.Split(stem, LabelSeparator)
	if len(parts) < 3 {
		return "", false
	}
	return parts[2], true
}
