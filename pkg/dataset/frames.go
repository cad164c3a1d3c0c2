package dataset

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var digitRegex = regexp.MustCompile(`\d+`)

// FrameNumber returns the first run of digits in the file name (without extension), or 0 if there is none.
// img00123.jpg -> 123
func FrameNumber(filename string) int {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	digits := digitRegex.FindString(stem)
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// SortedFrames returns the files in dir with extension ext, ordered by frame number.
// Files with equal frame numbers are ordered by name.
func SortedFrames(dir, ext string) ([]string, error) {
	files, err := listFiles(dir, ext)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(files, func(i, j int) bool {
		return FrameNumber(files[i]) < FrameNumber(files[j])
	})
	return files, nil
}

// FrameSegment returns frames[start:end], with start and end clamped to the valid range
func FrameSegment(frames []string, start, end int) []string {
	start = max(0, min(start, len(frames)))
	end = max(start, min(end, len(frames)))
	return frames[start:end]
}
