package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cyclopcam/yoloprep/pkg/nn"
)

var ErrInvalidLabel = errors.New("Invalid label")

// ParseDetectionLine parses one line of a YOLO label file: <class> <cx> <cy> <w> <h>
func ParseDetectionLine(line string) (nn.Detection, error) {
	fields := strings.Fields(line)
	if len(fields) != 5 {
		return nn.Detection{}, fmt.Errorf("%w: expected 5 fields, but found %v", ErrInvalidLabel, len(fields))
	}
	class, err := strconv.Atoi(fields[0])
	if err != nil {
		return nn.Detection{}, fmt.Errorf("%w: class id '%v' is not an integer", ErrInvalidLabel, fields[0])
	}
	if _, ok := nn.ClassName(class); !ok {
		return nn.Detection{}, fmt.Errorf("%w: unknown class id %v", ErrInvalidLabel, class)
	}
	var v [4]float32
	for i := range v {
		f, err := strconv.ParseFloat(fields[i+1], 32)
		if err != nil {
			return nn.Detection{}, fmt.Errorf("%w: '%v' is not a number", ErrInvalidLabel, fields[i+1])
		}
		v[i] = float32(f)
	}
	box := nn.Box{CenterX: v[0], CenterY: v[1], Width: v[2], Height: v[3]}
	if !box.Valid() {
		return nn.Detection{}, fmt.Errorf("%w: box %v %v %v %v is not normalized to [0,1]", ErrInvalidLabel, fields[1], fields[2], fields[3], fields[4])
	}
	return nn.Detection{Class: class, Confidence: 1, Box: box}, nil
}

// ReadLabels parses every line of a label file. An empty file has no detections.
// A single bad line fails the whole file.
func ReadLabels(r io.Reader) ([]nn.Detection, error) {
	scanner := bufio.NewScanner(r)
	dets := []nn.Detection{}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		det, err := ParseDetectionLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %v: %w", lineNo, err)
		}
		dets = append(dets, det)
	}
	if err := scanner.Err(); errors.Is(err, bufio.ErrTooLong) {
		return nil, fmt.Errorf("line %v: %w: %w", lineNo+1, ErrInvalidLabel, err)
	} else if err != nil {
		return nil, err
	}
	return dets, nil
}

// ValidateLabels returns nil if every line of r is a valid detection
func ValidateLabels(r io.Reader) error {
	_, err := ReadLabels(r)
	return err
}

func ValidateLabelFile(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := ValidateLabels(f); err != nil {
		return fmt.Errorf("%v: %w", filepath.Base(filename), err)
	}
	return nil
}

// InvalidLabel is a label file that failed validation
type InvalidLabel struct {
	Path string
	Err  error
}

// ValidateLabelDir validates every label file in dir (not recursive).
// Invalid files are returned. The error is only for problems reading the directory.
func ValidateLabelDir(dir string) ([]InvalidLabel, error) {
	files, err := listFiles(dir, labelExt)
	if err != nil {
		return nil, err
	}
	invalid := []InvalidLabel{}
	for _, fn := range files {
		if err := ValidateLabelFile(fn); err != nil {
			if errors.Is(err, ErrInvalidLabel) {
				invalid = append(invalid, InvalidLabel{Path: fn, Err: err})
			} else {
				return nil, err
			}
		}
	}
	return invalid, nil
}

// CountClassInstances counts the objects of each class over all label files in dir.
// Every known class is present in the result. Unknown class ids are ignored.
func CountClassInstances(dir string) (map[int]int, error) {
	files, err := listFiles(dir, labelExt)
	if err != nil {
		return nil, err
	}
	counts := map[int]int{}
	for i := range nn.VehicleClasses {
		counts[i] = 0
	}
	for _, fn := range files {
		if _, err := countFileInstances(fn, counts); err != nil {
			return nil, err
		}
	}
	return counts, nil
}

// Adds the class instances of one label file into counts, and returns the number of known objects in the file.
// Only the class id of each line is inspected.
func countFileInstances(filename string, counts map[int]int) (int, error) {
	f, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	total := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		class, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0, fmt.Errorf("%v: class id '%v' is not an integer", filename, fields[0])
		}
		if _, ok := nn.ClassName(class); ok {
			counts[class]++
			total++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("%v: %w", filename, err)
	}
	return total, nil
}

// Returns the files in dir with the given extension, sorted by name
func listFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := []string{}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ext) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
