package detector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cyclopcam/yoloprep/pkg/dataset"
	"github.com/cyclopcam/yoloprep/pkg/nn"
)

// Predict runs the detector over source, which is an image, a directory of images, or a .txt file listing images.
// One ImageLabels is returned per input image, in frame order. Images without detections have no objects.
func (d *Detector) Predict(ctx context.Context, weights, source string) ([]nn.ImageLabels, error) {
	images, err := d.sourceImages(source)
	if err != nil {
		return nil, err
	}
	name, runDir := d.newRun("predict")
	_, err = d.exec(ctx, "predict",
		"model", weights,
		"source", source,
		"conf", ftoa(d.Config.Confidence),
		"imgsz", itoa(d.Config.ImageSize),
		"device", d.Config.Device,
		"project", d.Config.Project,
		"name", name,
		"save_txt", "True",
		"save_conf", "True",
	)
	if err != nil {
		return nil, err
	}

	result := make([]nn.ImageLabels, 0, len(images))
	for _, img := range images {
		stem := strings.TrimSuffix(filepath.Base(img), filepath.Ext(img))
		objects, err := readPredictions(filepath.Join(runDir, "labels", stem+".txt"))
		if err != nil {
			return nil, err
		}
		labels := nn.ImageLabels{Image: img, Objects: objects}
		if width, height, err := imageSize(img); err != nil {
			d.Log.Warnf("Unable to read dimensions of %v, pixel boxes omitted: %v", img, err)
		} else {
			labels.SetPixelRects(width, height)
		}
		result = append(result, labels)
	}
	return result, nil
}

// imageSize reads only the image header
func imageSize(filename string) (int, int, error) {
	f, err := os.Open(filename)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(bufio.NewReader(f))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// PredictSegment runs the detector over frames [start,end) of imageDir, in frame order
func (d *Detector) PredictSegment(ctx context.Context, weights, imageDir string, start, end int) ([]nn.ImageLabels, error) {
	frames, err := dataset.SortedFrames(imageDir, d.Config.ImageExt)
	if err != nil {
		return nil, err
	}
	segment := dataset.FrameSegment(frames, start, end)
	if len(segment) == 0 {
		return nil, fmt.Errorf("No frames in [%v,%v) of %v", start, end, imageDir)
	}

	list, err := os.CreateTemp(d.Config.TempDir, "segment-*.txt")
	if err != nil {
		return nil, err
	}
	defer os.Remove(list.Name())
	for _, frame := range segment {
		abs, err := filepath.Abs(frame)
		if err != nil {
			list.Close()
			return nil, err
		}
		fmt.Fprintln(list, abs)
	}
	if err := list.Close(); err != nil {
		return nil, err
	}
	return d.Predict(ctx, weights, list.Name())
}

// Returns the images that the detector will see for source
func (d *Detector) sourceImages(source string) ([]string, error) {
	st, err := os.Stat(source)
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return dataset.SortedFrames(source, d.Config.ImageExt)
	}
	if strings.EqualFold(filepath.Ext(source), ".txt") {
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		images := []string{}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				images = append(images, line)
			}
		}
		return images, scanner.Err()
	}
	return []string{source}, nil
}

// Reads a label file written by the detector with save_conf: <class> <cx> <cy> <w> <h> <confidence>
func readPredictions(filename string) ([]nn.Detection, error) {
	f, err := os.Open(filename)
	if errors.Is(err, os.ErrNotExist) {
		return []nn.Detection{}, nil
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	objects := []nn.Detection{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		det, err := parsePrediction(fields)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", filename, err)
		}
		objects = append(objects, det)
	}
	return objects, scanner.Err()
}

func parsePrediction(fields []string) (nn.Detection, error) {
	if len(fields) != 6 {
		return nn.Detection{}, fmt.Errorf("Expected 6 fields in prediction, but found %v", len(fields))
	}
	class, err := strconv.Atoi(fields[0])
	if err != nil {
		return nn.Detection{}, fmt.Errorf("Invalid class id '%v'", fields[0])
	}
	var v [5]float32
	for i := range v {
		f, err := strconv.ParseFloat(fields[i+1], 32)
		if err != nil {
			return nn.Detection{}, fmt.Errorf("Invalid number '%v'", fields[i+1])
		}
		v[i] = float32(f)
	}
	return nn.Detection{
		Class:      class,
		Confidence: v[4],
		Box:        nn.Box{CenterX: v[0], CenterY: v[1], Width: v[2], Height: v[3]},
	}, nil
}
