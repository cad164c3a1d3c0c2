package dataset

import (
	"fmt"
)

// Config describes where the raw dataset lives, and how to reorganize it.
// It is constructed once at startup and handed to a Preparer.
type Config struct {
	ImageDir      string  `json:"imageDir"`      // One subdirectory per sequence, eg DETRAC-Images/MVI_20011/img00001.jpg
	LabelDir      string  `json:"labelDir"`      // Searched recursively for <sequence>_<segment>_<frame>.txt
	OutputDir     string  `json:"outputDir"`     // Root of the YOLO directory tree that we produce
	ImageExt      string  `json:"imageExt"`      // Only images with this extension are copied (eg ".jpg")
	Seed          int64   `json:"seed"`          // Seed for the train/val shuffle
	TrainFraction float64 `json:"trainFraction"` // Fraction of sequences that go into the training split
	Strict        bool    `json:"strict"`        // Fail on malformed label names and file name collisions, instead of counting them
}

const (
	DefaultImageExt      = ".jpg"
	DefaultSeed          = 42
	DefaultTrainFraction = 0.8
)

func DefaultConfig() Config {
	return Config{
		ImageExt:      DefaultImageExt,
		Seed:          DefaultSeed,
		TrainFraction: DefaultTrainFraction,
	}
}

func (c *Config) Validate() error {
	if c.ImageDir == "" {
		return fmt.Errorf("Image directory not specified")
	}
	if c.LabelDir == "" {
		return fmt.Errorf("Label directory not specified")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("Output directory not specified")
	}
	if c.ImageExt == "" {
		return fmt.Errorf("Image extension not specified")
	}
	if c.TrainFraction < 0 || c.TrainFraction > 1 {
		return fmt.Errorf("Train fraction must be between 0 and 1, but is %v", c.TrainFraction)
	}
	return nil
}
