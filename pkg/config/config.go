package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/cyclopcam/yoloprep/pkg/dataset"
	"github.com/cyclopcam/yoloprep/pkg/detector"
)

// DefaultFilename is loaded when no config file is specified. It is optional.
const DefaultFilename = "yoloprep.json"

type Config struct {
	Dataset  dataset.Config  `json:"dataset"`
	Detector detector.Config `json:"detector"`
}

func Default() *Config {
	return &Config{
		Dataset:  dataset.DefaultConfig(),
		Detector: detector.DefaultConfig(),
	}
}

// LoadConfig reads a JSON config file. Fields that are absent from the file keep their defaults.
// If filename is empty, DefaultFilename is used if it exists.
func LoadConfig(filename string) (*Config, error) {
	cfg := Default()
	optional := filename == ""
	if optional {
		filename = DefaultFilename
	}
	raw, err := os.ReadFile(filename)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("Error loading %v: %w", filename, err)
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("Error loading as JSON %v: %w", filename, err)
	}
	return cfg, nil
}
