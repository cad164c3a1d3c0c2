package detector

import "fmt"

// Config holds the detector hyperparameters, and how to reach the detector CLI
type Config struct {
	Binary     string  `json:"binary"`     // The ultralytics CLI, usually "yolo"
	Model      string  `json:"model"`      // Pretrained weights to fine-tune, eg yolov8n.pt
	ImageSize  int     `json:"imageSize"`  // Training and inference resolution
	BatchSize  int     `json:"batchSize"`  // Training batch size
	Epochs     int     `json:"epochs"`     // Training epochs
	Confidence float64 `json:"confidence"` // Minimum confidence for evaluation and prediction
	Device     string  `json:"device"`     // eg "cuda", "cpu", "0"
	Project    string  `json:"project"`    // Parent directory of run directories
	ImageExt   string  `json:"imageExt"`   // Extension of frames when predicting on a directory
	TempDir    string  `json:"tempDir"`    // Where to write temporary source lists. Empty = os.TempDir()
}

func DefaultConfig() Config {
	return Config{
		Binary:     "yolo",
		Model:      "yolov8n.pt",
		ImageSize:  640,
		BatchSize:  16,
		Epochs:     50,
		Confidence: 0.25,
		Device:     "cuda",
		Project:    "runs/detect",
		ImageExt:   ".jpg",
	}
}

func (c *Config) Validate() error {
	if c.Binary == "" {
		return fmt.Errorf("Detector binary not specified")
	}
	if c.ImageSize <= 0 || c.BatchSize <= 0 || c.Epochs <= 0 {
		return fmt.Errorf("Image size, batch size, and epochs must be positive (%v, %v, %v)", c.ImageSize, c.BatchSize, c.Epochs)
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("Confidence must be between 0 and 1, but is %v", c.Confidence)
	}
	return nil
}
