package dataset

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/cyclopcam/yoloprep/pkg/iox"
	"github.com/cyclopcam/yoloprep/pkg/nn"
	"gopkg.in/yaml.v3"
)

// ManifestFilename is the name of the manifest inside the output directory
const ManifestFilename = "data.yaml"

const (
	SplitTrain = "train"
	SplitVal   = "val"
)

// Manifest tells the detector where to find the dataset, and what the class ids mean
type Manifest struct {
	Path  string         `yaml:"path"`
	Train string         `yaml:"train"`
	Val   string         `yaml:"val"`
	Test  string         `yaml:"test"`
	Names map[int]string `yaml:"names"`
}

// Relative path of the image directory of a split
func ImageDir(split string) string {
	return path.Join("images", split)
}

// Relative path of the label directory of a split
func LabelDir(split string) string {
	return path.Join("labels", split)
}

// NewManifest describes the tree produced under outputDir.
// The validation images are reused as the test set.
func NewManifest(outputDir string) *Manifest {
	return &Manifest{
		Path:  outputDir,
		Train: ImageDir(SplitTrain),
		Val:   ImageDir(SplitVal),
		Test:  ImageDir(SplitVal),
		Names: nn.ClassNames(),
	}
}

func (m *Manifest) Marshal() ([]byte, error) {
	buf := bytes.Buffer{}
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ManifestPath returns the location of the manifest for outputDir
func ManifestPath(outputDir string) string {
	return filepath.Join(outputDir, ManifestFilename)
}

// WriteManifest writes data.yaml into outputDir, replacing any existing manifest
func WriteManifest(outputDir string) error {
	raw, err := NewManifest(outputDir).Marshal()
	if err != nil {
		return err
	}
	if err := iox.WriteFileAtomic(ManifestPath(outputDir), raw); err != nil {
		return fmt.Errorf("Error writing manifest: %w", err)
	}
	return nil
}

func LoadManifest(filename string) (*Manifest, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("Error loading manifest %v: %w", filename, err)
	}
	m := &Manifest{}
	if err := yaml.Unmarshal(raw, m); err != nil {
		return nil, fmt.Errorf("Error parsing manifest %v: %w", filename, err)
	}
	return m, nil
}
