package dataset

import (
	"github.com/cyclopcam/logs"
	"github.com/dustin/go-humanize"
)

// Preparer reorganizes a raw dataset into the directory layout of a YOLO detector
type Preparer struct {
	Log         logs.Log
	Config      Config
	NewProgress func(description string, total int) Progress // Optional
}

func NewPreparer(log logs.Log, config Config) *Preparer {
	return &Preparer{
		Log:    log,
		Config: config,
	}
}

// Prepare discovers usable sequences, splits them, copies them into the output tree, and writes the manifest.
// Any filesystem error aborts the run. Running it again with the same inputs is safe, and produces the same tree.
func (p *Preparer) Prepare() (*Report, error) {
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}

	sequences, err := DiscoverSequences(p.Config.ImageDir, p.Config.LabelDir)
	if err != nil {
		return nil, err
	}
	p.Log.Infof("Found %v sequences with labels in %v", len(sequences), p.Config.ImageDir)
	if len(sequences) == 0 {
		p.Log.Warnf("No usable sequences. The output dataset will be empty")
	}

	split := SplitSequences(sequences, p.Config.Seed, p.Config.TrainFraction)
	p.Log.Infof("Split: %v train sequences, %v val sequences", len(split.Train), len(split.Val))

	report, err := p.Materialize(split)
	if err != nil {
		return nil, err
	}
	p.Log.Infof("Train: %v images, %v labels", report.Train.Images, report.Train.Labels)
	p.Log.Infof("Val: %v images, %v labels", report.Val.Images, report.Val.Labels)
	p.Log.Infof("Copied %v", humanize.Bytes(uint64(report.BytesCopied)))
	if report.SkippedLabels != 0 {
		p.Log.Warnf("Skipped %v label files with malformed names", report.SkippedLabels)
	}
	if report.ImageCollisions != 0 || report.LabelCollisions != 0 {
		p.Log.Warnf("Overwrote %v images and %v labels that had the same name in different sequences", report.ImageCollisions, report.LabelCollisions)
	}

	if err := WriteManifest(p.Config.OutputDir); err != nil {
		return nil, err
	}
	p.Log.Infof("Wrote %v", ManifestPath(p.Config.OutputDir))
	return report, nil
}
