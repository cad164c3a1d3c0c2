package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cyclopcam/yoloprep/pkg/iox"
)

var ErrMalformedLabelName = errors.New("Malformed label file name")
var ErrImageCollision = errors.New("Image file name collision")
var ErrLabelCollision = errors.New("Label file name collision")

// Progress receives one Add(1) per copied file. *progressbar.ProgressBar satisfies it.
type Progress interface {
	Add(num int) error
	Finish() error
}

// SplitReport describes what was copied into one split
type SplitReport struct {
	Sequences []string `json:"sequences"`
	Images    int      `json:"images"`
	Labels    int      `json:"labels"`
}

// Report describes a Materialize or Prepare run.
// Skipped labels and collisions are only counted, unless the Preparer is strict.
type Report struct {
	Train           SplitReport `json:"train"`
	Val             SplitReport `json:"val"`
	SkippedLabels   int         `json:"skippedLabels"`
	ImageCollisions int         `json:"imageCollisions"`
	LabelCollisions int         `json:"labelCollisions"`
	BytesCopied     int64       `json:"bytesCopied"`
}

type copyJob struct {
	src string
	dst string
}

// Materialize copies the images and labels of every sequence in split into the output tree.
// Images keep their names. Labels are renamed to <frame>.txt.
// Existing files are overwritten, and files from previous runs are never removed.
func (p *Preparer) Materialize(split Split) (*Report, error) {
	for _, s := range []string{SplitTrain, SplitVal} {
		for _, dir := range []string{ImageDir(s), LabelDir(s)} {
			if err := os.MkdirAll(filepath.Join(p.Config.OutputDir, dir), 0755); err != nil {
				return nil, err
			}
		}
	}

	labels, err := findLabelFiles(p.Config.LabelDir)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	if err := p.materializeSplit(SplitTrain, split.Train, labels, report, &report.Train); err != nil {
		return nil, err
	}
	if err := p.materializeSplit(SplitVal, split.Val, labels, report, &report.Val); err != nil {
		return nil, err
	}
	return report, nil
}

func (p *Preparer) materializeSplit(split string, sequences []string, labels []string, report *Report, splitReport *SplitReport) error {
	splitReport.Sequences = append([]string{}, sequences...)
	jobs, err := p.planSplit(split, sequences, labels, report, splitReport)
	if err != nil {
		return err
	}

	var progress Progress
	if p.NewProgress != nil && len(jobs) != 0 {
		progress = p.NewProgress(fmt.Sprintf("Copying %v", split), len(jobs))
	}
	for _, job := range jobs {
		n, err := iox.CopyFile(job.dst, job.src)
		if err != nil {
			return fmt.Errorf("Error copying %v to %v: %w", job.src, job.dst, err)
		}
		report.BytesCopied += n
		if progress != nil {
			if err := progress.Add(1); err != nil {
				// A broken progress display must not fail the copy
				p.Log.Warnf("Progress display failed, continuing without it: %v", err)
				progress = nil
			}
		}
	}
	if progress != nil {
		if err := progress.Finish(); err != nil {
			p.Log.Warnf("Progress display failed: %v", err)
		}
	}
	return nil
}

// Builds the list of copies for a split, and counts skips and collisions along the way
func (p *Preparer) planSplit(split string, sequences []string, labels []string, report *Report, splitReport *SplitReport) ([]copyJob, error) {
	imageDst := filepath.Join(p.Config.OutputDir, ImageDir(split))
	labelDst := filepath.Join(p.Config.OutputDir, LabelDir(split))

	jobs := []copyJob{}
	imageOwner := map[string]string{} // destination -> sequence
	labelOwner := map[string]string{}

	for _, seq := range sequences {
		images, err := sequenceImages(filepath.Join(p.Config.ImageDir, seq), p.Config.ImageExt)
		if err != nil {
			return nil, err
		}
		for _, img := range images {
			dst := filepath.Join(imageDst, filepath.Base(img))
			if owner, ok := imageOwner[dst]; ok && owner != seq {
				if p.Config.Strict {
					return nil, fmt.Errorf("%w: %v in sequences %v and %v", ErrImageCollision, filepath.Base(img), owner, seq)
				}
				report.ImageCollisions++
			}
			imageOwner[dst] = seq
			jobs = append(jobs, copyJob{src: img, dst: dst})
			splitReport.Images++
		}

		for _, lbl := range sequenceLabels(labels, seq) {
			frame, ok := LabelFrameID(lbl)
			if !ok {
				if p.Config.Strict {
					return nil, fmt.Errorf("%w: %v", ErrMalformedLabelName, lbl)
				}
				report.SkippedLabels++
				continue
			}
			dst := filepath.Join(labelDst, frame+labelExt)
			if owner, ok := labelOwner[dst]; ok {
				if p.Config.Strict {
					return nil, fmt.Errorf("%w: %v.txt in sequences %v and %v", ErrLabelCollision, frame, owner, seq)
				}
				report.LabelCollisions++
			}
			labelOwner[dst] = seq
			jobs = append(jobs, copyJob{src: lbl, dst: dst})
			splitReport.Labels++
		}
	}
	return jobs, nil
}
