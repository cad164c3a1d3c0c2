package dataset

import (
	"path/filepath"

	"github.com/cyclopcam/yoloprep/pkg/nn"
	"gonum.org/v1/gonum/stat"
)

// SplitStats summarizes one split of a prepared dataset
type SplitStats struct {
	Images          int         `json:"images"`
	LabelFiles      int         `json:"labelFiles"`
	EmptyLabelFiles int         `json:"emptyLabelFiles"`
	Instances       map[int]int `json:"instances"`
	MeanPerFrame    float64     `json:"meanPerFrame"`   // Mean number of objects per label file
	StdDevPerFrame  float64     `json:"stdDevPerFrame"` // Sample standard deviation of objects per label file
}

type Stats struct {
	Train SplitStats `json:"train"`
	Val   SplitStats `json:"val"`
}

// ComputeStats summarizes a tree produced by Prepare
func ComputeStats(root, imageExt string) (*Stats, error) {
	train, err := computeSplitStats(root, SplitTrain, imageExt)
	if err != nil {
		return nil, err
	}
	val, err := computeSplitStats(root, SplitVal, imageExt)
	if err != nil {
		return nil, err
	}
	return &Stats{Train: *train, Val: *val}, nil
}

func computeSplitStats(root, split, imageExt string) (*SplitStats, error) {
	images, err := listFiles(filepath.Join(root, ImageDir(split)), imageExt)
	if err != nil {
		return nil, err
	}
	labels, err := listFiles(filepath.Join(root, LabelDir(split)), labelExt)
	if err != nil {
		return nil, err
	}
	s := &SplitStats{
		Images:     len(images),
		LabelFiles: len(labels),
		Instances:  map[int]int{},
	}
	for i := range nn.VehicleClasses {
		s.Instances[i] = 0
	}
	perFrame := make([]float64, 0, len(labels))
	for _, fn := range labels {
		n, err := countFileInstances(fn, s.Instances)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			s.EmptyLabelFiles++
		}
		perFrame = append(perFrame, float64(n))
	}
	switch len(perFrame) {
	case 0:
	case 1:
		s.MeanPerFrame = perFrame[0]
	default:
		s.MeanPerFrame, s.StdDevPerFrame = stat.MeanStdDev(perFrame, nil)
	}
	return s, nil
}
