// Package detector drives the external YOLO detector CLI.
// The detector itself is a black box: we hand it a dataset manifest or a list of images,
// and read back its metrics and per-image detections.
package detector

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/yoloprep/pkg/dataset"
	"github.com/cyclopcam/yoloprep/pkg/nn"
	"github.com/cyclopcam/yoloprep/pkg/shell"
	"github.com/google/uuid"
)

// Runs a process and returns its stdout
type runFunc func(ctx context.Context, name string, args ...string) (string, error)

type Detector struct {
	Log    logs.Log
	Config Config
	run    runFunc
}

func New(log logs.Log, config Config) *Detector {
	return &Detector{
		Log:    log,
		Config: config,
		run:    shell.Run,
	}
}

// TrainResult points at the artifacts of a training run
type TrainResult struct {
	RunDir      string     `json:"runDir"`
	BestWeights string     `json:"bestWeights"`
	LastWeights string     `json:"lastWeights"`
	Metrics     nn.Metrics `json:"metrics"` // Validation metrics of the final epoch
}

// Every run gets a unique name, so its output directory is known before the detector starts
func (d *Detector) newRun(task string) (name, runDir string) {
	name = task + "-" + uuid.NewString()
	return name, filepath.Join(d.Config.Project, name)
}

func (d *Detector) exec(ctx context.Context, task string, kv ...string) (string, error) {
	args := append([]string{"detect", task}, shell.Args(kv...)...)
	d.Log.Infof("Running %v %v", d.Config.Binary, args)
	out, err := d.run(ctx, d.Config.Binary, args...)
	if err != nil {
		return "", fmt.Errorf("%v %v failed: %w", d.Config.Binary, task, err)
	}
	return out, nil
}

// checkManifest fails early on a missing or incomplete data.yaml, before a long detector run is started
func checkManifest(manifestPath string) error {
	m, err := dataset.LoadManifest(manifestPath)
	if err != nil {
		return err
	}
	if m.Train == "" || m.Val == "" {
		return fmt.Errorf("Manifest %v does not name both a train and a val split", manifestPath)
	}
	if len(m.Names) == 0 {
		return fmt.Errorf("Manifest %v has no class names", manifestPath)
	}
	return nil
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Train fine-tunes the pretrained model on the dataset described by manifestPath
func (d *Detector) Train(ctx context.Context, manifestPath string) (*TrainResult, error) {
	if err := checkManifest(manifestPath); err != nil {
		return nil, err
	}
	name, runDir := d.newRun("train")
	_, err := d.exec(ctx, "train",
		"data", manifestPath,
		"model", d.Config.Model,
		"epochs", itoa(d.Config.Epochs),
		"imgsz", itoa(d.Config.ImageSize),
		"batch", itoa(d.Config.BatchSize),
		"device", d.Config.Device,
		"plots", "True",
		"project", d.Config.Project,
		"name", name,
	)
	if err != nil {
		return nil, err
	}
	metrics, err := ReadTrainingResults(filepath.Join(runDir, "results.csv"))
	if err != nil {
		return nil, err
	}
	res := &TrainResult{
		RunDir:      runDir,
		BestWeights: filepath.Join(runDir, "weights", "best.pt"),
		LastWeights: filepath.Join(runDir, "weights", "last.pt"),
		Metrics:     *metrics,
	}
	d.Log.Infof("Training finished. Best weights at %v. mAP50: %.3f, mAP50-95: %.3f", res.BestWeights, metrics.MAP50, metrics.MAP50_95)
	return res, nil
}

// Evaluate runs the validation split of manifestPath through the weights, and returns the aggregate metrics
func (d *Detector) Evaluate(ctx context.Context, weights, manifestPath string) (*nn.Metrics, error) {
	if err := checkManifest(manifestPath); err != nil {
		return nil, err
	}
	name, _ := d.newRun("val")
	out, err := d.exec(ctx, "val",
		"model", weights,
		"data", manifestPath,
		"conf", ftoa(d.Config.Confidence),
		"imgsz", itoa(d.Config.ImageSize),
		"batch", itoa(d.Config.BatchSize),
		"device", d.Config.Device,
		"project", d.Config.Project,
		"name", name,
	)
	if err != nil {
		return nil, err
	}
	metrics, err := ParseValidationSummary(out)
	if err != nil {
		return nil, err
	}
	d.Log.Infof("Precision %.3f, Recall %.3f, mAP50 %.3f, mAP50-95 %.3f", metrics.Precision, metrics.Recall, metrics.MAP50, metrics.MAP50_95)
	return metrics, nil
}
