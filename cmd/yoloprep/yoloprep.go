package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/yoloprep/pkg/config"
	"github.com/cyclopcam/yoloprep/pkg/dataset"
	"github.com/cyclopcam/yoloprep/pkg/detector"
	"github.com/cyclopcam/yoloprep/pkg/iox"
	"github.com/cyclopcam/yoloprep/pkg/nn"
	"github.com/schollz/progressbar/v3"
)

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	parser := argparse.NewParser("yoloprep", "Build and use a YOLO vehicle detection dataset")
	configFile := parser.String("c", "config", &argparse.Options{Help: "JSON configuration file (default " + config.DefaultFilename + ", if it exists)", Default: ""})

	prepareCmd := parser.NewCommand("prepare", "Split labelled sequences into train/val, and build the YOLO directory tree")
	imageDir := prepareCmd.String("i", "images", &argparse.Options{Help: "Directory with one sub-directory of images per sequence"})
	labelDir := prepareCmd.String("l", "labels", &argparse.Options{Help: "Directory that is searched recursively for <sequence>_<segment>_<frame>.txt"})
	outputDir := prepareCmd.String("o", "out", &argparse.Options{Help: "Output directory"})
	seed := prepareCmd.String("", "seed", &argparse.Options{Help: "Seed for the train/val shuffle (negative seeds as --seed=-7)", Default: ""})
	strict := prepareCmd.Flag("", "strict", &argparse.Options{Help: "Fail on malformed label names and name collisions, instead of counting them", Default: false})
	showProgress := prepareCmd.Flag("p", "progress", &argparse.Options{Help: "Show progress bars while copying", Default: false})
	reportFile := prepareCmd.String("r", "report", &argparse.Options{Help: "Write a JSON report of the run to this file", Default: ""})

	validateCmd := parser.NewCommand("validate", "Check that every label file in a directory is a valid YOLO label file")
	validateDir := validateCmd.String("d", "dir", &argparse.Options{Help: "Label directory", Required: true})

	countCmd := parser.NewCommand("count", "Count object instances per class in a label directory")
	countDir := countCmd.String("d", "dir", &argparse.Options{Help: "Label directory", Required: true})

	statsCmd := parser.NewCommand("stats", "Summarize a prepared dataset")
	statsDir := statsCmd.String("d", "dir", &argparse.Options{Help: "Prepared dataset directory (default: configured output directory)", Default: ""})

	archiveCmd := parser.NewCommand("archive", "Pack a prepared dataset into a zip file")
	archiveDir := archiveCmd.String("d", "dir", &argparse.Options{Help: "Prepared dataset directory (default: configured output directory)", Default: ""})
	archiveOut := archiveCmd.String("o", "out", &argparse.Options{Help: "Zip file to write", Required: true})

	trainCmd := parser.NewCommand("train", "Fine-tune the pretrained detector on a prepared dataset")
	trainData := trainCmd.String("m", "manifest", &argparse.Options{Help: "Dataset manifest (default: data.yaml in the configured output directory)", Default: ""})
	epochs := trainCmd.Int("e", "epochs", &argparse.Options{Help: "Override the number of epochs", Default: 0})

	evalCmd := parser.NewCommand("eval", "Evaluate trained weights on the validation split")
	evalWeights := evalCmd.String("w", "weights", &argparse.Options{Help: "Trained weights, eg runs/detect/train-.../weights/best.pt", Required: true})
	evalData := evalCmd.String("m", "manifest", &argparse.Options{Help: "Dataset manifest (default: data.yaml in the configured output directory)", Default: ""})

	predictCmd := parser.NewCommand("predict", "Run trained weights over images, and output detections as JSON")
	predictWeights := predictCmd.String("w", "weights", &argparse.Options{Help: "Trained weights", Required: true})
	predictSource := predictCmd.String("s", "source", &argparse.Options{Help: "Image, directory of images, or .txt list of images", Required: true})
	startFrame := predictCmd.Int("", "startframe", &argparse.Options{Help: "First frame of the segment (directory source only)", Default: 0})
	endFrame := predictCmd.Int("", "endframe", &argparse.Options{Help: "End of the segment, exclusive. 0 = through the last frame", Default: 0})
	predictOut := predictCmd.String("o", "output", &argparse.Options{Help: "Output JSON file (default stdout)", Default: ""})

	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	manifestPath := func(override string) string {
		if override != "" {
			return override
		}
		return dataset.ManifestPath(cfg.Dataset.OutputDir)
	}
	preparedDir := func(override string) string {
		if override != "" {
			return override
		}
		return cfg.Dataset.OutputDir
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	switch {
	case prepareCmd.Happened():
		if *imageDir != "" {
			cfg.Dataset.ImageDir = *imageDir
		}
		if *labelDir != "" {
			cfg.Dataset.LabelDir = *labelDir
		}
		if *outputDir != "" {
			cfg.Dataset.OutputDir = *outputDir
		}
		if s, ok, err := parseSeed(*seed); err != nil {
			fmt.Print(parser.Usage(err))
			os.Exit(1)
		} else if ok {
			cfg.Dataset.Seed = s
		}
		if *strict {
			cfg.Dataset.Strict = true
		}
		if err := cfg.Dataset.Validate(); err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
		preparer := dataset.NewPreparer(logger, cfg.Dataset)
		if *showProgress {
			preparer.NewProgress = func(description string, total int) dataset.Progress {
				return progressbar.Default(int64(total), description)
			}
		}
		report, err := preparer.Prepare()
		if err != nil {
			logger.Errorf("Dataset preparation failed: %v", err)
			os.Exit(1)
		}
		if *reportFile != "" {
			check(writeJSON(*reportFile, report))
		}

	case validateCmd.Happened():
		invalid, err := dataset.ValidateLabelDir(*validateDir)
		check(err)
		for _, inv := range invalid {
			fmt.Printf("%v: %v\n", inv.Path, inv.Err)
		}
		if len(invalid) != 0 {
			logger.Errorf("%v invalid label files in %v", len(invalid), *validateDir)
			os.Exit(1)
		}
		logger.Infof("All label files in %v are valid", *validateDir)

	case countCmd.Happened():
		counts, err := dataset.CountClassInstances(*countDir)
		check(err)
		for id, name := range nn.VehicleClasses {
			fmt.Printf("%-8v %v\n", name, counts[id])
		}

	case statsCmd.Happened():
		stats, err := dataset.ComputeStats(preparedDir(*statsDir), cfg.Dataset.ImageExt)
		check(err)
		check(printJSON(stats))

	case archiveCmd.Happened():
		root := preparedDir(*archiveDir)
		f, err := os.Create(*archiveOut)
		check(err)
		if err := dataset.Archive(f, root); err != nil {
			f.Close()
			os.Remove(*archiveOut)
			logger.Errorf("Failed to archive %v: %v", root, err)
			os.Exit(1)
		}
		check(f.Close())
		logger.Infof("Wrote %v", *archiveOut)

	case trainCmd.Happened():
		if *epochs > 0 {
			cfg.Detector.Epochs = *epochs
		}
		det := newDetector(logger, cfg)
		res, err := det.Train(ctx, manifestPath(*trainData))
		check(err)
		check(printJSON(res))

	case evalCmd.Happened():
		det := newDetector(logger, cfg)
		metrics, err := det.Evaluate(ctx, *evalWeights, manifestPath(*evalData))
		check(err)
		check(printJSON(metrics))

	case predictCmd.Happened():
		det := newDetector(logger, cfg)
		var labels []nn.ImageLabels
		if from, to, segment := frameRange(*startFrame, *endFrame); segment {
			labels, err = det.PredictSegment(ctx, *predictWeights, *predictSource, from, to)
		} else {
			labels, err = det.Predict(ctx, *predictWeights, *predictSource)
		}
		check(err)
		if *predictOut != "" {
			check(writeJSON(*predictOut, labels))
		} else {
			check(printJSON(labels))
		}
	}
}

func newDetector(logger logs.Log, cfg *config.Config) *detector.Detector {
	if err := cfg.Detector.Validate(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	return detector.New(logger, cfg.Detector)
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeJSON(filename string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	return iox.WriteFileAtomic(filename, append(raw, '\n'))
}
