package detector

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cyclopcam/yoloprep/pkg/nn"
)

// Column names in the results.csv that the detector writes after every training epoch
const (
	colPrecision = "metrics/precision(B)"
	colRecall    = "metrics/recall(B)"
	colMAP50     = "metrics/mAP50(B)"
	colMAP50_95  = "metrics/mAP50-95(B)"
)

// ReadTrainingResults returns the validation metrics of the last epoch in results.csv
func ReadTrainingResults(filename string) (*nn.Metrics, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("Error reading training results: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("Error parsing %v: %w", filename, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("No epochs in %v", filename)
	}

	columns := map[string]int{}
	for i, h := range records[0] {
		columns[strings.TrimSpace(h)] = i
	}
	last := records[len(records)-1]
	get := func(name string) (float64, error) {
		i, ok := columns[name]
		if !ok || i >= len(last) {
			return 0, fmt.Errorf("Column %v missing from %v", name, filename)
		}
		return strconv.ParseFloat(strings.TrimSpace(last[i]), 64)
	}

	m := &nn.Metrics{}
	for _, c := range []struct {
		name string
		dst  *float64
	}{
		{colPrecision, &m.Precision},
		{colRecall, &m.Recall},
		{colMAP50, &m.MAP50},
		{colMAP50_95, &m.MAP50_95},
	} {
		if *c.dst, err = get(c.name); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ParseValidationSummary extracts the metrics from the "all" row of the table that the detector prints after validation:
//
//	Class     Images  Instances      Box(P          R      mAP50  mAP50-95)
//	  all        548      14452      0.594      0.483      0.513      0.356
func ParseValidationSummary(output string) (*nn.Metrics, error) {
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 7 || fields[0] != "all" {
			continue
		}
		var v [4]float64
		ok := true
		for i := range v {
			f, err := strconv.ParseFloat(fields[3+i], 64)
			if err != nil {
				ok = false
				break
			}
			v[i] = f
		}
		if ok {
			return &nn.Metrics{Precision: v[0], Recall: v[1], MAP50: v[2], MAP50_95: v[3]}, nil
		}
	}
	return nil, fmt.Errorf("Validation summary not found in detector output")
}
