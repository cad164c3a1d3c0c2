package nn

// ImageLabels contains the detections for a single image.
// Width and Height are zero when the image could not be decoded, in which case no object has a Rect.
type ImageLabels struct {
	Image   string      `json:"image"`
	Width   int         `json:"width,omitempty"`
	Height  int         `json:"height,omitempty"`
	Objects []Detection `json:"objects"`
}

// Detection is one object, either from a label file (Confidence = 1) or found by the detector
type Detection struct {
	Class      int     `json:"class"`
	Confidence float32 `json:"confidence"`
	Box        Box     `json:"box"`
	Rect       *Rect   `json:"rect,omitempty"`
}

// Metrics are the aggregate results of a detector validation run
type Metrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	MAP50     float64 `json:"mAP50"`
	MAP50_95  float64 `json:"mAP50-95"`
}
