package nn

import (
	"github.com/chewxy/math32"
)

// Rect is a detection in pixel coordinates, with the origin at the top-left of the image
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Box is a YOLO-style box. All values are normalized to [0,1] relative to the image size.
type Box struct {
	CenterX float32 `json:"cx"`
	CenterY float32 `json:"cy"`
	Width   float32 `json:"w"`
	Height  float32 `json:"h"`
}

func inUnit(v float32) bool {
	return v >= 0 && v <= 1
}

// Valid returns true if all four values are inside [0,1]
func (b Box) Valid() bool {
	return inUnit(b.CenterX) && inUnit(b.CenterY) && inUnit(b.Width) && inUnit(b.Height)
}

// ToRect scales the box to an image of imageWidth x imageHeight pixels.
// Edges are rounded independently, so a box touching the border maps exactly onto it.
func (b Box) ToRect(imageWidth, imageHeight int) Rect {
	iw, ih := float32(imageWidth), float32(imageHeight)
	left := math32.Round((b.CenterX - b.Width/2) * iw)
	top := math32.Round((b.CenterY - b.Height/2) * ih)
	right := math32.Round((b.CenterX + b.Width/2) * iw)
	bottom := math32.Round((b.CenterY + b.Height/2) * ih)
	return Rect{
		X:      int(left),
		Y:      int(top),
		Width:  int(right - left),
		Height: int(bottom - top),
	}
}

// SetPixelRects fills in the pixel rectangle of every object, given the image dimensions
func (l *ImageLabels) SetPixelRects(imageWidth, imageHeight int) {
	l.Width = imageWidth
	l.Height = imageHeight
	for i := range l.Objects {
		r := l.Objects[i].Box.ToRect(imageWidth, imageHeight)
		l.Objects[i].Rect = &r
	}
}
