package nn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoxValid(t *testing.T) {
	require.True(t, Box{0.5, 0.5, 0.5, 0.2}.Valid())
	require.True(t, Box{0, 0, 1, 1}.Valid())
	require.False(t, Box{0.5, 0.5, 1.5, 0.2}.Valid())
	require.False(t, Box{-0.1, 0.5, 0.5, 0.2}.Valid())
}

func TestBoxToRect(t *testing.T) {
	r := Box{CenterX: 0.5, CenterY: 0.5, Width: 0.5, Height: 0.25}.ToRect(960, 540)
	require.Equal(t, Rect{X: 240, Y: 203, Width: 480, Height: 135}, r)

	// A box covering the whole image maps onto the whole image
	require.Equal(t, Rect{X: 0, Y: 0, Width: 1280, Height: 720}, Box{0.5, 0.5, 1, 1}.ToRect(1280, 720))
}

func TestSetPixelRects(t *testing.T) {
	labels := ImageLabels{
		Image: "img00001.jpg",
		Objects: []Detection{
			{Class: ClassCar, Confidence: 1, Box: Box{0.5, 0.5, 0.5, 0.25}},
			{Class: ClassBus, Confidence: 1, Box: Box{0.125, 0.25, 0.25, 0.5}},
		},
	}
	labels.SetPixelRects(960, 540)
	require.Equal(t, 960, labels.Width)
	require.Equal(t, 540, labels.Height)
	require.Equal(t, &Rect{X: 240, Y: 203, Width: 480, Height: 135}, labels.Objects[0].Rect)
	require.Equal(t, &Rect{X: 0, Y: 0, Width: 240, Height: 270}, labels.Objects[1].Rect)
}

func TestClassNames(t *testing.T) {
	require.Equal(t, map[int]string{0: "others", 1: "car", 2: "van", 3: "bus"}, ClassNames())
	name, ok := ClassName(ClassVan)
	require.True(t, ok)
	require.Equal(t, "van", name)
	_, ok = ClassName(4)
	require.False(t, ok)
}
