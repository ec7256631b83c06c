package rimage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAtRoundTrip(t *testing.T) {
	img := New(4, 3)
	img.Set(5, [3]float32{0.1, 0.2, 0.3})

	x, y := img.PixelCoordinates(5)
	assert.Equal(t, [3]float32{0.1, 0.2, 0.3}, img.At(x, y))
}

func TestPixelCoordinatesRowMajor(t *testing.T) {
	img := New(4, 3)
	x, y := img.PixelCoordinates(6)
	assert.Equal(t, 2, x)
	assert.Equal(t, 1, y)
}

func TestNumPixels(t *testing.T) {
	img := New(4, 3)
	assert.Equal(t, 12, img.NumPixels())
}
