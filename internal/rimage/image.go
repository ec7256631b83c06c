// Package rimage holds the renderer's floating-point pixel buffer and its
// Radiance (.hdr/RGBE) encoder.
package rimage

// Image is a linear buffer of RGB float32 pixels, width-major (pixel
// (x, y) lives at index y*width+x), written once per pixel by exactly one
// worker during a render.
type Image struct {
	data          [][3]float32
	width, height int
}

// New allocates a black image of the given resolution.
func New(width, height int) *Image {
	return &Image{data: make([][3]float32, width*height), width: width, height: height}
}

// Set stores an RGB value at a linear pixel index.
func (img *Image) Set(idx int, rgb [3]float32) {
	img.data[idx] = rgb
}

// At returns the RGB value at pixel (x, y).
func (img *Image) At(x, y int) [3]float32 {
	return img.data[y*img.width+x]
}

// Res returns the image's (width, height).
func (img *Image) Res() (int, int) { return img.width, img.height }

// NumPixels returns the total pixel count.
func (img *Image) NumPixels() int { return img.width * img.height }

// PixelCoordinates converts a linear pixel index back to (x, y).
func (img *Image) PixelCoordinates(idx int) (x, y int) {
	return idx % img.width, idx / img.width
}
