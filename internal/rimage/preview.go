package rimage

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// SavePreviewPNG upscales img — typically rendered cheaply at a reduced
// resolution — to targetW x targetH using nearest-neighbor interpolation
// and writes the result as a PNG at path. This gives debug integrators a
// fast preview without paying for a full-resolution render. Colors are
// clamped to [0, 1] before quantizing to 8 bits per channel.
func SavePreviewPNG(img *Image, path string, targetW, targetH int) error {
	w, h := img.Res()
	src := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.At(x, y)
			src.SetRGBA(x, y, color.RGBA{R: toByte(c[0]), G: toByte(c[1]), B: toByte(c[2]), A: 255})
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, dst)
}

func toByte(v float32) byte {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return byte(v * 255)
	}
}
