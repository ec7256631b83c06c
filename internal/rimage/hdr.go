package rimage

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
)

// SaveHDR writes img to path in the Radiance RGBE (.hdr) format. No
// third-party Go library available here speaks this format, so the
// encoder is hand-rolled directly against the Radiance picture-file
// format: a short ASCII header, a resolution line, then one RGBE-encoded
// (4 bytes/pixel, shared exponent) scanline per row, top-to-bottom.
func SaveHDR(img *Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rimage: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := writeHDR(w, img); err != nil {
		return fmt.Errorf("rimage: write %s: %w", path, err)
	}
	return w.Flush()
}

func writeHDR(w io.Writer, img *Image) error {
	if _, err := fmt.Fprint(w, "#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "-Y %d +X %d\n", img.height, img.width); err != nil {
		return err
	}
	row := make([]byte, img.width*4)
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			rgb := img.At(x, y)
			r, g, b, e := floatToRGBE(rgb[0], rgb[1], rgb[2])
			o := x * 4
			row[o], row[o+1], row[o+2], row[o+3] = r, g, b, e
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// floatToRGBE converts a linear RGB triple to the shared-exponent RGBE
// encoding: mantissas are normalized against the largest channel, then an
// exponent byte biased by 128 is stored alongside them.
func floatToRGBE(r, g, b float32) (byte, byte, byte, byte) {
	v := r
	if g > v {
		v = g
	}
	if b > v {
		v = b
	}
	if v < 1e-32 {
		return 0, 0, 0, 0
	}
	mantissa, exp := math.Frexp(float64(v))
	scale := mantissa * 256.0 / v
	return clamp8(float64(r) * scale), clamp8(float64(g) * scale), clamp8(float64(b) * scale), byte(exp + 128)
}

func clamp8(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
