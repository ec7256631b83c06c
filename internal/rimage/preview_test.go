package rimage

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavePreviewPNGUpscalesToTargetResolution(t *testing.T) {
	src := New(2, 2)
	src.Set(0, [3]float32{1, 0, 0})
	src.Set(1, [3]float32{0, 1, 0})
	src.Set(2, [3]float32{0, 0, 1})
	src.Set(3, [3]float32{1, 1, 1})

	path := filepath.Join(t.TempDir(), "preview.png")
	require.NoError(t, SavePreviewPNG(src, path, 8, 8))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	decoded, err := png.Decode(f)
	require.NoError(t, err)
	bounds := decoded.Bounds()
	assert.Equal(t, 8, bounds.Dx())
	assert.Equal(t, 8, bounds.Dy())

	r, g, b, _ := decoded.At(0, 0).RGBA()
	assert.Greater(t, r, g)
}

func TestToByteClampsOutOfRangeValues(t *testing.T) {
	assert.Equal(t, byte(0), toByte(-1))
	assert.Equal(t, byte(255), toByte(2))
	assert.Equal(t, byte(0), toByte(0))
	assert.Equal(t, byte(255), toByte(1))
}
