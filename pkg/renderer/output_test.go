package renderer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{0, 255, 0, 255})
	img.SetRGBA(0, 1, color.RGBA{0, 0, 255, 255})
	img.SetRGBA(1, 1, color.RGBA{127, 64, 1, 255})
	return img
}

func TestWritePPM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePPM(&buf, testImage()))

	expected := strings.Join([]string{
		"P3",
		"2 2",
		"255",
		"255 0 0",
		"0 255 0",
		"0 0 255",
		"127 64 1",
		"",
	}, "\n")
	require.Equal(t, expected, buf.String())
}

func TestEncodeImage_UnsupportedFormat(t *testing.T) {
	err := EncodeImage(&bytes.Buffer{}, testImage(), ".gif")
	require.Error(t, err)
	require.True(t, errors.IsType(err, ErrTypeUnsupportedFormat))
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()

	t.Run("PNG", func(t *testing.T) {
		path := filepath.Join(dir, "nested", "out.png")
		require.NoError(t, SaveImage(path, testImage()))

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()

		decoded, err := png.Decode(f)
		require.NoError(t, err)
		require.Equal(t, testImage().Bounds(), decoded.Bounds())
		for y := 0; y < 2; y++ {
			for x := 0; x < 2; x++ {
				require.Equal(t, testImage().RGBAAt(x, y), color.RGBAModel.Convert(decoded.At(x, y)))
			}
		}
	})

	t.Run("PPM", func(t *testing.T) {
		path := filepath.Join(dir, "out.PPM")
		require.NoError(t, SaveImage(path, testImage()))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(string(data), "P3\n2 2\n255\n"))
	})

	t.Run("Unsupported", func(t *testing.T) {
		path := filepath.Join(dir, "out.jpg")
		err := SaveImage(path, testImage())
		require.True(t, errors.IsType(err, ErrTypeUnsupportedFormat))
		_, statErr := os.Stat(path)
		require.True(t, os.IsNotExist(statErr))
	})
}
