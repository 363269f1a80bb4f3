package renderer

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

// ErrTypeUnsupportedFormat is reported for output paths with an unknown extension
const ErrTypeUnsupportedFormat = "unsupported_image_format"

// WritePPM writes img as a plain text PPM (P3) with one pixel per line
func WritePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "P3\n%d %d\n255\n", bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			fmt.Fprintf(bw, "%d %d %d\n", r>>8, g>>8, b>>8)
		}
	}

	return bw.Flush()
}

// EncodeImage writes img in the format named by ext (".png" or ".ppm")
func EncodeImage(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".ppm":
		return WritePPM(w, img)
	default:
		return errors.New("unsupported image format").
			WithType(ErrTypeUnsupportedFormat).
			WithTag("extension", ext)
	}
}

// SaveImage writes img to path, choosing the format from the file extension
// and creating parent directories as needed.
func SaveImage(path string, img image.Image) error {
	ext := filepath.Ext(path)
	switch strings.ToLower(ext) {
	case ".png", ".ppm":
	default:
		return errors.New("unsupported image format").
			WithType(ErrTypeUnsupportedFormat).
			WithTag("path", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.New("creating output directory failed").
				WithTag("dir", dir).
				Wrap(err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.New("creating output file failed").
			WithTag("path", path).
			Wrap(err)
	}
	defer f.Close()

	if err := EncodeImage(f, img, ext); err != nil {
		return errors.New("encoding image failed").
			WithTag("path", path).
			Wrap(err)
	}
	return f.Close()
}
