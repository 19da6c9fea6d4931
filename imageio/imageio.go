package imageio

import (
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"firmaverify/logging"
	"firmaverify/types"

	"gocv.io/x/gocv"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ImageLoader loads a signature scan into a single-channel gocv.Mat.
type ImageLoader interface {
	CanLoad(path string) bool
	LoadImage(path string) (gocv.Mat, error)
}

// DefaultImageLoader handles the formats gocv decodes directly.
type DefaultImageLoader struct{}

func (l *DefaultImageLoader) CanLoad(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".jpg" || ext == ".jpeg" || ext == ".png" || ext == ".bmp" || ext == ".tiff" || ext == ".tif" {
		_, err := os.Stat(path)
		return err == nil
	}
	return false
}

func (l *DefaultImageLoader) LoadImage(path string) (gocv.Mat, error) {
	img := gocv.IMRead(path, gocv.IMReadGrayScale)
	if img.Empty() {
		return img, fmt.Errorf("%w: %s", types.ErrUnsupportedFormat, path)
	}
	return img, nil
}

// StdImageLoader decodes through the Go image stack (png/jpeg plus the
// x/image tiff and bmp decoders) and converts to a Mat. Used as a fallback
// when gocv cannot decode a scan directly.
type StdImageLoader struct{}

func (l *StdImageLoader) CanLoad(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".tiff", ".tif", ".bmp":
		_, err := os.Stat(path)
		return err == nil
	}
	return false
}

func (l *StdImageLoader) LoadImage(path string) (gocv.Mat, error) {
	f, err := os.Open(path)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("cannot open image %s: %v", path, err)
	}
	defer f.Close()

	var decoded image.Image
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png":
		decoded, err = png.Decode(f)
	case ".jpg", ".jpeg":
		decoded, err = jpeg.Decode(f)
	case ".tiff", ".tif":
		decoded, err = tiff.Decode(f)
	case ".bmp":
		decoded, err = bmp.Decode(f)
	default:
		return gocv.NewMat(), fmt.Errorf("%w: %s", types.ErrUnsupportedFormat, path)
	}
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %s (%v)", types.ErrUnsupportedFormat, path, err)
	}

	return grayMatFromImage(decoded), nil
}

// grayMatFromImage converts a decoded image.Image to an 8-bit grayscale Mat.
func grayMatFromImage(src image.Image) gocv.Mat {
	bounds := src.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(gray, gray.Bounds(), src, bounds.Min, draw.Src)

	mat := gocv.NewMatWithSize(gray.Bounds().Dy(), gray.Bounds().Dx(), gocv.MatTypeCV8U)
	for y := 0; y < mat.Rows(); y++ {
		for x := 0; x < mat.Cols(); x++ {
			mat.SetUCharAt(y, x, gray.GrayAt(x, y).Y)
		}
	}
	return mat
}

// ImageLoaderRegistry manages available image loaders
type ImageLoaderRegistry struct {
	loaders []ImageLoader
}

// NewImageLoaderRegistry creates a registry with default loaders
func NewImageLoaderRegistry() *ImageLoaderRegistry {
	return &ImageLoaderRegistry{
		loaders: []ImageLoader{
			&DefaultImageLoader{},
			&StdImageLoader{},
		},
	}
}

// RegisterLoader adds a custom loader to the registry
func (r *ImageLoaderRegistry) RegisterLoader(loader ImageLoader) {
	r.loaders = append(r.loaders, loader)
}

// LoadImage tries to load an image using the appropriate loader
func (r *ImageLoaderRegistry) LoadImage(path string) (gocv.Mat, error) {
	var lastErr error
	for _, loader := range r.loaders {
		if !loader.CanLoad(path) {
			continue
		}
		img, err := loader.LoadImage(path)
		if err == nil {
			return img, nil
		}
		lastErr = err
		logging.LogWarning("loader %T failed for %s: %v", loader, path, err)
	}
	if lastErr != nil {
		return gocv.NewMat(), lastErr
	}
	return gocv.NewMat(), fmt.Errorf("%w: no suitable loader for %s", types.ErrUnsupportedFormat, path)
}

// LoadImage loads a signature scan in grayscale with error handling
func LoadImage(path string) (gocv.Mat, error) {
	registry := NewImageLoaderRegistry()
	return registry.LoadImage(path)
}
