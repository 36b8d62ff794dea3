package service

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"fygallery/internal/gallery"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrNotLocal is returned for images whose URL is not a local file.
var ErrNotLocal = errors.New("image is not a local file")

// ImageInfo holds metadata about an image file.
type ImageInfo struct {
	Path     string
	Format   string
	Width    int
	Height   int
	Size     int64
	ModTime  time.Time
	EXIFData map[string]string
}

// ImageService extracts metadata for local images.
type ImageService struct {
}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// LocalPath resolves a file:// URL or a plain filesystem path.
func LocalPath(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotLocal, raw)
	}
	switch {
	case u.Scheme == "file":
		return filepath.FromSlash(u.Path), nil
	case u.Scheme == "" && filepath.IsAbs(raw):
		return raw, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrNotLocal, raw)
	}
}

// GetEXIF extracts a few common EXIF fields. Images without EXIF yield nil.
func (is *ImageService) GetEXIF(r io.Reader) map[string]string {
	x, err := exif.Decode(r)
	if err != nil {
		return nil
	}
	result := make(map[string]string)
	for _, field := range []exif.FieldName{
		exif.DateTime, exif.Model, exif.Make, exif.ExposureTime, exif.FNumber, exif.ISOSpeedRatings, exif.FocalLength,
	} {
		tag, err := x.Get(field)
		if err == nil && tag != nil {
			result[string(field)] = tag.String()
		}
	}
	return result
}

// GetImageInfo returns dimensions, format, file size, mod time and EXIF data.
// Only the image header is decoded.
func (is *ImageService) GetImageInfo(path string) (*ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image for info: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}

	exifData := is.GetEXIF(f)

	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek in image file: %w", err)
	}
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}

	return &ImageInfo{
		Path:     path,
		Format:   format,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Size:     fi.Size(),
		ModTime:  fi.ModTime(),
		EXIFData: exifData,
	}, nil
}

// InfoFor returns metadata for a gallery image backed by a local file.
func (is *ImageService) InfoFor(img gallery.Image) (*ImageInfo, error) {
	path, err := LocalPath(img.URL)
	if err != nil {
		return nil, err
	}
	return is.GetImageInfo(path)
}
