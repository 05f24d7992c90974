// Package imaging loads image files from disk and produces the small JPEG
// previews stored alongside history entries.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"io"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/phrazzld/stock-seo/internal/domain"
	"github.com/spf13/afero"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Thumbnail defaults.
const (
	DefaultThumbnailWidth = 300
	ThumbnailQuality      = 70

	// MaxPixels caps the decoded size of an image. Stock agencies accept
	// up to 100 megapixels.
	MaxPixels = 100_000_000
)

// dataURLPrefix precedes the base64 payload of every thumbnail.
const dataURLPrefix = "data:image/jpeg;base64,"

var (
	// ErrDecode is returned when image data cannot be decoded.
	ErrDecode = errors.New("failed to decode image")

	// ErrTooManyPixels is returned for images whose dimensions exceed MaxPixels.
	ErrTooManyPixels = errors.New("image dimensions too large")
)

// Thumbnail scales img down to at most maxWidth pixels wide, keeping its
// aspect ratio, and returns it as a JPEG data URL. Images that are already
// narrow enough keep their size. Transparent areas become white.
func Thumbnail(img domain.Image, maxWidth int) (string, error) {
	if maxWidth <= 0 {
		maxWidth = DefaultThumbnailWidth
	}

	// Dimensions are checked before decoding; a small compressed file can
	// expand to gigabytes of pixels.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDecode, img.Name, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return "", fmt.Errorf("%w: %s is %dx%d", ErrTooManyPixels, img.Name, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDecode, img.Name, err)
	}

	width, height := fitWidth(src.Bounds().Dx(), src.Bounds().Dy(), maxWidth)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: ThumbnailQuality}); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail for %s: %w", img.Name, err)
	}

	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// fitWidth returns the dimensions of a width x height image scaled down to
// maxWidth. Heights are rounded and never drop below one pixel.
func fitWidth(width, height, maxWidth int) (int, int) {
	if width <= maxWidth {
		return width, height
	}
	scaled := (height*maxWidth + width/2) / width
	return maxWidth, max(scaled, 1)
}

// LoadImage reads the file at path and detects its MIME type from content.
// At most domain.MaxImageBytes+1 bytes are read so that oversized files are
// reported by validation without being loaded in full.
func LoadImage(fsys afero.Fs, path string) (domain.Image, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return domain.Image{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, domain.MaxImageBytes+1))
	if err != nil {
		return domain.Image{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return domain.Image{
		Name:     filepath.Base(path),
		MIMEType: mimetype.Detect(data).String(),
		Data:     data,
	}, nil
}
