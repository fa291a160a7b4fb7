// Package images produces web-sized JPEG renditions of source photos.
package images

import (
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"os"
	"path/filepath"

	_ "image/png" // register PNG decoder

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	thumbMaxSize = 300
	fullMaxWidth = 1200
	thumbQuality = 85
	fullQuality  = 90
)

// Processor writes thumbnail and full-size JPEGs for scanned photos.
// With Skip set it produces nothing, which keeps generation runs fast
// when only metadata changed.
type Processor struct {
	thumbsDir string
	fullDir   string
	skip      bool
	logger    *slog.Logger
}

// NewProcessor creates a processor writing into thumbsDir and fullDir,
// creating both directories.
func NewProcessor(thumbsDir, fullDir string, skip bool, logger *slog.Logger) (*Processor, error) {
	if !skip {
		if err := os.MkdirAll(thumbsDir, 0o755); err != nil {
			return nil, fmt.Errorf("images: create thumbs dir: %w", err)
		}
		if err := os.MkdirAll(fullDir, 0o755); err != nil {
			return nil, fmt.Errorf("images: create full dir: %w", err)
		}
	}
	return &Processor{thumbsDir: thumbsDir, fullDir: fullDir, skip: skip, logger: logger}, nil
}

// Process decodes the photo at srcPath and writes <base>.jpg renditions:
// a thumbnail bounded to 300x300 and a full image capped at 1200px wide,
// both preserving aspect ratio.
func (p *Processor) Process(srcPath, base string) error {
	if p.skip {
		return nil
	}

	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("images: open %s: %w", srcPath, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("images: decode %s: %w", srcPath, err)
	}
	p.logger.Debug("images: decoded",
		slog.String("path", srcPath),
		slog.String("format", format))

	thumb := fit(img, thumbMaxSize, thumbMaxSize)
	if err := writeJPEG(filepath.Join(p.thumbsDir, base+".jpg"), thumb, thumbQuality); err != nil {
		return err
	}

	full := img
	if w := img.Bounds().Dx(); w > fullMaxWidth {
		h := img.Bounds().Dy() * fullMaxWidth / w
		full = scale(img, fullMaxWidth, h)
	}
	return writeJPEG(filepath.Join(p.fullDir, base+".jpg"), full, fullQuality)
}

// fit scales img down to fit within maxW x maxH, preserving aspect
// ratio. Images already within bounds are returned unchanged.
func fit(img image.Image, maxW, maxH int) image.Image {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w <= maxW && h <= maxH {
		return img
	}
	ratioW := float64(maxW) / float64(w)
	ratioH := float64(maxH) / float64(h)
	ratio := ratioW
	if ratioH < ratio {
		ratio = ratioH
	}
	nw, nh := int(float64(w)*ratio), int(float64(h)*ratio)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return scale(img, nw, nh)
}

func scale(img image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

func writeJPEG(path string, img image.Image, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("images: create %s: %w", path, err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
		f.Close()
		return fmt.Errorf("images: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("images: close %s: %w", path, err)
	}
	return nil
}
