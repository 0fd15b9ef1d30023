// Package media decodes the images and frames annotation records refer to.
package media

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
)

// Loader decodes a still image from disk.
type Loader interface {
	LoadImage(path string) (image.Image, error)
}

// FrameLoader extracts a single frame from a multi-frame source.
type FrameLoader interface {
	LoadFrame(path string, frame int) (image.Image, error)
}

// Decoder is the default media collaborator: still images through the image
// codecs, PDF pages through MuPDF and video frames through ffmpeg.
type Decoder struct {
	Images *ImageSource
	PDF    *PDFSource
	Video  *VideoSource
}

// Default returns a Decoder with every backend enabled.
func Default() *Decoder {
	return &Decoder{
		Images: &ImageSource{},
		PDF:    &PDFSource{DPI: 150},
		Video:  NewVideoSource(),
	}
}

// LoadImage decodes path as a still image.
func (d *Decoder) LoadImage(path string) (image.Image, error) {
	if IsPDF(path) && d.PDF != nil {
		return d.PDF.RenderPage(path, 0)
	}
	return d.Images.LoadImage(path)
}

// LoadFrame returns page frame of a PDF, frame frame of a video, or the
// image itself when frame is 0 and path is a still image.
func (d *Decoder) LoadFrame(path string, frame int) (image.Image, error) {
	switch {
	case IsPDF(path):
		if d.PDF == nil {
			return nil, fmt.Errorf("pdf frames disabled: %s", path)
		}
		return d.PDF.RenderPage(path, frame)
	case IsImage(path):
		if frame != 0 {
			return nil, fmt.Errorf("still image %s has no frame %d", path, frame)
		}
		return d.Images.LoadImage(path)
	default:
		if d.Video == nil {
			return nil, fmt.Errorf("video frames disabled: %s", path)
		}
		return d.Video.LoadFrame(path, frame)
	}
}

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// IsImage reports whether path has a still-image extension.
func IsImage(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// IsPDF reports whether path names a PDF document.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
