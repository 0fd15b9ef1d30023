package media

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// PDFSource renders document pages; a page number is treated as a frame.
type PDFSource struct {
	DPI int
}

func (s *PDFSource) RenderPage(path string, page int) (image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	if page < 0 || page >= doc.NumPage() {
		return nil, fmt.Errorf("%s: page %d out of range (0..%d)", path, page, doc.NumPage()-1)
	}
	dpi := s.DPI
	if dpi <= 0 {
		dpi = 150
	}
	img, err := doc.ImageDPI(page, float64(dpi))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// PageCount returns the number of pages of the document.
func (s *PDFSource) PageCount(path string) (int, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return 0, err
	}
	defer doc.Close()
	return doc.NumPage(), nil
}
