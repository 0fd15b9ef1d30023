package media

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
)

func writeTestImage(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".bmp":
		err = bmp.Encode(f, img)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestImageSourceDecodesRegisteredCodecs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "s0001.bmp"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			writeTestImage(t, path, 12, 7)

			src := &ImageSource{}
			img, err := src.LoadImage(path)
			if err != nil {
				t.Fatalf("LoadImage failed: %v", err)
			}
			if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 7 {
				t.Errorf("unexpected bounds %v", img.Bounds())
			}

			w, h, err := src.Dimensions(path)
			if err != nil {
				t.Fatalf("Dimensions failed: %v", err)
			}
			if w != 12 || h != 7 {
				t.Errorf("expected 12x7, got %dx%d", w, h)
			}
		})
	}
}

func TestDecoderStillImageFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "still.png")
	writeTestImage(t, path, 4, 4)

	d := Default()
	if _, err := d.LoadFrame(path, 0); err != nil {
		t.Fatalf("frame 0 of still image: %v", err)
	}
	if _, err := d.LoadFrame(path, 1); err == nil {
		t.Error("expected error for frame 1 of still image")
	}
}

func TestDecoderMissingFile(t *testing.T) {
	d := Default()
	if _, err := d.LoadImage(filepath.Join(t.TempDir(), "missing.png")); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
	if _, err := d.LoadFrame(filepath.Join(t.TempDir(), "missing.avi"), 3); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestVideoSourceArgs(t *testing.T) {
	v := NewVideoSource()
	args := strings.Join(v.buildArgs("clip.avi", 42), " ")

	for _, want := range []string{"-i clip.avi", `select=eq(n\,42)`, "-frames:v 1", "-c:v png"} {
		if !strings.Contains(args, want) {
			t.Errorf("args %q missing %q", args, want)
		}
	}
}

func TestIsImage(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.JPG", true},
		{"b.bmp", true},
		{"c.webp", true},
		{"d.avi", false},
		{"e.pdf", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsImage(tt.path); got != tt.want {
				t.Errorf("IsImage(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestPDFPageCountMissingFile(t *testing.T) {
	src := &PDFSource{}
	if _, err := src.PageCount(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Fatal("expected error for missing document")
	}
}

func TestIsPDF(t *testing.T) {
	for name, want := range map[string]bool{"a.pdf": true, "B.PDF": true, "a.png": false, "pdf": false} {
		if got := IsPDF(name); got != want {
			t.Errorf("IsPDF(%q) = %v, want %v", name, got, want)
		}
	}
}
