package images

import (
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/emelz/wardrobe/internal/testutil"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeJPEG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := jpeg.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func TestProcess_WritesBothRenditions(t *testing.T) {
	out := t.TempDir()
	thumbs := filepath.Join(out, "thumbs")
	full := filepath.Join(out, "full")
	proc, err := NewProcessor(thumbs, full, false, discard())
	if err != nil {
		t.Fatal(err)
	}

	src := testutil.WritePhoto(t, t.TempDir(), "shirts", "photo.jpg")
	if err := proc.Process(src, "photo"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	thumb := decodeJPEG(t, filepath.Join(thumbs, "photo.jpg"))
	if thumb.Bounds().Dx() != 8 || thumb.Bounds().Dy() != 8 {
		t.Errorf("small source should not be upscaled: %v", thumb.Bounds())
	}
	decodeJPEG(t, filepath.Join(full, "photo.jpg"))
}

func TestProcess_SkipWritesNothing(t *testing.T) {
	proc, err := NewProcessor(filepath.Join(t.TempDir(), "t"), filepath.Join(t.TempDir(), "f"), true, discard())
	if err != nil {
		t.Fatal(err)
	}
	if err := proc.Process("does-not-exist.jpg", "x"); err != nil {
		t.Fatalf("Process with skip: %v", err)
	}
}

func TestProcess_UndecodableInputIsAnError(t *testing.T) {
	out := t.TempDir()
	proc, err := NewProcessor(filepath.Join(out, "t"), filepath.Join(out, "f"), false, discard())
	if err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(t.TempDir(), "bad.heic")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := proc.Process(bad, "bad"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFit_PreservesAspectRatio(t *testing.T) {
	wide := image.NewRGBA(image.Rect(0, 0, 600, 300))
	got := fit(wide, 300, 300)
	if got.Bounds().Dx() != 300 || got.Bounds().Dy() != 150 {
		t.Errorf("bounds = %v, want 300x150", got.Bounds())
	}

	tall := image.NewRGBA(image.Rect(0, 0, 300, 600))
	got = fit(tall, 300, 300)
	if got.Bounds().Dx() != 150 || got.Bounds().Dy() != 300 {
		t.Errorf("bounds = %v, want 150x300", got.Bounds())
	}
}
