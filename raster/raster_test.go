package raster

import (
	"bytes"
	"image"
	"image/png"
	"reflect"
	"testing"
)

func TestSortByPageNumber(t *testing.T) {
	paths := []string{
		"/tmp/x/page-10.png",
		"/tmp/x/page-2.png",
		"/tmp/x/page-1.png",
	}

	sortByPageNumber(paths)

	want := []string{
		"/tmp/x/page-1.png",
		"/tmp/x/page-2.png",
		"/tmp/x/page-10.png",
	}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("sortByPageNumber() = %v, want %v", paths, want)
	}
}

func TestSortByPageNumber_ZeroPadded(t *testing.T) {
	paths := []string{
		"/tmp/x/page-03.png",
		"/tmp/x/page-01.png",
		"/tmp/x/page-02.png",
	}

	sortByPageNumber(paths)

	if n, _ := pageNumberSuffix(paths[0]); n != 1 {
		t.Errorf("First page after sort = %s", paths[0])
	}
}

func TestPageNumberSuffix(t *testing.T) {
	tests := []struct {
		path   string
		want   int
		wantOK bool
	}{
		{"/tmp/page-7.png", 7, true},
		{"/tmp/page-042.png", 42, true},
		{"/tmp/noDash.png", 0, false},
		{"/tmp/page-x.png", 0, false},
	}

	for _, tt := range tests {
		got, ok := pageNumberSuffix(tt.path)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("pageNumberSuffix(%q) = %d, %v, want %d, %v",
				tt.path, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDimensions(t *testing.T) {
	var buf bytes.Buffer
	img := image.NewGray(image.Rect(0, 0, 120, 80))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	w, h, err := Dimensions(buf.Bytes())
	if err != nil {
		t.Fatalf("Dimensions() error: %v", err)
	}
	if w != 120 || h != 80 {
		t.Errorf("Dimensions() = %dx%d, want 120x80", w, h)
	}
}

func TestDimensions_InvalidData(t *testing.T) {
	if _, _, err := Dimensions([]byte("not an image")); err == nil {
		t.Error("Expected error for invalid image data")
	}
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	src := image.NewGray(image.Rect(0, 0, 10, 10))
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}

	img, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got := img.Bounds().Dx(); got != 10 {
		t.Errorf("Decoded width = %d, want 10", got)
	}
}

func TestRasterize_MissingFile(t *testing.T) {
	p := NewPoppler()
	if _, err := p.Rasterize("/nonexistent/file.pdf", 300); err == nil {
		t.Error("Expected error for missing document")
	}
}
