package zipdoc

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"io"
	"strings"
	"testing"
)

func TestCompressionFor(t *testing.T) {
	tests := []struct {
		path string
		want Compression
	}{
		{"word/media/image1.png", NoCompression},
		{"word/media/image1.PNG", NoCompression},
		{"photo.jpg", NoCompression},
		{"photo.Jpeg", NoCompression},
		{"audio/track.mp3", NoCompression},
		{"video/clip.mp4", NoCompression},
		{".png", NoCompression},
		{"word/document.xml", FastestCompression},
		{"[Content_Types].xml", FastestCompression},
		{"mimetype", FastestCompression},
		{"image.gif", FastestCompression},
		{"image.png.xml", FastestCompression},
		{"media.png/readme", FastestCompression},
		{"word/", FastestCompression},
		{"", FastestCompression},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := CompressionFor(tt.path); got != tt.want {
				t.Errorf("CompressionFor(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestCompression_MethodAndString(t *testing.T) {
	if NoCompression.Method() != zip.Store {
		t.Errorf("NoCompression.Method() = %d, want zip.Store", NoCompression.Method())
	}
	if FastestCompression.Method() != zip.Deflate {
		t.Errorf("FastestCompression.Method() = %d, want zip.Deflate", FastestCompression.Method())
	}
	if got := NoCompression.String(); got != "store" {
		t.Errorf("NoCompression.String() = %q", got)
	}
	if got := FastestCompression.String(); got != "deflate-fastest" {
		t.Errorf("FastestCompression.String() = %q", got)
	}
	if got := Compression(42).String(); got != "unknown" {
		t.Errorf("Compression(42).String() = %q", got)
	}
}

func TestRegisterFastestDeflate(t *testing.T) {
	payload := strings.Repeat("the quick brown fox jumps over the lazy dog ", 2000)

	var fast bytes.Buffer
	zw := zip.NewWriter(&fast)
	registerFastestDeflate(zw)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "a.xml", Method: zip.Deflate})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(w, payload); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	zr, err := zip.NewReader(bytes.NewReader(fast.Bytes()), int64(fast.Len()))
	if err != nil {
		t.Fatal(err)
	}
	f := zr.File[0]

	// the stored stream must be exactly what flate.BestSpeed produces
	var expected bytes.Buffer
	fw, _ := flate.NewWriter(&expected, flate.BestSpeed)
	_, _ = io.WriteString(fw, payload)
	_ = fw.Close()

	if f.CompressedSize64 != uint64(expected.Len()) {
		t.Errorf("compressed size = %d, want %d (flate.BestSpeed)", f.CompressedSize64, expected.Len())
	}

	rc, err := f.Open()
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != payload {
		t.Error("decompressed payload differs")
	}
}
