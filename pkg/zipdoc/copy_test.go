package zipdoc

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

type recordingWriter struct {
	bytes.Buffer
	writes []int
	closed bool
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.writes = append(w.writes, len(p))
	return w.Buffer.Write(p)
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) / 2, nil }

type trackingReader struct {
	io.Reader
	closed bool
}

func (r *trackingReader) Close() error {
	r.closed = true
	return nil
}

func TestCopyStream(t *testing.T) {
	payload := strings.Repeat("0123456789", 500) // 5000 bytes

	src := &trackingReader{Reader: strings.NewReader(payload)}
	dst := &recordingWriter{}

	n, err := CopyStream(dst, src)
	if err != nil {
		t.Fatalf("CopyStream failed: %v", err)
	}
	if n != int64(len(payload)) {
		t.Errorf("copied %d bytes, want %d", n, len(payload))
	}
	if dst.String() != payload {
		t.Error("destination content differs from source")
	}
	for i, size := range dst.writes {
		if size > CopyBufferSize {
			t.Errorf("write %d has %d bytes, more than %d", i, size, CopyBufferSize)
		}
	}
	if src.closed || dst.closed {
		t.Error("CopyStream must not close either stream")
	}
}

func TestCopyStream_OneByteReads(t *testing.T) {
	var dst bytes.Buffer
	n, err := CopyStream(&dst, iotest.OneByteReader(strings.NewReader("chunked")))
	if err != nil {
		t.Fatal(err)
	}
	if n != 7 || dst.String() != "chunked" {
		t.Errorf("got %d %q", n, dst.String())
	}
}

func TestCopyStream_Empty(t *testing.T) {
	var dst bytes.Buffer
	n, err := CopyStream(&dst, strings.NewReader(""))
	if err != nil || n != 0 {
		t.Errorf("CopyStream(empty) = %d, %v", n, err)
	}
}

func TestCopyStream_Errors(t *testing.T) {
	if _, err := CopyStream(&bytes.Buffer{}, nil); !IsArgumentError(err) {
		t.Errorf("nil source: expected argument error, got %v", err)
	}
	if _, err := CopyStream(nil, strings.NewReader("x")); !IsArgumentError(err) {
		t.Errorf("nil destination: expected argument error, got %v", err)
	}

	if _, err := CopyStream(shortWriter{}, strings.NewReader("abcd")); !errors.Is(err, io.ErrShortWrite) {
		t.Errorf("short write: expected io.ErrShortWrite, got %v", err)
	}

	readErr := errors.New("read failed")
	var dst bytes.Buffer
	n, err := CopyStream(&dst, io.MultiReader(strings.NewReader("abc"), iotest.ErrReader(readErr)))
	if !errors.Is(err, readErr) {
		t.Errorf("expected read error, got %v", err)
	}
	if n != 3 || dst.String() != "abc" {
		t.Errorf("bytes before the failure must be written, got %d %q", n, dst.String())
	}
}
