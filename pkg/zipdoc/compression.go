package zipdoc

import (
	"archive/zip"
	"compress/flate"
	"io"
	"path"
	"strings"
)

// Compression is the per-entry compression directive applied at save time.
type Compression int

const (
	// FastestCompression deflates with flate.BestSpeed.
	FastestCompression Compression = iota
	// NoCompression stores the entry as-is.
	NoCompression
)

func (c Compression) String() string {
	switch c {
	case NoCompression:
		return "store"
	case FastestCompression:
		return "deflate-fastest"
	default:
		return "unknown"
	}
}

// Method returns the zip method used to write an entry with this directive.
func (c Compression) Method() uint16 {
	if c == NoCompression {
		return zip.Store
	}
	return zip.Deflate
}

// Already-compressed media gains nothing from deflate.
var storedExtensions = map[string]bool{
	"jpeg": true,
	"jpg":  true,
	"png":  true,
	"mp3":  true,
	"mp4":  true,
}

// CompressionFor maps an entry path to its compression directive by file extension.
// It is total: unknown or missing extensions get FastestCompression.
func CompressionFor(entryPath string) Compression {
	ext := strings.TrimPrefix(path.Ext(entryPath), ".")
	if storedExtensions[strings.ToLower(ext)] {
		return NoCompression
	}
	return FastestCompression
}

// registerFastestDeflate makes zip.Deflate on w use flate.BestSpeed instead of the default level.
func registerFastestDeflate(w *zip.Writer) {
	w.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestSpeed)
	})
}
