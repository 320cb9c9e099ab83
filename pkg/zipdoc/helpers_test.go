package zipdoc

import (
	"archive/zip"
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildArchive writes files into an in-memory zip, in name order, with the
// writer's default deflate method.
func buildArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// newTestDocument loads files into a fresh Document.
func newTestDocument(t *testing.T, files map[string]string) *Document {
	t.Helper()
	doc, err := LoadDocument(bytes.NewReader(buildArchive(t, files)))
	require.NoError(t, err)
	return doc
}

func entryString(t *testing.T, doc *Document, path string) string {
	t.Helper()
	data, err := doc.Entry(path)
	require.NoError(t, err)
	return string(data)
}

// readArchive returns the entries of a zip image and their methods.
func readArchive(t *testing.T, data []byte) (map[string]string, map[string]uint16) {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	contents := make(map[string]string, len(zr.File))
	methods := make(map[string]uint16, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		var b bytes.Buffer
		_, err = b.ReadFrom(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		contents[f.Name] = b.String()
		methods[f.Name] = f.Method
	}
	return contents, methods
}
