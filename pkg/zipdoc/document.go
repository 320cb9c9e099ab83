package zipdoc

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Document is a zip-packaged document held in memory as a map from entry path
// to entry content. Entry paths are slash separated and case-sensitive.
//
// Document is safe for concurrent use. Stored content is never aliased:
// bytes handed in are copied and bytes handed out are copies. The zero value
// is an empty document limited to the default MaxEntrySize.
type Document struct {
	once         sync.Once
	entries      *entryMap
	maxEntrySize int64
	// set on render output, which cannot be compiled again
	rendered bool
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{
		entries:      newEntryMap(0),
		maxEntrySize: GetGlobalConfig().MaxEntrySize,
	}
}

func (d *Document) store() *entryMap {
	d.once.Do(func() {
		if d.entries == nil {
			d.entries = newEntryMap(0)
		}
	})
	return d.entries
}

// entrySizeLimit returns the effective MaxEntrySize; non-positive means the default.
func (d *Document) entrySizeLimit() int64 {
	if d.maxEntrySize > 0 {
		return d.maxEntrySize
	}
	return DefaultConfig().MaxEntrySize
}

// LoadDocument creates a document from a zip archive stream.
func LoadDocument(r io.Reader) (*Document, error) {
	doc := NewDocument()
	if err := doc.Load(r); err != nil {
		return nil, err
	}
	return doc, nil
}

// Load replaces the document's entries with those of the archive read from r.
func (d *Document) Load(r io.Reader) error {
	return d.LoadContext(context.Background(), r)
}

// LoadContext is Load with cancellation checked between entries. On any error
// the document keeps the entries it had before the call.
func (d *Document) LoadContext(ctx context.Context, r io.Reader) error {
	if r == nil {
		return NewArgumentError("r", "nil archive stream")
	}
	start := time.Now()

	buf := new(bytes.Buffer)
	size, err := buf.ReadFrom(r)
	if err != nil {
		return NewDocumentError("read", "", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), size)
	if err != nil {
		return NewDocumentError("parse", "", err)
	}

	entries := make(map[string][]byte, len(zr.File))
	for _, file := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := d.readEntry(file)
		if err != nil {
			return err
		}
		entries[file.Name] = data
	}

	d.store().replace(entries)

	GetLogger().Debug("loaded document",
		zap.Int("entries", len(entries)),
		zap.Int64("archiveBytes", size),
		zap.Duration("took", time.Since(start)))
	return nil
}

func (d *Document) readEntry(file *zip.File) ([]byte, error) {
	declared := file.UncompressedSize64
	if declared > uint64(d.entrySizeLimit()) {
		return nil, NewDocumentError("read", file.Name, ErrEntryTooLarge)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, NewDocumentError("open", file.Name, err)
	}
	defer rc.Close()

	// the buffer grows with the bytes actually present, not the declared size
	var buf bytes.Buffer
	n, err := buf.ReadFrom(io.LimitReader(rc, int64(declared)))
	if uint64(n) < declared {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, &ReadIntegrityError{
			Path:     file.Name,
			Declared: declared,
			Read:     uint64(n),
			Cause:    err,
		}
	}
	if err != nil {
		return nil, NewDocumentError("read", file.Name, err)
	}
	// drain to EOF so the zip reader verifies size and CRC
	if _, err := io.Copy(io.Discard, rc); err != nil {
		return nil, NewDocumentError("read", file.Name, err)
	}
	return buf.Bytes(), nil
}

// Save writes every entry to w as a zip archive, one entry at a time.
func (d *Document) Save(w io.Writer) error {
	return d.SaveContext(context.Background(), w)
}

// SaveContext is Save with cancellation checked between entries.
// Entries are written in path order so equal documents produce equal archives.
func (d *Document) SaveContext(ctx context.Context, w io.Writer) error {
	if w == nil {
		return NewArgumentError("w", "nil output stream")
	}
	start := time.Now()

	zw := zip.NewWriter(w)
	registerFastestDeflate(zw)

	paths := d.store().paths()
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.appendZipEntry(zw, p); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return NewDocumentError("save", "", err)
	}

	GetLogger().Debug("saved document",
		zap.Int("entries", len(paths)),
		zap.Duration("took", time.Since(start)))
	return nil
}

func (d *Document) appendZipEntry(zw *zip.Writer, name string) error {
	data, ok := d.store().get(name)
	if !ok {
		// deleted concurrently after paths() was taken
		return nil
	}

	fw, err := zw.CreateHeader(&zip.FileHeader{
		Name:   name,
		Method: CompressionFor(name).Method(),
	})
	if err != nil {
		return NewDocumentError("create", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if _, err := fw.Write(data); err != nil {
		return NewDocumentError("write", name, err)
	}
	return nil
}

// EntryPaths returns the entry paths in sorted order.
func (d *Document) EntryPaths() []string {
	return d.store().paths()
}

// Len returns the number of entries.
func (d *Document) Len() int {
	return d.store().len()
}

// EntryExists reports whether path is an entry of the document.
func (d *Document) EntryExists(path string) (bool, error) {
	if path == "" {
		return false, NewArgumentError("path", "empty entry path")
	}
	return d.store().has(path), nil
}

// Entry returns a copy of the content stored at path.
func (d *Document) Entry(path string) ([]byte, error) {
	if path == "" {
		return nil, NewArgumentError("path", "empty entry path")
	}
	data, ok := d.store().get(path)
	if !ok {
		return nil, NewDocumentError("read", path, ErrEntryNotFound)
	}
	return data, nil
}

// PutEntry stores a copy of data at path, replacing any previous content.
func (d *Document) PutEntry(path string, data []byte) error {
	if path == "" {
		return NewArgumentError("path", "empty entry path")
	}
	d.store().put(path, cloneBytes(data))
	return nil
}

// DeleteEntry removes path from the document.
func (d *Document) DeleteEntry(path string) error {
	if path == "" {
		return NewArgumentError("path", "empty entry path")
	}
	if !d.store().delete(path) {
		return NewDocumentError("delete", path, ErrEntryNotFound)
	}
	return nil
}

// EntryInputStream returns a reader over a private copy of the entry.
// Later writes to the document are not visible through it.
func (d *Document) EntryInputStream(path string) (*bytes.Reader, error) {
	data, err := d.Entry(path)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// EntryOutputStream returns a writer whose Flush or Close replaces the entry
// at path with everything written so far. The entry is created if missing.
func (d *Document) EntryOutputStream(path string) (*EntryWriter, error) {
	if path == "" {
		return nil, NewArgumentError("path", "empty entry path")
	}
	return &EntryWriter{doc: d, path: path}, nil
}

// Bytes serializes the whole document to an in-memory zip archive.
func (d *Document) Bytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := d.Save(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Base64 returns the standard base64 encoding of the archive image.
func (d *Document) Base64() (string, error) {
	data, err := d.Bytes()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Clone returns an independent document holding copies of every entry.
func (d *Document) Clone() *Document {
	return &Document{
		entries:      &entryMap{entries: d.store().snapshot()},
		maxEntrySize: d.maxEntrySize,
		rendered:     d.rendered,
	}
}

// CopyTo copies every entry into dst, overwriting entries of the same path.
func (d *Document) CopyTo(dst *Document) error {
	if dst == nil {
		return NewArgumentError("dst", "nil destination document")
	}

	for _, p := range d.EntryPaths() {
		in, err := d.EntryInputStream(p)
		if err != nil {
			if IsNotFound(err) {
				continue
			}
			return err
		}
		out, err := dst.EntryOutputStream(p)
		if err != nil {
			return err
		}
		if _, err := CopyStream(out, in); err != nil {
			return NewDocumentError("copy", p, err)
		}
		if err := out.Close(); err != nil {
			return NewDocumentError("copy", p, err)
		}
	}
	return nil
}

// String describes the document for logs.
func (d *Document) String() string {
	return fmt.Sprintf("zipdoc.Document(%d entries)", d.Len())
}

// EntryWriter buffers writes for one document entry.
type EntryWriter struct {
	doc    *Document
	path   string
	mu     sync.Mutex
	buf    bytes.Buffer
	closed bool
}

// Write appends p to the pending entry content.
func (w *EntryWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return 0, ErrWriterClosed
	}
	return w.buf.Write(p)
}

// Flush stores everything written so far without closing the writer.
func (w *EntryWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWriterClosed
	}
	w.doc.store().put(w.path, cloneBytes(w.buf.Bytes()))
	return nil
}

// Close stores everything written and releases the buffer. Closing twice is a no-op.
func (w *EntryWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.doc.store().put(w.path, cloneBytes(w.buf.Bytes()))
	w.closed = true
	w.buf = bytes.Buffer{}
	return nil
}

// Path returns the entry path the writer commits to.
func (w *EntryWriter) Path() string {
	return w.path
}
