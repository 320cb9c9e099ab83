package zipdoc

import (
	"bytes"
	"context"
	"time"

	"github.com/benjaminschreck/go-zipdoc/pkg/zipdoc/merge"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Template is a document with one mergeable entry whose content is merge
// source text. Rendering never modifies the template, so one Template may be
// rendered from many goroutines at once.
type Template struct {
	doc    *Document
	entry  string
	engine merge.Engine
}

// NewTemplate compiles doc into a template whose mergeable entry is entry.
// The template keeps its own copy of doc. Render output, and clones of it,
// fail with ErrNotSupported.
func NewTemplate(doc *Document, entry string, engine merge.Engine) (*Template, error) {
	if doc == nil {
		return nil, NewArgumentError("doc", "nil document")
	}
	if entry == "" {
		return nil, NewArgumentError("entry", "empty mergeable entry path")
	}
	if engine == nil {
		return nil, NewArgumentError("engine", "nil merge engine")
	}
	if doc.rendered {
		return nil, NewDocumentError("compile", entry, ErrNotSupported)
	}
	if !doc.store().has(entry) {
		return nil, NewDocumentError("compile", entry, ErrEntryNotFound)
	}

	return &Template{
		doc:    doc.Clone(),
		entry:  entry,
		engine: engine,
	}, nil
}

// Compile turns the document into a template. See NewTemplate.
func (d *Document) Compile(entry string, engine merge.Engine) (*Template, error) {
	return NewTemplate(d, entry, engine)
}

// Entry returns the mergeable entry path.
func (t *Template) Entry() string {
	return t.entry
}

// Document returns a copy of the template document.
func (t *Template) Document() *Document {
	return t.doc.Clone()
}

// Compile always fails: a template is already compiled.
func (t *Template) Compile() (*Template, error) {
	return nil, NewDocumentError("compile", t.entry, ErrNotSupported)
}

// Render merges data into a clone of the template and returns it.
// Errors from the merge engine are returned unchanged.
func (t *Template) Render(data merge.Context) (*RenderedDocument, error) {
	return t.RenderContext(context.Background(), data)
}

// RenderContext is Render with cancellation checked before the merge runs.
func (t *Template) RenderContext(ctx context.Context, data merge.Context) (*RenderedDocument, error) {
	if t == nil || t.doc == nil {
		return nil, NewArgumentError("template", "nil template")
	}
	if data == nil {
		return nil, NewArgumentError("data", "nil context")
	}
	start := time.Now()

	result := t.doc.Clone()

	// read from the template rather than the clone
	src, err := t.doc.EntryInputStream(t.entry)
	if err != nil {
		return nil, err
	}
	reader := transform.NewReader(src, unicode.UTF8BOM.NewDecoder())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var dst bytes.Buffer
	if err := t.engine.Evaluate(data, reader, &dst); err != nil {
		return nil, err
	}

	// dst is owned by this call; no copy needed
	result.store().put(t.entry, dst.Bytes())
	result.rendered = true

	GetLogger().Debug("rendered template",
		zap.String("entry", t.entry),
		zap.Int("bytes", dst.Len()),
		zap.Duration("took", time.Since(start)))

	return &RenderedDocument{Document: result, entry: t.entry}, nil
}

// RenderedDocument is the output of Template.Render. It is a plain document
// that cannot be compiled into a template again.
type RenderedDocument struct {
	*Document
	entry string
}

// MergedEntry returns the path of the entry that holds the merge result.
func (r *RenderedDocument) MergedEntry() string {
	return r.entry
}

// Compile always fails with ErrNotSupported: rendering is one-shot.
func (r *RenderedDocument) Compile(entry string, engine merge.Engine) (*Template, error) {
	return nil, NewDocumentError("compile", entry, ErrNotSupported)
}
