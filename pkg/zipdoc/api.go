package zipdoc

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/benjaminschreck/go-zipdoc/pkg/zipdoc/merge"
	"github.com/spf13/afero"
)

// Engine ties together a file system, a merge engine, a template cache and a
// configuration. Use New() or NewWithOptions() to create one.
type Engine struct {
	config *Config
	cache  *TemplateCache
	fs     afero.Fs
	merger merge.Engine
}

// New creates an engine with the global configuration, the OS file system and
// an XML-escaping Velocity merge engine.
func New() *Engine {
	config := GetGlobalConfig()
	return &Engine{
		config: config,
		cache:  NewTemplateCache(),
		fs:     afero.NewOsFs(),
		merger: merge.NewXMLVelocityEngine("zipdoc"),
	}
}

// NewWithConfig creates an engine with a custom configuration.
func NewWithConfig(config *Config) *Engine {
	config = NewConfigWithDefaults(config)
	return &Engine{
		config: config,
		cache: NewTemplateCacheWithConfig(CacheConfig{
			MaxSize: config.CacheMaxSize,
			TTL:     config.CacheTTL,
		}),
		fs:     afero.NewOsFs(),
		merger: merge.NewXMLVelocityEngine("zipdoc"),
	}
}

// Option represents a configuration option for the engine.
type Option func(*Engine)

// WithConfig sets the engine configuration and rebuilds the cache to match it.
func WithConfig(config *Config) Option {
	return func(e *Engine) {
		e.config = NewConfigWithDefaults(config)
		e.cache = NewTemplateCacheWithConfig(CacheConfig{
			MaxSize: e.config.CacheMaxSize,
			TTL:     e.config.CacheTTL,
		})
	}
}

// WithCache sets the cache size (0 disables caching).
func WithCache(maxSize int) Option {
	return func(e *Engine) {
		e.config.CacheMaxSize = maxSize
		e.cache = NewTemplateCacheWithConfig(CacheConfig{
			MaxSize: maxSize,
			TTL:     e.config.CacheTTL,
		})
	}
}

// WithFs sets the file system used by the *File methods.
func WithFs(fs afero.Fs) Option {
	return func(e *Engine) {
		e.fs = fs
	}
}

// WithMergeEngine sets the merge engine used by compiled templates.
func WithMergeEngine(m merge.Engine) Option {
	return func(e *Engine) {
		e.merger = m
	}
}

// NewWithOptions creates a new engine with the specified options.
func NewWithOptions(opts ...Option) *Engine {
	engine := New()
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() *Config {
	c := *e.config
	return &c
}

// MergeEngine returns the merge engine used by compiled templates.
func (e *Engine) MergeEngine() merge.Engine {
	return e.merger
}

// Load reads a document from r, applying the engine's MaxEntrySize.
func (e *Engine) Load(r io.Reader) (*Document, error) {
	doc := e.newDocument()
	if err := doc.Load(r); err != nil {
		return nil, err
	}
	return doc, nil
}

// OpenFile reads a document from the engine's file system.
func (e *Engine) OpenFile(path string) (*Document, error) {
	if path == "" {
		return nil, NewArgumentError("path", "empty file path")
	}
	file, err := e.fs.Open(path)
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}
	defer file.Close()

	doc, err := e.Load(file)
	if err != nil {
		return nil, WithContext(err, "loading document file", map[string]interface{}{"path": path})
	}
	return doc, nil
}

// SaveFile writes doc to path on the engine's file system, creating parent directories.
// The file is written to a temporary name first and renamed into place.
func (e *Engine) SaveFile(doc *Document, path string) error {
	if doc == nil {
		return NewArgumentError("doc", "nil document")
	}
	if path == "" {
		return NewArgumentError("path", "empty file path")
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := e.fs.MkdirAll(dir, 0o755); err != nil {
			return NewDocumentError("save", path, err)
		}
	}

	tmp := path + ".tmp"
	file, err := e.fs.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return NewDocumentError("save", path, err)
	}
	if err := doc.Save(file); err != nil {
		file.Close()
		_ = e.fs.Remove(tmp)
		return err
	}
	if err := file.Close(); err != nil {
		_ = e.fs.Remove(tmp)
		return NewDocumentError("save", path, err)
	}
	if err := e.fs.Rename(tmp, path); err != nil {
		_ = e.fs.Remove(tmp)
		return NewDocumentError("save", path, err)
	}
	return nil
}

// Prepare loads a template from r. An empty entry is an argument error.
func (e *Engine) Prepare(r io.Reader, entry string) (*Template, error) {
	doc, err := e.Load(r)
	if err != nil {
		return nil, err
	}
	return NewTemplate(doc, entry, e.merger)
}

// PrepareFile loads and compiles a template file. When entry is empty it is
// derived from the file extension (see MergeableEntryFor). Templates are
// cached when caching is enabled.
func (e *Engine) PrepareFile(path, entry string) (*Template, error) {
	if entry == "" {
		guessed, ok := MergeableEntryFor(path)
		if !ok {
			return nil, NewArgumentError("entry", fmt.Sprintf("cannot infer mergeable entry for %q", path))
		}
		entry = guessed
	}

	return e.cache.GetOrPrepare(path+"!"+entry, func() (*Template, error) {
		doc, err := e.OpenFile(path)
		if err != nil {
			return nil, err
		}
		return NewTemplate(doc, entry, e.merger)
	})
}

// RenderFile renders the template at templatePath with data and saves the result to outPath.
func (e *Engine) RenderFile(templatePath, entry string, data merge.Context, outPath string) error {
	tmpl, err := e.PrepareFile(templatePath, entry)
	if err != nil {
		return err
	}
	doc, err := tmpl.Render(data)
	if err != nil {
		return err
	}
	return e.SaveFile(doc.Document, outPath)
}

// RenderAll renders tmpl once per context using the engine's MaxParallelRenders.
func (e *Engine) RenderAll(ctx context.Context, tmpl *Template, contexts []merge.Context) ([]*RenderedDocument, error) {
	if tmpl == nil {
		return nil, NewArgumentError("tmpl", "nil template")
	}
	return tmpl.RenderAll(ctx, contexts, e.config.MaxParallelRenders)
}

// ClearCache removes all templates from the cache.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

func (e *Engine) newDocument() *Document {
	doc := NewDocument()
	doc.maxEntrySize = e.config.MaxEntrySize
	return doc
}

// DefaultEngine is the global default engine instance.
var DefaultEngine = New()

// Module-level convenience functions that use the default engine.

// OpenFile reads a document file using the default engine.
func OpenFile(path string) (*Document, error) {
	return DefaultEngine.OpenFile(path)
}

// PrepareFile loads and compiles a template file using the default engine.
func PrepareFile(path, entry string) (*Template, error) {
	return DefaultEngine.PrepareFile(path, entry)
}

// Prepare loads and compiles a template from r using the default engine.
func Prepare(r io.Reader, entry string) (*Template, error) {
	return DefaultEngine.Prepare(r, entry)
}

// ClearCache clears the default engine's template cache.
func ClearCache() {
	DefaultEngine.ClearCache()
}
