// Package zipdoc manages zip-packaged office documents (DOCX, XLSX, PPTX, ODF and
// friends) as in-memory collections of named byte entries, and renders new documents
// by running a text merge engine over one entry of a template.
//
// # Quick Start
//
// The simplest way to use go-zipdoc is through the package-level functions:
//
//	tmpl, err := zipdoc.PrepareFile("invoice.docx", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := tmpl.Render(merge.Context{
//	    "name": "John Doe",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	f, _ := os.Create("output.docx")
//	defer f.Close()
//	out.Save(f)
//
// An empty entry argument lets PrepareFile pick the conventional entry from the
// file extension (word/document.xml for .docx, xl/sharedStrings.xml for .xlsx and
// so on, see MergeableEntryFor).
//
// # Documents
//
// A Document maps entry paths to bytes. Load reads a whole archive and either
// replaces every entry or, on failure, leaves the document untouched. Save writes
// entries in path order; jpeg, jpg, png, mp3 and mp4 entries are stored, everything
// else is deflated at the fastest level:
//
//	doc, err := zipdoc.LoadDocument(r)
//	data, err := doc.Entry("word/document.xml")
//	err = doc.PutEntry("docProps/custom.xml", custom)
//	err = doc.Save(w)
//
// Bytes handed to a Document are copied and bytes handed out are copies, so
// callers may freely modify slices they pass in or get back.
//
// # Templates
//
// A Template is a Document plus the path of its mergeable entry and a
// merge.Engine. Render clones the template, feeds the mergeable entry through the
// engine with the caller's context and stores the output in the clone. Templates
// are never modified by rendering and may be shared between goroutines:
//
//	tmpl, err := doc.Compile("word/document.xml", merge.NewXMLVelocityEngine("invoice"))
//	docs, err := tmpl.RenderAll(ctx, contexts, 4)
//
// Rendered documents cannot be compiled again; Compile returns ErrNotSupported.
//
// # Configuration
//
// Engine-wide settings come from ZIPDOC_* environment variables (see
// ConfigFromEnvironment) or from a Config passed to NewWithConfig:
//
//	engine := zipdoc.NewWithConfig(&zipdoc.Config{
//	    CacheMaxSize: 50,
//	    MaxEntrySize: 256 << 20,
//	})
//
// # Errors
//
// Argument problems match ErrInvalidArgument, truncated archive entries match
// ErrReadIntegrity and missing entries match ErrEntryNotFound:
//
//	if errors.Is(err, zipdoc.ErrReadIntegrity) {
//	    // the archive is damaged
//	}
//
// Errors returned by the merge engine are passed through unchanged.
package zipdoc
