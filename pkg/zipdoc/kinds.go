package zipdoc

import (
	"path/filepath"
	"strings"
)

// Conventional mergeable entries of common office packages
const (
	WordprocessingEntry = "word/document.xml"
	SpreadsheetEntry    = "xl/sharedStrings.xml"
	PresentationEntry   = "ppt/slides/slide1.xml"
	OpenDocumentEntry   = "content.xml"
)

var mergeableEntries = map[string]string{
	".docx": WordprocessingEntry,
	".docm": WordprocessingEntry,
	".dotx": WordprocessingEntry,
	".xlsx": SpreadsheetEntry,
	".xlsm": SpreadsheetEntry,
	".pptx": PresentationEntry,
	".odt":  OpenDocumentEntry,
	".ods":  OpenDocumentEntry,
	".odp":  OpenDocumentEntry,
}

// MergeableEntryFor guesses the mergeable entry of a document from its file name.
func MergeableEntryFor(filename string) (string, bool) {
	entry, ok := mergeableEntries[strings.ToLower(filepath.Ext(filename))]
	return entry, ok
}
