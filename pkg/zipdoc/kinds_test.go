package zipdoc

import "testing"

func TestMergeableEntryFor(t *testing.T) {
	tests := []struct {
		filename string
		want     string
		wantOK   bool
	}{
		{"letter.docx", WordprocessingEntry, true},
		{"templates/Letter.DOCX", WordprocessingEntry, true},
		{"macro.docm", WordprocessingEntry, true},
		{"base.dotx", WordprocessingEntry, true},
		{"report.xlsx", SpreadsheetEntry, true},
		{"report.xlsm", SpreadsheetEntry, true},
		{"deck.pptx", PresentationEntry, true},
		{"letter.odt", OpenDocumentEntry, true},
		{"sheet.ods", OpenDocumentEntry, true},
		{"slides.odp", OpenDocumentEntry, true},
		{"archive.zip", "", false},
		{"noextension", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, ok := MergeableEntryFor(tt.filename)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("MergeableEntryFor(%q) = %q, %v; want %q, %v", tt.filename, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
