package zipdoc

import (
	"errors"
	"io"
	"testing"
)

func TestErrorTypes(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "ArgumentError",
			err:     &ArgumentError{Name: "path", Message: "empty entry path"},
			wantMsg: "invalid argument 'path': empty entry path",
		},
		{
			name:    "ArgumentError without message",
			err:     &ArgumentError{Name: "doc"},
			wantMsg: "invalid argument 'doc'",
		},
		{
			name:    "ReadIntegrityError",
			err:     &ReadIntegrityError{Path: "word/document.xml", Declared: 10, Read: 4, Cause: io.ErrUnexpectedEOF},
			wantMsg: "failed to read zip entry 'word/document.xml': read 4 of 10 declared bytes: unexpected EOF",
		},
		{
			name:    "ReadIntegrityError without cause",
			err:     &ReadIntegrityError{Path: "a", Declared: 2, Read: 1},
			wantMsg: "failed to read zip entry 'a': read 1 of 2 declared bytes",
		},
		{
			name:    "DocumentError",
			err:     &DocumentError{Operation: "save", Path: "output.docx", Cause: errors.New("permission denied")},
			wantMsg: "document error during save of 'output.docx': permission denied",
		},
		{
			name:    "DocumentError without path",
			err:     &DocumentError{Operation: "parse", Cause: errors.New("zip: not a valid zip file")},
			wantMsg: "document error during parse: zip: not a valid zip file",
		},
		{
			name:    "DocumentError without cause",
			err:     &DocumentError{Operation: "read", Path: "a.xml"},
			wantMsg: "document error during read of 'a.xml'",
		},
		{
			name:    "ContextError",
			err:     &ContextError{Operation: "rendering batch item", Context: map[string]interface{}{"index": 3}, Cause: errors.New("boom")},
			wantMsg: "rendering batch item [index=3]: boom",
		},
		{
			name:    "ContextError without context",
			err:     &ContextError{Operation: "loading", Cause: errors.New("boom")},
			wantMsg: "loading: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestErrorMatching(t *testing.T) {
	argErr := NewArgumentError("r", "nil archive stream")
	if !errors.Is(argErr, ErrInvalidArgument) || !IsArgumentError(argErr) {
		t.Error("ArgumentError should match ErrInvalidArgument")
	}

	integrityErr := &ReadIntegrityError{Path: "a", Declared: 2, Read: 1, Cause: io.ErrUnexpectedEOF}
	if !IsReadIntegrityError(integrityErr) {
		t.Error("ReadIntegrityError should match ErrReadIntegrity")
	}
	if !errors.Is(integrityErr, io.ErrUnexpectedEOF) {
		t.Error("ReadIntegrityError should unwrap to its cause")
	}

	notFound := NewDocumentError("read", "a.xml", ErrEntryNotFound)
	if !IsNotFound(notFound) || !IsDocumentError(notFound) {
		t.Error("DocumentError should unwrap to ErrEntryNotFound")
	}
	if IsArgumentError(notFound) || IsReadIntegrityError(notFound) {
		t.Error("not-found error matched an unrelated sentinel")
	}

	wrapped := WithContext(NewDocumentError("compile", "a.xml", ErrNotSupported), "batch", nil)
	if !IsNotSupported(wrapped) || !IsDocumentError(wrapped) {
		t.Error("ContextError should unwrap to its cause")
	}

	if WithContext(nil, "noop", nil) != nil {
		t.Error("WithContext(nil) should be nil")
	}
}
