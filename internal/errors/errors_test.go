package errors

import (
	"fmt"
	"testing"
)

func TestStickerError_Error(t *testing.T) {
	err := &StickerError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "sticker not found",
	}

	expected := "NOT_FOUND: sticker not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("path is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "path is required" {
		t.Errorf("Message = %q, want %q", err.Message, "path is required")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("sticker", "pics/smile.png")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Message != "sticker not found: pics/smile.png" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Details["identifier"] != "pics/smile.png" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "pics/smile.png")
	}
}

func TestFolderErrorsAreDistinct(t *testing.T) {
	unset := NewFolderUnset()
	missing := NewFolderNotFound("pics")

	if unset.Code == missing.Code {
		t.Fatalf("FOLDER_UNSET and FOLDER_NOT_FOUND share code %q", unset.Code)
	}
	if unset.Message == missing.Message {
		t.Errorf("expected distinct user-facing messages, both were %q", unset.Message)
	}
	if unset.Status != 412 {
		t.Errorf("FolderUnset Status = %d, want 412", unset.Status)
	}
	if missing.Status != 404 {
		t.Errorf("FolderNotFound Status = %d, want 404", missing.Status)
	}
	if missing.Details["folder"] != "pics" {
		t.Errorf("Details[folder] = %v, want %q", missing.Details["folder"], "pics")
	}
}

func TestNewInternal(t *testing.T) {
	err := NewInternal(fmt.Errorf("disk on fire"))
	if err.Code != ErrInternal || err.Status != 500 {
		t.Errorf("got %s/%d, want INTERNAL/500", err.Code, err.Status)
	}
	if err.Message != "disk on fire" {
		t.Errorf("Message = %q", err.Message)
	}

	if NewInternal(nil).Message != "internal error" {
		t.Errorf("nil error should produce generic message")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"matching code", NewFolderUnset(), ErrFolderUnset, true},
		{"different code", NewFolderUnset(), ErrFolderNotFound, false},
		{"wrapped", fmt.Errorf("load: %w", NewFolderNotFound("x")), ErrFolderNotFound, true},
		{"plain error", fmt.Errorf("boom"), ErrInternal, false},
		{"nil", nil, ErrInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAs(t *testing.T) {
	orig := NewNotFound("document", "a.md")
	if As(orig) != orig {
		t.Errorf("As() should return the StickerError itself")
	}

	wrapped := As(fmt.Errorf("plain"))
	if wrapped.Code != ErrInternal {
		t.Errorf("As(plain).Code = %q, want INTERNAL", wrapped.Code)
	}
}
