package sticker

import (
	"context"
	"errors"
	"strings"
	"time"
)

// AllowedExtensions lists the image types that can become stickers.
var AllowedExtensions = []string{"png", "jpg", "jpeg", "gif", "svg"}

// ErrFolderNotFound is returned by a Resolver when the folder does not
// resolve to a directory.
var ErrFolderNotFound = errors.New("folder not found")

// File is a child file descriptor as reported by a Resolver.
type File struct {
	// Path is the host-assigned location, unique within the vault
	Path string

	// Basename is the file name without extension
	Basename string

	// Extension is the file extension without the leading dot, as found on disk
	Extension string

	// Size and ModTime are informational only
	Size    int64
	ModTime time.Time
}

// Entry is one discoverable sticker image.
type Entry struct {
	Path      string    `json:"path"`
	Basename  string    `json:"basename"`
	Extension string    `json:"extension"`
	Size      int64     `json:"size"`
	ModTime   time.Time `json:"mod_time"`
}

// Same reports whether two entries refer to the same sticker.
func (e Entry) Same(other Entry) bool {
	return e.Path == other.Path
}

// Resolver turns a configured folder into its ordered list of child files.
type Resolver interface {
	Resolve(ctx context.Context, folder string) ([]File, error)
}

// IsAllowedExtension reports whether ext (with or without a leading dot, any case)
// is a sticker image type.
func IsAllowedExtension(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
