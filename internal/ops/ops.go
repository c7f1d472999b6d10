package ops

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/hpungsan/stickerpack/internal/errors"
	"github.com/hpungsan/stickerpack/internal/logger"
	"github.com/hpungsan/stickerpack/internal/settings"
	"github.com/hpungsan/stickerpack/internal/sticker"
)

// Search limits
const (
	MaxSearchLimit = 500
	MaxQueryLength = 200
)

// Pagination contains pagination metadata for search results.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Build resolves the configured sticker folder and indexes its images.
// Rules:
// - Empty folder setting → ErrFolderUnset
// - Folder missing or not a directory → ErrFolderNotFound
// - Context errors are returned unchanged
func Build(ctx context.Context, resolver sticker.Resolver, s settings.Settings) (*sticker.Index, error) {
	if !s.FolderSet() {
		return nil, errors.NewFolderUnset()
	}

	files, err := resolver.Resolve(ctx, s.StickerFolder)
	if err != nil {
		switch {
		case stderrors.Is(err, sticker.ErrFolderNotFound):
			return nil, errors.NewFolderNotFound(s.StickerFolder)
		case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
			return nil, err
		default:
			return nil, errors.NewInternal(err)
		}
	}

	idx := sticker.NewIndex(files)
	logger.Debug("sticker index built", "folder", s.StickerFolder, "files", len(files), "stickers", idx.Len())
	return idx, nil
}

// cleanPath trims a caller-supplied sticker path.
func cleanPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", errors.NewInvalidRequest("sticker path is required")
	}
	return p, nil
}
