package ops

import (
	"context"

	"github.com/hpungsan/stickerpack/internal/errors"
	"github.com/hpungsan/stickerpack/internal/logger"
	"github.com/hpungsan/stickerpack/internal/settings"
)

// SettingsChange names the fields to change. Nil fields are left alone.
type SettingsChange struct {
	Folder *string // vault-relative folder, "" clears the selection
	Size   *string // size text as typed; unparseable text becomes the default size
}

// GetSettings loads the saved settings, falling back to defaults.
func GetSettings(ctx context.Context, store settings.Store) (settings.Settings, error) {
	s, err := store.Load(ctx)
	if err != nil {
		return settings.Settings{}, errors.As(err)
	}
	return s, nil
}

// UpdateSettings applies change to the saved settings and saves the result
// immediately. Each call is one write.
func UpdateSettings(ctx context.Context, store settings.Store, change SettingsChange) (settings.Settings, error) {
	if change.Folder == nil && change.Size == nil {
		return settings.Settings{}, errors.NewInvalidRequest("nothing to update: set folder or size")
	}

	current, err := GetSettings(ctx, store)
	if err != nil {
		return settings.Settings{}, err
	}

	next := current
	if change.Folder != nil {
		next = next.WithFolder(*change.Folder)
	}
	if change.Size != nil {
		next = next.WithSizeInput(*change.Size)
	}

	if err := store.Save(ctx, next); err != nil {
		return settings.Settings{}, errors.As(err)
	}
	logger.Info("settings saved", "folder", next.StickerFolder, "size", next.DefaultSize)
	return next, nil
}
