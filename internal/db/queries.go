package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/hpungsan/stickerpack/internal/errors"
	"github.com/hpungsan/stickerpack/internal/settings"
)

// GetPluginData returns the raw data record stored for a vault.
// found is false when nothing has been saved yet.
func GetPluginData(ctx context.Context, db *sql.DB, vault string) (data []byte, found bool, err error) {
	var text string
	err = db.QueryRowContext(ctx, `SELECT data_json FROM plugin_data WHERE vault = ?`, vault).Scan(&text)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewInternal(err)
	}
	return []byte(text), true, nil
}

// PutPluginData replaces the data record stored for a vault.
func PutPluginData(ctx context.Context, db *sql.DB, vault string, data []byte) error {
	query := `
		INSERT INTO plugin_data (vault, data_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(vault) DO UPDATE SET
			data_json = excluded.data_json,
			updated_at = excluded.updated_at
	`
	if _, err := db.ExecContext(ctx, query, vault, string(data), time.Now().Unix()); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// SettingsStore persists the settings record for one vault.
type SettingsStore struct {
	db    *sql.DB
	vault string
}

// NewSettingsStore returns a store keyed by the vault's root directory.
func NewSettingsStore(db *sql.DB, vault string) *SettingsStore {
	return &SettingsStore{db: db, vault: vault}
}

// Load merges the persisted record over the defaults.
func (s *SettingsStore) Load(ctx context.Context) (settings.Settings, error) {
	data, found, err := GetPluginData(ctx, s.db, s.vault)
	if err != nil {
		return settings.Settings{}, err
	}
	if !found {
		return settings.Defaults(), nil
	}
	loaded, err := settings.Decode(data)
	if err != nil {
		return settings.Settings{}, errors.NewInternal(err)
	}
	return loaded, nil
}

// Save writes the whole record.
func (s *SettingsStore) Save(ctx context.Context, value settings.Settings) error {
	data, err := settings.Encode(value)
	if err != nil {
		return errors.NewInternal(err)
	}
	return PutPluginData(ctx, s.db, s.vault, data)
}
