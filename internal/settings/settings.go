package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hpungsan/stickerpack/internal/sticker"
)

// Settings is the persisted plugin record. Values are never mutated in place;
// the With* methods return a changed copy.
type Settings struct {
	// StickerFolder is the vault-relative folder holding stickers. Empty means unset.
	StickerFolder string `json:"stickerFolder"`

	// DefaultSize is the display size written into inserted references.
	DefaultSize int `json:"defaultSize"`
}

// Store loads and saves the settings record.
type Store interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}

// Defaults returns the settings used when nothing has been persisted.
func Defaults() Settings {
	return Settings{
		StickerFolder: "",
		DefaultSize:   sticker.DefaultSize,
	}
}

// FolderSet reports whether a sticker folder has been chosen.
func (s Settings) FolderSet() bool {
	return s.StickerFolder != ""
}

// Size returns the size to format references with.
func (s Settings) Size() int {
	return sticker.EffectiveSize(s.DefaultSize)
}

// WithFolder returns a copy with the sticker folder replaced.
func (s Settings) WithFolder(folder string) Settings {
	s.StickerFolder = strings.TrimSpace(folder)
	return s
}

// WithSize returns a copy with the default size replaced.
func (s Settings) WithSize(size int) Settings {
	s.DefaultSize = sticker.EffectiveSize(size)
	return s
}

// WithSizeInput returns a copy with the default size parsed from user text.
// Unparseable input silently becomes the default size.
func (s Settings) WithSizeInput(input string) Settings {
	s.DefaultSize = sticker.ParseSize(input)
	return s
}

// partial mirrors the persisted record with every key optional.
type partial struct {
	StickerFolder *string         `json:"stickerFolder"`
	DefaultSize   json.RawMessage `json:"defaultSize"`
}

// Decode merges a persisted record over Defaults. Keys present in data win,
// missing keys keep their default. Empty or null data yields Defaults.
func Decode(data []byte) (Settings, error) {
	s := Defaults()

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return s, nil
	}

	var p partial
	if err := json.Unmarshal(data, &p); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}

	if p.StickerFolder != nil {
		s.StickerFolder = *p.StickerFolder
	}
	if size, ok := decodeSize(p.DefaultSize); ok {
		s.DefaultSize = size
	}

	return s, nil
}

// decodeSize accepts a JSON number or a numeric string.
func decodeSize(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return int(f), true
		}
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return sticker.ParseSize(str), true
	}

	return 0, false
}

// Encode serializes the record in its persisted layout.
func Encode(s Settings) ([]byte, error) {
	return json.Marshal(s)
}
