package ops

import (
	"strings"

	"github.com/hpungsan/stickerpack/internal/settings"
	"github.com/hpungsan/stickerpack/internal/sticker"
)

// FormatInput contains parameters for the Format operation.
type FormatInput struct {
	Path string // required
	Size string // optional; empty uses the saved default size
}

// FormatOutput contains the result of the Format operation.
type FormatOutput struct {
	Reference string `json:"reference"`
	Path      string `json:"path"`
	Size      int    `json:"size"`
}

// Format builds the embed reference for a sticker path. The path is not
// checked against the vault; the reference is written exactly as given.
func Format(s settings.Settings, input FormatInput) (*FormatOutput, error) {
	path, err := cleanPath(input.Path)
	if err != nil {
		return nil, err
	}

	size := s.Size()
	if strings.TrimSpace(input.Size) != "" {
		size = sticker.ParseSize(input.Size)
	}

	return &FormatOutput{
		Reference: sticker.FormatReference(path, size),
		Path:      path,
		Size:      size,
	}, nil
}
