package ops

import (
	"context"

	"github.com/hpungsan/stickerpack/internal/errors"
	"github.com/hpungsan/stickerpack/internal/settings"
)

// FolderSource lists the folders a sticker folder can be chosen from.
type FolderSource interface {
	Folders(ctx context.Context) ([]string, error)
}

// FolderOption is one entry of the folder dropdown.
type FolderOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// UnsetFolderLabel labels the empty option that leaves the folder unset.
const UnsetFolderLabel = "Select a folder"

// ListFoldersOutput contains the result of the ListFolders operation.
type ListFoldersOutput struct {
	Options  []FolderOption `json:"options"`
	Selected string         `json:"selected"`
}

// ListFolders returns the dropdown options: the unset option first, then every
// vault folder. The current selection is marked even if the folder is gone.
func ListFolders(ctx context.Context, source FolderSource, s settings.Settings) (*ListFoldersOutput, error) {
	folders, err := source.Folders(ctx)
	if err != nil {
		return nil, errors.As(err)
	}

	options := make([]FolderOption, 0, len(folders)+2)
	options = append(options, FolderOption{
		Value:    "",
		Label:    UnsetFolderLabel,
		Selected: !s.FolderSet(),
	})

	found := !s.FolderSet()
	for _, f := range folders {
		selected := f == s.StickerFolder
		found = found || selected
		options = append(options, FolderOption{Value: f, Label: f, Selected: selected})
	}
	if !found {
		options = append(options, FolderOption{
			Value:    s.StickerFolder,
			Label:    s.StickerFolder + " (missing)",
			Selected: true,
		})
	}

	return &ListFoldersOutput{Options: options, Selected: s.StickerFolder}, nil
}
