package ops

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/hpungsan/stickerpack/internal/errors"
	"github.com/hpungsan/stickerpack/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSettings_Defaults(t *testing.T) {
	s, err := GetSettings(context.Background(), newMemStore())
	require.NoError(t, err)
	assert.Equal(t, settings.Defaults(), s)
}

func TestGetSettings_StoreError(t *testing.T) {
	store := newMemStore()
	store.loadErr = stderrors.New("locked")
	_, err := GetSettings(context.Background(), store)
	require.True(t, errors.Is(err, errors.ErrInternal))
}

func TestUpdateSettings_WriteThrough(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	s, err := UpdateSettings(ctx, store, SettingsChange{Folder: stringPtr(" pics ")})
	require.NoError(t, err)
	assert.Equal(t, "pics", s.StickerFolder)
	assert.Equal(t, 50, s.DefaultSize)
	assert.Equal(t, 1, store.saves)

	s, err = UpdateSettings(ctx, store, SettingsChange{Size: stringPtr("72")})
	require.NoError(t, err)
	assert.Equal(t, settings.Settings{StickerFolder: "pics", DefaultSize: 72}, s)
	assert.Equal(t, 2, store.saves)
	assert.Equal(t, s, store.value)
}

func TestUpdateSettings_SizeText(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"100", 100},
		{"12px", 12},
		{"abc", 50},
		{"", 50},
		{"0", 50},
		{"-5", 50},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			store := newMemStore()
			s, err := UpdateSettings(context.Background(), store, SettingsChange{Size: stringPtr(tt.input)})
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.DefaultSize)
		})
	}
}

func TestUpdateSettings_ClearFolder(t *testing.T) {
	store := newMemStore()
	store.value = settings.Settings{StickerFolder: "pics", DefaultSize: 40}

	s, err := UpdateSettings(context.Background(), store, SettingsChange{Folder: stringPtr("")})
	require.NoError(t, err)
	assert.False(t, s.FolderSet())
	assert.Equal(t, 40, s.DefaultSize)
}

func TestUpdateSettings_NothingToChange(t *testing.T) {
	store := newMemStore()
	_, err := UpdateSettings(context.Background(), store, SettingsChange{})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
	assert.Equal(t, 0, store.saves)
}

func TestUpdateSettings_SaveError(t *testing.T) {
	store := newMemStore()
	store.saveErr = stderrors.New("read-only")
	_, err := UpdateSettings(context.Background(), store, SettingsChange{Size: stringPtr("10")})
	require.True(t, errors.Is(err, errors.ErrInternal))
}

// staticFolders is a fixed FolderSource.
type staticFolders []string

func (f staticFolders) Folders(ctx context.Context) ([]string, error) {
	return f, nil
}

func TestListFolders(t *testing.T) {
	source := staticFolders{"/", "pics", "pics/cats"}

	out, err := ListFolders(context.Background(), source, settings.Defaults())
	require.NoError(t, err)
	require.Len(t, out.Options, 4)
	assert.Equal(t, FolderOption{Value: "", Label: UnsetFolderLabel, Selected: true}, out.Options[0])
	assert.Equal(t, "/", out.Options[1].Value)
	assert.False(t, out.Options[1].Selected)

	out, err = ListFolders(context.Background(), source, withFolder("pics/cats"))
	require.NoError(t, err)
	assert.Equal(t, "pics/cats", out.Selected)
	assert.False(t, out.Options[0].Selected)
	assert.True(t, out.Options[3].Selected)
}

func TestListFolders_MissingSelection(t *testing.T) {
	out, err := ListFolders(context.Background(), staticFolders{"/"}, withFolder("gone"))
	require.NoError(t, err)
	last := out.Options[len(out.Options)-1]
	assert.Equal(t, "gone", last.Value)
	assert.True(t, last.Selected)
}
