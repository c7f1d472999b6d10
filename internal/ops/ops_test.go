package ops

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/hpungsan/stickerpack/internal/editor"
	"github.com/hpungsan/stickerpack/internal/errors"
	"github.com/hpungsan/stickerpack/internal/settings"
	"github.com/hpungsan/stickerpack/internal/sticker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver serves fixed folder listings and counts calls.
type fakeResolver struct {
	folders map[string][]sticker.File
	err     error
	calls   int
}

func (r *fakeResolver) Resolve(ctx context.Context, folder string) ([]sticker.File, error) {
	r.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.err != nil {
		return nil, r.err
	}
	files, ok := r.folders[folder]
	if !ok {
		return nil, fmt.Errorf("%w: %s", sticker.ErrFolderNotFound, folder)
	}
	return files, nil
}

func file(folder, name, ext string) sticker.File {
	return sticker.File{Path: folder + "/" + name + "." + ext, Basename: name, Extension: ext}
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{folders: map[string][]sticker.File{
		"stickers": {
			file("stickers", "cat", "png"),
			file("stickers", "notes", "txt"),
			file("stickers", "Dog", "JPG"),
			file("stickers", "smile_cat", "gif"),
		},
		"empty": {},
	}}
}

func withFolder(folder string) settings.Settings {
	return settings.Defaults().WithFolder(folder)
}

// memStore is an in-memory settings.Store.
type memStore struct {
	value   settings.Settings
	saves   int
	loadErr error
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{value: settings.Defaults()}
}

func (m *memStore) Load(ctx context.Context) (settings.Settings, error) {
	if m.loadErr != nil {
		return settings.Settings{}, m.loadErr
	}
	return m.value, nil
}

func (m *memStore) Save(ctx context.Context, s settings.Settings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.value = s
	m.saves++
	return nil
}

// recordingSink captures inserted text.
type recordingSink struct {
	text string
	at   editor.Cursor
	err  error
}

func (r *recordingSink) Insert(ctx context.Context, text string, at editor.Cursor) error {
	if r.err != nil {
		return r.err
	}
	r.text = text
	r.at = at
	return nil
}

func paths(entries []sticker.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

func stringPtr(s string) *string {
	return &s
}

func TestBuild(t *testing.T) {
	idx, err := Build(context.Background(), newFakeResolver(), withFolder("stickers"))
	require.NoError(t, err)
	assert.Equal(t, []string{"stickers/cat.png", "stickers/Dog.JPG", "stickers/smile_cat.gif"}, paths(idx.Entries()))
}

func TestBuild_EmptyFolder(t *testing.T) {
	idx, err := Build(context.Background(), newFakeResolver(), withFolder("empty"))
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
}

func TestBuild_FolderUnset(t *testing.T) {
	r := newFakeResolver()
	_, err := Build(context.Background(), r, settings.Defaults())
	require.True(t, errors.Is(err, errors.ErrFolderUnset), "got %v", err)
	assert.Equal(t, 0, r.calls, "resolver must not be called without a folder")
}

func TestBuild_FolderNotFound(t *testing.T) {
	_, err := Build(context.Background(), newFakeResolver(), withFolder("missing"))
	require.True(t, errors.Is(err, errors.ErrFolderNotFound), "got %v", err)
	assert.Equal(t, "missing", errors.As(err).Details["folder"])
}

func TestBuild_DistinctMessages(t *testing.T) {
	_, unset := Build(context.Background(), newFakeResolver(), settings.Defaults())
	_, missing := Build(context.Background(), newFakeResolver(), withFolder("missing"))
	assert.NotEqual(t, errors.As(unset).Message, errors.As(missing).Message)
}

func TestBuild_ResolverFailure(t *testing.T) {
	r := newFakeResolver()
	r.err = stderrors.New("disk on fire")
	_, err := Build(context.Background(), r, withFolder("stickers"))
	require.True(t, errors.Is(err, errors.ErrInternal), "got %v", err)
}

func TestBuild_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Build(ctx, newFakeResolver(), withFolder("stickers"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestFormat(t *testing.T) {
	s := withFolder("stickers").WithSize(80)

	out, err := Format(s, FormatInput{Path: "stickers/cat.png"})
	require.NoError(t, err)
	assert.Equal(t, "![[stickers/cat.png|80]]", out.Reference)
	assert.Equal(t, 80, out.Size)

	out, err = Format(s, FormatInput{Path: " a b/c.png ", Size: "120px"})
	require.NoError(t, err)
	assert.Equal(t, "![[a b/c.png|120]]", out.Reference)

	out, err = Format(s, FormatInput{Path: "x.png", Size: "big"})
	require.NoError(t, err)
	assert.Equal(t, 50, out.Size)

	_, err = Format(s, FormatInput{Path: "  "})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}
