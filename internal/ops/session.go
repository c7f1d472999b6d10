package ops

import (
	"context"
	"sync"

	"github.com/hpungsan/stickerpack/internal/errors"
	"github.com/hpungsan/stickerpack/internal/settings"
	"github.com/hpungsan/stickerpack/internal/sticker"
)

// Session is one open picker: the index is built once when the session opens
// and every query re-filters it in memory.
type Session struct {
	index  *sticker.Index
	folder string
	size   int

	mu     sync.Mutex
	closed bool
}

// OpenSession builds the index for the current settings. The default size is
// captured when the session opens.
func OpenSession(ctx context.Context, resolver sticker.Resolver, s settings.Settings) (*Session, error) {
	idx, err := Build(ctx, resolver, s)
	if err != nil {
		return nil, err
	}
	return &Session{index: idx, folder: s.StickerFolder, size: s.Size()}, nil
}

// Folder returns the sticker folder the session was built from.
func (s *Session) Folder() string {
	return s.folder
}

// Size returns the size chosen stickers are formatted with.
func (s *Session) Size() int {
	return s.size
}

// Len returns the number of stickers in the session's index.
func (s *Session) Len() int {
	return s.index.Len()
}

// Search filters the session's index, returning at most MaxSearchLimit items.
func (s *Session) Search(input SearchInput) (*SearchOutput, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return search(s.index, input, MaxSearchLimit)
}

// Filter returns every sticker matching query, unpaged. Pickers use it so the
// whole index stays reachable however large the folder is.
func (s *Session) Filter(query string) (*SearchOutput, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return search(s.index, SearchInput{Query: query}, s.index.Len())
}

// Choose formats the reference for the sticker at path and closes the session.
// A path that is not in the index is ErrNotFound and leaves the session open.
func (s *Session) Choose(path string) (string, error) {
	path, err := cleanPath(path)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", errSessionClosed()
	}
	entry, ok := s.index.Lookup(path)
	if !ok {
		return "", errors.NewNotFound("sticker", path)
	}
	s.closed = true
	return sticker.FormatReference(entry.Path, s.size), nil
}

// Close discards the session. Closing twice is a no-op.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Closed reports whether the session has been chosen from or closed.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) checkOpen() error {
	if s.Closed() {
		return errSessionClosed()
	}
	return nil
}

func errSessionClosed() error {
	return errors.NewInvalidRequest("picker session is closed")
}
