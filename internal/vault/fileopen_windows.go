//go:build windows

package vault

import (
	"os"

	"github.com/hpungsan/stickerpack/internal/errors"
)

// openFileNoFollow opens a document for writing.
// O_NOFOLLOW is not available on Windows; documentPath already rejects symlinks.
func openFileNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	f, err := os.OpenFile(path, flag, perm)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return f, nil
}

// openFileNoFollowRead opens a vault file for reading.
func openFileNoFollowRead(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound("file", path)
		}
		return nil, errors.NewInternal(err)
	}
	return f, nil
}
