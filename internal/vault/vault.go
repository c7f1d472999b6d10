package vault

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hpungsan/stickerpack/internal/errors"
	"github.com/hpungsan/stickerpack/internal/sticker"
)

// RootFolder is how the vault root is named in folder listings and settings.
const RootFolder = "/"

// Vault is a directory tree addressed by forward-slash paths relative to its root.
type Vault struct {
	root string
}

// Open returns the vault rooted at dir. dir must be an existing directory.
func Open(dir string) (*Vault, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid vault directory: %v", err))
	}
	// Containment checks compare against the real root
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("vault directory does not exist: %s", abs))
	}
	return &Vault{root: abs}, nil
}

// Root returns the absolute vault directory.
func (v *Vault) Root() string {
	return v.root
}

// Clean normalizes a vault-relative path. The vault root is returned as "".
// Absolute paths (other than RootFolder) and ".." components are rejected.
func Clean(p string) (string, error) {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == RootFolder || p == "" || p == "." {
		return "", nil
	}
	if strings.HasPrefix(p, "/") || filepath.IsAbs(p) {
		return "", fmt.Errorf("path must be relative to the vault: %s", p)
	}
	if containsTraversal(p) {
		return "", fmt.Errorf("path must not contain directory traversal (..): %s", p)
	}
	return path.Clean(p), nil
}

// containsTraversal checks if a slash-separated path contains a ".." component.
func containsTraversal(p string) bool {
	for _, part := range strings.Split(p, "/") {
		if part == ".." {
			return true
		}
	}
	return false
}

// isHidden reports whether any component of a cleaned path starts with a dot.
func isHidden(p string) bool {
	for _, part := range strings.Split(p, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// abs maps a vault-relative path onto disk. Symlinks along the way must not
// lead outside the vault.
func (v *Vault) abs(rel string) (string, string, error) {
	cleaned, err := Clean(rel)
	if err != nil {
		return "", "", err
	}
	p := filepath.Join(v.root, filepath.FromSlash(cleaned))
	if !v.contains(p) {
		return "", "", fmt.Errorf("path resolves outside the vault: %s", rel)
	}
	return cleaned, p, nil
}

// contains resolves symlinks in p and reports whether the result is under the
// vault root. A path that does not exist is judged by its nearest existing parent.
func (v *Vault) contains(p string) bool {
	resolved, err := filepath.EvalSymlinks(p)
	for err != nil && stderrors.Is(err, fs.ErrNotExist) && p != v.root {
		p = filepath.Dir(p)
		resolved, err = filepath.EvalSymlinks(p)
	}
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(v.root, resolved)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Resolve lists the regular files directly inside folder, in name order.
// It returns an error wrapping sticker.ErrFolderNotFound when folder is not a
// directory of this vault. Hidden folders are not listed by Folders and do not
// resolve either.
func (v *Vault) Resolve(ctx context.Context, folder string) ([]sticker.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, dir, err := v.abs(folder)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sticker.ErrFolderNotFound, err)
	}
	if isHidden(rel) {
		return nil, fmt.Errorf("%w: %s is hidden", sticker.ErrFolderNotFound, folder)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", sticker.ErrFolderNotFound, folder)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read folder %s: %w", folder, err)
	}

	files := make([]sticker.File, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !entry.Type().IsRegular() {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info
			continue
		}
		ext := path.Ext(name)
		files = append(files, sticker.File{
			Path:      path.Join(rel, name),
			Basename:  strings.TrimSuffix(name, ext),
			Extension: strings.TrimPrefix(ext, "."),
			Size:      fi.Size(),
			ModTime:   fi.ModTime(),
		})
	}
	return files, nil
}

// Folders lists every folder in the vault, RootFolder first, skipping hidden ones.
func (v *Vault) Folders(ctx context.Context) ([]string, error) {
	folders := []string{RootFolder}
	err := filepath.WalkDir(v.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() || p == v.root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(v.root, p)
		if err != nil {
			return err
		}
		folders = append(folders, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return folders, nil
}

// ResourcePath returns the on-disk path of a sticker image.
func (v *Vault) ResourcePath(rel string) (string, error) {
	cleaned, p, err := v.abs(rel)
	if err != nil || cleaned == "" || isHidden(cleaned) {
		return "", errors.NewNotFound("file", rel)
	}
	info, err := os.Lstat(p)
	if err != nil || !info.Mode().IsRegular() {
		return "", errors.NewNotFound("file", rel)
	}
	if !sticker.IsAllowedExtension(path.Ext(cleaned)) {
		return "", errors.NewNotFound("file", rel)
	}
	return p, nil
}

// OpenResource opens a sticker image for reading.
func (v *Vault) OpenResource(rel string) (*os.File, error) {
	p, err := v.ResourcePath(rel)
	if err != nil {
		return nil, err
	}
	return openFileNoFollowRead(p)
}

// documentPath validates a markdown document path.
func (v *Vault) documentPath(rel string) (string, error) {
	cleaned, p, err := v.abs(rel)
	if err != nil {
		return "", errors.NewInvalidRequest(err.Error())
	}
	if path.Ext(cleaned) != ".md" {
		return "", errors.NewInvalidRequest("document must have .md extension")
	}
	info, err := os.Lstat(p)
	if stderrors.Is(err, fs.ErrNotExist) {
		return "", errors.NewNotFound("document", rel)
	}
	if err != nil {
		return "", errors.NewInternal(err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return "", errors.NewInvalidRequest("document must not be a symlink")
	}
	if !info.Mode().IsRegular() {
		return "", errors.NewNotFound("document", rel)
	}
	return p, nil
}

// ReadDocument returns the contents of a markdown document in the vault.
func (v *Vault) ReadDocument(rel string) ([]byte, error) {
	p, err := v.documentPath(rel)
	if err != nil {
		return nil, err
	}
	f, err := openFileNoFollowRead(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return data, nil
}

// WriteDocument replaces the contents of an existing markdown document.
func (v *Vault) WriteDocument(rel string, data []byte) error {
	p, err := v.documentPath(rel)
	if err != nil {
		return err
	}
	info, err := os.Stat(p)
	if err != nil {
		return errors.NewInternal(err)
	}

	f, err := openFileNoFollow(p, os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return errors.NewInternal(err)
	}
	if err := f.Close(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}
