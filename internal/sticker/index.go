package sticker

import "strings"

// Index is the ordered candidate list for one picker session.
// It is never modified after NewIndex returns.
type Index struct {
	entries []Entry
}

// NewIndex keeps the files whose extension is an allowed image type,
// preserving their order.
func NewIndex(files []File) *Index {
	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		if !IsAllowedExtension(f.Extension) {
			continue
		}
		entries = append(entries, Entry{
			Path:      f.Path,
			Basename:  f.Basename,
			Extension: strings.ToLower(f.Extension),
			Size:      f.Size,
			ModTime:   f.ModTime,
		})
	}
	return &Index{entries: entries}
}

// Len returns the number of stickers in the index.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Entries returns a copy of all entries in index order.
func (idx *Index) Entries() []Entry {
	out := make([]Entry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

// Lookup finds the entry with the given path.
func (idx *Index) Lookup(path string) (Entry, bool) {
	for _, e := range idx.entries {
		if e.Path == path {
			return e, true
		}
	}
	return Entry{}, false
}

// Search returns the entries whose basename contains query, ignoring case.
// An empty query matches everything. Matches keep their index order.
func (idx *Index) Search(query string) []Entry {
	q := strings.ToLower(query)
	out := make([]Entry, 0, len(idx.entries))
	for _, e := range idx.entries {
		if strings.Contains(strings.ToLower(e.Basename), q) {
			out = append(out, e)
		}
	}
	return out
}
