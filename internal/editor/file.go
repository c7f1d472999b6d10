package editor

import "context"

// Storage reads and writes whole documents by path.
type Storage interface {
	ReadDocument(path string) ([]byte, error)
	WriteDocument(path string, data []byte) error
}

// File is a Sink backed by a stored markdown document.
type File struct {
	storage Storage
	path    string
}

// NewFile returns a sink that edits the document at path.
func NewFile(storage Storage, path string) *File {
	return &File{storage: storage, path: path}
}

// Path returns the document path.
func (f *File) Path() string {
	return f.path
}

// Insert reads the document, inserts text at the cursor and writes it back.
func (f *File) Insert(ctx context.Context, text string, at Cursor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := f.storage.ReadDocument(f.path)
	if err != nil {
		return err
	}
	doc := NewDocument(string(data))
	doc.ReplaceRange(text, at)
	return f.storage.WriteDocument(f.path, []byte(doc.String()))
}
