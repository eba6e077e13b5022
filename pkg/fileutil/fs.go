package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

// FileSystem reads title files with case-insensitive names. Titles authored
// on Windows reference their files in arbitrary case.
type FileSystem interface {
	Open(name string) (fs.File, error)
	ReadFile(name string) ([]byte, error)
	// Resolve returns the actual slash-separated path of name.
	Resolve(name string) (string, error)
	IsEmbedded() bool
}

// FS is a FileSystem over an fs.FS rooted at a base directory.
type FS struct {
	fsys     fs.FS
	base     string
	embedded bool
}

// NewRealFS opens the directory dir of the host file system.
func NewRealFS(dir string) *FS {
	return &FS{fsys: os.DirFS(dir), base: "."}
}

// NewEmbedFS wraps an embedded file system; base selects a subdirectory.
func NewEmbedFS(fsys fs.FS, base string) *FS {
	if base == "" {
		base = "."
	}
	return &FS{fsys: fsys, base: base, embedded: true}
}

func (f *FS) IsEmbedded() bool {
	return f.embedded
}

func (f *FS) Open(name string) (fs.File, error) {
	p, err := f.Resolve(name)
	if err != nil {
		return nil, err
	}
	return f.fsys.Open(p)
}

func (f *FS) ReadFile(name string) ([]byte, error) {
	p, err := f.Resolve(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(f.fsys, p)
}

// Resolve walks name one element at a time, matching each element without
// regard to case when there is no exact match.
func (f *FS) Resolve(name string) (string, error) {
	clean := strings.ReplaceAll(name, "\\", "/")
	clean = path.Clean(strings.TrimPrefix(clean, "/"))
	if clean == "." {
		return f.base, nil
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %s", fs.ErrInvalid, name)
	}
	if p := path.Join(f.base, clean); fs.ValidPath(p) {
		if _, err := fs.Stat(f.fsys, p); err == nil {
			return p, nil
		}
	}

	dir := f.base
	for _, elem := range strings.Split(clean, "/") {
		found, err := FindFileCaseInsensitiveFS(f.fsys, dir, elem)
		if err != nil {
			return "", err
		}
		dir = found
	}
	return dir, nil
}

// FindFileCaseInsensitiveFS returns the path of the entry of dir whose name
// equals filename without regard to case.
func FindFileCaseInsensitiveFS(fsys fs.FS, dir, filename string) (string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if strings.EqualFold(entry.Name(), filename) {
			return path.Join(dir, entry.Name()), nil
		}
	}
	return "", fmt.Errorf("%w: %s (searched in %s)", ErrNotFound, filename, dir)
}

// ErrNotFound is returned when no entry matches.
var ErrNotFound = errors.New("file not found")
