package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrEntryNotFound = errors.New("entry not found")

// ArchiveError means the container itself could not be decoded.
type ArchiveError struct {
	Err error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("unreadable archive: %v", e.Err)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

// StructureError means a required directory or file is absent from an
// otherwise readable archive.
type StructureError struct {
	Path string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("archive is missing required entry: %s", e.Path)
}

// Reader wraps a zip archive with a normalized-path index so that entry
// lookups are case-insensitive and separator-agnostic. The index is built
// once when the archive is opened.
type Reader struct {
	files []*zip.File
	index map[string]*zip.File
}

func Open(data []byte) (*Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ArchiveError{Err: err}
	}

	r := &Reader{
		files: zr.File,
		index: make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		r.index[Normalize(f.Name)] = f
	}
	return r, nil
}

// Normalize maps a path to its index form: backslashes become slashes,
// case is folded, and any leading slash is dropped.
func Normalize(path string) string {
	path = strings.ReplaceAll(path, `\`, "/")
	path = strings.TrimPrefix(path, "/")
	return strings.ToLower(path)
}

func (r *Reader) FindEntry(path string) (*zip.File, bool) {
	f, ok := r.index[Normalize(path)]
	return f, ok
}

// FindDirSuffix returns the original-cased prefix of the first entry whose
// path contains a directory segment ending in suffix, e.g. "data/". The
// returned prefix includes the suffix itself.
func (r *Reader) FindDirSuffix(suffix string) (string, bool) {
	suffix = Normalize(suffix)
	for _, f := range r.files {
		name := Normalize(f.Name)
		idx := strings.Index(name, suffix)
		for idx >= 0 {
			if idx == 0 || name[idx-1] == '/' {
				original := strings.ReplaceAll(f.Name, `\`, "/")
				original = strings.TrimPrefix(original, "/")
				return original[:idx+len(suffix)], true
			}
			next := strings.Index(name[idx+1:], suffix)
			if next < 0 {
				break
			}
			idx += 1 + next
		}
	}
	return "", false
}

func (r *Reader) ReadEntry(path string) ([]byte, error) {
	f, ok := r.FindEntry(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, path)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening entry %s: %w", path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading entry %s: %w", path, err)
	}
	return data, nil
}

// ReadInner extracts a named file from a nested archive stored as an entry
// of this archive.
func (r *Reader) ReadInner(innerPath, name string) ([]byte, error) {
	data, err := r.ReadEntry(innerPath)
	if err != nil {
		return nil, err
	}
	inner, err := Open(data)
	if err != nil {
		return nil, fmt.Errorf("decoding nested archive %s: %w", innerPath, err)
	}
	return inner.ReadEntry(name)
}

// Entries returns the original entry names in archive order.
func (r *Reader) Entries() []string {
	names := make([]string, 0, len(r.files))
	for _, f := range r.files {
		names = append(names, f.Name)
	}
	return names
}
