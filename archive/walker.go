// Package archive reads documents stored inside zip archives.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrNotFound is returned when archive has no such file.
var ErrNotFound = errors.New("file not found in archive")

// WalkFunc is called for every regular file in archive. Returning ErrStop
// ends the walk without error.
type WalkFunc func(file *zip.File) error

// ErrStop is used by WalkFunc to end the walk early.
var ErrStop = errors.New("stop walking")

// Walk calls walkFn for every regular file under prefix in archive order.
// Entries with absolute names or ".." components make walk fail.
func Walk(archive, prefix string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if err := walkFn(f); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
	return nil
}

// ReadFile returns content of the file name (slash separated) from archive.
func ReadFile(archive, name string) (data []byte, err error) {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	found := false
	err = Walk(archive, name, func(f *zip.File) error {
		if f.Name != name {
			return nil
		}
		found = true
		r, err := f.Open()
		if err != nil {
			return err
		}
		defer r.Close()
		if data, err = io.ReadAll(r); err != nil {
			return err
		}
		return ErrStop
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return data, nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
