package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.uber.org/multierr"

	"htmlpdf/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates empty report archive at configured destination or, when
// that is impossible, in temporary directory.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{file: f, items: make(map[string]item)}, nil
}

type item struct {
	path  string // file to be read at finalization, absolute
	data  []byte // or inline content
	stamp time.Time
}

// Report collects files and data to be put into debug archive on Close.
// All methods are nil-safe so callers do not have to check if report was
// requested. Not safe for concurrent use.
type Report struct {
	file  *os.File
	items map[string]item
}

// Name returns absolute name of the archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store remembers path of the file to be archived under name. File is read
// when report is finalized so it could be still written to.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if old, exists := r.items[name]; exists && old.path != path {
		panic(fmt.Sprintf("attempt to overwrite report entry [%s]: was %s, now %s", name, old.path, path))
	}
	r.items[name] = item{path: path}
}

// StoreData puts data into the archive under name. Repeated names are
// versioned.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	now := time.Now()
	if _, exists := r.items[name]; exists {
		name = fmt.Sprintf("%s-%d", name, now.UnixNano())
	}
	r.items[name] = item{data: bytes.Clone(data), stamp: now}
}

// StoreCopy takes snapshot of the file content at the time of a call.
func (r *Report) StoreCopy(name, path string) error {
	if r == nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to copy %s into report: %w", path, err)
	}
	r.StoreData(name, data)
	return nil
}

// Close writes the archive.
func (r *Report) Close() (err error) {
	if r == nil || r.file == nil {
		return nil
	}
	defer func() {
		err = multierr.Append(err, r.file.Close())
		r.file = nil
	}()

	arc := zip.NewWriter(r.file)
	defer func() {
		err = multierr.Append(err, arc.Close())
	}()

	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	slices.Sort(names)

	now := time.Now()
	manifest := new(bytes.Buffer)
	for _, name := range names {
		it := r.items[name]
		if it.stamp.IsZero() {
			it.stamp = now
		}
		src := it.path
		if len(src) == 0 {
			src = "<data>"
		}
		fmt.Fprintf(manifest, "%s\t%s\t%s\n", it.stamp.UTC().Format(time.UnixDate), name, src)
	}
	if err := addToArchive(arc, "MANIFEST", now, manifest); err != nil {
		return err
	}

	for _, name := range names {
		it := r.items[name]
		if it.data != nil {
			if err := addToArchive(arc, name, it.stamp, bytes.NewReader(it.data)); err != nil {
				return err
			}
			continue
		}
		if err := addFileToArchive(arc, name, it.path); err != nil {
			return err
		}
	}
	return nil
}

func addFileToArchive(arc *zip.Writer, name, path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		// absent files are ignored
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return addToArchive(arc, name, info.ModTime(), f)
}

func addToArchive(arc *zip.Writer, name string, t time.Time, src io.Reader) error {
	w, err := arc.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: t})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
