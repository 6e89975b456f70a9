// Package render draws paginated draw list into output files.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"htmlpdf/config"
	"htmlpdf/fonts"
	"htmlpdf/layout"
)

// ErrWrite marks failures to create or write output files.
var ErrWrite = errors.New("unable to write output")

// fixedDate is used for document dates unless caller provides one, so the
// same input always produces the same bytes.
var fixedDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// ruleWidth is stroke width of horizontal rules in points.
const ruleWidth = 0.5

// Meta is document level information.
type Meta struct {
	Title   string
	Creator string
	Created time.Time
}

func (m Meta) date() time.Time {
	if m.Created.IsZero() {
		return fixedDate
	}
	return m.Created
}

// Backend renders draw list and measures text the same way it renders it.
type Backend interface {
	Measurer() layout.Measurer
	// Render writes output to path. Backends producing one file per page
	// derive additional names with PagePath.
	Render(ctx context.Context, instrs []layout.Instruction, geom layout.Geometry, meta Meta, path string) error
}

// New creates backend of requested kind. Text is set in substitution font
// from registry or in built-in fonts when there is none.
func New(kind config.Backend, reg *fonts.Registry, log *zap.Logger) (Backend, error) {
	switch kind {
	case config.BackendPdf:
		return NewPDF(reg, log)
	case config.BackendPng:
		return NewPNG(reg, log)
	default:
		return nil, fmt.Errorf("unsupported backend %q", kind)
	}
}

// PagePath returns name of the file for zero based page: first page keeps
// path as is, following ones get "-N" before extension.
func PagePath(path string, page int) string {
	if page == 0 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), page+1, ext)
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))

	if err := write(f); err != nil {
		return fmt.Errorf("%w (%s): %w", ErrWrite, path, err)
	}
	return nil
}
