package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"htmlpdf/config"
	"htmlpdf/state"
)

// buildOutputPath returns dst when it names a file. When dst is an existing
// directory file name is expanded from configured template or derived from
// document title or, when title gives nothing usable, from source file name.
// Expanded template may add subdirectories.
func buildOutputPath(title, src, dst string, env *state.LocalEnv) string {
	if fi, err := os.Stat(dst); err != nil || !fi.IsDir() {
		return dst
	}
	doc := &env.Cfg.Document
	ext := doc.Backend.Ext()

	if len(doc.OutputNameTemplate) > 0 {
		expanded, err := expandTemplate(config.OutputNameTemplateFieldName, doc.OutputNameTemplate, newValues(title, src, doc))
		if err == nil && len(strings.TrimSpace(expanded)) > 0 {
			return assemblePathWithSubdirs(dst, filepath.FromSlash(expanded), ext, doc.FileNameTransliterate)
		}
		// fallback to default name if template expansion failed
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
	}
	return filepath.Join(dst, buildDefaultFileName(title, src, doc.FileNameTransliterate)+ext)
}

func buildDefaultFileName(title, src string, transliterate bool) string {
	for _, name := range []string{title, strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))} {
		if name = cleanPathSegment(name, transliterate); len(name) > 0 {
			return name
		}
	}
	return config.CleanFileName("")
}

// assemblePathWithSubdirs takes an expanded template name (which may contain
// path separators for subdirectories) and assembles it into a full output path,
// cleaning and transliterating segments as needed
func assemblePathWithSubdirs(outDir, expandedName, ext string, transliterate bool) string {
	pathSegments := splitAndCleanPath(expandedName)
	if len(pathSegments) == 0 {
		return filepath.Join(outDir, config.CleanFileName("")+ext)
	}

	dirParts := make([]string, 0, len(pathSegments)+1)
	dirParts = append(dirParts, outDir)
	for i, segment := range pathSegments {
		segment = cleanPathSegment(segment, transliterate)
		if len(segment) == 0 {
			segment = config.CleanFileName("")
		}
		if i == len(pathSegments)-1 {
			segment += ext
		}
		dirParts = append(dirParts, segment)
	}
	return filepath.Join(dirParts...)
}

func splitAndCleanPath(path string) []string {
	path = strings.TrimSuffix(path, string(os.PathSeparator))
	segments := make([]string, 0, 8)

	for head, tail := filepath.Split(path); tail != ""; head, tail = filepath.Split(head) {
		segments = slices.Insert(segments, 0, tail)
		head = strings.TrimSuffix(head, string(os.PathSeparator))
		if head == "" {
			break
		}
	}
	return segments
}

// cleanPathSegment returns empty string when nothing usable is left.
func cleanPathSegment(segment string, transliterate bool) string {
	if transliterate {
		segment = slug.Make(segment)
	}
	if len(strings.Trim(segment, ". ")) == 0 {
		return ""
	}
	return config.CleanFileName(segment)
}

// prepareOutputPath makes sure output could be written: refuses to replace
// existing file unless overwrite was requested and creates missing
// directories.
func prepareOutputPath(path string, env *state.LocalEnv, log *zap.Logger) error {
	fi, err := os.Stat(path)
	switch {
	case err == nil && fi.IsDir():
		return fmt.Errorf("%w: output is a directory: %s", ErrOutputWriteFailed, path)
	case err == nil:
		if !env.Overwrite {
			return fmt.Errorf("%w: output file already exists: %s", ErrOutputWriteFailed, path)
		}
		log.Warn("Overwriting existing file", zap.String("file", path))
		return nil
	case !os.IsNotExist(err):
		return fmt.Errorf("%w: %w", ErrOutputWriteFailed, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: unable to create output directory: %w", ErrOutputWriteFailed, err)
	}
	return nil
}
