// Package fonts discovers the substitution font used for all text and keeps
// the process wide registry of loaded font programs.
package fonts

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"seehuhn.de/go/sfnt"
)

// ErrFrozen is returned when registration is attempted after Freeze.
var ErrFrozen = errors.New("font registry is frozen")

// ErrNoCJK is returned for fonts without Hangul and CJK ideograph glyphs when
// such coverage is required.
var ErrNoCJK = errors.New("font does not cover CJK text")

// Probe runes: Hangul syllable, CJK ideograph and Latin letter.
var cjkProbe = []rune{'한', '글', '中', 'A'}

// Font is a validated TrueType program. Styles holds optional bold and italic
// programs of the same family keyed by "B", "I" and "BI".
type Font struct {
	Name   string
	Family string // as stored in the font name table
	Path   string
	Data   []byte
	Styles map[string][]byte
}

// Styles of a font program, in fpdf notation.
const (
	StyleRegular    = ""
	StyleBold       = "B"
	StyleItalic     = "I"
	StyleBoldItalic = "BI"
)

// Variant returns program for style along with the style actually used.
// Missing bold italic falls back to bold, then italic, anything else missing
// falls back to regular.
func (f *Font) Variant(style string) ([]byte, string) {
	try := []string{style}
	if style == StyleBoldItalic {
		try = append(try, StyleBold, StyleItalic)
	}
	for _, s := range try {
		if data, ok := f.Styles[s]; ok {
			return data, s
		}
	}
	return f.Data, StyleRegular
}

// File name variations of style programs located next to the regular one:
// "Name-Regular" becomes "Name-Bold", "NanumGothic" becomes
// "NanumGothicBold", "malgun" becomes "malgunbd".
var styleNames = []struct {
	style    string
	replace  string
	suffixes []string
}{
	{StyleBold, "Bold", []string{"-Bold", "Bold", "bd"}},
	{StyleItalic, "Italic", []string{"-Italic", "Italic", "i"}},
	{StyleBoldItalic, "BoldItalic", []string{"-BoldItalic", "BoldItalic", "bi", "z"}},
}

func styleCandidates(path, replace string, suffixes []string) []string {
	dir, base := filepath.Split(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	var out []string
	if strings.Contains(stem, "Regular") {
		out = append(out, filepath.Join(dir, strings.Replace(stem, "Regular", replace, 1)+ext))
		stem = strings.TrimSuffix(strings.Replace(stem, "Regular", "", 1), "-")
	}
	for _, suffix := range suffixes {
		out = append(out, filepath.Join(dir, stem+suffix+ext))
	}
	return out
}

// Registry maps font names to loaded programs. Registration is idempotent by
// name. Once frozen the registry is read only and safe for concurrent use.
type Registry struct {
	log *zap.Logger

	mu     sync.RWMutex
	fonts  map[string]*Font
	family string
	frozen bool
}

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		log:   log.Named("fonts"),
		fonts: make(map[string]*Font),
	}
}

// Register validates data and stores it under name. Registering already known
// name is a no-op.
func (r *Registry) Register(name, path string, data []byte, requireCJK bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrFrozen
	}
	if _, ok := r.fonts[name]; ok {
		return nil
	}

	family, err := validate(data, requireCJK)
	if err != nil {
		return err
	}
	r.fonts[name] = &Font{Name: name, Family: family, Path: path, Data: data}
	return nil
}

func validate(data []byte, requireCJK bool) (string, error) {
	f, err := sfnt.Read(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("unable to parse font: %w", err)
	}
	if !f.IsGlyf() {
		return "", errors.New("font has no TrueType outlines")
	}
	if !requireCJK {
		return f.FamilyName, nil
	}
	cmap, err := f.CMapTable.GetBest()
	if err != nil {
		return "", fmt.Errorf("unable to get character map: %w", err)
	}
	for _, c := range cjkProbe {
		if cmap.Lookup(c) == 0 {
			return "", fmt.Errorf("%w: no glyph for %q", ErrNoCJK, c)
		}
	}
	return f.FamilyName, nil
}

// Discover tries candidate files in order and registers the first one which
// loads successfully under name, making it the substitution family. Returns
// false when every candidate failed, in which case built-in fonts are used.
func (r *Registry) Discover(name string, candidates []string, requireCJK bool) bool {
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				r.log.Debug("Font candidate not found", zap.String("path", path))
			} else {
				r.log.Warn("Unable to read font candidate", zap.String("path", path), zap.Error(err))
			}
			continue
		}
		if err := r.Register(name, path, data, requireCJK); err != nil {
			r.log.Warn("Unable to register font candidate", zap.String("path", path), zap.Error(err))
			continue
		}

		styles := r.discoverStyles(path, requireCJK)

		r.mu.Lock()
		r.family = name
		if f := r.fonts[name]; f.Styles == nil {
			f.Styles = styles
		}
		r.mu.Unlock()

		r.log.Debug("Font registered", zap.String("name", name), zap.String("path", path))
		return true
	}
	r.log.Warn("No suitable font found, using built-in fonts, non latin text will not render",
		zap.Strings("candidates", candidates))
	return false
}

// discoverStyles looks for bold and italic programs next to the regular one
// at path. Files which cannot be loaded are skipped.
func (r *Registry) discoverStyles(path string, requireCJK bool) map[string][]byte {
	styles := make(map[string][]byte)
	for _, sn := range styleNames {
		for _, candidate := range styleCandidates(path, sn.replace, sn.suffixes) {
			if candidate == path {
				continue
			}
			data, err := os.ReadFile(candidate)
			if err != nil {
				continue
			}
			if _, err := validate(data, requireCJK); err != nil {
				r.log.Warn("Unable to use font style", zap.String("path", candidate), zap.Error(err))
				continue
			}
			r.log.Debug("Font style found", zap.String("style", sn.style), zap.String("path", candidate))
			styles[sn.style] = data
			break
		}
	}
	return styles
}

// Freeze makes registry read only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Family returns name of the substitution font or empty string in fallback
// mode.
func (r *Registry) Family() string {
	if r == nil {
		return ""
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.family
}

// Substitution returns font selected by Discover.
func (r *Registry) Substitution() (*Font, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.family) == 0 {
		return nil, false
	}
	f, ok := r.fonts[r.family]
	return f, ok
}

// Lookup returns registered font by name.
func (r *Registry) Lookup(name string) (*Font, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.fonts[name]
	return f, ok
}

// BuiltinFamily is used for every face when no font could be registered.
const BuiltinFamily = "Helvetica"

// FaceFamily returns family every text fragment is set in.
func (r *Registry) FaceFamily() string {
	if f := r.Family(); len(f) > 0 {
		return f
	}
	return BuiltinFamily
}
