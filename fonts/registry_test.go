package fonts

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

func writeFont(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("unable to write font: %v", err)
	}
	return path
}

func TestRegister(t *testing.T) {
	r := NewRegistry(zaptest.NewLogger(t))

	if err := r.Register("Go", "", goregular.TTF, false); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	f, ok := r.Lookup("Go")
	if !ok {
		t.Fatal("registered font not found")
	}
	if f.Family != "Go" {
		t.Errorf("Family = %q, want Go", f.Family)
	}

	// idempotent by name, even with different data
	if err := r.Register("Go", "", []byte("garbage"), false); err != nil {
		t.Errorf("second Register() error = %v", err)
	}
}

func TestRegister_Rejects(t *testing.T) {
	r := NewRegistry(nil)

	if err := r.Register("bad", "", []byte("not a font"), false); err == nil {
		t.Error("expected error for garbage data")
	}
	if err := r.Register("Go", "", goregular.TTF, true); !errors.Is(err, ErrNoCJK) {
		t.Errorf("Register() error = %v, want ErrNoCJK", err)
	}
	if _, ok := r.Lookup("Go"); ok {
		t.Error("rejected font must not be registered")
	}
}

func TestRegister_Frozen(t *testing.T) {
	r := NewRegistry(nil)
	r.Freeze()
	if err := r.Register("Go", "", goregular.TTF, false); !errors.Is(err, ErrFrozen) {
		t.Errorf("Register() after Freeze error = %v, want ErrFrozen", err)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	bad := writeFont(t, "bad.ttf", []byte("broken"))
	good := writeFont(t, "go.ttf", goregular.TTF)

	r := NewRegistry(zaptest.NewLogger(t))
	if !r.Discover("Body", []string{filepath.Join(dir, "absent.ttf"), bad, good}, false) {
		t.Fatal("Discover() = false, want true")
	}
	if r.Family() != "Body" || r.FaceFamily() != "Body" {
		t.Errorf("Family() = %q, FaceFamily() = %q", r.Family(), r.FaceFamily())
	}
	f, ok := r.Substitution()
	if !ok || f.Path != good {
		t.Errorf("Substitution() = %+v, %v", f, ok)
	}
}

func TestDiscover_Styles(t *testing.T) {
	write := func(dir, name string, data []byte) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("regular in name", func(t *testing.T) {
		dir := t.TempDir()
		regular := write(dir, "Go-Regular.ttf", goregular.TTF)
		write(dir, "Go-Bold.ttf", gobold.TTF)
		write(dir, "Go-Italic.ttf", []byte("broken"))

		r := NewRegistry(zaptest.NewLogger(t))
		if !r.Discover("Body", []string{regular}, false) {
			t.Fatal("Discover() = false")
		}
		f, _ := r.Substitution()
		for _, tt := range []struct {
			style string
			data  []byte
			used  string
		}{
			{StyleRegular, goregular.TTF, StyleRegular},
			{StyleBold, gobold.TTF, StyleBold},
			{StyleItalic, goregular.TTF, StyleRegular},
			{StyleBoldItalic, gobold.TTF, StyleBold},
		} {
			data, used := f.Variant(tt.style)
			if used != tt.used || !bytes.Equal(data, tt.data) {
				t.Errorf("Variant(%q) used %q", tt.style, used)
			}
		}
	})

	t.Run("suffixes", func(t *testing.T) {
		dir := t.TempDir()
		regular := write(dir, "Sans.ttf", goregular.TTF)
		write(dir, "SansBold.ttf", gobold.TTF)
		write(dir, "Sansi.ttf", goitalic.TTF)

		r := NewRegistry(nil)
		if !r.Discover("Body", []string{regular}, false) {
			t.Fatal("Discover() = false")
		}
		f, _ := r.Substitution()
		if len(f.Styles) != 2 {
			t.Errorf("found %d styles, want 2", len(f.Styles))
		}
		if _, used := f.Variant(StyleBoldItalic); used != StyleBold {
			t.Errorf("bold italic falls back to %q, want bold", used)
		}
		if data, _ := f.Variant(StyleItalic); !bytes.Equal(data, goitalic.TTF) {
			t.Error("italic program not used")
		}
	})

	t.Run("registered directly", func(t *testing.T) {
		r := NewRegistry(nil)
		if err := r.Register("Go", "", goregular.TTF, false); err != nil {
			t.Fatal(err)
		}
		f, _ := r.Lookup("Go")
		if data, used := f.Variant(StyleBold); used != StyleRegular || !bytes.Equal(data, goregular.TTF) {
			t.Errorf("Variant() used %q", used)
		}
	})
}

func TestStyleCandidates(t *testing.T) {
	dir := filepath.Join("fonts", "nanum")
	got := styleCandidates(filepath.Join(dir, "Noto-Regular.otf"), "Bold", []string{"-Bold", "bd"})
	want := []string{
		filepath.Join(dir, "Noto-Bold.otf"),
		filepath.Join(dir, "Noto-Bold.otf"),
		filepath.Join(dir, "Notobd.otf"),
	}
	if !slices.Equal(got, want) {
		t.Errorf("styleCandidates() = %q, want %q", got, want)
	}

	got = styleCandidates(filepath.Join(dir, "malgun.ttf"), "Bold", []string{"-Bold", "bd"})
	want = []string{filepath.Join(dir, "malgun-Bold.ttf"), filepath.Join(dir, "malgunbd.ttf")}
	if !slices.Equal(got, want) {
		t.Errorf("styleCandidates() = %q, want %q", got, want)
	}
}

func TestDiscover_Exhausted(t *testing.T) {
	good := writeFont(t, "go.ttf", goregular.TTF)

	r := NewRegistry(nil)
	// Go fonts have no Hangul
	if r.Discover("Body", []string{good}, true) {
		t.Fatal("Discover() = true, want false")
	}
	if r.Family() != "" {
		t.Errorf("Family() = %q, want empty", r.Family())
	}
	if r.FaceFamily() != BuiltinFamily {
		t.Errorf("FaceFamily() = %q, want %q", r.FaceFamily(), BuiltinFamily)
	}
	if _, ok := r.Substitution(); ok {
		t.Error("Substitution() must fail in fallback mode")
	}
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	r := NewRegistry(nil)
	if err := r.Register("Go", "", goregular.TTF, false); err != nil {
		t.Fatal(err)
	}
	r.Freeze()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := r.Lookup("Go"); !ok {
				t.Error("Lookup() failed")
			}
			_ = r.FaceFamily()
		}()
	}
	wg.Wait()
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	if r.FaceFamily() != BuiltinFamily {
		t.Errorf("FaceFamily() on nil = %q", r.FaceFamily())
	}
}
