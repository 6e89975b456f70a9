package archive

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// makeZip writes archive with given entries, names ending in "/" become
// directories.
func makeZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create %s in zip: %v", name, err)
		}
		if _, err := fw.Write([]byte(entries[name])); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

var site = map[string]string{
	"site/":             "",
	"site/index.html":   "<h1>index</h1>",
	"site/about.html":   "<p>about</p>",
	"site/img/logo.png": "png",
	"readme.txt":        "readme",
}

func TestWalk(t *testing.T) {
	path := makeZip(t, site)

	for _, tt := range []struct {
		prefix string
		want   []string
	}{
		{"", []string{"readme.txt", "site/about.html", "site/img/logo.png", "site/index.html"}},
		{"site/", []string{"site/about.html", "site/img/logo.png", "site/index.html"}},
		{"site/img", []string{"site/img/logo.png"}},
		{"Site/", nil},
		{"missing/", nil},
	} {
		var visited []string
		err := Walk(path, tt.prefix, func(f *zip.File) error {
			visited = append(visited, f.Name)
			return nil
		})
		if err != nil {
			t.Errorf("Walk(%q) error = %v", tt.prefix, err)
		}
		if !slices.Equal(visited, tt.want) {
			t.Errorf("Walk(%q) visited %q, want %q", tt.prefix, visited, tt.want)
		}
	}
}

func TestWalk_Termination(t *testing.T) {
	path := makeZip(t, site)

	var visited int
	err := Walk(path, "", func(*zip.File) error {
		visited++
		return ErrStop
	})
	if err != nil || visited != 1 {
		t.Errorf("ErrStop: error = %v, visited %d", err, visited)
	}

	failure := errors.New("failure")
	visited = 0
	err = Walk(path, "", func(*zip.File) error {
		visited++
		if visited == 2 {
			return failure
		}
		return nil
	})
	if !errors.Is(err, failure) || visited != 2 {
		t.Errorf("failure: error = %v, visited %d", err, visited)
	}
}

func TestWalk_InvalidArchive(t *testing.T) {
	noop := func(*zip.File) error { return nil }

	if err := Walk(filepath.Join(t.TempDir(), "missing.zip"), "", noop); err == nil {
		t.Error("Expected error for nonexistent file")
	}

	invalid := filepath.Join(t.TempDir(), "invalid.zip")
	if err := os.WriteFile(invalid, []byte("not a zip file"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Walk(invalid, "", noop); err == nil {
		t.Error("Expected error for invalid zip file")
	}

	unsafe := makeZip(t, map[string]string{"ok.html": "", "../escape.html": ""})
	if err := Walk(unsafe, "", noop); err == nil {
		t.Error("Expected error for unsafe entry")
	}
}

func TestReadFile(t *testing.T) {
	path := makeZip(t, site)

	for _, name := range []string{"site/index.html", "/site/index.html", "site/./index.html"} {
		data, err := ReadFile(path, name)
		if err != nil || string(data) != "<h1>index</h1>" {
			t.Errorf("ReadFile(%q) = %q, %v", name, data, err)
		}
	}

	for _, name := range []string{"site/index", "site/", "site/img", "nothing.html"} {
		if _, err := ReadFile(path, name); !errors.Is(err, ErrNotFound) {
			t.Errorf("ReadFile(%q) error = %v, want ErrNotFound", name, err)
		}
	}
}

func TestIsSafePath(t *testing.T) {
	for name, want := range map[string]bool{
		"a/b.html":     true,
		"a/..b/c":      true,
		"/etc/passwd":  false,
		`\windows`:     false,
		"a/../../b":    false,
		"..":           false,
		"a/b/../c.txt": false,
	} {
		if got := isSafePath(name); got != want {
			t.Errorf("isSafePath(%q) = %v, want %v", name, got, want)
		}
	}
}
