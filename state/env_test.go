package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/image/font/gofont/goregular"

	"htmlpdf/config"
	"htmlpdf/fonts"
)

func TestEnvFromContext(t *testing.T) {
	t.Run("valid context", func(t *testing.T) {
		env := EnvFromContext(ContextWithEnv(context.Background()))
		if env == nil {
			t.Fatal("expected non-nil environment")
		}
		if env.start.IsZero() {
			t.Error("environment start time not set")
		}
	})

	t.Run("panic on missing env", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic when env not in context")
			}
		}()
		EnvFromContext(context.Background())
	})
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	time.Sleep(10 * time.Millisecond)
	if uptime := env.Uptime(); uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
}

func TestLocalEnv_RedirectAndRestore(t *testing.T) {
	env := &LocalEnv{
		Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
	}
	for i := range 3 {
		env.RedirectStdLog()
		if env.restoreStdLog == nil {
			t.Errorf("iteration %d: restoreStdLog not set", i)
		}
		env.RestoreStdLog()
	}

	// no logger, nothing to do
	env = &LocalEnv{}
	env.RedirectStdLog()
	if env.restoreStdLog != nil {
		t.Error("expected restoreStdLog to remain nil")
	}
	env.RestoreStdLog()
}

func newTestEnv(t *testing.T) *LocalEnv {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	env := EnvFromContext(ContextWithEnv(context.Background()))
	env.Cfg = cfg
	env.Log = zaptest.NewLogger(t)
	return env
}

func TestLocalEnv_LoadResources(t *testing.T) {
	dir := t.TempDir()
	fontPath := filepath.Join(dir, "go.ttf")
	if err := os.WriteFile(fontPath, goregular.TTF, 0644); err != nil {
		t.Fatal(err)
	}
	cssPath := filepath.Join(dir, "user.css")
	if err := os.WriteFile(cssPath, []byte("p { color: red }"), 0644); err != nil {
		t.Fatal(err)
	}

	env := newTestEnv(t)
	env.Cfg.Document.Fonts.Candidates = []string{filepath.Join(dir, "absent.ttf"), fontPath}
	env.Cfg.Document.Fonts.RequireCJK = false
	env.Cfg.Document.StylesheetPath = cssPath

	if err := env.LoadResources(); err != nil {
		t.Fatalf("LoadResources() error = %v", err)
	}
	if env.Fonts.Family() != env.Cfg.Document.Fonts.Family {
		t.Errorf("Family() = %q, want %q", env.Fonts.Family(), env.Cfg.Document.Fonts.Family)
	}
	if string(env.UserStyle) != "p { color: red }" {
		t.Errorf("UserStyle = %q", env.UserStyle)
	}
	if err := env.Fonts.Register("late", "", goregular.TTF, false); err == nil {
		t.Error("registry must be frozen after LoadResources")
	}
}

func TestLocalEnv_LoadResourcesFallback(t *testing.T) {
	env := newTestEnv(t)
	env.Cfg.Document.Fonts.Candidates = nil

	if err := env.LoadResources(); err != nil {
		t.Fatalf("LoadResources() error = %v", err)
	}
	if env.Fonts.FaceFamily() != fonts.BuiltinFamily {
		t.Errorf("FaceFamily() = %q, want %q", env.Fonts.FaceFamily(), fonts.BuiltinFamily)
	}
}

func TestLocalEnv_LoadResourcesMissingStylesheet(t *testing.T) {
	env := newTestEnv(t)
	env.Cfg.Document.Fonts.Candidates = nil
	env.Cfg.Document.StylesheetPath = filepath.Join(t.TempDir(), "absent.css")

	if err := env.LoadResources(); err == nil {
		t.Error("expected error for missing stylesheet")
	}
}
