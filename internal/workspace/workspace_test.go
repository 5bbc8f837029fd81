package workspace

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestManager_CreateAndCleanup(t *testing.T) {
	tempBase := t.TempDir()
	mgr := NewManager(tempBase, quietLogger())

	if err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	wsPath := mgr.Path()
	if wsPath == "" {
		t.Fatal("Path() returned empty string")
	}
	if filepath.Dir(wsPath) != tempBase {
		t.Errorf("workspace %s not below base %s", wsPath, tempBase)
	}
	if !strings.HasPrefix(filepath.Base(wsPath), "gitbatch-") {
		t.Errorf("Expected gitbatch- prefixed directory, got: %s", wsPath)
	}
	entries, err := os.ReadDir(wsPath)
	if err != nil {
		t.Fatalf("workspace directory not readable: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("fresh workspace should be empty, got %d entries", len(entries))
	}

	if err := mgr.Cleanup(); err != nil {
		t.Fatalf("Cleanup() failed: %v", err)
	}
	if _, err := os.Stat(wsPath); !os.IsNotExist(err) {
		t.Errorf("Workspace directory still exists after cleanup: %s", wsPath)
	}
	if err := mgr.Cleanup(); err != nil {
		t.Errorf("second Cleanup() should be a no-op, got %v", err)
	}
}

func TestManager_UniqueNamesWithinSameSecond(t *testing.T) {
	tempBase := t.TempDir()
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		mgr := NewManager(tempBase, quietLogger())
		if err := mgr.Create(); err != nil {
			t.Fatalf("Create() #%d failed: %v", i, err)
		}
		if seen[mgr.Path()] {
			t.Fatalf("duplicate workspace path %s", mgr.Path())
		}
		seen[mgr.Path()] = true
	}
}

func TestManager_CreateTwice(t *testing.T) {
	mgr := NewManager(t.TempDir(), quietLogger())
	if err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if err := mgr.Create(); err == nil {
		t.Fatal("expected second Create() on the same manager to fail")
	}
}

func TestScoped_RemovesOnSuccess(t *testing.T) {
	var seen string
	err := Scoped(t.TempDir(), quietLogger(), func(dir string) error {
		seen = dir
		return os.WriteFile(filepath.Join(dir, "file.txt"), []byte("x"), 0o600)
	})
	if err != nil {
		t.Fatalf("Scoped() failed: %v", err)
	}
	if _, err := os.Stat(seen); !os.IsNotExist(err) {
		t.Errorf("workspace %s survived a successful scope", seen)
	}
}

func TestScoped_RemovesOnError(t *testing.T) {
	boom := errors.New("boom")
	var seen string
	err := Scoped(t.TempDir(), quietLogger(), func(dir string) error {
		seen = dir
		if mkErr := os.MkdirAll(filepath.Join(dir, "nested", "deeper"), 0o750); mkErr != nil {
			return mkErr
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if _, err := os.Stat(seen); !os.IsNotExist(err) {
		t.Errorf("workspace %s survived a failed scope", seen)
	}
}

func TestScoped_RemovesOnPanic(t *testing.T) {
	var seen string
	func() {
		defer func() { _ = recover() }()
		_ = Scoped(t.TempDir(), quietLogger(), func(dir string) error {
			seen = dir
			panic("boom")
		})
	}()
	if seen == "" {
		t.Fatal("scope function never ran")
	}
	if _, err := os.Stat(seen); !os.IsNotExist(err) {
		t.Errorf("workspace %s survived a panic", seen)
	}
}
