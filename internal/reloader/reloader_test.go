package reloader

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/woozymasta/tour-content/internal/content"
)

func TestReloader_TriggersOnlyOnContentFileChanges(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := filepath.Join(root, "src", "content", "locations")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	entryPath := filepath.Join(dir, "lake.md")
	if err := os.WriteFile(entryPath, []byte("---\nname: a\n---\n"), 0o600); err != nil {
		t.Fatalf("write entry: %v", err)
	}

	fsys := afero.NewOsFs()
	loader := content.NewLoader(fsys, root)

	var reloadCalls atomic.Int32
	r, err := New(fsys, loader.Sources, 20*time.Millisecond, func(context.Context) error {
		reloadCalls.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := r.Start(ctx); err != nil {
			t.Errorf("Start() error = %v", err)
		}
	}()

	time.Sleep(60 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "note.txt"), []byte("ignore\n"), 0o600); err != nil {
		t.Fatalf("write non-content file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "_draft.md"), []byte("ignore\n"), 0o600); err != nil {
		t.Fatalf("write underscore file: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	if got := reloadCalls.Load(); got != 0 {
		t.Fatalf("reload calls after ignored changes = %d, want 0", got)
	}

	if err := os.WriteFile(entryPath, []byte("---\nname: b\n---\n"), 0o600); err != nil {
		t.Fatalf("update entry: %v", err)
	}

	deadline := time.Now().Add(1 * time.Second)
	for reloadCalls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}

	if got := reloadCalls.Load(); got != 1 {
		t.Fatalf("reload calls after content change = %d, want 1", got)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reloader did not stop after cancel")
	}
}

func TestNewValidatesArguments(t *testing.T) {
	t.Parallel()

	list := func() ([]string, error) { return nil, nil }
	noop := func(context.Context) error { return nil }
	fsys := afero.NewMemMapFs()

	if _, err := New(nil, list, time.Second, noop); err == nil {
		t.Fatal("New(nil fs) error = nil")
	}
	if _, err := New(fsys, nil, time.Second, noop); err == nil {
		t.Fatal("New(nil lister) error = nil")
	}
	if _, err := New(fsys, list, 0, noop); err == nil {
		t.Fatal("New(0 interval) error = nil")
	}
	if _, err := New(fsys, list, time.Second, nil); err == nil {
		t.Fatal("New(nil callback) error = nil")
	}
}
