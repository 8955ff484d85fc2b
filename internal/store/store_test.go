package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	bb, err := OpenBbolt(filepath.Join(dir, "db", "store.db"))
	if err != nil {
		t.Fatalf("OpenBbolt: %v", err)
	}
	fs, err := OpenFile(filepath.Join(dir, "files"))
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	stores := map[string]Store{
		BackendBbolt:  bb,
		BackendFile:   fs,
		BackendMemory: NewMemory(),
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStoreCRUD(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, ok, err := s.Get(ctx, "keybinds_github.com"); err != nil || ok {
				t.Fatalf("Get(absent) = ok %v, err %v", ok, err)
			}

			if err := s.Set(ctx, "keybinds_github.com", []byte(`{"a":1}`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := s.Set(ctx, "keybinds_youtube.com", []byte(`{}`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := s.Set(ctx, "other", []byte(`x`)); err != nil {
				t.Fatalf("Set: %v", err)
			}

			v, ok, err := s.Get(ctx, "keybinds_github.com")
			if err != nil || !ok || string(v) != `{"a":1}` {
				t.Errorf("Get = %q, %v, %v", v, ok, err)
			}

			keys, err := s.Keys(ctx, KeyPrefix)
			if err != nil {
				t.Fatalf("Keys: %v", err)
			}
			if len(keys) != 2 || keys[0] != "keybinds_github.com" || keys[1] != "keybinds_youtube.com" {
				t.Errorf("Keys = %v", keys)
			}

			if err := s.Delete(ctx, "keybinds_github.com"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if err := s.Delete(ctx, "keybinds_github.com"); err != nil {
				t.Errorf("Delete(absent): %v", err)
			}
			if _, ok, _ := s.Get(ctx, "keybinds_github.com"); ok {
				t.Error("Get after Delete: ok = true")
			}

			if s.Backend() != name {
				t.Errorf("Backend() = %q, want %q", s.Backend(), name)
			}
		})
	}
}

func TestStoreClosed(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}
			if _, _, err := s.Get(context.Background(), "k"); !errors.Is(err, ErrClosed) {
				t.Errorf("Get after Close = %v, want ErrClosed", err)
			}
		})
	}
}

func TestStoreEmptyKey(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Set(context.Background(), "", []byte("x")); !errors.Is(err, ErrInvalidKey) {
				t.Errorf("Set(\"\") = %v, want ErrInvalidKey", err)
			}
		})
	}
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	ctx := context.Background()

	s, err := Open(BackendBbolt, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_ = s.Close()

	s, err = Open("", path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if v, ok, _ := s.Get(ctx, "k"); !ok || string(v) != "v" {
		t.Errorf("Get after reopen = %q, %v", v, ok)
	}
}

func TestOpenUnsupported(t *testing.T) {
	if _, err := Open("redis", ""); !errors.Is(err, ErrUnsupportedBackend) {
		t.Errorf("Open(redis) = %v, want ErrUnsupportedBackend", err)
	}
}

func TestFileStoreKeys(t *testing.T) {
	s, err := OpenFile(t.TempDir())
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	ctx := context.Background()

	for _, key := range []string{"../escape", "a/b", ".hidden"} {
		if err := s.Set(ctx, key, []byte("x")); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Set(%q) = %v, want ErrInvalidKey", key, err)
		}
	}

	// Stray files are not keys.
	_ = os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("x"), 0o600)
	_ = os.WriteFile(filepath.Join(s.Dir(), ".k.tmp-1.json"), []byte("x"), 0o600)
	_ = s.Set(ctx, "k", []byte("v"))

	keys, _ := s.Keys(ctx, "")
	if len(keys) != 1 || keys[0] != "k" {
		t.Errorf("Keys = %v, want [k]", keys)
	}
}

func TestFileWatcher(t *testing.T) {
	s, err := OpenFile(t.TempDir())
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	w, err := s.Watch(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	// Another process writing the file directly.
	path := filepath.Join(s.Dir(), "keybinds_github.com.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case c := <-w.Changes():
		if c.Key != "keybinds_github.com" || c.Removed {
			t.Errorf("Change = %+v", c)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	select {
	case c := <-w.Changes():
		if !c.Removed {
			t.Errorf("Change = %+v, want Removed", c)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no removal reported")
	}
}

func TestWatcherClose(t *testing.T) {
	s, _ := OpenFile(t.TempDir())
	w, err := s.Watch(0)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, ok := <-w.Changes(); ok {
		t.Error("Changes() not closed")
	}
}
