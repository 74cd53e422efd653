// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/steamvault/internal/config"
	"github.com/tomtom215/steamvault/internal/metrics"
)

// backends returns a fresh instance of every backend.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	fsStore, err := NewFilesystemStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystemStore() error = %v", err)
	}
	badgerStore, err := OpenBadgerStore(BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatalf("OpenBadgerStore() error = %v", err)
	}
	t.Cleanup(func() { _ = badgerStore.Close() })

	return map[string]Store{
		"filesystem": fsStore,
		"memory":     NewMemoryStore(),
		"badger":     badgerStore,
		"s3":         NewS3StoreWithClient(newFakeS3(), "backups", "steamvault"),
	}
}

func TestStoreConformance(t *testing.T) {
	t.Parallel()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			root, err := store.FindOrCreateFolder(ctx, RootFolder, "steam")
			if err != nil {
				t.Fatalf("FindOrCreateFolder(root) error = %v", err)
			}
			games, err := store.FindOrCreateFolder(ctx, root, "games")
			if err != nil {
				t.Fatalf("FindOrCreateFolder(games) error = %v", err)
			}
			if games != "steam/games" {
				t.Errorf("games folder = %q, want steam/games", games)
			}
			again, err := store.FindOrCreateFolder(ctx, root, "games")
			if err != nil || again != games {
				t.Errorf("second FindOrCreateFolder() = %q, %v", again, err)
			}

			if _, err := store.ReadFile(ctx, games, "10.json"); !errors.Is(err, ErrNotFound) {
				t.Errorf("ReadFile(missing) error = %v, want ErrNotFound", err)
			}

			created, err := store.FindOrCreateFile(ctx, games, "meta.list.json", []byte("{}"))
			if err != nil {
				t.Fatalf("FindOrCreateFile() error = %v", err)
			}
			if string(created) != "{}" {
				t.Errorf("FindOrCreateFile() = %q, want {}", created)
			}

			if err := store.WriteFile(ctx, games, "meta.list.json", []byte(`{"10":{}}`)); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			existing, err := store.FindOrCreateFile(ctx, games, "meta.list.json", []byte("{}"))
			if err != nil {
				t.Fatalf("FindOrCreateFile(existing) error = %v", err)
			}
			if string(existing) != `{"10":{}}` {
				t.Errorf("FindOrCreateFile(existing) = %q, default must not overwrite", existing)
			}

			if err := store.WriteFile(ctx, games, "10.json", []byte("first")); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			if err := store.WriteFile(ctx, games, "10.json", []byte("second")); err != nil {
				t.Fatalf("WriteFile(overwrite) error = %v", err)
			}
			data, err := store.ReadFile(ctx, games, "10.json")
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if string(data) != "second" {
				t.Errorf("ReadFile() = %q, want second", data)
			}

			if err := store.DeleteFile(ctx, games, "10.json"); err != nil {
				t.Fatalf("DeleteFile() error = %v", err)
			}
			if _, err := store.ReadFile(ctx, games, "10.json"); !errors.Is(err, ErrNotFound) {
				t.Errorf("ReadFile(deleted) error = %v, want ErrNotFound", err)
			}
			if err := store.DeleteFile(ctx, games, "10.json"); err != nil {
				t.Errorf("DeleteFile(missing) error = %v, want nil", err)
			}
		})
	}
}

func TestStoreRejectsInvalidNames(t *testing.T) {
	t.Parallel()

	names := []string{"", ".", "..", "a/b", `a\b`}
	for backend, store := range backends(t) {
		for _, name := range names {
			if err := store.WriteFile(context.Background(), "steam", name, []byte("x")); err == nil {
				t.Errorf("%s: WriteFile(%q) succeeded, want error", backend, name)
			}
			if _, err := store.FindOrCreateFolder(context.Background(), RootFolder, name); err == nil {
				t.Errorf("%s: FindOrCreateFolder(%q) succeeded, want error", backend, name)
			}
		}
	}
}

func TestJSONHelpers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	type doc struct {
		AppID int    `json:"appid"`
		Name  string `json:"name"`
	}

	if err := WriteJSON(ctx, store, "steam", "doc.json", doc{AppID: 10, Name: "Counter-Strike"}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	raw, _ := store.ReadFile(ctx, "steam", "doc.json")
	want := "{\n    \"appid\": 10,\n    \"name\": \"Counter-Strike\"\n}"
	if string(raw) != want {
		t.Errorf("WriteJSON() wrote %q, want %q", raw, want)
	}

	var got doc
	if err := ReadJSON(ctx, store, "steam", "doc.json", &got); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if got.AppID != 10 || got.Name != "Counter-Strike" {
		t.Errorf("ReadJSON() = %+v", got)
	}

	if err := ReadJSON(ctx, store, "steam", "missing.json", &got); !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadJSON(missing) error = %v, want ErrNotFound", err)
	}

	_ = store.WriteFile(ctx, "steam", "broken.json", []byte("{not json"))
	if err := ReadJSON(ctx, store, "steam", "broken.json", &got); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("ReadJSON(broken) error = %v, want decode error", err)
	}

	var manifest map[string]int
	if err := FindOrCreateJSON(ctx, store, "steam", "fresh.json", map[string]int{}, &manifest); err != nil {
		t.Fatalf("FindOrCreateJSON() error = %v", err)
	}
	if manifest == nil || len(manifest) != 0 {
		t.Errorf("FindOrCreateJSON() = %v, want empty map", manifest)
	}
	if raw, _ := store.ReadFile(ctx, "steam", "fresh.json"); string(raw) != "{}" {
		t.Errorf("default content = %q, want {}", raw)
	}
}

func TestFilesystemStoreLayout(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store, err := NewFilesystemStore(base)
	if err != nil {
		t.Fatalf("NewFilesystemStore() error = %v", err)
	}
	ctx := context.Background()
	games, _ := store.FindOrCreateFolder(ctx, RootFolder, "steam")
	games, _ = store.FindOrCreateFolder(ctx, games, "games")

	if err := store.WriteFile(ctx, games, "10.json", []byte("{}")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(base, "steam", "games", "10.json"))
	if err != nil {
		t.Fatalf("document not on disk: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("on-disk content = %q", data)
	}

	entries, err := os.ReadDir(filepath.Join(base, "steam", "games"))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestNewFilesystemStoreRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := NewFilesystemStore(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestS3StoreKeysAndErrors(t *testing.T) {
	t.Parallel()

	fake := newFakeS3()
	store := NewS3StoreWithClient(fake, "backups", "steamvault")
	ctx := context.Background()

	if err := store.WriteFile(ctx, "steam/games", "10.json", []byte("{}")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, ok := fake.objects["backups/steamvault/steam/games/10.json"]; !ok {
		t.Errorf("object keys = %v, want steamvault/steam/games/10.json in backups", fake.keys())
	}

	fake.failWith = errors.New("access denied")
	_, err := store.ReadFile(ctx, "steam/games", "10.json")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("ReadFile() error = %v, want non-NotFound failure", err)
	}
	if err := store.DeleteFile(ctx, "steam/games", "10.json"); err == nil {
		t.Error("DeleteFile() succeeded despite backend failure")
	}
}

func TestIsS3NotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"no such key api error", apiError("NoSuchKey"), true},
		{"not found api error", apiError("NotFound"), true},
		{"access denied", apiError("AccessDenied"), false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		if got := isS3NotFound(tt.err); got != tt.want {
			t.Errorf("%s: isS3NotFound() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestInstrumentRecordsMetrics(t *testing.T) {
	t.Parallel()

	store := Instrument(NewMemoryStore())
	if Instrument(store) != store {
		t.Error("Instrument() wrapped an already instrumented store")
	}

	ctx := context.Background()
	notFound := metrics.StorageOperations.WithLabelValues("memory", "read", "not_found")
	ok := metrics.StorageOperations.WithLabelValues("memory", "write", "ok")
	beforeNotFound := testutil.ToFloat64(notFound)
	beforeOK := testutil.ToFloat64(ok)

	_, _ = store.ReadFile(ctx, "steam", "missing.json")
	_ = store.WriteFile(ctx, "steam", "present.json", []byte("{}"))

	if got := testutil.ToFloat64(notFound); got < beforeNotFound+1 {
		t.Errorf("not_found reads = %v, want >= %v", got, beforeNotFound+1)
	}
	if got := testutil.ToFloat64(ok); got < beforeOK+1 {
		t.Errorf("ok writes = %v, want >= %v", got, beforeOK+1)
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := &config.StorageConfig{
		Backend:    "filesystem",
		Root:       "steam",
		Filesystem: config.FilesystemStorageConfig{Path: t.TempDir()},
	}

	store, err := Open(ctx, cfg, false)
	if err != nil {
		t.Fatalf("Open(filesystem) error = %v", err)
	}
	if store.Backend() != "filesystem" {
		t.Errorf("Backend() = %q, want filesystem", store.Backend())
	}

	dry, err := Open(ctx, cfg, true)
	if err != nil {
		t.Fatalf("Open(dry run) error = %v", err)
	}
	if dry.Backend() != "memory" {
		t.Errorf("dry run Backend() = %q, want memory", dry.Backend())
	}

	if _, err := Open(ctx, &config.StorageConfig{Backend: "ftp"}, false); err == nil {
		t.Error("Open(ftp) succeeded, want error")
	}
}

func TestMemoryStoreFiles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.WriteFile(ctx, "steam/games", "20.json", []byte("{}"))
	_ = store.WriteFile(ctx, "steam/games", "10.json", []byte("{}"))
	_ = store.WriteFile(ctx, "steam", "profile.json", []byte("{}"))

	got := store.Files("steam/games")
	if len(got) != 2 || got[0] != "10.json" || got[1] != "20.json" {
		t.Errorf("Files(steam/games) = %v", got)
	}
	if got := store.Files("steam"); len(got) != 1 || got[0] != "profile.json" {
		t.Errorf("Files(steam) = %v", got)
	}
	if store.Writes() != 3 {
		t.Errorf("Writes() = %d, want 3", store.Writes())
	}

	data, _ := store.ReadFile(ctx, "steam", "profile.json")
	data[0] = 'X'
	again, _ := store.ReadFile(ctx, "steam", "profile.json")
	if !bytes.Equal(again, []byte("{}")) {
		t.Error("ReadFile() returned a slice aliasing stored content")
	}
}
