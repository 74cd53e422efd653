// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package sync

import (
	"context"
	"reflect"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/steamvault/internal/steam"
	"github.com/tomtom215/steamvault/internal/storage"
)

func TestNewPlaytime(t *testing.T) {
	t.Parallel()

	var game steam.OwnedGame
	raw := `{"appid":10,"rtime_last_played":1700000000,"playtime_forever":32,"playtime_linux_forever":0,"playtime_disconnected":1}`
	if err := json.Unmarshal([]byte(raw), &game); err != nil {
		t.Fatalf("decode game: %v", err)
	}

	got := NewPlaytime(game)
	want := []string{"playtime_disconnected", "playtime_forever", "playtime_linux_forever"}
	keys := make([]string, 0, len(got))
	for k := range got {
		keys = append(keys, k)
	}
	if len(keys) != len(want) {
		t.Fatalf("playtime keys = %v, want %v", keys, want)
	}
	for _, k := range want {
		if _, ok := got[k]; !ok {
			t.Errorf("playtime missing %q", k)
		}
	}
	if _, ok := game.Fields["appid"]; !ok {
		t.Error("NewPlaytime mutated the source game")
	}
}

func TestBuildGameDocumentAchievements(t *testing.T) {
	t.Parallel()

	game := steam.OwnedGame{AppID: 10, RTimeLastPlayed: 1, Fields: map[string]json.RawMessage{"appid": json.RawMessage("10")}}

	success := func(list string) *steam.PlayerStats {
		stats := &steam.PlayerStats{}
		stats.PlayerStats.Success = true
		if list != "" {
			stats.PlayerStats.Achievements = json.RawMessage(list)
		}
		return stats
	}
	failure := &steam.PlayerStats{}
	failure.PlayerStats.Achievements = json.RawMessage(`[{"apiname":"IGNORED"}]`)

	tests := []struct {
		name  string
		stats *steam.PlayerStats
		want  string
	}{
		{name: "success with list", stats: success(`[{"apiname":"WIN"}]`), want: `[{"apiname":"WIN"}]`},
		{name: "success without list", stats: success(""), want: `[]`},
		{name: "success with null list", stats: success("null"), want: `[]`},
		{name: "no stats", stats: failure, want: ""},
		{name: "nil stats", stats: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := BuildGameDocument(game, AppMetadata{AppID: 10}, tt.stats)
			if string(doc.Achievements) != tt.want {
				t.Errorf("Achievements = %q, want %q", doc.Achievements, tt.want)
			}
		})
	}
}

func TestBuildGameDocumentMetadata(t *testing.T) {
	t.Parallel()

	game := steam.OwnedGame{AppID: 70, RTimeLastPlayed: 99}
	doc := BuildGameDocument(game, AppMetadata{AppID: 70, Name: "Half-Life", ShortDescription: "Black Mesa"}, nil)

	want := GameDocument{
		AppID:            70,
		Name:             "Half-Life",
		ShortDescription: "Black Mesa",
		RTimeLastPlayed:  99,
		Playtime:         Playtime{},
	}
	if !reflect.DeepEqual(doc, want) {
		t.Errorf("BuildGameDocument() = %+v, want %+v", doc, want)
	}
}

func TestManifestStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := storage.NewMemoryStore()
	manifests := NewManifestStore(store, gamesFolder)

	manifest, err := manifests.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(manifest) != 0 {
		t.Errorf("fresh manifest = %v, want empty", manifest)
	}
	if raw, _ := store.ReadFile(ctx, gamesFolder, ManifestFileName); string(raw) != "{}" {
		t.Errorf("created manifest = %q, want {}", raw)
	}

	// Entries written without their appid field are normalized from the key.
	_ = store.WriteFile(ctx, gamesFolder, ManifestFileName, []byte(`{"10":{"rtime_last_played":5},"20":{"appid":20,"rtime_last_played":6}}`))
	manifest, err = manifests.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if manifest[10] != (ManifestEntry{AppID: 10, RTimeLastPlayed: 5}) {
		t.Errorf("manifest[10] = %+v", manifest[10])
	}

	_ = store.WriteFile(ctx, gamesFolder, ManifestFileName, []byte(`null`))
	manifest, err = manifests.Load(ctx)
	if err != nil || manifest == nil {
		t.Errorf("Load(null) = %v, %v, want empty manifest", manifest, err)
	}

	_ = store.WriteFile(ctx, gamesFolder, ManifestFileName, []byte(`[1,2]`))
	if _, err := manifests.Load(ctx); err == nil {
		t.Error("Load() accepted a malformed manifest")
	}
}

func TestManifestDocuments(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manifests := NewManifestStore(storage.NewMemoryStore(), gamesFolder)

	doc := GameDocument{AppID: 10, Name: "Counter-Strike", Playtime: Playtime{}}
	if err := manifests.WriteDocument(ctx, &doc); err != nil {
		t.Fatalf("WriteDocument() error = %v", err)
	}
	got, err := manifests.ReadDocument(ctx, 10)
	if err != nil {
		t.Fatalf("ReadDocument() error = %v", err)
	}
	if got.Name != "Counter-Strike" {
		t.Errorf("ReadDocument() = %+v", got)
	}
	if err := manifests.DeleteDocument(ctx, 10); err != nil {
		t.Fatalf("DeleteDocument() error = %v", err)
	}
	if err := manifests.DeleteDocument(ctx, 10); err != nil {
		t.Errorf("DeleteDocument(missing) error = %v", err)
	}
}

func TestKillSetSurvivorsSorted(t *testing.T) {
	t.Parallel()

	ks := newKillSet(Manifest{30: {}, 10: {}, 20: {}, 40: {}})
	ks.remove(20)
	ks.remove(99)

	if got, want := ks.survivors(), []int{10, 30, 40}; !reflect.DeepEqual(got, want) {
		t.Errorf("survivors() = %v, want %v", got, want)
	}
}
