// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testSteamID = "76561197960287930"

// fakeSteam serves just enough of the Web API and store for one run with
// a configured SteamID and the wishlist disabled.
func fakeSteam(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ISteamUser/GetPlayerSummaries/v0002/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"response":{"players":[{"steamid":%q,"personaname":"Rabscuttle"}]}}`, testSteamID)
	})
	mux.HandleFunc("/IPlayerService/GetOwnedGames/v0001/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":{"game_count":1,"games":[{"appid":10,"playtime_forever":42,"rtime_last_played":1700000000}]}}`)
	})
	mux.HandleFunc("/ISteamUserStats/GetPlayerAchievements/v0001/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"playerstats":{"success":true,"achievements":[{"apiname":"WIN","achieved":1}]}}`)
	})
	mux.HandleFunc("/api/appdetails", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"10":{"success":true,"data":{"type":"game","name":"Counter-Strike","steam_appid":10,"short_description":"Play the world's number 1 online action game."}}}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "steamvault ") {
		t.Errorf("output = %q", out)
	}
}

func TestConfigCommandMasksSecrets(t *testing.T) {
	path := writeConfig(t, `
steam:
  username: gaben
  api_key: ABCDEF0123456789
storage:
  filesystem:
    path: `+t.TempDir()+`
logging:
  level: error
`)

	out, err := execute(t, "config", "--config", path)
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	if strings.Contains(out, "ABCDEF0123456789") {
		t.Error("API key printed in clear")
	}
	if !strings.Contains(out, "****6789") {
		t.Errorf("masked key missing from output:\n%s", out)
	}
}

func TestConfigCommandInvalid(t *testing.T) {
	path := writeConfig(t, `
steam:
  username: gaben
logging:
  level: error
`)
	if _, err := execute(t, "config", "--config", path); err == nil {
		t.Error("config without an API key did not fail")
	}
}

func TestRunCommand(t *testing.T) {
	srv := fakeSteam(t)
	dataDir := t.TempDir()
	path := writeConfig(t, `
steam:
  steam_id: "`+testSteamID+`"
  api_key: ABCDEF0123456789
  api_base_url: `+srv.URL+`
  store_base_url: `+srv.URL+`
  community_base_url: `+srv.URL+`
  rate_limit: 1000
  rate_burst: 100
storage:
  backend: filesystem
  filesystem:
    path: `+dataDir+`
backup:
  wishlist: false
  playtime: false
metadata:
  catalog_index: false
logging:
  level: error
`)

	if _, err := execute(t, "run", "--config", path); err != nil {
		t.Fatalf("run error = %v", err)
	}

	for _, name := range []string{
		"steam/profile.json",
		"steam/games/10.json",
		"steam/games/meta.list.json",
		"steam/meta.runs.json",
	} {
		if _, err := os.Stat(filepath.Join(dataDir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}

	doc, err := os.ReadFile(filepath.Join(dataDir, "steam/games/10.json"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"name": "Counter-Strike"`, `"rtime_last_played": 1700000000`, `WIN`} {
		if !bytes.Contains(doc, []byte(want)) {
			t.Errorf("10.json missing %s:\n%s", want, doc)
		}
	}
}

func TestRunCommandDryRunWritesNothing(t *testing.T) {
	srv := fakeSteam(t)
	dataDir := t.TempDir()
	path := writeConfig(t, `
steam:
  steam_id: "`+testSteamID+`"
  api_key: ABCDEF0123456789
  api_base_url: `+srv.URL+`
  store_base_url: `+srv.URL+`
  community_base_url: `+srv.URL+`
  rate_limit: 1000
storage:
  filesystem:
    path: `+dataDir+`
backup:
  wishlist: false
  playtime: false
metadata:
  catalog_index: false
logging:
  level: error
`)

	if _, err := execute(t, "run", "--dry-run", "--config", path); err != nil {
		t.Fatalf("run --dry-run error = %v", err)
	}
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("dry run wrote %d entries to %s", len(entries), dataDir)
	}
}

func TestRunCommandFailureExitStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	path := writeConfig(t, `
steam:
  steam_id: "`+testSteamID+`"
  api_key: ABCDEF0123456789
  api_base_url: `+srv.URL+`
  store_base_url: `+srv.URL+`
  community_base_url: `+srv.URL+`
storage:
  backend: memory
logging:
  level: error
`)

	_, err := execute(t, "run", "--config", path)
	if !errors.Is(err, errRunFailed) {
		t.Errorf("run error = %v, want errRunFailed", err)
	}
}
