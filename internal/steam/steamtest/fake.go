// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

// Package steamtest provides an in-memory steam.API for tests.
package steamtest

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/steamvault/internal/steam"
)

// ErrInjected is the default error returned by failing fakes.
var ErrInjected = errors.New("steamtest: injected failure")

// Fake serves canned responses and counts calls per method. Zero values
// behave like an account with nothing in it.
//
// Thread Safety: Safe for concurrent use.
type Fake struct {
	mu sync.Mutex

	// Vanity maps usernames to SteamID64s.
	Vanity map[string]string

	// Players is returned by GetPlayerSummaries.
	Players []json.RawMessage

	// Games is the owned-games list. Nil means the response has no games
	// field; use NoGames for an empty library.
	Games []steam.OwnedGame

	// Achievements maps appid to the achievement list. Apps absent here
	// report success:false ("no stats").
	Achievements map[int]json.RawMessage

	// Catalog maps appid to name for GetAppList.
	Catalog map[int]string

	// StoreDetails maps appid to store data. Absent apps report
	// success:false.
	StoreDetails map[int]steam.AppDetailsData

	// WishlistPages is indexed by page number; pages past the end are empty.
	WishlistPages []steam.WishlistPage

	// CommunityPage is returned by GetCommunityGamesPage.
	CommunityPage string

	// Errors injects failures by method name ("GetOwnedGames", ...).
	Errors map[string]error

	// AchievementErrors injects failures for single apps.
	AchievementErrors map[int]error

	// PanicOn makes GetPlayerAchievements panic for an appid.
	PanicOn map[int]bool

	calls             map[string]int
	achievementCalls  map[int]int
	appDetailsCalls   map[int]int
	wishlistPagesSeen []int
}

// NoGames is an owned-games list with a present but empty games field.
var NoGames = []steam.OwnedGame{}

var _ steam.API = (*Fake)(nil)

// Game builds an owned game with playtime_forever set.
func Game(appID int, lastPlayed int64, playtimeForever int) steam.OwnedGame {
	return steam.OwnedGame{
		AppID:           appID,
		RTimeLastPlayed: lastPlayed,
		Fields: map[string]json.RawMessage{
			"appid":             json.RawMessage(strconv.Itoa(appID)),
			"rtime_last_played": json.RawMessage(strconv.FormatInt(lastPlayed, 10)),
			"playtime_forever":  json.RawMessage(strconv.Itoa(playtimeForever)),
		},
	}
}

func (f *Fake) record(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[method]++
	return f.Errors[method]
}

// Calls returns how many times method was called.
func (f *Fake) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// AchievementCalls returns how many times achievements were fetched for appID.
func (f *Fake) AchievementCalls(appID int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.achievementCalls[appID]
}

// AppDetailsCalls returns how many times store details were fetched for appID.
func (f *Fake) AppDetailsCalls(appID int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.appDetailsCalls[appID]
}

// WishlistPagesSeen returns the requested wishlist pages in order.
func (f *Fake) WishlistPagesSeen() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.wishlistPagesSeen...)
}

// ResetCalls clears all call counters.
func (f *Fake) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
	f.achievementCalls = nil
	f.appDetailsCalls = nil
	f.wishlistPagesSeen = nil
}

// ResolveVanityURL implements steam.API.
func (f *Fake) ResolveVanityURL(ctx context.Context, vanity string) (*steam.VanityURLResult, error) {
	if err := f.record("ResolveVanityURL"); err != nil {
		return nil, err
	}
	result := &steam.VanityURLResult{}
	if id, ok := f.Vanity[vanity]; ok {
		result.Response.SteamID = id
		result.Response.Success = 1
	} else {
		result.Response.Success = 42
		result.Response.Message = "No match"
	}
	return result, nil
}

// GetPlayerSummaries implements steam.API.
func (f *Fake) GetPlayerSummaries(ctx context.Context, steamID string) (*steam.PlayerSummaries, error) {
	if err := f.record("GetPlayerSummaries"); err != nil {
		return nil, err
	}
	result := &steam.PlayerSummaries{}
	result.Response.Players = f.Players
	return result, nil
}

// GetOwnedGames implements steam.API.
func (f *Fake) GetOwnedGames(ctx context.Context, steamID string, includePlayedFree bool) (*steam.OwnedGames, error) {
	if err := f.record("GetOwnedGames"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	result := &steam.OwnedGames{}
	if f.Games != nil {
		result.Response.Games = append([]steam.OwnedGame{}, f.Games...)
		result.Response.GameCount = len(f.Games)
	}
	return result, nil
}

// GetPlayerAchievements implements steam.API.
func (f *Fake) GetPlayerAchievements(ctx context.Context, steamID string, appID int) (*steam.PlayerStats, error) {
	if err := f.record("GetPlayerAchievements"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	if f.achievementCalls == nil {
		f.achievementCalls = make(map[int]int)
	}
	f.achievementCalls[appID]++
	panicking := f.PanicOn[appID]
	appErr := f.AchievementErrors[appID]
	list, ok := f.Achievements[appID]
	f.mu.Unlock()

	if panicking {
		panic(fmt.Sprintf("steamtest: panic for app %d", appID))
	}
	if appErr != nil {
		return nil, appErr
	}

	stats := &steam.PlayerStats{}
	stats.PlayerStats.SteamID = steamID
	if ok {
		stats.PlayerStats.Success = true
		stats.PlayerStats.Achievements = list
	} else {
		stats.PlayerStats.Error = "Requested app has no stats"
	}
	return stats, nil
}

// GetAppList implements steam.API.
func (f *Fake) GetAppList(ctx context.Context) (*steam.AppList, error) {
	if err := f.record("GetAppList"); err != nil {
		return nil, err
	}
	list := &steam.AppList{}
	for appID, name := range f.Catalog {
		list.AppList.Apps = append(list.AppList.Apps, steam.AppListEntry{AppID: appID, Name: name})
	}
	return list, nil
}

// GetAppDetails implements steam.API.
func (f *Fake) GetAppDetails(ctx context.Context, appID int) (*steam.AppDetails, error) {
	if err := f.record("GetAppDetails"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	if f.appDetailsCalls == nil {
		f.appDetailsCalls = make(map[int]int)
	}
	f.appDetailsCalls[appID]++
	data, ok := f.StoreDetails[appID]
	f.mu.Unlock()

	if !ok {
		return &steam.AppDetails{}, nil
	}
	return &steam.AppDetails{Success: true, Data: &data}, nil
}

// GetWishlistPage implements steam.API.
func (f *Fake) GetWishlistPage(ctx context.Context, steamID string, page int) (steam.WishlistPage, error) {
	if err := f.record("GetWishlistPage"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wishlistPagesSeen = append(f.wishlistPagesSeen, page)
	if page < len(f.WishlistPages) {
		return f.WishlistPages[page], nil
	}
	return steam.WishlistPage{}, nil
}

// GetCommunityGamesPage implements steam.API.
func (f *Fake) GetCommunityGamesPage(ctx context.Context, profile steam.ProfileRef) (string, error) {
	if err := f.record("GetCommunityGamesPage"); err != nil {
		return "", err
	}
	return f.CommunityPage, nil
}
