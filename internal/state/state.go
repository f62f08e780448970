// Package state holds tubeshelf's persistent application state.
//
// State is kept as JSON strings in a store.Store under the same keys the
// browser version used, so exported data stays recognisable:
//
//	youtubeApiKey   API key (plain string)
//	theme           "light" or "dark" (legacy: darkMode "true"/"false")
//	customChannels  subscribed channel IDs
//	favorites       favorite video IDs
//	watchLater      watch-later video IDs
//	myLibrary       library video snapshots, newest first
//	cachedVideos    last full load
//	cacheTime       epoch milliseconds of the last full load
//	lastVideoCount  size of the last full load
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gauthierbraillon/tubeshelf/internal/format"
	"github.com/gauthierbraillon/tubeshelf/internal/store"
	"github.com/gauthierbraillon/tubeshelf/internal/youtube"
)

// Storage keys.
const (
	KeyAPIKey         = "youtubeApiKey"
	KeyTheme          = "theme"
	KeyDarkMode       = "darkMode"
	KeyChannels       = "customChannels"
	KeyFavorites      = "favorites"
	KeyWatchLater     = "watchLater"
	KeyLibrary        = "myLibrary"
	KeyCachedVideos   = "cachedVideos"
	KeyCacheTime      = "cacheTime"
	KeyLastVideoCount = "lastVideoCount"
)

// DefaultCacheTTL is how long a full load is reused before refetching.
const DefaultCacheTTL = 30 * time.Minute

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// DefaultChannels is the subscription list used until the user changes it.
var DefaultChannels = []string{
	"UCN6hQCg6tIs5x6CoYLwXlhQ",
	"UCMmiGP6imlrwLP3oy34wbxA",
	"UCdur25RCItdfoXA89ORWSkw",
	"UCGLqLYzjWYuPTUhC9QireWg",
	"UClvucpj2qZ3OUM2not9YVpA",
	"UCwbUIqOxivtwVkSA8Cm87aA",
	"UCYTe2pbx_83PMClEm7JZQCA",
	"UChGiPYEm5gLRwFmKPVrk-_Q",
	"UCOKKttQBUqmenmwur2a57Jg",
	"UCSvnSxC5f1W8ogXMC38IbzA",
}

var (
	ErrChannelExists    = errors.New("channel is already in the list")
	ErrChannelNotFound  = errors.New("channel is not in the list")
	ErrInvalidChannelID = errors.New("invalid channel ID: expected UC followed by 22 characters")
	ErrAlreadyInLibrary = errors.New("video is already in the library")
	ErrNotInLibrary     = errors.New("video is not in the library")
	ErrLibraryEmpty     = errors.New("library is already empty")
)

// Snapshot is everything State persists, read in one pass.
type Snapshot struct {
	APIKey     string
	Theme      string
	Channels   []string
	Favorites  []string
	WatchLater []string
	Library    []youtube.Video
	// Cached is nil when there is no cache or it has expired.
	Cached   []youtube.Video
	CachedAt time.Time
}

// Option configures State.
type Option func(*State)

// WithClock replaces time.Now (useful for testing).
func WithClock(now func() time.Time) Option {
	return func(s *State) {
		s.now = now
	}
}

// WithCacheTTL sets how long cached videos stay valid.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *State) {
		s.cacheTTL = ttl
	}
}

// State reads and updates persisted application state. Every mutation is
// written through to the store before it returns.
type State struct {
	store    store.Store
	now      func() time.Time
	cacheTTL time.Duration
}

// New creates a State over s.
func New(s store.Store, opts ...Option) *State {
	st := &State{
		store:    s,
		now:      time.Now,
		cacheTTL: DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// Load reads every piece of state at once.
func (s *State) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	var err error

	if snap.APIKey, err = s.APIKey(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Theme, err = s.Theme(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Channels, err = s.Channels(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Favorites, err = s.Favorites(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.WatchLater, err = s.WatchLater(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Library, err = s.Library(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Cached, snap.CachedAt, err = s.LoadCache(ctx); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// APIKey returns the stored API key, or "" when none is set.
func (s *State) APIKey(ctx context.Context) (string, error) {
	v, _, err := s.store.Get(ctx, KeyAPIKey)
	return v, err
}

// SetAPIKey stores the API key.
func (s *State) SetAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("API key must not be empty")
	}
	return s.store.Set(ctx, KeyAPIKey, key)
}

// ResetAPIKey forgets the API key.
func (s *State) ResetAPIKey(ctx context.Context) error {
	return s.store.Remove(ctx, KeyAPIKey)
}

// Theme returns "dark" or "light".
func (s *State) Theme(ctx context.Context) (string, error) {
	v, ok, err := s.store.Get(ctx, KeyTheme)
	if err != nil {
		return "", err
	}
	if ok {
		if v == ThemeDark {
			return ThemeDark, nil
		}
		return ThemeLight, nil
	}

	legacy, ok, err := s.store.Get(ctx, KeyDarkMode)
	if err != nil {
		return "", err
	}
	if ok && legacy == "true" {
		return ThemeDark, nil
	}
	return ThemeLight, nil
}

// ToggleTheme flips between light and dark and returns the new theme.
func (s *State) ToggleTheme(ctx context.Context) (string, error) {
	current, err := s.Theme(ctx)
	if err != nil {
		return "", err
	}
	next := ThemeDark
	if current == ThemeDark {
		next = ThemeLight
	}
	if err := s.store.Set(ctx, KeyTheme, next); err != nil {
		return "", err
	}
	return next, nil
}

// Channels returns the subscription list, falling back to DefaultChannels.
func (s *State) Channels(ctx context.Context) ([]string, error) {
	var ids []string
	ok, err := s.getJSON(ctx, KeyChannels, &ids)
	if err != nil {
		return nil, err
	}
	if !ok {
		return slices.Clone(DefaultChannels), nil
	}
	return ids, nil
}

// IsDefaultChannel reports whether id is part of DefaultChannels.
func IsDefaultChannel(id string) bool {
	return slices.Contains(DefaultChannels, id)
}

// AddChannel appends a channel to the subscription list.
func (s *State) AddChannel(ctx context.Context, id string) ([]string, error) {
	id = strings.TrimSpace(id)
	if !youtube.IsChannelID(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidChannelID, id)
	}

	ids, err := s.Channels(ctx)
	if err != nil {
		return nil, err
	}
	if slices.Contains(ids, id) {
		return ids, ErrChannelExists
	}

	ids = append(ids, id)
	return ids, s.setJSON(ctx, KeyChannels, ids)
}

// RemoveChannel drops a channel from the subscription list.
func (s *State) RemoveChannel(ctx context.Context, id string) ([]string, error) {
	ids, err := s.Channels(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.Index(ids, strings.TrimSpace(id))
	if i < 0 {
		return ids, ErrChannelNotFound
	}

	ids = slices.Delete(ids, i, i+1)
	return ids, s.setJSON(ctx, KeyChannels, ids)
}

// ResetChannels restores DefaultChannels.
func (s *State) ResetChannels(ctx context.Context) ([]string, error) {
	if err := s.store.Remove(ctx, KeyChannels); err != nil {
		return nil, err
	}
	return slices.Clone(DefaultChannels), nil
}

// Favorites returns the favorite video IDs.
func (s *State) Favorites(ctx context.Context) ([]string, error) {
	return s.idList(ctx, KeyFavorites)
}

// WatchLater returns the watch-later video IDs.
func (s *State) WatchLater(ctx context.Context) ([]string, error) {
	return s.idList(ctx, KeyWatchLater)
}

// ToggleFavorite adds id to favorites when absent, removes it otherwise,
// and reports whether it is now a favorite.
func (s *State) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	return s.toggle(ctx, KeyFavorites, id)
}

// ToggleWatchLater adds id to watch later when absent, removes it
// otherwise, and reports whether it is now in the list.
func (s *State) ToggleWatchLater(ctx context.Context, id string) (bool, error) {
	return s.toggle(ctx, KeyWatchLater, id)
}

// Toggle returns ids with id removed when present, appended otherwise, and
// whether id is present in the result. ids is not modified.
func Toggle(ids []string, id string) ([]string, bool) {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(slices.Clone(ids), i, i+1), false
	}
	return append(slices.Clone(ids), id), true
}

func (s *State) toggle(ctx context.Context, key, id string) (bool, error) {
	ids, err := s.idList(ctx, key)
	if err != nil {
		return false, err
	}
	next, member := Toggle(ids, id)
	return member, s.setJSON(ctx, key, next)
}

func (s *State) idList(ctx context.Context, key string) ([]string, error) {
	ids := []string{}
	if _, err := s.getJSON(ctx, key, &ids); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Library returns the library, newest addition first.
func (s *State) Library(ctx context.Context) ([]youtube.Video, error) {
	videos := []youtube.Video{}
	if _, err := s.getJSON(ctx, KeyLibrary, &videos); err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []youtube.Video{}
	}
	restoreCounts(videos)
	return videos, nil
}

// restoreCounts fills in numeric counters for snapshots that were saved
// with only their display text, such as keyless library entries.
func restoreCounts(videos []youtube.Video) {
	for i := range videos {
		v := &videos[i]
		if v.ViewCount == 0 && v.ViewCountText != "" {
			v.ViewCount = format.ParseFormattedNumber(v.ViewCountText)
		}
		if v.LikeCount == 0 && v.LikeCountText != "" {
			v.LikeCount = format.ParseFormattedNumber(v.LikeCountText)
		}
		if v.DurationSeconds == 0 && v.Duration != "" {
			v.DurationSeconds = format.ParseDuration(v.Duration)
		}
	}
}

// AddToLibrary puts v at the front of the library.
func (s *State) AddToLibrary(ctx context.Context, v youtube.Video) ([]youtube.Video, error) {
	library, err := s.Library(ctx)
	if err != nil {
		return nil, err
	}
	if slices.ContainsFunc(library, func(e youtube.Video) bool { return e.ID == v.ID }) {
		return library, ErrAlreadyInLibrary
	}

	library = slices.Insert(library, 0, v)
	return library, s.setJSON(ctx, KeyLibrary, library)
}

// RemoveFromLibrary deletes the video with the given ID from the library.
func (s *State) RemoveFromLibrary(ctx context.Context, id string) ([]youtube.Video, error) {
	library, err := s.Library(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(library, func(e youtube.Video) bool { return e.ID == id })
	if i < 0 {
		return library, ErrNotInLibrary
	}

	library = slices.Delete(library, i, i+1)
	return library, s.setJSON(ctx, KeyLibrary, library)
}

// ClearLibrary empties the library and returns how many videos it held.
func (s *State) ClearLibrary(ctx context.Context) (int, error) {
	library, err := s.Library(ctx)
	if err != nil {
		return 0, err
	}
	if len(library) == 0 {
		return 0, ErrLibraryEmpty
	}
	return len(library), s.setJSON(ctx, KeyLibrary, []youtube.Video{})
}

// SaveCache overwrites the cached video list and stamps it with the
// current time.
func (s *State) SaveCache(ctx context.Context, videos []youtube.Video) error {
	if videos == nil {
		videos = []youtube.Video{}
	}
	if err := s.setJSON(ctx, KeyCachedVideos, videos); err != nil {
		return err
	}
	stamp := strconv.FormatInt(s.now().UnixMilli(), 10)
	return s.store.Set(ctx, KeyCacheTime, stamp)
}

// LoadCache returns the cached videos and when they were cached. It returns
// nil videos when nothing is cached or the cache is older than the TTL.
func (s *State) LoadCache(ctx context.Context) ([]youtube.Video, time.Time, error) {
	raw, ok, err := s.store.Get(ctx, KeyCacheTime)
	if err != nil || !ok {
		return nil, time.Time{}, err
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, time.Time{}, nil
	}
	cachedAt := time.UnixMilli(ms)
	if s.now().Sub(cachedAt) >= s.cacheTTL {
		return nil, cachedAt, nil
	}

	var videos []youtube.Video
	ok, err = s.getJSON(ctx, KeyCachedVideos, &videos)
	if err != nil || !ok {
		// a corrupt cache is just a miss
		return nil, cachedAt, nil
	}
	if videos == nil {
		videos = []youtube.Video{}
	}
	restoreCounts(videos)
	return videos, cachedAt, nil
}

// InvalidateCache forgets the cached load so the next read refetches.
func (s *State) InvalidateCache(ctx context.Context) error {
	if err := s.store.Remove(ctx, KeyCacheTime); err != nil {
		return err
	}
	return s.store.Remove(ctx, KeyCachedVideos)
}

// RecordVideoCount stores the size of a full load and returns how many
// more videos it has than the previous one. The first load reports 0.
func (s *State) RecordVideoCount(ctx context.Context, count int) (int, error) {
	raw, ok, err := s.store.Get(ctx, KeyLastVideoCount)
	if err != nil {
		return 0, err
	}
	last := 0
	if ok {
		last, _ = strconv.Atoi(strings.TrimSpace(raw))
	}

	if err := s.store.Set(ctx, KeyLastVideoCount, strconv.Itoa(count)); err != nil {
		return 0, err
	}
	if last > 0 && count > last {
		return count - last, nil
	}
	return 0, nil
}

func (s *State) getJSON(ctx context.Context, key string, v any) (bool, error) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("corrupt %s: %w", key, err)
	}
	return true, nil
}

func (s *State) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.store.Set(ctx, key, string(data))
}
