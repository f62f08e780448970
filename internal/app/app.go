// Package app ties the YouTube client, persisted state and the catalog
// pipeline together into the operations the CLI exposes.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gauthierbraillon/tubeshelf/internal/catalog"
	"github.com/gauthierbraillon/tubeshelf/internal/loader"
	"github.com/gauthierbraillon/tubeshelf/internal/state"
	"github.com/gauthierbraillon/tubeshelf/internal/youtube"
)

var (
	// ErrAPIKeyRequired is returned by operations that only work through the Data API.
	ErrAPIKeyRequired = errors.New("a YouTube API key is required (run 'tubeshelf key set <key>' or set YOUTUBE_API_KEY)")
	// ErrInvalidVideo is returned when input is neither a video URL nor an ID.
	ErrInvalidVideo = errors.New("not a YouTube video URL or ID")
	// ErrEmptyQuery is returned when a search has nothing to look for.
	ErrEmptyQuery = errors.New("search query must not be empty")
	// ErrNoChannel is returned when a video carries no channel ID to subscribe to.
	ErrNoChannel = errors.New("video has no channel ID")
)

// API is the part of the YouTube Data API client the app uses.
type API interface {
	loader.Source
	FetchVideo(ctx context.Context, id string) (youtube.Video, error)
	Search(ctx context.Context, opts youtube.SearchOptions) ([]youtube.SearchResult, error)
	Trending(ctx context.Context, regionCode string, limit int) ([]youtube.Video, error)
	NewSince(ctx context.Context, channelID string, after time.Time, limit int) ([]youtube.SearchResult, error)
}

// Resolver describes videos without an API key.
type Resolver interface {
	Lookup(ctx context.Context, id string) youtube.Video
}

// Option configures the App.
type Option func(*App)

// WithAPI sets how an API client is built for a key.
func WithAPI(newAPI func(apiKey string) API) Option {
	return func(a *App) {
		a.newAPI = newAPI
	}
}

// WithResolver sets the keyless video resolver.
func WithResolver(r Resolver) Option {
	return func(a *App) {
		a.resolver = r
	}
}

// WithEnvAPIKey sets the key used when none is stored.
func WithEnvAPIKey(key string) Option {
	return func(a *App) {
		a.envKey = key
	}
}

// WithConcurrency bounds how many channels load in parallel.
func WithConcurrency(n int) Option {
	return func(a *App) {
		a.concurrency = n
	}
}

// WithPerChannel sets how many recent uploads are loaded per channel.
func WithPerChannel(n int) Option {
	return func(a *App) {
		a.perChannel = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// App runs tubeshelf operations against persisted state.
type App struct {
	state       *state.State
	newAPI      func(apiKey string) API
	resolver    Resolver
	envKey      string
	concurrency int
	perChannel  int
	logger      *slog.Logger
}

// New creates an App over st.
func New(st *state.State, opts ...Option) *App {
	a := &App{
		state:       st,
		newAPI:      func(apiKey string) API { return youtube.NewClient(apiKey) },
		resolver:    youtube.NewResolver(),
		concurrency: loader.DefaultConcurrency,
		perChannel:  youtube.MaxResults,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// State exposes the persisted state for direct list edits.
func (a *App) State() *state.State {
	return a.state
}

// APIKey returns the stored key, falling back to the environment key.
func (a *App) APIKey(ctx context.Context) (string, error) {
	key, err := a.state.APIKey(ctx)
	if err != nil {
		return "", err
	}
	if key == "" {
		key = a.envKey
	}
	return key, nil
}

// api returns a client for the current key, or ErrAPIKeyRequired.
func (a *App) api(ctx context.Context) (API, error) {
	key, err := a.APIKey(ctx)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, ErrAPIKeyRequired
	}
	return a.newAPI(key), nil
}

// Feed is the full video list of the subscribed channels.
type Feed struct {
	Videos    []youtube.Video
	FromCache bool
	CachedAt  time.Time
	// NewCount is how many more videos this load found than the last one.
	NewCount     int
	// Channels is how many channels a fresh load asked for; 0 from cache.
	Channels     int
	ChannelNames map[string]string
	Failed       map[string]error
}

// Videos returns the cached feed while it is fresh, otherwise it reloads.
// force skips the cache.
func (a *App) Videos(ctx context.Context, force bool) (Feed, error) {
	if force {
		return a.Refresh(ctx)
	}
	videos, cachedAt, err := a.state.LoadCache(ctx)
	if err != nil {
		return Feed{}, err
	}
	return a.cachedOrRefresh(ctx, videos, cachedAt)
}

func (a *App) cachedOrRefresh(ctx context.Context, cached []youtube.Video, cachedAt time.Time) (Feed, error) {
	if cached == nil {
		return a.Refresh(ctx)
	}
	a.logger.Debug("app: using cached videos", slog.Int("videos", len(cached)), slog.Time("cachedAt", cachedAt))
	return Feed{Videos: cached, FromCache: true, CachedAt: cachedAt}, nil
}

// Refresh loads every subscribed channel and overwrites the cache.
func (a *App) Refresh(ctx context.Context) (Feed, error) {
	api, err := a.api(ctx)
	if err != nil {
		return Feed{}, err
	}
	channels, err := a.state.Channels(ctx)
	if err != nil {
		return Feed{}, err
	}

	res, err := loader.New(api,
		loader.WithConcurrency(a.concurrency),
		loader.WithPerChannel(a.perChannel),
		loader.WithLogger(a.logger),
	).Load(ctx, channels)
	if err != nil {
		return Feed{}, fmt.Errorf("failed to load videos: %w", err)
	}

	if err := a.state.SaveCache(ctx, res.Videos); err != nil {
		return Feed{}, fmt.Errorf("failed to cache videos: %w", err)
	}
	newCount, err := a.state.RecordVideoCount(ctx, len(res.Videos))
	if err != nil {
		return Feed{}, err
	}

	return Feed{
		Videos:       res.Videos,
		NewCount:     newCount,
		Channels:     len(channels),
		ChannelNames: res.ChannelNames,
		Failed:       res.Failed,
	}, nil
}

// BrowseOptions selects one page of the filtered feed.
type BrowseOptions struct {
	Query catalog.Query
	Page  int
	Size  int
	Force bool
}

// Listing is a page of the filtered feed.
type Listing struct {
	Feed Feed
	// Videos holds every video up to and including the requested page.
	Videos     []youtube.Video
	Total      int
	HasMore    bool
	Channels   []catalog.ChannelOption
	Favorites  []string
	WatchLater []string
}

// Browse filters and sorts the feed and returns the requested page.
func (a *App) Browse(ctx context.Context, opts BrowseOptions) (Listing, error) {
	snap, err := a.state.Load(ctx)
	if err != nil {
		return Listing{}, err
	}

	var feed Feed
	if opts.Force {
		feed, err = a.Refresh(ctx)
	} else {
		feed, err = a.cachedOrRefresh(ctx, snap.Cached, snap.CachedAt)
	}
	if err != nil {
		return Listing{}, err
	}

	q := opts.Query
	q.Favorites = snap.Favorites
	q.WatchLater = snap.WatchLater
	filtered := catalog.Apply(feed.Videos, q)
	page, more := catalog.Page(filtered, opts.Page, opts.Size)

	return Listing{
		Feed:       feed,
		Videos:     page,
		Total:      len(filtered),
		HasMore:    more,
		Channels:   catalog.Channels(feed.Videos),
		Favorites:  snap.Favorites,
		WatchLater: snap.WatchLater,
	}, nil
}

// ChannelStats counts feed videos per channel.
func (a *App) ChannelStats(ctx context.Context) ([]catalog.ChannelCount, error) {
	feed, err := a.Videos(ctx, false)
	if err != nil {
		return nil, err
	}
	return catalog.ChannelStats(feed.Videos), nil
}
