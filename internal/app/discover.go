package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gauthierbraillon/tubeshelf/internal/youtube"
)

// Result sizes used by the discovery screens.
const (
	SearchResults   = 20
	TrendingResults = 20
	newVideoBatch   = 5
)

// DefaultCheckInterval is how often Monitor looks for new uploads.
const DefaultCheckInterval = 5 * time.Minute

// SmartSearch searches all of YouTube. It needs an API key.
func (a *App) SmartSearch(ctx context.Context, opts youtube.SearchOptions) ([]youtube.SearchResult, error) {
	opts.Query = strings.TrimSpace(opts.Query)
	if opts.Query == "" {
		return nil, ErrEmptyQuery
	}
	if opts.Max <= 0 {
		opts.Max = SearchResults
	}
	if opts.Order == "" {
		opts.Order = "relevance"
	}

	api, err := a.api(ctx)
	if err != nil {
		return nil, err
	}
	return api.Search(ctx, opts)
}

// Trending lists the most popular videos, worldwide when region is empty.
// It needs an API key.
func (a *App) Trending(ctx context.Context, region string, limit int) ([]youtube.Video, error) {
	if limit <= 0 {
		limit = TrendingResults
	}
	api, err := a.api(ctx)
	if err != nil {
		return nil, err
	}
	return api.Trending(ctx, region, limit)
}

// Check is the outcome of one new-video check.
type Check struct {
	// Found is how many uploads are newer than the newest known video.
	Found int
	// Feed is the reloaded feed when Found > 0.
	Feed *Feed
}

// CheckForNew asks the first subscribed channel for uploads newer than the
// newest video in current, and reloads everything when there are some.
// It does nothing when current is empty.
func (a *App) CheckForNew(ctx context.Context, current []youtube.Video) (Check, error) {
	if len(current) == 0 {
		return Check{}, nil
	}
	api, err := a.api(ctx)
	if err != nil {
		return Check{}, err
	}
	channels, err := a.state.Channels(ctx)
	if err != nil || len(channels) == 0 {
		return Check{}, err
	}

	latest := current[0].PublishedAt
	for _, v := range current[1:] {
		if v.PublishedAt.After(latest) {
			latest = v.PublishedAt
		}
	}

	fresh, err := api.NewSince(ctx, channels[0], latest, newVideoBatch)
	if err != nil {
		return Check{}, err
	}
	// the newest known video itself may be echoed back
	found := 0
	for _, r := range fresh {
		if r.PublishedAt.After(latest) {
			found++
		}
	}
	if found == 0 {
		return Check{}, nil
	}

	a.logger.Info("app: new videos published", slog.Int("found", found))
	feed, err := a.Refresh(ctx)
	if err != nil {
		return Check{Found: found}, err
	}
	return Check{Found: found, Feed: &feed}, nil
}

// Monitor loads the feed, then checks for new uploads every interval until
// ctx is done. notify is called after each check that found something.
// Failed checks are logged and retried on the next tick.
func (a *App) Monitor(ctx context.Context, interval time.Duration, notify func(Check)) error {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	if _, err := a.api(ctx); err != nil {
		return err
	}

	feed, err := a.Videos(ctx, false)
	if err != nil {
		return err
	}
	current := feed.Videos

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			check, err := a.CheckForNew(ctx, current)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				a.logger.Warn("app: new-video check failed", slog.Any("error", err))
				continue
			}
			if check.Found == 0 {
				continue
			}
			if check.Feed != nil {
				current = check.Feed.Videos
			}
			if notify != nil {
				notify(check)
			}
		}
	}
}
