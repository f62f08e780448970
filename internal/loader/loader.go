// Package loader fetches the latest videos of every subscribed channel.
package loader

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/gauthierbraillon/tubeshelf/internal/youtube"
)

// DefaultConcurrency bounds how many channels are fetched at once.
const DefaultConcurrency = 4

// ErrNoChannelsLoaded is returned when every channel failed to load.
var ErrNoChannelsLoaded = errors.New("no channel could be loaded")

// Source is the part of the YouTube client the loader needs.
type Source interface {
	FetchChannel(ctx context.Context, channelID string) (youtube.Channel, error)
	FetchChannelVideos(ctx context.Context, channelID string, limit int) ([]youtube.Video, error)
}

// Result is the merged outcome of a load.
type Result struct {
	// Videos are unique by ID, newest first.
	Videos []youtube.Video
	// ChannelNames maps channel IDs to titles for channels that loaded.
	ChannelNames map[string]string
	// Failed maps channel IDs to the error that made them skip.
	Failed map[string]error
}

// Option configures the Loader.
type Option func(*Loader)

// WithConcurrency sets how many channels are fetched in parallel.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithPerChannel sets how many recent videos are requested per channel.
func WithPerChannel(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.perChannel = n
		}
	}
}

// WithLogger sets the logger used for per-channel failures.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// Loader loads channels concurrently and merges their videos.
type Loader struct {
	source      Source
	concurrency int
	perChannel  int
	logger      *slog.Logger
}

// New creates a Loader reading from source.
func New(source Source, opts ...Option) *Loader {
	l := &Loader{
		source:      source,
		concurrency: DefaultConcurrency,
		perChannel:  youtube.MaxResults,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type channelLoad struct {
	title  string
	videos []youtube.Video
	err    error
}

// Load fetches every channel and waits for all of them. A failing channel
// is logged and left out; the load only fails when no channel succeeds.
func (l *Loader) Load(ctx context.Context, channelIDs []string) (Result, error) {
	loads := make([]channelLoad, len(channelIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, id := range channelIDs {
		g.Go(func() error {
			title, videos, err := l.loadChannel(gctx, id)
			loads[i] = channelLoad{title: title, videos: videos, err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{
		Videos:       []youtube.Video{},
		ChannelNames: map[string]string{},
		Failed:       map[string]error{},
	}
	seen := make(map[string]bool)
	var firstErr error
	for i, load := range loads {
		id := channelIDs[i]
		if load.err != nil {
			l.logger.Warn("loader: skipping channel", slog.String("channel", id), slog.Any("error", load.err))
			res.Failed[id] = load.err
			if firstErr == nil {
				firstErr = load.err
			}
			continue
		}
		if load.title != "" {
			res.ChannelNames[id] = load.title
		}
		for _, v := range load.videos {
			if seen[v.ID] {
				continue
			}
			seen[v.ID] = true
			res.Videos = append(res.Videos, v)
		}
	}

	if len(channelIDs) > 0 && len(res.Failed) == len(channelIDs) {
		return res, fmt.Errorf("%w: %w", ErrNoChannelsLoaded, firstErr)
	}

	SortNewestFirst(res.Videos)
	l.logger.Info("loader: load complete",
		slog.Int("channels", len(channelIDs)-len(res.Failed)),
		slog.Int("failed", len(res.Failed)),
		slog.Int("videos", len(res.Videos)))
	return res, nil
}

func (l *Loader) loadChannel(ctx context.Context, id string) (string, []youtube.Video, error) {
	var title string
	ch, err := l.source.FetchChannel(ctx, id)
	switch {
	case err == nil:
		title = ch.Title
	case errors.Is(err, youtube.ErrChannelNotFound):
		// videos can still be listed without the channel's title
		l.logger.Debug("loader: channel details missing", slog.String("channel", id))
	default:
		return "", nil, fmt.Errorf("channel %s: %w", id, err)
	}

	videos, err := l.source.FetchChannelVideos(ctx, id, l.perChannel)
	if err != nil {
		return "", nil, fmt.Errorf("channel %s videos: %w", id, err)
	}
	return title, videos, nil
}

// SortNewestFirst orders videos by publish date, newest first.
func SortNewestFirst(videos []youtube.Video) {
	slices.SortStableFunc(videos, func(a, b youtube.Video) int {
		return cmp.Compare(b.PublishedAt.UnixNano(), a.PublishedAt.UnixNano())
	})
}
