package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/tubeshelf/internal/app"
	"github.com/gauthierbraillon/tubeshelf/internal/catalog"
	"github.com/gauthierbraillon/tubeshelf/internal/display"
	"github.com/gauthierbraillon/tubeshelf/internal/state"
)

// newVideosCmd creates the videos subcommand.
func newVideosCmd() *cobra.Command {
	var view, channel, text, duration, sortKey string
	var page int
	var refresh, listChannels bool

	cmd := &cobra.Command{
		Use:   "videos",
		Short: "List the latest videos of your channels",
		Long:  "List videos from every subscribed channel, newest first. Results are cached for 30 minutes.",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			q, err := parseQuery(view, channel, text, duration, sortKey)
			if err != nil {
				return err
			}
			if listChannels {
				listing, err := s.app.Browse(cmd.Context(), app.BrowseOptions{Query: q, Force: refresh})
				if err != nil {
					return err
				}
				reportFailures(cmd, listing.Feed)
				fmt.Fprint(cmd.OutOrStdout(), s.formatter(cmd.Context(), cmd.OutOrStdout()).FormatChannelOptions(listing.Channels))
				return nil
			}
			return browse(cmd, s, q, page, refresh)
		}),
	}

	cmd.Flags().StringVarP(&view, "view", "v", "all", "Which videos to show (all, favorites, watch-later)")
	cmd.Flags().StringVarP(&channel, "channel", "c", "", "Only show videos from this channel ID")
	cmd.Flags().StringVarP(&text, "search", "q", "", "Only show videos whose title, channel or description contains this text")
	cmd.Flags().StringVarP(&duration, "duration", "d", "all", "Filter by length (all, short, medium, long)")
	cmd.Flags().StringVarP(&sortKey, "sort", "s", "date", "Sort order (date, views, likes, duration-short, duration-long)")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Show this many pages of results")
	cmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "Ignore the cache and reload from YouTube")
	cmd.Flags().BoolVar(&listChannels, "list-channels", false, "List the channels in the loaded videos, for use with --channel")

	return cmd
}

func parseQuery(view, channel, text, duration, sortKey string) (catalog.Query, error) {
	v, err := catalog.ParseView(view)
	if err != nil {
		return catalog.Query{}, err
	}
	d, err := catalog.ParseDurationBucket(duration)
	if err != nil {
		return catalog.Query{}, err
	}
	k, err := catalog.ParseSortKey(sortKey)
	if err != nil {
		return catalog.Query{}, err
	}
	return catalog.Query{View: v, Channel: channel, Text: text, Duration: d, Sort: k}, nil
}

// browse prints one page of the filtered feed.
func browse(cmd *cobra.Command, s *session, q catalog.Query, page int, refresh bool) error {
	if page < 1 {
		page = 1
	}
	listing, err := s.app.Browse(cmd.Context(), app.BrowseOptions{
		Query: q,
		Page:  page,
		Size:  s.cfg.PageSize,
		Force: refresh,
	})
	if err != nil {
		return err
	}
	reportFailures(cmd, listing.Feed)

	out := s.formatter(cmd.Context(), cmd.OutOrStdout()).FormatFeed(display.Feed{
		Videos:     listing.Videos,
		Total:      listing.Total,
		Page:       page,
		HasMore:    listing.HasMore,
		Favorites:  listing.Favorites,
		WatchLater: listing.WatchLater,
		FromCache:  listing.Feed.FromCache,
		CachedAt:   listing.Feed.CachedAt,
		NewCount:   listing.Feed.NewCount,
	})
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func reportFailures(cmd *cobra.Command, feed app.Feed) {
	for id, err := range feed.Failed {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: channel %s skipped: %v\n", id, err)
	}
}

// newRefreshCmd creates the refresh subcommand.
func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Reload every channel from YouTube",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			feed, err := s.app.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			reportFailures(cmd, feed)

			loaded := feed.Channels - len(feed.Failed)
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d videos from %d channels.\n", len(feed.Videos), loaded)
			if feed.NewCount > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d new videos since the last refresh.\n", feed.NewCount)
			}
			return nil
		}),
	}
}

// newChannelsCmd creates the channels subcommand.
func newChannelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "Manage subscribed channels",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List subscribed channels",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			ids, err := s.state.Channels(cmd.Context())
			if err != nil {
				return err
			}
			titles := map[string]string{}
			if cached, _, err := s.state.LoadCache(cmd.Context()); err == nil {
				for _, ch := range catalog.Channels(cached) {
					titles[ch.ID] = ch.Title
				}
			}
			lines := make([]display.ChannelLine, 0, len(ids))
			for _, id := range ids {
				lines = append(lines, display.ChannelLine{ID: id, Title: titles[id], Default: state.IsDefaultChannel(id)})
			}
			fmt.Fprint(cmd.OutOrStdout(), s.formatter(cmd.Context(), cmd.OutOrStdout()).FormatChannels(lines))
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <channel-id>",
		Short: "Subscribe to a channel (ID starting with UC)",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			ids, err := s.state.AddChannel(cmd.Context(), args[0])
			if errors.Is(err, state.ErrChannelExists) {
				return fmt.Errorf("channel %s is already in your list", strings.TrimSpace(args[0]))
			}
			if err != nil {
				return err
			}
			if err := s.state.InvalidateCache(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added channel %s (%d channels).\n", strings.TrimSpace(args[0]), len(ids))
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <channel-id>",
		Short: "Unsubscribe from a channel",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			ids, err := s.state.RemoveChannel(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			if err := s.state.InvalidateCache(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed channel %s (%d channels).\n", strings.TrimSpace(args[0]), len(ids))
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore the default channel list",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			ids, err := s.state.ResetChannels(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.state.InvalidateCache(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored the %d default channels.\n", len(ids))
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Count loaded videos per channel",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			stats, err := s.app.ChannelStats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), s.formatter(cmd.Context(), cmd.OutOrStdout()).FormatChannelStats(stats))
			return nil
		}),
	})

	return cmd
}
