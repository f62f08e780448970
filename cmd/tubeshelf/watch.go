package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/tubeshelf/internal/app"
	"github.com/gauthierbraillon/tubeshelf/internal/display"
	"github.com/gauthierbraillon/tubeshelf/internal/state"
	"github.com/gauthierbraillon/tubeshelf/internal/youtube"
)

// newWatchCmd creates the watch subcommand.
func newWatchCmd() *cobra.Command {
	var open, embed, subscribe bool

	cmd := &cobra.Command{
		Use:   "watch <video-url-or-id>",
		Short: "Quick-watch any YouTube video",
		Long:  "Show a video's details from a URL or ID. Works without an API key, with fewer details.",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			w, err := s.app.QuickWatch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			f := s.formatter(cmd.Context(), cmd.OutOrStdout())
			fmt.Fprint(cmd.OutOrStdout(), f.FormatWatch(w.Video, w.WatchURL, w.EmbedURL, w.Keyless))

			if subscribe {
				ids, err := s.app.Subscribe(cmd.Context(), w.Video)
				if errors.Is(err, state.ErrChannelExists) {
					return fmt.Errorf("channel %s is already in your list", w.Video.ChannelID)
				}
				if errors.Is(err, app.ErrNoChannel) {
					return fmt.Errorf("cannot subscribe: the channel of %s is unknown without an API key", w.Video.ID)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Subscribed to %s (%d channels). Run 'tubeshelf refresh' to load its videos.\n", w.Video.ChannelTitle, len(ids))
			}

			if open {
				target := w.WatchURL
				if embed {
					target = w.EmbedURL
				}
				if err := s.opener.Open(target); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Could not open browser. Please visit:\n%s\n", target)
				}
			}
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&open, "open", "o", false, "Open the video in the browser")
	cmd.Flags().BoolVarP(&embed, "embed", "e", false, "Open the embedded player instead of the watch page")
	cmd.Flags().BoolVarP(&subscribe, "subscribe", "s", false, "Add the video's channel to your channel list")

	return cmd
}

// newShareCmd creates the share subcommand.
func newShareCmd() *cobra.Command {
	var to string
	var open bool

	cmd := &cobra.Command{
		Use:   "share <video-url-or-id>",
		Short: "Get share links for a video",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			var targets []app.ShareTarget
			if to != "" {
				t, err := app.ParseShareTarget(to)
				if err != nil {
					return err
				}
				targets = append(targets, t)
			}

			v, links, err := s.app.Share(cmd.Context(), args[0], targets...)
			if err != nil {
				return err
			}

			lines := make([]display.ShareLine, 0, len(links))
			for _, l := range links {
				lines = append(lines, display.ShareLine{Target: string(l.Target), URL: l.URL})
			}
			fmt.Fprint(cmd.OutOrStdout(), s.formatter(cmd.Context(), cmd.OutOrStdout()).FormatShare(v, lines))

			if open {
				if len(links) != 1 {
					return fmt.Errorf("--open needs a single --to target")
				}
				if err := s.opener.Open(links[0].URL); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Could not open browser. Please visit:\n%s\n", links[0].URL)
				}
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&to, "to", "t", "", "Share target (facebook, twitter, whatsapp, telegram, copy)")
	cmd.Flags().BoolVarP(&open, "open", "o", false, "Open the share link in the browser")

	return cmd
}

// newSearchCmd creates the search subcommand.
func newSearchCmd() *cobra.Command {
	var order, duration string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search all of YouTube (needs an API key)",
		Args:  cobra.MinimumNArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			switch order {
			case "relevance", "date", "viewCount", "rating":
			default:
				return fmt.Errorf("invalid order %q: must be relevance, date, viewCount or rating", order)
			}
			switch duration {
			case "any", "short", "medium", "long":
			default:
				return fmt.Errorf("invalid duration %q: must be any, short, medium or long", duration)
			}

			query := strings.Join(args, " ")
			results, err := s.app.SmartSearch(cmd.Context(), youtube.SearchOptions{
				Query:    query,
				Order:    order,
				Duration: duration,
				Max:      limit,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), s.formatter(cmd.Context(), cmd.OutOrStdout()).FormatSearchResults(query, results))
			return nil
		}),
	}

	cmd.Flags().StringVar(&order, "order", "relevance", "Result order (relevance, date, viewCount, rating)")
	cmd.Flags().StringVarP(&duration, "duration", "d", "any", "Video length (any, short, medium, long)")
	cmd.Flags().IntVarP(&limit, "limit", "l", app.SearchResults, "Maximum number of results")

	return cmd
}

// newTrendingCmd creates the trending subcommand.
func newTrendingCmd() *cobra.Command {
	var region string
	var limit int

	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Show the most popular videos (needs an API key)",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			if !cmd.Flags().Changed("region") {
				region = s.cfg.Region
			}
			videos, err := s.app.Trending(cmd.Context(), region, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), s.formatter(cmd.Context(), cmd.OutOrStdout()).FormatTrending(region, videos))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&region, "region", "r", "", "Two-letter region code (empty for worldwide)")
	cmd.Flags().IntVarP(&limit, "limit", "l", app.TrendingResults, "Maximum number of videos")

	return cmd
}

// newMonitorCmd creates the monitor subcommand.
func newMonitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Watch for new uploads until interrupted",
		Long:  "Check the first subscribed channel for new uploads on an interval and reload everything when some appear.",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			interval := s.cfg.CheckInterval
			fmt.Fprintf(cmd.OutOrStdout(), "Checking for new videos every %s. Press Ctrl+C to stop.\n", interval)

			f := s.formatter(ctx, cmd.OutOrStdout())
			return s.app.Monitor(ctx, interval, func(c app.Check) {
				fmt.Fprintf(cmd.OutOrStdout(), "%d new videos published!\n", c.Found)
				if c.Feed != nil && len(c.Feed.Videos) > 0 {
					fmt.Fprint(cmd.OutOrStdout(), f.FormatVideo(c.Feed.Videos[0], display.Marks{}))
				}
			})
		}),
	}
	return cmd
}
