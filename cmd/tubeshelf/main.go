// Package main provides the tubeshelf CLI entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/tubeshelf/internal/app"
	"github.com/gauthierbraillon/tubeshelf/internal/config"
	"github.com/gauthierbraillon/tubeshelf/internal/display"
	"github.com/gauthierbraillon/tubeshelf/internal/state"
	"github.com/gauthierbraillon/tubeshelf/internal/store"
	"github.com/gauthierbraillon/tubeshelf/internal/youtube"
	"github.com/gauthierbraillon/tubeshelf/pkg/browser"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveVersion prefers the ldflags version and falls back to the module
// version recorded by go install.
func resolveVersion(v string, info *debug.BuildInfo) string {
	if v != "dev" {
		return v
	}
	if info == nil || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}

// newRootCmd creates the root command for the tubeshelf CLI.
func newRootCmd() *cobra.Command {
	info, _ := debug.ReadBuildInfo()

	rootCmd := &cobra.Command{
		Use:          "tubeshelf",
		Short:        "Browse the latest videos of your favorite YouTube channels",
		Long:         "Tubeshelf follows a list of YouTube channels, caches their latest videos and lets you filter, sort, bookmark and share them from the terminal.",
		Version:      resolveVersion(version, info),
		SilenceUsage: true,
	}

	rootCmd.SetVersionTemplate("tubeshelf version {{.Version}}\n")

	rootCmd.AddCommand(newVideosCmd())
	rootCmd.AddCommand(newRefreshCmd())
	rootCmd.AddCommand(newChannelsCmd())
	rootCmd.AddCommand(newFavoritesCmd())
	rootCmd.AddCommand(newWatchLaterCmd())
	rootCmd.AddCommand(newLibraryCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newShareCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newTrendingCmd())
	rootCmd.AddCommand(newMonitorCmd())
	rootCmd.AddCommand(newKeyCmd())
	rootCmd.AddCommand(newThemeCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// session is everything a command needs, built from configuration.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	store  store.Store
	state  *state.State
	app    *app.App
	opener *browser.Opener
}

// newSession loads configuration and opens the store.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel}))

	st, err := store.Open(cmd.Context(), store.Options{
		Backend:  cfg.Store,
		Dir:      cfg.ConfigDir,
		RedisURL: cfg.RedisURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store, err)
	}

	shelf := state.New(st, state.WithCacheTTL(cfg.CacheTTL))

	clientOpts := []youtube.ClientOption{
		youtube.WithBaseURL(cfg.APIURL),
		youtube.WithRateLimit(cfg.RateLimit),
		youtube.WithLogger(logger),
	}
	resolver := youtube.NewResolver(
		youtube.WithSiteURL(cfg.SiteURL),
		youtube.WithResolverLogger(logger),
	)

	a := app.New(shelf,
		app.WithAPI(func(apiKey string) app.API {
			return youtube.NewClient(apiKey, clientOpts...)
		}),
		app.WithResolver(resolver),
		app.WithEnvAPIKey(cfg.APIKey),
		app.WithConcurrency(cfg.Concurrency),
		app.WithPerChannel(cfg.PerChannel),
		app.WithLogger(logger),
	)

	return &session{
		cfg:    cfg,
		logger: logger,
		store:  st,
		state:  shelf,
		app:    a,
		opener: browser.New(),
	}, nil
}

// Close releases the store.
func (s *session) Close() {
	if c, ok := s.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			s.logger.Warn("failed to close store", slog.Any("error", err))
		}
	}
}

// formatter returns a terminal formatter in the user's theme.
func (s *session) formatter(ctx context.Context, w io.Writer) *display.TerminalFormatter {
	theme, err := s.state.Theme(ctx)
	if err != nil {
		theme = state.ThemeLight
	}
	return display.NewTerminalFormatter(w, display.WithTheme(theme))
}

// withSession runs fn with an open session.
func withSession(fn func(cmd *cobra.Command, args []string, s *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(cmd, args, s)
	}
}

// videoID extracts a video ID from a URL or ID argument.
func videoID(input string) (string, error) {
	id := youtube.ExtractVideoID(input)
	if id == "" {
		return "", fmt.Errorf("%w: %q", app.ErrInvalidVideo, input)
	}
	return id, nil
}
