package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newKeyCmd creates the key subcommand.
func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the YouTube Data API key",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <api-key>",
		Short: "Save the API key",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			if err := s.state.SetAPIKey(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key saved. Run 'tubeshelf videos' to load your channels.")
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Forget the saved API key",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			if err := s.state.ResetAPIKey(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key removed.")
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show which API key is in use, masked",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			stored, err := s.state.APIKey(cmd.Context())
			if err != nil {
				return err
			}
			switch {
			case stored != "":
				fmt.Fprintf(cmd.OutOrStdout(), "API key: %s (saved)\n", maskKey(stored))
			case s.cfg.APIKey != "":
				fmt.Fprintf(cmd.OutOrStdout(), "API key: %s (from YOUTUBE_API_KEY)\n", maskKey(s.cfg.APIKey))
			default:
				fmt.Fprintln(cmd.OutOrStdout(), "No API key set. Quick watch still works; run 'tubeshelf key set <key>' for everything else.")
			}
			return nil
		}),
	})

	return cmd
}

// maskKey hides all but the last four characters of a key.
func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

// newThemeCmd creates the theme subcommand.
func newThemeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show the colour theme",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			theme, err := s.state.Theme(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", theme)
			return nil
		}),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			theme, err := s.state.ToggleTheme(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", theme)
			return nil
		}),
	})

	return cmd
}

// newConfigCmd creates the config subcommand.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
		Long:  "Show tubeshelf configuration. Settings come from TUBESHELF_* environment variables or a .env file.",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config directory: %s\n", s.cfg.ConfigDir)
			fmt.Fprintf(out, "Store:            %s\n", s.cfg.Store)
			fmt.Fprintf(out, "API URL:          %s\n", s.cfg.APIURL)
			fmt.Fprintf(out, "Cache TTL:        %s\n", s.cfg.CacheTTL)
			fmt.Fprintf(out, "Page size:        %d\n", s.cfg.PageSize)
			fmt.Fprintf(out, "Per channel:      %d videos\n", s.cfg.PerChannel)
			fmt.Fprintf(out, "Check interval:   %s\n", s.cfg.CheckInterval)
			fmt.Fprintf(out, "Rate limit:       %g req/s\n", s.cfg.RateLimit)
			return nil
		}),
	}

	return cmd
}
