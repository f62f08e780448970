package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/tubeshelf/internal/catalog"
	"github.com/gauthierbraillon/tubeshelf/internal/state"
)

// newFavoritesCmd creates the favorites subcommand.
func newFavoritesCmd() *cobra.Command {
	return newVideoListCmd(videoList{
		use:    "favorites",
		short:  "Show or change favorite videos",
		label:  "favorites",
		view:   catalog.ViewFavorites,
		toggle: (*state.State).ToggleFavorite,
	})
}

// newWatchLaterCmd creates the watch-later subcommand.
func newWatchLaterCmd() *cobra.Command {
	return newVideoListCmd(videoList{
		use:    "watch-later",
		short:  "Show or change the watch later list",
		label:  "watch later",
		view:   catalog.ViewWatchLater,
		toggle: (*state.State).ToggleWatchLater,
	})
}

type videoList struct {
	use, short, label string
	view              catalog.View
	toggle            func(*state.State, context.Context, string) (bool, error)
}

func newVideoListCmd(l videoList) *cobra.Command {
	cmd := &cobra.Command{
		Use:   l.use,
		Short: l.short,
	}

	var page int
	list := &cobra.Command{
		Use:   "list",
		Short: "List videos in " + l.label,
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			return browse(cmd, s, catalog.Query{View: l.view}, page, false)
		}),
	}
	list.Flags().IntVarP(&page, "page", "p", 1, "Show this many pages of results")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <video-url-or-id>",
		Short: "Add a video to " + l.label + ", or remove it if already there",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			id, err := videoID(args[0])
			if err != nil {
				return err
			}
			added, err := l.toggle(s.state, cmd.Context(), id)
			if err != nil {
				return err
			}
			if added {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s.\n", id, l.label)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s.\n", id, l.label)
			}
			return nil
		}),
	})

	return cmd
}

// newLibraryCmd creates the library subcommand.
func newLibraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage your saved video library",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved videos, newest first",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			videos, err := s.state.Library(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), s.formatter(cmd.Context(), cmd.OutOrStdout()).FormatLibrary(videos))
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <video-url-or-id>",
		Short: "Save a video to the library",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			v, err := s.app.SaveToLibrary(cmd.Context(), args[0])
			if errors.Is(err, state.ErrAlreadyInLibrary) {
				return fmt.Errorf("%s is already in your library", v.ID)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %q to your library.\n", v.Title)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <video-url-or-id>",
		Short: "Remove a video from the library",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			id, err := videoID(args[0])
			if err != nil {
				return err
			}
			if _, err := s.state.RemoveFromLibrary(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from your library.\n", id)
			return nil
		}),
	})

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every video from the library",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			if !yes {
				return fmt.Errorf("refusing to clear the library without --yes")
			}
			n, err := s.state.ClearLibrary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d videos from your library.\n", n)
			return nil
		}),
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm clearing the library")
	cmd.AddCommand(clearCmd)

	return cmd
}
