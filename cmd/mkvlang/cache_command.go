package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mkvlang/internal/tracker"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the processed-file tracker",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	cacheCmd.AddCommand(newCacheClearAllCommand(ctx))

	return cacheCmd
}

func openTracker(ctx *commandContext) (*tracker.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	return tracker.Open(cfg.TrackerDBPath())
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show tracked file counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openTracker(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Tracked files: %d\n", stats.Total)
			fmt.Fprintf(out, "  audio only:     %d\n", stats.AudioOnly)
			fmt.Fprintf(out, "  subtitles only: %d\n", stats.SubtitleOnly)
			fmt.Fprintf(out, "  both:           %d\n", stats.Both)
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <path>",
		Short: "Remove one file from tracking so it gets reprocessed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openTracker(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Clear(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared tracking for %s\n", args[0])
			return nil
		},
	}
}

func newCacheClearAllCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-all",
		Short: "Remove every tracked file",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openTracker(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.ClearAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared all tracking data")
			return nil
		},
	}
}
