package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lyricalign/internal/aligncache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the alignment cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func openCache(cmd *cobra.Command, ctx *commandContext) (*aligncache.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Cache.Enabled {
		fmt.Fprintln(cmd.ErrOrStderr(), "note: cache.enabled is false; alignments are not being cached")
	}
	return aligncache.Open(cmd.Context(), cfg.Cache.Path)
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show alignment cache usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache(cmd, ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, map[string]any{
					"path":    stats.Path,
					"entries": stats.Entries,
					"words":   stats.Words,
					"hits":    stats.Hits,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Path:    %s\n", stats.Path)
			fmt.Fprintf(out, "Entries: %d\n", stats.Entries)
			fmt.Fprintf(out, "Words:   %d\n", stats.Words)
			fmt.Fprintf(out, "Hits:    %d\n", stats.Hits)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached alignment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache(cmd, ctx)
			if errors.Is(err, aligncache.ErrSchemaMismatch) {
				if err := aligncache.Remove(ctx.config.Cache.Path); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Removed outdated alignment cache")
				return nil
			}
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached alignment(s)\n", removed)
			return nil
		},
	}
}
