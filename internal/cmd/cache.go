package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bneijt/dqp/pkg/diskcache"
)

// newCacheCommand constructs the `cache` command group.
func newCacheCommand() *cobra.Command {
	cacheCmd := &cobra.Command{Use: "cache", Short: "Disk cache operations"}
	cacheCmd.AddCommand(newCacheClearCommand())
	return cacheCmd
}

// newCacheClearCommand constructs the `cache clear` subcommand.
func newCacheClearCommand() *cobra.Command {
	clearCmd := &cobra.Command{
		Use:   "clear <key>",
		Short: "Delete the cache file for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			if err := diskcache.Remove(e.cfg.CacheDir, args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "status:", "OK")
			return nil
		},
	}
	return clearCmd
}
