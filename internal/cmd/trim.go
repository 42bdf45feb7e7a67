package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newTrimCommand constructs the `trim` command. It deletes every segment
// that sorts before the one named by --to; the named segment is kept.
func newTrimCommand() *cobra.Command {
	trimCmd := &cobra.Command{
		Use:   "trim <queue>",
		Short: "Delete consumed segments below a boundary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, _ := cmd.Flags().GetString("to")
			if to == "" {
				return fmt.Errorf("--to is required")
			}

			e, err := setup(cmd)
			if err != nil {
				return err
			}
			p, err := e.openProject()
			if err != nil {
				return err
			}
			src, err := p.OpenSource(args[0])
			if err != nil {
				p.Close()
				return err
			}
			if err := src.UnlinkTo(to); err != nil {
				p.Close()
				return err
			}
			if err := p.Close(); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "status:", "OK")
			return nil
		},
	}
	trimCmd.Flags().String("to", "", "Segment name or name prefix to keep (everything before it is deleted)")
	return trimCmd
}
