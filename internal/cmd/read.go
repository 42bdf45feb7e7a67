package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// newReadCommand constructs the `read` command. Records are printed to
// stdout as one JSON object per line, in write order.
func newReadCommand() *cobra.Command {
	readCmd := &cobra.Command{
		Use:   "read <queue>",
		Short: "Read records from a queue as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resume, _ := cmd.Flags().GetBool("resume")
			limit, _ := cmd.Flags().GetInt("limit")
			positions, _ := cmd.Flags().GetBool("positions")
			cleanup, _ := cmd.Flags().GetBool("cleanup")

			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.dumpMetrics(cmd.ErrOrStderr())

			p, err := e.openProject()
			if err != nil {
				return err
			}
			open := p.OpenSource
			if resume {
				open = p.ContinueSource
			}
			src, err := open(args[0])
			if err != nil {
				p.Close()
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			var read int
			for src.Next() {
				entry := src.Entry()
				if positions {
					err = enc.Encode(struct {
						Segment string         `json:"segment"`
						Index   int64          `json:"index"`
						Record  map[string]any `json:"record"`
					}{entry.Segment, entry.Index, entry.Record})
				} else {
					err = enc.Encode(entry.Record)
				}
				if err != nil {
					p.Close()
					return err
				}
				read++
				if limit > 0 && read >= limit {
					break
				}
			}
			if err := src.Err(); err != nil {
				p.Close()
				return err
			}
			if cleanup {
				if _, ok := src.Position(); ok {
					if err := src.UnlinkConsumed(); err != nil {
						p.Close()
						return err
					}
				}
			}
			return p.Close()
		},
	}
	readCmd.Flags().Bool("resume", false, "Resume after the saved checkpoint instead of reading from the start")
	readCmd.Flags().Int("limit", 0, "Stop after N records (0 = all)")
	readCmd.Flags().Bool("positions", false, "Wrap each record with its segment and index")
	readCmd.Flags().Bool("cleanup", false, "Unlink fully consumed segments after reading")
	return readCmd
}
