package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bneijt/dqp/pkg/queue"
)

// newCheckpointCommand constructs the `checkpoint` command showing a queue's
// saved read position.
func newCheckpointCommand() *cobra.Command {
	checkpointCmd := &cobra.Command{
		Use:   "checkpoint <queue>",
		Short: "Show a queue's saved checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			pos, ok, err := queue.NewCheckpointStore(e.cfg.DataDir).Load(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no checkpoint for queue %q", args[0])
			}
			out := struct {
				Queue   string `json:"queue"`
				Segment string `json:"segment"`
				Index   int64  `json:"index"`
			}{Queue: args[0], Segment: pos.Segment, Index: pos.Index}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	return checkpointCmd
}
