package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bneijt/dqp/pkg/queue"
)

// newLsCommand constructs the `ls` command listing a queue's segments.
func newLsCommand() *cobra.Command {
	lsCmd := &cobra.Command{
		Use:   "ls <queue>",
		Short: "List a queue's segment files in write order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			names, err := queue.Segments(e.cfg.DataDir, args[0])
			if err != nil {
				return err
			}

			type segmentInfo struct {
				Segment string `json:"segment"`
				Bytes   int64  `json:"bytes"`
			}
			out := struct {
				Queue    string        `json:"queue"`
				Segments []segmentInfo `json:"segments"`
			}{Queue: args[0], Segments: make([]segmentInfo, 0, len(names))}
			for _, n := range names {
				info, err := os.Stat(filepath.Join(e.cfg.DataDir, n))
				if err != nil {
					return err
				}
				out.Segments = append(out.Segments, segmentInfo{Segment: n, Bytes: info.Size()})
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	return lsCmd
}
