package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bneijt/dqp/pkg/log"
)

// newWriteCommand constructs the `write` command. It reads one JSON object
// per line from stdin and appends each as a record to the queue.
func newWriteCommand() *cobra.Command {
	writeCmd := &cobra.Command{
		Use:   "write <queue>",
		Short: "Append JSON records from stdin to a queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.dumpMetrics(cmd.ErrOrStderr())

			p, err := e.openProject()
			if err != nil {
				return err
			}
			sink, err := p.OpenSink(args[0])
			if err != nil {
				p.Close()
				return err
			}

			dec := json.NewDecoder(bufio.NewReader(cmd.InOrStdin()))
			dec.UseNumber()
			var written int
			for {
				var rec map[string]any
				if err := dec.Decode(&rec); err != nil {
					if errors.Is(err, io.EOF) {
						break
					}
					p.Close()
					return fmt.Errorf("parse record %d: %w", written+1, err)
				}
				normalizeNumbers(rec)
				if err := sink.WriteDict(rec); err != nil {
					p.Close()
					return err
				}
				written++
			}
			if err := p.Close(); err != nil {
				return err
			}
			e.log.Info("records written", log.Str("queue", args[0]), log.Int("count", written))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", written, args[0])
			return nil
		},
	}
	return writeCmd
}

// normalizeNumbers converts json.Number values in place: integral numbers
// become int64, everything else float64. Records then round-trip through the
// msgpack codec without every count turning into a float.
func normalizeNumbers(rec map[string]any) {
	for k, v := range rec {
		rec[k] = normalizeValue(v)
	}
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		normalizeNumbers(t)
		return t
	case []any:
		for i, item := range t {
			t[i] = normalizeValue(item)
		}
		return t
	default:
		return v
	}
}
