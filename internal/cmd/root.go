package cmd

import (
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/bneijt/dqp/internal/config"
	"github.com/bneijt/dqp/internal/metrics"
	"github.com/bneijt/dqp/pkg/log"
	"github.com/bneijt/dqp/pkg/queue"
)

// NewRoot constructs the root dqp command with all subcommands attached.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:   "dqp",
		Short: "Durable file-backed message queues",
		Long:  "dqp manages append-only queues of msgpack dictionaries stored as plain segment files in a project directory.",
	}

	root.PersistentFlags().String("config", os.Getenv("DQP_CONFIG"), "Config file (YAML or JSON)")
	root.PersistentFlags().String("data-dir", "", "Project directory (overrides config)")
	root.PersistentFlags().String("cache-dir", "", "Cache directory (overrides config)")
	root.PersistentFlags().Int("rotate-every-seconds", 0, "Segment rotation interval in seconds")
	root.PersistentFlags().Bool("sync-every-write", false, "Fsync the segment after every record")
	root.PersistentFlags().String("log-level", "", "Log level: debug|info|warn|error")
	root.PersistentFlags().String("log-format", "", "Log format: text|json")
	root.PersistentFlags().Bool("metrics", false, "Dump Prometheus counters to stderr on exit")

	root.AddCommand(
		newWriteCommand(),
		newReadCommand(),
		newLsCommand(),
		newTrimCommand(),
		newCheckpointCommand(),
		newCacheCommand(),
	)
	return root
}

// env holds the per-invocation runtime built from config file, environment
// and flags, in that order of precedence.
type env struct {
	cfg config.Config
	log log.Logger
	reg *prometheus.Registry
	col *metrics.Collector
}

func setup(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	config.FromEnv(&cfg)

	if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
		cfg.DataDir = v
	}
	if v, _ := cmd.Flags().GetString("cache-dir"); v != "" {
		cfg.CacheDir = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.LogFormat = v
	}
	if cmd.Flags().Changed("rotate-every-seconds") {
		cfg.RotateEverySeconds, _ = cmd.Flags().GetInt("rotate-every-seconds")
	}
	if cmd.Flags().Changed("sync-every-write") {
		cfg.SyncEveryWrite, _ = cmd.Flags().GetBool("sync-every-write")
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	e := &env{
		cfg: cfg,
		log: log.NewLogger(
			log.WithLevel(level),
			log.WithFormat(cfg.LogFormat),
			log.WithWriter(cmd.ErrOrStderr()),
		),
	}
	if dump, _ := cmd.Flags().GetBool("metrics"); dump {
		e.reg = prometheus.NewRegistry()
		e.col = metrics.NewCollector(e.reg)
	}
	return e, nil
}

func (e *env) openProject() (*queue.Project, error) {
	opts := queue.Options{
		Dir:            e.cfg.DataDir,
		RotateEvery:    e.cfg.RotateEvery(),
		SyncEveryWrite: e.cfg.SyncEveryWrite,
		Logger:         e.log,
	}
	if e.col != nil {
		opts.Observer = e.col
	}
	return queue.Open(opts)
}

// dumpMetrics writes the gathered counters in the Prometheus text format.
// It is a no-op unless --metrics was given.
func (e *env) dumpMetrics(w io.Writer) {
	if e.reg == nil {
		return
	}
	mfs, err := e.reg.Gather()
	if err != nil {
		e.log.Warn("gather metrics", log.Err(err))
		return
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			e.log.Warn("encode metrics", log.Err(err))
			return
		}
	}
}
