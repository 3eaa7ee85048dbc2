package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/kilianp07/dellve/config"
	"github.com/kilianp07/dellve/infra/logger"
	inframetrics "github.com/kilianp07/dellve/infra/metrics"
)

// cli carries state shared by the subcommands.
type cli struct {
	cfgPath     string
	metricsFile string
	// loaded is the file the store was loaded from, empty if none.
	loaded string
	store  *config.Store
	log    logger.Logger
	reg    prometheus.Registerer
	gather prometheus.Gatherer
}

// Execute runs the CLI.
func Execute() error { return newRootCmd(nil).Execute() }

// newRootCmd builds the command tree. Config metrics are registered on reg;
// a nil reg uses the default Prometheus registry.
func newRootCmd(reg *prometheus.Registry) *cobra.Command {
	c := &cli{reg: prometheus.DefaultRegisterer, gather: prometheus.DefaultGatherer}
	if reg != nil {
		c.reg, c.gather = reg, reg
	}
	root := &cobra.Command{
		Use:           "dellve",
		Short:         "Benchmark runner",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return c.writeMetrics()
		},
	}
	root.PersistentFlags().StringVarP(&c.cfgPath, "config", "c", "", "configuration file (.json, .yml or .yaml)")
	root.PersistentFlags().StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics in textfile format on exit")
	root.AddCommand(newConfigCmd(c), newBenchmarksCmd(c))
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	c.log = logger.NewZerologLogger("cli", cmd.ErrOrStderr())
	rec, err := inframetrics.NewPromRecorderWithRegistry(c.reg)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	store, err := config.New(config.WithLogger(c.log), config.WithRecorder(rec))
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}
	path, err := c.configFile(store.AppDir())
	if err != nil {
		return err
	}
	if path != "" {
		if err := store.LoadPath(path); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		c.loaded = path
	}
	if err := store.LoadEnv(config.EnvPrefix); err != nil {
		return fmt.Errorf("load environment: %w", err)
	}
	c.store = store
	return nil
}

// writeMetrics dumps the registry for the node exporter textfile collector.
func (c *cli) writeMetrics() error {
	if c.metricsFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(c.metricsFile, c.gather); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// configFile returns the explicit --config path, else the default file when
// it exists, else "".
func (c *cli) configFile(appDir string) (string, error) {
	if c.cfgPath != "" {
		return c.cfgPath, nil
	}
	def := config.DefaultConfigFile(appDir)
	if _, err := os.Stat(def); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("stat %s: %w", def, err)
	}
	return def, nil
}
