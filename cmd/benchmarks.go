package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/dellve/core/plugins"
)

func newBenchmarksCmd(c *cli) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "benchmarks",
		Short: "List the available benchmark plugins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				refs []plugins.Ref
				err  error
			)
			if refresh {
				refs, err = c.store.RefreshBenchmarks()
			} else {
				refs, err = c.store.Benchmarks()
			}
			if err != nil {
				return err
			}
			if len(refs) == 0 {
				c.log.Warnf("no benchmarks registered")
				return nil
			}
			for _, r := range refs {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), r.String()); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "run plugin discovery again, ignoring configured benchmarks")
	return cmd
}
