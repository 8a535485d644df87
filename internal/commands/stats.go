package commands

import (
	"github.com/spf13/cobra"

	"github.com/balkashynov/tick/internal/store"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task statistics",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			renderStats(cmd.OutOrStdout(), s.Stats())
			return nil
		}),
	}
}
