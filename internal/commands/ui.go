package commands

import (
	"github.com/spf13/cobra"

	"github.com/balkashynov/tick/internal/store"
	"github.com/balkashynov/tick/internal/tui"
)

func newUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Browse tasks interactively",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			return tui.RunTaskBrowser(s, a.now)
		}),
	}
}
