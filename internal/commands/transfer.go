package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tick/internal/store"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write all tasks to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			n, err := s.Export(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks to %s\n", n, args[0])
			return nil
		}),
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add tasks from a JSON file",
		Long: `Add every task from a JSON file written by 'tick export' or by the
older description/status format. Tasks whose id is already taken get the
next free id; existing tasks are never overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			n, err := s.Import(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks from %s\n", n, args[0])
			return nil
		}),
	}
}
