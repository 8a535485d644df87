package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tick/internal/store"
)

func newSearchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search tasks by title or description",
		Long: `Search tasks whose title or description contains the query.

Search is case insensitive.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			query := strings.Join(args, " ")
			jsonOutput, _ := cmd.Flags().GetBool("json")

			tasks := s.Search(query)
			out := cmd.OutOrStdout()
			if jsonOutput {
				return renderJSON(out, tasks)
			}

			fmt.Fprintf(out, "Search results for '%s' (%d found):\n", query, len(tasks))
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks found matching your search.")
				return nil
			}
			fmt.Fprintln(out)
			renderTaskTable(out, tasks, a.now())
			return nil
		}),
	}

	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}
