package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tick/internal/models"
	"github.com/balkashynov/tick/internal/store"
)

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks",
		Long: `List tasks with optional filters and sorting.

Filters combine: --status done --priority high shows completed high
priority tasks. Sort keys: ` + strings.Join(store.SortKeys, ", ") + ` (date is an alias for created_at).`,
		Args: cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			opts, err := filterFromFlags(cmd)
			if err != nil {
				return err
			}
			sortBy, _ := cmd.Flags().GetString("sort")
			reverse, _ := cmd.Flags().GetBool("reverse")
			jsonOutput, _ := cmd.Flags().GetBool("json")

			tasks, err := listTasks(s, opts, sortBy, reverse)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return renderJSON(out, tasks)
			}
			if len(tasks) == 0 {
				if len(s.GetAll()) == 0 {
					fmt.Fprintln(out, "No tasks found. Use 'tick add \"task title\"' to create your first task.")
				} else {
					fmt.Fprintln(out, "No tasks match the given filters.")
				}
				return nil
			}
			renderTaskTable(out, tasks, a.now())
			return nil
		}),
	}

	cmd.Flags().StringP("status", "s", "all", "Filter by status: all, pending, done")
	cmd.Flags().StringP("priority", "p", "", "Filter by priority: low, medium, high")
	cmd.Flags().StringP("tag", "t", "", "Filter by tag (exact, case-sensitive)")
	cmd.Flags().StringP("sort", "o", "", "Sort by: "+strings.Join(store.SortKeys, ", "))
	cmd.Flags().BoolP("reverse", "r", false, "Reverse the sort order")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func filterFromFlags(cmd *cobra.Command) (store.FilterOptions, error) {
	var opts store.FilterOptions

	status, _ := cmd.Flags().GetString("status")
	switch strings.ToLower(status) {
	case "", "all":
	case "done", "completed", "complete":
		done := true
		opts.Status = &done
	case "pending", "todo", "incomplete":
		done := false
		opts.Status = &done
	default:
		return opts, fmt.Errorf("invalid status '%s'. Use: all, pending, or done", status)
	}

	if priority, _ := cmd.Flags().GetString("priority"); priority != "" {
		p, ok := models.ParsePriority(priority)
		if !ok {
			return opts, fmt.Errorf("invalid priority '%s'. Use: low, medium, or high", priority)
		}
		opts.Priority = &p
	}

	if tag, _ := cmd.Flags().GetString("tag"); tag != "" {
		opts.Tag = &tag
	}
	return opts, nil
}

// listTasks filters and then orders the collection
func listTasks(s *store.Store, opts store.FilterOptions, sortBy string, reverse bool) ([]models.Task, error) {
	filtered := s.Filter(opts)
	if sortBy == "" {
		if reverse {
			for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
				filtered[i], filtered[j] = filtered[j], filtered[i]
			}
		}
		return filtered, nil
	}
	if !validSortKey(sortBy) {
		return nil, fmt.Errorf("invalid sort key '%s'. Use: %s", sortBy, strings.Join(store.SortKeys, ", "))
	}

	keep := make(map[int]bool, len(filtered))
	for _, t := range filtered {
		keep[t.ID] = true
	}
	sorted := s.Sort(sortBy, reverse)
	out := make([]models.Task, 0, len(filtered))
	for _, t := range sorted {
		if keep[t.ID] {
			out = append(out, t)
		}
	}
	return out, nil
}

func validSortKey(key string) bool {
	if key == "date" {
		return true
	}
	for _, k := range store.SortKeys {
		if k == key {
			return true
		}
	}
	return false
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task_id>",
		Short: "Show every field of a task",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			task, ok := s.GetByID(id)
			if !ok {
				return taskNotFound(id)
			}
			renderTaskDetail(cmd.OutOrStdout(), task, a.now())
			return nil
		}),
	}
}
