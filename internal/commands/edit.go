package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tick/internal/models"
	"github.com/balkashynov/tick/internal/parser"
	"github.com/balkashynov/tick/internal/store"
)

func newEditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <task_id>",
		Short: "Edit an existing task",
		Long: `Edit fields of an existing task. Only the flags you pass are changed.

Usage:
  tick edit 42 --title "New title"
  tick edit 42 --priority high --tags work,urgent
  tick edit 42 --clear-due`,
		Args: cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			if _, ok := s.GetByID(id); !ok {
				return taskNotFound(id)
			}

			req, err := a.updateFromFlags(cmd)
			if err != nil {
				return err
			}
			clearDue, _ := cmd.Flags().GetBool("clear-due")
			if req == (store.UpdateTaskRequest{}) && !clearDue {
				return fmt.Errorf("nothing to change. Use --title, --desc, --priority, --tags, --due or --clear-due")
			}

			if req != (store.UpdateTaskRequest{}) {
				if _, err := s.Update(id, req); err != nil {
					return fmt.Errorf("failed to update task #%d: %w", id, err)
				}
			}
			if clearDue {
				if _, err := s.ClearDueDate(id); err != nil {
					return fmt.Errorf("failed to update task #%d: %w", id, err)
				}
			}

			task, _ := s.GetByID(id)
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d: %s\n", task.ID, task.Title)
			return nil
		}),
	}

	cmd.Flags().String("title", "", "New title")
	cmd.Flags().StringP("desc", "d", "", "New description")
	cmd.Flags().StringP("priority", "p", "", "New priority: low, medium, high")
	cmd.Flags().StringSliceP("tags", "t", []string{}, "Replace tags (comma-separated, empty to clear)")
	cmd.Flags().String("due", "", "New due date")
	cmd.Flags().Bool("clear-due", false, "Remove the due date")
	return cmd
}

// updateFromFlags maps the flags that were set to an update request
func (a *app) updateFromFlags(cmd *cobra.Command) (store.UpdateTaskRequest, error) {
	var req store.UpdateTaskRequest
	flags := cmd.Flags()

	if flags.Changed("title") {
		title, _ := flags.GetString("title")
		req.Title = &title
	}
	if flags.Changed("desc") {
		desc, _ := flags.GetString("desc")
		req.Description = &desc
	}
	if flags.Changed("priority") {
		value, _ := flags.GetString("priority")
		p, ok := models.ParsePriority(value)
		if !ok {
			return req, fmt.Errorf("invalid priority '%s'. Use: low, medium, high, 1, 2, or 3", value)
		}
		req.Priority = &p
	}
	if flags.Changed("tags") {
		tags, _ := flags.GetStringSlice("tags")
		req.Tags = &tags
	}
	if flags.Changed("due") {
		value, _ := flags.GetString("due")
		due, err := parser.ParseDueDate(value, a.now())
		if err != nil {
			return req, fmt.Errorf("invalid due date '%s': %w", value, err)
		}
		req.DueDate = due
	}
	return req, nil
}
