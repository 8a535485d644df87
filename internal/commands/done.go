package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tick/internal/store"
)

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task_id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			return setCompleted(cmd, s, args[0], true)
		}),
	}
}

func newUndoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "undone <task_id>",
		Short: "Mark a completed task as pending again",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			return setCompleted(cmd, s, args[0], false)
		}),
	}
}

func setCompleted(cmd *cobra.Command, s *store.Store, arg string, completed bool) error {
	id, err := parseTaskID(arg)
	if err != nil {
		return err
	}
	found, err := s.SetCompleted(id, completed)
	if !found {
		return taskNotFound(id)
	}
	if err != nil {
		return err
	}

	task, _ := s.GetByID(id)
	if completed {
		fmt.Fprintf(cmd.OutOrStdout(), "Marked task #%d as done: %s\n", task.ID, task.Title)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Marked task #%d as pending: %s\n", task.ID, task.Title)
	}
	return nil
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <task_id>",
		Short: "Flip a task between done and pending",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			found, err := s.ToggleCompletion(id)
			if !found {
				return taskNotFound(id)
			}
			if err != nil {
				return err
			}

			task, _ := s.GetByID(id)
			state := "pending"
			if task.Completed {
				state = "done"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task #%d is now %s: %s\n", task.ID, state, task.Title)
			return nil
		}),
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task_id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			task, ok := s.GetByID(id)
			if !ok {
				return taskNotFound(id)
			}
			if _, err := s.Delete(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d: %s\n", task.ID, task.Title)
			return nil
		}),
	}
}
