package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tick/internal/models"
	"github.com/balkashynov/tick/internal/parser"
	"github.com/balkashynov/tick/internal/store"
)

const smartSyntaxHelp = `Smart parsing syntax:
  #tag1,tag2  - Tags (comma-separated or individual)
  +priority   - Priority (low/medium/high or 1/2/3)
  due:3days   - Due date (yyyy-mm-dd, dd/mm/yyyy, today, tomorrow, X days, X weeks)
  *weekly     - Repeat (daily/weekly/monthly/yearly)`

func newAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [task title]",
		Short: "Add a new task",
		Long: `Add a new task with optional metadata.

Examples:
  tick add "Buy milk"
  tick add "Pay rent #home +high due:2024-05-01 *monthly"
  tick add "Write report" --priority high --tags work --due "3 days"

` + smartSyntaxHelp,
		Args: cobra.MinimumNArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			recur, _ := cmd.Flags().GetString("recur")
			return a.runAdd(cmd, s, strings.Join(args, " "), recur)
		}),
	}
	addTaskFlags(cmd)
	cmd.Flags().StringP("recur", "r", "", "Repeat: daily, weekly, monthly, yearly")
	return cmd
}

func newRecurCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recur <daily|weekly|monthly|yearly> [task title]",
		Short: "Add a recurring task",
		Long: `Add a task that comes back after it is completed.

A new occurrence is created once the latest one is done and its period has
passed: the next day, seven days later, the next calendar month or the next
calendar year.

Example:
  tick recur weekly "Take out the bins #home"`,
		Args: cobra.MinimumNArgs(2),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			return a.runAdd(cmd, s, strings.Join(args[1:], " "), args[0])
		}),
	}
	addTaskFlags(cmd)
	return cmd
}

func addTaskFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("desc", "d", "", "Description")
	cmd.Flags().StringP("priority", "p", "", "Priority: low, medium, high, or 1-3")
	cmd.Flags().StringSliceP("tags", "t", []string{}, "Comma-separated tags")
	cmd.Flags().String("due", "", "Due date: yyyy-mm-dd, dd/mm/yyyy, today, tomorrow, X days, X weeks")
}

// runAdd parses the smart title, applies explicit flags on top and creates the task
func (a *app) runAdd(cmd *cobra.Command, s *store.Store, input, recur string) error {
	now := a.now()
	parsed := parser.ParseTitle(input, now)
	if len(parsed.Errors) > 0 {
		return fmt.Errorf("could not parse task: %s", strings.Join(parsed.Errors, "; "))
	}

	req := store.CreateTaskRequest{
		Title:    parsed.Title,
		Priority: parsed.Priority,
		Tags:     parsed.Tags,
		DueDate:  parsed.DueDate,
	}

	// Explicit flags take precedence over the smart syntax
	if desc, _ := cmd.Flags().GetString("desc"); desc != "" {
		req.Description = &desc
	}
	if flagPriority, _ := cmd.Flags().GetString("priority"); flagPriority != "" {
		p, ok := models.ParsePriority(flagPriority)
		if !ok {
			return fmt.Errorf("invalid priority '%s'. Use: low, medium, high, 1, 2, or 3", flagPriority)
		}
		req.Priority = &p
	}
	if flagTags, _ := cmd.Flags().GetStringSlice("tags"); len(flagTags) > 0 {
		req.Tags = flagTags
	}
	if flagDue, _ := cmd.Flags().GetString("due"); flagDue != "" {
		due, err := parser.ParseDueDate(flagDue, now)
		if err != nil {
			return fmt.Errorf("invalid due date '%s': %w", flagDue, err)
		}
		req.DueDate = due
	}
	if recur == "" && parsed.Recurrence != nil {
		recur = parsed.Recurrence.String()
	}

	var (
		task *models.Task
		err  error
	)
	if recur != "" {
		task, err = s.CreateRecurring(req, recur)
	} else {
		task, err = s.Create(req)
	}
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	renderCreated(cmd.OutOrStdout(), task, now)
	return nil
}
