package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/tick/internal/models"
	"github.com/balkashynov/tick/internal/parser"
	"github.com/balkashynov/tick/internal/store"
	"github.com/balkashynov/tick/internal/tui"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(tui.ColorAccentBright))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(tui.ColorPrimaryText))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorSecondaryText))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorDisabledText))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorSuccess))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorWarning))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorError))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorAccentMain))
)

func priorityStyle(p models.Priority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return errorStyle
	case models.PriorityMedium:
		return warningStyle
	default:
		return labelStyle
	}
}

// truncate shortens s to at most n runes
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// renderTaskTable prints tasks as a fixed-width table
func renderTaskTable(w io.Writer, tasks []models.Task, now time.Time) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-4s %-6s %-6s %-40s %-12s %s", "ID", "STATUS", "PRIO", "TITLE", "DUE", "TAGS")))
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, task := range tasks {
		status := labelStyle.Render("todo  ")
		if task.Completed {
			status = successStyle.Render("done  ")
		}

		title := task.Title
		if task.IsRecurring {
			title = "↻ " + title
		}

		due := fmt.Sprintf("%-12s", "-")
		if task.DueDate != nil {
			due = fmt.Sprintf("%-12s", models.FormatDate(*task.DueDate))
			if task.IsOverdue(now) {
				due = errorStyle.Render(due)
			}
		}

		fmt.Fprintf(w, "%-4d %s %s %-40s %s %s\n",
			task.ID,
			status,
			priorityStyle(task.Priority).Render(fmt.Sprintf("%-6s", task.Priority)),
			truncate(title, 40),
			due,
			strings.Join(task.Tags, ","))
	}
}

// renderTaskDetail prints every field of a task
func renderTaskDetail(w io.Writer, task *models.Task, now time.Time) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Task #%d: %s", task.ID, task.Title)))

	status := "pending"
	if task.Completed {
		status = "completed"
	}
	field(w, "Status", status)
	field(w, "Priority", priorityStyle(task.Priority).Render(task.Priority.String()))
	if len(task.Tags) > 0 {
		field(w, "Tags", accentStyle.Render(strings.Join(task.Tags, ", ")))
	}
	if task.DueDate != nil {
		due := parser.FormatDueDate(task.DueDate, task.Completed, now)
		if task.IsOverdue(now) {
			due = errorStyle.Render(due)
		}
		field(w, "Due", due)
	}
	field(w, "Created", models.FormatDate(task.CreatedAt))
	if task.IsRecurring && task.RecurrencePattern != nil {
		recurs := task.RecurrencePattern.String()
		if task.SeriesID != 0 {
			recurs += fmt.Sprintf(" (series #%d)", task.SeriesID)
		}
		field(w, "Repeats", recurs)
	}
	if task.Description != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, *task.Description)
	}
}

func field(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-9s", label+":")), value)
}

// renderJSON prints tasks in the same record shape as the data file
func renderJSON(w io.Writer, tasks []models.Task) error {
	data, err := store.EncodeTasks(tasks)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// renderCreated prints the confirmation for a new task
func renderCreated(w io.Writer, task *models.Task, now time.Time) {
	fmt.Fprintf(w, "Created task #%d: %s\n", task.ID, task.Title)
	if len(task.Tags) > 0 {
		fmt.Fprintf(w, "  Tags: %s\n", strings.Join(task.Tags, ", "))
	}
	if task.Priority != models.PriorityMedium {
		fmt.Fprintf(w, "  Priority: %s\n", task.Priority)
	}
	if task.DueDate != nil {
		fmt.Fprintf(w, "  Due: %s\n", parser.FormatDueDate(task.DueDate, false, now))
	}
	if task.RecurrencePattern != nil {
		fmt.Fprintf(w, "  Repeats: %s\n", task.RecurrencePattern)
	}
}

// renderStats prints collection statistics
func renderStats(w io.Writer, stats store.Stats) {
	fmt.Fprintln(w, headerStyle.Render("Task statistics"))
	field(w, "Total", fmt.Sprintf("%d", stats.Total))
	field(w, "Done", successStyle.Render(fmt.Sprintf("%d", stats.Completed)))
	field(w, "Pending", fmt.Sprintf("%d", stats.Pending))

	overdue := fmt.Sprintf("%d", stats.Overdue)
	if stats.Overdue > 0 {
		overdue = errorStyle.Render(overdue)
	}
	field(w, "Overdue", overdue)
	field(w, "Rate", fmt.Sprintf("%.1f%%", stats.CompletionRate))
	field(w, "Avg age", fmt.Sprintf("%.1f days", stats.AverageAgeDays))

	if stats.Total == 0 {
		return
	}
	priorities := make([]models.Priority, 0, len(stats.ByPriority))
	for p := range stats.ByPriority {
		priorities = append(priorities, p)
	}
	sort.Slice(priorities, func(i, j int) bool { return priorities[i].Weight() > priorities[j].Weight() })
	for _, p := range priorities {
		field(w, p.String(), priorityStyle(p).Render(fmt.Sprintf("%d", stats.ByPriority[p])))
	}
}
