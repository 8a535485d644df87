package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/tick/internal/models"
)

var (
	slashDateRegex = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	relativeRegex  = regexp.MustCompile(`^(\d+)\s*(day|days|week|weeks)$`)
)

// ParseDueDate parses various due date formats into a calendar day
// Supported formats:
// - yyyy-mm-dd (e.g., "2024-12-15")
// - dd/mm/yyyy (e.g., "15/12/2024")
// - today, tomorrow
// - X days (e.g., "3 days", "1day")
// - X weeks (e.g., "2 weeks")
func ParseDueDate(input string, now time.Time) (*time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	if due, err := models.ParseDate(input); err == nil {
		return &due, nil
	}

	if due, err := parseSlashDate(input); err == nil {
		return due, nil
	}

	today := models.Day(now)
	switch strings.ToLower(input) {
	case "today":
		return &today, nil
	case "tomorrow":
		due := today.AddDate(0, 0, 1)
		return &due, nil
	}

	if due, err := parseRelativeDays(input, today); err == nil {
		return due, nil
	}

	return nil, fmt.Errorf("invalid date format. Use: yyyy-mm-dd, dd/mm/yyyy, today, tomorrow, X days, or X weeks")
}

// parseSlashDate parses dd/mm/yyyy format
func parseSlashDate(input string) (*time.Time, error) {
	matches := slashDateRegex.FindStringSubmatch(input)
	if len(matches) != 4 {
		return nil, fmt.Errorf("invalid date format")
	}

	day, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	year, _ := strconv.Atoi(matches[3])

	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be between 1 and 12")
	}

	due := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	// Catches 31/02 and friends, which time.Date would normalize
	if due.Day() != day || due.Month() != time.Month(month) {
		return nil, fmt.Errorf("invalid date")
	}
	return &due, nil
}

// parseRelativeDays parses "3 days", "2 weeks" etc. relative to today
func parseRelativeDays(input string, today time.Time) (*time.Time, error) {
	matches := relativeRegex.FindStringSubmatch(strings.ToLower(input))
	if len(matches) != 3 {
		return nil, fmt.Errorf("invalid relative date format")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil, fmt.Errorf("invalid number")
	}

	switch matches[2] {
	case "week", "weeks":
		if amount > 52 {
			return nil, fmt.Errorf("weeks must be between 0 and 52")
		}
		amount *= 7
	default:
		if amount > 365 {
			return nil, fmt.Errorf("days must be between 0 and 365")
		}
	}

	due := today.AddDate(0, 0, amount)
	return &due, nil
}

// FormatDueDate formats a due date for display relative to now
func FormatDueDate(dueDate *time.Time, completed bool, now time.Time) string {
	if dueDate == nil {
		return ""
	}

	dateStr := models.FormatDate(*dueDate)
	if completed {
		return fmt.Sprintf("due %s", dateStr)
	}

	daysDiff := models.DaysBetween(now, *dueDate)
	switch {
	case daysDiff < 0:
		return fmt.Sprintf("OVERDUE (%s)", dateStr)
	case daysDiff == 0:
		return fmt.Sprintf("due today (%s)", dateStr)
	case daysDiff == 1:
		return fmt.Sprintf("due tomorrow (%s)", dateStr)
	case daysDiff <= 7:
		return fmt.Sprintf("due %s (in %d days)", dateStr, daysDiff)
	default:
		return fmt.Sprintf("due %s", dateStr)
	}
}
