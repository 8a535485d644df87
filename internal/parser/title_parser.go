package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/balkashynov/tick/internal/models"
)

var (
	tagRegex        = regexp.MustCompile(`(?:^|\s)#([a-zA-Z0-9_,-]+)`)
	priorityRegex   = regexp.MustCompile(`(?:^|\s)\+([a-zA-Z0-9]+)`)
	dueRegex        = regexp.MustCompile(`(?:^|\s)due:(\S+)`)
	recurrenceRegex = regexp.MustCompile(`(?:^|\s)\*([a-zA-Z]+)`)
)

// ParsedTask represents a task parsed from the quick-add syntax
type ParsedTask struct {
	Title      string
	Tags       []string
	Priority   *models.Priority
	DueDate    *time.Time
	Recurrence *models.RecurrencePattern
	Errors     []string
}

// ParseTitle extracts metadata from a task title using natural syntax
// Syntax: "Task title #tag1,tag2 +priority due:3days *weekly"
func ParseTitle(input string, now time.Time) ParsedTask {
	result := ParsedTask{
		Tags:   []string{},
		Errors: []string{},
	}

	// Extract tags (#tag1,tag2 or #tag1 #tag2)
	for _, match := range tagRegex.FindAllStringSubmatch(input, -1) {
		for _, tag := range strings.Split(match[1], ",") {
			tag = strings.TrimSpace(tag)
			if tag != "" && !contains(result.Tags, tag) {
				result.Tags = append(result.Tags, tag)
			}
		}
	}
	input = tagRegex.ReplaceAllString(input, " ")

	// Extract priority (+high, +3, +med)
	if m := priorityRegex.FindStringSubmatch(input); m != nil {
		if p, ok := models.ParsePriority(m[1]); ok {
			result.Priority = &p
		} else {
			result.Errors = append(result.Errors, "Invalid priority '"+m[1]+"'. Use: low, medium, high, 1, 2, or 3")
		}
		input = priorityRegex.ReplaceAllString(input, " ")
	}

	// Extract due date (due:3days, due:2024-12-15, due:tomorrow)
	if m := dueRegex.FindStringSubmatch(input); m != nil {
		due, err := ParseDueDate(m[1], now)
		if err != nil {
			result.Errors = append(result.Errors, "Invalid due date '"+m[1]+"': "+err.Error())
		} else {
			result.DueDate = due
		}
		input = dueRegex.ReplaceAllString(input, " ")
	}

	// Extract recurrence (*daily, *weekly, *monthly, *yearly)
	if m := recurrenceRegex.FindStringSubmatch(input); m != nil {
		if p, ok := models.ParseRecurrence(m[1]); ok {
			result.Recurrence = &p
		} else {
			result.Errors = append(result.Errors, "Invalid recurrence '"+m[1]+"'. Use: daily, weekly, monthly, or yearly")
		}
		input = recurrenceRegex.ReplaceAllString(input, " ")
	}

	// Clean up the title (remove extra spaces)
	result.Title = strings.Join(strings.Fields(input), " ")
	return result
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
