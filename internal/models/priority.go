package models

import "strings"

// Priority is the urgency of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority accepts low/medium/high (and med, 1-3) case-insensitively
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "1":
		return PriorityLow, true
	case "medium", "med", "2":
		return PriorityMedium, true
	case "high", "3":
		return PriorityHigh, true
	default:
		return PriorityMedium, false
	}
}

// Weight maps priority to its sort weight: high=3, medium=2, low=1
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityLow:
		return 1
	default:
		return 2
	}
}

func (p Priority) String() string {
	return string(p)
}

// RecurrencePattern is how often a recurring task repeats
type RecurrencePattern string

const (
	RecurDaily   RecurrencePattern = "daily"
	RecurWeekly  RecurrencePattern = "weekly"
	RecurMonthly RecurrencePattern = "monthly"
	RecurYearly  RecurrencePattern = "yearly"
)

// RecurrencePatterns lists the accepted patterns in display order
var RecurrencePatterns = []RecurrencePattern{RecurDaily, RecurWeekly, RecurMonthly, RecurYearly}

// ParseRecurrence validates a pattern name
func ParseRecurrence(s string) (RecurrencePattern, bool) {
	p := RecurrencePattern(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

// Valid reports whether p is one of the known patterns
func (p RecurrencePattern) Valid() bool {
	switch p {
	case RecurDaily, RecurWeekly, RecurMonthly, RecurYearly:
		return true
	}
	return false
}

func (p RecurrencePattern) String() string {
	return string(p)
}
