package models

import (
	"errors"
	"strings"
	"time"
)

// ErrEmptyTitle is returned when a title is empty after trimming whitespace
var ErrEmptyTitle = errors.New("task title cannot be empty")

// Task represents a todo item
type Task struct {
	ID          int
	Title       string
	Description *string
	Completed   bool
	CreatedAt   time.Time
	Priority    Priority
	Tags        []string
	DueDate     *time.Time // calendar day, no time component

	IsRecurring       bool
	RecurrencePattern *RecurrencePattern

	// SeriesID is the id of the task this occurrence was rolled from.
	// Zero means the task is the root of its own series.
	SeriesID int
}

// NewTask builds a task with default field values
func NewTask(id int, title string, createdAt time.Time) (*Task, error) {
	title, err := NormalizeTitle(title)
	if err != nil {
		return nil, err
	}
	return &Task{
		ID:        id,
		Title:     title,
		CreatedAt: createdAt,
		Priority:  PriorityMedium,
		Tags:      []string{},
	}, nil
}

// NormalizeTitle trims a caller-supplied title and rejects empty results
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	return title, nil
}

// Root returns the id of the series root for recurring tasks
func (t *Task) Root() int {
	if t.SeriesID != 0 {
		return t.SeriesID
	}
	return t.ID
}

// DescriptionText returns the description or an empty string
func (t *Task) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// HasTag reports whether tag is present (exact match)
func (t *Task) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can't mutate store state through pointers
func (t Task) Clone() Task {
	c := t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	if t.RecurrencePattern != nil {
		p := *t.RecurrencePattern
		c.RecurrencePattern = &p
	}
	c.Tags = append([]string{}, t.Tags...)
	return c
}

// IsOverdue reports whether an incomplete task's due day is before today
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	return Day(*t.DueDate).Before(Day(now))
}
