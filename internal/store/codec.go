package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/balkashynov/tick/internal/models"
)

// Document is the full persisted state of a store
type Document struct {
	Tasks  []models.Task
	NextID int
}

// taskRecord is the on-disk shape of one task
type taskRecord struct {
	ID                int      `json:"id"`
	Title             string   `json:"title"`
	Description       *string  `json:"description"`
	Completed         bool     `json:"completed"`
	CreatedAt         string   `json:"created_at"`
	Priority          string   `json:"priority"`
	Tags              []string `json:"tags"`
	DueDate           *string  `json:"due_date"`
	IsRecurring       bool     `json:"is_recurring"`
	RecurrencePattern *string  `json:"recurrence_pattern"`
	SeriesID          int      `json:"series_id,omitempty"`
}

type fileDocument struct {
	Tasks  []taskRecord `json:"tasks"`
	NextID int          `json:"next_id"`
}

// rawTask holds a task record as read, before defaults are applied.
// A nil field means the key was absent (or null) in the source.
type rawTask struct {
	ID                *int     `json:"id"`
	Title             *string  `json:"title"`
	Description       *string  `json:"description"`
	Completed         *bool    `json:"completed"`
	CreatedAt         *string  `json:"created_at"`
	Priority          *string  `json:"priority"`
	Tags              []string `json:"tags"`
	DueDate           *string  `json:"due_date"`
	IsRecurring       *bool    `json:"is_recurring"`
	RecurrencePattern *string  `json:"recurrence_pattern"`
	SeriesID          *int     `json:"series_id"`

	// Legacy shape: "Title: Description" packed into description
	Status    *string `json:"status"`
	DateAdded *string `json:"date_added"`
}

type rawDocument struct {
	Tasks  []json.RawMessage `json:"tasks"`
	NextID *int              `json:"next_id"`
}

// EncodeDocument renders a document with 2-space indentation and a trailing newline
func EncodeDocument(doc *Document) ([]byte, error) {
	file := fileDocument{
		Tasks:  make([]taskRecord, 0, len(doc.Tasks)),
		NextID: doc.NextID,
	}
	for i := range doc.Tasks {
		file.Tasks = append(file.Tasks, toRecord(&doc.Tasks[i]))
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tasks: %w", err)
	}
	return append(data, '\n'), nil
}

// EncodeTasks renders tasks in the persisted record shape, for JSON output
func EncodeTasks(tasks []models.Task) ([]byte, error) {
	records := make([]taskRecord, 0, len(tasks))
	for i := range tasks {
		records = append(records, toRecord(&tasks[i]))
	}
	return json.MarshalIndent(records, "", "  ")
}

func toRecord(t *models.Task) taskRecord {
	rec := taskRecord{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   models.FormatDate(t.CreatedAt),
		Priority:    t.Priority.String(),
		Tags:        t.Tags,
		IsRecurring: t.IsRecurring,
		SeriesID:    t.SeriesID,
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	if t.DueDate != nil {
		due := models.FormatDate(*t.DueDate)
		rec.DueDate = &due
	}
	if t.RecurrencePattern != nil {
		p := t.RecurrencePattern.String()
		rec.RecurrencePattern = &p
	}
	return rec
}

// DecodeDocument parses a persisted document tolerantly: missing optional
// keys get defaults, bad dates and priorities are substituted. Structural
// problems (not an object, missing or non-integer id, wrong value types)
// return an error matching ErrCorruptDocument.
func DecodeDocument(data []byte, now time.Time) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var generic interface{}
	if err := dec.Decode(&generic); err != nil {
		return nil, &DocumentError{Err: fmt.Errorf("parse json: %w", err)}
	}
	if err := validateShape(generic); err != nil {
		return nil, err
	}

	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DocumentError{Err: err}
	}

	doc := &Document{Tasks: make([]models.Task, 0, len(raw.Tasks))}
	for i, msg := range raw.Tasks {
		var rt rawTask
		if err := json.Unmarshal(msg, &rt); err != nil {
			return nil, &DocumentError{Path: fmt.Sprintf("tasks[%d]", i), Err: err}
		}
		task, err := parseTask(rt, now)
		if err != nil {
			return nil, &DocumentError{Path: fmt.Sprintf("tasks[%d].id", i), Err: err}
		}
		doc.Tasks = append(doc.Tasks, task)
	}

	doc.NextID = nextIDFor(doc.Tasks, raw.NextID)
	return doc, nil
}

// parseTask maps a raw record onto a Task. Field presence decides which
// shape applies: a title key means the current shape, otherwise the
// legacy status/date_added shape.
func parseTask(rt rawTask, now time.Time) (models.Task, error) {
	if rt.ID == nil {
		return models.Task{}, fmt.Errorf("missing required field")
	}

	task := models.Task{
		ID:       *rt.ID,
		Priority: models.PriorityMedium,
		Tags:     []string{},
	}

	dateStr := ""
	if rt.Title != nil {
		task.Title = *rt.Title
		task.Description = rt.Description
		if rt.Completed != nil {
			task.Completed = *rt.Completed
		}
		switch {
		case rt.CreatedAt != nil:
			dateStr = *rt.CreatedAt
		case rt.DateAdded != nil:
			dateStr = *rt.DateAdded
		}
	} else {
		full := ""
		if rt.Description != nil {
			full = *rt.Description
		}
		if title, desc, ok := strings.Cut(full, ": "); ok {
			task.Title = title
			task.Description = &desc
		} else {
			task.Title = full
		}
		task.Completed = rt.Status != nil && *rt.Status == "Complete"
		if rt.DateAdded != nil {
			dateStr = *rt.DateAdded
		}
	}
	task.CreatedAt = parseCreatedAt(dateStr, now)

	if rt.Priority != nil {
		// Unknown strings fall back to medium
		task.Priority, _ = models.ParsePriority(*rt.Priority)
	}
	if rt.Tags != nil {
		task.Tags = rt.Tags
	}
	if rt.DueDate != nil {
		if due, err := models.ParseDate(*rt.DueDate); err == nil {
			task.DueDate = &due
		}
	}
	if rt.IsRecurring != nil {
		task.IsRecurring = *rt.IsRecurring
	}
	if rt.RecurrencePattern != nil {
		// Kept as given, validation happens at creation time only
		p := models.RecurrencePattern(*rt.RecurrencePattern)
		task.RecurrencePattern = &p
	}
	if rt.SeriesID != nil {
		task.SeriesID = *rt.SeriesID
	}

	return task, nil
}

func parseCreatedAt(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return now
	}
	if t, err := models.ParseDate(s); err == nil {
		return t
	}
	// Older writers stored full timestamps
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return models.Day(t.Local())
	}
	return now
}

// nextIDFor picks the counter to resume from: the stored value, raised to
// one past the largest id so ids are never reused
func nextIDFor(tasks []models.Task, stored *int) int {
	next := 1
	for _, t := range tasks {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	if stored != nil && *stored > next {
		next = *stored
	}
	return next
}
