package store

import (
	"sort"
	"strings"

	"github.com/balkashynov/tick/internal/models"
)

// Sort keys accepted by Sort
const (
	SortByID        = "id"
	SortByTitle     = "title"
	SortByCreatedAt = "created_at"
	SortByDueDate   = "due_date"
	SortByPriority  = "priority"
)

// SortKeys lists the keys Sort understands
var SortKeys = []string{SortByID, SortByTitle, SortByCreatedAt, SortByDueDate, SortByPriority}

// FilterOptions narrows a task list; nil fields are ignored
type FilterOptions struct {
	Status   *bool
	Priority *models.Priority
	Tag      *string
}

// Search returns tasks whose title or description contains query, case-insensitively
func (s *Store) Search(query string) []models.Task {
	needle := strings.ToLower(query)
	var results []models.Task
	for _, task := range s.tasks {
		if strings.Contains(strings.ToLower(task.Title), needle) ||
			(task.Description != nil && strings.Contains(strings.ToLower(*task.Description), needle)) {
			results = append(results, task.Clone())
		}
	}
	return results
}

// Filter returns tasks matching every supplied criterion
func (s *Store) Filter(opts FilterOptions) []models.Task {
	var results []models.Task
	for _, task := range s.tasks {
		if opts.Status != nil && task.Completed != *opts.Status {
			continue
		}
		if opts.Priority != nil && task.Priority != *opts.Priority {
			continue
		}
		if opts.Tag != nil && !task.HasTag(*opts.Tag) {
			continue
		}
		results = append(results, task.Clone())
	}
	return results
}

// Sort returns the tasks ordered by key. An unknown key returns them in
// insertion order. Equal keys keep insertion order in both directions.
//
// Priority sorts high first unless reversed. Tasks without a due date
// always come last when sorting by due date.
func (s *Store) Sort(by string, reverse bool) []models.Task {
	tasks := s.snapshot()

	if by == "date" {
		by = SortByCreatedAt
	}

	var cmp func(a, b *models.Task) int
	switch by {
	case SortByID:
		cmp = func(a, b *models.Task) int { return compareInts(a.ID, b.ID) }
	case SortByTitle:
		cmp = func(a, b *models.Task) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	case SortByCreatedAt:
		cmp = func(a, b *models.Task) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortByDueDate:
		return sortByDueDate(tasks, reverse)
	case SortByPriority:
		// Descending weight is the natural order
		cmp = func(a, b *models.Task) int { return compareInts(b.Priority.Weight(), a.Priority.Weight()) }
	default:
		return tasks
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		c := cmp(&tasks[i], &tasks[j])
		if reverse {
			return c > 0
		}
		return c < 0
	})
	return tasks
}

func sortByDueDate(tasks []models.Task, reverse bool) []models.Task {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i].DueDate, tasks[j].DueDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		case reverse:
			return a.After(*b)
		default:
			return a.Before(*b)
		}
	})
	return tasks
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
