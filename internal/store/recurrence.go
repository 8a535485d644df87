package store

import (
	"time"

	"github.com/balkashynov/tick/internal/models"
)

// CheckAndRollRecurring creates the next occurrence of every recurring
// series whose latest occurrence is completed and whose period has elapsed.
// Completed occurrences are left as they are. Returns how many tasks were
// created; the store is saved once if any were.
func (s *Store) CheckAndRollRecurring() (int, error) {
	now := s.now()

	// Latest occurrence per series, in order of first appearance
	var roots []int
	latest := make(map[int]int) // root id -> index into s.tasks
	for i := range s.tasks {
		task := &s.tasks[i]
		if !task.IsRecurring {
			continue
		}
		root := task.Root()
		cur, seen := latest[root]
		if !seen {
			roots = append(roots, root)
			latest[root] = i
			continue
		}
		if newerOccurrence(task, &s.tasks[cur]) {
			latest[root] = i
		}
	}

	created := 0
	for _, root := range roots {
		last := s.tasks[latest[root]]
		if !last.Completed || last.RecurrencePattern == nil {
			continue
		}
		if !s.occurrenceDue(*last.RecurrencePattern, last.CreatedAt, now) {
			continue
		}

		next := last.Clone()
		next.ID = s.nextID
		next.CreatedAt = now
		next.Completed = false
		next.IsRecurring = true
		next.SeriesID = root
		s.tasks = append(s.tasks, next)
		s.nextID++
		created++

		s.logger.Info("rolled recurring task", "from", last.ID, "to", next.ID, "pattern", *last.RecurrencePattern)
	}

	if created == 0 {
		return 0, nil
	}
	return created, s.Save()
}

func newerOccurrence(a, b *models.Task) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// occurrenceDue applies the per-pattern gate against the date of the last occurrence
func (s *Store) occurrenceDue(pattern models.RecurrencePattern, last, now time.Time) bool {
	switch pattern {
	case models.RecurDaily:
		if !s.strictDaily {
			return true
		}
		return models.DaysBetween(last, now) >= 1
	case models.RecurWeekly:
		return models.DaysBetween(last, now) >= 7
	case models.RecurMonthly:
		return now.Year() > last.Year() ||
			(now.Year() == last.Year() && now.Month() > last.Month())
	case models.RecurYearly:
		return now.Year() > last.Year()
	default:
		return false
	}
}
