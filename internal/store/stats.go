package store

import "github.com/balkashynov/tick/internal/models"

// Stats summarizes the collection
type Stats struct {
	Total          int
	Completed      int
	Pending        int
	Overdue        int
	CompletionRate float64 // percent, 0 when there are no tasks
	AverageAgeDays float64
	ByPriority     map[models.Priority]int
}

// Stats computes counts, completion rate and average age in days
func (s *Store) Stats() Stats {
	now := s.now()
	stats := Stats{
		Total:      len(s.tasks),
		ByPriority: make(map[models.Priority]int),
	}
	if stats.Total == 0 {
		return stats
	}

	totalDays := 0
	for i := range s.tasks {
		task := &s.tasks[i]
		if task.Completed {
			stats.Completed++
		} else {
			stats.Pending++
		}
		if task.IsOverdue(now) {
			stats.Overdue++
		}
		stats.ByPriority[task.Priority]++
		totalDays += models.DaysBetween(task.CreatedAt, now)
	}

	stats.CompletionRate = float64(stats.Completed) / float64(stats.Total) * 100
	stats.AverageAgeDays = float64(totalDays) / float64(stats.Total)
	return stats
}
