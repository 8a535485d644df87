package store

import (
	"testing"

	"github.com/balkashynov/tick/internal/models"
)

func ids(tasks []models.Task) []int {
	out := make([]int, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func priorityPtr(p models.Priority) *models.Priority { return &p }

func boolPtr(b bool) *bool { return &b }

// seedQueryStore creates:
//
//	1 "Buy groceries"  high   [home]        done
//	2 "write REPORT"   low    [work]
//	3 "Call plumber"   high   [home, Urgent] done, description "kitchen sink"
//	4 "apple pie"      medium []
func seedQueryStore(t *testing.T) *Store {
	t.Helper()
	s, _ := newTestStore(t, newClock())

	reqs := []CreateTaskRequest{
		{Title: "Buy groceries", Priority: priorityPtr(models.PriorityHigh), Tags: []string{"home"}},
		{Title: "write REPORT", Priority: priorityPtr(models.PriorityLow), Tags: []string{"work"}},
		{Title: "Call plumber", Description: strPtr("Kitchen SINK leaking"), Priority: priorityPtr(models.PriorityHigh), Tags: []string{"home", "Urgent"}},
		{Title: "apple pie"},
	}
	for _, req := range reqs {
		if _, err := s.Create(req); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	for _, id := range []int{1, 3} {
		if _, err := s.ToggleCompletion(id); err != nil {
			t.Fatalf("ToggleCompletion failed: %v", err)
		}
	}
	return s
}

func TestSearch(t *testing.T) {
	s := seedQueryStore(t)

	tests := []struct {
		query string
		want  []int
	}{
		{"report", []int{2}},
		{"PLUMB", []int{3}},
		{"sink", []int{3}},    // description match
		{"p", []int{2, 3, 4}}, // "rePort", "Call plumber", "apple pie"
		{"nothing here", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := ids(s.Search(tt.query))
			if !equalIDs(got, tt.want) {
				t.Errorf("Search(%q): got %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	s := seedQueryStore(t)

	tests := []struct {
		name string
		opts FilterOptions
		want []int
	}{
		{"no criteria", FilterOptions{}, []int{1, 2, 3, 4}},
		{"completed", FilterOptions{Status: boolPtr(true)}, []int{1, 3}},
		{"incomplete", FilterOptions{Status: boolPtr(false)}, []int{2, 4}},
		{"high priority", FilterOptions{Priority: priorityPtr(models.PriorityHigh)}, []int{1, 3}},
		{"completed and low", FilterOptions{Status: boolPtr(true), Priority: priorityPtr(models.PriorityLow)}, []int{}},
		{"tag", FilterOptions{Tag: strPtr("home")}, []int{1, 3}},
		{"tag is case sensitive", FilterOptions{Tag: strPtr("urgent")}, []int{}},
		{"all three", FilterOptions{Status: boolPtr(true), Priority: priorityPtr(models.PriorityHigh), Tag: strPtr("Urgent")}, []int{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(s.Filter(tt.opts))
			if !equalIDs(got, tt.want) {
				t.Errorf("Filter: got %v, want %v", got, tt.want)
			}
		})
	}

	for _, task := range s.Filter(FilterOptions{Status: boolPtr(true)}) {
		if !task.Completed {
			t.Errorf("task %d in completed filter is not completed", task.ID)
		}
	}
}

func TestSort(t *testing.T) {
	s := seedQueryStore(t)

	tests := []struct {
		by      string
		reverse bool
		want    []int
	}{
		{"id", false, []int{1, 2, 3, 4}},
		{"id", true, []int{4, 3, 2, 1}},
		{"title", false, []int{4, 1, 3, 2}},
		{"title", true, []int{2, 3, 1, 4}},
		// Equal priorities keep insertion order in both directions
		{"priority", false, []int{1, 3, 4, 2}},
		{"priority", true, []int{2, 4, 1, 3}},
		{"created_at", false, []int{1, 2, 3, 4}},
		{"date", false, []int{1, 2, 3, 4}},
		{"colour", false, []int{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		name := tt.by
		if tt.reverse {
			name += " reversed"
		}
		t.Run(name, func(t *testing.T) {
			got := ids(s.Sort(tt.by, tt.reverse))
			if !equalIDs(got, tt.want) {
				t.Errorf("Sort(%q, %v): got %v, want %v", tt.by, tt.reverse, got, tt.want)
			}
		})
	}
}

func TestSortByCreatedAt(t *testing.T) {
	clock := newClock()
	s, _ := newTestStore(t, clock)

	clock.Advance(2)
	mustCreate(t, s, "newest")
	clock.Advance(-5)
	mustCreate(t, s, "oldest")
	clock.Advance(1)
	mustCreate(t, s, "middle")

	if got := ids(s.Sort("created_at", false)); !equalIDs(got, []int{2, 3, 1}) {
		t.Errorf("ascending: got %v", got)
	}
	if got := ids(s.Sort("created_at", true)); !equalIDs(got, []int{1, 3, 2}) {
		t.Errorf("descending: got %v", got)
	}
}

func TestSortByDueDateKeepsMissingLast(t *testing.T) {
	s, _ := newTestStore(t, newClock())

	reqs := []CreateTaskRequest{
		{Title: "no due date"},
		{Title: "march", DueDate: datePtr("2024-03-01")},
		{Title: "also undated"},
		{Title: "january", DueDate: datePtr("2024-01-01")},
	}
	for _, req := range reqs {
		if _, err := s.Create(req); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	if got := ids(s.Sort("due_date", false)); !equalIDs(got, []int{4, 2, 1, 3}) {
		t.Errorf("ascending: got %v, want [4 2 1 3]", got)
	}
	if got := ids(s.Sort("due_date", true)); !equalIDs(got, []int{2, 4, 1, 3}) {
		t.Errorf("descending: got %v, want [2 4 1 3]", got)
	}
}

func TestSortDoesNotReorderStore(t *testing.T) {
	s := seedQueryStore(t)
	s.Sort("title", false)

	if got := ids(s.GetAll()); !equalIDs(got, []int{1, 2, 3, 4}) {
		t.Errorf("GetAll after Sort: got %v", got)
	}
}
