package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/balkashynov/tick/internal/models"
)

// testClock is a settable clock for the store
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(days int) { c.now = c.now.AddDate(0, 0, days) }

func newClock() *testClock {
	return &testClock{now: time.Date(2024, 6, 15, 10, 30, 0, 0, time.Local)}
}

func newTestStore(t *testing.T, clock *testClock, opts ...Option) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return OpenFile(path, opts...), path
}

func mustCreate(t *testing.T, s *Store, title string) *models.Task {
	t.Helper()
	task, err := s.Create(CreateTaskRequest{Title: title})
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", title, err)
	}
	return task
}

func strPtr(s string) *string { return &s }

func datePtr(s string) *time.Time {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestCreateAssignsIncreasingIDs(t *testing.T) {
	s, _ := newTestStore(t, newClock())

	last := 0
	for _, title := range []string{"one", "two", "three", "four"} {
		task := mustCreate(t, s, title)
		if task.ID <= last {
			t.Fatalf("task %q got id %d, want > %d", title, task.ID, last)
		}
		last = task.ID
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	clock := newClock()
	s, _ := newTestStore(t, clock)

	task := mustCreate(t, s, "  Buy milk  ")

	if task.Title != "Buy milk" {
		t.Errorf("Title: got %q, want %q", task.Title, "Buy milk")
	}
	if task.Completed {
		t.Error("new task should not be completed")
	}
	if task.Priority != models.PriorityMedium {
		t.Errorf("Priority: got %s, want medium", task.Priority)
	}
	if task.Tags == nil || len(task.Tags) != 0 {
		t.Errorf("Tags: got %v, want empty slice", task.Tags)
	}
	if task.Description != nil || task.DueDate != nil {
		t.Error("optional fields should be nil")
	}
	if task.IsRecurring || task.RecurrencePattern != nil {
		t.Error("new task should not be recurring")
	}
	if !task.CreatedAt.Equal(clock.now) {
		t.Errorf("CreatedAt: got %v, want %v", task.CreatedAt, clock.now)
	}
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		t.Run("title "+title, func(t *testing.T) {
			s, path := newTestStore(t, newClock())

			task, err := s.Create(CreateTaskRequest{Title: title})
			if !errors.Is(err, models.ErrEmptyTitle) {
				t.Fatalf("expected ErrEmptyTitle, got %v", err)
			}
			if task != nil {
				t.Errorf("expected nil task, got %+v", task)
			}
			if n := len(s.GetAll()); n != 0 {
				t.Errorf("collection size: got %d, want 0", n)
			}
			if s.NextID() != 1 {
				t.Errorf("NextID: got %d, want 1", s.NextID())
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Error("failed create should not write the file")
			}
		})
	}
}

func TestCreateRecurring(t *testing.T) {
	s, _ := newTestStore(t, newClock())

	task, err := s.CreateRecurring(CreateTaskRequest{Title: "Water plants"}, "Weekly")
	if err != nil {
		t.Fatalf("CreateRecurring failed: %v", err)
	}
	if !task.IsRecurring {
		t.Error("expected recurring task")
	}
	if task.RecurrencePattern == nil || *task.RecurrencePattern != models.RecurWeekly {
		t.Errorf("pattern: got %v, want weekly", task.RecurrencePattern)
	}

	_, err = s.CreateRecurring(CreateTaskRequest{Title: "Bad"}, "fortnightly")
	if !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern, got %v", err)
	}
	if n := len(s.GetAll()); n != 1 {
		t.Errorf("collection size: got %d, want 1", n)
	}
}

func TestGetAllReturnsCopies(t *testing.T) {
	s, _ := newTestStore(t, newClock())
	mustCreate(t, s, "first")

	tasks := s.GetAll()
	tasks[0].Title = "changed"

	got, _ := s.GetByID(tasks[0].ID)
	if got.Title != "first" {
		t.Errorf("store state leaked through GetAll: title %q", got.Title)
	}
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t, newClock())
	mustCreate(t, s, "a")
	b := mustCreate(t, s, "b")
	mustCreate(t, s, "c")

	ok, err := s.Delete(b.ID)
	if err != nil || !ok {
		t.Fatalf("Delete: ok=%v err=%v", ok, err)
	}
	if _, found := s.GetByID(b.ID); found {
		t.Error("deleted task still found")
	}
	if n := len(s.GetAll()); n != 2 {
		t.Errorf("collection size: got %d, want 2", n)
	}

	ok, err = s.Delete(b.ID)
	if err != nil || ok {
		t.Errorf("second Delete: ok=%v err=%v, want false, nil", ok, err)
	}
}

func TestIDsAreNotReusedAfterDelete(t *testing.T) {
	s, path := newTestStore(t, newClock())
	mustCreate(t, s, "a")
	c := mustCreate(t, s, "b")

	if _, err := s.Delete(c.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	next := mustCreate(t, s, "c")
	if next.ID != 3 {
		t.Errorf("id after delete: got %d, want 3", next.ID)
	}

	// The counter survives a reload even when the highest task is gone
	if _, err := s.Delete(next.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	reopened := OpenFile(path)
	if reopened.NextID() != 4 {
		t.Errorf("NextID after reload: got %d, want 4", reopened.NextID())
	}
}

func TestUpdate(t *testing.T) {
	s, _ := newTestStore(t, newClock())
	task, err := s.Create(CreateTaskRequest{
		Title:       "Write report",
		Description: strPtr("quarterly"),
		Tags:        []string{"work"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	high := models.PriorityHigh
	ok, err := s.Update(task.ID, UpdateTaskRequest{
		Title:    strPtr("  Write annual report "),
		Priority: &high,
		DueDate:  datePtr("2024-07-01"),
	})
	if err != nil || !ok {
		t.Fatalf("Update: ok=%v err=%v", ok, err)
	}

	got, _ := s.GetByID(task.ID)
	if got.Title != "Write annual report" {
		t.Errorf("Title: got %q", got.Title)
	}
	if got.DescriptionText() != "quarterly" {
		t.Errorf("Description should be unchanged, got %q", got.DescriptionText())
	}
	if got.Priority != models.PriorityHigh {
		t.Errorf("Priority: got %s, want high", got.Priority)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "work" {
		t.Errorf("Tags should be unchanged, got %v", got.Tags)
	}
	if got.DueDate == nil || models.FormatDate(*got.DueDate) != "2024-07-01" {
		t.Errorf("DueDate: got %v", got.DueDate)
	}

	t.Run("empty title is rejected", func(t *testing.T) {
		ok, err := s.Update(task.ID, UpdateTaskRequest{Title: strPtr("   "), Description: strPtr("new")})
		if !errors.Is(err, models.ErrEmptyTitle) {
			t.Fatalf("expected ErrEmptyTitle, got ok=%v err=%v", ok, err)
		}
		got, _ := s.GetByID(task.ID)
		if got.Title != "Write annual report" || got.DescriptionText() != "quarterly" {
			t.Errorf("rejected update changed the task: %+v", got)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		ok, err := s.Update(999, UpdateTaskRequest{Title: strPtr("x")})
		if ok || err != nil {
			t.Errorf("got ok=%v err=%v, want false, nil", ok, err)
		}
	})
}

func TestToggleAndSetCompleted(t *testing.T) {
	s, _ := newTestStore(t, newClock())
	task := mustCreate(t, s, "toggle me")

	if ok, err := s.ToggleCompletion(task.ID); !ok || err != nil {
		t.Fatalf("ToggleCompletion: ok=%v err=%v", ok, err)
	}
	got, _ := s.GetByID(task.ID)
	if !got.Completed {
		t.Error("expected completed after toggle")
	}

	if ok, err := s.ToggleCompletion(task.ID); !ok || err != nil {
		t.Fatalf("ToggleCompletion: ok=%v err=%v", ok, err)
	}
	got, _ = s.GetByID(task.ID)
	if got.Completed {
		t.Error("expected incomplete after second toggle")
	}

	if ok, _ := s.SetCompleted(task.ID, true); !ok {
		t.Fatal("SetCompleted returned false")
	}
	if ok, _ := s.SetCompleted(task.ID, true); !ok {
		t.Fatal("SetCompleted returned false")
	}
	got, _ = s.GetByID(task.ID)
	if !got.Completed {
		t.Error("SetCompleted(true) should be idempotent")
	}

	if ok, err := s.ToggleCompletion(42); ok || err != nil {
		t.Errorf("unknown id: ok=%v err=%v", ok, err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	clock := newClock()
	s, path := newTestStore(t, clock)

	low := models.PriorityLow
	if _, err := s.Create(CreateTaskRequest{
		Title:       "Plain",
		Description: strPtr("with description"),
		Priority:    &low,
		Tags:        []string{"home", "errands"},
		DueDate:     datePtr("2024-07-04"),
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	done := mustCreate(t, s, "Done already")
	if _, err := s.ToggleCompletion(done.ID); err != nil {
		t.Fatalf("ToggleCompletion failed: %v", err)
	}
	if _, err := s.CreateRecurring(CreateTaskRequest{Title: "Standup"}, "daily"); err != nil {
		t.Fatalf("CreateRecurring failed: %v", err)
	}

	want := s.GetAll()
	reloaded := OpenFile(path, WithClock(clock.Now))
	got := reloaded.GetAll()

	if len(got) != len(want) {
		t.Fatalf("task count: got %d, want %d", len(got), len(want))
	}
	if reloaded.NextID() != s.NextID() {
		t.Errorf("NextID: got %d, want %d", reloaded.NextID(), s.NextID())
	}
	for i := range want {
		w, g := want[i], got[i]
		if g.ID != w.ID || g.Title != w.Title || g.Completed != w.Completed || g.Priority != w.Priority {
			t.Errorf("task %d: got %+v, want %+v", i, g, w)
		}
		if g.DescriptionText() != w.DescriptionText() || (g.Description == nil) != (w.Description == nil) {
			t.Errorf("task %d description: got %v, want %v", i, g.Description, w.Description)
		}
		if len(g.Tags) != len(w.Tags) {
			t.Errorf("task %d tags: got %v, want %v", i, g.Tags, w.Tags)
		}
		if (g.DueDate == nil) != (w.DueDate == nil) ||
			(g.DueDate != nil && models.FormatDate(*g.DueDate) != models.FormatDate(*w.DueDate)) {
			t.Errorf("task %d due date: got %v, want %v", i, g.DueDate, w.DueDate)
		}
		if models.FormatDate(g.CreatedAt) != models.FormatDate(w.CreatedAt) {
			t.Errorf("task %d created_at: got %v, want %v", i, g.CreatedAt, w.CreatedAt)
		}
		if g.IsRecurring != w.IsRecurring || (g.RecurrencePattern == nil) != (w.RecurrencePattern == nil) {
			t.Errorf("task %d recurrence: got %v/%v, want %v/%v", i, g.IsRecurring, g.RecurrencePattern, w.IsRecurring, w.RecurrencePattern)
		}
	}
}

func TestPersistenceFailureIsReturned(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("not a directory"), 0644); err != nil {
		t.Fatal(err)
	}

	s := OpenFile(filepath.Join(blocker, "tasks.json"))
	_, err := s.Create(CreateTaskRequest{Title: "unsaved"})
	if err == nil {
		t.Fatal("expected a save error")
	}
	// The in-memory change stays; the caller knows disk and memory disagree
	if n := len(s.GetAll()); n != 1 {
		t.Errorf("collection size: got %d, want 1", n)
	}
}

func TestAddImported(t *testing.T) {
	s, _ := newTestStore(t, newClock())
	existing := mustCreate(t, s, "existing")

	imported, err := s.AddImported(models.Task{ID: existing.ID, Title: "incoming", Priority: models.PriorityHigh})
	if err != nil {
		t.Fatalf("AddImported failed: %v", err)
	}
	if imported.ID == existing.ID {
		t.Fatal("colliding import kept the existing id")
	}

	got, _ := s.GetByID(existing.ID)
	if got.Title != "existing" {
		t.Errorf("existing task was overwritten: %q", got.Title)
	}

	far, err := s.AddImported(models.Task{ID: 40, Title: "far ahead"})
	if err != nil {
		t.Fatalf("AddImported failed: %v", err)
	}
	if far.ID != 40 {
		t.Errorf("non-colliding import changed id to %d", far.ID)
	}

	for _, task := range s.GetAll() {
		if s.NextID() <= task.ID {
			t.Errorf("NextID %d does not exceed id %d", s.NextID(), task.ID)
		}
	}
	if next := mustCreate(t, s, "after import"); next.ID != 41 {
		t.Errorf("id after import: got %d, want 41", next.ID)
	}
}

func TestCreateCopiesDescription(t *testing.T) {
	s, _ := newTestStore(t, newClock())

	desc := "original"
	task, err := s.Create(CreateTaskRequest{Title: "copy me", Description: &desc})
	if err != nil {
		t.Fatal(err)
	}
	desc = "changed by caller"

	stored, _ := s.GetByID(task.ID)
	if stored.DescriptionText() != "original" {
		t.Errorf("description: got %q, want original", stored.DescriptionText())
	}
}
