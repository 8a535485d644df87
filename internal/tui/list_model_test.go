package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/tick/internal/models"
	"github.com/balkashynov/tick/internal/store"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 15, 10, 0, 0, 0, time.Local)
}

func newTestModel(t *testing.T, titles ...string) (ListModel, *store.Store) {
	t.Helper()
	s := store.OpenFile(filepath.Join(t.TempDir(), "tasks.json"), store.WithClock(fixedNow))
	for _, title := range titles {
		if _, err := s.Create(store.CreateTaskRequest{Title: title}); err != nil {
			t.Fatalf("Create(%q) failed: %v", title, err)
		}
	}
	m := NewListModel(s, fixedNow)
	return send(m, tea.WindowSizeMsg{Width: 120, Height: 40}), s
}

func send(m ListModel, msgs ...tea.Msg) ListModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(ListModel)
	}
	return m
}

func keys(s string) []tea.Msg {
	var msgs []tea.Msg
	for _, r := range s {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func titles(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func TestToggleSelectedTask(t *testing.T) {
	m, s := newTestModel(t, "first", "second")

	m = send(m, down)
	m = send(m, keys("d")...)

	task, _ := s.GetByID(2)
	if !task.Completed {
		t.Fatal("selected task was not completed")
	}
	if m.selectedTask != 1 {
		t.Errorf("selection moved: got %d", m.selectedTask)
	}

	m = send(m, keys("d")...)
	if task, _ := s.GetByID(2); task.Completed {
		t.Error("second toggle should reopen the task")
	}
}

func TestSearchFiltersAsYouType(t *testing.T) {
	m, _ := newTestModel(t, "Buy milk", "Call plumber", "Buy bread")

	m = send(m, keys("/")...)
	if m.focus != FocusSearch {
		t.Fatal("/ should focus the search input")
	}
	m = send(m, keys("buy")...)
	if got := titles(m.tasks); len(got) != 2 || got[0] != "Buy milk" || got[1] != "Buy bread" {
		t.Errorf("filtered tasks: got %v", got)
	}

	// enter keeps the filter, esc on the table clears it
	m = send(m, enter)
	if m.focus != FocusTable || len(m.tasks) != 2 {
		t.Errorf("after enter: focus=%v tasks=%d", m.focus, len(m.tasks))
	}
	m = send(m, esc)
	if len(m.tasks) != 3 || m.search.Value() != "" {
		t.Errorf("after esc: tasks=%d query=%q", len(m.tasks), m.search.Value())
	}
}

func TestSortCycleAndReverse(t *testing.T) {
	m, _ := newTestModel(t, "charlie", "alpha", "bravo")

	// "" -> id -> title
	m = send(m, keys("ss")...)
	if sortCycle[m.sortIndex] != store.SortByTitle {
		t.Fatalf("sort key: got %q", sortCycle[m.sortIndex])
	}
	if got := titles(m.tasks); strings.Join(got, ",") != "alpha,bravo,charlie" {
		t.Errorf("by title: got %v", got)
	}

	m = send(m, keys("r")...)
	if got := titles(m.tasks); strings.Join(got, ",") != "charlie,bravo,alpha" {
		t.Errorf("by title reversed: got %v", got)
	}
}

func TestQuickAdd(t *testing.T) {
	m, s := newTestModel(t, "existing")

	m = send(m, keys("a")...)
	if m.focus != FocusAdd {
		t.Fatal("a should focus the quick-add input")
	}
	m = send(m, keys("Water plants #home +high *weekly")...)
	m = send(m, enter)

	if m.statusErr {
		t.Fatalf("unexpected error: %s", m.status)
	}
	task, ok := s.GetByID(2)
	if !ok {
		t.Fatal("task was not created")
	}
	if task.Title != "Water plants" || !task.IsRecurring || task.Priority != models.PriorityHigh || !task.HasTag("home") {
		t.Errorf("created task: %+v", task)
	}
	if m.tasks[m.selectedTask].ID != 2 {
		t.Error("new task should be selected")
	}
}

func TestQuickAddReportsErrors(t *testing.T) {
	m, s := newTestModel(t)

	m = send(m, keys("a")...)
	m = send(m, keys("Fix bike due:someday")...)
	m = send(m, enter)

	if !m.statusErr || !strings.Contains(m.status, "someday") {
		t.Errorf("status: %q (err=%v)", m.status, m.statusErr)
	}
	if n := len(s.GetAll()); n != 0 {
		t.Errorf("task created despite errors: %d", n)
	}

	m = send(m, keys("a")...)
	m = send(m, enter)
	if !m.statusErr {
		t.Error("empty title should be reported")
	}
}

func TestPagination(t *testing.T) {
	var many []string
	for i := 0; i < 8; i++ {
		many = append(many, strings.Repeat("x", i+1))
	}
	m, _ := newTestModel(t, many...)
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 15}) // 3 per page

	m = send(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.currentPage != 1 || m.selectedTask != 3 {
		t.Errorf("next page: page=%d selected=%d", m.currentPage, m.selectedTask)
	}
	m = send(m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight})
	if m.currentPage != 2 {
		t.Errorf("page should stop at the last one, got %d", m.currentPage)
	}
	m = send(m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.currentPage != 1 {
		t.Errorf("prev page: got %d", m.currentPage)
	}
}

func TestViewRendersSelectedTask(t *testing.T) {
	m, s := newTestModel(t)
	due := time.Date(2024, 6, 14, 0, 0, 0, 0, time.Local)
	desc := "under the sink"
	if _, err := s.Create(store.CreateTaskRequest{Title: "Fix leak", Description: &desc, DueDate: &due}); err != nil {
		t.Fatal(err)
	}
	m = send(m, keys("s")...) // any refresh picks up the new task

	view := m.View()
	for _, want := range []string{"Fix leak", "OVERDUE", "under the sink", "pending"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, "x")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
