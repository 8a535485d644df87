package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/tick/internal/models"
	"github.com/balkashynov/tick/internal/parser"
	"github.com/balkashynov/tick/internal/store"
)

// TaskStore is what the browser needs from the task store
type TaskStore interface {
	GetAll() []models.Task
	Search(query string) []models.Task
	Sort(by string, reverse bool) []models.Task
	Create(req store.CreateTaskRequest) (*models.Task, error)
	CreateRecurring(req store.CreateTaskRequest, pattern string) (*models.Task, error)
	ToggleCompletion(id int) (bool, error)
}

// sortCycle is the order the sort key rotates through; "" keeps insertion order
var sortCycle = append([]string{""}, store.SortKeys...)

// ListModel represents the TUI model for browsing tasks
type ListModel struct {
	width  int
	height int

	store TaskStore
	now   func() time.Time

	// Visible tasks after search and sort
	tasks        []models.Task
	selectedTask int // index in tasks slice

	// UI state
	focus     Focus
	search    textinput.Model
	quickAdd  textinput.Model
	sortIndex int
	reverse   bool
	status    string
	statusErr bool

	// Pagination
	currentPage  int
	tasksPerPage int
}

// Focus represents what UI element has focus
type Focus int

const (
	FocusTable Focus = iota
	FocusSearch
	FocusAdd
)

func newInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 200
	in.Width = 60
	in.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
	in.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	return in
}

// NewListModel creates a browser over s
func NewListModel(s TaskStore, now func() time.Time) ListModel {
	search := newInput("title or description")
	search.Prompt = "Search: "
	quickAdd := newInput(`Pay rent #home +high due:tomorrow *monthly`)
	quickAdd.Prompt = "New task: "

	m := ListModel{
		store:        s,
		now:          now,
		search:       search,
		quickAdd:     quickAdd,
		focus:        FocusTable,
		tasksPerPage: 10,
	}
	m.refresh()
	return m
}

// Init initializes the model
func (m ListModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Height - header(4) - pagination(2) - status/help(2) - borders(2) - margins(2)
		availableHeight := m.height - 12
		if availableHeight < 3 {
			availableHeight = 3
		}
		m.tasksPerPage = availableHeight
		m.currentPage = m.selectedTask / m.tasksPerPage
		return m, nil

	case tea.KeyMsg:
		switch m.focus {
		case FocusSearch:
			return m.handleSearchKeys(msg)
		case FocusAdd:
			return m.handleAddKeys(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "esc":
			// Clear an applied search first, quit otherwise
			if m.search.Value() != "" {
				m.search.SetValue("")
				m.refresh()
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			return m.moveSelectionUp(), nil

		case "down", "j":
			return m.moveSelectionDown(), nil

		case "left", "h":
			return m.prevPage(), nil

		case "right", "l":
			return m.nextPage(), nil

		case "/":
			m.focus = FocusSearch
			m.search.Focus()
			return m, textinput.Blink

		case "a":
			m.focus = FocusAdd
			m.status, m.statusErr = "", false
			m.quickAdd.SetValue("")
			m.quickAdd.Focus()
			return m, textinput.Blink

		case "d", " ", "enter":
			return m.toggleSelected(), nil

		case "s":
			m.sortIndex = (m.sortIndex + 1) % len(sortCycle)
			m.refresh()
			return m, nil

		case "r":
			m.reverse = !m.reverse
			m.refresh()
			return m, nil
		}
	}

	return m, nil
}

// handleSearchKeys filters the list as the query is typed
func (m ListModel) handleSearchKeys(msg tea.KeyMsg) (ListModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = FocusTable
		m.search.Blur()
		m.search.SetValue("")
		m.refresh()
		return m, nil

	case "enter":
		m.focus = FocusTable
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refresh()
	return m, cmd
}

// handleAddKeys edits the quick-add line and creates the task on enter
func (m ListModel) handleAddKeys(msg tea.KeyMsg) (ListModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = FocusTable
		m.quickAdd.Blur()
		return m, nil

	case "enter":
		m.focus = FocusTable
		m.quickAdd.Blur()
		return m.createFromInput(), nil
	}

	var cmd tea.Cmd
	m.quickAdd, cmd = m.quickAdd.Update(msg)
	return m, cmd
}

func (m ListModel) createFromInput() ListModel {
	parsed := parser.ParseTitle(m.quickAdd.Value(), m.now())
	if len(parsed.Errors) > 0 {
		return m.setError(strings.Join(parsed.Errors, "; "))
	}

	req := store.CreateTaskRequest{
		Title:    parsed.Title,
		Priority: parsed.Priority,
		Tags:     parsed.Tags,
		DueDate:  parsed.DueDate,
	}
	var (
		task *models.Task
		err  error
	)
	if parsed.Recurrence != nil {
		task, err = m.store.CreateRecurring(req, parsed.Recurrence.String())
	} else {
		task, err = m.store.Create(req)
	}
	if task == nil {
		return m.setError(err.Error())
	}

	m.refresh()
	m.selectID(task.ID)
	if err != nil {
		return m.setError(err.Error())
	}
	m.status, m.statusErr = fmt.Sprintf("Created task #%d", task.ID), false
	return m
}

func (m ListModel) toggleSelected() ListModel {
	if len(m.tasks) == 0 {
		return m
	}
	id := m.tasks[m.selectedTask].ID
	if _, err := m.store.ToggleCompletion(id); err != nil {
		m.refresh()
		return m.setError(err.Error())
	}
	m.refresh()
	m.selectID(id)
	m.status, m.statusErr = "", false
	return m
}

func (m ListModel) setError(msg string) ListModel {
	m.status, m.statusErr = msg, true
	return m
}

// refresh reloads the visible tasks from the store
func (m *ListModel) refresh() {
	var tasks []models.Task
	if key := sortCycle[m.sortIndex]; key != "" {
		tasks = m.store.Sort(key, m.reverse)
	} else {
		tasks = m.store.GetAll()
		if m.reverse {
			for i, j := 0, len(tasks)-1; i < j; i, j = i+1, j-1 {
				tasks[i], tasks[j] = tasks[j], tasks[i]
			}
		}
	}

	if query := strings.TrimSpace(m.search.Value()); query != "" {
		match := make(map[int]bool)
		for _, t := range m.store.Search(query) {
			match[t.ID] = true
		}
		filtered := tasks[:0]
		for _, t := range tasks {
			if match[t.ID] {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}

	m.tasks = tasks
	if m.selectedTask >= len(m.tasks) {
		m.selectedTask = max(len(m.tasks)-1, 0)
	}
	m.currentPage = m.selectedTask / m.tasksPerPage
}

// selectID moves the selection to the task with id, if visible
func (m *ListModel) selectID(id int) {
	for i, t := range m.tasks {
		if t.ID == id {
			m.selectedTask = i
			m.currentPage = i / m.tasksPerPage
			return
		}
	}
}

// moveSelectionUp moves the selection up
func (m ListModel) moveSelectionUp() ListModel {
	if m.selectedTask > 0 {
		m.selectedTask--
		m.currentPage = m.selectedTask / m.tasksPerPage
	}
	return m
}

// moveSelectionDown moves the selection down
func (m ListModel) moveSelectionDown() ListModel {
	if m.selectedTask < len(m.tasks)-1 {
		m.selectedTask++
		m.currentPage = m.selectedTask / m.tasksPerPage
	}
	return m
}

func (m ListModel) pageCount() int {
	return (len(m.tasks) + m.tasksPerPage - 1) / m.tasksPerPage
}

// prevPage goes to previous page and selects its first task
func (m ListModel) prevPage() ListModel {
	if m.currentPage > 0 {
		m.currentPage--
		m.selectedTask = m.currentPage * m.tasksPerPage
	}
	return m
}

// nextPage goes to next page and selects its first task
func (m ListModel) nextPage() ListModel {
	if m.currentPage < m.pageCount()-1 {
		m.currentPage++
		m.selectedTask = m.currentPage * m.tasksPerPage
	}
	return m
}

// View renders the TUI
func (m ListModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	leftWidth := m.width * 60 / 100 // 60% for table
	rightWidth := m.width - leftWidth - 1

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTaskTable(leftWidth),
		" ",
		m.renderTaskDetails(rightWidth),
	)

	var bottom string
	switch m.focus {
	case FocusSearch:
		bottom = m.renderInputBar(m.search)
	case FocusAdd:
		bottom = m.renderInputBar(m.quickAdd)
	default:
		bottom = m.renderHelpBar()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		"",
		content,
		m.renderStatus(),
		bottom,
	)
}

// renderTaskTable renders the left panel with the task table
func (m ListModel) renderTaskTable(width int) string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright))

	heading := "Tasks"
	if key := sortCycle[m.sortIndex]; key != "" {
		heading += " by " + key
	}
	if m.reverse {
		heading += " (reversed)"
	}
	if q := m.search.Value(); q != "" {
		heading += fmt.Sprintf(" matching %q", q)
	}
	b.WriteString(headerStyle.Render(heading))
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true)
		b.WriteString(emptyStyle.Render("No tasks found"))
		return m.panel(width).Render(b.String())
	}

	idWidth := 4
	statusWidth := 6
	dueWidth := 10
	titleWidth := width - 4 - idWidth - statusWidth - dueWidth - 6
	if titleWidth < 20 {
		titleWidth = 20
	}

	columnHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright)).
		Padding(0, 1)
	b.WriteString(columnHeaderStyle.Render(fmt.Sprintf("%-*s %-*s %-*s %-*s",
		idWidth, "ID",
		titleWidth, "TITLE",
		statusWidth, "STATUS",
		dueWidth, "DUE")))
	b.WriteString("\n")

	now := m.now()
	start := m.currentPage * m.tasksPerPage
	end := min(start+m.tasksPerPage, len(m.tasks))
	for i := start; i < end; i++ {
		task := m.tasks[i]

		title := task.Title
		if task.IsRecurring {
			title = "↻ " + title
		}
		title = truncate(title, titleWidth)

		status := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render(fmt.Sprintf("%-*s", statusWidth, "○ todo"))
		if task.Completed {
			status = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render(fmt.Sprintf("%-*s", statusWidth, "✓ done"))
		}

		row := fmt.Sprintf("%-*s %-*s %s %s",
			idWidth, fmt.Sprintf("#%d", task.ID),
			titleWidth, title,
			status,
			renderDueCell(task, now, dueWidth))

		if i == m.selectedTask {
			selected := lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorAccentMain)).
				Bold(true).
				Padding(0, 1)
			b.WriteString(selected.Render(row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}

	if pages := m.pageCount(); pages > 1 {
		pageStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHelpText)).
			Align(lipgloss.Center).
			Width(width - 2).
			MarginTop(1)
		b.WriteString(pageStyle.Render(fmt.Sprintf("Page %d/%d (%d tasks)", m.currentPage+1, pages, len(m.tasks))))
	}

	return m.panel(width).Render(b.String())
}

// renderDueCell renders the due column: relative words for the next week, a date otherwise
func renderDueCell(task models.Task, now time.Time, width int) string {
	if task.DueDate == nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Render(fmt.Sprintf("%-*s", width, "-"))
	}

	days := models.DaysBetween(now, *task.DueDate)
	var text, color string
	switch {
	case task.Completed:
		text, color = task.DueDate.Format("02 Jan"), ColorDisabledText
	case days < 0:
		text, color = "OVERDUE", ColorError
	case days == 0:
		text, color = "TODAY", ColorWarning
	case days == 1:
		text, color = "TOMORROW", ColorWarning
	case days <= 7:
		text, color = fmt.Sprintf("%dd", days), ColorAccentBright
	default:
		text, color = task.DueDate.Format("02 Jan"), ColorSecondaryText
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(fmt.Sprintf("%-*s", width, text))
}

// renderTaskDetails renders the right panel with task details
func (m ListModel) renderTaskDetails(width int) string {
	var b strings.Builder

	if len(m.tasks) == 0 {
		logoStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentMain)).
			Bold(true).
			Align(lipgloss.Center).
			Width(width)
		b.WriteString(logoStyle.Render("tick"))
		b.WriteString("\n")
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Align(lipgloss.Center).
			Width(width).
			MarginTop(2)
		b.WriteString(emptyStyle.Render("Press a to add a task"))
		return m.panel(width).Render(b.String())
	}

	task := m.tasks[m.selectedTask]
	label := func(name string) string {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render(name + ": ")
	}
	colored := func(color, s string) string {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(s)
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Width(width - 2)
	b.WriteString(titleStyle.Render(fmt.Sprintf("#%d %s", task.ID, task.Title)))
	b.WriteString("\n\n")

	if task.Completed {
		b.WriteString(label("Status") + colored(ColorSuccess, "completed") + "\n")
	} else {
		b.WriteString(label("Status") + colored(ColorSecondaryText, "pending") + "\n")
	}

	priorityColor := ColorSecondaryText
	switch task.Priority {
	case models.PriorityHigh:
		priorityColor = ColorError
	case models.PriorityMedium:
		priorityColor = ColorWarning
	}
	b.WriteString(label("Priority") + colored(priorityColor, task.Priority.String()) + "\n")

	if len(task.Tags) > 0 {
		b.WriteString(label("Tags") + colored(ColorAccentBright, strings.Join(task.Tags, ", ")) + "\n")
	}

	now := m.now()
	if task.DueDate != nil {
		dueColor := ColorWarning
		if task.IsOverdue(now) {
			dueColor = ColorError
		}
		b.WriteString(label("Due") + colored(dueColor, parser.FormatDueDate(task.DueDate, task.Completed, now)) + "\n")
	}

	b.WriteString(label("Created") + models.FormatDate(task.CreatedAt) + "\n")

	if task.IsRecurring && task.RecurrencePattern != nil {
		b.WriteString(label("Repeats") + colored(ColorAccentMain, task.RecurrencePattern.String()) + "\n")
	}

	if task.Description != nil && *task.Description != "" {
		b.WriteString("\n")
		descStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Width(width - 2)
		b.WriteString(descStyle.Render(*task.Description))
	}

	return m.panel(width).Render(b.String())
}

func (m ListModel) panel(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width)
}

func (m ListModel) renderStatus() string {
	if m.status == "" {
		return ""
	}
	color := ColorSuccess
	if m.statusErr {
		color = ColorError
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Padding(0, 1).Render(m.status)
}

// renderInputBar renders the search or quick-add line
func (m ListModel) renderInputBar(in textinput.Model) string {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(ColorBorder)).
		Padding(0, 1).
		Width(m.width - 2).
		Render(in.View())
}

// renderHelpBar renders the help bar with hotkey hints
func (m ListModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	return helpStyle.Render("↑/↓ nav · ←/→ page · / search · a add · d done · s sort · r reverse · q quit")
}

// truncate shortens s to at most n runes
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
