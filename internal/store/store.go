package store

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/balkashynov/tick/internal/models"
)

// Store owns the task collection and writes it through to a Backend after
// every mutation. It is not safe for concurrent use.
type Store struct {
	backend Backend
	tasks   []models.Task
	nextID  int

	now         func() time.Time
	logger      *log.Logger
	strictDaily bool
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for load recovery and rollover messages
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithStrictDaily controls whether daily tasks wait a full calendar day
// before rolling over. Disabling it makes every check roll daily tasks.
func WithStrictDaily(strict bool) Option {
	return func(s *Store) { s.strictDaily = strict }
}

// CreateTaskRequest holds the data needed to create a new task
type CreateTaskRequest struct {
	Title       string
	Description *string
	Priority    *models.Priority // nil means medium
	Tags        []string
	DueDate     *time.Time
}

// UpdateTaskRequest holds optional field replacements; nil leaves a field unchanged
type UpdateTaskRequest struct {
	Title       *string
	Description *string
	Priority    *models.Priority
	Tags        *[]string
	DueDate     *time.Time
}

// Open builds a store on backend and loads whatever it holds
func Open(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:     backend,
		nextID:      1,
		now:         time.Now,
		logger:      log.New(io.Discard),
		strictDaily: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Load()
	return s
}

// OpenFile builds a store backed by the JSON file at path
func OpenFile(path string, opts ...Option) *Store {
	return Open(NewJSONFile(path), opts...)
}

// Location returns where the store persists its data
func (s *Store) Location() string {
	return s.backend.Location()
}

// Close releases the backend
func (s *Store) Close() error {
	return s.backend.Close()
}

// NextID returns the id the next created task will receive
func (s *Store) NextID() int {
	return s.nextID
}

// Load replaces the in-memory collection with the backend's content.
// A missing or corrupt source leaves an empty store; the error is logged,
// never returned, so a damaged file can't keep the application from starting.
func (s *Store) Load() {
	s.tasks = []models.Task{}
	s.nextID = 1

	doc, err := s.backend.Read(s.now())
	if err != nil {
		if !errors.Is(err, ErrNoData) {
			s.logger.Warn("discarding unreadable task data", "location", s.backend.Location(), "err", err)
		}
		return
	}

	s.nextID = doc.NextID
	// Duplicate ids in a hand-edited file are remapped like imports
	s.placeAll(doc.Tasks)
	s.logger.Debug("loaded tasks", "count", len(s.tasks), "next_id", s.nextID)
}

// Save writes the full collection and the id counter to the backend
func (s *Store) Save() error {
	doc := &Document{Tasks: s.tasks, NextID: s.nextID}
	if err := s.backend.Write(doc); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	s.logger.Debug("saved tasks", "count", len(s.tasks), "location", s.backend.Location())
	return nil
}

// Create adds a new task. An empty title (after trimming) returns
// models.ErrEmptyTitle and leaves the collection unchanged.
func (s *Store) Create(req CreateTaskRequest) (*models.Task, error) {
	task, err := s.newTask(req)
	if err != nil {
		return nil, err
	}
	return s.append(task)
}

// CreateRecurring adds a new recurring task with the given pattern
func (s *Store) CreateRecurring(req CreateTaskRequest, pattern string) (*models.Task, error) {
	p, ok := models.ParseRecurrence(pattern)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}

	task, err := s.newTask(req)
	if err != nil {
		return nil, err
	}
	task.IsRecurring = true
	task.RecurrencePattern = &p
	return s.append(task)
}

func (s *Store) newTask(req CreateTaskRequest) (*models.Task, error) {
	task, err := models.NewTask(s.nextID, req.Title, s.now())
	if err != nil {
		return nil, err
	}
	if req.Description != nil {
		d := *req.Description
		task.Description = &d
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Tags != nil {
		task.Tags = append([]string{}, req.Tags...)
	}
	if req.DueDate != nil {
		due := models.Day(*req.DueDate)
		task.DueDate = &due
	}
	return task, nil
}

func (s *Store) append(task *models.Task) (*models.Task, error) {
	s.nextID = task.ID + 1
	s.tasks = append(s.tasks, *task)
	created := s.tasks[len(s.tasks)-1].Clone()
	if err := s.Save(); err != nil {
		return &created, err
	}
	return &created, nil
}

// GetByID returns a copy of the task with id
func (s *Store) GetByID(id int) (*models.Task, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	task := s.tasks[idx].Clone()
	return &task, true
}

// GetAll returns copies of every task in insertion order
func (s *Store) GetAll() []models.Task {
	return s.snapshot()
}

// Update replaces the supplied fields of task id. A supplied title that is
// empty after trimming returns models.ErrEmptyTitle and changes nothing.
func (s *Store) Update(id int, req UpdateTaskRequest) (bool, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}

	var title string
	if req.Title != nil {
		var err error
		if title, err = models.NormalizeTitle(*req.Title); err != nil {
			return false, err
		}
	}

	task := &s.tasks[idx]
	if req.Title != nil {
		task.Title = title
	}
	if req.Description != nil {
		d := *req.Description
		task.Description = &d
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Tags != nil {
		task.Tags = append([]string{}, (*req.Tags)...)
	}
	if req.DueDate != nil {
		due := models.Day(*req.DueDate)
		task.DueDate = &due
	}

	return true, s.Save()
}

// ClearDueDate removes the due date of task id
func (s *Store) ClearDueDate(id int) (bool, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	s.tasks[idx].DueDate = nil
	return true, s.Save()
}

// Delete removes task id
func (s *Store) Delete(id int) (bool, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	return true, s.Save()
}

// ToggleCompletion flips the completed flag of task id
func (s *Store) ToggleCompletion(id int) (bool, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	s.tasks[idx].Completed = !s.tasks[idx].Completed
	return true, s.Save()
}

// SetCompleted marks task id complete or incomplete
func (s *Store) SetCompleted(id int, completed bool) (bool, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	s.tasks[idx].Completed = completed
	return true, s.Save()
}

// AddImported places a task from an external source. An id already in use
// is replaced by the next free id; the existing task always wins.
func (s *Store) AddImported(task models.Task) (*models.Task, error) {
	placed := s.place(task)
	return placed, s.Save()
}

// place appends task, remapping a colliding id, and advances the counter
func (s *Store) place(task models.Task) *models.Task {
	task = task.Clone()
	if task.ID <= 0 || s.indexOf(task.ID) >= 0 {
		task.ID = s.nextID
		s.nextID++
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
	s.tasks = append(s.tasks, task)
	if task.ID >= s.nextID {
		s.nextID = task.ID + 1
	}
	placed := task.Clone()
	return &placed
}

// placeAll places the tasks of one document. Series links follow the ids
// the tasks ended up with. A series whose root is not in the document is
// rooted at its first member, so it never joins an unrelated local series.
func (s *Store) placeAll(tasks []models.Task) {
	start := len(s.tasks)
	ids := make(map[int]int, len(tasks)) // document id -> placed id
	for _, task := range tasks {
		placed := s.place(task)
		if _, seen := ids[task.ID]; !seen && task.ID > 0 {
			ids[task.ID] = placed.ID
		}
	}

	for i := start; i < len(s.tasks); i++ {
		task := &s.tasks[i]
		if task.SeriesID == 0 {
			continue
		}
		root, ok := ids[task.SeriesID]
		if !ok {
			root = task.ID
			ids[task.SeriesID] = root
		}
		if root == task.ID {
			root = 0
		}
		task.SeriesID = root
	}
}

func (s *Store) indexOf(id int) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshot() []models.Task {
	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t.Clone())
	}
	return out
}
