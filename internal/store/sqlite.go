package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// taskRow is one task in the sqlite backend
type taskRow struct {
	ID                int `gorm:"primaryKey;autoIncrement:false"`
	Position          int `gorm:"not null;index"`
	Title             string
	Description       *string
	Completed         bool
	CreatedOn         string `gorm:"column:created_at"`
	Priority          string
	Tags              string // JSON array
	DueDate           *string
	IsRecurring       bool
	RecurrencePattern *string
	SeriesID          int
}

func (taskRow) TableName() string { return "tasks" }

// storeMeta holds scalar store state such as the id counter
type storeMeta struct {
	Key   string `gorm:"primaryKey"`
	Value int
}

func (storeMeta) TableName() string { return "store_meta" }

const metaNextID = "next_id"

// SQLite keeps the task document in a sqlite database through gorm.
// Every Write replaces all rows, matching the JSON file's overwrite semantics.
type SQLite struct {
	path string
	db   *gorm.DB
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
// An existing file that is not a usable database is moved aside to
// path+".corrupt" and a fresh database is created in its place.
func OpenSQLite(path string, logger *log.Logger) (*SQLite, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := openDatabase(path)
	if err != nil {
		if _, statErr := os.Stat(path); statErr != nil {
			return nil, err
		}
		aside := path + ".corrupt"
		logger.Warn("moving unreadable database aside", "path", path, "moved_to", aside, "err", err)
		if err := os.Rename(path, aside); err != nil {
			return nil, fmt.Errorf("failed to move corrupt database: %w", err)
		}
		if db, err = openDatabase(path); err != nil {
			return nil, err
		}
	}

	return &SQLite{path: path, db: db}, nil
}

func openDatabase(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent), // Quiet by default
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&taskRow{}, &storeMeta{}); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// Read loads every row in insertion order
func (s *SQLite) Read(now time.Time) (*Document, error) {
	var rows []taskRow
	if err := s.db.Order("position ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}

	var meta storeMeta
	err := s.db.Where(&storeMeta{Key: metaNextID}).First(&meta).Error
	hasMeta := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to read store metadata: %w", err)
	}

	if len(rows) == 0 && !hasMeta {
		return nil, ErrNoData
	}

	doc := &Document{}
	for i, row := range rows {
		rt, err := row.toRaw()
		if err != nil {
			return nil, &DocumentError{Path: fmt.Sprintf("tasks[%d].tags", i), Err: err}
		}
		task, err := parseTask(rt, now)
		if err != nil {
			return nil, &DocumentError{Path: fmt.Sprintf("tasks[%d].id", i), Err: err}
		}
		doc.Tasks = append(doc.Tasks, task)
	}

	var stored *int
	if hasMeta {
		stored = &meta.Value
	}
	doc.NextID = nextIDFor(doc.Tasks, stored)
	return doc, nil
}

// Write replaces all rows and the counter in one transaction
func (s *SQLite) Write(doc *Document) error {
	file := fileDocument{NextID: doc.NextID}
	for i := range doc.Tasks {
		file.Tasks = append(file.Tasks, toRecord(&doc.Tasks[i]))
	}

	rows := make([]taskRow, 0, len(file.Tasks))
	for i, rec := range file.Tasks {
		tags, err := json.Marshal(rec.Tags)
		if err != nil {
			return fmt.Errorf("failed to encode tags for task #%d: %w", rec.ID, err)
		}
		rows = append(rows, taskRow{
			ID:                rec.ID,
			Position:          i,
			Title:             rec.Title,
			Description:       rec.Description,
			Completed:         rec.Completed,
			CreatedOn:         rec.CreatedAt,
			Priority:          rec.Priority,
			Tags:              string(tags),
			DueDate:           rec.DueDate,
			IsRecurring:       rec.IsRecurring,
			RecurrencePattern: rec.RecurrencePattern,
			SeriesID:          rec.SeriesID,
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM tasks").Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(rows, 100).Error; err != nil {
				return err
			}
		}
		return tx.Save(&storeMeta{Key: metaNextID, Value: file.NextID}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to write tasks: %w", err)
	}
	return nil
}

// Location returns the database path
func (s *SQLite) Location() string {
	return s.path
}

// Close closes the database connection
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (row taskRow) toRaw() (rawTask, error) {
	id := row.ID
	title := row.Title
	completed := row.Completed
	created := row.CreatedOn
	priority := row.Priority
	recurring := row.IsRecurring
	series := row.SeriesID

	rt := rawTask{
		ID:                &id,
		Title:             &title,
		Description:       row.Description,
		Completed:         &completed,
		CreatedAt:         &created,
		Priority:          &priority,
		DueDate:           row.DueDate,
		IsRecurring:       &recurring,
		RecurrencePattern: row.RecurrencePattern,
		SeriesID:          &series,
	}
	if row.Tags != "" {
		if err := json.Unmarshal([]byte(row.Tags), &rt.Tags); err != nil {
			return rawTask{}, err
		}
	}
	return rt, nil
}
