package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"taskboard/internal/models"
)

// TaskFields are the user-editable parts of a task.
type TaskFields struct {
	Title       string
	Description string
	DueDate     *time.Time
	TagID       int64
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const taskColumns = "id, title, description, due_date, progress, date_created, creator_id, tag_id"

// CreateTask adds a pending task created today and owned by creatorID. The
// tag must be one of the creator's boards, checked in the same transaction so
// a concurrent board deletion cannot leave the task stranded.
func (s *Store) CreateTask(ctx context.Context, creatorID int64, fields TaskFields) (*models.Task, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		if err := requireSubscription(ctx, tx, creatorID, fields.TagID); err != nil {
			return err
		}
		id, err = insertTask(ctx, tx, creatorID, fields)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetTask(ctx, creatorID, id)
}

func insertTask(ctx context.Context, ex execer, creatorID int64, fields TaskFields) (int64, error) {
	result, err := ex.ExecContext(ctx,
		`INSERT INTO tasks (title, description, due_date, progress, date_created, creator_id, tag_id)
		 VALUES (?, ?, ?, 0, ?, ?, ?)`,
		fields.Title, fields.Description, formatDate(fields.DueDate),
		models.Today().Format(models.DateLayout), creatorID, fields.TagID)
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	return result.LastInsertId()
}

// GetTask loads a task owned by userID. Tasks of other users are reported as
// ErrNotFound.
func (s *Store) GetTask(ctx context.Context, userID, id int64) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ? AND creator_id = ?", id, userID)
	task, err := scanTask(row)
	if err != nil {
		return nil, notFound(err)
	}
	return task, nil
}

func (s *Store) ListTasksByCreator(ctx context.Context, userID int64) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE creator_id = ? ORDER BY date_created ASC, id ASC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// UpdateTask overwrites title, description, due date and tag. Progress and
// creation date are left alone. The new tag must be one the user is
// subscribed to.
func (s *Store) UpdateTask(ctx context.Context, userID, id int64, fields TaskFields) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE tasks SET title = ?, description = ?, due_date = ?, tag_id = ?
			 WHERE id = ? AND creator_id = ?`,
			fields.Title, fields.Description, formatDate(fields.DueDate), fields.TagID, id, userID)
		if err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		if err := requireRow(result); err != nil {
			return err
		}
		return requireSubscription(ctx, tx, userID, fields.TagID)
	})
}

// ToggleTask flips progress between pending and done and returns the result.
func (s *Store) ToggleTask(ctx context.Context, userID, id int64) (*models.Task, error) {
	var task *models.Task
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			"UPDATE tasks SET progress = NOT progress WHERE id = ? AND creator_id = ?", id, userID)
		if err != nil {
			return fmt.Errorf("toggle task: %w", err)
		}
		if err := requireRow(result); err != nil {
			return err
		}
		row := tx.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
		task, err = scanTask(row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Store) DeleteTask(ctx context.Context, userID, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE id = ? AND creator_id = ?", id, userID)
		if err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		return requireRow(result)
	})
}

func requireSubscription(ctx context.Context, tx *sql.Tx, userID, tagID int64) error {
	var one int
	err := tx.QueryRowContext(ctx,
		"SELECT 1 FROM association WHERE users_id = ? AND tags_id = ?", userID, tagID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotSubscribed
	}
	return err
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	var description, dueDate sql.NullString
	var dateCreated string
	if err := row.Scan(&t.ID, &t.Title, &description, &dueDate, &t.Progress, &dateCreated, &t.CreatorID, &t.TagID); err != nil {
		return nil, err
	}
	t.Description = description.String

	created, err := time.Parse(models.DateLayout, dateCreated)
	if err != nil {
		return nil, fmt.Errorf("task %d date_created: %w", t.ID, err)
	}
	t.DateCreated = created

	if dueDate.Valid && dueDate.String != "" {
		due, err := time.Parse(models.DateLayout, dueDate.String)
		if err != nil {
			return nil, fmt.Errorf("task %d due_date: %w", t.ID, err)
		}
		t.DueDate = &due
	}
	return &t, nil
}

func formatDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(models.DateLayout)
}
