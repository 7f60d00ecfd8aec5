package database

import (
	"context"
	"database/sql"
	"fmt"

	"taskboard/internal/models"
)

const (
	placeholderTitle       = "New Task"
	placeholderDescription = "Add a new task to your new board."
)

func (s *Store) GetTag(ctx context.Context, id int64) (*models.Tag, error) {
	var t models.Tag
	err := s.db.QueryRowContext(ctx, "SELECT id, tag_name FROM tags WHERE id = ?", id).Scan(&t.ID, &t.TagName)
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// GetTagByName looks a tag up by its title-cased name.
func (s *Store) GetTagByName(ctx context.Context, name string) (*models.Tag, error) {
	var t models.Tag
	err := s.db.QueryRowContext(ctx, "SELECT id, tag_name FROM tags WHERE tag_name = ?",
		models.NormalizeTagName(name)).Scan(&t.ID, &t.TagName)
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// SubscribedTagByName resolves a tag name the user is subscribed to.
func (s *Store) SubscribedTagByName(ctx context.Context, userID int64, name string) (*models.Tag, error) {
	var t models.Tag
	err := s.db.QueryRowContext(ctx, `
		SELECT t.id, t.tag_name
		FROM tags t
		JOIN association a ON a.tags_id = t.id
		WHERE a.users_id = ? AND t.tag_name = ?`, userID, models.NormalizeTagName(name)).Scan(&t.ID, &t.TagName)
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *Store) ListTags(ctx context.Context) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, tag_name FROM tags ORDER BY tag_name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTags(rows)
}

// ListSubscribedTags returns the boards the user is subscribed to.
func (s *Store) ListSubscribedTags(ctx context.Context, userID int64) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.tag_name
		FROM tags t
		JOIN association a ON a.tags_id = t.id
		WHERE a.users_id = ?
		ORDER BY t.tag_name ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTags(rows)
}

func scanTags(rows *sql.Rows) ([]models.Tag, error) {
	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.TagName); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (s *Store) Subscribers(ctx context.Context, tagID int64) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.username, u.email
		FROM users u
		JOIN association a ON a.users_id = u.id
		WHERE a.tags_id = ?
		ORDER BY u.id ASC`, tagID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) IsSubscribed(ctx context.Context, userID, tagID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM association WHERE users_id = ? AND tags_id = ?", userID, tagID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateBoard reuses the tag with the title-cased name, or creates it, and
// subscribes the user. A user subscribing for the first time also gets a
// placeholder task on the board.
func (s *Store) CreateBoard(ctx context.Context, userID int64, name string) (*models.Tag, error) {
	tag := models.Tag{TagName: models.NormalizeTagName(name)}
	if tag.TagName == "" {
		return nil, fmt.Errorf("create board: empty tag name")
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO tags (tag_name) VALUES (?)", tag.TagName); err != nil {
			return fmt.Errorf("insert tag: %w", err)
		}
		if err := tx.QueryRowContext(ctx, "SELECT id FROM tags WHERE tag_name = ?", tag.TagName).Scan(&tag.ID); err != nil {
			return fmt.Errorf("find tag: %w", err)
		}

		result, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO association (users_id, tags_id) VALUES (?, ?)", userID, tag.ID)
		if err != nil {
			return fmt.Errorf("subscribe: %w", err)
		}
		added, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if added == 0 {
			return nil
		}

		_, err = insertTask(ctx, tx, userID, TaskFields{
			Title:       placeholderTitle,
			Description: placeholderDescription,
			TagID:       tag.ID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteBoard removes the user's tasks under the tag and then the user's
// subscription. The tag row and other subscribers' tasks stay.
func (s *Store) DeleteBoard(ctx context.Context, userID, tagID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var n int
		err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM association WHERE users_id = ? AND tags_id = ?", userID, tagID).Scan(&n)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}

		if _, err := tx.ExecContext(ctx,
			"DELETE FROM tasks WHERE creator_id = ? AND tag_id = ?", userID, tagID); err != nil {
			return fmt.Errorf("delete board tasks: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM association WHERE users_id = ? AND tags_id = ?", userID, tagID); err != nil {
			return fmt.Errorf("unsubscribe: %w", err)
		}
		return nil
	})
}
