package database

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/models"
)

func (s *Store) CreateSession(ctx context.Context, userID int64, duration time.Duration) (*models.Session, error) {
	sess := models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(duration).UTC().Truncate(time.Second),
	}

	_, err := s.db.ExecContext(ctx, "INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)",
		sess.ID, sess.UserID, sess.ExpiresAt.Unix())
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// GetSession returns a live session. Expired sessions are deleted and
// reported as ErrNotFound.
func (s *Store) GetSession(ctx context.Context, id string) (*models.Session, error) {
	sess := models.Session{ID: id}
	var expiresAt int64
	err := s.db.QueryRowContext(ctx, "SELECT user_id, expires_at FROM sessions WHERE id = ?", id).
		Scan(&sess.UserID, &expiresAt)
	if err != nil {
		return nil, notFound(err)
	}
	sess.ExpiresAt = time.Unix(expiresAt, 0).UTC()

	if time.Now().After(sess.ExpiresAt) {
		if err := s.DeleteSession(ctx, id); err != nil {
			log.Printf("delete expired session: %v", err)
		}
		return nil, ErrNotFound
	}

	return &sess, nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	return err
}

// DeleteExpiredSessions prunes stale rows and reports how many went away.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < ?", time.Now().Unix())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
