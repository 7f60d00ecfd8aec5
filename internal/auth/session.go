// Package auth tracks which user a request belongs to. A login creates a
// row in the sessions table and hands the browser a signed token naming it;
// logout deletes the row so the token stops working.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskboard/internal/database"
	"taskboard/internal/models"
)

const CookieName = "session"

var (
	ErrNotRegistered     = errors.New("email not registered")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrNoSession         = errors.New("no valid session")
)

// Store is the persistence the session manager needs.
type Store interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateSession(ctx context.Context, userID int64, duration time.Duration) (*models.Session, error)
	GetSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewManager(store Store, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{store: store, secret: []byte(secret), ttl: ttl, secure: secure}
}

// Login checks the credentials and starts a session on success.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, email, password string) (*models.User, error) {
	user, err := m.store.GetUserByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotRegistered
	}
	if err != nil {
		return nil, err
	}

	if !CheckPassword(user.PasswordHash, password) {
		return nil, ErrIncorrectPassword
	}

	if err := m.Start(ctx, w, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Start issues a new session for user and sets the session cookie.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, user *models.User) error {
	if n, err := m.store.DeleteExpiredSessions(ctx); err != nil {
		log.Printf("prune sessions: %v", err)
	} else if n > 0 {
		log.Printf("pruned %d expired sessions", n)
	}

	sess, err := m.store.CreateSession(ctx, user.ID, m.ttl)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	token, err := m.sign(sess)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
	return nil
}

func (m *Manager) sign(sess *models.Session) (string, error) {
	claims := Claims{
		SessionID: sess.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(sess.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Authenticate resolves the request's session cookie to a user.
func (m *Manager) Authenticate(r *http.Request) (*models.User, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ErrNoSession
	}

	claims, err := m.parse(cookie.Value)
	if err != nil {
		return nil, ErrNoSession
	}

	ctx := r.Context()
	sess, err := m.store.GetSession(ctx, claims.SessionID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	if strconv.FormatInt(sess.UserID, 10) != claims.Subject {
		return nil, ErrNoSession
	}

	user, err := m.store.GetUser(ctx, sess.UserID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNoSession
	}
	return user, err
}

// End deletes the session behind the request's cookie, if any, and clears
// the cookie.
func (m *Manager) End(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(CookieName); err == nil {
		if claims, err := m.parse(cookie.Value); err == nil {
			if err := m.store.DeleteSession(r.Context(), claims.SessionID); err != nil {
				log.Printf("delete session: %v", err)
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		Path:     "/",
	})
}
