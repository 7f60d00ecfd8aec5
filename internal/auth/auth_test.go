package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskboard/internal/database"
	"taskboard/internal/models"
)

func newTestManager(t *testing.T) (*Manager, *database.Store) {
	t.Helper()
	store, err := database.Open(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewManager(store, "test-secret", time.Hour, false), store
}

func registerUser(t *testing.T, store *database.Store, email, password string) *models.User {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	u, err := store.CreateUser(context.Background(), "user", email, hash)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func requestWithCookies(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "hunter2" {
		t.Fatal("password stored in clear")
	}
	if !CheckPassword(hash, "hunter2") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "hunter3") {
		t.Error("wrong password accepted")
	}
}

func TestLoginEstablishesSession(t *testing.T) {
	m, store := newTestManager(t)
	u := registerUser(t, store, "a@x.com", "pw")

	rec := httptest.NewRecorder()
	got, err := m.Login(context.Background(), rec, "A@x.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("Login user: got %d, want %d", got.ID, u.ID)
	}

	authed, err := m.Authenticate(requestWithCookies(rec))
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if authed.ID != u.ID {
		t.Errorf("Authenticate user: got %d, want %d", authed.ID, u.ID)
	}
}

func TestLoginFailures(t *testing.T) {
	m, store := newTestManager(t)
	registerUser(t, store, "a@x.com", "pw")

	rec := httptest.NewRecorder()
	if _, err := m.Login(context.Background(), rec, "nobody@x.com", "pw"); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("unknown email: got %v, want ErrNotRegistered", err)
	}

	rec = httptest.NewRecorder()
	if _, err := m.Login(context.Background(), rec, "a@x.com", "wrong"); !errors.Is(err, ErrIncorrectPassword) {
		t.Errorf("wrong password: got %v, want ErrIncorrectPassword", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("session cookie set after failed login")
	}
	if _, err := m.Authenticate(requestWithCookies(rec)); !errors.Is(err, ErrNoSession) {
		t.Errorf("Authenticate after failed login: got %v, want ErrNoSession", err)
	}
}

func TestEndRevokesSession(t *testing.T) {
	m, store := newTestManager(t)
	registerUser(t, store, "a@x.com", "pw")

	rec := httptest.NewRecorder()
	if _, err := m.Login(context.Background(), rec, "a@x.com", "pw"); err != nil {
		t.Fatal(err)
	}
	req := requestWithCookies(rec)

	m.End(httptest.NewRecorder(), req)

	// The old token is still well-signed but its session row is gone.
	if _, err := m.Authenticate(req); !errors.Is(err, ErrNoSession) {
		t.Errorf("Authenticate after End: got %v, want ErrNoSession", err)
	}
}

func TestAuthenticateRejectsForeignSignature(t *testing.T) {
	m, store := newTestManager(t)
	u := registerUser(t, store, "a@x.com", "pw")

	sess, err := store.CreateSession(context.Background(), u.ID, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	forger := NewManager(store, "other-secret", time.Hour, false)
	token, err := forger.sign(sess)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	if _, err := m.Authenticate(req); !errors.Is(err, ErrNoSession) {
		t.Errorf("forged token: got %v, want ErrNoSession", err)
	}
}

func TestAuthenticateRejectsSubjectMismatch(t *testing.T) {
	m, store := newTestManager(t)
	u := registerUser(t, store, "a@x.com", "pw")

	sess, err := store.CreateSession(context.Background(), u.ID, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	claims := Claims{
		SessionID: sess.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "999",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	if _, err := m.Authenticate(req); !errors.Is(err, ErrNoSession) {
		t.Errorf("mismatched subject: got %v, want ErrNoSession", err)
	}
}

func TestRequireUserRedirectsAnonymous(t *testing.T) {
	called := false
	h := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/add-task", nil))

	if called {
		t.Error("protected handler ran for anonymous request")
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Errorf("got %d to %q, want 302 to /login", rec.Code, rec.Header().Get("Location"))
	}
}

func TestLoadUserThenRequireUser(t *testing.T) {
	m, store := newTestManager(t)
	u := registerUser(t, store, "a@x.com", "pw")

	rec := httptest.NewRecorder()
	if _, err := m.Login(context.Background(), rec, "a@x.com", "pw"); err != nil {
		t.Fatal(err)
	}

	var seen *models.User
	h := m.LoadUser(RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = CurrentUser(r.Context())
	})))
	h.ServeHTTP(httptest.NewRecorder(), requestWithCookies(rec))

	if seen == nil || seen.ID != u.ID {
		t.Errorf("current user: got %+v, want id %d", seen, u.ID)
	}
}
