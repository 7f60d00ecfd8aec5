package auth

import (
	"errors"
	"log"
	"net/http"

	"taskboard/internal/flash"
)

// LoadUser attaches the session's user to the request context when there is
// one. Anonymous requests pass through unchanged.
func (m *Manager) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.Authenticate(r)
		if err != nil {
			if !errors.Is(err, ErrNoSession) {
				log.Printf("authenticate %s: %v", r.URL.Path, err)
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireUser redirects anonymous requests to the login page. It expects
// LoadUser to have run first.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r.Context()); !ok {
			flash.Set(w, "Please log in to access this page.")
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
