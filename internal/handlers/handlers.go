package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"taskboard/internal/auth"
	"taskboard/internal/database"
	"taskboard/internal/flash"
	"taskboard/internal/models"
)

// Handler serves every route of the task board.
type Handler struct {
	store    *database.Store
	sessions *auth.Manager
	pages    *Renderer
}

func New(store *database.Store, sessions *auth.Manager, pages *Renderer) *Handler {
	return &Handler{store: store, sessions: sessions, pages: pages}
}

// currentUser must only be called behind auth.RequireUser.
func currentUser(r *http.Request) *models.User {
	user, _ := auth.CurrentUser(r.Context())
	return user
}

func urlID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil
}

func (h *Handler) redirectDashboard(w http.ResponseWriter, r *http.Request, user *models.User) {
	http.Redirect(w, r, dashboardURL(user.Username), http.StatusFound)
}

// redirectWithFlash sends the user to target with message shown on arrival.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, target, message string) {
	flash.Set(w, message)
	http.Redirect(w, r, target, http.StatusFound)
}

// fail maps store errors to a response: missing entities go back to the
// dashboard with a notice, anything else is logged and reported as a 500.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	if errors.Is(err, database.ErrNotFound) {
		redirectWithFlash(w, r, dashboardURL(currentUser(r).Username), notFoundMsg)
		return
	}
	serverError(w, r, err)
}

func serverError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func (h *Handler) HomeHandler(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, "index.html", http.StatusOK, PageData{})
}
