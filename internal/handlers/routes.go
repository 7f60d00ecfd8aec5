package handlers

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"taskboard/internal/auth"
)

// NewRouter wires every route. static is served under /static/.
func NewRouter(h *Handler, static fs.FS) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(h.sessions.LoadUser)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", h.HomeHandler)
	r.Get("/login", h.LoginHandler)
	r.Post("/login", h.LoginHandler)
	r.Get("/register", h.RegisterHandler)
	r.Post("/register", h.RegisterHandler)
	r.Get("/logout", h.LogoutHandler)

	// Protected Routes
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser)

		r.Get("/add-task", h.AddTaskHandler)
		r.Post("/add-task", h.AddTaskHandler)
		r.Get("/delete-task/{taskID:[0-9]+}", h.DeleteTaskHandler)
		r.Get("/edit-task/{taskID:[0-9]+}", h.EditTaskHandler)
		r.Post("/edit-task/{taskID:[0-9]+}", h.EditTaskHandler)
		r.Get("/done/{taskID:[0-9]+}", h.DoneHandler)
		r.Get("/new-kboard", h.NewBoardHandler)
		r.Post("/new-kboard", h.NewBoardHandler)
		r.Get("/delete-kboard-{tagID:[0-9]+}", h.DeleteBoardHandler)
		r.Get("/dashboard/{username}", h.DashboardHandler)
		r.Get("/export", h.ExportHandler)
	})

	return r
}
