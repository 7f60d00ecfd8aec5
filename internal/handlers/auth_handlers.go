package handlers

import (
	"errors"
	"log"
	"net/http"

	"taskboard/internal/auth"
	"taskboard/internal/database"
	"taskboard/internal/forms"
)

const (
	msgRegistered        = "Registered successfully!"
	msgAlreadyRegistered = "This email has already been registered. Please sign in."
	msgNotRegistered     = "This email has not been registered yet, please register first."
	msgIncorrectPassword = "Incorrect password. Try again."
)

func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.pages.Render(w, r, "register.html", http.StatusOK, PageData{Form: forms.RegistrationForm{}})
		return
	}

	form := forms.NewRegistrationForm(r)
	reg, err := form.Validate()
	if err != nil {
		form.Password = ""
		h.renderInvalid(w, r, "register.html", PageData{Form: form}, err)
		return
	}

	ctx := r.Context()
	if _, err := h.store.GetUserByEmail(ctx, reg.Email); err == nil {
		redirectWithFlash(w, r, "/login", msgAlreadyRegistered)
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		serverError(w, r, err)
		return
	}

	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		serverError(w, r, err)
		return
	}

	user, err := h.store.CreateUser(ctx, reg.Username, reg.Email, hash)
	if errors.Is(err, database.ErrDuplicateEmail) {
		redirectWithFlash(w, r, "/login", msgAlreadyRegistered)
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}
	log.Printf("registered user %d", user.ID)

	if err := h.sessions.Start(ctx, w, user); err != nil {
		serverError(w, r, err)
		return
	}
	redirectWithFlash(w, r, dashboardURL(user.Username), msgRegistered)
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.pages.Render(w, r, "login.html", http.StatusOK, PageData{Form: forms.LoginForm{}})
		return
	}

	form := forms.NewLoginForm(r)
	creds, err := form.Validate()
	if err != nil {
		form.Password = ""
		h.renderInvalid(w, r, "login.html", PageData{Form: form}, err)
		return
	}

	user, err := h.sessions.Login(r.Context(), w, creds.Email, creds.Password)
	switch {
	case errors.Is(err, auth.ErrNotRegistered):
		redirectWithFlash(w, r, "/register", msgNotRegistered)
	case errors.Is(err, auth.ErrIncorrectPassword):
		redirectWithFlash(w, r, "/login", msgIncorrectPassword)
	case err != nil:
		serverError(w, r, err)
	default:
		h.redirectDashboard(w, r, user)
	}
}

func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	h.sessions.End(w, r)
	http.Redirect(w, r, "/", http.StatusFound)
}

// renderInvalid re-renders a form page with its field errors.
func (h *Handler) renderInvalid(w http.ResponseWriter, r *http.Request, page string, data PageData, err error) {
	var errs forms.Errors
	if !errors.As(err, &errs) {
		serverError(w, r, err)
		return
	}
	data.Errors = errs
	h.pages.Render(w, r, page, http.StatusUnprocessableEntity, data)
}
