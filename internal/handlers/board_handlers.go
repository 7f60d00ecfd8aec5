package handlers

import (
	"log"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"taskboard/internal/database"
	"taskboard/internal/forms"
	"taskboard/internal/models"
)

const msgBoardNotFound = "Board not found."

func (h *Handler) NewBoardHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.pages.Render(w, r, "new_tag.html", http.StatusOK, PageData{Form: forms.TagForm{}})
		return
	}

	user := currentUser(r)
	form := forms.NewTagForm(r)
	name, err := form.Validate()
	if err != nil {
		h.renderInvalid(w, r, "new_tag.html", PageData{Form: form}, err)
		return
	}

	tag, err := h.store.CreateBoard(r.Context(), user.ID, name)
	if err != nil {
		serverError(w, r, err)
		return
	}
	log.Printf("user %d subscribed to board %d (%s)", user.ID, tag.ID, tag.TagName)
	h.redirectDashboard(w, r, user)
}

func (h *Handler) DeleteBoardHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id, ok := urlID(r, "tagID")
	if !ok {
		h.fail(w, r, database.ErrNotFound, msgBoardNotFound)
		return
	}

	if err := h.store.DeleteBoard(r.Context(), user.ID, id); err != nil {
		h.fail(w, r, err, msgBoardNotFound)
		return
	}
	h.redirectDashboard(w, r, user)
}

func (h *Handler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	raw := chi.URLParam(r, "username")
	unescaped, err := url.PathUnescape(raw)
	if err != nil {
		unescaped = raw
	}
	if raw != user.Username && unescaped != user.Username {
		h.redirectDashboard(w, r, user)
		return
	}

	ctx := r.Context()
	tags, err := h.store.ListSubscribedTags(ctx, user.ID)
	if err != nil {
		serverError(w, r, err)
		return
	}
	tasks, err := h.store.ListTasksByCreator(ctx, user.ID)
	if err != nil {
		serverError(w, r, err)
		return
	}

	h.pages.Render(w, r, "dashboard.html", http.StatusOK, PageData{
		Dashboard: models.NewDashboard(*user, tags, tasks),
	})
}
