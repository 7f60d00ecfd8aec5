package handlers

import (
	"errors"
	"net/http"

	"taskboard/internal/database"
	"taskboard/internal/forms"
	"taskboard/internal/models"
)

const msgTaskNotFound = "Task not found."

var errInvalidTag = forms.Errors{"tag": "Not a valid choice."}

func (h *Handler) tagChoices(r *http.Request, user *models.User) ([]string, error) {
	tags, err := h.store.ListSubscribedTags(r.Context(), user.ID)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.TagName
	}
	return names, nil
}

// resolveTaskInput validates the posted task form and resolves its tag.
// On a validation failure it re-renders the form and returns ok=false.
func (h *Handler) resolveTaskInput(w http.ResponseWriter, r *http.Request, user *models.User, data PageData, form forms.TaskForm) (database.TaskFields, bool) {
	data.Form = form
	in, err := form.Validate()
	if err != nil {
		h.renderInvalid(w, r, "add_task.html", data, err)
		return database.TaskFields{}, false
	}

	tag, err := h.store.SubscribedTagByName(r.Context(), user.ID, in.TagName)
	if errors.Is(err, database.ErrNotFound) {
		h.renderInvalid(w, r, "add_task.html", data, errInvalidTag)
		return database.TaskFields{}, false
	}
	if err != nil {
		serverError(w, r, err)
		return database.TaskFields{}, false
	}

	return database.TaskFields{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		TagID:       tag.ID,
	}, true
}

func (h *Handler) AddTaskHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	choices, err := h.tagChoices(r, user)
	if err != nil {
		serverError(w, r, err)
		return
	}

	if r.Method == http.MethodGet {
		h.pages.Render(w, r, "add_task.html", http.StatusOK, PageData{Form: forms.TaskForm{Choices: choices}})
		return
	}

	form := forms.NewTaskForm(r, choices)
	fields, ok := h.resolveTaskInput(w, r, user, PageData{}, form)
	if !ok {
		return
	}

	_, err = h.store.CreateTask(r.Context(), user.ID, fields)
	if errors.Is(err, database.ErrNotSubscribed) {
		h.renderInvalid(w, r, "add_task.html", PageData{Form: form}, errInvalidTag)
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}
	h.redirectDashboard(w, r, user)
}

func (h *Handler) EditTaskHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id, ok := urlID(r, "taskID")
	if !ok {
		h.fail(w, r, database.ErrNotFound, msgTaskNotFound)
		return
	}

	ctx := r.Context()
	task, err := h.store.GetTask(ctx, user.ID, id)
	if err != nil {
		h.fail(w, r, err, msgTaskNotFound)
		return
	}

	choices, err := h.tagChoices(r, user)
	if err != nil {
		serverError(w, r, err)
		return
	}
	data := PageData{IsEdit: true, TaskID: task.ID}

	if r.Method == http.MethodGet {
		tagName := ""
		if tag, err := h.store.GetTag(ctx, task.TagID); err == nil {
			tagName = tag.TagName
		}
		data.Form = forms.TaskFormFrom(*task, tagName, choices)
		h.pages.Render(w, r, "add_task.html", http.StatusOK, data)
		return
	}

	form := forms.NewTaskForm(r, choices)
	fields, ok := h.resolveTaskInput(w, r, user, data, form)
	if !ok {
		return
	}

	err = h.store.UpdateTask(ctx, user.ID, task.ID, fields)
	if errors.Is(err, database.ErrNotSubscribed) {
		data.Form = form
		h.renderInvalid(w, r, "add_task.html", data, errInvalidTag)
		return
	}
	if err != nil {
		h.fail(w, r, err, msgTaskNotFound)
		return
	}
	h.redirectDashboard(w, r, user)
}

func (h *Handler) DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id, ok := urlID(r, "taskID")
	if !ok {
		h.fail(w, r, database.ErrNotFound, msgTaskNotFound)
		return
	}

	if err := h.store.DeleteTask(r.Context(), user.ID, id); err != nil {
		h.fail(w, r, err, msgTaskNotFound)
		return
	}
	h.redirectDashboard(w, r, user)
}

func (h *Handler) DoneHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id, ok := urlID(r, "taskID")
	if !ok {
		h.fail(w, r, database.ErrNotFound, msgTaskNotFound)
		return
	}

	if _, err := h.store.ToggleTask(r.Context(), user.ID, id); err != nil {
		h.fail(w, r, err, msgTaskNotFound)
		return
	}
	h.redirectDashboard(w, r, user)
}
