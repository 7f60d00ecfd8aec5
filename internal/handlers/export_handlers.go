package handlers

import (
	"archive/zip"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"taskboard/internal/models"
)

type exportTask struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date,omitempty"`
	Done        bool   `json:"done"`
	DateCreated string `json:"date_created"`
}

type exportBoard struct {
	ID    int64        `json:"id"`
	Tag   string       `json:"tag"`
	Tasks []exportTask `json:"tasks"`
}

type exportData struct {
	Version    string        `json:"version"`
	ExportedAt time.Time     `json:"exported_at"`
	Username   string        `json:"username"`
	Email      string        `json:"email"`
	Boards     []exportBoard `json:"boards"`
}

func newExportData(d models.Dashboard) exportData {
	data := exportData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC(),
		Username:   d.User.Username,
		Email:      d.User.Email,
		Boards:     make([]exportBoard, 0, len(d.Boards)),
	}
	for _, b := range d.Boards {
		board := exportBoard{ID: b.Tag.ID, Tag: b.Tag.TagName, Tasks: make([]exportTask, 0, len(b.Tasks))}
		for _, t := range b.Tasks {
			board.Tasks = append(board.Tasks, exportTask{
				ID:          t.ID,
				Title:       t.Title,
				Description: t.Description,
				DueDate:     t.DueString(),
				Done:        t.Progress,
				DateCreated: t.DateCreated.Format(models.DateLayout),
			})
		}
		data.Boards = append(data.Boards, board)
	}
	return data
}

// ExportHandler downloads the current user's boards and tasks as JSON, or
// as a zip of CSV files with format=csv.
func (h *Handler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		http.Error(w, "Invalid format", http.StatusBadRequest)
		return
	}

	user := currentUser(r)
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
	data := newExportData(models.NewDashboard(*user, tags, tasks))
	timestamp := data.ExportedAt.Format("2006-01-02_150405")

	if format == "json" {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"taskboard_export_%s.json\"", timestamp))

		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			serverError(w, r, err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"taskboard_export_%s.zip\"", timestamp))

	zw := zip.NewWriter(w)
	defer zw.Close()

	writeCSV := func(filename string, header []string, rows [][]string) error {
		f, err := zw.Create(filename)
		if err != nil {
			return err
		}
		cw := csv.NewWriter(f)
		if err := cw.Write(header); err != nil {
			return err
		}
		if err := cw.WriteAll(rows); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	}

	var boardRows, taskRows [][]string
	for _, b := range data.Boards {
		boardRows = append(boardRows, []string{strconv.FormatInt(b.ID, 10), b.Tag})
		for _, t := range b.Tasks {
			taskRows = append(taskRows, []string{
				strconv.FormatInt(t.ID, 10),
				strconv.FormatInt(b.ID, 10),
				t.Title,
				t.Description,
				t.DueDate,
				strconv.FormatBool(t.Done),
				t.DateCreated,
			})
		}
	}

	// Headers are already sent, so failures here can only be logged.
	if err := writeCSV("boards.csv", []string{"id", "tag"}, boardRows); err != nil {
		logExportError(r, err)
		return
	}
	if err := writeCSV("tasks.csv", []string{"id", "board_id", "title", "description", "due_date", "done", "date_created"}, taskRows); err != nil {
		logExportError(r, err)
	}
}

func logExportError(r *http.Request, err error) {
	log.Printf("%s %s: write export: %v", r.Method, r.URL.Path, err)
}
