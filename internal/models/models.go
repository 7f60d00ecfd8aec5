package models

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type Tag struct {
	ID      int64
	TagName string
}

func (t Tag) String() string {
	return t.TagName
}

type Task struct {
	ID          int64
	Title       string
	Description string
	DueDate     *time.Time
	Progress    bool
	DateCreated time.Time
	CreatorID   int64
	TagID       int64
}

// Done reports whether the task has been marked finished.
func (t Task) Done() bool {
	return t.Progress
}

// DueString formats the due date for forms and templates, empty when unset.
func (t Task) DueString() string {
	if t.DueDate == nil {
		return ""
	}
	return t.DueDate.Format(DateLayout)
}

type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
}

// Board is one subscribed tag together with the viewer's tasks under it.
type Board struct {
	Tag   Tag
	Tasks []Task
}

type Dashboard struct {
	User   User
	Tags   []Tag
	Tasks  []Task
	Boards []Board
}

// NewDashboard groups tasks under the tags they belong to. Tasks whose tag
// is not in tags stay in Tasks but get no board.
func NewDashboard(user User, tags []Tag, tasks []Task) Dashboard {
	boards := make([]Board, len(tags))
	index := make(map[int64]int, len(tags))
	for i, tag := range tags {
		boards[i] = Board{Tag: tag}
		index[tag.ID] = i
	}
	for _, task := range tasks {
		if i, ok := index[task.TagID]; ok {
			boards[i].Tasks = append(boards[i].Tasks, task)
		}
	}
	return Dashboard{User: user, Tags: tags, Tasks: tasks, Boards: boards}
}

// NormalizeTagName title-cases a tag name so "work" and "WORK" share one row.
func NormalizeTagName(name string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(name))
}

// Today returns the current calendar date at midnight UTC.
func Today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
