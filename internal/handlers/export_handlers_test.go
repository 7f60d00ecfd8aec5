package handlers

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
)

func TestExportJSON(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)
	c.register("ann", "a@x.com", "pw")
	c.post("/new-kboard", url.Values{"tag_name": {"home"}})
	c.post("/add-task", url.Values{"title": {"Buy milk"}, "tag": {"Home"}, "due_date": {"2023-01-01"}})

	resp, body := c.get("/export")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}

	var data exportData
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Username != "ann" || len(data.Boards) != 1 {
		t.Fatalf("got %+v", data)
	}
	board := data.Boards[0]
	if board.Tag != "Home" || len(board.Tasks) != 2 {
		t.Fatalf("board: got %+v", board)
	}
	milk := board.Tasks[1]
	if milk.Title != "Buy milk" || milk.DueDate != "2023-01-01" || milk.Done {
		t.Errorf("task: got %+v", milk)
	}
}

func TestExportCSV(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)
	c.register("ann", "a@x.com", "pw")
	c.post("/new-kboard", url.Values{"tag_name": {"work"}})

	resp, body := c.get("/export?format=csv")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}

	zr, err := zip.NewReader(bytes.NewReader([]byte(body)), int64(len(body)))
	if err != nil {
		t.Fatalf("zip: %v", err)
	}
	files := map[string][][]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		records, err := csv.NewReader(rc).ReadAll()
		rc.Close()
		if err != nil {
			t.Fatalf("%s: %v", f.Name, err)
		}
		files[f.Name] = records
	}

	if boards := files["boards.csv"]; len(boards) != 2 || boards[1][1] != "Work" {
		t.Errorf("boards.csv: got %v", boards)
	}
	if tasks := files["tasks.csv"]; len(tasks) != 2 || tasks[1][2] != "New Task" || tasks[1][5] != "false" {
		t.Errorf("tasks.csv: got %v", tasks)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)
	c.register("ann", "a@x.com", "pw")

	resp, _ := c.get("/export?format=xml")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}
