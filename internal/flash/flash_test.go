package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSetThenPop(t *testing.T) {
	rec := httptest.NewRecorder()
	Set(rec, "Incorrect password. Try again.")

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	out := httptest.NewRecorder()
	if got := Pop(out, req); got != "Incorrect password. Try again." {
		t.Errorf("Pop: got %q", got)
	}

	cleared := false
	for _, c := range out.Result().Cookies() {
		if c.Name == cookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("flash cookie not cleared after Pop")
	}
}

func TestPopWithoutMessage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := Pop(httptest.NewRecorder(), req); got != "" {
		t.Errorf("Pop: got %q, want empty", got)
	}
}

func TestPopIgnoresGarbage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "!!not base64!!"})
	if got := Pop(httptest.NewRecorder(), req); got != "" {
		t.Errorf("Pop: got %q, want empty", got)
	}
}
