package routechain_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gomarten/routechain"
)

func render(t *testing.T, resp routechain.Response) (*httptest.ResponseRecorder, error) {
	t.Helper()
	rec := httptest.NewRecorder()
	c := routechain.NewCtx(rec, httptest.NewRequest("GET", "/", nil))
	err := resp.Render(c)
	return rec, err
}

func TestReplies(t *testing.T) {
	tests := []struct {
		name        string
		reply       *routechain.Reply
		status      int
		contentType string
		body        string
	}{
		{"text", routechain.Text(http.StatusOK, "hello"), 200, "text/plain; charset=utf-8", "hello"},
		{"json", routechain.JSON(http.StatusCreated, routechain.M{"id": 1}), 201, "application/json; charset=utf-8", "{\"id\":1}\n"},
		{"blob", routechain.Blob(http.StatusOK, "image/png", []byte{0x89, 'P'}), 200, "image/png", "\x89P"},
		{"error", routechain.Error(http.StatusBadRequest, "bad"), 400, "application/json; charset=utf-8", "{\"error\":\"bad\"}\n"},
		{"status", routechain.Status(http.StatusAccepted), 202, "", ""},
		{"no content", routechain.NoContent(), 204, "", ""},
		{"zero status", &routechain.Reply{Body: []byte("x")}, 200, "", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := render(t, tt.reply)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); tt.contentType != "" && ct != tt.contentType {
				t.Errorf("expected content type %q, got %q", tt.contentType, ct)
			}
			if rec.Body.String() != tt.body {
				t.Errorf("expected body %q, got %q", tt.body, rec.Body.String())
			}
		})
	}
}

func TestReplyRedirect(t *testing.T) {
	rec, err := render(t, routechain.Redirect(http.StatusFound, "/login"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Errorf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected Location %q, got %q", "/login", loc)
	}
}

func TestReplyHeadersOverrideEarlierValues(t *testing.T) {
	rec := httptest.NewRecorder()
	c := routechain.NewCtx(rec, httptest.NewRequest("GET", "/", nil))
	c.Header("Content-Type", "text/html")
	c.Header("X-Kept", "yes")

	reply := routechain.Text(200, "plain").WithHeader("X-Multi", "a").WithHeader("X-Multi", "b")
	if err := reply.Render(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("expected reply content type, got %q", ct)
	}
	if rec.Header().Get("X-Kept") != "yes" {
		t.Error("expected unrelated header to survive")
	}
	if v := rec.Header().Values("X-Multi"); len(v) != 2 {
		t.Errorf("expected 2 values, got %v", v)
	}
}

func TestReplyJSONEncodeError(t *testing.T) {
	rec, err := render(t, routechain.JSON(http.StatusOK, make(chan int)))
	if err == nil {
		t.Fatal("expected encoding error")
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected nothing written, got %q", rec.Body.String())
	}
}

func TestResponseFuncAndHandled(t *testing.T) {
	rec, err := render(t, routechain.ResponseFunc(func(c *routechain.Ctx) error {
		return c.Text(http.StatusTeapot, "tea")
	}))
	if err != nil || rec.Code != http.StatusTeapot || rec.Body.String() != "tea" {
		t.Errorf("unexpected result %d %q %v", rec.Code, rec.Body.String(), err)
	}

	rec, err = render(t, routechain.Handled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected Handled to write nothing, got %q", rec.Body.String())
	}
}
