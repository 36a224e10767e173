package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondJSON(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusCreated, map[string]string{"id": "abc"})

	if w.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}
	if !strings.Contains(w.Body.String(), `"id":"abc"`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestRespondJSON_EncodingFailure(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusOK, map[string]interface{}{"bad": make(chan int)})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
}

func TestRespondError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondError(w, http.StatusNotFound, "chat missing")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("expected problem+json, got %s", ct)
	}

	var problem ProblemDetail
	if err := json.Unmarshal(w.Body.Bytes(), &problem); err != nil {
		t.Fatalf("failed to decode problem: %v", err)
	}
	if problem.Title != "Not Found" || problem.Detail != "chat missing" || problem.Success {
		t.Errorf("unexpected problem: %+v", problem)
	}
	if problem.Type != "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.4" {
		t.Errorf("unexpected type: %s", problem.Type)
	}
}

func TestQueryParam(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/chats?user_id=%20u1%20&blank=%20", nil)

	if got := QueryParam(r, "user_id", "x"); got != "u1" {
		t.Errorf("expected u1, got %q", got)
	}
	if got := QueryParam(r, "blank", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
	if got := QueryParam(r, "missing", ""); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestParseJSON(t *testing.T) {
	var dest struct {
		Content string `json:"content"`
	}

	r := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"content":"hi"}`))
	if err := ParseJSON(httptest.NewRecorder(), r, &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Content != "hi" {
		t.Errorf("expected hi, got %q", dest.Content)
	}

	r = httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{`))
	if err := ParseJSON(httptest.NewRecorder(), r, &dest); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestHasBody(t *testing.T) {
	if HasBody(httptest.NewRequest(http.MethodPatch, "/", nil)) {
		t.Error("expected no body")
	}
	if !HasBody(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{}`))) {
		t.Error("expected body")
	}
}
