package quizzes_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/campus/internal/quizzes"
	"github.com/JaimeStill/campus/pkg/routes"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func newMux(f *fixture) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, f.sys.Handler().Routes())
	return mux
}

func serve(t *testing.T, mux http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return rec, env
}

func TestHandlerCreate(t *testing.T) {
	mux := newMux(newFixture())

	rec, env := serve(t, mux, "POST", "/quizzes",
		`{"title":"Quiz 1","course":"Math","dueDate":"`+day(1)+`"}`)

	if rec.Code != http.StatusCreated || env.Message != "Quiz created" {
		t.Fatalf("create: %d %+v", rec.Code, env)
	}

	var data map[string]any
	json.Unmarshal(env.Data, &data)
	if data["status"] != "pending" {
		t.Errorf("status: got %v", data["status"])
	}
	if v, ok := data["description"]; !ok || v != nil {
		t.Errorf("description should be null, got %v (present %v)", v, ok)
	}
	if data["dueDate"] != "2026-10-20T10:00:00Z" {
		t.Errorf("dueDate: got %v", data["dueDate"])
	}
}

func TestHandlerCreatePastDueDate(t *testing.T) {
	mux := newMux(newFixture())

	rec, env := serve(t, mux, "POST", "/quizzes",
		`{"title":"Quiz 1","course":"Math","dueDate":"`+day(-1)+`"}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, want 422", rec.Code)
	}
	if len(env.Errors) != 1 || env.Errors[0].Field != "dueDate" || env.Errors[0].Message != "cannot be in the past" {
		t.Errorf("errors: %+v", env.Errors)
	}

	_, env = serve(t, mux, "GET", "/quizzes", "")
	var items []quizzes.Quiz
	json.Unmarshal(env.Data, &items)
	if len(items) != 0 {
		t.Errorf("count: got %d, want 0", len(items))
	}
}

func TestHandlerLifecycle(t *testing.T) {
	mux := newMux(newFixture())

	_, env := serve(t, mux, "POST", "/quizzes", `{"title":"Quiz 1","course":"Math","dueDate":"`+day(2)+`"}`)
	var q quizzes.Quiz
	json.Unmarshal(env.Data, &q)

	rec, env := serve(t, mux, "PUT", "/quizzes/"+q.ID, `{"status":"completed"}`)
	if rec.Code != http.StatusOK || env.Message != "Quiz updated" {
		t.Fatalf("update: %d %+v", rec.Code, env)
	}

	rec, env = serve(t, mux, "GET", "/quizzes/"+q.ID, "")
	var found quizzes.Quiz
	json.Unmarshal(env.Data, &found)
	if rec.Code != http.StatusOK || found.Status != "completed" || found.Title != "Quiz 1" {
		t.Errorf("find: %d %+v", rec.Code, found)
	}

	rec, env = serve(t, mux, "DELETE", "/quizzes/"+q.ID, "")
	if rec.Code != http.StatusOK || env.Message != "Quiz deleted" {
		t.Errorf("delete: %d %+v", rec.Code, env)
	}

	rec, env = serve(t, mux, "GET", "/quizzes/"+q.ID, "")
	if rec.Code != http.StatusNotFound || env.Message != "Quiz not found" {
		t.Errorf("find deleted: %d %+v", rec.Code, env)
	}
}

func TestHandlerUpdateMissing(t *testing.T) {
	mux := newMux(newFixture())

	rec, env := serve(t, mux, "PUT", "/quizzes/missing", `{"title":"x"}`)
	if rec.Code != http.StatusNotFound || env.Success {
		t.Errorf("update missing: %d %+v", rec.Code, env)
	}
}

func TestHandlerMalformedBody(t *testing.T) {
	mux := newMux(newFixture())

	rec, env := serve(t, mux, "POST", "/quizzes", `[1,2`)
	if rec.Code != http.StatusBadRequest || env.Success {
		t.Errorf("malformed: %d %+v", rec.Code, env)
	}
}
