package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/campus/pkg/handlers"
	"github.com/JaimeStill/campus/pkg/validation"
)

func decode(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	body, _ := io.ReadAll(res.Body)
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("unmarshal failed: %v (%s)", err, body)
	}
	return parsed
}

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		data       any
		wantStatus int
	}{
		{
			name:       "200 with map",
			status:     http.StatusOK,
			data:       map[string]string{"key": "value"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "201 with struct",
			status:     http.StatusCreated,
			data:       struct{ ID int }{ID: 42},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondJSON(rec, tt.status, tt.data)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.wantStatus {
				t.Errorf("status: got %d, want %d", res.StatusCode, tt.wantStatus)
			}
			if ct := res.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type: got %s", ct)
			}
			decode(t, res)
		})
	}
}

func TestRespondData(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondData(rec, http.StatusCreated, "Quiz created", map[string]string{"id": "1"})

	res := rec.Result()
	defer res.Body.Close()

	parsed := decode(t, res)
	if parsed["success"] != true {
		t.Errorf("success: got %v", parsed["success"])
	}
	if parsed["message"] != "Quiz created" {
		t.Errorf("message: got %v", parsed["message"])
	}
	data, ok := parsed["data"].(map[string]any)
	if !ok || data["id"] != "1" {
		t.Errorf("data: got %v", parsed["data"])
	}
}

func TestRespondDataKeepsEmptyList(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondData(rec, http.StatusOK, "", []string{})

	body := rec.Body.String()
	if !strings.Contains(body, `"data":[]`) {
		t.Errorf("body %s missing empty data array", body)
	}
	if strings.Contains(body, `"message"`) {
		t.Errorf("body %s should omit empty message", body)
	}
}

func TestRespondNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondNotFound(rec, "Quiz not found")

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", res.StatusCode)
	}
	parsed := decode(t, res)
	if parsed["success"] != false || parsed["message"] != "Quiz not found" {
		t.Errorf("body: got %v", parsed)
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		err         error
		wantMessage string
		wantFields  int
		wantLogged  bool
	}{
		{
			name:        "client error keeps message",
			status:      http.StatusBadRequest,
			err:         errors.New("invalid input"),
			wantMessage: "invalid input",
		},
		{
			name:        "validation error carries fields",
			status:      http.StatusUnprocessableEntity,
			err:         validation.Field("dueDate", "must not be in the past"),
			wantMessage: "dueDate must not be in the past",
			wantFields:  1,
		},
		{
			name:        "server error hides detail",
			status:      http.StatusInternalServerError,
			err:         errors.New("mapping error: dueDate: invalid date"),
			wantMessage: "Internal Server Error",
			wantLogged:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))
			rec := httptest.NewRecorder()

			handlers.RespondError(rec, logger, tt.status, tt.err)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.status {
				t.Errorf("status: got %d, want %d", res.StatusCode, tt.status)
			}

			parsed := decode(t, res)
			if parsed["success"] != false {
				t.Errorf("success: got %v", parsed["success"])
			}
			if parsed["message"] != tt.wantMessage {
				t.Errorf("message: got %v, want %s", parsed["message"], tt.wantMessage)
			}

			fields, _ := parsed["errors"].([]any)
			if len(fields) != tt.wantFields {
				t.Errorf("errors: got %v, want %d entries", parsed["errors"], tt.wantFields)
			}

			if logged := logs.Len() > 0; logged != tt.wantLogged {
				t.Errorf("logged: got %v, want %v", logged, tt.wantLogged)
			}
		})
	}
}
