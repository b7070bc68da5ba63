package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/JaimeStill/campus/internal/announcements"
	"github.com/JaimeStill/campus/internal/api"
	"github.com/JaimeStill/campus/internal/config"
	"github.com/JaimeStill/campus/internal/infrastructure"
	"github.com/JaimeStill/campus/pkg/docstore"
	"github.com/JaimeStill/campus/pkg/lifecycle"
	"github.com/JaimeStill/campus/pkg/middleware"
	"github.com/JaimeStill/campus/pkg/module"
	"github.com/JaimeStill/campus/pkg/storage"
)

const appBase = "http://localhost:4000"

type envelope struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data"`
	ImageURL string          `json:"imageUrl"`
}

type memoryObjects struct {
	mu    sync.Mutex
	data  map[string][]byte
	types map[string]string
}

func newMemoryObjects() *memoryObjects {
	return &memoryObjects{data: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryObjects) Start(*lifecycle.Coordinator) error { return nil }

func (m *memoryObjects) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = b
	m.types[key] = contentType
	return nil
}

func (m *memoryObjects) Get(_ context.Context, key string) (*storage.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &storage.Object{
		Body:          io.NopCloser(bytes.NewReader(b)),
		ContentType:   m.types[key],
		ContentLength: int64(len(b)),
	}, nil
}

func (m *memoryObjects) BaseURL() string {
	return "https://campus-media.s3.us-east-1.amazonaws.com"
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Database: docstore.Config{Driver: docstore.DriverMemory},
		Storage: storage.Config{
			AppBaseURL: appBase,
			UploadsDir: t.TempDir(),
		},
		API: config.APIConfig{
			BasePath:      "/api",
			MaxUploadSize: 1024,
			CORS:          middleware.CORSConfig{},
		},
		ShutdownTimeout: "30s",
		Version:         "0.1.0",
	}
	if err := cfg.API.CORS.Finalize(nil); err != nil {
		t.Fatalf("cors finalize: %v", err)
	}
	return cfg
}

func localInfra(t *testing.T, cfg *config.Config) *infrastructure.Infrastructure {
	t.Helper()
	files, err := storage.New(&cfg.Storage, discardLogger())
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	return &infrastructure.Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    discardLogger(),
		Docstore:  docstore.NewMemory(),
		Storage:   files,
	}
}

func proxyInfra(objects *memoryObjects) *infrastructure.Infrastructure {
	resolver := storage.NewURLResolver(storage.ModeProxy, appBase, "")
	return &infrastructure.Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    discardLogger(),
		Docstore:  docstore.NewMemory(),
		Storage:   storage.NewSystem(objects, resolver, discardLogger()),
	}
}

func newRouter(t *testing.T, cfg *config.Config, infra *infrastructure.Infrastructure) *module.Router {
	t.Helper()
	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	router := module.NewRouter()
	router.Mount(m)
	router.Mount(api.NewFilesModule(infra, &cfg.API.CORS))
	return router
}

func serve(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
		}
	}
	return rec, env
}

func multipartBody(t *testing.T, fields map[string]string, fileField, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write(content)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestNewModule(t *testing.T) {
	cfg := validConfig(t)
	m, err := api.NewModule(cfg, localInfra(t, cfg))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}
	if m.Prefix() != "/api" {
		t.Errorf("Prefix() = %q, want /api", m.Prefix())
	}
}

func TestNewDomain(t *testing.T) {
	cfg := validConfig(t)
	cfg.API.SanitizeContent = true
	domain := api.NewDomain(api.NewRuntime(cfg, localInfra(t, cfg)))

	if domain.Announcements == nil {
		t.Error("Announcements is nil")
	}
	if domain.Quizzes == nil {
		t.Error("Quizzes is nil")
	}

	a, err := domain.Announcements.Create(context.Background(), announcements.CreateCommand{
		Title:      "Sanitized",
		Content:    `<p>Hi</p><script>alert(1)</script>`,
		AuthorName: "Admin",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if strings.Contains(a.Content, "<script>") {
		t.Errorf("content not sanitized: %q", a.Content)
	}
}

func TestRoutesMounted(t *testing.T) {
	cfg := validConfig(t)
	router := newRouter(t, cfg, localInfra(t, cfg))

	tests := []struct {
		method string
		path   string
		status int
	}{
		{"GET", "/api/announcements", http.StatusOK},
		{"GET", "/api/quizzes", http.StatusOK},
		{"GET", "/api/announcements/missing", http.StatusNotFound},
		{"GET", "/api/quizzes/missing", http.StatusNotFound},
		{"DELETE", "/api/quizzes/missing", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec, _ := serve(t, router, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestModuleMiddleware(t *testing.T) {
	cfg := validConfig(t)
	router := newRouter(t, cfg, localInfra(t, cfg))

	req := httptest.NewRequest("GET", "/api/quizzes", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	rec, _ := serve(t, router, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("expected a request id header")
	}
}

func TestUploadImageLocal(t *testing.T) {
	cfg := validConfig(t)
	router := newRouter(t, cfg, localInfra(t, cfg))

	body, contentType := multipartBody(t, nil, api.ImageField, "photo.png", []byte("png-bytes"))
	req := httptest.NewRequest("POST", "/api/upload/image", body)
	req.Header.Set("Content-Type", contentType)

	rec, env := serve(t, router, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if !env.Success {
		t.Error("expected success")
	}
	if !strings.HasPrefix(env.ImageURL, appBase+"/uploads/") || !strings.HasSuffix(env.ImageURL, "-photo.png") {
		t.Fatalf("imageUrl = %q", env.ImageURL)
	}

	stored, err := os.ReadFile(filepath.Join(cfg.Storage.UploadsDir, path.Base(env.ImageURL)))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(stored) != "png-bytes" {
		t.Errorf("stored = %q, want png-bytes", stored)
	}
}

func TestUploadImageMissingFile(t *testing.T) {
	cfg := validConfig(t)
	router := newRouter(t, cfg, localInfra(t, cfg))

	multi, contentType := multipartBody(t, map[string]string{"caption": "none"}, "", "", nil)

	tests := []struct {
		name        string
		body        io.Reader
		contentType string
	}{
		{"multipart without file", multi, contentType},
		{"json body", strings.NewReader(`{"image":"x"}`), "application/json"},
		{"no body", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/upload/image", tt.body)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			rec, env := serve(t, router, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if env.Success || env.Message != "No file uploaded" {
				t.Errorf("envelope = %+v", env)
			}
		})
	}
}

func TestUploadImageTooLarge(t *testing.T) {
	cfg := validConfig(t)
	router := newRouter(t, cfg, localInfra(t, cfg))

	body, contentType := multipartBody(t, nil, api.ImageField, "huge.png", bytes.Repeat([]byte("x"), 4096))
	req := httptest.NewRequest("POST", "/api/upload/image", body)
	req.Header.Set("Content-Type", contentType)

	rec, _ := serve(t, router, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestAnnouncementAvatarThroughProxy(t *testing.T) {
	cfg := validConfig(t)
	objects := newMemoryObjects()
	router := newRouter(t, cfg, proxyInfra(objects))

	body, contentType := multipartBody(t, map[string]string{
		"title":      "Welcome",
		"content":    "Hello class",
		"authorName": "Admin",
	}, "authorAvatar", "me.png", []byte("avatar-bytes"))
	req := httptest.NewRequest("POST", "/api/announcements", body)
	req.Header.Set("Content-Type", contentType)

	rec, env := serve(t, router, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", rec.Code, rec.Body.String())
	}

	var created struct {
		AuthorAvatar string `json:"authorAvatar"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if !strings.HasPrefix(created.AuthorAvatar, appBase+"/files/uploads%2F") {
		t.Fatalf("authorAvatar = %q, want proxy URL", created.AuthorAvatar)
	}

	fileReq := httptest.NewRequest("GET", strings.TrimPrefix(created.AuthorAvatar, appBase), nil)
	fileRec, _ := serve(t, router, fileReq)
	if fileRec.Code != http.StatusOK {
		t.Fatalf("file status = %d, want 200 (%s)", fileRec.Code, fileRec.Body.String())
	}
	if fileRec.Body.String() != "avatar-bytes" {
		t.Errorf("file body = %q, want avatar-bytes", fileRec.Body.String())
	}
	if got := fileRec.Header().Get("Content-Length"); got != "12" {
		t.Errorf("Content-Length = %q, want 12", got)
	}
}

func TestFilesContentType(t *testing.T) {
	cfg := validConfig(t)
	objects := newMemoryObjects()
	objects.Put(context.Background(), "uploads/1-notes.txt", strings.NewReader("notes"), 5, "text/plain")
	router := newRouter(t, cfg, proxyInfra(objects))

	rec, _ := serve(t, router, httptest.NewRequest("GET", "/files/uploads%2F1-notes.txt", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/plain" {
		t.Errorf("Content-Type = %q, want text/plain", got)
	}
}

func TestFilesCORS(t *testing.T) {
	cfg := validConfig(t)
	objects := newMemoryObjects()
	objects.Put(context.Background(), "uploads/1-a.png", strings.NewReader("png"), 3, "image/png")
	router := newRouter(t, cfg, proxyInfra(objects))

	tests := []struct {
		name   string
		method string
		status int
	}{
		{"get", http.MethodGet, http.StatusOK},
		{"preflight", http.MethodOptions, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/files/uploads%2F1-a.png", nil)
			req.Header.Set("Origin", "http://localhost:5173")

			rec, _ := serve(t, router, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
				t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
			}
		})
	}
}

func TestFilesNotFound(t *testing.T) {
	cfg := validConfig(t)

	tests := []struct {
		name  string
		infra *infrastructure.Infrastructure
		path  string
	}{
		{"storage not configured", localInfra(t, cfg), "/files/uploads%2F1-a.png"},
		{"missing object", proxyInfra(newMemoryObjects()), "/files/uploads%2F1-a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(t, cfg, tt.infra)
			rec, env := serve(t, router, httptest.NewRequest("GET", tt.path, nil))
			if rec.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", rec.Code)
			}
			if env.Message != "File not found" {
				t.Errorf("message = %q, want File not found", env.Message)
			}
		})
	}
}

func TestFilesEmptyKey(t *testing.T) {
	cfg := validConfig(t)
	router := newRouter(t, cfg, proxyInfra(newMemoryObjects()))

	rec, _ := serve(t, router, httptest.NewRequest("GET", "/files/", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
