package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/pdf-relay/internal/handler"
)

func setupMetaRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewMetaHandler("pdf-relay", "0.1.0")
	r.GET("/", h.Root)
	r.GET("/api/v1/pdf/health", h.Health)

	return r
}

func TestRoot_Metadata(t *testing.T) {
	r := setupMetaRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Message   string            `json:"message"`
		Version   string            `json:"version"`
		Endpoints map[string]string `json:"endpoints"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}

	if body.Message == "" {
		t.Error("metadata message is empty")
	}
	if body.Version != "0.1.0" {
		t.Errorf("version = %q, want 0.1.0", body.Version)
	}
	if body.Endpoints["download"] != "/api/v1/pdf/download" {
		t.Errorf("download endpoint = %q, want /api/v1/pdf/download", body.Endpoints["download"])
	}
	if body.Endpoints["health"] != "/api/v1/pdf/health" {
		t.Errorf("health endpoint = %q, want /api/v1/pdf/health", body.Endpoints["health"])
	}
}

func TestHealth_Scoped(t *testing.T) {
	r := setupMetaRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/pdf/health", http.NoBody)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", body["status"])
	}
	if body["service"] != "pdf-relay" {
		t.Errorf("service = %q, want pdf-relay", body["service"])
	}
}
