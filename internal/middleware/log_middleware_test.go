package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func newLogRouter(buf *bytes.Buffer, status int) *mux.Router {
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	router := mux.NewRouter()
	router.Use(LogMiddleware(logger))
	router.HandleFunc("/loans/{id}/schedule", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}).Methods(http.MethodGet)

	return router
}

func TestLogMiddleware_RouteTemplate(t *testing.T) {
	var buf bytes.Buffer
	router := newLogRouter(&buf, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/loans/42/schedule", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one JSON log line, got %q: %v", buf.String(), err)
	}

	if line["route"] != "/loans/{id}/schedule" {
		t.Errorf("expected route template, got %v", line["route"])
	}
	if line["path"] != "/loans/42/schedule" {
		t.Errorf("expected concrete path, got %v", line["path"])
	}
	if line["status"] != float64(http.StatusOK) {
		t.Errorf("expected status 200, got %v", line["status"])
	}
	if line["level"] != "info" {
		t.Errorf("expected info level, got %v", line["level"])
	}
}

func TestLogMiddleware_ServerErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	router := newLogRouter(&buf, http.StatusInternalServerError)

	req := httptest.NewRequest(http.MethodGet, "/loans/7/schedule", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one JSON log line, got %q: %v", buf.String(), err)
	}

	if line["level"] != "error" {
		t.Errorf("expected error level for a 500, got %v", line["level"])
	}
	if line["status"] != float64(http.StatusInternalServerError) {
		t.Errorf("expected status 500, got %v", line["status"])
	}
}
