package v1

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quarters/internal/service"
	"quarters/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func newTestRouter(t *testing.T, prefs *store.Memory) http.Handler {
	t.Helper()
	now := time.Date(2024, time.May, 16, 0, 0, 0, 0, time.UTC)
	svc := service.New(prefs, "UTC", func() time.Time { return now })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(svc, func() []string { return []string{"Asia/Tokyo", "Europe/Paris"} }, logger)
	router := chi.NewRouter()
	router.Mount("/api/v1", handler.Routes())
	return router
}

func get(t *testing.T, router http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestHandleProgress(t *testing.T) {
	router := newTestRouter(t, store.NewMemory())

	recorder := get(t, router, "/api/v1/progress")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var response ProgressResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if response.Name != "Q2 2024" || response.Timezone != "UTC" {
		t.Fatalf("unexpected response %+v", response)
	}
}

func TestHandleProgressAt(t *testing.T) {
	router := newTestRouter(t, store.NewMemory())

	recorder := get(t, router, "/api/v1/progress?tz=Pacific/Kiritimati&at=2023-12-31T10:30:00Z")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var response ProgressResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if response.Name != "Q1 2024" || response.Elapsed != "30 minutes" {
		t.Fatalf("unexpected response %+v", response)
	}
}

func TestHandleProgressErrors(t *testing.T) {
	router := newTestRouter(t, store.NewMemory())

	cases := []struct {
		path   string
		status int
		code   string
	}{
		{path: "/api/v1/progress?tz=Not/AZone", status: http.StatusBadRequest, code: "INVALID_TIMEZONE"},
		{path: "/api/v1/progress?at=yesterday", status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{path: "/api/v1/quarters?year=abc", status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{path: "/api/v1/quarters?year=0", status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{path: "/api/v1/quarters?tz=Local", status: http.StatusBadRequest, code: "INVALID_TIMEZONE"},
		{path: "/api/v1/quarters?year=2023&tz=America/Asuncion", status: http.StatusUnprocessableEntity, code: "UNRESOLVABLE_QUARTER"},
		{path: "/api/v1/progress?tz=America/Asuncion&at=2023-10-01T12:00:00Z", status: http.StatusUnprocessableEntity, code: "UNRESOLVABLE_QUARTER"},
	}
	for _, tc := range cases {
		recorder := get(t, router, tc.path)
		if recorder.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.path, tc.status, recorder.Code)
		}
		var response ErrorResponse
		if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
			t.Fatalf("%s: unmarshal: %v", tc.path, err)
		}
		if response.Error.Code != tc.code {
			t.Fatalf("%s: expected code %s got %s", tc.path, tc.code, response.Error.Code)
		}
	}
}

func TestHandleProgressUsesSavedPreference(t *testing.T) {
	prefs := store.NewMemory()
	visitorID := uuid.NewString()
	if err := prefs.SavePreference(context.Background(), store.PreferenceInput{VisitorID: visitorID, Timezone: "Asia/Tokyo"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	router := newTestRouter(t, prefs)

	recorder := get(t, router, "/api/v1/progress", &http.Cookie{Name: "visitor_id", Value: visitorID})
	var response ProgressResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if response.Timezone != "Asia/Tokyo" {
		t.Fatalf("expected saved timezone, got %s", response.Timezone)
	}
}

func TestHandleQuarters(t *testing.T) {
	router := newTestRouter(t, store.NewMemory())

	recorder := get(t, router, "/api/v1/quarters?tz=Europe/Paris")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var response quartersResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if response.Year != 2024 || len(response.Items) != 4 || response.Timezone != "Europe/Paris" {
		t.Fatalf("unexpected response %+v", response)
	}
	if response.Items[0].DurationSeconds != 91*86400-3600 {
		t.Fatalf("expected DST-shortened Q1, got %d", response.Items[0].DurationSeconds)
	}

	recorder = get(t, router, "/api/v1/quarters?year=2030")
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if response.Year != 2030 || response.Items[3].Name != "Q4 2030" {
		t.Fatalf("unexpected response %+v", response)
	}
}

func TestHandleTimezones(t *testing.T) {
	router := newTestRouter(t, store.NewMemory())

	recorder := get(t, router, "/api/v1/timezones")
	var response timezonesResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if response.Default != "UTC" || len(response.Items) != 2 {
		t.Fatalf("unexpected response %+v", response)
	}
}
