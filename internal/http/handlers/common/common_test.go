package common

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestEnsureVisitorIDIssuesCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()

	id := EnsureVisitorID(recorder, req)
	if id == "" {
		t.Fatalf("expected visitor id")
	}
	cookies := recorder.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "visitor_id" || cookies[0].Value != id {
		t.Fatalf("unexpected cookies %+v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("expected HttpOnly cookie")
	}
}

func TestEnsureVisitorIDReusesCookie(t *testing.T) {
	const existing = "2b0b9f0e-5f5e-4c1b-9a7e-3d2f0b1a6c44"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "visitor_id", Value: existing})
	recorder := httptest.NewRecorder()

	if id := EnsureVisitorID(recorder, req); id != existing {
		t.Fatalf("expected %s, got %s", existing, id)
	}
	if len(recorder.Result().Cookies()) != 0 {
		t.Fatalf("expected no new cookie")
	}
}

func TestVisitorIDIgnoresMalformedCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "visitor_id", Value: "not-a-uuid"})
	if id := VisitorID(req); id != "" {
		t.Fatalf("expected empty id, got %q", id)
	}
}

func TestFormatPercent(t *testing.T) {
	cases := map[float64]string{
		0:        "0.00",
		49.99999: "50.00",
		100:      "100.00",
		-1.5:     "-1.50",
	}
	for value, want := range cases {
		if got := FormatPercent(value); got != want {
			t.Fatalf("FormatPercent(%v) = %s, want %s", value, got, want)
		}
	}
}

func TestFormatAbsoluteTime(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	value := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	if got := FormatAbsoluteTime(value, tokyo); got != "2024-04-01 09:00:00 JST" {
		t.Fatalf("unexpected format %s", got)
	}
	if got := FormatAbsoluteTime(time.Time{}, nil); got != "" {
		t.Fatalf("expected empty string for zero time")
	}
}
