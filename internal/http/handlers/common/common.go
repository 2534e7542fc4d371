package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"quarters/internal/service"

	"github.com/google/uuid"
)

const visitorCookie = "visitor_id"

type Dependencies struct {
	Service      *service.Service
	Logger       *slog.Logger
	Templates    *template.Template
	Zones        func() []string
	LiveInterval time.Duration
}

// RenderTemplate renders data's ContentTemplate into the layout template.
// data must carry PageTitle and ContentTemplate fields.
func RenderTemplate(w http.ResponseWriter, tmpl *template.Template, layout string, data any, logger *slog.Logger) {
	pageTitle, contentTemplate, err := extractLayoutFields(data)
	if err != nil {
		RenderError(w, logger, err)
		return
	}
	var content bytes.Buffer
	if err := tmpl.ExecuteTemplate(&content, contentTemplate, data); err != nil {
		RenderError(w, logger, err)
		return
	}
	page := struct {
		PageTitle   string
		ContentHTML template.HTML
	}{
		PageTitle:   pageTitle,
		ContentHTML: template.HTML(content.String()),
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layout, page); err != nil {
		RenderError(w, logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func extractLayoutFields(data any) (string, string, error) {
	value := reflect.ValueOf(data)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return "", "", fmt.Errorf("layout data must be a struct")
	}
	pageTitle := value.FieldByName("PageTitle")
	contentTemplate := value.FieldByName("ContentTemplate")
	if !pageTitle.IsValid() || !contentTemplate.IsValid() {
		return "", "", fmt.Errorf("layout fields missing")
	}
	return pageTitle.String(), contentTemplate.String(), nil
}

func RenderError(w http.ResponseWriter, logger *slog.Logger, err error) {
	logger.Error("request failed", slog.String("error", err.Error()))
	http.Error(w, "Something went wrong", http.StatusInternalServerError)
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// VisitorID returns the visitor cookie value, or "" when the cookie is
// missing or not a UUID.
func VisitorID(r *http.Request) string {
	cookie, err := r.Cookie(visitorCookie)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return ""
	}
	return id.String()
}

// EnsureVisitorID returns the visitor id, issuing a new cookie first when the
// request has none.
func EnsureVisitorID(w http.ResponseWriter, r *http.Request) string {
	if id := VisitorID(r); id != "" {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func TrimmedFormValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}
