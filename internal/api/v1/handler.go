package v1

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"quarters/internal/http/handlers/common"
	"quarters/internal/obs"
	"quarters/internal/quarter"
	"quarters/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
)

type Handler struct {
	service *service.Service
	zones   func() []string
	logger  *slog.Logger
}

func NewHandler(service *service.Service, zones func() []string, logger *slog.Logger) *Handler {
	return &Handler{service: service, zones: zones, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/progress", h.handleProgress)
	r.Get("/quarters", h.handleQuarters)
	r.Get("/timezones", h.handleTimezones)

	return r
}

// resolveZone applies the visitor's saved zone when the request names none.
// An explicit but unknown zone is a client error here, unlike the HTML page
// which falls back.
func (h *Handler) resolveZone(w http.ResponseWriter, r *http.Request) (string, bool) {
	requested := r.URL.Query().Get("tz")
	zone, err := h.service.ResolveTimezone(r.Context(), common.VisitorID(r), requested)
	if err != nil {
		if goerr.HasTag(err, quarter.ErrTagInvalidTimezone) {
			WriteError(w, http.StatusBadRequest, CodeInvalidTimezone, "unknown timezone", map[string]string{"tz": requested})
			return "", false
		}
		obs.TimezoneFallbacks.WithLabelValues("store").Inc()
		h.logger.Warn("preference lookup failed", slog.String("error", err.Error()))
	}
	return zone, true
}

func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	zone, ok := h.resolveZone(w, r)
	if !ok {
		return
	}
	at := h.service.Clock()
	if raw := strings.TrimSpace(r.URL.Query().Get("at")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, CodeValidation, "invalid at", map[string]string{"at": "must be RFC 3339"})
			return
		}
		at = parsed
	}
	progress, err := h.service.Progress(at, zone)
	if err != nil {
		if goerr.HasTag(err, quarter.ErrTagInvalidCivilTime) {
			year, _ := h.service.YearAt(at, zone)
			writeUnresolvable(w, zone, year)
			return
		}
		h.logger.Error("progress failed", slog.String("error", err.Error()), slog.String("tz", zone))
		WriteError(w, http.StatusInternalServerError, CodeInternal, "failed to compute progress", nil)
		return
	}
	common.WriteJSON(w, http.StatusOK, NewProgressResponse(progress))
}

func (h *Handler) handleQuarters(w http.ResponseWriter, r *http.Request) {
	zone, ok := h.resolveZone(w, r)
	if !ok {
		return
	}
	year, err := h.service.YearAt(h.service.Clock(), zone)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, CodeInternal, "failed to load timezone", nil)
		return
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("year")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 9999 {
			WriteError(w, http.StatusBadRequest, CodeValidation, "invalid year", map[string]string{"year": "must be 1..9999"})
			return
		}
		year = parsed
	}
	quarters, err := h.service.Quarters(year, zone)
	if err != nil {
		if goerr.HasTag(err, quarter.ErrTagInvalidCivilTime) {
			writeUnresolvable(w, zone, year)
			return
		}
		h.logger.Error("resolve quarters failed", slog.String("error", err.Error()), slog.String("tz", zone), slog.Int("year", year))
		WriteError(w, http.StatusInternalServerError, CodeInternal, "failed to resolve quarters", nil)
		return
	}
	common.WriteJSON(w, http.StatusOK, mapQuarters(zone, year, quarters))
}

func (h *Handler) handleTimezones(w http.ResponseWriter, r *http.Request) {
	common.WriteJSON(w, http.StatusOK, timezonesResponse{Default: h.service.DefaultZone(), Items: h.zones()})
}

// writeUnresolvable reports a zone whose calendar skips a quarter boundary
// (a DST jump at local midnight) in the requested year.
func writeUnresolvable(w http.ResponseWriter, zone string, year int) {
	WriteError(w, http.StatusUnprocessableEntity, CodeUnresolvable,
		"quarter boundaries do not exist in this timezone for the requested year",
		map[string]string{"tz": zone, "year": strconv.Itoa(year)})
}
