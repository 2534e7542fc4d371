package progress

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"quarters/internal/http/handlers/common"
	"quarters/internal/obs"
	"quarters/internal/quarter"
	"quarters/internal/service"

	"github.com/m-mizutani/goerr/v2"
)

type Handler struct {
	deps common.Dependencies
}

func New(deps common.Dependencies) *Handler {
	return &Handler{deps: deps}
}

type progressPage struct {
	Progress        service.Progress
	Zones           []string
	DefaultZone     string
	Notice          string
	LiveURL         string
	LiveIntervalMS  int64
	PageTitle       string
	ContentTemplate string
}

func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	visitorID := common.EnsureVisitorID(w, r)
	requested := r.URL.Query().Get("tz")
	zone, err := h.deps.Service.ResolveTimezone(r.Context(), visitorID, requested)
	notice := ""
	if err != nil {
		if goerr.HasTag(err, quarter.ErrTagInvalidTimezone) {
			obs.TimezoneFallbacks.WithLabelValues("invalid").Inc()
			notice = fmt.Sprintf("Unknown timezone %q, showing %s instead.", requested, zone)
		} else {
			obs.TimezoneFallbacks.WithLabelValues("store").Inc()
			h.deps.Logger.Warn("preference lookup failed", slog.String("error", err.Error()))
		}
	}
	h.render(w, r, zone, notice)
}

func (h *Handler) HandleSaveTimezone(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		common.RenderError(w, h.deps.Logger, err)
		return
	}
	visitorID := common.EnsureVisitorID(w, r)
	zone := common.TrimmedFormValue(r, "timezone")
	if err := h.deps.Service.SaveTimezone(r.Context(), visitorID, zone); err != nil {
		if goerr.HasTag(err, quarter.ErrTagInvalidTimezone) {
			h.render(w, r, h.deps.Service.DefaultZone(), fmt.Sprintf("Unknown timezone %q.", zone))
			return
		}
		common.RenderError(w, h.deps.Logger, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleResetTimezone forgets the visitor's saved zone.
func (h *Handler) HandleResetTimezone(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Service.ForgetTimezone(r.Context(), common.VisitorID(r)); err != nil {
		common.RenderError(w, h.deps.Logger, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, zone, notice string) {
	progress, err := h.deps.Service.Now(zone)
	if goerr.HasTag(err, quarter.ErrTagInvalidCivilTime) && zone != h.deps.Service.DefaultZone() {
		// The zone skips a quarter boundary this year; show the default.
		obs.TimezoneFallbacks.WithLabelValues("civil_time").Inc()
		notice = fmt.Sprintf("Quarter boundaries do not exist in %s this year (daylight saving starts at midnight), showing %s instead.",
			zone, h.deps.Service.DefaultZone())
		zone = h.deps.Service.DefaultZone()
		progress, err = h.deps.Service.Now(zone)
	}
	if goerr.HasTag(err, quarter.ErrTagInvalidCivilTime) {
		h.deps.Logger.Warn("quarter unresolvable in default zone", slog.String("tz", zone), slog.String("error", err.Error()))
		http.Error(w, fmt.Sprintf("Quarter boundaries do not exist in %s this year.", zone), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		common.RenderError(w, h.deps.Logger, err)
		return
	}
	page := progressPage{
		Progress:        progress,
		Zones:           h.deps.Zones(),
		DefaultZone:     h.deps.Service.DefaultZone(),
		Notice:          notice,
		LiveURL:         "/live?tz=" + url.QueryEscape(zone),
		LiveIntervalMS:  h.deps.LiveInterval.Milliseconds(),
		PageTitle:       "Quarter progress",
		ContentTemplate: "progress-content",
	}
	common.RenderTemplate(w, h.deps.Templates, "base", page, h.deps.Logger)
}
