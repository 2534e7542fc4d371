// Package live pushes quarter progress to the browser over a websocket so the
// page refreshes without polling.
package live

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	v1 "quarters/internal/api/v1"
	"quarters/internal/http/handlers/common"
	"quarters/internal/obs"
	"quarters/internal/quarter"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/m-mizutani/goerr/v2"
)

const writeTimeout = 5 * time.Second

type Handler struct {
	deps common.Dependencies
}

func New(deps common.Dependencies) *Handler {
	return &Handler{deps: deps}
}

func (h *Handler) HandleLive(w http.ResponseWriter, r *http.Request) {
	zone, err := h.deps.Service.ResolveTimezone(r.Context(), common.VisitorID(r), r.URL.Query().Get("tz"))
	if err != nil {
		if goerr.HasTag(err, quarter.ErrTagInvalidTimezone) {
			http.Error(w, "unknown timezone", http.StatusBadRequest)
			return
		}
		h.deps.Logger.Warn("preference lookup failed", slog.String("error", err.Error()))
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.deps.Logger.Warn("websocket accept failed", slog.String("error", err.Error()))
		return
	}
	defer conn.CloseNow()

	obs.LiveConnections.Inc()
	defer obs.LiveConnections.Dec()

	// The client never sends anything; CloseRead cancels ctx once it leaves.
	ctx := conn.CloseRead(r.Context())
	interval := h.deps.LiveInterval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := h.push(ctx, conn, zone); err != nil {
			if ctx.Err() == nil {
				h.deps.Logger.Warn("live push failed", slog.String("error", err.Error()), slog.String("tz", zone))
			}
			return
		}
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return
		case <-ticker.C:
		}
	}
}

func (h *Handler) push(ctx context.Context, conn *websocket.Conn, zone string) error {
	progress, err := h.deps.Service.Now(zone)
	if err != nil {
		_ = conn.Close(websocket.StatusInternalError, "progress unavailable")
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(writeCtx, conn, v1.NewProgressResponse(progress))
}
