package live

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	v1 "quarters/internal/api/v1"
	"quarters/internal/http/handlers/common"
	"quarters/internal/service"
	"quarters/internal/store"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

func newLiveServer(t *testing.T) *httptest.Server {
	t.Helper()
	now := time.Date(2024, time.May, 16, 0, 0, 0, 0, time.UTC)
	svc := service.New(store.NewMemory(), "UTC", func() time.Time { return now })
	handler := New(common.Dependencies{
		Service:      svc,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		LiveInterval: 10 * time.Millisecond,
	})
	server := httptest.NewServer(http.HandlerFunc(handler.HandleLive))
	t.Cleanup(server.Close)
	return server
}

func TestHandleLivePushesProgress(t *testing.T) {
	server := newLiveServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?tz=Asia/Tokyo"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	for i := 0; i < 2; i++ {
		var progress v1.ProgressResponse
		if err := wsjson.Read(ctx, conn, &progress); err != nil {
			t.Fatalf("read message %d: %v", i, err)
		}
		if progress.Timezone != "Asia/Tokyo" || progress.Name != "Q2 2024" {
			t.Fatalf("unexpected progress %+v", progress)
		}
	}
	_ = conn.Close(websocket.StatusNormalClosure, "")
}

func TestHandleLiveRejectsUnknownZone(t *testing.T) {
	server := newLiveServer(t)

	resp, err := http.Get(server.URL + "?tz=Atlantis/Lost")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
