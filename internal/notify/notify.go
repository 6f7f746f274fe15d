// Package notify pushes audit events to an analytics webhook.
// Strictly best-effort: detached from the request, never retried,
// failures only logged.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Event is the structured audit record of one completed outbound.
type Event struct {
	ID          string    `json:"id"`
	Group       string    `json:"group"`
	Actor       string    `json:"actor"`
	SKU         string    `json:"sku"`
	Warehouse   string    `json:"warehouse"`
	OutBox      int       `json:"out_box"`
	OutPiece    int       `json:"out_piece"`
	RemainBox   int       `json:"remain_box"`
	RemainPiece int       `json:"remain_piece"`
	At          time.Time `json:"at"`
}

type Notifier struct {
	url    string
	client *http.Client
	log    *slog.Logger
}

// New returns a notifier; an empty url disables pushing entirely.
func New(url string, log *slog.Logger) *Notifier {
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: 3 * time.Second},
		log:    log,
	}
}

// Push fires the event and returns immediately. The outcome never
// reaches the caller.
func (n *Notifier) Push(ev Event) {
	if n == nil || n.url == "" {
		return
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	go n.send(ev)
}

func (n *Notifier) send(ev Event) {
	body, err := json.Marshal(ev)
	if err != nil {
		n.log.Warn("notify marshal failed", "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		n.log.Warn("notify request build failed", "err", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.log.Warn("notify push failed", "event_id", ev.ID, "err", err)
		return
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		n.log.Warn("notify push rejected", "event_id", ev.ID, "status", resp.StatusCode)
	}
}
