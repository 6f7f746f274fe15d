package bot

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// Webhook receives LINE callbacks. Delivery is acknowledged as soon as
// the signature checks out; business logic runs detached so upstream
// retry storms cannot build up behind a slow ledger.
type Webhook struct {
	bot *Bot
	api *linebot.Client
	log *slog.Logger
}

func NewWebhook(bot *Bot, api *linebot.Client, log *slog.Logger) *Webhook {
	return &Webhook{bot: bot, api: api, log: log}
}

func (h *Webhook) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	events, err := h.api.ParseRequest(r)
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		h.log.Error("webhook parse failed", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)

	for _, lev := range events {
		ev, ok := FromLineEvent(lev)
		if !ok {
			continue
		}
		go h.bot.HandleEvent(context.Background(), ev)
	}
}
