package bot

import (
	"time"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// Event is the transport-independent inbound event. Actor keys all
// per-conversation state; Group is the stock tenant (the group or room
// the bot serves, the user id in a 1:1 chat).
type Event struct {
	ID           string
	ReplyToken   string
	Actor        string
	Group        string
	UserID       string
	Text         string
	PostbackData string
	IsPostback   bool
	At           time.Time
}

// FromLineEvent converts a webhook event; false when it is neither a
// text message nor a postback.
func FromLineEvent(ev *linebot.Event) (Event, bool) {
	out := Event{
		ID:         ev.WebhookEventID,
		ReplyToken: ev.ReplyToken,
		At:         ev.Timestamp,
	}
	if src := ev.Source; src != nil {
		out.UserID = src.UserID
		switch {
		case src.GroupID != "":
			out.Actor = src.GroupID
		case src.RoomID != "":
			out.Actor = src.RoomID
		default:
			out.Actor = src.UserID
		}
		out.Group = out.Actor
	}
	if out.Actor == "" {
		return Event{}, false
	}

	switch ev.Type {
	case linebot.EventTypeMessage:
		msg, ok := ev.Message.(*linebot.TextMessage)
		if !ok {
			return Event{}, false
		}
		out.Text = msg.Text
		return out, true
	case linebot.EventTypePostback:
		if ev.Postback == nil {
			return Event{}, false
		}
		out.IsPostback = true
		out.PostbackData = ev.Postback.Data
		return out, true
	}
	return Event{}, false
}
