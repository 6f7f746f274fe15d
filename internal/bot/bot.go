package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/Spok95/stock-bot/internal/dialog"
	"github.com/Spok95/stock-bot/internal/domain/barcode"
	"github.com/Spok95/stock-bot/internal/domain/product"
	"github.com/Spok95/stock-bot/internal/domain/stock"
	"github.com/Spok95/stock-bot/internal/guard"
	"github.com/Spok95/stock-bot/internal/ledger"
	"github.com/Spok95/stock-bot/internal/notify"
	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// replier is the reply channel. Kept narrow so tests can capture
// outgoing messages without a LINE client.
type replier interface {
	Reply(ctx context.Context, token string, msgs ...linebot.SendingMessage) error
	Push(ctx context.Context, to string, msgs ...linebot.SendingMessage) error
}

type productLookup interface {
	Lookup(ctx context.Context, sku string) (*product.Product, error)
	Search(ctx context.Context, query string, limit int) ([]product.Product, error)
}

type barcodeLookup interface {
	Lookup(ctx context.Context, code string) ([]barcode.Candidate, error)
}

const handleTimeout = 10 * time.Second

type Bot struct {
	client   replier
	log      *slog.Logger
	states   *dialog.Store
	selects  *dialog.Selections
	dedup    *guard.Deduper
	lock     *guard.OutboundLock
	stock    *stock.Service
	ledger   ledger.Ledger
	products productLookup
	barcodes barcodeLookup
	notify   *notify.Notifier
	version  string
}

func New(client replier, log *slog.Logger,
	states *dialog.Store, selects *dialog.Selections,
	dedup *guard.Deduper, lock *guard.OutboundLock,
	stockSvc *stock.Service, lg ledger.Ledger,
	products productLookup, barcodes barcodeLookup,
	notifier *notify.Notifier, version string) *Bot {

	return &Bot{
		client: client, log: log, states: states, selects: selects,
		dedup: dedup, lock: lock, stock: stockSvc, ledger: lg,
		products: products, barcodes: barcodes,
		notify: notifier, version: version,
	}
}

// HandleEvent processes one inbound event. The webhook has already
// been acknowledged by the time this runs; events for distinct actors
// run concurrently.
func (b *Bot) HandleEvent(ctx context.Context, ev Event) {
	metricEvents.Inc()

	ctx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	kind := "message"
	if ev.IsPostback {
		kind = "postback"
	}
	if !b.dedup.Allow(ctx, ev.ID, ev.Actor, kind) {
		metricDuplicates.Inc()
		return
	}

	if ev.IsPostback {
		b.onPostback(ctx, ev)
		return
	}
	b.onMessage(ctx, ev)
}

// reply sends on the synchronous channel bound to the event, falling
// back to one push when that fails. After the fallback the message is
// dropped with a log entry; the user resends.
func (b *Bot) reply(ctx context.Context, ev Event, msgs ...linebot.SendingMessage) {
	if err := b.client.Reply(ctx, ev.ReplyToken, msgs...); err != nil {
		b.log.Warn("reply failed, falling back to push", "actor", ev.Actor, "err", err)
		if err := b.client.Push(ctx, ev.Actor, msgs...); err != nil {
			b.log.Error("push fallback failed", "actor", ev.Actor, "err", err)
		}
	}
}

func textMsg(s string) *linebot.TextMessage { return linebot.NewTextMessage(s) }
