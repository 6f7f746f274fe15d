package bot

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/Spok95/stock-bot/internal/dialog"
	"github.com/Spok95/stock-bot/internal/domain/barcode"
	"github.com/Spok95/stock-bot/internal/domain/product"
	"github.com/Spok95/stock-bot/internal/domain/stock"
	"github.com/Spok95/stock-bot/internal/guard"
	"github.com/Spok95/stock-bot/internal/kvstore"
	"github.com/Spok95/stock-bot/internal/ledger"
	"github.com/Spok95/stock-bot/internal/notify"
	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReplier struct {
	texts     []string
	templates []*linebot.TemplateMessage
	pushes    []string
}

func (f *fakeReplier) Reply(_ context.Context, _ string, msgs ...linebot.SendingMessage) error {
	for _, m := range msgs {
		switch v := m.(type) {
		case *linebot.TextMessage:
			f.texts = append(f.texts, v.Text)
		case *linebot.TemplateMessage:
			f.templates = append(f.templates, v)
		}
	}
	return nil
}

func (f *fakeReplier) Push(_ context.Context, to string, _ ...linebot.SendingMessage) error {
	f.pushes = append(f.pushes, to)
	return nil
}

func (f *fakeReplier) lastText() string {
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1]
}

// fakeLedger applies FIFO deductions in memory so post-mutation
// snapshots change the way the real ledger's would.
type fakeLedger struct {
	lots  []stock.Lot
	calls []ledger.OutboundRequest
	fail  error
}

func (f *fakeLedger) LiveLots(_ context.Context, _, sku string) ([]stock.Lot, error) {
	var out []stock.Lot
	for _, l := range f.lots {
		if l.SKU == sku && l.Remaining > 0 {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLedger) GroupLots(_ context.Context, _ string) ([]stock.Lot, error) {
	return f.lots, nil
}

func (f *fakeLedger) BusinessDayStock(_ context.Context, _, _ string) ([]ledger.Row, error) {
	return nil, nil
}

func (f *fakeLedger) OutboundAndLog(_ context.Context, req ledger.OutboundRequest) error {
	f.calls = append(f.calls, req)
	if f.fail != nil {
		return f.fail
	}
	f.consume(req.SKU, req.Warehouse, stock.UOMBox, req.Box)
	f.consume(req.SKU, req.Warehouse, stock.UOMPiece, req.Piece)
	return nil
}

func (f *fakeLedger) consume(sku, wh string, uom stock.UOM, qty int) {
	idx := make([]int, 0, len(f.lots))
	for i, l := range f.lots {
		if l.SKU == sku && l.Warehouse == wh && l.UOM == uom && l.Remaining > 0 {
			idx = append(idx, i)
		}
	}
	sort.Slice(idx, func(a, b int) bool { return f.lots[idx[a]].OpenedAt.Before(f.lots[idx[b]].OpenedAt) })
	for _, i := range idx {
		if qty == 0 {
			return
		}
		take := f.lots[i].Remaining
		if take > qty {
			take = qty
		}
		f.lots[i].Remaining -= take
		qty -= take
	}
}

type fakeProducts struct {
	items map[string]*product.Product
}

func (f *fakeProducts) Lookup(_ context.Context, sku string) (*product.Product, error) {
	return f.items[sku], nil
}

func (f *fakeProducts) Search(_ context.Context, query string, limit int) ([]product.Product, error) {
	var out []product.Product
	for _, p := range f.items {
		if strings.Contains(p.Name, query) && len(out) < limit {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

type fakeBarcodes struct {
	items map[string][]barcode.Candidate
}

func (f *fakeBarcodes) Lookup(_ context.Context, code string) ([]barcode.Candidate, error) {
	return f.items[code], nil
}

type fixture struct {
	bot     *Bot
	replier *fakeReplier
	ledger  *fakeLedger
	kv      *kvstore.Memory
}

func newFixture(t *testing.T, lots []stock.Lot) *fixture {
	t.Helper()
	log := slog.Default()
	kv := kvstore.NewMemory()
	replier := &fakeReplier{}
	lg := &fakeLedger{lots: lots}
	products := &fakeProducts{items: map[string]*product.Product{
		"a564": {SKU: "a564", Name: "保溫杯", UnitsPerBox: 24},
	}}
	barcodes := &fakeBarcodes{items: map[string][]barcode.Candidate{
		"4710088012345": {{SKU: "a564", Name: "保溫杯"}},
	}}

	b := New(
		replier, log,
		dialog.NewStore(kv), dialog.NewSelections(kv),
		guard.NewDeduper(&memDedup{seen: map[string]bool{}}, log),
		guard.NewOutboundLock(kv, log),
		stock.NewService(lg, kv, time.UTC, 6, log),
		lg, products, barcodes,
		notify.New("", log),
		"v1.4.0",
	)
	return &fixture{bot: b, replier: replier, ledger: lg, kv: kv}
}

type memDedup struct{ seen map[string]bool }

func (m *memDedup) InsertOnce(_ context.Context, id, _, _ string) (bool, error) {
	if m.seen[id] {
		return false, nil
	}
	m.seen[id] = true
	return true, nil
}

func textEvent(id, text string) Event {
	return Event{
		ID: id, ReplyToken: "rt-" + id,
		Actor: "u1", Group: "u1", UserID: "u1",
		Text: text, At: time.Now(),
	}
}

func postbackEvent(id, data string) Event {
	ev := textEvent(id, "")
	ev.IsPostback = true
	ev.PostbackData = data
	return ev
}

func twoWarehouseLots() []stock.Lot {
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	cost := decimal.New(10, 0)
	return []stock.Lot{
		{SKU: "a564", Warehouse: "main", UOM: stock.UOMBox, Remaining: 5, UnitCost: cost, OpenedAt: t0},
		{SKU: "a564", Warehouse: "main", UOM: stock.UOMPiece, Remaining: 12, UnitCost: cost, OpenedAt: t0},
		{SKU: "a564", Warehouse: "front", UOM: stock.UOMPiece, Remaining: 4, UnitCost: cost, OpenedAt: t0},
	}
}

func TestOutboundWithoutProductContext(t *testing.T) {
	fx := newFixture(t, twoWarehouseLots())
	ctx := context.Background()

	fx.bot.HandleEvent(ctx, textEvent("ev1", "出3箱"))

	assert.Empty(t, fx.ledger.calls, "no ledger call without a product context")
	assert.Equal(t, needProductText, fx.replier.lastText())

	st, err := dialog.NewStore(fx.kv).Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, dialog.StepAwaitSKU, st.Step)
	assert.Equal(t, 3, st.Box)
}

func TestDuplicateEventSingleMutation(t *testing.T) {
	fx := newFixture(t, []stock.Lot{
		{SKU: "a564", Warehouse: "main", UOM: stock.UOMBox, Remaining: 5,
			UnitCost: decimal.New(10, 0), OpenedAt: time.Now()},
	})
	ctx := context.Background()

	fx.bot.HandleEvent(ctx, textEvent("sel", "編號 a564"))
	require.Empty(t, fx.ledger.calls)

	ev := textEvent("out", "出2箱")
	fx.bot.HandleEvent(ctx, ev)
	fx.bot.HandleEvent(ctx, ev) // at-least-once redelivery

	assert.Len(t, fx.ledger.calls, 1, "replayed event id mutates exactly once")
}

func TestInsufficientBoxRejectedBeforeLedger(t *testing.T) {
	fx := newFixture(t, []stock.Lot{
		{SKU: "a564", Warehouse: "main", UOM: stock.UOMBox, Remaining: 2,
			UnitCost: decimal.New(10, 0), OpenedAt: time.Now()},
		{SKU: "a564", Warehouse: "main", UOM: stock.UOMPiece, Remaining: 100,
			UnitCost: decimal.New(1, 0), OpenedAt: time.Now()},
	})
	ctx := context.Background()

	fx.bot.HandleEvent(ctx, textEvent("sel", "編號 a564"))
	fx.bot.HandleEvent(ctx, textEvent("out", "出3箱"))

	assert.Empty(t, fx.ledger.calls, "box shortfall rejects before any ledger call")
	assert.Contains(t, fx.replier.lastText(), "箱數不足")
	assert.Contains(t, fx.replier.lastText(), "僅剩 2")
}

func TestEndToEndWarehouseChoiceAndOutbound(t *testing.T) {
	fx := newFixture(t, twoWarehouseLots())
	ctx := context.Background()

	// lookup with two stocked warehouses offers a choice
	fx.bot.HandleEvent(ctx, textEvent("ev1", "編號 a564"))
	require.Len(t, fx.replier.templates, 1)
	tpl, ok := fx.replier.templates[0].Template.(*linebot.ButtonsTemplate)
	require.True(t, ok)
	require.Len(t, tpl.Actions, 2)

	// tap the main warehouse button
	var mainData string
	for _, a := range tpl.Actions {
		pa, ok := a.(*linebot.PostbackAction)
		require.True(t, ok)
		if strings.Contains(pa.Label, "主倉") {
			mainData = pa.Data
		}
	}
	require.NotEmpty(t, mainData)
	fx.bot.HandleEvent(ctx, postbackEvent("ev2", mainData))

	last := fx.replier.lastText()
	assert.Contains(t, last, "主倉")
	assert.Contains(t, last, "5箱12件")

	// a bare out-command now resolves to the last-used warehouse
	fx.bot.HandleEvent(ctx, textEvent("ev3", "出3箱"))
	require.Len(t, fx.ledger.calls, 1)
	call := fx.ledger.calls[0]
	assert.Equal(t, "main", call.Warehouse)
	assert.Equal(t, "a564", call.SKU)
	assert.Equal(t, 3, call.Box)
	assert.Equal(t, 0, call.Piece)

	done := fx.replier.lastText()
	assert.Contains(t, done, "出庫完成")
	assert.Contains(t, done, "出庫前:5箱12件")
	assert.Contains(t, done, "出庫後:2箱12件")

	// dialog state is gone after completion
	st, err := dialog.NewStore(fx.kv).Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestPendingQuantityResolvesThroughSKUAndWarehousePick(t *testing.T) {
	fx := newFixture(t, twoWarehouseLots())
	ctx := context.Background()

	// quantity first, no product yet
	fx.bot.HandleEvent(ctx, textEvent("ev1", "出2件"))
	assert.Equal(t, needProductText, fx.replier.lastText())

	// naming the product continues the pending outbound; two stocked
	// warehouses mean a confirm choice
	fx.bot.HandleEvent(ctx, textEvent("ev2", "編號 a564"))
	require.Len(t, fx.replier.templates, 1)
	tpl := fx.replier.templates[0].Template.(*linebot.ButtonsTemplate)

	var frontData string
	for _, a := range tpl.Actions {
		pa := a.(*linebot.PostbackAction)
		if strings.Contains(pa.Label, "門市") {
			frontData = pa.Data
		}
	}
	require.NotEmpty(t, frontData)
	fx.bot.HandleEvent(ctx, postbackEvent("ev3", frontData))

	require.Len(t, fx.ledger.calls, 1)
	assert.Equal(t, "front", fx.ledger.calls[0].Warehouse)
	assert.Equal(t, 2, fx.ledger.calls[0].Piece)
	assert.Equal(t, 0, fx.ledger.calls[0].Box)
}

func TestDoubleTapBlockedByLock(t *testing.T) {
	fx := newFixture(t, twoWarehouseLots())
	ctx := context.Background()

	fx.bot.HandleEvent(ctx, textEvent("sel", "編號 a564"))
	tpl := fx.replier.templates[0].Template.(*linebot.ButtonsTemplate)
	var mainData string
	for _, a := range tpl.Actions {
		pa := a.(*linebot.PostbackAction)
		if strings.Contains(pa.Label, "主倉") {
			mainData = pa.Data
		}
	}
	fx.bot.HandleEvent(ctx, postbackEvent("pick", mainData))

	fx.bot.HandleEvent(ctx, textEvent("out1", "出1箱"))
	fx.bot.HandleEvent(ctx, textEvent("out2", "出1箱"))

	assert.Len(t, fx.ledger.calls, 1, "the race lock blocks the second tap")
	assert.Equal(t, busyText, fx.replier.lastText())
}

func TestLedgerFailureSurfacesReason(t *testing.T) {
	fx := newFixture(t, twoWarehouseLots())
	fx.ledger.fail = &ledger.Error{Reason: "庫存不足：box 僅剩 1"}
	ctx := context.Background()

	fx.bot.HandleEvent(ctx, textEvent("sel", "編號 a564"))
	tpl := fx.replier.templates[0].Template.(*linebot.ButtonsTemplate)
	var mainData string
	for _, a := range tpl.Actions {
		pa := a.(*linebot.PostbackAction)
		if strings.Contains(pa.Label, "主倉") {
			mainData = pa.Data
		}
	}
	fx.bot.HandleEvent(ctx, postbackEvent("pick", mainData))
	fx.bot.HandleEvent(ctx, textEvent("out", "出2箱"))

	require.Len(t, fx.ledger.calls, 1)
	assert.Contains(t, fx.replier.lastText(), "出庫失敗：庫存不足")
}

func TestCancelClearsState(t *testing.T) {
	fx := newFixture(t, twoWarehouseLots())
	ctx := context.Background()

	fx.bot.HandleEvent(ctx, textEvent("ev1", "出3箱"))
	fx.bot.HandleEvent(ctx, textEvent("ev2", "取消"))
	assert.Equal(t, cancelledText, fx.replier.lastText())

	st, err := dialog.NewStore(fx.kv).Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestMalformedOutboundGetsHint(t *testing.T) {
	fx := newFixture(t, twoWarehouseLots())
	fx.bot.HandleEvent(context.Background(), textEvent("ev1", "出2箱了嗎"))
	assert.Equal(t, hintOutboundText, fx.replier.lastText())
	assert.Empty(t, fx.ledger.calls)
}

func TestPlainChatterIgnored(t *testing.T) {
	fx := newFixture(t, twoWarehouseLots())
	fx.bot.HandleEvent(context.Background(), textEvent("ev1", "今天好熱"))
	assert.Empty(t, fx.replier.texts)
	assert.Empty(t, fx.replier.templates)
}

func TestBarcodeSingleHitActsAsSKULookup(t *testing.T) {
	fx := newFixture(t, twoWarehouseLots())
	fx.bot.HandleEvent(context.Background(), textEvent("ev1", "條碼 4710088012345"))
	// two stocked warehouses: same choice flow as an explicit lookup
	assert.Len(t, fx.replier.templates, 1)
}

func TestVersion(t *testing.T) {
	fx := newFixture(t, nil)
	fx.bot.HandleEvent(context.Background(), textEvent("ev1", "版本"))
	assert.Contains(t, fx.replier.lastText(), "v1.4.0")
}
