package bot

import (
	"context"
	"errors"
	"time"

	"github.com/Spok95/stock-bot/internal/command"
	"github.com/Spok95/stock-bot/internal/dialog"
	"github.com/Spok95/stock-bot/internal/domain/product"
	"github.com/Spok95/stock-bot/internal/domain/stock"
	"github.com/Spok95/stock-bot/internal/domain/warehouse"
	"github.com/Spok95/stock-bot/internal/ledger"
	"github.com/Spok95/stock-bot/internal/notify"
)

func (b *Bot) onOutbound(ctx context.Context, ev Event, cmd *command.Command) {
	sku := ""
	if st, _ := b.states.Get(ctx, ev.Actor); st != nil && st.SKU != "" {
		sku = st.SKU
	}
	if sku == "" {
		sku = b.selects.LastSKU(ctx, ev.Actor)
	}
	if sku == "" {
		// keep the quantity and ask for a product; a re-entrant
		// out-command overwrites this, it never stacks
		st := dialog.State{Step: dialog.StepAwaitSKU, Box: cmd.Box, Piece: cmd.Piece}
		if err := b.states.Set(ctx, ev.Actor, st); err != nil {
			b.log.Warn("state write failed", "actor", ev.Actor, "err", err)
		}
		b.reply(ctx, ev, textMsg(needProductText))
		return
	}

	p, err := b.products.Lookup(ctx, sku)
	if err != nil {
		b.log.Error("product lookup failed", "sku", sku, "err", err)
		b.reply(ctx, ev, textMsg(lookupFailedText))
		return
	}
	if p == nil {
		b.reply(ctx, ev, textMsg(needProductText))
		return
	}
	b.continueOutbound(ctx, ev, p, cmd.Box, cmd.Piece, cmd.Warehouse)
}

// continueOutbound resolves the warehouse: explicit hint beats the
// last-used warehouse (if still stocked), which beats prompting the
// user, which beats the sole candidate.
func (b *Bot) continueOutbound(ctx context.Context, ev Event, p *product.Product, box, piece int, hint string) {
	if hint != "" {
		wh := warehouse.Code(hint)
		if wh == warehouse.Unspecified {
			b.reply(ctx, ev, textMsg(unknownWarehouseText(hint)))
			return
		}
		b.finishOutbound(ctx, ev, p, wh, box, piece)
		return
	}

	snaps, err := b.stock.Snapshots(ctx, ev.Group, p.SKU, p.UnitsPerBox)
	if err != nil {
		b.log.Error("stock snapshots failed", "sku", p.SKU, "err", err)
		b.reply(ctx, ev, textMsg(lookupFailedText))
		return
	}

	if last := b.selects.LastWarehouse(ctx, ev.Actor); last != "" && stocked(snaps, last) {
		b.finishOutbound(ctx, ev, p, last, box, piece)
		return
	}

	switch len(snaps) {
	case 0:
		_ = b.states.Clear(ctx, ev.Actor)
		b.reply(ctx, ev, textMsg(noStockText(p)))
	case 1:
		b.finishOutbound(ctx, ev, p, snaps[0].Warehouse, box, piece)
	default:
		st := dialog.State{Step: dialog.StepAwaitWarehouse, Box: box, Piece: piece, SKU: p.SKU}
		if err := b.states.Set(ctx, ev.Actor, st); err != nil {
			b.log.Warn("state write failed", "actor", ev.Actor, "err", err)
		}
		b.reply(ctx, ev, warehouseChoiceMessage(p, snaps, box, piece))
	}
}

// finishOutbound is the terminal step: race lock, fresh snapshot,
// advisory sufficiency check, ledger mutation, reply, fan-out. The
// ledger re-validates internally; everything before the call is
// advisory and leaves no state behind on failure.
func (b *Bot) finishOutbound(ctx context.Context, ev Event, p *product.Product, wh string, box, piece int) {
	if box == 0 && piece == 0 {
		b.reply(ctx, ev, textMsg(hintOutboundText))
		return
	}

	if !b.lock.TryAcquire(ctx, ev.Actor) {
		metricOutbound.WithLabelValues("locked").Inc()
		b.reply(ctx, ev, textMsg(busyText))
		return
	}

	before, _, err := b.stock.WarehouseSnapshot(ctx, ev.Group, p.SKU, wh, p.UnitsPerBox)
	if err != nil {
		metricOutbound.WithLabelValues("error").Inc()
		b.log.Error("pre-check snapshot failed", "sku", p.SKU, "wh", wh, "err", err)
		b.reply(ctx, ev, textMsg(lookupFailedText))
		return
	}

	// box and piece are checked independently; units never substitute
	if box > before.Box {
		metricOutbound.WithLabelValues("insufficient").Inc()
		b.reply(ctx, ev, textMsg(insufficientText(before.Label, "箱", box, before.Box)))
		return
	}
	if piece > before.Piece {
		metricOutbound.WithLabelValues("insufficient").Inc()
		b.reply(ctx, ev, textMsg(insufficientText(before.Label, "件", piece, before.Piece)))
		return
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	err = b.ledger.OutboundAndLog(ctx, ledger.OutboundRequest{
		Group: ev.Group, SKU: p.SKU, Warehouse: wh,
		Box: box, Piece: piece, At: at, Actor: ev.UserID,
	})
	if err != nil {
		metricOutbound.WithLabelValues("ledger_error").Inc()
		var lerr *ledger.Error
		if errors.As(err, &lerr) {
			b.reply(ctx, ev, textMsg("出庫失敗："+lerr.Reason))
			return
		}
		b.log.Error("ledger outbound failed", "sku", p.SKU, "wh", wh, "err", err)
		b.reply(ctx, ev, textMsg(ledgerFailedText))
		return
	}
	metricOutbound.WithLabelValues("ok").Inc()

	b.selects.SetLastSKU(ctx, ev.Actor, p.SKU)
	b.selects.SetLastWarehouse(ctx, ev.Actor, wh)
	if err := b.states.Clear(ctx, ev.Actor); err != nil {
		b.log.Warn("state clear failed", "actor", ev.Actor, "err", err)
	}

	after, _, err := b.stock.WarehouseSnapshot(ctx, ev.Group, p.SKU, wh, p.UnitsPerBox)
	if err != nil {
		b.log.Warn("post-mutation snapshot failed", "sku", p.SKU, "wh", wh, "err", err)
		after = stock.Snapshot{Warehouse: wh, Label: before.Label, Box: before.Box - box, Piece: before.Piece - piece}
	}

	b.reply(ctx, ev, textMsg(outboundDoneText(p, before, after, box, piece)))

	b.notify.Push(notify.Event{
		Group: ev.Group, Actor: ev.UserID, SKU: p.SKU, Warehouse: wh,
		OutBox: box, OutPiece: piece,
		RemainBox: after.Box, RemainPiece: after.Piece,
		At: at,
	})
}

func stocked(snaps []stock.Snapshot, wh string) bool {
	for _, s := range snaps {
		if s.Warehouse == wh {
			return true
		}
	}
	return false
}
