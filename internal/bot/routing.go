package bot

import (
	"context"

	"github.com/Spok95/stock-bot/internal/command"
	"github.com/Spok95/stock-bot/internal/dialog"
	"github.com/Spok95/stock-bot/internal/domain/warehouse"
)

func (b *Bot) onMessage(ctx context.Context, ev Event) {
	cmd, ok := command.Parse(ev.Text)
	if !ok {
		// answer only failed outbound attempts; ordinary group chatter
		// passes in silence
		if command.IsOutboundAttempt(ev.Text) {
			b.reply(ctx, ev, textMsg(hintOutboundText))
		}
		return
	}
	metricCommands.WithLabelValues(kindLabel(cmd.Kind)).Inc()

	switch cmd.Kind {
	case command.KindVersion:
		b.reply(ctx, ev, textMsg(versionText(b.version)))
	case command.KindCancel:
		if err := b.states.Clear(ctx, ev.Actor); err != nil {
			b.log.Warn("state clear failed", "actor", ev.Actor, "err", err)
		}
		b.reply(ctx, ev, textMsg(cancelledText))
	case command.KindBarcode:
		b.onBarcode(ctx, ev, cmd.Barcode)
	case command.KindSKU:
		b.onSKU(ctx, ev, cmd.SKU)
	case command.KindWarehouse:
		b.onWarehouseSelect(ctx, ev, cmd.Warehouse)
	case command.KindSearch:
		b.onSearch(ctx, ev, cmd.Query)
	case command.KindOutbound:
		b.onOutbound(ctx, ev, cmd)
	}
}

func (b *Bot) onPostback(ctx context.Context, ev Event) {
	pb, ok := command.DecodePostback(ev.PostbackData)
	if !ok {
		return
	}

	p, err := b.products.Lookup(ctx, pb.SKU)
	if err != nil {
		b.log.Error("product lookup failed", "sku", pb.SKU, "err", err)
		b.reply(ctx, ev, textMsg(lookupFailedText))
		return
	}
	if p == nil {
		b.reply(ctx, ev, textMsg(needProductText))
		return
	}

	switch pb.Kind {
	case command.PostbackWarehouseConfirm:
		b.selects.SetLastSKU(ctx, ev.Actor, p.SKU)
		b.selects.SetLastWarehouse(ctx, ev.Actor, pb.Warehouse)
		b.showWarehouseSnapshot(ctx, ev, p, pb.Warehouse)
	case command.PostbackOutboundConfirm:
		box, piece := pb.Box, pb.Piece
		if box == 0 && piece == 0 {
			// stale button: fall back to the pending dialog, if any
			st, _ := b.states.Get(ctx, ev.Actor)
			if st == nil || st.Step != dialog.StepAwaitWarehouse {
				return
			}
			box, piece = st.Box, st.Piece
		}
		b.finishOutbound(ctx, ev, p, pb.Warehouse, box, piece)
	}
}

func (b *Bot) onWarehouseSelect(ctx context.Context, ev Event, input string) {
	wh := warehouse.Code(input)
	if wh == warehouse.Unspecified {
		b.reply(ctx, ev, textMsg(unknownWarehouseText(input)))
		return
	}
	b.selects.SetLastWarehouse(ctx, ev.Actor, wh)

	// a pending outbound waiting on a warehouse completes right here
	if st, _ := b.states.Get(ctx, ev.Actor); st != nil && st.Step == dialog.StepAwaitWarehouse && st.SKU != "" {
		p, err := b.products.Lookup(ctx, st.SKU)
		if err == nil && p != nil {
			b.finishOutbound(ctx, ev, p, wh, st.Box, st.Piece)
			return
		}
	}

	if sku := b.selects.LastSKU(ctx, ev.Actor); sku != "" {
		if p, err := b.products.Lookup(ctx, sku); err == nil && p != nil {
			b.showWarehouseSnapshot(ctx, ev, p, wh)
			return
		}
	}
	b.reply(ctx, ev, textMsg(warehouseChosenText(wh)))
}

func kindLabel(k command.Kind) string {
	switch k {
	case command.KindVersion:
		return "version"
	case command.KindCancel:
		return "cancel"
	case command.KindBarcode:
		return "barcode"
	case command.KindSKU:
		return "sku"
	case command.KindWarehouse:
		return "warehouse"
	case command.KindSearch:
		return "search"
	case command.KindOutbound:
		return "outbound"
	}
	return "unknown"
}
