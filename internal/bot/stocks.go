package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/Spok95/stock-bot/internal/dialog"
	"github.com/Spok95/stock-bot/internal/domain/product"
)

func (b *Bot) onSKU(ctx context.Context, ev Event, sku string) {
	p, err := b.products.Lookup(ctx, sku)
	if err != nil {
		b.log.Error("product lookup failed", "sku", sku, "err", err)
		b.reply(ctx, ev, textMsg(lookupFailedText))
		return
	}
	if p == nil {
		b.reply(ctx, ev, textMsg(fmt.Sprintf("查無編號 %s 的商品。", sku)))
		return
	}
	b.selects.SetLastSKU(ctx, ev.Actor, p.SKU)

	// a quantity may already be waiting for this product
	if st, _ := b.states.Get(ctx, ev.Actor); st != nil && st.Step == dialog.StepAwaitSKU {
		b.continueOutbound(ctx, ev, p, st.Box, st.Piece, "")
		return
	}

	snaps, err := b.stock.Snapshots(ctx, ev.Group, p.SKU, p.UnitsPerBox)
	if err != nil {
		b.log.Error("stock snapshots failed", "sku", p.SKU, "err", err)
		b.reply(ctx, ev, textMsg(lookupFailedText))
		return
	}

	switch len(snaps) {
	case 0:
		b.reply(ctx, ev, textMsg(noStockText(p)))
	case 1:
		b.selects.SetLastWarehouse(ctx, ev.Actor, snaps[0].Warehouse)
		b.reply(ctx, ev, textMsg(snapshotText(p, snaps[0], b.displayUnitCost(ctx, ev.Group, p.SKU))))
	default:
		b.reply(ctx, ev, warehouseChoiceMessage(p, snaps, 0, 0))
	}
}

func (b *Bot) onBarcode(ctx context.Context, ev Event, code string) {
	cands, err := b.barcodes.Lookup(ctx, code)
	if err != nil {
		b.log.Error("barcode lookup failed", "code", code, "err", err)
		b.reply(ctx, ev, textMsg(lookupFailedText))
		return
	}
	switch len(cands) {
	case 0:
		b.reply(ctx, ev, textMsg(fmt.Sprintf("查無條碼 %s。", code)))
	case 1:
		b.onSKU(ctx, ev, cands[0].SKU)
	default:
		var sb strings.Builder
		sb.WriteString("此條碼對應多個商品，請以編號查詢：\n")
		for _, c := range cands {
			fmt.Fprintf(&sb, "編號 %s %s\n", c.SKU, c.Name)
		}
		b.reply(ctx, ev, textMsg(strings.TrimRight(sb.String(), "\n")))
	}
}

func (b *Bot) onSearch(ctx context.Context, ev Event, query string) {
	ps, err := b.products.Search(ctx, query, 5)
	if err != nil {
		b.log.Error("product search failed", "query", query, "err", err)
		b.reply(ctx, ev, textMsg(lookupFailedText))
		return
	}
	if len(ps) == 0 {
		b.reply(ctx, ev, textMsg(fmt.Sprintf("查無「%s」相關商品。", query)))
		return
	}

	var sb strings.Builder
	for i, p := range ps {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "編號 %s %s", p.SKU, p.Name)
		snaps, err := b.stock.Snapshots(ctx, ev.Group, p.SKU, p.UnitsPerBox)
		if err != nil || len(snaps) == 0 {
			sb.WriteString("\n　無庫存")
			continue
		}
		for _, s := range snaps {
			fmt.Fprintf(&sb, "\n　%s：%s", s.Label, qtyText(s.Box, s.Piece))
		}
	}
	b.reply(ctx, ev, textMsg(sb.String()))
}

// showWarehouseSnapshot reports the current box/piece/amount of one
// (sku, warehouse) pair.
func (b *Bot) showWarehouseSnapshot(ctx context.Context, ev Event, p *product.Product, wh string) {
	snap, stocked, err := b.stock.WarehouseSnapshot(ctx, ev.Group, p.SKU, wh, p.UnitsPerBox)
	if err != nil {
		b.log.Error("warehouse snapshot failed", "sku", p.SKU, "wh", wh, "err", err)
		b.reply(ctx, ev, textMsg(lookupFailedText))
		return
	}
	if !stocked {
		b.reply(ctx, ev, textMsg(fmt.Sprintf("%s目前無「%s」庫存。", snap.Label, p.Name)))
		return
	}
	b.reply(ctx, ev, textMsg(snapshotText(p, snap, b.displayUnitCost(ctx, ev.Group, p.SKU))))
}

// displayUnitCost is cosmetic; a read failure just drops the line.
func (b *Bot) displayUnitCost(ctx context.Context, group, sku string) string {
	cost, err := b.stock.UnitCost(ctx, group, sku)
	if err != nil {
		b.log.Warn("unit cost read failed", "sku", sku, "err", err)
		return ""
	}
	return cost
}
