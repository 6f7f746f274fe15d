package bot

import (
	"fmt"
	"strings"

	"github.com/Spok95/stock-bot/internal/domain/product"
	"github.com/Spok95/stock-bot/internal/domain/stock"
	"github.com/Spok95/stock-bot/internal/domain/warehouse"
)

const (
	cancelledText    = "已取消。"
	needProductText  = "請先選擇商品：輸入「編號 <商品編號>」或「條碼 <條碼>」。"
	busyText         = "上一筆操作處理中，請稍後再試。"
	lookupFailedText = "查詢失敗，請稍後再試。"
	ledgerFailedText = "出庫失敗，請稍後再試。"
	hintOutboundText = "出庫格式：出3箱、出5件、出2箱10件，可加倉別，例如「出3箱 主倉」。"
)

func versionText(v string) string {
	return fmt.Sprintf("庫存小幫手 %s", v)
}

func unknownWarehouseText(input string) string {
	return fmt.Sprintf("查無倉別「%s」。", input)
}

func warehouseChosenText(wh string) string {
	return fmt.Sprintf("已選擇%s。", warehouse.Label(wh))
}

func noStockText(p *product.Product) string {
	return fmt.Sprintf("「%s」目前各倉皆無庫存。", p.Name)
}

func qtyText(box, piece int) string {
	var sb strings.Builder
	if box > 0 {
		fmt.Fprintf(&sb, "%d箱", box)
	}
	if piece > 0 {
		fmt.Fprintf(&sb, "%d件", piece)
	}
	if sb.Len() == 0 {
		return "0"
	}
	return sb.String()
}

func snapshotText(p *product.Product, s stock.Snapshot, unitCost string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "編號 %s %s\n%s：%s", p.SKU, p.Name, s.Label, qtyText(s.Box, s.Piece))
	if unitCost != "" {
		fmt.Fprintf(&sb, "\n單價：%s", unitCost)
	}
	fmt.Fprintf(&sb, "\n金額：%s", s.Amount.StringFixed(2))
	return sb.String()
}

func insufficientText(label, unit string, want, have int) string {
	return fmt.Sprintf("%s%s數不足：需求 %d %s，僅剩 %d %s。", label, unit, want, unit, have, unit)
}

func outboundDoneText(p *product.Product, before, after stock.Snapshot, box, piece int) string {
	return fmt.Sprintf("出庫完成 ✅\n編號 %s %s\n%s 出%s\n出庫前:%s\n出庫後:%s",
		p.SKU, p.Name, after.Label, qtyText(box, piece),
		qtyText(before.Box, before.Piece), qtyText(after.Box, after.Piece))
}
