package bot

import (
	"fmt"

	"github.com/Spok95/stock-bot/internal/command"
	"github.com/Spok95/stock-bot/internal/domain/product"
	"github.com/Spok95/stock-bot/internal/domain/stock"
	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// buttons templates carry at most four actions
const maxChoiceActions = 4

// warehouseChoiceMessage offers one button per stocked warehouse.
// With a pending quantity the tap completes the outbound, otherwise it
// just reports that warehouse's snapshot.
func warehouseChoiceMessage(p *product.Product, snaps []stock.Snapshot, box, piece int) *linebot.TemplateMessage {
	title := fmt.Sprintf("編號 %s %s", p.SKU, p.Name)
	text := "多個倉別有庫存，請選擇倉別"
	if box > 0 || piece > 0 {
		text = fmt.Sprintf("出庫 %s，請選擇倉別", qtyText(box, piece))
	}

	var actions []linebot.TemplateAction
	for _, s := range snaps {
		if len(actions) == maxChoiceActions {
			break
		}
		data := command.EncodePickWarehouse(p.SKU, s.Warehouse)
		if box > 0 || piece > 0 {
			data = command.EncodeConfirmOutbound(p.SKU, s.Warehouse, box, piece)
		}
		actions = append(actions, &linebot.PostbackAction{
			Label:       fmt.Sprintf("%s %s", s.Label, qtyText(s.Box, s.Piece)),
			Data:        data,
			DisplayText: s.Label,
		})
	}

	alt := fmt.Sprintf("%s：請選擇倉別", title)
	return linebot.NewTemplateMessage(alt, linebot.NewButtonsTemplate("", title, text, actions...))
}
