package command_test

import (
	"testing"

	"github.com/Spok95/stock-bot/internal/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePostback(t *testing.T) {
	tests := []struct {
		name string
		data string
		ok   bool
		want command.Postback
	}{
		{
			name: "pick_warehouse",
			data: command.EncodePickWarehouse("a564", "main"),
			ok:   true,
			want: command.Postback{Kind: command.PostbackWarehouseConfirm, SKU: "a564", Warehouse: "main"},
		},
		{
			name: "confirm_outbound",
			data: command.EncodeConfirmOutbound("a564", "front", 2, 10),
			ok:   true,
			want: command.Postback{Kind: command.PostbackOutboundConfirm, SKU: "a564", Warehouse: "front", Box: 2, Piece: 10},
		},
		{
			name: "malformed_numbers_default_to_zero",
			data: "action=confirm_out&sku=a564&wh=main&box=abc&piece=-3",
			ok:   true,
			want: command.Postback{Kind: command.PostbackOutboundConfirm, SKU: "a564", Warehouse: "main"},
		},
		{
			name: "missing_numbers_default_to_zero",
			data: "action=confirm_out&sku=a564&wh=main",
			ok:   true,
			want: command.Postback{Kind: command.PostbackOutboundConfirm, SKU: "a564", Warehouse: "main"},
		},
		{name: "unknown_action", data: "action=nope&sku=a564", ok: false},
		{name: "garbage", data: "%zz", ok: false},
		{name: "empty", data: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb, ok := command.DecodePostback(tt.data)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, *pb)
			}
		})
	}
}
