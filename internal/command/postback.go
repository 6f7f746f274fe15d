package command

import (
	"net/url"
	"strconv"
)

type PostbackKind int

const (
	PostbackWarehouseConfirm PostbackKind = iota + 1
	PostbackOutboundConfirm
)

// Postback is a decoded interactive tap. The payload travels as a
// url-encoded key-value string inside the template action.
type Postback struct {
	Kind      PostbackKind
	SKU       string
	Warehouse string
	Box       int
	Piece     int
}

const (
	actionPickWarehouse = "pick_wh"
	actionConfirmOut    = "confirm_out"
)

// DecodePostback decodes a tap payload. Malformed or missing numeric
// fields default to zero; an unknown payload reports false. Never panics.
func DecodePostback(data string) (*Postback, bool) {
	v, err := url.ParseQuery(data)
	if err != nil {
		return nil, false
	}
	p := &Postback{
		SKU:       v.Get("sku"),
		Warehouse: v.Get("wh"),
		Box:       atoiOrZero(v.Get("box")),
		Piece:     atoiOrZero(v.Get("piece")),
	}
	switch v.Get("action") {
	case actionPickWarehouse:
		p.Kind = PostbackWarehouseConfirm
	case actionConfirmOut:
		p.Kind = PostbackOutboundConfirm
	default:
		return nil, false
	}
	return p, true
}

// EncodePickWarehouse builds the payload for a warehouse choice tap.
func EncodePickWarehouse(sku, warehouse string) string {
	return encode(actionPickWarehouse, sku, warehouse, 0, 0)
}

// EncodeConfirmOutbound builds the payload for completing a pending
// outbound once the user has picked the warehouse.
func EncodeConfirmOutbound(sku, warehouse string, box, piece int) string {
	return encode(actionConfirmOut, sku, warehouse, box, piece)
}

func encode(action, sku, warehouse string, box, piece int) string {
	v := url.Values{}
	v.Set("action", action)
	v.Set("sku", sku)
	v.Set("wh", warehouse)
	if box > 0 {
		v.Set("box", strconv.Itoa(box))
	}
	if piece > 0 {
		v.Set("piece", strconv.Itoa(piece))
	}
	return v.Encode()
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
