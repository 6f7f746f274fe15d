// Package report builds the downloadable stock workbook: every SKU a
// group currently holds, one row per warehouse, valued from the live
// lot ledger.
package report

import (
	"context"
	"fmt"

	"github.com/Spok95/stock-bot/internal/domain/product"
	"github.com/Spok95/stock-bot/internal/domain/stock"
	"github.com/Spok95/stock-bot/internal/ledger"
	"github.com/xuri/excelize/v2"
)

type ProductLookup interface {
	Lookup(ctx context.Context, sku string) (*product.Product, error)
}

type Builder struct {
	ledger   ledger.Ledger
	products ProductLookup
}

func NewBuilder(lg ledger.Ledger, products ProductLookup) *Builder {
	return &Builder{ledger: lg, products: products}
}

// StockWorkbook aggregates the group's open lots per SKU and
// warehouse. A non-empty day adds a second sheet with the legacy
// daily rollup for reconciliation. The caller owns closing the file.
func (b *Builder) StockWorkbook(ctx context.Context, group, day string) (*excelize.File, error) {
	lots, err := b.ledger.GroupLots(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("group lots: %w", err)
	}

	bySKU := map[string][]stock.Lot{}
	var order []string
	for _, lot := range lots {
		if _, seen := bySKU[lot.SKU]; !seen {
			order = append(order, lot.SKU)
		}
		bySKU[lot.SKU] = append(bySKU[lot.SKU], lot)
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{"sku", "name", "warehouse", "box", "piece", "unit_cost", "amount"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, sku := range order {
		unitsPerBox := 1
		name := sku
		if p, err := b.products.Lookup(ctx, sku); err == nil && p != nil {
			unitsPerBox = p.UnitsPerBox
			name = p.Name
		}
		unitCost := stock.DisplayUnitCost(bySKU[sku]).StringFixed(2)
		for _, snap := range stock.Aggregate(bySKU[sku], unitsPerBox) {
			excelRow := []interface{}{
				sku,
				name,
				snap.Label,
				snap.Box,
				snap.Piece,
				unitCost,
				snap.Amount.StringFixed(2),
			}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("write row: %w", err)
			}
			row++
		}
	}

	if day != "" {
		if err := b.addRollupSheet(ctx, f, group, day); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}

// addRollupSheet appends the precomputed business-day balances so the
// legacy rollup can be compared against the lot-derived numbers.
func (b *Builder) addRollupSheet(ctx context.Context, f *excelize.File, group, day string) error {
	rows, err := b.ledger.BusinessDayStock(ctx, group, day)
	if err != nil {
		return fmt.Errorf("business day stock: %w", err)
	}

	sheet := "rollup_" + day
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("rollup sheet: %w", err)
	}
	header := []interface{}{"sku", "warehouse", "box", "piece"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write rollup header: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		excelRow := []interface{}{r.SKU, r.Warehouse, r.Box, r.Piece}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return fmt.Errorf("write rollup row: %w", err)
		}
	}
	return nil
}
