package core_test

import (
	"context"
	"testing"

	"resale-office/internal/core"

	"github.com/shopspring/decimal"
)

func TestSalesService_RecordSale(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	sales := core.NewSalesService(pool)
	inv := core.NewInventoryService(pool)
	ctx := context.Background()

	// CAM-01 has cost 25.00. Sale: 80.00, 12% promo, 13% fee, 6.50 shipping.
	sale, err := sales.RecordSale(ctx, core.SaleRecordInput{
		ItemSKU:            "CAM-01",
		SaleDate:           "2026-03-10",
		SalePrice:          decimal.RequireFromString("80.00"),
		PlatformFeeRate:    decimal.RequireFromString("0.13"),
		PromotionRate:      decimal.RequireFromString("0.12"),
		ShippingCost:       decimal.RequireFromString("6.50"),
		TaxCollectedDirect: decimal.RequireFromString("5.00"),
	})
	if err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}

	// 80.00 → discount 9.60 → 70.40 → fees 9.15 → net 61.25 → profit 29.75
	if sale.Breakdown.PromotionDiscount.StringFixed(2) != "9.60" {
		t.Errorf("Expected discount 9.60, got %s", sale.Breakdown.PromotionDiscount)
	}
	if sale.Breakdown.PlatformFees.StringFixed(2) != "9.15" {
		t.Errorf("Expected fees 9.15, got %s", sale.Breakdown.PlatformFees)
	}
	if sale.Breakdown.NetRevenue.StringFixed(2) != "61.25" {
		t.Errorf("Expected net revenue 61.25, got %s", sale.Breakdown.NetRevenue)
	}
	if sale.Breakdown.Profit.StringFixed(2) != "29.75" {
		t.Errorf("Expected profit 29.75, got %s", sale.Breakdown.Profit)
	}
	if sale.Platform != "ebay" {
		t.Errorf("Expected platform to default to the item's, got %q", sale.Platform)
	}

	// The item is now SOLD
	item, err := inv.GetItem(ctx, "CAM-01")
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if item.Status != core.ItemStatusSold {
		t.Errorf("Expected item SOLD after sale, got %s", item.Status)
	}

	// Selling the same item twice must fail
	if _, err := sales.RecordSale(ctx, core.SaleRecordInput{
		ItemSKU:   "CAM-01",
		SalePrice: decimal.RequireFromString("10.00"),
	}); err == nil {
		t.Error("Expected error selling an already-sold item")
	}

	fetched, err := sales.GetSale(ctx, sale.ID)
	if err != nil {
		t.Fatalf("GetSale failed: %v", err)
	}
	if !fetched.Breakdown.Profit.Equal(sale.Breakdown.Profit) {
		t.Errorf("Fetched profit %s differs from recorded %s", fetched.Breakdown.Profit, sale.Breakdown.Profit)
	}
	if fetched.SaleDate != "2026-03-10" {
		t.Errorf("Expected sale date 2026-03-10, got %s", fetched.SaleDate)
	}
}

func TestSalesService_RecordSale_Validation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	sales := core.NewSalesService(pool)
	ctx := context.Background()

	if _, err := sales.RecordSale(ctx, core.SaleRecordInput{
		SalePrice: decimal.RequireFromString("10.00"),
	}); err == nil {
		t.Error("Expected error for missing SKU")
	}

	if _, err := sales.RecordSale(ctx, core.SaleRecordInput{
		ItemSKU:   "NOPE-01",
		SalePrice: decimal.RequireFromString("10.00"),
	}); err == nil {
		t.Error("Expected error for unknown item")
	}

	if _, err := sales.RecordSale(ctx, core.SaleRecordInput{
		ItemSKU:   "CAM-01",
		SalePrice: decimal.RequireFromString("-1.00"),
	}); err == nil {
		t.Error("Expected error for negative sale price")
	}

	if _, err := sales.RecordSale(ctx, core.SaleRecordInput{
		ItemSKU:   "CAM-01",
		SaleDate:  "10/03/2026",
		SalePrice: decimal.RequireFromString("10.00"),
	}); err == nil {
		t.Error("Expected error for malformed sale date")
	}
}

func TestSalesService_ListSales_DateRange(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	sales := core.NewSalesService(pool)
	ctx := context.Background()

	for _, s := range []struct {
		sku  string
		date string
	}{
		{"CAM-01", "2026-01-15"},
		{"COAT-01", "2026-02-20"},
		{"LAMP-01", "2026-03-05"},
	} {
		if _, err := sales.RecordSale(ctx, core.SaleRecordInput{
			ItemSKU:   s.sku,
			SaleDate:  s.date,
			SalePrice: decimal.RequireFromString("10.00"),
		}); err != nil {
			t.Fatalf("RecordSale %s failed: %v", s.sku, err)
		}
	}

	all, err := sales.ListSales(ctx, "", "")
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 sales, got %d", len(all))
	}

	feb, err := sales.ListSales(ctx, "2026-02-01", "2026-02-28")
	if err != nil {
		t.Fatalf("ListSales range failed: %v", err)
	}
	if len(feb) != 1 || feb[0].ItemSKU != "COAT-01" {
		t.Errorf("Expected only the February sale, got %+v", feb)
	}

	since, err := sales.ListSales(ctx, "2026-02-01", "")
	if err != nil {
		t.Fatalf("ListSales open-ended failed: %v", err)
	}
	if len(since) != 2 {
		t.Errorf("Expected 2 sales since February, got %d", len(since))
	}
}
