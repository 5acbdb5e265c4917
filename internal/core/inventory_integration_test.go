package core_test

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"resale-office/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Clean and seed test DB
	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE expense_allocations, expenses, sales, lot_items, lots, items, users CASCADE;

		INSERT INTO items (sku, name, description, category, cost_of_goods, list_price, platform, status) VALUES
		('CAM-01',  'Vintage Camera', 'Working 35mm SLR', 'electronics', 25.00, 80.00,  'ebay',     'LISTED'),
		('COAT-01', 'Wool Peacoat',   'Navy, size L',     'clothing',    12.00, 45.00,  'poshmark', 'LISTED'),
		('LAMP-01', 'Desk Lamp',      '',                 'home',        4.00,  15.00,  'facebook', 'DRAFT');
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func TestInventoryService_ItemLifecycle(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	inv := core.NewInventoryService(pool)
	ctx := context.Background()

	item, err := inv.CreateItem(ctx, core.ItemInput{
		SKU:         "BOOK-01",
		Name:        "First Edition Novel",
		Category:    "books",
		CostOfGoods: decimal.RequireFromString("3.50"),
		ListPrice:   decimal.RequireFromString("22.00"),
		Platform:    "ebay",
	})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if item.Status != core.ItemStatusDraft {
		t.Errorf("Expected new item to be DRAFT, got %s", item.Status)
	}

	// Duplicate SKU must be rejected
	if _, err := inv.CreateItem(ctx, core.ItemInput{
		SKU: "BOOK-01", Name: "Duplicate",
	}); err == nil {
		t.Error("Expected error creating duplicate SKU")
	}

	item, err = inv.SetItemStatus(ctx, "BOOK-01", core.ItemStatusListed)
	if err != nil {
		t.Fatalf("SetItemStatus failed: %v", err)
	}
	if item.Status != core.ItemStatusListed {
		t.Errorf("Expected LISTED, got %s", item.Status)
	}

	if _, err := inv.SetItemStatus(ctx, "BOOK-01", core.ItemStatus("BROKEN")); err == nil {
		t.Error("Expected error for unknown status")
	}

	item, err = inv.UpdateItem(ctx, "BOOK-01", core.ItemInput{
		Name:        "First Edition Novel (signed)",
		Category:    "books",
		CostOfGoods: decimal.RequireFromString("3.50"),
		ListPrice:   decimal.RequireFromString("40.00"),
		Platform:    "ebay",
	})
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if item.ListPrice.StringFixed(2) != "40.00" {
		t.Errorf("Expected list price 40.00, got %s", item.ListPrice)
	}
	if item.Status != core.ItemStatusListed {
		t.Errorf("UpdateItem must not change status, got %s", item.Status)
	}

	status := core.ItemStatusListed
	listed, err := inv.ListItems(ctx, &status)
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(listed) != 3 { // CAM-01, COAT-01, BOOK-01
		t.Errorf("Expected 3 LISTED items, got %d", len(listed))
	}
}

func TestInventoryService_Lots(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	inv := core.NewInventoryService(pool)
	ctx := context.Background()

	lot, err := inv.CreateLot(ctx, "camera bundle", []core.LotItem{
		{ItemID: "CAM-01", Quantity: decimal.NewFromInt(1)},
		{ItemID: "LAMP-01", Quantity: decimal.RequireFromString("2.9")}, // floors to 2
		{ItemID: "COAT-01", Quantity: decimal.Zero},                    // dropped
	})
	if err != nil {
		t.Fatalf("CreateLot failed: %v", err)
	}
	if len(lot.Wrapper.Items) != 2 {
		t.Fatalf("Expected 2 lot members, got %d", len(lot.Wrapper.Items))
	}
	// 1 × 25.00 + 2 × 4.00
	if lot.Cost.StringFixed(2) != "33.00" {
		t.Errorf("Expected lot cost 33.00, got %s", lot.Cost)
	}

	fetched, err := inv.GetLot(ctx, lot.Wrapper.LotID)
	if err != nil {
		t.Fatalf("GetLot failed: %v", err)
	}
	if fetched.Cost.StringFixed(2) != "33.00" {
		t.Errorf("Expected fetched lot cost 33.00, got %s", fetched.Cost)
	}
	if len(fetched.Wrapper.Items) != 2 {
		t.Errorf("Expected 2 fetched members, got %d", len(fetched.Wrapper.Items))
	}
	if fetched.Wrapper.Items[0].ItemID != "CAM-01" {
		t.Errorf("Expected first member CAM-01, got %s", fetched.Wrapper.Items[0].ItemID)
	}

	// Unknown member SKU must roll back the whole lot
	if _, err := inv.CreateLot(ctx, "", []core.LotItem{
		{ItemID: "NOPE-01", Quantity: decimal.NewFromInt(1)},
	}); err == nil {
		t.Error("Expected error for unknown lot member")
	}

	// All-zero quantities leave nothing to persist
	if _, err := inv.CreateLot(ctx, "", []core.LotItem{
		{ItemID: "CAM-01", Quantity: decimal.Zero},
	}); err == nil {
		t.Error("Expected error for empty lot")
	}

	lots, err := inv.ListLots(ctx)
	if err != nil {
		t.Fatalf("ListLots failed: %v", err)
	}
	if len(lots) != 1 {
		t.Errorf("Expected 1 lot, got %d", len(lots))
	}
}

func TestInventoryService_CSVRoundTrip(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	inv := core.NewInventoryService(pool)
	ctx := context.Background()

	var buf bytes.Buffer
	if err := inv.ExportItemsCSV(ctx, &buf); err != nil {
		t.Fatalf("ExportItemsCSV failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 { // header + 3 seeded items
		t.Fatalf("Expected 4 CSV lines, got %d:\n%s", len(lines), buf.String())
	}

	csvInput := strings.Join([]string{
		"sku,name,description,category,cost_of_goods,list_price,platform",
		"NEW-01,Record Player,Tested,electronics,18.00,65.00,ebay",
		"CAM-01,Duplicate Camera,,electronics,1.00,2.00,ebay", // SKU conflict
		"NEW-02,Bad Price,,misc,abc,2.00,ebay",                // invalid cost
	}, "\n")

	result, err := inv.ImportItemsCSV(ctx, strings.NewReader(csvInput))
	if err != nil {
		t.Fatalf("ImportItemsCSV failed: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("Expected 1 imported row, got %d", result.Imported)
	}
	if len(result.RowErrors) != 2 {
		t.Errorf("Expected 2 row errors, got %d: %v", len(result.RowErrors), result.RowErrors)
	}

	item, err := inv.GetItem(ctx, "NEW-01")
	if err != nil {
		t.Fatalf("GetItem after import failed: %v", err)
	}
	if item.CostOfGoods.StringFixed(2) != "18.00" {
		t.Errorf("Expected imported cost 18.00, got %s", item.CostOfGoods)
	}
}
