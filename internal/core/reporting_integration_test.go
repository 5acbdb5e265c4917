package core_test

import (
	"context"
	"testing"

	"resale-office/internal/core"

	"github.com/shopspring/decimal"
)

func seedMarchActivity(t *testing.T, sales core.SalesService, expenses core.ExpenseService) {
	t.Helper()
	ctx := context.Background()

	// CAM-01: 80.00 sale, cost 25.00, no fees → profit 55.00
	if _, err := sales.RecordSale(ctx, core.SaleRecordInput{
		ItemSKU:                   "CAM-01",
		SaleDate:                  "2026-03-10",
		SalePrice:                 decimal.RequireFromString("80.00"),
		TaxCollectedDirect:        decimal.RequireFromString("6.40"),
		TaxCollectedByMarketplace: decimal.Zero,
	}); err != nil {
		t.Fatalf("RecordSale CAM-01 failed: %v", err)
	}

	// COAT-01: 45.00 sale, cost 12.00, 10% fee (4.50) → profit 28.50
	if _, err := sales.RecordSale(ctx, core.SaleRecordInput{
		ItemSKU:                   "COAT-01",
		SaleDate:                  "2026-03-20",
		SalePrice:                 decimal.RequireFromString("45.00"),
		PlatformFeeRate:           decimal.RequireFromString("0.1"),
		TaxCollectedByMarketplace: decimal.RequireFromString("3.60"),
	}); err != nil {
		t.Fatalf("RecordSale COAT-01 failed: %v", err)
	}

	if _, err := expenses.RecordExpense(ctx, core.ExpenseRecordInput{
		Description: "Shipping supplies",
		Category:    "supplies",
		Amount:      decimal.RequireFromString("13.50"),
		ExpenseDate: "2026-03-15",
	}); err != nil {
		t.Fatalf("RecordExpense failed: %v", err)
	}
}

func TestReportingService_MonthlySummary(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	sales := core.NewSalesService(pool)
	expenses := core.NewExpenseService(pool)
	reports := core.NewReportingService(pool)
	ctx := context.Background()

	seedMarchActivity(t, sales, expenses)

	summary, err := reports.MonthlySummary(ctx, 2026, 3)
	if err != nil {
		t.Fatalf("MonthlySummary failed: %v", err)
	}
	if summary.SalesCount != 2 {
		t.Errorf("Expected 2 sales, got %d", summary.SalesCount)
	}
	if summary.GrossRevenue.StringFixed(2) != "125.00" {
		t.Errorf("Expected gross 125.00, got %s", summary.GrossRevenue)
	}
	if summary.PlatformFees.StringFixed(2) != "4.50" {
		t.Errorf("Expected fees 4.50, got %s", summary.PlatformFees)
	}
	if summary.Profit.StringFixed(2) != "83.50" {
		t.Errorf("Expected profit 83.50, got %s", summary.Profit)
	}
	if summary.Expenses.StringFixed(2) != "13.50" {
		t.Errorf("Expected expenses 13.50, got %s", summary.Expenses)
	}
	if summary.TaxableIncome.StringFixed(2) != "70.00" {
		t.Errorf("Expected taxable income 70.00, got %s", summary.TaxableIncome)
	}

	// A quiet month reports zeros, not errors
	empty, err := reports.MonthlySummary(ctx, 2026, 7)
	if err != nil {
		t.Fatalf("MonthlySummary for empty month failed: %v", err)
	}
	if empty.SalesCount != 0 || !empty.Profit.IsZero() {
		t.Errorf("Expected empty month, got %+v", empty)
	}

	if _, err := reports.MonthlySummary(ctx, 2026, 13); err == nil {
		t.Error("Expected error for month 13")
	}
}

func TestReportingService_FederalEstimate(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	sales := core.NewSalesService(pool)
	expenses := core.NewExpenseService(pool)
	reports := core.NewReportingService(pool)
	ctx := context.Background()

	seedMarchActivity(t, sales, expenses)

	t.Setenv("FEDERAL_TAX_RATE", "0.25")
	estimate, err := reports.FederalEstimate(ctx, 2026)
	if err != nil {
		t.Fatalf("FederalEstimate failed: %v", err)
	}
	if estimate.TaxableIncome.StringFixed(2) != "70.00" {
		t.Errorf("Expected taxable income 70.00, got %s", estimate.TaxableIncome)
	}
	if estimate.EstimatedTax.StringFixed(2) != "17.50" {
		t.Errorf("Expected estimated tax 17.50, got %s", estimate.EstimatedTax)
	}

	t.Setenv("FEDERAL_TAX_RATE", "not-a-number")
	if _, err := reports.FederalEstimate(ctx, 2026); err == nil {
		t.Error("Expected error for malformed FEDERAL_TAX_RATE")
	}
}

func TestReportingService_SalesTaxReport(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	sales := core.NewSalesService(pool)
	expenses := core.NewExpenseService(pool)
	reports := core.NewReportingService(pool)
	ctx := context.Background()

	seedMarchActivity(t, sales, expenses)

	report, err := reports.SalesTaxReport(ctx, "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("SalesTaxReport failed: %v", err)
	}
	if report.CollectedDirect.StringFixed(2) != "6.40" {
		t.Errorf("Expected direct 6.40, got %s", report.CollectedDirect)
	}
	if report.CollectedMarketplace.StringFixed(2) != "3.60" {
		t.Errorf("Expected marketplace 3.60, got %s", report.CollectedMarketplace)
	}
	if report.Liability.StringFixed(2) != "2.80" {
		t.Errorf("Expected liability 2.80, got %s", report.Liability)
	}

	// Marketplace remitting more than collected directly surfaces a credit.
	if _, err := sales.RecordSale(context.Background(), core.SaleRecordInput{
		ItemSKU:                   "LAMP-01",
		SaleDate:                  "2026-03-25",
		SalePrice:                 decimal.RequireFromString("15.00"),
		TaxCollectedByMarketplace: decimal.RequireFromString("20.00"),
	}); err != nil {
		t.Fatalf("RecordSale LAMP-01 failed: %v", err)
	}

	report, err = reports.SalesTaxReport(ctx, "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("SalesTaxReport after credit failed: %v", err)
	}
	if report.Liability.StringFixed(2) != "-17.20" {
		t.Errorf("Expected liability -17.20 (credit), got %s", report.Liability)
	}
}
