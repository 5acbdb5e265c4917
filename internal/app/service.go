package app

import (
	"context"
	"io"

	"resale-office/internal/core"
)

// ApplicationService is the single interface all adapters call. It decouples
// presentation from business logic. Implementations must contain no
// fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// CreateItem adds a new DRAFT item to the catalog.
	CreateItem(ctx context.Context, req ItemRequest) (*ItemResult, error)

	// GetItem returns a single item by SKU.
	GetItem(ctx context.Context, sku string) (*ItemResult, error)

	// ListItems returns the catalog, optionally filtered by status.
	ListItems(ctx context.Context, status string) (*ItemListResult, error)

	// UpdateItem replaces the editable fields of an item.
	UpdateItem(ctx context.Context, sku string, req ItemRequest) (*ItemResult, error)

	// SetItemStatus transitions an item between DRAFT, LISTED, SOLD, ARCHIVED.
	SetItemStatus(ctx context.Context, sku, status string) (*ItemResult, error)

	// ExportItemsCSV streams the catalog as CSV.
	ExportItemsCSV(ctx context.Context, w io.Writer) error

	// ImportItemsCSV creates items from CSV rows, reporting per-row errors.
	ImportItemsCSV(ctx context.Context, r io.Reader) (*core.CSVImportResult, error)

	// CreateLot bundles items into a sellable lot. Non-positive quantities
	// are dropped, fractional ones floored.
	CreateLot(ctx context.Context, req CreateLotRequest) (*LotResult, error)

	// GetLot returns a lot by its public code, with derived cost.
	GetLot(ctx context.Context, lotCode string) (*LotResult, error)

	// ListLots returns all lots, newest first.
	ListLots(ctx context.Context) (*LotListResult, error)

	// RecordSale records a sale with its full profit breakdown and marks the
	// item SOLD.
	RecordSale(ctx context.Context, req RecordSaleRequest) (*SaleResult, error)

	// GetSale returns a recorded sale by ID.
	GetSale(ctx context.Context, saleID int) (*SaleResult, error)

	// ListSales returns sales within an optional date range.
	ListSales(ctx context.Context, fromDate, toDate string) (*SaleListResult, error)

	// PreviewProfit computes a profit breakdown without persisting anything.
	PreviewProfit(ctx context.Context, req ProfitPreviewRequest) (*core.ProfitBreakdown, error)

	// RecordExpense records an expense with exact-sum bucket allocations.
	RecordExpense(ctx context.Context, req RecordExpenseRequest) (*ExpenseResult, error)

	// ListExpenses returns expenses within an optional date range.
	ListExpenses(ctx context.Context, fromDate, toDate string) (*ExpenseListResult, error)

	// GetMonthlySummary aggregates a calendar month of sales and expenses.
	GetMonthlySummary(ctx context.Context, year, month int) (*core.MonthlySummary, error)

	// GetFederalEstimate returns a year-to-date set-aside estimate.
	GetFederalEstimate(ctx context.Context, year int) (*core.FederalEstimate, error)

	// GetSalesTaxReport compares tax collected directly against tax remitted
	// by marketplaces.
	GetSalesTaxReport(ctx context.Context, fromDate, toDate string) (*core.SalesTaxReport, error)

	// SuggestListing asks the AI agent for a listing draft and price for an
	// existing item.
	SuggestListing(ctx context.Context, sku, comparables string) (*SuggestionResult, error)

	// PublishListing pushes an item to the marketplace as an active listing.
	PublishListing(ctx context.Context, sku string) (*PublishResult, error)

	// SyncMarketplaceOrders imports marketplace orders since the given date
	// as sales, skipping items already sold.
	SyncMarketplaceOrders(ctx context.Context, sinceDate string) (*SyncOrdersResult, error)

	// AuthenticateUser verifies credentials and returns a session on success.
	AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error)

	// GetUser returns user profile by ID.
	GetUser(ctx context.Context, userID int) (*UserResult, error)
}
