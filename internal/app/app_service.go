package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"resale-office/internal/ai"
	"resale-office/internal/core"
	"resale-office/internal/marketplace"

	"golang.org/x/crypto/bcrypt"
)

type appService struct {
	inventory core.InventoryService
	sales     core.SalesService
	expenses  core.ExpenseService
	reports   core.ReportingService
	users     core.UserService
	agent     ai.AgentService
	market    marketplace.Client
}

// NewAppService constructs an appService that satisfies ApplicationService.
// agent and market may be nil when the corresponding integration is not
// configured; their operations then return an error.
func NewAppService(
	inventory core.InventoryService,
	sales core.SalesService,
	expenses core.ExpenseService,
	reports core.ReportingService,
	users core.UserService,
	agent ai.AgentService,
	market marketplace.Client,
) ApplicationService {
	return &appService{
		inventory: inventory,
		sales:     sales,
		expenses:  expenses,
		reports:   reports,
		users:     users,
		agent:     agent,
		market:    market,
	}
}

// ── Inventory ─────────────────────────────────────────────────────────────────

func (s *appService) CreateItem(ctx context.Context, req ItemRequest) (*ItemResult, error) {
	item, err := s.inventory.CreateItem(ctx, itemInput(req))
	if err != nil {
		return nil, err
	}
	return &ItemResult{Item: item}, nil
}

func (s *appService) GetItem(ctx context.Context, sku string) (*ItemResult, error) {
	item, err := s.inventory.GetItem(ctx, sku)
	if err != nil {
		return nil, err
	}
	return &ItemResult{Item: item}, nil
}

func (s *appService) ListItems(ctx context.Context, status string) (*ItemListResult, error) {
	var filter *core.ItemStatus
	if status != "" {
		st := core.ItemStatus(status)
		filter = &st
	}
	items, err := s.inventory.ListItems(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ItemListResult{Items: items}, nil
}

func (s *appService) UpdateItem(ctx context.Context, sku string, req ItemRequest) (*ItemResult, error) {
	item, err := s.inventory.UpdateItem(ctx, sku, itemInput(req))
	if err != nil {
		return nil, err
	}
	return &ItemResult{Item: item}, nil
}

func (s *appService) SetItemStatus(ctx context.Context, sku, status string) (*ItemResult, error) {
	item, err := s.inventory.SetItemStatus(ctx, sku, core.ItemStatus(status))
	if err != nil {
		return nil, err
	}
	return &ItemResult{Item: item}, nil
}

func (s *appService) ExportItemsCSV(ctx context.Context, w io.Writer) error {
	return s.inventory.ExportItemsCSV(ctx, w)
}

func (s *appService) ImportItemsCSV(ctx context.Context, r io.Reader) (*core.CSVImportResult, error) {
	return s.inventory.ImportItemsCSV(ctx, r)
}

func (s *appService) CreateLot(ctx context.Context, req CreateLotRequest) (*LotResult, error) {
	members := make([]core.LotItem, len(req.Items))
	for i, m := range req.Items {
		members[i] = core.LotItem{ItemID: m.SKU, Quantity: m.Quantity}
	}
	lot, err := s.inventory.CreateLot(ctx, req.Notes, members)
	if err != nil {
		return nil, err
	}
	return &LotResult{Lot: lot}, nil
}

func (s *appService) GetLot(ctx context.Context, lotCode string) (*LotResult, error) {
	lot, err := s.inventory.GetLot(ctx, lotCode)
	if err != nil {
		return nil, err
	}
	return &LotResult{Lot: lot}, nil
}

func (s *appService) ListLots(ctx context.Context) (*LotListResult, error) {
	lots, err := s.inventory.ListLots(ctx)
	if err != nil {
		return nil, err
	}
	return &LotListResult{Lots: lots}, nil
}

func itemInput(req ItemRequest) core.ItemInput {
	return core.ItemInput{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		CostOfGoods: req.CostOfGoods,
		ListPrice:   req.ListPrice,
		Platform:    req.Platform,
		PhotoKey:    req.PhotoKey,
	}
}

// ── Sales ─────────────────────────────────────────────────────────────────────

func (s *appService) RecordSale(ctx context.Context, req RecordSaleRequest) (*SaleResult, error) {
	sale, err := s.sales.RecordSale(ctx, core.SaleRecordInput{
		ItemSKU:                   req.ItemSKU,
		Platform:                  req.Platform,
		SaleDate:                  req.SaleDate,
		SalePrice:                 req.SalePrice,
		PlatformFeeRate:           req.PlatformFeeRate,
		PromotionRate:             req.PromotionRate,
		ShippingCost:              req.ShippingCost,
		TaxCollectedDirect:        req.TaxCollectedDirect,
		TaxCollectedByMarketplace: req.TaxCollectedByMarketplace,
	})
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (s *appService) GetSale(ctx context.Context, saleID int) (*SaleResult, error) {
	sale, err := s.sales.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (s *appService) ListSales(ctx context.Context, fromDate, toDate string) (*SaleListResult, error) {
	sales, err := s.sales.ListSales(ctx, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	return &SaleListResult{Sales: sales}, nil
}

func (s *appService) PreviewProfit(ctx context.Context, req ProfitPreviewRequest) (*core.ProfitBreakdown, error) {
	if req.SalePrice.IsNegative() {
		return nil, fmt.Errorf("sale price cannot be negative, got %s", req.SalePrice)
	}
	breakdown := core.CalculateProfit(core.SaleInput{
		SalePrice:       req.SalePrice,
		PlatformFeeRate: req.PlatformFeeRate,
		PromotionRate:   req.PromotionRate,
		ShippingCost:    req.ShippingCost,
		CostOfGoods:     req.CostOfGoods,
	})
	return &breakdown, nil
}

// ── Expenses & reports ────────────────────────────────────────────────────────

func (s *appService) RecordExpense(ctx context.Context, req RecordExpenseRequest) (*ExpenseResult, error) {
	allocations := make([]core.AllocationInput, len(req.Allocations))
	for i, a := range req.Allocations {
		allocations[i] = core.AllocationInput{Bucket: a.Bucket, Weight: a.Weight}
	}
	expense, err := s.expenses.RecordExpense(ctx, core.ExpenseRecordInput{
		Description: req.Description,
		Category:    req.Category,
		Amount:      req.Amount,
		ExpenseDate: req.ExpenseDate,
		Allocations: allocations,
	})
	if err != nil {
		return nil, err
	}
	return &ExpenseResult{Expense: expense}, nil
}

func (s *appService) ListExpenses(ctx context.Context, fromDate, toDate string) (*ExpenseListResult, error) {
	expenses, err := s.expenses.ListExpenses(ctx, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	return &ExpenseListResult{Expenses: expenses}, nil
}

func (s *appService) GetMonthlySummary(ctx context.Context, year, month int) (*core.MonthlySummary, error) {
	return s.reports.MonthlySummary(ctx, year, month)
}

func (s *appService) GetFederalEstimate(ctx context.Context, year int) (*core.FederalEstimate, error) {
	return s.reports.FederalEstimate(ctx, year)
}

func (s *appService) GetSalesTaxReport(ctx context.Context, fromDate, toDate string) (*core.SalesTaxReport, error) {
	return s.reports.SalesTaxReport(ctx, fromDate, toDate)
}

// ── AI & marketplace ──────────────────────────────────────────────────────────

func (s *appService) SuggestListing(ctx context.Context, sku, comparables string) (*SuggestionResult, error) {
	if s.agent == nil {
		return nil, errors.New("AI assistant is not configured (set OPENAI_API_KEY)")
	}
	item, err := s.inventory.GetItem(ctx, sku)
	if err != nil {
		return nil, err
	}
	suggestion, err := s.agent.SuggestListing(ctx, item, comparables)
	if err != nil {
		return nil, err
	}
	return &SuggestionResult{SKU: sku, Suggestion: suggestion}, nil
}

func (s *appService) PublishListing(ctx context.Context, sku string) (*PublishResult, error) {
	if s.market == nil {
		return nil, errors.New("marketplace integration is not configured")
	}
	item, err := s.inventory.GetItem(ctx, sku)
	if err != nil {
		return nil, err
	}
	if item.Status == core.ItemStatusSold || item.Status == core.ItemStatusArchived {
		return nil, fmt.Errorf("item %q is %s and cannot be listed", sku, item.Status)
	}

	photoKey := ""
	if item.PhotoKey != nil {
		photoKey = *item.PhotoKey
	}
	listing, err := s.market.PublishListing(ctx, marketplace.ListingDraft{
		SKU:         item.SKU,
		Title:       item.Name,
		Description: item.Description,
		Price:       item.ListPrice.StringFixed(2),
		Category:    item.Category,
		PhotoKey:    photoKey,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.inventory.SetItemStatus(ctx, sku, core.ItemStatusListed); err != nil {
		return nil, fmt.Errorf("listing %s published but status update failed: %w", listing.ListingID, err)
	}
	return &PublishResult{SKU: sku, ListingID: listing.ListingID, URL: listing.URL}, nil
}

func (s *appService) SyncMarketplaceOrders(ctx context.Context, sinceDate string) (*SyncOrdersResult, error) {
	if s.market == nil {
		return nil, errors.New("marketplace integration is not configured")
	}

	since := time.Now().AddDate(0, 0, -30)
	if sinceDate != "" {
		parsed, err := time.Parse("2006-01-02", sinceDate)
		if err != nil {
			return nil, fmt.Errorf("invalid since date %q: %w", sinceDate, err)
		}
		since = parsed
	}

	orders, err := s.market.FetchOrders(ctx, since)
	if err != nil {
		return nil, err
	}

	result := &SyncOrdersResult{}
	for _, order := range orders {
		_, err := s.sales.RecordSale(ctx, core.SaleRecordInput{
			ItemSKU:                   order.ItemSKU,
			SaleDate:                  order.SaleDate,
			SalePrice:                 order.SalePrice,
			PlatformFeeRate:           order.PlatformFeeRate,
			PromotionRate:             order.PromotionRate,
			ShippingCost:              order.ShippingCost,
			TaxCollectedByMarketplace: order.TaxCollected,
		})
		if err != nil {
			// Already-sold items are expected on re-sync; report and move on.
			result.Skipped = append(result.Skipped,
				fmt.Sprintf("order %s: %v", order.OrderID, err))
			continue
		}
		result.Imported++
	}
	return result, nil
}

// ── Auth ──────────────────────────────────────────────────────────────────────

func (s *appService) AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, errors.New("invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New("invalid username or password")
	}
	return &UserSession{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

func (s *appService) GetUser(ctx context.Context, userID int) (*UserResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserResult{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}, nil
}
