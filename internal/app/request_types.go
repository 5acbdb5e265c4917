package app

import (
	"github.com/shopspring/decimal"
)

// ItemRequest is the input for creating or updating a catalog item.
type ItemRequest struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	CostOfGoods decimal.Decimal `json:"cost_of_goods"`
	ListPrice   decimal.Decimal `json:"list_price"`
	Platform    string          `json:"platform"`
	PhotoKey    string          `json:"photo_key,omitempty"`
}

// CreateLotRequest is the input for bundling items into a lot.
type CreateLotRequest struct {
	Notes string         `json:"notes"`
	Items []LotItemInput `json:"items"`
}

// LotItemInput is a single member within a CreateLotRequest.
type LotItemInput struct {
	SKU      string          `json:"sku"`
	Quantity decimal.Decimal `json:"quantity"`
}

// RecordSaleRequest is the input for recording a sale.
type RecordSaleRequest struct {
	ItemSKU                   string          `json:"item_sku"`
	Platform                  string          `json:"platform"` // empty means "use the item's"
	SaleDate                  string          `json:"sale_date"`
	SalePrice                 decimal.Decimal `json:"sale_price"`
	PlatformFeeRate           decimal.Decimal `json:"platform_fee_rate"`
	PromotionRate             decimal.Decimal `json:"promotion_rate"`
	ShippingCost              decimal.Decimal `json:"shipping_cost"`
	TaxCollectedDirect        decimal.Decimal `json:"tax_collected_direct"`
	TaxCollectedByMarketplace decimal.Decimal `json:"tax_collected_marketplace"`
}

// ProfitPreviewRequest is the input for a what-if profit calculation.
type ProfitPreviewRequest struct {
	SalePrice       decimal.Decimal `json:"sale_price"`
	PlatformFeeRate decimal.Decimal `json:"platform_fee_rate"`
	PromotionRate   decimal.Decimal `json:"promotion_rate"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	CostOfGoods     decimal.Decimal `json:"cost_of_goods"`
}

// RecordExpenseRequest is the input for recording an expense.
type RecordExpenseRequest struct {
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Amount      decimal.Decimal   `json:"amount"`
	ExpenseDate string            `json:"expense_date"`
	Allocations []AllocationInput `json:"allocations,omitempty"`
}

// AllocationInput names a bucket and its share weight.
type AllocationInput struct {
	Bucket string          `json:"bucket"`
	Weight decimal.Decimal `json:"weight"`
}
