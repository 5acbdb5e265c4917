package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItemStatus string

const (
	ItemStatusDraft    ItemStatus = "DRAFT"
	ItemStatusListed   ItemStatus = "LISTED"
	ItemStatusSold     ItemStatus = "SOLD"
	ItemStatusArchived ItemStatus = "ARCHIVED"
)

// Item is an inventory item in the resale catalog. Photos live in external
// object storage; only the object key is recorded here.
type Item struct {
	ID          int             `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	CostOfGoods decimal.Decimal `json:"cost_of_goods"`
	ListPrice   decimal.Decimal `json:"list_price"`
	Platform    string          `json:"platform"`
	Status      ItemStatus      `json:"status"`
	PhotoKey    *string         `json:"photo_key,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Lot is a persisted LotWrapper plus its derived cost. Cost is computed on
// read from the member items (cost_of_goods × quantity) — a lot never
// carries a price of its own.
type Lot struct {
	ID        int             `json:"id"`
	Wrapper   LotWrapper      `json:"lot"`
	Cost      decimal.Decimal `json:"cost"`
	CreatedAt time.Time       `json:"created_at"`
}

// Sale records a completed sale of one item together with the full profit
// decomposition at the moment of sale. Tax collected directly must be
// self-remitted; tax collected by the marketplace is tracked only for
// reconciliation.
type Sale struct {
	ID                        int             `json:"id"`
	ItemSKU                   string          `json:"item_sku"`
	Platform                  string          `json:"platform"`
	SaleDate                  string          `json:"sale_date"` // YYYY-MM-DD
	PlatformFeeRate           decimal.Decimal `json:"platform_fee_rate"`
	PromotionRate             decimal.Decimal `json:"promotion_rate"`
	Breakdown                 ProfitBreakdown `json:"breakdown"`
	TaxCollectedDirect        decimal.Decimal `json:"tax_collected_direct"`
	TaxCollectedByMarketplace decimal.Decimal `json:"tax_collected_by_marketplace"`
	CreatedAt                 time.Time       `json:"created_at"`
}

// Expense is a recorded business expense. When split across buckets, the
// persisted allocation rows sum exactly to Amount, to the cent.
type Expense struct {
	ID          int                 `json:"id"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	ExpenseDate string              `json:"expense_date"` // YYYY-MM-DD
	Amount      decimal.Decimal     `json:"amount"`
	Allocations []ExpenseAllocation `json:"allocations"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ExpenseAllocation is one bucket's share of a split expense.
type ExpenseAllocation struct {
	ID        int             `json:"id"`
	ExpenseID int             `json:"expense_id"`
	Bucket    string          `json:"bucket"`
	Weight    decimal.Decimal `json:"weight"`
	Amount    decimal.Decimal `json:"amount"`
}

// ListingSuggestion is the AI-generated pricing/SEO proposal for an item.
// Suggestions are advisory only: nothing is written to the catalog until
// the operator applies them explicitly.
type ListingSuggestion struct {
	SuggestedPrice string   `json:"suggested_price" jsonschema_description:"The recommended list price as an exact decimal string (e.g. '24.99')"`
	Title          string   `json:"title" jsonschema_description:"A search-optimized listing title, at most 80 characters"`
	Description    string   `json:"description" jsonschema_description:"A buyer-facing listing description"`
	Keywords       []string `json:"keywords" jsonschema_description:"Search keywords for the listing, most relevant first"`
	Confidence     float64  `json:"confidence" jsonschema_description:"Confidence score between 0.0 and 1.0"`
	Reasoning      string   `json:"reasoning" jsonschema_description:"Explanation of how the price was derived from the item facts and comparable sales"`
}
