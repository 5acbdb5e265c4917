package marketplace

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Order is a sale reported by the marketplace, normalized into the figures
// the sales ledger cares about.
type Order struct {
	OrderID         string          `json:"order_id"`
	ItemSKU         string          `json:"item_sku"`
	SaleDate        string          `json:"sale_date"`
	SalePrice       decimal.Decimal `json:"sale_price"`
	PlatformFeeRate decimal.Decimal `json:"platform_fee_rate"`
	PromotionRate   decimal.Decimal `json:"promotion_rate"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	TaxCollected    decimal.Decimal `json:"tax_collected"` // remitted by the marketplace
}

// Listing is the marketplace's view of a published listing.
type Listing struct {
	ListingID string `json:"listing_id"`
	URL       string `json:"url"`
	Status    string `json:"status"`
}

// ListingDraft is what we send when publishing.
type ListingDraft struct {
	SKU         string `json:"sku"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	PhotoKey    string `json:"photo_key,omitempty"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// APIError is the marketplace's error envelope.
type APIError struct {
	StatusCode int
	Detail     struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("marketplace API error (status %d, code %s): %s",
		e.StatusCode, e.Detail.Code, e.Detail.Message)
}

// IsAuthError reports whether the error indicates an expired or rejected
// token, in which case a refresh and retry may succeed.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == 401 || e.Detail.Code == "invalid_token" || e.Detail.Code == "token_expired"
}
