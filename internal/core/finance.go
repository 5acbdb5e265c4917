package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// All financial arithmetic lives here as pure functions over decimal values.
// Every derived figure is rounded to the cent (2 places, half away from zero)
// before it feeds the next step, matching how a ledger records discrete
// postings. Nothing in this file touches the database or any shared state,
// so every function is safe to call concurrently.

// SaleInput holds the per-sale figures needed to decompose profit.
// Rates are fractions (0.12 = 12%). Values are taken as given — range
// validation belongs to the calling layer, not here.
type SaleInput struct {
	SalePrice       decimal.Decimal
	PlatformFeeRate decimal.Decimal
	PromotionRate   decimal.Decimal
	ShippingCost    decimal.Decimal
	CostOfGoods     decimal.Decimal
}

// ProfitBreakdown is the full decomposition of a sale into its postings.
// Profit may be negative — a sale below cost is a legitimate loss and is
// never clamped to zero.
type ProfitBreakdown struct {
	GrossRevenue      decimal.Decimal `json:"gross_revenue"`
	PromotionDiscount decimal.Decimal `json:"promotion_discount"`
	PlatformFees      decimal.Decimal `json:"platform_fees"`
	NetRevenue        decimal.Decimal `json:"net_revenue"`
	CostOfGoods       decimal.Decimal `json:"cost_of_goods"`
	ShippingCost      decimal.Decimal `json:"shipping_cost"`
	Profit            decimal.Decimal `json:"profit"`
}

// LotItem is one constituent of a lot: an opaque item reference plus a
// whole-unit quantity.
type LotItem struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// LotWrapper is a named bundle of item references. A lot carries no price of
// its own — pricing is always derived from the constituent items' costs.
type LotWrapper struct {
	LotID string    `json:"lot_id"`
	Items []LotItem `json:"items"`
	Notes string    `json:"notes,omitempty"`
}

// CalculateProfit decomposes a sale into discount, fees, net revenue, and
// profit. The promotion discount is applied before the platform fee, because
// marketplaces charge their percentage on the discounted price, not the list
// price — this ordering must not change.
func CalculateProfit(in SaleInput) ProfitBreakdown {
	gross := in.SalePrice.Round(2)
	discount := in.SalePrice.Mul(in.PromotionRate).Round(2)
	discounted := in.SalePrice.Sub(discount).Round(2)
	fees := discounted.Mul(in.PlatformFeeRate).Round(2)
	net := discounted.Sub(fees).Round(2)
	cogs := in.CostOfGoods.Round(2)
	shipping := in.ShippingCost.Round(2)
	profit := net.Sub(cogs).Sub(shipping).Round(2)

	return ProfitBreakdown{
		GrossRevenue:      gross,
		PromotionDiscount: discount,
		PlatformFees:      fees,
		NetRevenue:        net,
		CostOfGoods:       cogs,
		ShippingCost:      shipping,
		Profit:            profit,
	}
}

// FederalTaxEstimate returns taxableIncome × effectiveRate, rounded to the
// cent. The rate is clamped into [0, 1] rather than rejected — this is an
// estimate, not a filed return. Negative income passes straight through and
// yields a negative (credit-like) estimate.
func FederalTaxEstimate(taxableIncome, effectiveRate decimal.Decimal) decimal.Decimal {
	rate := effectiveRate
	if rate.Sign() < 0 {
		rate = decimal.Zero
	}
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		rate = decimal.NewFromInt(1)
	}
	return taxableIncome.Mul(rate).Round(2)
}

// SalesTaxLiability nets the tax the seller collected directly against the
// tax a marketplace collected and remitted on the seller's behalf. Each
// input is independently floored at zero (a negative "collected" figure is
// nonsense), but the result is allowed to go negative: an over-collection
// credit the caller must surface, not hide.
func SalesTaxLiability(taxCollectedDirectly, taxCollectedByMarketplace decimal.Decimal) decimal.Decimal {
	direct := taxCollectedDirectly
	if direct.Sign() < 0 {
		direct = decimal.Zero
	}
	marketplace := taxCollectedByMarketplace
	if marketplace.Sign() < 0 {
		marketplace = decimal.Zero
	}
	return direct.Sub(marketplace).Round(2)
}

// ApplyPromotion returns basePrice discounted by promotionRate, rounded to
// the cent. No clamping: a rate above 1 yields a negative price, which the
// validation layer upstream is responsible for preventing.
func ApplyPromotion(basePrice, promotionRate decimal.Decimal) decimal.Decimal {
	return basePrice.Mul(decimal.NewFromInt(1).Sub(promotionRate)).Round(2)
}

// SplitExpense divides amount proportionally across weighted buckets using
// the largest-remainder method, working in integer cents so the outputs sum
// exactly to the rounded amount — no drift, ever. Negative weights count as
// zero. If every weight is zero the result is all zeros (never a division
// by zero). The sign of amount is preserved on every bucket.
func SplitExpense(amount decimal.Decimal, weights []decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(weights))
	for i := range out {
		out[i] = decimal.Zero
	}
	if len(weights) == 0 {
		return out
	}

	clamped := make([]decimal.Decimal, len(weights))
	totalWeight := decimal.Zero
	for i, w := range weights {
		if w.Sign() < 0 {
			w = decimal.Zero
		}
		clamped[i] = w
		totalWeight = totalWeight.Add(w)
	}
	if totalWeight.IsZero() {
		return out
	}

	negative := amount.Sign() < 0
	totalCents := amount.Abs().Round(2).Shift(2).IntPart()

	// Exact shares via truncated division: QuoRem keeps the arithmetic in
	// decimals with a common denominator, so the remainders compare exactly.
	cents := make([]int64, len(clamped))
	remainders := make([]decimal.Decimal, len(clamped))
	var allocated int64
	for i, w := range clamped {
		q, r := decimal.NewFromInt(totalCents).Mul(w).QuoRem(totalWeight, 0)
		cents[i] = q.IntPart()
		remainders[i] = r
		allocated += cents[i]
	}

	// Hand the leftover cents to the buckets with the largest fractional
	// remainder. Stable sort: the first-listed bucket wins ties.
	order := make([]int, len(clamped))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]].GreaterThan(remainders[order[b]])
	})
	for k := int64(0); k < totalCents-allocated; k++ {
		cents[order[k]]++
	}

	for i, c := range cents {
		v := decimal.NewFromInt(c).Shift(-2)
		if negative {
			v = v.Neg()
		}
		out[i] = v
	}
	return out
}

// BuildLotWrapper constructs a lot from its constituent item references.
// Fractional quantities are floored and anything at or below zero is
// dropped; order is preserved and duplicate item references are legal
// (deduplication, if wanted, belongs to the calling layer). Applying the
// constructor to its own output is a no-op.
func BuildLotWrapper(lotID string, items []LotItem, notes string) LotWrapper {
	kept := make([]LotItem, 0, len(items))
	for _, it := range items {
		qty := it.Quantity.Floor()
		if qty.Sign() <= 0 {
			continue
		}
		kept = append(kept, LotItem{ItemID: it.ItemID, Quantity: qty})
	}
	return LotWrapper{LotID: lotID, Items: kept, Notes: notes}
}
