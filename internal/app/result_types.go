package app

import "resale-office/internal/core"

// ItemResult is returned by single-item operations.
type ItemResult struct {
	Item *core.Item
}

// ItemListResult is returned by ListItems.
type ItemListResult struct {
	Items []core.Item
}

// LotResult is returned by lot operations.
type LotResult struct {
	Lot *core.Lot
}

// LotListResult is returned by ListLots.
type LotListResult struct {
	Lots []core.Lot
}

// SaleResult is returned by sale operations.
type SaleResult struct {
	Sale *core.Sale
}

// SaleListResult is returned by ListSales.
type SaleListResult struct {
	Sales []core.Sale
}

// ExpenseResult is returned by RecordExpense.
type ExpenseResult struct {
	Expense *core.Expense
}

// ExpenseListResult is returned by ListExpenses.
type ExpenseListResult struct {
	Expenses []core.Expense
}

// SuggestionResult is returned by SuggestListing.
type SuggestionResult struct {
	SKU        string
	Suggestion *core.ListingSuggestion
}

// PublishResult is returned by PublishListing.
type PublishResult struct {
	SKU       string
	ListingID string
	URL       string
}

// SyncOrdersResult is returned by SyncMarketplaceOrders.
type SyncOrdersResult struct {
	Imported int
	Skipped  []string // order IDs that could not be imported, with reasons
}

// UserSession is returned by AuthenticateUser.
type UserSession struct {
	UserID   int
	Username string
	Role     string
}

// UserResult is returned by GetUser.
type UserResult struct {
	UserID   int
	Username string
	Email    string
	Role     string
}
