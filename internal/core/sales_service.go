package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// SaleRecordInput holds the figures supplied when recording a sale. Cost of
// goods is not part of the input: it always comes from the item record.
type SaleRecordInput struct {
	ItemSKU                   string
	Platform                  string
	SaleDate                  string // YYYY-MM-DD, defaults to today
	SalePrice                 decimal.Decimal
	PlatformFeeRate           decimal.Decimal
	PromotionRate             decimal.Decimal
	ShippingCost              decimal.Decimal
	TaxCollectedDirect        decimal.Decimal
	TaxCollectedByMarketplace decimal.Decimal
}

// SalesService records sales and serves sale history. Recording a sale
// decomposes it into the full profit breakdown and marks the item SOLD,
// atomically.
type SalesService interface {
	RecordSale(ctx context.Context, input SaleRecordInput) (*Sale, error)
	GetSale(ctx context.Context, saleID int) (*Sale, error)

	// ListSales returns sales within the optional date range (empty string
	// means unbounded), ordered by sale date then id.
	ListSales(ctx context.Context, fromDate, toDate string) ([]Sale, error)
}

type salesService struct {
	pool *pgxpool.Pool
}

// NewSalesService constructs a SalesService backed by PostgreSQL.
func NewSalesService(pool *pgxpool.Pool) SalesService {
	return &salesService{pool: pool}
}

const saleColumns = `id, item_sku, platform, sale_date::text, platform_fee_rate, promotion_rate,
       gross_revenue, promotion_discount, platform_fees, net_revenue,
       cost_of_goods, shipping_cost, profit,
       tax_collected_direct, tax_collected_marketplace, created_at`

func scanSale(row pgx.Row) (*Sale, error) {
	sale := &Sale{}
	err := row.Scan(
		&sale.ID, &sale.ItemSKU, &sale.Platform, &sale.SaleDate,
		&sale.PlatformFeeRate, &sale.PromotionRate,
		&sale.Breakdown.GrossRevenue, &sale.Breakdown.PromotionDiscount,
		&sale.Breakdown.PlatformFees, &sale.Breakdown.NetRevenue,
		&sale.Breakdown.CostOfGoods, &sale.Breakdown.ShippingCost,
		&sale.Breakdown.Profit,
		&sale.TaxCollectedDirect, &sale.TaxCollectedByMarketplace,
		&sale.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *salesService) RecordSale(ctx context.Context, input SaleRecordInput) (*Sale, error) {
	if input.ItemSKU == "" {
		return nil, errors.New("sale must reference an item SKU")
	}
	if input.SalePrice.IsNegative() {
		return nil, fmt.Errorf("sale price cannot be negative, got %s", input.SalePrice)
	}

	saleDate := input.SaleDate
	if saleDate == "" {
		saleDate = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", saleDate); err != nil {
		return nil, fmt.Errorf("invalid sale date %q: %w", saleDate, err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		itemCost decimal.Decimal
		status   ItemStatus
		platform string
	)
	err = tx.QueryRow(ctx,
		"SELECT cost_of_goods, status, platform FROM items WHERE sku = $1 FOR UPDATE",
		input.ItemSKU,
	).Scan(&itemCost, &status, &platform)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item %q not found", input.ItemSKU)
		}
		return nil, fmt.Errorf("lock item %q: %w", input.ItemSKU, err)
	}
	if status == ItemStatusSold {
		return nil, fmt.Errorf("item %q is already sold", input.ItemSKU)
	}

	if input.Platform == "" {
		input.Platform = platform
	}

	breakdown := CalculateProfit(SaleInput{
		SalePrice:       input.SalePrice,
		PlatformFeeRate: input.PlatformFeeRate,
		PromotionRate:   input.PromotionRate,
		ShippingCost:    input.ShippingCost,
		CostOfGoods:     itemCost,
	})

	sale, err := scanSale(tx.QueryRow(ctx, `
		INSERT INTO sales (item_sku, platform, sale_date, platform_fee_rate, promotion_rate,
		                   gross_revenue, promotion_discount, platform_fees, net_revenue,
		                   cost_of_goods, shipping_cost, profit,
		                   tax_collected_direct, tax_collected_marketplace)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+saleColumns,
		input.ItemSKU, input.Platform, saleDate,
		input.PlatformFeeRate, input.PromotionRate,
		breakdown.GrossRevenue, breakdown.PromotionDiscount,
		breakdown.PlatformFees, breakdown.NetRevenue,
		breakdown.CostOfGoods, breakdown.ShippingCost, breakdown.Profit,
		input.TaxCollectedDirect, input.TaxCollectedByMarketplace,
	))
	if err != nil {
		return nil, fmt.Errorf("insert sale for %q: %w", input.ItemSKU, err)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE items SET status = $2, updated_at = NOW() WHERE sku = $1",
		input.ItemSKU, ItemStatusSold,
	); err != nil {
		return nil, fmt.Errorf("mark item %q sold: %w", input.ItemSKU, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit sale: %w", err)
	}
	return sale, nil
}

func (s *salesService) GetSale(ctx context.Context, saleID int) (*Sale, error) {
	sale, err := scanSale(s.pool.QueryRow(ctx,
		"SELECT "+saleColumns+" FROM sales WHERE id = $1", saleID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sale %d not found", saleID)
		}
		return nil, fmt.Errorf("fetch sale %d: %w", saleID, err)
	}
	return sale, nil
}

func (s *salesService) ListSales(ctx context.Context, fromDate, toDate string) ([]Sale, error) {
	q := "SELECT " + saleColumns + " FROM sales"
	var (
		args  []any
		where []string
	)
	if fromDate != "" {
		args = append(args, fromDate)
		where = append(where, fmt.Sprintf("sale_date >= $%d::date", len(args)))
	}
	if toDate != "" {
		args = append(args, toDate)
		where = append(where, fmt.Sprintf("sale_date <= $%d::date", len(args)))
	}
	for i, cond := range where {
		if i == 0 {
			q += " WHERE " + cond
		} else {
			q += " AND " + cond
		}
	}
	q += " ORDER BY sale_date ASC, id ASC"

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var sale Sale
		if err := rows.Scan(
			&sale.ID, &sale.ItemSKU, &sale.Platform, &sale.SaleDate,
			&sale.PlatformFeeRate, &sale.PromotionRate,
			&sale.Breakdown.GrossRevenue, &sale.Breakdown.PromotionDiscount,
			&sale.Breakdown.PlatformFees, &sale.Breakdown.NetRevenue,
			&sale.Breakdown.CostOfGoods, &sale.Breakdown.ShippingCost,
			&sale.Breakdown.Profit,
			&sale.TaxCollectedDirect, &sale.TaxCollectedByMarketplace,
			&sale.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}
