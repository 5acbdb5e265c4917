package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const defaultFederalTaxRate = "0.22"

// MonthlySummary aggregates a calendar month of activity.
type MonthlySummary struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	SalesCount    int             `json:"sales_count"`
	GrossRevenue  decimal.Decimal `json:"gross_revenue"`
	NetRevenue    decimal.Decimal `json:"net_revenue"`
	CostOfGoods   decimal.Decimal `json:"cost_of_goods"`
	ShippingCosts decimal.Decimal `json:"shipping_costs"`
	PlatformFees  decimal.Decimal `json:"platform_fees"`
	Profit        decimal.Decimal `json:"profit"`
	Expenses      decimal.Decimal `json:"expenses"`
	TaxableIncome decimal.Decimal `json:"taxable_income"`
}

// FederalEstimate is a rough set-aside figure, not tax advice.
type FederalEstimate struct {
	Year          int             `json:"year"`
	TaxableIncome decimal.Decimal `json:"taxable_income"`
	EffectiveRate decimal.Decimal `json:"effective_rate"`
	EstimatedTax  decimal.Decimal `json:"estimated_tax"`
}

// SalesTaxReport compares tax collected directly from buyers against tax
// already remitted by marketplaces. A negative liability is a credit and is
// reported as-is.
type SalesTaxReport struct {
	FromDate             string          `json:"from_date"`
	ToDate               string          `json:"to_date"`
	CollectedDirect      decimal.Decimal `json:"collected_direct"`
	CollectedMarketplace decimal.Decimal `json:"collected_marketplace"`
	Liability            decimal.Decimal `json:"liability"`
}

// ReportingService derives summaries and tax figures from recorded sales
// and expenses.
type ReportingService interface {
	MonthlySummary(ctx context.Context, year, month int) (*MonthlySummary, error)
	FederalEstimate(ctx context.Context, year int) (*FederalEstimate, error)
	SalesTaxReport(ctx context.Context, fromDate, toDate string) (*SalesTaxReport, error)
}

type reportingService struct {
	pool *pgxpool.Pool
}

// NewReportingService constructs a ReportingService backed by PostgreSQL.
func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

func (s *reportingService) MonthlySummary(ctx context.Context, year, month int) (*MonthlySummary, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month %d", month)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	summary := &MonthlySummary{Year: year, Month: month}
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(gross_revenue), 0),
		       COALESCE(SUM(net_revenue), 0),
		       COALESCE(SUM(cost_of_goods), 0),
		       COALESCE(SUM(shipping_cost), 0),
		       COALESCE(SUM(platform_fees), 0),
		       COALESCE(SUM(profit), 0)
		FROM sales
		WHERE sale_date >= $1 AND sale_date < $2`,
		start.Format("2006-01-02"), end.Format("2006-01-02"),
	).Scan(&summary.SalesCount, &summary.GrossRevenue, &summary.NetRevenue,
		&summary.CostOfGoods, &summary.ShippingCosts, &summary.PlatformFees,
		&summary.Profit)
	if err != nil {
		return nil, fmt.Errorf("summarize sales for %d-%02d: %w", year, month, err)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE expense_date >= $1 AND expense_date < $2`,
		start.Format("2006-01-02"), end.Format("2006-01-02"),
	).Scan(&summary.Expenses)
	if err != nil {
		return nil, fmt.Errorf("summarize expenses for %d-%02d: %w", year, month, err)
	}

	summary.TaxableIncome = summary.Profit.Sub(summary.Expenses)
	return summary, nil
}

func (s *reportingService) FederalEstimate(ctx context.Context, year int) (*FederalEstimate, error) {
	rate, err := federalTaxRate()
	if err != nil {
		return nil, err
	}

	var (
		profit   decimal.Decimal
		expenses decimal.Decimal
	)
	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(profit), 0) FROM sales
		WHERE sale_date >= $1 AND sale_date < $2`,
		fmt.Sprintf("%d-01-01", year), fmt.Sprintf("%d-01-01", year+1),
	).Scan(&profit)
	if err != nil {
		return nil, fmt.Errorf("sum profit for %d: %w", year, err)
	}
	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM expenses
		WHERE expense_date >= $1 AND expense_date < $2`,
		fmt.Sprintf("%d-01-01", year), fmt.Sprintf("%d-01-01", year+1),
	).Scan(&expenses)
	if err != nil {
		return nil, fmt.Errorf("sum expenses for %d: %w", year, err)
	}

	taxable := profit.Sub(expenses)
	return &FederalEstimate{
		Year:          year,
		TaxableIncome: taxable,
		EffectiveRate: rate,
		EstimatedTax:  FederalTaxEstimate(taxable, rate),
	}, nil
}

func (s *reportingService) SalesTaxReport(ctx context.Context, fromDate, toDate string) (*SalesTaxReport, error) {
	report := &SalesTaxReport{FromDate: fromDate, ToDate: toDate}

	q := `SELECT COALESCE(SUM(tax_collected_direct), 0),
	             COALESCE(SUM(tax_collected_marketplace), 0)
	      FROM sales`
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

	if err := s.pool.QueryRow(ctx, q, args...).Scan(
		&report.CollectedDirect, &report.CollectedMarketplace,
	); err != nil {
		return nil, fmt.Errorf("sum collected tax: %w", err)
	}

	report.Liability = SalesTaxLiability(report.CollectedDirect, report.CollectedMarketplace)
	return report, nil
}

// federalTaxRate reads FEDERAL_TAX_RATE from the environment, falling back
// to the default. The rate is later clamped to [0, 1] by FederalTaxEstimate.
func federalTaxRate() (decimal.Decimal, error) {
	raw := os.Getenv("FEDERAL_TAX_RATE")
	if raw == "" {
		raw = defaultFederalTaxRate
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid FEDERAL_TAX_RATE %q: %w", raw, err)
	}
	return rate, nil
}
