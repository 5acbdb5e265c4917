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

// AllocationInput names a bucket and its share weight for splitting an
// expense. Weights are relative; they do not need to sum to anything.
type AllocationInput struct {
	Bucket string          `json:"bucket"`
	Weight decimal.Decimal `json:"weight"`
}

// ExpenseRecordInput describes an expense to record. When Allocations is
// empty the full amount is allocated to a single bucket named after the
// expense category.
type ExpenseRecordInput struct {
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Amount      decimal.Decimal   `json:"amount"`
	ExpenseDate string            `json:"expense_date"` // YYYY-MM-DD, defaults to today
	Allocations []AllocationInput `json:"allocations,omitempty"`
}

// ExpenseService records expenses and their per-bucket allocations. The
// stored allocation amounts always sum exactly to the expense amount.
type ExpenseService interface {
	RecordExpense(ctx context.Context, input ExpenseRecordInput) (*Expense, error)
	GetExpense(ctx context.Context, expenseID int) (*Expense, error)
	ListExpenses(ctx context.Context, fromDate, toDate string) ([]Expense, error)

	// CategoryTotals sums expense amounts per category within the optional
	// date range.
	CategoryTotals(ctx context.Context, fromDate, toDate string) (map[string]decimal.Decimal, error)
}

type expenseService struct {
	pool *pgxpool.Pool
}

// NewExpenseService constructs an ExpenseService backed by PostgreSQL.
func NewExpenseService(pool *pgxpool.Pool) ExpenseService {
	return &expenseService{pool: pool}
}

func (s *expenseService) RecordExpense(ctx context.Context, input ExpenseRecordInput) (*Expense, error) {
	if input.Description == "" {
		return nil, errors.New("expense must have a description")
	}
	if input.Category == "" {
		return nil, errors.New("expense must have a category")
	}

	expenseDate := input.ExpenseDate
	if expenseDate == "" {
		expenseDate = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", expenseDate); err != nil {
		return nil, fmt.Errorf("invalid expense date %q: %w", expenseDate, err)
	}

	allocations := input.Allocations
	if len(allocations) == 0 {
		allocations = []AllocationInput{{Bucket: input.Category, Weight: decimal.NewFromInt(1)}}
	}
	totalWeight := decimal.Zero
	for _, a := range allocations {
		if a.Bucket == "" {
			return nil, errors.New("allocation bucket cannot be empty")
		}
		totalWeight = totalWeight.Add(a.Weight)
	}
	// A non-positive total weight would persist allocation rows that do
	// not sum to the expense amount.
	if !totalWeight.IsPositive() {
		return nil, errors.New("allocation weights must sum to a positive value")
	}

	weights := make([]decimal.Decimal, len(allocations))
	for i, a := range allocations {
		weights[i] = a.Weight
	}
	amounts := SplitExpense(input.Amount, weights)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	expense := &Expense{
		Description: input.Description,
		Category:    input.Category,
		ExpenseDate: expenseDate,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO expenses (description, category, amount, expense_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, amount, created_at`,
		input.Description, input.Category, input.Amount.Round(2), expenseDate,
	).Scan(&expense.ID, &expense.Amount, &expense.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}

	for i, a := range allocations {
		alloc := ExpenseAllocation{
			ExpenseID: expense.ID,
			Bucket:    a.Bucket,
			Weight:    a.Weight,
			Amount:    amounts[i],
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO expense_allocations (expense_id, bucket, weight, amount)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			expense.ID, a.Bucket, a.Weight, amounts[i],
		).Scan(&alloc.ID)
		if err != nil {
			return nil, fmt.Errorf("insert allocation %q: %w", a.Bucket, err)
		}
		expense.Allocations = append(expense.Allocations, alloc)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit expense: %w", err)
	}
	return expense, nil
}

func (s *expenseService) GetExpense(ctx context.Context, expenseID int) (*Expense, error) {
	expense := &Expense{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, description, category, amount, expense_date::text, created_at
		FROM expenses WHERE id = $1`, expenseID,
	).Scan(&expense.ID, &expense.Description, &expense.Category,
		&expense.Amount, &expense.ExpenseDate, &expense.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("expense %d not found", expenseID)
		}
		return nil, fmt.Errorf("fetch expense %d: %w", expenseID, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, expense_id, bucket, weight, amount
		FROM expense_allocations WHERE expense_id = $1 ORDER BY id`, expenseID)
	if err != nil {
		return nil, fmt.Errorf("fetch allocations for expense %d: %w", expenseID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var alloc ExpenseAllocation
		if err := rows.Scan(&alloc.ID, &alloc.ExpenseID, &alloc.Bucket, &alloc.Weight, &alloc.Amount); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		expense.Allocations = append(expense.Allocations, alloc)
	}
	return expense, rows.Err()
}

func (s *expenseService) ListExpenses(ctx context.Context, fromDate, toDate string) ([]Expense, error) {
	q := `SELECT id, description, category, amount, expense_date::text, created_at FROM expenses`
	var (
		args  []any
		where []string
	)
	if fromDate != "" {
		args = append(args, fromDate)
		where = append(where, fmt.Sprintf("expense_date >= $%d::date", len(args)))
	}
	if toDate != "" {
		args = append(args, toDate)
		where = append(where, fmt.Sprintf("expense_date <= $%d::date", len(args)))
	}
	for i, cond := range where {
		if i == 0 {
			q += " WHERE " + cond
		} else {
			q += " AND " + cond
		}
	}
	q += " ORDER BY expense_date ASC, id ASC"

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.Description, &e.Category, &e.Amount, &e.ExpenseDate, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *expenseService) CategoryTotals(ctx context.Context, fromDate, toDate string) (map[string]decimal.Decimal, error) {
	q := `SELECT category, COALESCE(SUM(amount), 0) FROM expenses`
	var (
		args  []any
		where []string
	)
	if fromDate != "" {
		args = append(args, fromDate)
		where = append(where, fmt.Sprintf("expense_date >= $%d::date", len(args)))
	}
	if toDate != "" {
		args = append(args, toDate)
		where = append(where, fmt.Sprintf("expense_date <= $%d::date", len(args)))
	}
	for i, cond := range where {
		if i == 0 {
			q += " WHERE " + cond
		} else {
			q += " AND " + cond
		}
	}
	q += " GROUP BY category"

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var (
			category string
			total    decimal.Decimal
		)
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals[category] = total
	}
	return totals, rows.Err()
}
