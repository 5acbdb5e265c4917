package core

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ItemInput holds the fields supplied when creating or updating an item.
type ItemInput struct {
	SKU         string
	Name        string
	Description string
	Category    string
	CostOfGoods decimal.Decimal
	ListPrice   decimal.Decimal
	Platform    string
	PhotoKey    string
}

// InventoryService manages the item catalog and lots (bundles of items).
type InventoryService interface {
	// CreateItem inserts a new DRAFT item. SKU must be unique.
	CreateItem(ctx context.Context, input ItemInput) (*Item, error)

	// GetItem returns an item by SKU.
	GetItem(ctx context.Context, sku string) (*Item, error)

	// ListItems returns all items, optionally filtered by status, ordered by SKU.
	ListItems(ctx context.Context, status *ItemStatus) ([]Item, error)

	// UpdateItem replaces the editable fields of an existing item.
	UpdateItem(ctx context.Context, sku string, input ItemInput) (*Item, error)

	// SetItemStatus transitions an item to the given status.
	SetItemStatus(ctx context.Context, sku string, status ItemStatus) (*Item, error)

	// CreateLot builds a LotWrapper from the given member references (dropping
	// non-positive quantities, flooring fractional ones) and persists it.
	// Every surviving member SKU must exist in the catalog.
	CreateLot(ctx context.Context, notes string, items []LotItem) (*Lot, error)

	// GetLot returns a lot by its public lot code, including derived cost.
	GetLot(ctx context.Context, lotCode string) (*Lot, error)

	// ListLots returns all lots, newest first.
	ListLots(ctx context.Context) ([]Lot, error)

	// ExportItemsCSV writes the full catalog as CSV.
	ExportItemsCSV(ctx context.Context, w io.Writer) error

	// ImportItemsCSV creates items from CSV rows, reporting per-row errors
	// without aborting the whole import.
	ImportItemsCSV(ctx context.Context, r io.Reader) (*CSVImportResult, error)
}

type inventoryService struct {
	pool *pgxpool.Pool
}

// NewInventoryService constructs an InventoryService backed by PostgreSQL.
func NewInventoryService(pool *pgxpool.Pool) InventoryService {
	return &inventoryService{pool: pool}
}

const itemColumns = `id, sku, name, description, category, cost_of_goods, list_price,
       platform, status, photo_key, created_at, updated_at`

func scanItem(row pgx.Row) (*Item, error) {
	it := &Item{}
	err := row.Scan(
		&it.ID, &it.SKU, &it.Name, &it.Description, &it.Category,
		&it.CostOfGoods, &it.ListPrice, &it.Platform, &it.Status,
		&it.PhotoKey, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (s *inventoryService) CreateItem(ctx context.Context, input ItemInput) (*Item, error) {
	if input.SKU == "" {
		return nil, errors.New("item SKU is required")
	}
	if input.Name == "" {
		return nil, errors.New("item name is required")
	}
	if input.CostOfGoods.IsNegative() {
		return nil, fmt.Errorf("cost of goods cannot be negative, got %s", input.CostOfGoods)
	}
	if input.ListPrice.IsNegative() {
		return nil, fmt.Errorf("list price cannot be negative, got %s", input.ListPrice)
	}

	var photoKey *string
	if input.PhotoKey != "" {
		photoKey = &input.PhotoKey
	}

	item, err := scanItem(s.pool.QueryRow(ctx, `
		INSERT INTO items (sku, name, description, category, cost_of_goods, list_price, platform, status, photo_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+itemColumns,
		input.SKU, input.Name, input.Description, input.Category,
		input.CostOfGoods, input.ListPrice, input.Platform, ItemStatusDraft, photoKey,
	))
	if err != nil {
		return nil, fmt.Errorf("create item %q: %w", input.SKU, err)
	}
	return item, nil
}

func (s *inventoryService) GetItem(ctx context.Context, sku string) (*Item, error) {
	item, err := scanItem(s.pool.QueryRow(ctx,
		"SELECT "+itemColumns+" FROM items WHERE sku = $1", sku,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item %q not found", sku)
		}
		return nil, fmt.Errorf("fetch item %q: %w", sku, err)
	}
	return item, nil
}

func (s *inventoryService) ListItems(ctx context.Context, status *ItemStatus) ([]Item, error) {
	q := "SELECT " + itemColumns + " FROM items"
	args := []any{}
	if status != nil {
		q += " WHERE status = $1"
		args = append(args, *status)
	}
	q += " ORDER BY sku"

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ID, &it.SKU, &it.Name, &it.Description, &it.Category,
			&it.CostOfGoods, &it.ListPrice, &it.Platform, &it.Status,
			&it.PhotoKey, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *inventoryService) UpdateItem(ctx context.Context, sku string, input ItemInput) (*Item, error) {
	if input.CostOfGoods.IsNegative() || input.ListPrice.IsNegative() {
		return nil, errors.New("cost of goods and list price cannot be negative")
	}

	var photoKey *string
	if input.PhotoKey != "" {
		photoKey = &input.PhotoKey
	}

	item, err := scanItem(s.pool.QueryRow(ctx, `
		UPDATE items
		SET name = $2, description = $3, category = $4, cost_of_goods = $5,
		    list_price = $6, platform = $7, photo_key = $8, updated_at = NOW()
		WHERE sku = $1
		RETURNING `+itemColumns,
		sku, input.Name, input.Description, input.Category,
		input.CostOfGoods, input.ListPrice, input.Platform, photoKey,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item %q not found", sku)
		}
		return nil, fmt.Errorf("update item %q: %w", sku, err)
	}
	return item, nil
}

func (s *inventoryService) SetItemStatus(ctx context.Context, sku string, status ItemStatus) (*Item, error) {
	switch status {
	case ItemStatusDraft, ItemStatusListed, ItemStatusSold, ItemStatusArchived:
	default:
		return nil, fmt.Errorf("unknown item status %q", status)
	}

	item, err := scanItem(s.pool.QueryRow(ctx, `
		UPDATE items SET status = $2, updated_at = NOW()
		WHERE sku = $1
		RETURNING `+itemColumns,
		sku, status,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item %q not found", sku)
		}
		return nil, fmt.Errorf("set status for item %q: %w", sku, err)
	}
	return item, nil
}

// ── Lots ──────────────────────────────────────────────────────────────────────

func (s *inventoryService) CreateLot(ctx context.Context, notes string, items []LotItem) (*Lot, error) {
	wrapper := BuildLotWrapper(uuid.NewString(), items, notes)
	if len(wrapper.Items) == 0 {
		return nil, errors.New("lot must contain at least one item with a positive quantity")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Every surviving member must reference a real catalog item.
	for _, member := range wrapper.Items {
		var exists bool
		if err := tx.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM items WHERE sku = $1)", member.ItemID,
		).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check lot member %q: %w", member.ItemID, err)
		}
		if !exists {
			return nil, fmt.Errorf("lot member %q not found in catalog", member.ItemID)
		}
	}

	lot := &Lot{Wrapper: wrapper}
	if err := tx.QueryRow(ctx, `
		INSERT INTO lots (lot_code, notes)
		VALUES ($1, $2)
		RETURNING id, created_at`,
		wrapper.LotID, notes,
	).Scan(&lot.ID, &lot.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert lot: %w", err)
	}

	for pos, member := range wrapper.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO lot_items (lot_id, position, item_sku, quantity)
			VALUES ($1, $2, $3, $4)`,
			lot.ID, pos, member.ItemID, member.Quantity,
		); err != nil {
			return nil, fmt.Errorf("insert lot member %q: %w", member.ItemID, err)
		}
	}

	if err := tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(i.cost_of_goods * li.quantity), 0)
		FROM lot_items li
		JOIN items i ON i.sku = li.item_sku
		WHERE li.lot_id = $1`,
		lot.ID,
	).Scan(&lot.Cost); err != nil {
		return nil, fmt.Errorf("compute lot cost: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit lot: %w", err)
	}
	return lot, nil
}

func (s *inventoryService) GetLot(ctx context.Context, lotCode string) (*Lot, error) {
	lot := &Lot{Wrapper: LotWrapper{LotID: lotCode}}
	err := s.pool.QueryRow(ctx, `
		SELECT l.id, l.notes, l.created_at,
		       COALESCE((SELECT SUM(i.cost_of_goods * li.quantity)
		                 FROM lot_items li
		                 JOIN items i ON i.sku = li.item_sku
		                 WHERE li.lot_id = l.id), 0)
		FROM lots l
		WHERE l.lot_code = $1`,
		lotCode,
	).Scan(&lot.ID, &lot.Wrapper.Notes, &lot.CreatedAt, &lot.Cost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("lot %q not found", lotCode)
		}
		return nil, fmt.Errorf("fetch lot %q: %w", lotCode, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT item_sku, quantity
		FROM lot_items
		WHERE lot_id = $1
		ORDER BY position`,
		lot.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch lot members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var member LotItem
		if err := rows.Scan(&member.ItemID, &member.Quantity); err != nil {
			return nil, fmt.Errorf("scan lot member: %w", err)
		}
		lot.Wrapper.Items = append(lot.Wrapper.Items, member)
	}
	return lot, rows.Err()
}

func (s *inventoryService) ListLots(ctx context.Context) ([]Lot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT l.id, l.lot_code, l.notes, l.created_at,
		       COALESCE((SELECT SUM(i.cost_of_goods * li.quantity)
		                 FROM lot_items li
		                 JOIN items i ON i.sku = li.item_sku
		                 WHERE li.lot_id = l.id), 0)
		FROM lots l
		ORDER BY l.created_at DESC, l.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()

	var lots []Lot
	for rows.Next() {
		var lot Lot
		if err := rows.Scan(&lot.ID, &lot.Wrapper.LotID, &lot.Wrapper.Notes, &lot.CreatedAt, &lot.Cost); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}
