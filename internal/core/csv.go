package core

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// csvHeader is the canonical column order for item import/export.
var csvHeader = []string{"sku", "name", "description", "category", "cost_of_goods", "list_price", "platform"}

// CSVImportResult summarizes an item import: how many rows were created and
// which rows were rejected (with 1-based row numbers counting the header).
type CSVImportResult struct {
	Imported  int      `json:"imported"`
	RowErrors []string `json:"row_errors,omitempty"`
}

func (s *inventoryService) ExportItemsCSV(ctx context.Context, w io.Writer) error {
	items, err := s.ListItems(ctx, nil)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, it := range items {
		record := []string{
			it.SKU, it.Name, it.Description, it.Category,
			it.CostOfGoods.StringFixed(2), it.ListPrice.StringFixed(2), it.Platform,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row for %q: %w", it.SKU, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *inventoryService) ImportItemsCSV(ctx context.Context, r io.Reader) (*CSVImportResult, error) {
	inputs, rowErrors, err := parseItemsCSV(r)
	if err != nil {
		return nil, err
	}

	result := &CSVImportResult{RowErrors: rowErrors}
	for _, input := range inputs {
		if _, err := s.CreateItem(ctx, input); err != nil {
			result.RowErrors = append(result.RowErrors,
				fmt.Sprintf("sku %q: %v", input.SKU, err))
			continue
		}
		result.Imported++
	}
	return result, nil
}

// parseItemsCSV reads item rows, validating each independently so one bad
// row does not poison the rest of the file. The header row is required and
// must match csvHeader exactly.
func parseItemsCSV(r io.Reader) ([]ItemInput, []string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, nil, fmt.Errorf("expected %d columns (%s), got %d",
			len(csvHeader), strings.Join(csvHeader, ","), len(header))
	}
	for i, col := range csvHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != col {
			return nil, nil, fmt.Errorf("column %d: expected %q, got %q", i+1, col, header[i])
		}
	}

	var (
		inputs    []ItemInput
		rowErrors []string
		rowNum    = 1 // header consumed
	)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}

		input := ItemInput{
			SKU:         strings.TrimSpace(record[0]),
			Name:        strings.TrimSpace(record[1]),
			Description: strings.TrimSpace(record[2]),
			Category:    strings.TrimSpace(record[3]),
			Platform:    strings.TrimSpace(record[6]),
		}
		if input.SKU == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: missing sku", rowNum))
			continue
		}
		if input.Name == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: missing name", rowNum))
			continue
		}

		cost, err := decimal.NewFromString(strings.TrimSpace(record[4]))
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: invalid cost_of_goods %q", rowNum, record[4]))
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(record[5]))
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: invalid list_price %q", rowNum, record[5]))
			continue
		}
		if cost.IsNegative() || price.IsNegative() {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: negative amount", rowNum))
			continue
		}
		input.CostOfGoods = cost
		input.ListPrice = price

		inputs = append(inputs, input)
	}
	return inputs, rowErrors, nil
}
