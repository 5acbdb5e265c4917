package core

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseItemsCSV(t *testing.T) {
	input := strings.Join([]string{
		"sku,name,description,category,cost_of_goods,list_price,platform",
		"SKU-1,Vintage Camera,Working 35mm,electronics,25.00,80.00,ebay",
		"SKU-2,Wool Blanket,,home,8.50,30.00,etsy",
		",Missing SKU,,misc,1.00,2.00,ebay",
		"SKU-3,Bad Cost,,misc,abc,2.00,ebay",
		"SKU-4,Negative Price,,misc,1.00,-2.00,ebay",
	}, "\n")

	inputs, rowErrors, err := parseItemsCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseItemsCSV failed: %v", err)
	}

	if len(inputs) != 2 {
		t.Fatalf("expected 2 valid rows, got %d", len(inputs))
	}
	if inputs[0].SKU != "SKU-1" || inputs[1].SKU != "SKU-2" {
		t.Errorf("unexpected SKUs: %q, %q", inputs[0].SKU, inputs[1].SKU)
	}
	if inputs[0].CostOfGoods.StringFixed(2) != "25.00" {
		t.Errorf("expected cost 25.00, got %s", inputs[0].CostOfGoods)
	}

	if len(rowErrors) != 3 {
		t.Fatalf("expected 3 row errors, got %d: %v", len(rowErrors), rowErrors)
	}
	for _, want := range []string{"row 4", "row 5", "row 6"} {
		found := false
		for _, e := range rowErrors {
			if strings.Contains(e, want) {
				found = true
			}
		}
		if !found {
			t.Errorf("expected a row error mentioning %q, got %v", want, rowErrors)
		}
	}
}

func TestParseItemsCSV_RejectsBadHeader(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"wrong column name", "sku,name,description,category,cost,list_price,platform\n"},
		{"too few columns", "sku,name,description\n"},
		{"empty file", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseItemsCSV(strings.NewReader(tt.input))
			if err == nil {
				t.Error("expected header error, got nil")
			}
		})
	}
}

func TestParseItemsCSV_HeaderCaseInsensitive(t *testing.T) {
	input := "SKU,Name,Description,Category,Cost_Of_Goods,List_Price,Platform\n" +
		"SKU-9,Desk Lamp,,home,4.00,15.00,facebook\n"

	inputs, rowErrors, err := parseItemsCSV(bytes.NewReader([]byte(input)))
	if err != nil {
		t.Fatalf("parseItemsCSV failed: %v", err)
	}
	if len(rowErrors) != 0 {
		t.Errorf("unexpected row errors: %v", rowErrors)
	}
	if len(inputs) != 1 || inputs[0].SKU != "SKU-9" {
		t.Fatalf("expected one row SKU-9, got %+v", inputs)
	}
}
