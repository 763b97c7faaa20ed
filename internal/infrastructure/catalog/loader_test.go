package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestLoadProductsFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `products:
  - id: concrete-c30
    name: Concrete C30
    category: concrete
    carbon_per_unit: 300
    declared_unit: "m³"
    source: EPD
  - name: GGBS Concrete
    category: concrete
    carbon_per_unit: 180
  - name: Missing factor
    category: concrete
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	products, err := LoadProducts(path)
	if err != nil {
		t.Fatalf("LoadProducts() error = %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 valid products, got %d", len(products))
	}
	if products[0].ID != "concrete-c30" || products[0].CarbonPerUnit != 300 {
		t.Fatalf("unexpected first product: %+v", products[0])
	}
	if products[1].ID != "ggbs-concrete" {
		t.Fatalf("expected slug id for missing id, got %q", products[1].ID)
	}
}

func TestLoadProductsFromSpreadsheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	rows := [][]any{
		{"Name", "Category", "GWP", "Unit", "Source"},
		{"Structural steel", "steel", "1.85", "kg", "EPD"},
		{"Concrete C30", "concrete", "300", "m³", "EPD"},
		{"", "concrete", "100", "m³", "EPD"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := book.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := book.SaveAs(path); err != nil {
		t.Fatalf("save fixture: %v", err)
	}

	products, err := LoadProducts(path)
	if err != nil {
		t.Fatalf("LoadProducts() error = %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 valid products, got %d", len(products))
	}
	if products[0].Name != "Structural steel" || products[0].CarbonPerUnit != 1.85 {
		t.Fatalf("unexpected first product: %+v", products[0])
	}
	if products[0].DeclaredUnit != "kg" {
		t.Fatalf("expected unit column alias to apply, got %q", products[0].DeclaredUnit)
	}
	if products[1].ID != "concrete-c30" {
		t.Fatalf("expected slug id, got %q", products[1].ID)
	}
}

func TestLoadProductsRejectsUnknownFormat(t *testing.T) {
	if _, err := LoadProducts("catalog.csv"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
