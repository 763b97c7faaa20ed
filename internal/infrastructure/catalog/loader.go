package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/greenchainz/carbon-analysis/internal/core/domain"
)

// LoadProducts reads a product catalog file into domain records. Spreadsheets
// (.xlsx) and YAML manifests are supported; rows without a name or a positive
// carbon factor are skipped rather than failing the whole import.
func LoadProducts(path string) ([]domain.Product, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return loadFromSpreadsheet(path)
	case ".yaml", ".yml":
		return loadFromYAML(path)
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s", filepath.Ext(path))
	}
}

type yamlProduct struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	Category      string  `yaml:"category"`
	Description   string  `yaml:"description"`
	CarbonPerUnit float64 `yaml:"carbon_per_unit"`
	DeclaredUnit  string  `yaml:"declared_unit"`
	Source        string  `yaml:"source"`
}

func loadFromYAML(path string) ([]domain.Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog yaml: %w", err)
	}

	var doc struct {
		Products []yamlProduct `yaml:"products"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}

	out := make([]domain.Product, 0, len(doc.Products))
	for _, p := range doc.Products {
		product := domain.Product{
			ID:            p.ID,
			Name:          p.Name,
			Category:      p.Category,
			Description:   p.Description,
			CarbonPerUnit: p.CarbonPerUnit,
			DeclaredUnit:  p.DeclaredUnit,
			Source:        p.Source,
		}
		if !validProduct(product) {
			continue
		}
		if product.ID == "" {
			product.ID = slugify(product.Name)
		}
		out = append(out, product)
	}
	return out, nil
}

func loadFromSpreadsheet(path string) ([]domain.Product, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog spreadsheet: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("catalog spreadsheet has no sheets")
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read catalog rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("catalog spreadsheet has no data rows")
	}

	columns := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		columns[normalizeHeader(header)] = i
	}

	out := make([]domain.Product, 0, len(rows)-1)
	for _, row := range rows[1:] {
		product := domain.Product{
			ID:            cellValue(row, columns, "id"),
			Name:          cellValue(row, columns, "name"),
			Category:      cellValue(row, columns, "category"),
			Description:   cellValue(row, columns, "description"),
			DeclaredUnit:  cellValue(row, columns, "declared_unit", "unit"),
			Source:        cellValue(row, columns, "source"),
			CarbonPerUnit: cellNumber(row, columns, "carbon_per_unit", "gwp", "gwp_per_unit"),
		}
		if !validProduct(product) {
			continue
		}
		if product.ID == "" {
			product.ID = slugify(product.Name)
		}
		out = append(out, product)
	}
	return out, nil
}

func validProduct(p domain.Product) bool {
	return strings.TrimSpace(p.Name) != "" && p.CarbonPerUnit > 0
}

func normalizeHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	return strings.ReplaceAll(h, " ", "_")
}

func cellValue(row []string, columns map[string]int, aliases ...string) string {
	for _, alias := range aliases {
		i, ok := columns[alias]
		if !ok || i >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[i]); v != "" {
			return v
		}
	}
	return ""
}

func cellNumber(row []string, columns map[string]int, aliases ...string) float64 {
	raw := cellValue(row, columns, aliases...)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0
	}
	return n
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}
