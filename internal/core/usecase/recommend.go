package usecase

import (
	"context"
	"log/slog"

	"github.com/greenchainz/carbon-analysis/internal/core/domain"
	"github.com/greenchainz/carbon-analysis/internal/core/ports"
)

const alternativesPerContributor = 3

// AlternativeRecommender suggests same-category catalog products with a
// strictly lower per-unit factor for the largest contributors.
type AlternativeRecommender struct {
	catalog ports.ProductCatalog
	logger  *slog.Logger
}

func NewAlternativeRecommender(catalog ports.ProductCatalog, logger *slog.Logger) *AlternativeRecommender {
	if logger == nil {
		logger = slog.Default()
	}
	return &AlternativeRecommender{catalog: catalog, logger: logger}
}

// Recommend is best-effort: a catalog error for one contributor logs a
// warning and moves on, and a contributor with no qualifying substitute
// simply emits nothing.
func (r *AlternativeRecommender) Recommend(ctx context.Context, materials []domain.MaterialAnalysis, top []domain.Contributor) []domain.Alternative {
	byName := make(map[string]domain.MaterialAnalysis, len(materials))
	for _, line := range materials {
		if _, ok := byName[line.Name]; !ok {
			byName[line.Name] = line
		}
	}

	alternatives := make([]domain.Alternative, 0)
	for _, contributor := range top {
		material, ok := byName[contributor.MaterialName]
		if !ok || material.CarbonPerUnit <= 0 || material.TotalCarbonKg <= 0 {
			continue
		}

		products, err := r.catalog.Search(ctx, material.Category, material.CarbonPerUnit, alternativesPerContributor)
		if err != nil {
			r.logger.Warn("alternative lookup failed",
				"material", material.Name,
				"category", material.Category,
				"error", err,
			)
			continue
		}

		for _, product := range products {
			if product.CarbonPerUnit >= material.CarbonPerUnit {
				continue
			}
			substituteTotal := product.CarbonPerUnit * material.Quantity
			reduction := material.TotalCarbonKg - substituteTotal
			alternatives = append(alternatives, domain.Alternative{
				OriginalMaterial:       material.Name,
				OriginalCarbonKg:       material.TotalCarbonKg,
				AlternativeName:        product.Name,
				AlternativeCarbonKg:    substituteTotal,
				CarbonReductionKg:      reduction,
				CarbonReductionPercent: reduction / material.TotalCarbonKg * 100,
				ProductID:              product.ID,
			})
		}
	}
	return alternatives
}
