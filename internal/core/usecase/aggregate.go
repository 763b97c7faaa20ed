package usecase

import (
	"sort"

	"github.com/greenchainz/carbon-analysis/internal/core/domain"
)

const topContributorCount = 5

// AggregateCarbon folds extracted materials and their matches into per-line
// analyses plus a breakdown with category shares and ranked top contributors.
// Unmatched materials carry a zero factor: their quantity stays visible in
// the material list but contributes nothing to the total.
func AggregateCarbon(materials []domain.ExtractedMaterial, matches map[string]*domain.MaterialMatch) ([]domain.MaterialAnalysis, domain.CarbonBreakdown) {
	analyses := make([]domain.MaterialAnalysis, 0, len(materials))
	for _, mat := range materials {
		line := domain.MaterialAnalysis{
			Name:      mat.Name,
			Category:  mat.Category,
			Quantity:  mat.Quantity,
			Unit:      mat.Unit,
			MatchType: domain.MatchNone,
		}
		if match := matches[mat.Name]; match != nil {
			line.CarbonPerUnit = match.CarbonPerUnit
			line.MatchedProduct = match.ProductID
			line.MatchConfidence = match.Confidence
			line.MatchType = match.MatchType
		}
		line.TotalCarbonKg = mat.Quantity * line.CarbonPerUnit
		analyses = append(analyses, line)
	}

	breakdown := domain.CarbonBreakdown{
		ByCategory: make(map[string]domain.CategoryCarbon),
	}
	for _, line := range analyses {
		breakdown.TotalKg += line.TotalCarbonKg
		entry := breakdown.ByCategory[line.Category]
		entry.CarbonKg += line.TotalCarbonKg
		breakdown.ByCategory[line.Category] = entry
	}
	// Percentages stay at zero for an empty model so the payload never
	// carries NaN.
	if breakdown.TotalKg > 0 {
		for category, entry := range breakdown.ByCategory {
			entry.Percentage = entry.CarbonKg / breakdown.TotalKg * 100
			breakdown.ByCategory[category] = entry
		}
	}

	ranked := make([]domain.MaterialAnalysis, len(analyses))
	copy(ranked, analyses)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalCarbonKg > ranked[j].TotalCarbonKg
	})
	for _, line := range ranked {
		if len(breakdown.TopContributors) == topContributorCount {
			break
		}
		contributor := domain.Contributor{
			MaterialName: line.Name,
			CarbonKg:     line.TotalCarbonKg,
		}
		if breakdown.TotalKg > 0 {
			contributor.Percentage = line.TotalCarbonKg / breakdown.TotalKg * 100
		}
		breakdown.TopContributors = append(breakdown.TopContributors, contributor)
	}
	return analyses, breakdown
}
