package usecase

import (
	"testing"

	"github.com/greenchainz/carbon-analysis/internal/core/domain"
)

func TestMatchMaterialExactNameCaseInsensitive(t *testing.T) {
	match := MatchMaterial("Portland Cement", MatchOptions{
		Candidates: []domain.Product{
			{ID: "p1", Name: "portland cement", Category: "cement", CarbonPerUnit: 900},
			{ID: "p2", Name: "Fly ash blend", Category: "cement", CarbonPerUnit: 500},
		},
	})
	if match == nil {
		t.Fatalf("expected a match")
	}
	if match.ProductID != "p1" {
		t.Fatalf("expected p1, got %s", match.ProductID)
	}
	if match.MatchType != domain.MatchExact {
		t.Fatalf("expected exact match, got %s", match.MatchType)
	}
	if match.Confidence != 1.0 {
		t.Fatalf("expected confidence 1.0, got %f", match.Confidence)
	}
}

func TestMatchMaterialFuzzyOnStrongNameSimilarity(t *testing.T) {
	match := MatchMaterial("portland cement", MatchOptions{
		Candidates: []domain.Product{
			{ID: "p1", Name: "Portland Cement CEM I", CarbonPerUnit: 912},
		},
	})
	if match == nil {
		t.Fatalf("expected a match")
	}
	if match.MatchType != domain.MatchFuzzy {
		t.Fatalf("expected fuzzy match, got %s", match.MatchType)
	}
	if match.Confidence <= strongMatchConfidence || match.Confidence >= 1.0 {
		t.Fatalf("expected strong but non-exact confidence, got %f", match.Confidence)
	}
	if len(match.Reasons) == 0 {
		t.Fatalf("expected match reasons")
	}
}

func TestMatchMaterialCategoryFallback(t *testing.T) {
	match := MatchMaterial("Steel Beam W12", MatchOptions{
		CategoryHint: "Structural Steel",
		Threshold:    0.9,
		Candidates: []domain.Product{
			{ID: "p1", Name: "Hot-rolled structural steel section", Category: "steel", CarbonPerUnit: 1.85},
		},
	})
	if match == nil {
		t.Fatalf("expected a match")
	}
	if match.MatchType != domain.MatchCategory {
		t.Fatalf("expected category match, got %s (confidence %f)", match.MatchType, match.Confidence)
	}
	if match.Confidence <= 0 || match.Confidence > strongMatchConfidence {
		t.Fatalf("category match confidence out of range: %f", match.Confidence)
	}
}

func TestMatchMaterialRejectsDissimilarCandidates(t *testing.T) {
	match := MatchMaterial("Glass curtain wall", MatchOptions{
		Candidates: []domain.Product{
			{ID: "p1", Name: "Timber joist", Category: "wood", CarbonPerUnit: 0.4},
		},
	})
	if match != nil {
		t.Fatalf("expected no match, got %+v", match)
	}
}

func TestMatchMaterialHonorsCarbonCeiling(t *testing.T) {
	match := MatchMaterial("portland cement", MatchOptions{
		MaxCarbonPerUnit: 500,
		Candidates: []domain.Product{
			{ID: "p1", Name: "Portland Cement", CarbonPerUnit: 912},
		},
	})
	if match != nil {
		t.Fatalf("expected ceiling to exclude the only candidate, got %+v", match)
	}
}

func TestMatchMaterialEmptyInputs(t *testing.T) {
	if m := MatchMaterial("", MatchOptions{Candidates: []domain.Product{{Name: "x"}}}); m != nil {
		t.Fatalf("expected nil for empty name")
	}
	if m := MatchMaterial("concrete", MatchOptions{}); m != nil {
		t.Fatalf("expected nil for empty candidate set")
	}
}

func TestMatchMaterialPrefersClosestCandidate(t *testing.T) {
	match := MatchMaterial("ready-mix concrete", MatchOptions{
		Candidates: []domain.Product{
			{ID: "far", Name: "Concrete block", Category: "concrete", CarbonPerUnit: 100},
			{ID: "near", Name: "Ready-Mix Concrete", Category: "concrete", CarbonPerUnit: 300},
		},
	})
	if match == nil {
		t.Fatalf("expected a match")
	}
	if match.ProductID != "near" {
		t.Fatalf("expected nearest candidate, got %s", match.ProductID)
	}
	if match.MatchType != domain.MatchExact {
		t.Fatalf("expected exact match, got %s", match.MatchType)
	}
}

func TestLongestCommonSubstringGate(t *testing.T) {
	// Short shared fragments must not create similarity on their own.
	if d := fieldDistance("mm", "aluminium"); d != 1 {
		t.Fatalf("expected distance 1 for sub-minimum overlap, got %f", d)
	}
	if d := fieldDistance("concrete", "concrete"); d != 0 {
		t.Fatalf("expected distance 0 for identical fields, got %f", d)
	}
}

func TestCategoriesOverlap(t *testing.T) {
	cases := []struct {
		hint, category string
		want           bool
	}{
		{"Structural Steel", "steel", true},
		{"steel", "Structural Steel", true},
		{"Concrete", "concrete", true},
		{"Wood", "steel", false},
		{"", "steel", false},
	}
	for _, tc := range cases {
		if got := categoriesOverlap(tc.hint, tc.category); got != tc.want {
			t.Fatalf("categoriesOverlap(%q, %q) = %v, want %v", tc.hint, tc.category, got, tc.want)
		}
	}
}
