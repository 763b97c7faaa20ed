package usecase

import (
	"fmt"
	"strings"

	"github.com/greenchainz/carbon-analysis/internal/core/domain"
)

const (
	// DefaultMatchThreshold is the maximum weighted distance a candidate may
	// score and still be accepted. Confidence is 1 - distance.
	DefaultMatchThreshold = 0.4

	nameWeight        = 0.5
	categoryWeight    = 0.3
	descriptionWeight = 0.2

	// Common substrings shorter than this never count toward similarity,
	// which keeps short tokens like "mm" or "c3" from producing matches.
	minMatchLength = 3

	// Above this confidence a non-exact match classifies as fuzzy outright.
	strongMatchConfidence = 0.8
)

type MatchOptions struct {
	CategoryHint     string
	MaxCarbonPerUnit float64 // 0 disables the ceiling
	Threshold        float64 // 0 falls back to DefaultMatchThreshold
	Candidates       []domain.Product
}

// MatchMaterial scores every candidate product against a free-text material
// name using a weighted multi-field distance over name, category and
// description, and returns the best candidate within the threshold. A nil
// result means no acceptable match and is a normal outcome, not an error.
//
// Classification precedence: exact (case-insensitive full name equality,
// confidence forced to 1.0), then fuzzy for strong similarity, then category
// when the caller's hint overlaps the candidate's category.
func MatchMaterial(name string, opts MatchOptions) *domain.MaterialMatch {
	query := strings.TrimSpace(name)
	if query == "" || len(opts.Candidates) == 0 {
		return nil
	}
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}

	bestIdx := -1
	bestDistance := 0.0
	for i, cand := range opts.Candidates {
		if opts.MaxCarbonPerUnit > 0 && cand.CarbonPerUnit > opts.MaxCarbonPerUnit {
			continue
		}
		d := candidateDistance(query, cand)
		if bestIdx < 0 || d < bestDistance {
			bestIdx = i
			bestDistance = d
		}
	}
	if bestIdx < 0 || bestDistance > threshold {
		return nil
	}

	cand := opts.Candidates[bestIdx]
	confidence := 1 - bestDistance
	match := &domain.MaterialMatch{
		ProductID:     cand.ID,
		ProductName:   cand.Name,
		CarbonPerUnit: cand.CarbonPerUnit,
		Confidence:    confidence,
	}

	switch {
	case strings.EqualFold(query, strings.TrimSpace(cand.Name)):
		match.MatchType = domain.MatchExact
		match.Confidence = 1.0
		match.Reasons = append(match.Reasons, "exact name match")
	case confidence > strongMatchConfidence:
		match.MatchType = domain.MatchFuzzy
		match.Reasons = append(match.Reasons, fmt.Sprintf("text similarity %.2f", confidence))
	case opts.CategoryHint != "" && categoriesOverlap(opts.CategoryHint, cand.Category):
		match.MatchType = domain.MatchCategory
		match.Reasons = append(match.Reasons,
			fmt.Sprintf("category %q overlaps product category %q", opts.CategoryHint, cand.Category),
			fmt.Sprintf("text similarity %.2f", confidence))
	default:
		match.MatchType = domain.MatchFuzzy
		match.Reasons = append(match.Reasons, fmt.Sprintf("text similarity %.2f", confidence))
	}
	return match
}

// candidateDistance is 0 for a perfect match and 1 for no usable overlap.
// Field weights are renormalized over the fields the candidate actually has,
// so a product without a description is not penalized for the missing field.
func candidateDistance(query string, cand domain.Product) float64 {
	if strings.EqualFold(strings.TrimSpace(query), strings.TrimSpace(cand.Name)) {
		return 0
	}

	type field struct {
		text   string
		weight float64
	}
	fields := []field{
		{cand.Name, nameWeight},
		{cand.Category, categoryWeight},
		{cand.Description, descriptionWeight},
	}

	weightSum := 0.0
	weighted := 0.0
	for _, f := range fields {
		if strings.TrimSpace(f.text) == "" {
			continue
		}
		weightSum += f.weight
		weighted += f.weight * fieldDistance(query, f.text)
	}
	if weightSum == 0 {
		return 1
	}
	return weighted / weightSum
}

func fieldDistance(query, text string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	t := strings.ToLower(strings.TrimSpace(text))
	if q == "" || t == "" {
		return 1
	}
	if q == t {
		return 0
	}
	if longestCommonSubstring(q, t) < minMatchLength {
		return 1
	}

	sim := bigramDice(q, t)
	short, long := q, t
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) >= minMatchLength && strings.Contains(long, short) {
		if ratio := float64(len(short)) / float64(len(long)); ratio > sim {
			sim = ratio
		}
	}
	return 1 - clamp01(sim)
}

// bigramDice is the Sorensen-Dice coefficient over character bigram sets.
func bigramDice(a, b string) float64 {
	aGrams := bigramSet(a)
	bGrams := bigramSet(b)
	if len(aGrams) == 0 || len(bGrams) == 0 {
		return 0
	}
	shared := 0
	for g := range aGrams {
		if bGrams[g] {
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(aGrams)+len(bGrams))
}

func bigramSet(s string) map[string]bool {
	runes := []rune(s)
	grams := make(map[string]bool, len(runes))
	for i := 0; i+1 < len(runes); i++ {
		grams[string(runes[i:i+2])] = true
	}
	return grams
}

func longestCommonSubstring(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	best := 0
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > best {
					best = curr[j]
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return best
}

func categoriesOverlap(hint, category string) bool {
	h := strings.ToLower(strings.TrimSpace(hint))
	c := strings.ToLower(strings.TrimSpace(category))
	if h == "" || c == "" {
		return false
	}
	if strings.Contains(h, c) || strings.Contains(c, h) {
		return true
	}
	for _, token := range strings.Fields(h) {
		if len(token) >= minMatchLength && strings.Contains(c, token) {
			return true
		}
	}
	return false
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
