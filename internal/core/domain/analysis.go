package domain

import "time"

type AnalysisStatus string

const (
	StatusProcessing AnalysisStatus = "processing"
	StatusCompleted  AnalysisStatus = "completed"
	StatusFailed     AnalysisStatus = "failed"
)

type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchFuzzy    MatchType = "fuzzy"
	MatchCategory MatchType = "category"
	MatchNone     MatchType = "none"
)

// AnalysisRequest is the caller-supplied input for one model analysis.
type AnalysisRequest struct {
	ModelURN  string `json:"model_urn"`
	ModelName string `json:"model_name"`
}

// AnalysisJob is the persisted record of one embodied-carbon analysis.
// Status moves one way: processing to completed or failed, never back.
type AnalysisJob struct {
	ID            string          `json:"id"`
	ModelURN      string          `json:"model_urn"`
	ModelName     string          `json:"model_name"`
	OwnerID       string          `json:"owner_id"`
	Status        AnalysisStatus  `json:"status"`
	TotalCarbonKg float64         `json:"total_carbon_kg"`
	Result        *AnalysisResult `json:"result,omitempty"`
	Alternatives  []Alternative   `json:"alternatives,omitempty"`
	ErrorMessage  string          `json:"error_message,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}

// ExtractedMaterial is one accumulated material row from a model's property
// tree. The (Name, Category) pair is the dedup key, case-sensitive as stored.
type ExtractedMaterial struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// MaterialMatch ties an extracted material to a catalog product. An empty
// ProductID with MatchNone means the contribution is unknown, not zero-impact.
type MaterialMatch struct {
	ProductID     string    `json:"product_id,omitempty"`
	ProductName   string    `json:"product_name,omitempty"`
	CarbonPerUnit float64   `json:"carbon_per_unit"`
	Confidence    float64   `json:"confidence"`
	MatchType     MatchType `json:"match_type"`
	Reasons       []string  `json:"reasons,omitempty"`
}

// MaterialAnalysis is the per-material line item persisted with the result.
type MaterialAnalysis struct {
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	Quantity        float64   `json:"quantity"`
	Unit            string    `json:"unit"`
	CarbonPerUnit   float64   `json:"carbon_per_unit"`
	TotalCarbonKg   float64   `json:"total_carbon_kg"`
	MatchedProduct  string    `json:"matched_product_id,omitempty"`
	MatchConfidence float64   `json:"match_confidence,omitempty"`
	MatchType       MatchType `json:"match_type"`
}

type CategoryCarbon struct {
	CarbonKg   float64 `json:"carbon_kg"`
	Percentage float64 `json:"percentage"`
}

type Contributor struct {
	MaterialName string  `json:"material_name"`
	CarbonKg     float64 `json:"carbon_kg"`
	Percentage   float64 `json:"percentage"`
}

type CarbonBreakdown struct {
	TotalKg         float64                   `json:"total_kg"`
	ByCategory      map[string]CategoryCarbon `json:"by_category"`
	TopContributors []Contributor             `json:"top_contributors"`
}

// Alternative is a lower-carbon substitute suggestion for a top contributor.
// Only emitted when the substitute's per-unit factor is strictly lower.
type Alternative struct {
	OriginalMaterial       string  `json:"original_material"`
	OriginalCarbonKg       float64 `json:"original_carbon_kg"`
	AlternativeName        string  `json:"alternative_name"`
	AlternativeCarbonKg    float64 `json:"alternative_carbon_kg"`
	CarbonReductionKg      float64 `json:"carbon_reduction_kg"`
	CarbonReductionPercent float64 `json:"carbon_reduction_percent"`
	ProductID              string  `json:"product_id"`
}

type AnalysisMetadata struct {
	ModelURN                string `json:"model_urn"`
	ModelName               string `json:"model_name"`
	ExtractedMaterialsCount int    `json:"extracted_materials_count"`
	MatchedMaterialsCount   int    `json:"matched_materials_count"`
	UnmatchedMaterialsCount int    `json:"unmatched_materials_count"`
}

type AnalysisResult struct {
	Materials []MaterialAnalysis `json:"materials"`
	Breakdown CarbonBreakdown    `json:"breakdown"`
	Metadata  AnalysisMetadata   `json:"metadata"`
}

// Product is a verified catalog record with a per-unit GWP factor
// (kg CO2e per declared unit).
type Product struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Description   string  `json:"description,omitempty"`
	CarbonPerUnit float64 `json:"carbon_per_unit"`
	DeclaredUnit  string  `json:"declared_unit,omitempty"`
	Source        string  `json:"source,omitempty"`
}
