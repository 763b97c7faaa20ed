package derivative

import (
	"strconv"
	"strings"

	"github.com/greenchainz/carbon-analysis/internal/core/domain"
)

var (
	materialAliases = []string{"Material", "Material Name", "material"}
	categoryAliases = []string{"Category", "category"}
	volumeAliases   = []string{"Volume", "volume"}
	areaAliases     = []string{"Area", "area"}
)

const (
	unknownMaterialName = "Unknown Material"
	defaultCategory     = "General"
)

// collectMaterials flattens a property tree into material rows. Objects with
// no material property land under "Unknown Material" so they still count.
// Rows sharing a (name, category) pair accumulate quantity; the pair is
// compared exactly as authored, so "Concrete" and "concrete" stay separate.
// Output preserves first-seen order.
func collectMaterials(props *propertiesResponse) []domain.ExtractedMaterial {
	type key struct {
		name     string
		category string
	}
	index := make(map[key]int)
	out := make([]domain.ExtractedMaterial, 0)

	for _, obj := range props.Data.Collection {
		name := lookupString(obj.Properties, materialAliases)
		if name == "" {
			name = unknownMaterialName
		}
		category := lookupString(obj.Properties, categoryAliases)
		if category == "" {
			category = defaultCategory
		}
		quantity, unit := resolveQuantity(obj.Properties)

		k := key{name: name, category: category}
		if i, ok := index[k]; ok {
			// The first-seen unit labels the row; later rows still add their
			// quantity even when measured on a different basis.
			out[i].Quantity += quantity
			continue
		}
		index[k] = len(out)
		out = append(out, domain.ExtractedMaterial{
			Name:     name,
			Category: category,
			Quantity: quantity,
			Unit:     unit,
		})
	}
	return out
}

// resolveQuantity prefers a positive volume, then a positive area, then a
// unit count of one so the material still appears in the result.
func resolveQuantity(props map[string]map[string]any) (float64, string) {
	if volume := lookupNumber(props, volumeAliases); volume > 0 {
		return volume, "m³"
	}
	if area := lookupNumber(props, areaAliases); area > 0 {
		return area, "m²"
	}
	return 1, "unit"
}

// The alias loop is the outer one so that alias priority holds across
// property groups; map iteration order never picks the winner.
func lookupString(props map[string]map[string]any, aliases []string) string {
	for _, alias := range aliases {
		for _, group := range props {
			if raw, ok := group[alias]; ok {
				if s := strings.TrimSpace(stringValue(raw)); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

func lookupNumber(props map[string]map[string]any, aliases []string) float64 {
	for _, alias := range aliases {
		for _, group := range props {
			if raw, ok := group[alias]; ok {
				if n, ok := numberValue(raw); ok {
					return n
				}
			}
		}
	}
	return 0
}

func stringValue(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// numberValue accepts raw numbers and numeric strings with a trailing unit
// suffix, e.g. "12.5 m³".
func numberValue(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		fields := strings.Fields(strings.TrimSpace(v))
		if len(fields) == 0 {
			return 0, false
		}
		n, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
