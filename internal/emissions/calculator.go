package emissions

import (
	"math"
	"sort"
)

// CategoryEmission is one slice of the footprint breakdown, in kg CO2
type CategoryEmission struct {
	Name  Category `json:"name"`
	Value float64  `json:"value"`
	Icon  string   `json:"icon"`
	Color string   `json:"color"`
}

// CategoryShare is a breakdown entry with its share of the total
type CategoryShare struct {
	CategoryEmission
	Percentage float64 `json:"percentage"`
}

// Round2 rounds half up to two decimal places
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// Round1 rounds half up to one decimal place
func Round1(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

// RoundInt rounds half up to the nearest integer
func RoundInt(x float64) float64 {
	return math.Floor(x + 0.5)
}

func newEmission(c Category, value float64) CategoryEmission {
	info := c.Info()
	return CategoryEmission{Name: c, Value: value, Icon: info.Icon, Color: info.Color}
}

// ComputeBreakdown multiplies each survey quantity by its emission factor.
// Only categories with a positive value are returned, in fixed category order.
func ComputeBreakdown(input *SurveyInput) []CategoryEmission {
	if input == nil {
		return []CategoryEmission{}
	}
	out := make([]CategoryEmission, 0, len(primaryCategories))
	for _, pc := range primaryCategories {
		value := Round2(pc.value(input) * pc.factor)
		if value > 0 {
			out = append(out, newEmission(pc.category, value))
		}
	}
	return out
}

// RecyclingCredit returns the (non-positive) credit for recycling habits
func RecyclingCredit(input *SurveyInput) float64 {
	if input == nil {
		return 0
	}
	switch input.Recycling {
	case "Always":
		return -5
	case "Sometimes":
		return -2
	}
	return 0
}

// derivedEmissions computes the secondary categories from categorical answers.
// Values are rounded to whole kilograms.
func derivedEmissions(input *SurveyInput) []CategoryEmission {
	dietFactor := 1.0
	switch input.Diet {
	case "Vegan":
		dietFactor = 0.3
	case "Vegetarian":
		dietFactor = 0.6
	}

	heatingFactor := 0.1
	if input.HeatingSource == "Electricity" {
		heatingFactor = 0.2
	}

	cookingFactor := 0.1
	if input.CookingEnergy == "LPG" {
		cookingFactor = 0.3
	}

	social := 3.0
	switch input.SocialActivity {
	case "High":
		social = 15
	case "Medium":
		social = 8
	}

	return []CategoryEmission{
		newEmission(CategoryShopping, RoundInt(input.MeatMeals*0.5+input.DiningOut*0.8)),
		newEmission(CategoryDiet, RoundInt(dietFactor*input.MeatMeals*0.5)),
		newEmission(CategoryHeating, RoundInt(heatingFactor*input.Electricity*FactorElectricity)),
		newEmission(CategoryRecycling, RecyclingCredit(input)),
		newEmission(CategoryCooking, RoundInt(cookingFactor*input.LPGUsage*FactorLPG)),
		newEmission(CategorySocial, social),
	}
}

// ComputeExtendedBreakdown returns the primary categories followed by the derived
// ones, filtered to positive values. The recycling credit never appears here;
// use RecyclingCredit to account for it.
func ComputeExtendedBreakdown(input *SurveyInput) []CategoryEmission {
	out := ComputeBreakdown(input)
	if input == nil {
		return out
	}
	for _, e := range derivedEmissions(input) {
		if e.Value > 0 {
			out = append(out, e)
		}
	}
	return out
}

// Total sums breakdown values
func Total(breakdown []CategoryEmission) float64 {
	total := 0.0
	for _, e := range breakdown {
		total += e.Value
	}
	return Round2(total)
}

// Percentage returns value as a percentage of total, or 0 when total is 0
func Percentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	p := value / total * 100
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	return p
}

// TopN returns the n largest entries. Equal values keep their breakdown order.
func TopN(breakdown []CategoryEmission, n int) []CategoryEmission {
	sorted := make([]CategoryEmission, len(breakdown))
	copy(sorted, breakdown)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value > sorted[j].Value
	})
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// WithShares annotates entries with their percentage of total, rounded to an integer
func WithShares(breakdown []CategoryEmission, total float64) []CategoryShare {
	out := make([]CategoryShare, len(breakdown))
	for i, e := range breakdown {
		out[i] = CategoryShare{
			CategoryEmission: e,
			Percentage:       RoundInt(Percentage(e.Value, total)),
		}
	}
	return out
}

// TopCategories returns the n largest primary categories with their integer
// percentage of the calculated total.
func TopCategories(input *SurveyInput, n int) []CategoryShare {
	breakdown := ComputeBreakdown(input)
	return WithShares(TopN(breakdown, n), Total(breakdown))
}
