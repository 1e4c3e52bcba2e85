package recommendations

import (
	"fmt"
	"sort"

	"carbon-footprint/footprint-backend/internal/areas"
	"carbon-footprint/footprint-backend/internal/emissions"
)

// MaxRecommendations caps every recommendation list
const MaxRecommendations = 5

// HighImpactGroups inspects a survey and returns the catalog groups that
// deserve attention, in catalog order.
func HighImpactGroups(input *emissions.SurveyInput) []Group {
	breakdown := emissions.ComputeBreakdown(input)
	total := emissions.Total(breakdown)
	share := func(c emissions.Category) float64 {
		for _, e := range breakdown {
			if e.Name == c {
				return emissions.Percentage(e.Value, total)
			}
		}
		return 0
	}

	var groups []Group
	if input.Transportation > 1000 || input.AirTravel >= 8 {
		groups = append(groups, GroupTransport)
	}
	if input.Electricity > 300 || share(emissions.CategoryElectricity) > 25 {
		groups = append(groups, GroupEnergy)
	}
	if input.Diet != "Vegan" && input.Diet != "Vegetarian" && input.MeatMeals > 20 {
		groups = append(groups, GroupDiet)
	}
	if input.Waste > 7.5 || (input.Recycling != "Always" && input.Recycling != "Sometimes") {
		groups = append(groups, GroupWaste)
	}
	if input.SocialActivity == "High" || input.DiningOut > 10 {
		groups = append(groups, GroupLifestyle)
	}
	return groups
}

// specific returns recommendations tailored to exact survey values
func specific(input *emissions.SurveyInput) []Recommendation {
	var recs []Recommendation

	if input.Transportation > 2000 {
		recs = append(recs, Recommendation{
			Title:            "Consider Electric Vehicle",
			Description:      fmt.Sprintf("Your monthly distance of %gkm is high. An electric vehicle could reduce emissions by 70%%.", input.Transportation),
			PotentialSavings: 120,
			Difficulty:       DifficultyHard,
			Priority:         4,
			Category:         "Transport",
		})
	}
	if input.AirTravel >= 16 {
		recs = append(recs, Recommendation{
			Title:            "Video Conferencing for Business",
			Description:      "Replace some business trips with video calls. Each avoided flight saves significant CO2.",
			PotentialSavings: 300,
			Difficulty:       DifficultyMedium,
			Priority:         5,
			Category:         "Transport",
		})
	}
	if input.DiningOut > 15 {
		recs = append(recs, Recommendation{
			Title:            "Meal Planning",
			Description:      "Plan meals weekly to reduce food waste and dining out. Buy only what you need.",
			PotentialSavings: 60,
			Difficulty:       DifficultyMedium,
			Priority:         3,
			Category:         "Diet",
		})
	}
	if input.Recycling != "Always" && input.Recycling != "Sometimes" {
		recs = append(recs, Recommendation{
			Title:            "Expand Recycling Program",
			Description:      "You rarely recycle today. Separating paper, plastic and glass makes a measurable difference.",
			PotentialSavings: 30,
			Difficulty:       DifficultyEasy,
			Priority:         4,
			Category:         "Waste",
		})
	}
	return recs
}

// ForSurvey returns the top recommendations for a survey, ordered by
// priority and then potential savings, highest first.
func ForSurvey(input *emissions.SurveyInput) []Recommendation {
	if input == nil {
		return []Recommendation{}
	}

	var recs []Recommendation
	for _, g := range HighImpactGroups(input) {
		recs = append(recs, catalog[g]...)
	}
	recs = append(recs, specific(input)...)

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Priority != recs[j].Priority {
			return recs[i].Priority > recs[j].Priority
		}
		return recs[i].PotentialSavings > recs[j].PotentialSavings
	})

	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	if recs == nil {
		recs = []Recommendation{}
	}
	return recs
}

// ForArea returns recommendations driven by the local sector profile, the
// city and the current CO2 level. Order is significance of the local issue.
func ForArea(city, area string, currentCO2 float64) []Recommendation {
	var recs []Recommendation

	profile := areas.SectorEmissions(city, area)
	if profile.Industrial > 100 {
		recs = append(recs, Recommendation{
			Title:            "Air Quality Awareness",
			Description:      fmt.Sprintf("Industrial areas like %s have higher pollution. Use air purifiers and masks when needed.", area),
			PotentialSavings: 20,
			Difficulty:       DifficultyEasy,
			Priority:         3,
			Category:         "Health",
		})
	}
	if profile.Vehicular > 90 {
		recs = append(recs, Recommendation{
			Title:            "Traffic-Aware Commuting",
			Description:      "High traffic area. Use real-time traffic apps to avoid congestion and reduce idling.",
			PotentialSavings: 35,
			Difficulty:       DifficultyEasy,
			Priority:         4,
			Category:         "Transport",
		})
	}
	if profile.Construction > 20 {
		recs = append(recs, Recommendation{
			Title:            "Dust Protection",
			Description:      "Construction areas generate dust. Keep windows closed and use air filters.",
			PotentialSavings: 15,
			Difficulty:       DifficultyEasy,
			Priority:         2,
			Category:         "Health",
		})
	}

	switch city {
	case areas.CityMumbai:
		recs = append(recs, Recommendation{
			Title:            "Use Mumbai Metro",
			Description:      "Mumbai Metro is expanding. Use it for daily commute to reduce traffic congestion.",
			PotentialSavings: 80,
			Difficulty:       DifficultyMedium,
			Priority:         4,
			Category:         "Transport",
		})
	case areas.CityNaviMumbai:
		recs = append(recs, Recommendation{
			Title:            "Navi Mumbai's Green Spaces",
			Description:      "Take advantage of Navi Mumbai's planned green spaces for outdoor activities.",
			PotentialSavings: 25,
			Difficulty:       DifficultyEasy,
			Priority:         2,
			Category:         "Lifestyle",
		})
	}

	switch {
	case currentCO2 > 4000:
		recs = append(recs, Recommendation{
			Title:            "Comprehensive Carbon Audit",
			Description:      "Your CO2 levels are high. Consider a comprehensive lifestyle audit and major changes.",
			PotentialSavings: 200,
			Difficulty:       DifficultyHard,
			Priority:         5,
			Category:         "General",
		})
	case currentCO2 > 2500:
		recs = append(recs, Recommendation{
			Title:            "Moderate Lifestyle Changes",
			Description:      "Focus on 2-3 key areas for improvement. Small changes can make a big difference.",
			PotentialSavings: 100,
			Difficulty:       DifficultyMedium,
			Priority:         4,
			Category:         "General",
		})
	default:
		recs = append(recs, Recommendation{
			Title:            "Maintain Good Practices",
			Description:      "You're doing well! Focus on maintaining these practices and fine-tuning.",
			PotentialSavings: 50,
			Difficulty:       DifficultyEasy,
			Priority:         3,
			Category:         "General",
		})
	}

	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}
