package emissions

import "time"

// Season is a climatic season on the Indian calendar
type Season string

const (
	SeasonWinter      Season = "Winter"
	SeasonSummer      Season = "Summer"
	SeasonMonsoon     Season = "Monsoon"
	SeasonPostMonsoon Season = "Post-Monsoon"
	SeasonSpring      Season = "Spring"
)

// SeasonInfo holds presentation metadata for a season
type SeasonInfo struct {
	Activities string `json:"activities"`
	Color      string `json:"color"`
	Icon       string `json:"icon"`
	BgColor    string `json:"bgColor"`
}

var seasonInfo = map[Season]SeasonInfo{
	SeasonWinter:      {Activities: "Heating, Indoor Activities", Color: "#3B82F6", Icon: "❄️", BgColor: "#EFF6FF"},
	SeasonSummer:      {Activities: "AC Usage, Outdoor Activities", Color: "#F59E0B", Icon: "☀️", BgColor: "#FFFBEB"},
	SeasonMonsoon:     {Activities: "Indoor Activities, Reduced Travel", Color: "#06B6D4", Icon: "🌧️", BgColor: "#F3F4F6"},
	SeasonPostMonsoon: {Activities: "Comfortable Weather, Outdoor", Color: "#8B5CF6", Icon: "🍂", BgColor: "#FEF2F2"},
	SeasonSpring:      {Activities: "Natural Ventilation", Color: "#10B981", Icon: "🌸", BgColor: "#ECFDF5"},
}

// Info returns presentation metadata for the season
func (s Season) Info() SeasonInfo {
	if info, ok := seasonInfo[s]; ok {
		return info
	}
	return SeasonInfo{Activities: "Various Activities", Color: "#6B7280", Icon: "🌱", BgColor: "#F9FAFB"}
}

// IndianSeason maps a calendar month to its season
func IndianSeason(month time.Month) Season {
	switch month {
	case time.December, time.January, time.February:
		return SeasonWinter
	case time.March, time.April, time.May:
		return SeasonSummer
	case time.June, time.July, time.August, time.September:
		return SeasonMonsoon
	default:
		return SeasonPostMonsoon
	}
}

// MonthProfile describes the typical climate of a calendar month in Mumbai,
// as shown alongside the forecast.
type MonthProfile struct {
	Season      Season `json:"season"`
	Temperature int    `json:"temperature"` // °C
	Activities  string `json:"activities"`
}

var monthProfiles = [12]MonthProfile{
	{SeasonWinter, 15, "Heating, Indoor"},
	{SeasonWinter, 18, "Heating, Indoor"},
	{SeasonSpring, 22, "Moderate Heating"},
	{SeasonSpring, 26, "Natural Ventilation"},
	{SeasonSummer, 30, "Cooling, Outdoor"},
	{SeasonSummer, 32, "Cooling, Outdoor"},
	{SeasonMonsoon, 28, "Humidity Control"},
	{SeasonMonsoon, 27, "Humidity Control"},
	{SeasonPostMonsoon, 26, "Comfortable"},
	{SeasonPostMonsoon, 25, "Comfortable"},
	{SeasonWinter, 20, "Light Heating"},
	{SeasonWinter, 17, "Heating, Indoor"},
}

// ProfileForMonth returns the climate profile of a calendar month
func ProfileForMonth(month time.Month) MonthProfile {
	return monthProfiles[month-1]
}

// seasonalFactors scale heating and cooling load per calendar month, January first
var seasonalFactors = [12]float64{1.15, 1.10, 1.00, 0.85, 0.75, 0.80, 0.90, 0.95, 1.00, 1.05, 1.10, 1.20}

// SeasonalFactor returns the load factor for a calendar month
func SeasonalFactor(month time.Month) float64 {
	return seasonalFactors[month-1]
}
