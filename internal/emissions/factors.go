package emissions

// Category identifies an emission category shown in the breakdown
type Category string

const (
	CategoryTransportation Category = "Transportation"
	CategoryElectricity    Category = "Electricity"
	CategoryLPG            Category = "LPG/Gas"
	CategoryAirTravel      Category = "Air Travel"
	CategoryMeat           Category = "Meat Consumption"
	CategoryDiningOut      Category = "Dining Out"
	CategoryWaste          Category = "Waste"

	// Derived categories, computed from categorical survey answers
	CategoryShopping  Category = "Shopping"
	CategoryDiet      Category = "Diet"
	CategoryHeating   Category = "Heating"
	CategoryRecycling Category = "Recycling"
	CategoryCooking   Category = "Cooking"
	CategorySocial    Category = "Social"
)

// Emission factors in kg CO2 per unit
const (
	FactorTransportation = 0.21 // per km
	FactorAirTravel      = 90.0 // per flight hour
	FactorMeatMeals      = 2.5  // per meal
	FactorDiningOut      = 3.2  // per meal
	FactorElectricity    = 0.45 // per kWh
	FactorLPG            = 3.0  // per kg
	FactorWaste          = 0.5  // per kg
)

// CategoryInfo holds display metadata for a category
type CategoryInfo struct {
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

var categoryInfo = map[Category]CategoryInfo{
	CategoryTransportation: {Icon: "🚗", Color: "#20B2AA", Description: "Vehicle travel by distance"},
	CategoryElectricity:    {Icon: "⚡", Color: "#0000FF", Description: "Household electricity consumption"},
	CategoryLPG:            {Icon: "🔥", Color: "#8A2BE2", Description: "Cooking and heating gas"},
	CategoryAirTravel:      {Icon: "✈️", Color: "#FF4500", Description: "Flight hours"},
	CategoryMeat:           {Icon: "🥩", Color: "#FF0000", Description: "Meat based meals"},
	CategoryDiningOut:      {Icon: "🍽️", Color: "#00BFFF", Description: "Restaurant meals"},
	CategoryWaste:          {Icon: "🗑️", Color: "#FF8C00", Description: "Household waste"},
	CategoryShopping:       {Icon: "🛍️", Color: "#EC4899", Description: "Goods bought alongside food habits"},
	CategoryDiet:           {Icon: "🥗", Color: "#22C55E", Description: "Diet choice adjustment"},
	CategoryHeating:        {Icon: "🌡️", Color: "#F97316", Description: "Space heating share of electricity"},
	CategoryRecycling:      {Icon: "♻️", Color: "#10B981", Description: "Recycling credit"},
	CategoryCooking:        {Icon: "🍳", Color: "#EAB308", Description: "Cooking energy share"},
	CategorySocial:         {Icon: "🎉", Color: "#A855F7", Description: "Social activity"},
}

// Info returns display metadata for the category
func (c Category) Info() CategoryInfo {
	if info, ok := categoryInfo[c]; ok {
		return info
	}
	return CategoryInfo{Icon: "📊", Color: "#6B7280"}
}

// primaryCategory binds a survey field to its factor
type primaryCategory struct {
	category Category
	factor   float64
	value    func(*SurveyInput) float64
}

// primaryCategories is ordered; the order is the tie-break for TopN.
var primaryCategories = []primaryCategory{
	{CategoryTransportation, FactorTransportation, func(s *SurveyInput) float64 { return s.Transportation }},
	{CategoryElectricity, FactorElectricity, func(s *SurveyInput) float64 { return s.Electricity }},
	{CategoryLPG, FactorLPG, func(s *SurveyInput) float64 { return s.LPGUsage }},
	{CategoryAirTravel, FactorAirTravel, func(s *SurveyInput) float64 { return s.AirTravel }},
	{CategoryMeat, FactorMeatMeals, func(s *SurveyInput) float64 { return s.MeatMeals }},
	{CategoryDiningOut, FactorDiningOut, func(s *SurveyInput) float64 { return s.DiningOut }},
	{CategoryWaste, FactorWaste, func(s *SurveyInput) float64 { return s.Waste }},
}

// PrimaryCategories returns the seven survey-driven categories in breakdown order
func PrimaryCategories() []Category {
	out := make([]Category, len(primaryCategories))
	for i, pc := range primaryCategories {
		out[i] = pc.category
	}
	return out
}
