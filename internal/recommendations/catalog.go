package recommendations

// Difficulty of adopting a recommendation
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Group is a catalog section a high impact area maps to
type Group string

const (
	GroupTransport Group = "transport"
	GroupEnergy    Group = "energy"
	GroupDiet      Group = "diet"
	GroupWaste     Group = "waste"
	GroupLifestyle Group = "lifestyle"
)

// Recommendation is an action that lowers the footprint
type Recommendation struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	PotentialSavings float64    `json:"potential_savings"` // kg CO2 per month
	Difficulty       Difficulty `json:"difficulty"`
	Priority         int        `json:"priority"`
	Category         string     `json:"category"`
}

var catalog = map[Group][]Recommendation{
	GroupTransport: {
		{"Use Public Transportation", "Switch to buses, trains, or metro for daily commute. Reduces individual carbon footprint significantly.", 150, DifficultyMedium, 5, "Transport"},
		{"Carpool or Bike to Work", "Share rides with colleagues or use bicycle for short distances. Great for health and environment.", 80, DifficultyEasy, 4, "Transport"},
		{"Reduce Air Travel", "Choose train or bus for domestic travel. Consider video conferencing for business meetings.", 200, DifficultyHard, 3, "Transport"},
	},
	GroupEnergy: {
		{"Switch to LED Bulbs", "Replace incandescent bulbs with LED lights. Uses 75% less energy and lasts longer.", 25, DifficultyEasy, 5, "Energy"},
		{"Unplug Electronics", "Unplug chargers and electronics when not in use. Reduces phantom energy consumption.", 15, DifficultyEasy, 4, "Energy"},
		{"Use Energy-Efficient Appliances", "Replace old appliances with Energy Star rated ones. Significant long-term savings.", 60, DifficultyHard, 3, "Energy"},
	},
	GroupDiet: {
		{"Reduce Meat Consumption", "Have meat-free days or reduce portion sizes. Meat production has high carbon footprint.", 100, DifficultyMedium, 4, "Diet"},
		{"Buy Local and Seasonal Food", "Choose locally grown, seasonal produce. Reduces transportation emissions.", 30, DifficultyEasy, 3, "Diet"},
		{"Reduce Food Waste", "Plan meals, store food properly, and use leftovers. Reduces methane emissions from landfills.", 40, DifficultyMedium, 4, "Diet"},
	},
	GroupWaste: {
		{"Improve Recycling", "Recycle paper, plastic, glass, and metal properly. Reduces landfill waste and emissions.", 20, DifficultyEasy, 4, "Waste"},
		{"Compost Organic Waste", "Start composting kitchen scraps and garden waste. Creates nutrient-rich soil.", 35, DifficultyMedium, 3, "Waste"},
		{"Reduce Single-Use Plastics", "Use reusable bags, bottles, and containers. Reduces plastic waste significantly.", 25, DifficultyEasy, 4, "Waste"},
	},
	GroupLifestyle: {
		{"Reduce Screen Time", "Limit TV and computer usage. Saves energy and improves health.", 30, DifficultyHard, 2, "Lifestyle"},
		{"Buy Fewer Clothes", "Adopt minimal wardrobe approach. Fashion industry has high environmental impact.", 50, DifficultyMedium, 3, "Lifestyle"},
		{"Optimize Heating/Cooling", "Use programmable thermostats and proper insulation. Reduces energy consumption.", 45, DifficultyMedium, 3, "Lifestyle"},
	},
}

// groupOrder fixes iteration order over the catalog
var groupOrder = []Group{GroupTransport, GroupEnergy, GroupDiet, GroupWaste, GroupLifestyle}

// Catalog returns the recommendations of one group
func Catalog(g Group) []Recommendation {
	recs := catalog[g]
	out := make([]Recommendation, len(recs))
	copy(out, recs)
	return out
}
