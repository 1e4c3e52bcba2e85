package areas

// CO2 level thresholds in kg per person per month
const (
	ThresholdLow    = 240.0
	ThresholdMedium = 260.0
	ThresholdHigh   = 280.0
)

// Level is a coarse CO2 classification used for map markers and filters
type Level string

const (
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

// Classify maps a CO2 value to its level
func Classify(co2 float64) Level {
	switch {
	case co2 <= ThresholdLow:
		return LevelLow
	case co2 <= ThresholdMedium:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// Color returns the marker color of the level
func (l Level) Color() string {
	switch l {
	case LevelLow:
		return "#10B981"
	case LevelMedium:
		return "#F59E0B"
	default:
		return "#EF4444"
	}
}

// MarkerSize returns the marker diameter in pixels for the level
func (l Level) MarkerSize() int {
	switch l {
	case LevelLow:
		return 24
	case LevelMedium:
		return 30
	default:
		return 36
	}
}

// Scenario toggles mitigation policies in the simulator
type Scenario struct {
	ElectricVehicles     bool `json:"electricVehicles"`
	RenewableEnergy      bool `json:"renewableEnergy"`
	GreenBuildings       bool `json:"greenBuildings"`
	PublicTransport      bool `json:"publicTransport"`
	WasteReduction       bool `json:"wasteReduction"`
	IndustrialEfficiency bool `json:"industrialEfficiency"`
}

// ScenarioResult is an area after applying a scenario
type ScenarioResult struct {
	Area
	OriginalCO2 float64       `json:"originalCo2"`
	CO2         float64       `json:"co2"`
	Multiplier  float64       `json:"multiplier"`
	Breakdown   SectorFactors `json:"breakdown"`
	Level       Level         `json:"level"`
	Color       string        `json:"color"`
}

// Apply scales the area's total by the product of all enabled policy factors
// and each affected sector by its own factors. Waste reduction only affects
// the total.
func (s Scenario) Apply(a Area) ScenarioResult {
	multiplier := 1.0
	b := a.Factors

	if s.ElectricVehicles {
		multiplier *= 0.85
		b.Vehicular *= 0.85
	}
	if s.RenewableEnergy {
		multiplier *= 0.90
		b.Residential *= 0.90
		b.Industrial *= 0.90
	}
	if s.GreenBuildings {
		multiplier *= 0.88
		b.Construction *= 0.88
	}
	if s.PublicTransport {
		multiplier *= 0.80
		b.Vehicular *= 0.80
	}
	if s.WasteReduction {
		multiplier *= 0.95
	}
	if s.IndustrialEfficiency {
		multiplier *= 0.82
		b.Industrial *= 0.82
	}

	co2 := round(a.CO2()*multiplier, 1)
	level := Classify(co2)
	return ScenarioResult{
		Area:        a,
		OriginalCO2: round(a.CO2(), 1),
		CO2:         co2,
		Multiplier:  multiplier,
		Breakdown: SectorFactors{
			Residential:  round(b.Residential, 1),
			Corporate:    round(b.Corporate, 1),
			Industrial:   round(b.Industrial, 1),
			Vehicular:    round(b.Vehicular, 1),
			Construction: round(b.Construction, 1),
			Airport:      round(b.Airport, 1),
		},
		Level: level,
		Color: level.Color(),
	}
}

// Filter narrows a scenario view. Empty fields and "All" match everything.
type Filter struct {
	Level  string `form:"co2Level" json:"co2Level"`
	City   string `form:"city" json:"city"`
	Sector string `form:"sector" json:"sector"`
}

func (f Filter) matches(r ScenarioResult) bool {
	if f.Level != "" && f.Level != "All" && Level(f.Level) != r.Level {
		return false
	}
	if f.City != "" && f.City != "All" && f.City != r.City {
		return false
	}
	if f.Sector != "" && f.Sector != "All" && r.Breakdown.Get(Sector(f.Sector)) <= 0 {
		return false
	}
	return true
}

// Simulate applies the scenario to every area and keeps those matching filter
func Simulate(s Scenario, filter Filter) []ScenarioResult {
	var out []ScenarioResult
	for _, a := range dataset {
		r := s.Apply(a)
		if filter.matches(r) {
			out = append(out, r)
		}
	}
	return out
}
