package areas

// Sector is an emitting sector of an urban area
type Sector string

const (
	SectorResidential  Sector = "Residential"
	SectorCorporate    Sector = "Corporate"
	SectorIndustrial   Sector = "Industrial"
	SectorVehicular    Sector = "Vehicular"
	SectorConstruction Sector = "Construction"
	SectorAirport      Sector = "Airport"
)

// Sectors lists every sector in display order
var Sectors = []Sector{
	SectorResidential,
	SectorCorporate,
	SectorIndustrial,
	SectorVehicular,
	SectorConstruction,
	SectorAirport,
}

// Cities covered by the area dataset
const (
	CityMumbai     = "Mumbai"
	CityNaviMumbai = "Navi Mumbai"
)

// SectorFactors are per-person monthly emissions (kg CO2) by sector
type SectorFactors struct {
	Residential  float64 `json:"Residential"`
	Corporate    float64 `json:"Corporate"`
	Industrial   float64 `json:"Industrial"`
	Vehicular    float64 `json:"Vehicular"`
	Construction float64 `json:"Construction"`
	Airport      float64 `json:"Airport"`
}

// Get returns the factor for one sector
func (f SectorFactors) Get(s Sector) float64 {
	switch s {
	case SectorResidential:
		return f.Residential
	case SectorCorporate:
		return f.Corporate
	case SectorIndustrial:
		return f.Industrial
	case SectorVehicular:
		return f.Vehicular
	case SectorConstruction:
		return f.Construction
	case SectorAirport:
		return f.Airport
	}
	return 0
}

// Total sums all sectors
func (f SectorFactors) Total() float64 {
	return f.Residential + f.Corporate + f.Industrial + f.Vehicular + f.Construction + f.Airport
}

// Area is a neighbourhood with its sector emission profile and map position
type Area struct {
	City      string        `json:"city"`
	Name      string        `json:"area"`
	Factors   SectorFactors `json:"factors"`
	Latitude  float64       `json:"lat"`
	Longitude float64       `json:"lng"`
}

// CO2 returns the total per-person monthly emissions of the area
func (a Area) CO2() float64 {
	return a.Factors.Total()
}

var dataset = []Area{
	{CityMumbai, "Andheri (Airport area)", SectorFactors{39.00, 31.20, 7.80, 117.00, 26.00, 39.00}, 19.1136, 72.8697},
	{CityMumbai, "BKC", SectorFactors{24.00, 132.00, 4.80, 60.00, 14.40, 4.80}, 19.0544, 72.8406},
	{CityMumbai, "Borivali", SectorFactors{73.50, 16.80, 6.30, 94.50, 14.70, 4.20}, 19.2307, 72.8607},
	{CityMumbai, "Chembur", SectorFactors{30.60, 25.50, 114.75, 63.75, 15.30, 5.10}, 19.0519, 72.8955},
	{CityMumbai, "Goregaon", SectorFactors{57.50, 46.00, 18.40, 92.00, 11.50, 4.60}, 19.1547, 72.8575},
	{CityMumbai, "Malad West", SectorFactors{67.50, 22.50, 13.50, 101.25, 15.75, 4.50}, 19.1861, 72.8481},
	{CityMumbai, "Mazgaon", SectorFactors{42.30, 35.25, 47.00, 82.25, 23.50, 4.70}, 18.9878, 72.8364},
	{CityMumbai, "Sion", SectorFactors{52.80, 36.00, 36.00, 91.20, 19.20, 4.80}, 19.0176, 72.8562},
	{CityMumbai, "Worli", SectorFactors{45.00, 56.25, 11.25, 90.00, 18.00, 4.50}, 19.0176, 72.8262},

	{CityNaviMumbai, "Airoli", SectorFactors{63.00, 33.75, 40.50, 72.00, 11.25, 4.50}, 19.1506, 72.9961},
	{CityNaviMumbai, "CBD Belapur", SectorFactors{57.40, 61.50, 8.20, 61.50, 12.30, 4.10}, 19.0167, 73.0333},
	{CityNaviMumbai, "Ghansoli", SectorFactors{61.25, 29.40, 61.25, 73.50, 14.70, 4.90}, 19.1167, 73.0000},
	{CityNaviMumbai, "Kharghar", SectorFactors{72.00, 36.00, 28.80, 84.00, 14.40, 4.80}, 19.0506, 73.0619},
	{CityNaviMumbai, "Koparkhairane", SectorFactors{73.60, 34.50, 27.60, 75.90, 13.80, 4.60}, 19.1036, 73.0103},
	{CityNaviMumbai, "Nerul", SectorFactors{75.90, 34.50, 18.40, 80.50, 16.10, 4.60}, 19.0330, 73.0197},
	{CityNaviMumbai, "Taloja", SectorFactors{14.25, 8.55, 199.50, 42.75, 14.25, 5.70}, 19.0833, 73.0833},
	{CityNaviMumbai, "Turbhe", SectorFactors{21.20, 13.25, 145.75, 66.25, 13.25, 5.30}, 19.0668, 73.0211},
	{CityNaviMumbai, "Vashi", SectorFactors{70.50, 35.25, 23.50, 82.25, 18.80, 4.70}, 19.0736, 72.9986},
}

// cityDefaults is the area used when a city is known but the area is not
var cityDefaults = map[string]string{
	CityMumbai:     "Borivali",
	CityNaviMumbai: "Vashi",
}

// All returns a copy of every known area
func All() []Area {
	out := make([]Area, len(dataset))
	copy(out, dataset)
	return out
}
