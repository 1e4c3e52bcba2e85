package areas

import (
	"math"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MatchKind reports how a lookup was resolved
type MatchKind string

const (
	MatchExact       MatchKind = "exact"
	MatchPartial     MatchKind = "partial"
	MatchCityDefault MatchKind = "city_default"
	MatchNone        MatchKind = "none"
)

// Lookup resolves an area in three steps: exact name, then a known area whose
// first word appears in the requested name, then the city's default area.
func Lookup(city, area string) (Area, MatchKind) {
	for _, a := range dataset {
		if a.City == city && a.Name == area {
			return a, MatchExact
		}
	}

	requested := strings.ToLower(area)
	for _, a := range dataset {
		if a.City != city {
			continue
		}
		firstWord := strings.ToLower(strings.Fields(a.Name)[0])
		if strings.Contains(requested, firstWord) {
			return a, MatchPartial
		}
	}

	if name, ok := cityDefaults[city]; ok {
		for _, a := range dataset {
			if a.City == city && a.Name == name {
				return a, MatchCityDefault
			}
		}
	}

	return Area{City: city, Name: area}, MatchNone
}

// SectorEmissions returns the sector profile for an area rounded to two
// decimals, or all zeros when the area cannot be resolved.
func SectorEmissions(city, area string) SectorFactors {
	a, kind := Lookup(city, area)
	if kind == MatchNone {
		return SectorFactors{}
	}
	f := a.Factors
	return SectorFactors{
		Residential:  round(f.Residential, 2),
		Corporate:    round(f.Corporate, 2),
		Industrial:   round(f.Industrial, 2),
		Vehicular:    round(f.Vehicular, 2),
		Construction: round(f.Construction, 2),
		Airport:      round(f.Airport, 2),
	}
}

// Search ranks area names by fuzzy similarity to the query, best match first
func Search(query string, limit int) []Area {
	names := make([]string, len(dataset))
	byName := make(map[string]Area, len(dataset))
	for i, a := range dataset {
		names[i] = a.Name
		byName[a.Name] = a
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Stable(ranks)

	var out []Area
	for _, r := range ranks {
		out = append(out, byName[r.Target])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// InCity returns the areas of one city
func InCity(city string) []Area {
	var out []Area
	for _, a := range dataset {
		if a.City == city {
			out = append(out, a)
		}
	}
	return out
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(x*p+0.5) / p
}
