package areas

import (
	"sort"
	"time"
)

// Summary aggregates the dataset for the maps overview
type Summary struct {
	AvgCO2        float64 `json:"avgCO2"`
	MumbaiAvg     float64 `json:"mumbaiAvg"`
	NaviMumbaiAvg float64 `json:"naviMumbaiAvg"`
	Top           []Area  `json:"topAreas"`
	Bottom        []Area  `json:"bottomAreas"`
}

func meanCO2(list []Area) float64 {
	if len(list) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range list {
		sum += a.CO2()
	}
	return sum / float64(len(list))
}

// Summarize computes city averages and the three highest and lowest areas
func Summarize() Summary {
	sorted := All()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CO2() > sorted[j].CO2()
	})

	bottom := make([]Area, 0, 3)
	for i := len(sorted) - 1; i >= 0 && len(bottom) < 3; i-- {
		bottom = append(bottom, sorted[i])
	}

	return Summary{
		AvgCO2:        round(meanCO2(dataset), 1),
		MumbaiAvg:     round(meanCO2(InCity(CityMumbai)), 1),
		NaviMumbaiAvg: round(meanCO2(InCity(CityNaviMumbai)), 1),
		Top:           sorted[:3],
		Bottom:        bottom,
	}
}

// PeakPrediction is the highest month in an area's seasonal outlook
type PeakPrediction struct {
	Month  string  `json:"month"`
	Season string  `json:"season"`
	Value  float64 `json:"value"`
}

// quarterSeasons assigns the coarse season used for area outlooks, one per quarter
var quarterSeasons = [4]string{"Winter", "Summer", "Monsoon", "Winter"}

var quarterMultipliers = map[string]float64{
	"Winter":  1.0,
	"Summer":  1.05,
	"Monsoon": 0.95,
}

// PredictPeak projects the area's total across a year with up to ±10 of
// jitter per month and returns the highest month.
func PredictPeak(a Area, rand func() float64) PeakPrediction {
	var peak PeakPrediction
	max := 0.0
	for i := 0; i < 12; i++ {
		season := quarterSeasons[i/3]
		prediction := a.CO2()*quarterMultipliers[season] + (rand()-0.5)*20
		if prediction > max {
			max = prediction
			peak = PeakPrediction{
				Month:  time.Month(i + 1).String()[:3],
				Season: season,
			}
		}
	}
	peak.Value = round(max, 1)
	return peak
}
