package areas

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"carbon-footprint/footprint-backend/pkg/geospatial"
)

// Point returns the map position of the area
func (a Area) Point() orb.Point {
	return geospatial.NewPoint(a.Latitude, a.Longitude)
}

// FeatureCollection renders scenario results as GeoJSON points styled by level
func FeatureCollection(results []ScenarioResult) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range results {
		fc.Append(geospatial.PointFeature(r.Point(), map[string]interface{}{
			"city":        r.City,
			"area":        r.Name,
			"co2":         r.CO2,
			"level":       string(r.Level),
			"color":       r.Color,
			"marker_size": r.Level.MarkerSize(),
			"breakdown":   r.Breakdown,
		}))
	}
	return fc
}

// Nearest returns the area closest to the given coordinates and its distance in km
func Nearest(lat, lng float64) (Area, float64, error) {
	if err := geospatial.ValidateCoordinates(lat, lng); err != nil {
		return Area{}, 0, fmt.Errorf("failed to find nearest area: %w", err)
	}

	target := geospatial.NewPoint(lat, lng)
	best := Area{}
	bestDistance := math.Inf(1)
	for _, a := range dataset {
		d := geospatial.DistanceKm(target, a.Point())
		if d < bestDistance {
			best = a
			bestDistance = d
		}
	}
	return best, round(bestDistance, 2), nil
}

// Center returns the centroid of all known areas, used to position the map
func Center() orb.Point {
	points := make([]orb.Point, len(dataset))
	for i, a := range dataset {
		points[i] = a.Point()
	}
	return geospatial.CalculateCentroid(points)
}
