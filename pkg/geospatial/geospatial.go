package geospatial

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
)

// NewPoint builds an orb point from latitude and longitude. GeoJSON stores
// longitude first.
func NewPoint(lat, lng float64) orb.Point {
	return orb.Point{lng, lat}
}

// ValidateCoordinates checks that a latitude/longitude pair is on the globe
func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return errors.New("invalid coordinates: not a number")
	}
	if lat < -90 || lat > 90 {
		return errors.New("invalid coordinates: latitude out of range")
	}
	if lng < -180 || lng > 180 {
		return errors.New("invalid coordinates: longitude out of range")
	}
	return nil
}

// DistanceKm returns the great-circle distance between two points in kilometres
func DistanceKm(a, b orb.Point) float64 {
	return geo.DistanceHaversine(a, b) / 1000
}

// CalculateCentroid calculates the centroid of a set of points
func CalculateCentroid(points []orb.Point) orb.Point {
	if len(points) == 0 {
		return orb.Point{}
	}
	return orb.MultiPoint(points).Bound().Center()
}

// Bounds returns the bounding box of a set of points
func Bounds(points []orb.Point) orb.Bound {
	return orb.MultiPoint(points).Bound()
}

// PointFeature creates a GeoJSON point feature with the given properties
func PointFeature(p orb.Point, properties map[string]interface{}) *geojson.Feature {
	feature := geojson.NewFeature(p)
	for k, v := range properties {
		feature.Properties[k] = v
	}
	return feature
}

// ParseFeatureCollection decodes and validates a GeoJSON feature collection
func ParseFeatureCollection(data []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}
	for _, f := range fc.Features {
		if f.Geometry == nil {
			return nil, errors.New("invalid GeoJSON: feature without geometry")
		}
	}
	return fc, nil
}
