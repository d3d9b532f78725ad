package services

import (
	"fmt"
	"math"

	"popays-telegram/models"
)

const earthRadiusKm = 6371.0

// HaversineDistanceKm returns the great-circle distance in kilometers
// between two points given in decimal degrees. Full precision — rounding
// for display is the caller's job. Does not validate coordinate ranges.
func HaversineDistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// NearestBranch scans the registry and returns the branch closest to the
// customer. Ties keep the first branch in registration order: the minimum
// is only replaced on strict improvement. An empty registry is a
// configuration error.
func NearestBranch(lat, lon float64, branches []models.Branch) (models.Branch, float64, error) {
	if len(branches) == 0 {
		return models.Branch{}, 0, fmt.Errorf("branch registry is empty")
	}
	nearest := branches[0]
	minDist := HaversineDistanceKm(lat, lon, branches[0].Lat, branches[0].Lon)
	for _, b := range branches[1:] {
		d := HaversineDistanceKm(lat, lon, b.Lat, b.Lon)
		if d < minDist {
			minDist = d
			nearest = b
		}
	}
	return nearest, minDist, nil
}
