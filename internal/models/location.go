package models

import (
	"fmt"
	"math"
)

type Location struct {
	Lat float64 `json:"lat" parquet:"name=lat,type=DOUBLE"`
	Lon float64 `json:"lon" parquet:"name=lon,type=DOUBLE"`
}

// Valid reports whether the coordinate is a finite point on the globe.
func (l Location) Valid() bool {
	if math.IsNaN(l.Lat) || math.IsNaN(l.Lon) || math.IsInf(l.Lat, 0) || math.IsInf(l.Lon, 0) {
		return false
	}
	return l.Lat >= -90 && l.Lat <= 90 && l.Lon >= -180 && l.Lon <= 180
}

func (l Location) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", l.Lat, l.Lon)
}

// LocationRole tags a TrackedLocation on the delivery map.
type LocationRole string

const (
	RolePickup  LocationRole = "pickup"
	RoleDropoff LocationRole = "dropoff"
	RoleVehicle LocationRole = "vehicle"
)

// TrackedLocation is one marker of a delivery run. Pickup and dropoff are
// fixed for a run; only the vehicle coordinates move.
type TrackedLocation struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Role        LocationRole `json:"role"`
	Coordinates Location     `json:"coordinates"`
}
