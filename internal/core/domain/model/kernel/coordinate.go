package kernel

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"
)

const (
	// EarthRadiusKm is the mean Earth radius used by DistanceKm.
	EarthRadiusKm = 6371.0

	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// Coordinate is a WGS84 latitude/longitude pair.
//
// The zero value is the (0,0) origin. Callers that hold an optional coordinate
// (*Coordinate) substitute the origin through OrOrigin when a distance or sort
// key is still required.
//
// Example:
//
//	pickup, err := kernel.NewCoordinate(25.2048, 55.2708)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(pickup) // Coordinate(25.204800,55.270800)
type Coordinate struct {
	latitude  float64
	longitude float64
}

// NewCoordinate validates that both components are finite and within range.
//
// Parameters:
//   - latitude: degrees in [-90, 90]
//   - longitude: degrees in [-180, 180]
//
// Returns:
//   - Coordinate: the validated value
//   - error: joined range errors for every invalid component
func NewCoordinate(latitude, longitude float64) (Coordinate, error) {
	c := Coordinate{}
	if err := errors.Join(c.setLatitude(latitude), c.setLongitude(longitude)); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// MustNewCoordinate panics on invalid input. Intended for fixtures and constants.
func MustNewCoordinate(latitude, longitude float64) Coordinate {
	c, err := NewCoordinate(latitude, longitude)
	if err != nil {
		panic(err)
	}
	return c
}

// OrOrigin dereferences c, returning the (0,0) origin for nil.
func OrOrigin(c *Coordinate) Coordinate {
	if c == nil {
		return Coordinate{}
	}
	return *c
}

func (c Coordinate) Latitude() float64 {
	return c.latitude
}

func (c Coordinate) Longitude() float64 {
	return c.longitude
}

func (c Coordinate) IsEqual(other Coordinate) bool {
	return c == other
}

func (c Coordinate) String() string {
	return fmt.Sprintf("Coordinate(%f,%f)", c.latitude, c.longitude)
}

// DistanceKm returns the great-circle distance between a and b using the
// haversine formula. It is symmetric and DistanceKm(a, a) == 0.
//
// Example:
//
//	dubai := kernel.MustNewCoordinate(25.2048, 55.2708)
//	abuDhabi := kernel.MustNewCoordinate(24.4539, 54.3773)
//	kernel.DistanceKm(dubai, abuDhabi) // ~122.9
func DistanceKm(a, b Coordinate) float64 {
	lat1 := toRadians(a.latitude)
	lat2 := toRadians(b.latitude)
	dLat := toRadians(b.latitude - a.latitude)
	dLng := toRadians(b.longitude - a.longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	// rounding can push h a hair above 1 for antipodal points
	h = math.Min(1, h)

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

type coordinateJSON struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal(coordinateJSON{Latitude: c.latitude, Longitude: c.longitude})
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var raw coordinateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewCoordinate(raw.Latitude, raw.Longitude)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c *Coordinate) setLatitude(latitude float64) error {
	if math.IsNaN(latitude) || latitude < MinLatitude || latitude > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, MinLatitude, MaxLatitude)
	}
	c.latitude = latitude
	return nil
}

func (c *Coordinate) setLongitude(longitude float64) error {
	if math.IsNaN(longitude) || longitude < MinLongitude || longitude > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, MinLongitude, MaxLongitude)
	}
	c.longitude = longitude
	return nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
