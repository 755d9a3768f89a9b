package batch

import "dispatch/internal/core/domain/model/kernel"

// PickupLocation is where the driver collects every order of the batch.
type PickupLocation struct {
	Address      string             `json:"address"`
	Coordinates  *kernel.Coordinate `json:"coordinates,omitempty"`
	ContactName  string             `json:"contact_name"`
	ContactPhone string             `json:"contact_phone"`
	Instructions string             `json:"instructions,omitempty"`
}

// ScheduledPickup is the optional pickup slot as entered by the merchant.
type ScheduledPickup struct {
	Date string `json:"date"`
	Time string `json:"time"`
}
