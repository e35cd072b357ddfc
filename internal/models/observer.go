package models

import "time"

// Observer is a registered device watching for convective activity around
// its last reported location. The push token doubles as the identifier.
type Observer struct {
	Token       string
	Latitude    float64 // rounded to 2 decimals before storage
	Longitude   float64
	LastUpdated time.Time
	IsActive    bool
}
