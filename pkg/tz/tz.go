package tz

import (
	"fmt"
	"time"
)

// DefaultZone is the zone used when none is configured.
const DefaultZone = "Asia/Tokyo"

// Load resolves an IANA zone name. An empty name resolves DefaultZone.
func Load(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("tz: load %s: %w", name, err)
	}
	return loc, nil
}

// MustLoad is Load for package-level initialisation and tests.
func MustLoad(name string) *time.Location {
	loc, err := Load(name)
	if err != nil {
		panic(err.Error())
	}
	return loc
}
