package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type ZonesConfig struct {
	Zones []Zone `yaml:"zones"`
}

// Zone is the config-level shape of a geofence. Order matters: classification
// checks zones in list order and the first match wins.
type Zone struct {
	Name   string  `json:"name" yaml:"name"`
	Lat    float64 `json:"lat" yaml:"lat"`
	Lon    float64 `json:"lon" yaml:"lon"`
	Radius float64 `json:"radius" yaml:"radius"`
	Level  string  `json:"level" yaml:"level"`
}

// defaultZones covers the Chennai pilot area. Danger zones are listed before
// near zones.
var defaultZones = []Zone{
	{Name: "Zone 1", Lat: 12.900, Lon: 80.100, Radius: 0.010, Level: "danger"},
	{Name: "Guindy Park", Lat: 13.0105, Lon: 80.2201, Radius: 0.010, Level: "danger"},
	{Name: "Marina Beach", Lat: 13.0500, Lon: 80.2800, Radius: 0.008, Level: "danger"},
	{Name: "Mahabalipuram", Lat: 12.6200, Lon: 80.1900, Radius: 0.010, Level: "danger"},
	{Name: "Zone 2", Lat: 12.920, Lon: 80.080, Radius: 0.030, Level: "near"},
	{Name: "IIT Madras Edge", Lat: 13.0080, Lon: 80.2400, Radius: 0.020, Level: "near"},
	{Name: "Besant Nagar Beach", Lat: 13.0000, Lon: 80.2660, Radius: 0.015, Level: "near"},
	{Name: "East Coast Road", Lat: 13.0200, Lon: 80.2600, Radius: 0.020, Level: "near"},
}

func loadZonesConfig() (*ZonesConfig, error) {
	raw := os.Getenv("SAFETY_ZONES")
	if raw == "" {
		return &ZonesConfig{Zones: defaultZones}, nil
	}

	var zones []Zone
	if err := json.Unmarshal([]byte(raw), &zones); err != nil {
		return nil, fmt.Errorf("invalid SAFETY_ZONES: %w", err)
	}

	return &ZonesConfig{Zones: zones}, nil
}
