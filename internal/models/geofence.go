package models

type ZoneLevel string

const (
	ZoneLevelSafe   ZoneLevel = "safe"
	ZoneLevelNear   ZoneLevel = "near"
	ZoneLevelDanger ZoneLevel = "danger"
)

// Geofence is a circular region in raw coordinate units. The fence list is
// loaded at startup and never mutated afterwards.
type Geofence struct {
	Name   string    `json:"name" bson:"name"`
	Lat    float64   `json:"lat" bson:"lat"`
	Lon    float64   `json:"lon" bson:"lon"`
	Radius float64   `json:"radius" bson:"radius"`
	Level  ZoneLevel `json:"level" bson:"level"`
}
