package zones

import (
	"math"

	"touristsafety/internal/config"
	"touristsafety/internal/models"
)

// Classifier maps a coordinate to a zone level against an ordered list of
// circular geofences. Distance is plain Euclidean distance in coordinate
// units, not geodesic: at city scale the planar approximation is close enough
// and keeps classification trivially cheap.
type Classifier struct {
	fences []models.Geofence
}

func NewClassifier(fences []models.Geofence) *Classifier {
	return &Classifier{fences: fences}
}

// NewClassifierFromConfig builds a classifier from the config-level zone list,
// preserving order.
func NewClassifierFromConfig(cfg *config.ZonesConfig) *Classifier {
	fences := make([]models.Geofence, 0, len(cfg.Zones))
	for _, z := range cfg.Zones {
		fences = append(fences, models.Geofence{
			Name:   z.Name,
			Lat:    z.Lat,
			Lon:    z.Lon,
			Radius: z.Radius,
			Level:  models.ZoneLevel(z.Level),
		})
	}
	return NewClassifier(fences)
}

// Classify returns the level of the first fence containing the point, in list
// order, or safe when no fence matches. A point exactly on a fence boundary
// counts as inside.
func (c *Classifier) Classify(lat, lon float64) models.ZoneLevel {
	for _, fence := range c.fences {
		dist := math.Sqrt(math.Pow(lat-fence.Lat, 2) + math.Pow(lon-fence.Lon, 2))
		if dist <= fence.Radius {
			return fence.Level
		}
	}
	return models.ZoneLevelSafe
}
