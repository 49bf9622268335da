package weather

import (
	"strconv"
	"strings"
	"time"
)

// Query identifies what to look up: a free-text place name or a "lat,lon" pair.
type Query string

// PlaceQuery builds a query from user-entered place text.
func PlaceQuery(text string) Query {
	return Query(strings.TrimSpace(text))
}

// CoordinateQuery builds a "lat,lon" query.
func CoordinateQuery(lat, lon float64) Query {
	return Query(strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64))
}

func (q Query) String() string {
	return string(q)
}

// Location describes the place a reading was resolved to.
type Location struct {
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// String joins the non-empty name parts, e.g. "Paris, Ile-de-France, France".
func (l Location) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.Name, l.Region, l.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Reading is an immutable snapshot of current conditions.
type Reading struct {
	Location     Location  `json:"location"`
	ObservedAt   time.Time `json:"observedAt"` // always UTC
	TemperatureC float64   `json:"temperatureC"`
	FeelsLikeC   float64   `json:"feelsLikeC"`
	HeatIndexC   float64   `json:"heatIndexC"`
	HumidityPct  float64   `json:"humidityPercent"`
	WindKph      float64   `json:"windKph"`
	Condition    string    `json:"condition"`
}
