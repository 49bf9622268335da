package geo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"
)

// geocodeFunc matches geocoder.Geocoding.
type geocodeFunc func(geocoder.Address) (geocoder.Location, error)

// HomeLocator resolves a fixed home address to coordinates through the
// Google Geocoding API.
type HomeLocator struct {
	address geocoder.Address
	geocode geocodeFunc
}

var keyOnce sync.Once

// NewHomeLocator returns a locator for the given address. The geocoder
// package keeps its key in a package variable, so only the first key wins.
func NewHomeLocator(apiKey, city, region, country string) (*HomeLocator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("geocoder api key is required")
	}
	if strings.TrimSpace(city) == "" {
		return nil, errors.New("home city is required")
	}

	keyOnce.Do(func() { geocoder.ApiKey = apiKey })

	return &HomeLocator{
		address: geocoder.Address{
			City:    city,
			State:   region,
			Country: country,
		},
		geocode: geocoder.Geocoding,
	}, nil
}

// Locate geocodes the home address. The geocoder call itself cannot be
// cancelled; ctx only bounds how long we wait for it.
func (h *HomeLocator) Locate(ctx context.Context) (Coordinates, error) {
	type result struct {
		loc geocoder.Location
		err error
	}
	ch := make(chan result, 1)

	go func() {
		loc, err := h.geocode(h.address)
		ch <- result{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return Coordinates{}, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return Coordinates{}, fmt.Errorf("%w: geocode %s: %v", ErrPositionUnavailable, h.address.City, r.err)
		}
		return Coordinates{Lat: r.loc.Latitude, Lon: r.loc.Longitude}, nil
	}
}
