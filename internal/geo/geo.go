// Package geo provides the location sources a widget can resolve its
// initial position from.
package geo

import (
	"context"
	"errors"
)

var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
)

// Coordinates is a WGS84 position in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// PermissionState mirrors the states a device reports for location access.
type PermissionState string

const (
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
	PermissionPrompt  PermissionState = "prompt"
)

// Locator resolves the current position.
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// PermissionReporter is implemented by locators that know whether access
// was refused before a position is requested.
type PermissionReporter interface {
	Permission(ctx context.Context) (PermissionState, error)
}

// DeviceReport is the outcome of a position request made on the client
// device, handed to the server as-is.
type DeviceReport struct {
	State    PermissionState
	Position *Coordinates
	// Reason is the device's error text when no position was obtained.
	Reason string
}

var _ PermissionReporter = DeviceReport{}

func (d DeviceReport) Permission(context.Context) (PermissionState, error) {
	if d.State == "" {
		return PermissionPrompt, nil
	}
	return d.State, nil
}

func (d DeviceReport) Locate(ctx context.Context) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}
	if d.State == PermissionDenied {
		return Coordinates{}, ErrPermissionDenied
	}
	if d.Position == nil {
		if d.Reason != "" {
			return Coordinates{}, errors.Join(ErrPositionUnavailable, errors.New(d.Reason))
		}
		return Coordinates{}, ErrPositionUnavailable
	}
	return *d.Position, nil
}
