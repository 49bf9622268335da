package geo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kelvins/geocoder"
)

func TestDeviceReportPosition(t *testing.T) {
	d := DeviceReport{State: PermissionGranted, Position: &Coordinates{Lat: 48.85, Lon: 2.35}}

	c, err := d.Locate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Lat != 48.85 || c.Lon != 2.35 {
		t.Fatalf("unexpected coordinates %+v", c)
	}
}

func TestDeviceReportDenied(t *testing.T) {
	d := DeviceReport{State: PermissionDenied}

	st, err := d.Permission(context.Background())
	if err != nil || st != PermissionDenied {
		t.Fatalf("expected denied permission, got %q %v", st, err)
	}
	if _, err := d.Locate(context.Background()); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestDeviceReportUnavailable(t *testing.T) {
	d := DeviceReport{Reason: "timeout expired"}

	st, _ := d.Permission(context.Background())
	if st != PermissionPrompt {
		t.Fatalf("empty state should read as prompt, got %q", st)
	}

	_, err := d.Locate(context.Background())
	if !errors.Is(err, ErrPositionUnavailable) {
		t.Fatalf("expected ErrPositionUnavailable, got %v", err)
	}
}

func TestNewHomeLocatorValidation(t *testing.T) {
	if _, err := NewHomeLocator("", "Paris", "", "France"); err == nil {
		t.Fatal("expected error for missing key")
	}
	if _, err := NewHomeLocator("key", " ", "", "France"); err == nil {
		t.Fatal("expected error for missing city")
	}
}

func TestHomeLocatorLocate(t *testing.T) {
	h := &HomeLocator{
		address: geocoder.Address{City: "Paris", Country: "France"},
		geocode: func(a geocoder.Address) (geocoder.Location, error) {
			if a.City != "Paris" {
				t.Errorf("unexpected city %q", a.City)
			}
			return geocoder.Location{Latitude: 48.85, Longitude: 2.35}, nil
		},
	}

	c, err := h.Locate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Lat != 48.85 || c.Lon != 2.35 {
		t.Fatalf("unexpected coordinates %+v", c)
	}
}

func TestHomeLocatorFailure(t *testing.T) {
	h := &HomeLocator{
		address: geocoder.Address{City: "Nowhere"},
		geocode: func(geocoder.Address) (geocoder.Location, error) {
			return geocoder.Location{}, errors.New("ZERO_RESULTS")
		},
	}

	if _, err := h.Locate(context.Background()); !errors.Is(err, ErrPositionUnavailable) {
		t.Fatalf("expected ErrPositionUnavailable, got %v", err)
	}
}

func TestHomeLocatorHonoursContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	h := &HomeLocator{
		geocode: func(geocoder.Address) (geocoder.Location, error) {
			<-release
			return geocoder.Location{}, nil
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := h.Locate(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
