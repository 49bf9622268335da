package weather

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCoordinateQuery(t *testing.T) {
	cases := []struct {
		lat, lon float64
		want     Query
	}{
		{48.8566, 2.3522, "48.8566,2.3522"},
		{-33.9, 151, "-33.9,151"},
		{0, 0, "0,0"},
	}
	for _, c := range cases {
		if got := CoordinateQuery(c.lat, c.lon); got != c.want {
			t.Errorf("CoordinateQuery(%v, %v) = %q, want %q", c.lat, c.lon, got, c.want)
		}
	}
}

func TestPlaceQueryTrims(t *testing.T) {
	if got := PlaceQuery("  paris \t"); got != "paris" {
		t.Fatalf("unexpected query %q", got)
	}
}

func TestLocationString(t *testing.T) {
	l := Location{Name: "Paris", Region: "Ile-de-France", Country: "France"}
	if got := l.String(); got != "Paris, Ile-de-France, France" {
		t.Fatalf("unexpected location string %q", got)
	}

	l.Region = ""
	if got := l.String(); got != "Paris, France" {
		t.Fatalf("unexpected location string without region %q", got)
	}
}

func TestStatusErrorMatchesRejected(t *testing.T) {
	err := fmt.Errorf("fetch: %w", &StatusError{Provider: "weatherapi", StatusCode: http.StatusNotFound})
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected wrapped status error to match ErrRejected")
	}

	var se *StatusError
	if !errors.As(err, &se) || se.Temporary() {
		t.Fatalf("404 should not be temporary")
	}
	if !(&StatusError{StatusCode: http.StatusServiceUnavailable}).Temporary() {
		t.Fatalf("503 should be temporary")
	}
	if !(&StatusError{StatusCode: http.StatusTooManyRequests}).Temporary() {
		t.Fatalf("429 should be temporary")
	}
}
