package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/weather-widget/internal/weather"
)

const parisPayload = `{
  "location": {"name": "Paris", "region": "Ile-de-France", "country": "France", "lat": 48.87, "lon": 2.33},
  "current": {
    "last_updated_epoch": 1700000000,
    "temp_c": 12.5,
    "feelslike_c": 10.1,
    "heatindex_c": 13.2,
    "humidity": 81,
    "wind_kph": 14.4,
    "condition": {"text": "Partly cloudy "}
  }
}`

func TestWeatherAPICurrent(t *testing.T) {
	var gotQuery, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		if r.URL.Query().Get("key") != "secret" {
			t.Errorf("missing api key, query %q", r.URL.RawQuery)
		}
		if r.URL.Query().Get("q") != "48.87,2.33" {
			t.Errorf("unexpected q %q", r.URL.Query().Get("q"))
		}
		if r.URL.Query().Get("lang") != "en" {
			t.Errorf("unexpected lang %q", r.URL.Query().Get("lang"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, parisPayload)
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(srv.Client(), "secret", WithBaseURL(srv.URL+"/"))
	r, err := p.Current(context.Background(), weather.CoordinateQuery(48.87, 2.33))
	if err != nil {
		t.Fatalf("unexpected error: %v (query %q)", err, gotQuery)
	}

	if gotPath != "/current.json" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if r.Location.Name != "Paris" || r.Location.Region != "Ile-de-France" || r.Location.Country != "France" {
		t.Fatalf("unexpected location %+v", r.Location)
	}
	if r.TemperatureC != 12.5 || r.FeelsLikeC != 10.1 || r.HeatIndexC != 13.2 {
		t.Fatalf("unexpected temperatures %+v", r)
	}
	if r.HumidityPct != 81 || r.WindKph != 14.4 {
		t.Fatalf("unexpected humidity/wind %+v", r)
	}
	if r.Condition != "Partly cloudy" {
		t.Fatalf("condition should be trimmed, got %q", r.Condition)
	}
	if !r.ObservedAt.Equal(time.Unix(1700000000, 0)) {
		t.Fatalf("unexpected observation time %v", r.ObservedAt)
	}
}

func TestWeatherAPIRejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"code":1006,"message":"No matching location found."}}`)
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(srv.Client(), "secret", WithBaseURL(srv.URL))

	// Rejections must not trip the breaker.
	for i := 0; i < 10; i++ {
		_, err := p.Current(context.Background(), weather.PlaceQuery("atlantis"))
		if !errors.Is(err, weather.ErrRejected) {
			t.Fatalf("attempt %d: expected ErrRejected, got %v", i, err)
		}
		var se *weather.StatusError
		if !errors.As(err, &se) || se.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 status error, got %v", err)
		}
	}
}

func TestWeatherAPINoRetryByDefault(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(srv.Client(), "secret", WithBaseURL(srv.URL))
	if _, err := p.Current(context.Background(), weather.PlaceQuery("paris")); !errors.Is(err, weather.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected a single attempt, got %d", n)
	}
}

func TestWeatherAPIRetriesTemporaryFailures(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, parisPayload)
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(srv.Client(), "secret",
		WithBaseURL(srv.URL),
		WithBackoff(BackoffConfig{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}),
	)
	r, err := p.Current(context.Background(), weather.PlaceQuery("paris"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Location.Name != "Paris" {
		t.Fatalf("unexpected reading %+v", r)
	}
	if n := atomic.LoadInt32(&hits); n != 3 {
		t.Fatalf("expected 3 attempts, got %d", n)
	}
}

func TestWeatherAPICircuitOpensOnServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(srv.Client(), "secret", WithBaseURL(srv.URL))

	var err error
	for i := 0; i < 10; i++ {
		_, err = p.Current(context.Background(), weather.PlaceQuery("paris"))
	}
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen after repeated failures, got %v", err)
	}
}

func TestWeatherAPITransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	p := NewWeatherAPIProvider(&http.Client{Timeout: time.Second}, "very-secret-key", WithBaseURL(base))
	_, err := p.Current(context.Background(), weather.PlaceQuery("paris"))
	if err == nil {
		t.Fatal("expected transport error")
	}
	if errors.Is(err, weather.ErrRejected) {
		t.Fatalf("transport error must not look like a rejection: %v", err)
	}
	if strings.Contains(err.Error(), "very-secret-key") {
		t.Fatalf("error leaks api key: %v", err)
	}
}

func TestWeatherAPIInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"location":`)
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(srv.Client(), "secret", WithBaseURL(srv.URL))
	if _, err := p.Current(context.Background(), weather.PlaceQuery("paris")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestWeatherAPIMissingKey(t *testing.T) {
	p := NewWeatherAPIProvider(http.DefaultClient, "")
	if _, err := p.Current(context.Background(), weather.PlaceQuery("paris")); err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestWeatherAPICancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, parisPayload)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewWeatherAPIProvider(srv.Client(), "secret", WithBaseURL(srv.URL))
	if _, err := p.Current(ctx, weather.PlaceQuery("paris")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
