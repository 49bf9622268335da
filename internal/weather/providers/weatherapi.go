package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-widget/internal/weather"
)

const (
	defaultWeatherAPIBaseURL = "https://api.weatherapi.com/v1"
	defaultWeatherAPILang    = "en"
)

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	lang    string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// Option customizes a WeatherAPIProvider.
type Option func(*WeatherAPIProvider)

// WithBaseURL points the provider at another API root, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(p *WeatherAPIProvider) {
		if u != "" {
			p.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithLang sets the language of condition texts.
func WithLang(lang string) Option {
	return func(p *WeatherAPIProvider) {
		if lang != "" {
			p.lang = lang
		}
	}
}

// WithBackoff enables retries of temporary failures.
func WithBackoff(b BackoffConfig) Option {
	return func(p *WeatherAPIProvider) {
		p.httpCfg.Backoff = b
	}
}

func NewWeatherAPIProvider(client *http.Client, apiKey string, opts ...Option) *WeatherAPIProvider {
	p := &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: defaultWeatherAPIBaseURL,
		lang:    defaultWeatherAPILang,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      0,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: newBreaker("weatherapi"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type weatherAPIPayload struct {
	Location struct {
		Name    string  `json:"name"`
		Region  string  `json:"region"`
		Country string  `json:"country"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	} `json:"location"`
	Current struct {
		LastUpdatedEpoch int64   `json:"last_updated_epoch"`
		TempC            float64 `json:"temp_c"`
		FeelsLikeC       float64 `json:"feelslike_c"`
		HeatIndexC       float64 `json:"heatindex_c"`
		Humidity         float64 `json:"humidity"`
		WindKph          float64 `json:"wind_kph"`
		Condition        struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

// Current fetches current conditions for q. Any non-2xx answer is reported
// as a *weather.StatusError.
func (p *WeatherAPIProvider) Current(ctx context.Context, q weather.Query) (weather.Reading, error) {
	if p.apiKey == "" {
		return weather.Reading{}, fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		// WeatherAPI accepts a place name or "lat,lon" in q.
		values.Set("q", q.String())
		values.Set("lang", p.lang)

		u := fmt.Sprintf("%s/current.json?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.name, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Reading{}, err
	}
	defer resp.Body.Close()

	var payload weatherAPIPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Reading{}, fmt.Errorf("decode weatherapi response: %w", err)
	}

	ts := time.Now().UTC()
	if payload.Current.LastUpdatedEpoch > 0 {
		ts = time.Unix(payload.Current.LastUpdatedEpoch, 0).UTC()
	}

	return weather.Reading{
		Location: weather.Location{
			Name:    payload.Location.Name,
			Region:  payload.Location.Region,
			Country: payload.Location.Country,
			Lat:     payload.Location.Lat,
			Lon:     payload.Location.Lon,
		},
		ObservedAt:   ts,
		TemperatureC: payload.Current.TempC,
		FeelsLikeC:   payload.Current.FeelsLikeC,
		HeatIndexC:   payload.Current.HeatIndexC,
		HumidityPct:  payload.Current.Humidity,
		WindKph:      payload.Current.WindKph,
		Condition:    strings.TrimSpace(payload.Current.Condition.Text),
	}, nil
}
