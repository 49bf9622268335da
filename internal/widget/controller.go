// Package widget holds the view state of a weather lookup widget and the
// service that mounts widget sessions.
package widget

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/i474232898/weather-widget/internal/condition"
	"github.com/i474232898/weather-widget/internal/geo"
	"github.com/i474232898/weather-widget/internal/weather"
)

// User-facing messages.
const (
	MsgGeolocationUnsupported = "Geolocation is not supported by your browser."
	MsgLocationUnavailable    = "Unable to get your location. Please search for a city."
	MsgLocationDenied         = "Location access denied. Please allow location access or search for a city."
	MsgEmptyQuery             = "Please enter a city name!"
	MsgRejected               = "City not found or invalid request!"
	MsgUnexpected             = "Something went wrong."
)

// ViewState is what the widget currently shows.
type ViewState struct {
	Query   string           `json:"query"`
	Reading *weather.Reading `json:"reading,omitempty"`
	Loading bool             `json:"loading"`
	Error   string           `json:"error,omitempty"`
}

// Presentation is derived from the reading's condition text.
type Presentation struct {
	Category   condition.Category `json:"category"`
	Icon       string             `json:"icon"`
	Color      string             `json:"color"`
	Background condition.Gradient `json:"background"`
	Location   string             `json:"location"`
}

// Snapshot is a copy of the view state plus its presentation, if any.
type Snapshot struct {
	ViewState
	Presentation *Presentation `json:"presentation,omitempty"`
}

// Controller owns one widget's view state. At most one fetch is applied at a
// time: every fetch gets an increasing id and only the latest id may write.
type Controller struct {
	provider weather.Provider
	locator  geo.Locator
	logger   *zap.SugaredLogger

	// lifetime is cancelled by Close.
	lifetime context.Context
	unmount  context.CancelFunc

	mu          sync.Mutex
	state       ViewState
	seq         uint64
	cancelFetch context.CancelFunc
	initialized bool
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a controller. A nil locator means the geolocation capability
// is absent.
func New(provider weather.Provider, locator geo.Locator, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		provider: provider,
		locator:  locator,
		logger:   zap.NewNop().Sugar(),
		lifetime: ctx,
		unmount:  cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize resolves the initial location and fetches its conditions.
// Only the first call does anything.
func (c *Controller) Initialize(ctx context.Context) Snapshot {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return c.Snapshot()
	}
	c.initialized = true
	c.mu.Unlock()

	if c.locator == nil {
		c.setError(MsgGeolocationUnsupported)
		return c.Snapshot()
	}

	if pr, ok := c.locator.(geo.PermissionReporter); ok {
		st, err := pr.Permission(ctx)
		if err == nil && st == geo.PermissionDenied {
			c.setError(MsgLocationDenied)
			return c.Snapshot()
		}
	}

	coords, err := c.locator.Locate(ctx)
	if err != nil {
		c.logger.Infow("location lookup failed", "error", err)
		c.setError(MsgLocationUnavailable)
		return c.Snapshot()
	}

	c.fetchReading(ctx, weather.CoordinateQuery(coords.Lat, coords.Lon))
	return c.Snapshot()
}

// SetQuery records text typed into the search field.
func (c *Controller) SetQuery(text string) Snapshot {
	c.mu.Lock()
	c.state.Query = text
	c.mu.Unlock()
	return c.Snapshot()
}

// SubmitSearch looks up the place named by raw.
func (c *Controller) SubmitSearch(ctx context.Context, raw string) Snapshot {
	c.mu.Lock()
	c.state.Query = raw
	c.mu.Unlock()

	if strings.TrimSpace(raw) == "" {
		c.setError(MsgEmptyQuery)
		return c.Snapshot()
	}

	c.fetchReading(ctx, weather.PlaceQuery(raw))
	return c.Snapshot()
}

// fetchReading runs one provider call and applies its outcome unless a
// newer fetch was started in the meantime.
func (c *Controller) fetchReading(ctx context.Context, q weather.Query) {
	c.mu.Lock()
	if c.cancelFetch != nil {
		c.cancelFetch()
	}
	c.seq++
	id := c.seq
	reqCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.lifetime, cancel)
	c.cancelFetch = cancel
	c.state.Loading = true
	c.state.Error = ""
	c.mu.Unlock()

	defer func() {
		stop()
		cancel()
	}()

	c.logger.Debugw("fetching weather", "request", id, "query", q.String())
	reading, err := c.provider.Current(reqCtx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	if id != c.seq {
		c.logger.Debugw("discarding superseded response", "request", id, "latest", c.seq)
		return
	}

	c.cancelFetch = nil
	c.state.Loading = false

	if c.lifetime.Err() != nil {
		return
	}

	if err != nil {
		c.logger.Infow("weather fetch failed", "request", id, "query", q.String(), "error", err)
		c.state.Error = messageFor(err)
		return
	}

	c.state.Reading = &reading
	c.state.Query = reading.Location.Name
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{ViewState: c.state}
	if c.state.Reading != nil {
		r := *c.state.Reading
		snap.Reading = &r

		style := condition.StyleFor(r.Condition)
		snap.Presentation = &Presentation{
			Category:   condition.Classify(r.Condition),
			Icon:       style.Icon,
			Color:      style.Color,
			Background: style.Gradient,
			Location:   r.Location.String(),
		}
	}
	return snap
}

// Close unmounts the widget and cancels any in-flight fetch.
func (c *Controller) Close() {
	c.unmount()
}

func (c *Controller) setError(msg string) {
	c.mu.Lock()
	c.state.Error = msg
	c.mu.Unlock()
}

func messageFor(err error) string {
	switch {
	case errors.Is(err, weather.ErrRejected):
		return MsgRejected
	case err.Error() != "":
		return err.Error()
	default:
		return MsgUnexpected
	}
}
