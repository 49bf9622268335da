package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-widget/internal/api/http"
	"github.com/i474232898/weather-widget/internal/config"
	"github.com/i474232898/weather-widget/internal/geo"
	"github.com/i474232898/weather-widget/internal/log"
	"github.com/i474232898/weather-widget/internal/scheduler"
	"github.com/i474232898/weather-widget/internal/session"
	"github.com/i474232898/weather-widget/internal/weather/providers"
	"github.com/i474232898/weather-widget/internal/widget"
)

func main() {
	cfg, loadedEnv, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := log.Init(cfg.Debug); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer log.Sync()

	if !loadedEnv {
		log.Infow("no .env file found, using process environment")
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey,
		providers.WithBaseURL(cfg.WeatherAPIBaseURL),
		providers.WithLang(cfg.WeatherAPILang),
		providers.WithBackoff(providers.BackoffConfig{
			MaxRetries:      cfg.WeatherAPIMaxRetries,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		}),
	)

	// Server-side location for widgets mounted without a device position.
	var home geo.Locator
	if cfg.HomeLocationEnabled() {
		hl, err := geo.NewHomeLocator(cfg.GeocoderAPIKey, cfg.HomeCity, cfg.HomeRegion, cfg.HomeCountry)
		if err != nil {
			log.Fatalf("invalid home location: %v", err)
		}
		home = hl
		log.Infow("home location enabled", "city", cfg.HomeCity, "country", cfg.HomeCountry)
	}

	sessions := session.NewMemoryStore(cfg.SessionMax)
	service := widget.NewService(sessions, provider, home, log.Named("widget"))

	// Unmount widgets whose clients went away without saying so.
	sched := scheduler.New(service, cfg.SessionSweepInterval, cfg.SessionMaxIdle, log.Named("scheduler"))
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-widget",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.HTTPTimeout + 5*time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "weather-widget",
			"sessions": sessions.Len(),
		})
	})

	httpapi.RegisterRoutes(app, service)

	go func() {
		log.Infow("listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorw("fiber server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorw("error during shutdown", "error", err)
	}
}
