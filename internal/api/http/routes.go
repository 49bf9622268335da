package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-widget/internal/geo"
	"github.com/i474232898/weather-widget/internal/session"
	"github.com/i474232898/weather-widget/internal/widget"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *widget.Service) {
	v1 := app.Group("/api/v1")

	v1.Post("/sessions", func(c *fiber.Ctx) error {
		var req mountRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
			}
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		locator, err := req.locator(service.HomeLocator())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		id, snap, err := service.Mount(c.UserContext(), locator)
		if err != nil {
			return mountError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":    id,
			"state": snap,
		})
	})

	v1.Get("/sessions/:id", func(c *fiber.Ctx) error {
		ctrl, err := controllerFor(c, service)
		if err != nil {
			return err
		}
		return c.JSON(ctrl.Snapshot())
	})

	v1.Put("/sessions/:id/query", func(c *fiber.Ctx) error {
		ctrl, err := controllerFor(c, service)
		if err != nil {
			return err
		}

		req, err := parseQueryRequest(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(ctrl.SetQuery(req.Query))
	})

	// Validation and provider failures are part of the returned state,
	// so a completed search always answers 200.
	v1.Post("/sessions/:id/search", func(c *fiber.Ctx) error {
		ctrl, err := controllerFor(c, service)
		if err != nil {
			return err
		}

		req, err := parseQueryRequest(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(ctrl.SubmitSearch(c.UserContext(), req.Query))
	})

	v1.Delete("/sessions/:id", func(c *fiber.Ctx) error {
		if err := service.Unmount(c.Params("id")); err != nil {
			if errors.Is(err, session.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no widget session with that id")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to unmount widget session")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	registerPageRoutes(app, service)
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

func controllerFor(c *fiber.Ctx, service *widget.Service) (*widget.Controller, error) {
	ctrl, err := service.Session(c.Params("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "no widget session with that id")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to load widget session")
	}
	return ctrl, nil
}

func mountError(err error) error {
	if errors.Is(err, session.ErrFull) {
		return fiber.NewError(fiber.StatusServiceUnavailable, "too many widget sessions, try again later")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to mount widget")
}

// geolocationReport is what the client device found out about its position.
type geolocationReport struct {
	Supported  bool     `json:"supported"`
	Permission string   `json:"permission" validate:"omitempty,oneof=granted denied prompt"`
	Latitude   *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude  *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Error      string   `json:"error" validate:"max=512"`
}

// mountRequest is the optional body of POST /sessions. Without a
// geolocation report the server-side home location is used, if any.
type mountRequest struct {
	Geolocation *geolocationReport `json:"geolocation"`
}

func (m mountRequest) locator(home geo.Locator) (geo.Locator, error) {
	g := m.Geolocation
	if g == nil {
		return home, nil
	}
	if !g.Supported {
		return nil, nil
	}
	if (g.Latitude == nil) != (g.Longitude == nil) {
		return nil, errors.New("latitude and longitude must be given together")
	}

	report := geo.DeviceReport{
		State:  geo.PermissionState(g.Permission),
		Reason: g.Error,
	}
	if g.Latitude != nil {
		report.Position = &geo.Coordinates{Lat: *g.Latitude, Lon: *g.Longitude}
	}
	return report, nil
}

// queryRequest carries the search field text.
type queryRequest struct {
	Query string `json:"query" form:"query" validate:"max=256"`
}

func parseQueryRequest(c *fiber.Ctx) (queryRequest, error) {
	var q queryRequest
	if err := c.BodyParser(&q); err != nil {
		return q, errors.New("invalid request body")
	}
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}
