package httpapi

import (
	"bytes"
	_ "embed"
	"errors"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-widget/internal/session"
	"github.com/i474232898/weather-widget/internal/widget"
)

const sessionCookie = "weather_widget_session"

//go:embed templates/widget.html
var widgetHTML string

// Styles come from the fixed condition table, never from user input.
var widgetPage = template.Must(template.New("widget").Funcs(template.FuncMap{
	"css": func(s string) template.CSS { return template.CSS(s) },
}).Parse(widgetHTML))

// registerPageRoutes serves the widget as a plain HTML form. The session id
// travels in a cookie.
func registerPageRoutes(app *fiber.App, service *widget.Service) {
	app.Get("/", func(c *fiber.Ctx) error {
		ctrl, err := pageController(c, service)
		if err != nil {
			return err
		}
		return renderWidget(c, ctrl.Snapshot())
	})

	app.Post("/search", func(c *fiber.Ctx) error {
		ctrl, err := pageController(c, service)
		if err != nil {
			return err
		}

		req := queryRequest{Query: c.FormValue("query")}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "search text is too long")
		}

		ctrl.SubmitSearch(c.UserContext(), req.Query)
		return c.Redirect("/", fiber.StatusSeeOther)
	})
}

// pageController returns the widget bound to the request's cookie, mounting
// a new one when there is none.
func pageController(c *fiber.Ctx, service *widget.Service) (*widget.Controller, error) {
	if id := c.Cookies(sessionCookie); id != "" {
		ctrl, err := service.Session(id)
		if err == nil {
			return ctrl, nil
		}
		if !errors.Is(err, session.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to load widget session")
		}
	}

	id, _, err := service.Mount(c.UserContext(), service.HomeLocator())
	if err != nil {
		return nil, mountError(err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return service.Session(id)
}

func renderWidget(c *fiber.Ctx, snap widget.Snapshot) error {
	var buf bytes.Buffer
	if err := widgetPage.Execute(&buf, snap); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render widget")
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
