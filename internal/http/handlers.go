package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/domain"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/service"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/simulation"
)

func Register(app *fiber.App, svcs *service.Services) {
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	g := app.Group("/api")
	g.Get("/energy", func(c *fiber.Ctx) error {
		ov, err := svcs.Energy.Overview(c.UserContext())
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(ov)
	})
	g.Get("/devices", func(c *fiber.Ctx) error {
		return c.JSON(simulation.Devices())
	})
	g.Get("/chart", func(c *fiber.Ctx) error {
		samples, err := svcs.Energy.Chart(c.UserContext())
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(samples)
	})
	g.Get("/backend", func(c *fiber.Ctx) error {
		return c.JSON(simulation.BackendInfo())
	})
	g.Get("/alerts", func(c *fiber.Ctx) error {
		sev := domain.Severity(c.Query("severity"))
		switch sev {
		case "", domain.SeverityInfo, domain.SeverityWarning, domain.SeverityDanger:
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown severity " + string(sev)})
		}
		items, err := svcs.Energy.Alerts(c.UserContext(), sev)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(items)
	})
	g.Get("/settings", func(c *fiber.Ctx) error {
		return c.JSON(svcs.Settings.Get())
	})
	g.Put("/settings", func(c *fiber.Ctx) error {
		var next domain.Settings
		if err := c.BodyParser(&next); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body: " + err.Error()})
		}
		saved, err := svcs.Settings.Update(next)
		if err != nil {
			return fail(c, err)
		}
		log.Info().Str("home", saved.HomeName).Float64("cost_per_kwh", saved.CostPerKWh).
			Float64("power_limit_watts", saved.PowerLimitWatts).Msg("settings updated")
		return c.JSON(saved)
	})
	g.Post("/reports", func(c *fiber.Ctx) error {
		rep, err := svcs.Energy.ExportReport(c.UserContext())
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rep)
	})
}

func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidSettings):
		status = fiber.StatusBadRequest
	case errors.Is(err, service.ErrCloudDisabled):
		status = fiber.StatusServiceUnavailable
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
