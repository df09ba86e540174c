package httpapi

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/doomer-lab/info-center/internal/agent"
	"github.com/doomer-lab/info-center/internal/notify"
	"github.com/doomer-lab/info-center/internal/weather"
)

var validate = validator.New()

// ArchiveReader exposes the read side of the observation archive.
type ArchiveReader interface {
	Recent(ctx context.Context, cityCode string, limit int64) ([]weather.Record, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. archive may be
// nil when no archive store is configured; the history endpoint then reports
// the archive as unavailable.
func RegisterRoutes(app *fiber.App, service *weather.Service, archive ArchiveReader) {
	api := app.Group("/api/info-center")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api.Get("/weather/:code", func(c *fiber.Ctx) error {
		req, err := parseWeatherParams(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		data, err := service.Observation(c.Context(), req.Code)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(data)
	})

	api.Get("/weather/:code/history", func(c *fiber.Ctx) error {
		if archive == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "archive store not configured")
		}

		req, err := parseWeatherParams(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		limit := int64(50)
		if v := c.Query("limit"); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil || n <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "limit must be a positive integer")
			}
			limit = n
		}

		recs, err := archive.Recent(c.Context(), req.Code, limit)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load archive history")
		}
		return c.JSON(fiber.Map{"cityCode": req.Code, "records": recs})
	})

	api.Get("/weather/:code/ai/markdown", summarizeHandler(service, agent.AgentMarkdown))
	api.Get("/weather/:code/ai/html", summarizeHandler(service, agent.AgentHTML))

	// Inner endpoints render and push in one call.
	api.Get("/weather/inner/:code/ai/markdown", notifyHandler(service, agent.AgentMarkdown, notify.ChannelChatBot))
	api.Get("/weather/inner/:code/ai/html", notifyHandler(service, agent.AgentHTML, notify.ChannelEmail))
}

func summarizeHandler(service *weather.Service, agentID int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseWeatherParams(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		data, content, err := service.Summarize(c.Context(), req.Code, req.mode(), agentID)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(fiber.Map{"data": data, "content": content})
	}
}

func notifyHandler(service *weather.Service, agentID int, channel notify.Channel) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseWeatherParams(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		resp, err := service.SummarizeAndNotify(c.Context(), weather.Request{
			CityCode: req.Code,
			Mode:     req.mode(),
			AgentID:  agentID,
			Channel:  channel,
		})
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(resp)
	}
}

// weatherParams holds the path/query parameters shared by the weather routes.
type weatherParams struct {
	Code string `validate:"required,numeric"`
	Mode string `validate:"omitempty,oneof=full current"`
}

func (p weatherParams) mode() weather.Mode {
	if p.Mode == "" {
		return weather.ModeFull
	}
	return weather.Mode(p.Mode)
}

func parseWeatherParams(c *fiber.Ctx) (weatherParams, error) {
	p := weatherParams{
		Code: c.Params("code"),
		Mode: c.Query("mode"),
	}
	if err := validate.Struct(p); err != nil {
		return p, err
	}
	return p, nil
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, weather.ErrCityNotFound):
		return fiber.NewError(fiber.StatusNotFound, "unknown city code")
	case errors.Is(err, weather.ErrNoObservation):
		return fiber.NewError(fiber.StatusNotFound, "no observation available")
	case errors.Is(err, notify.ErrUnknownChannel):
		return fiber.NewError(fiber.StatusBadRequest, "unknown notification channel")
	default:
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
}
