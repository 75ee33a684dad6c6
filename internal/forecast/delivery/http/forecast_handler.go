package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stock-insight/internal/forecast/dto"
	"stock-insight/internal/forecast/metrics"
	"stock-insight/internal/forecast/service"
	"stock-insight/pkg/logger"
)

// ForecastHandler handles forecast inference HTTP requests.
type ForecastHandler struct {
	forecastService service.ForecastService
	logger          *logger.Logger
	validate        *validator.Validate
}

// NewForecastHandler creates a new ForecastHandler.
func NewForecastHandler(forecastService service.ForecastService, logger *logger.Logger) *ForecastHandler {
	return &ForecastHandler{
		forecastService: forecastService,
		logger:          logger,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the forecast routes with the given echo group.
func (h *ForecastHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/predict", h.Predict)
}

// RegisterOps registers health and metrics endpoints on the root echo instance.
func (h *ForecastHandler) RegisterOps(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

func (h *ForecastHandler) Predict(c echo.Context) error {
	var req dto.PredictRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error("Failed to bind predict request", logger.ErrorField(err))
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid ticker or data"})
	}

	resp, err := h.forecastService.Predict(c.Request().Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownSymbol):
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, service.ErrBadWindow):
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Prediction failed"})
		}
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *ForecastHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, h.forecastService.Health(c.Request().Context()))
}

// MetricsMiddleware records per-request counters and latency histograms.
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			endpoint := c.Path()
			if endpoint == "" {
				endpoint = c.Request().URL.Path
			}
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			metrics.RequestTotal.WithLabelValues(c.Request().Method, endpoint, strconv.Itoa(status)).Inc()
			metrics.Latency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
