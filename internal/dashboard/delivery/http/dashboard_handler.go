package http

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"

	"stock-insight/internal/dashboard/config"
)

//go:embed static
var staticFS embed.FS

// DashboardHandler serves the embedded single-page client and its runtime
// configuration.
type DashboardHandler struct {
	cfg *config.Config
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{cfg: cfg}
}

// RegisterRoutes mounts the static page and the config endpoint.
func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) error {
	pages, err := fs.Sub(staticFS, "static")
	if err != nil {
		return err
	}
	e.GET("/", echo.WrapHandler(http.FileServer(http.FS(pages))))
	e.GET("/api/config", h.Config)
	return nil
}

// Config returns the service base URLs so the page needs no rebuild per
// environment.
func (h *DashboardHandler) Config(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"analysis_url": h.cfg.Services.AnalysisURL,
		"forecast_url": h.cfg.Services.ForecastURL,
		"agent_url":    h.cfg.Services.AgentURL,
	})
}
