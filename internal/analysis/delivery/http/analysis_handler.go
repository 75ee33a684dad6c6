package http

import (
	"net/http"

	"stock-insight/internal/analysis/dto"
	"stock-insight/internal/analysis/service"
	"stock-insight/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// AnalysisHandler handles HTTP requests for technical analysis.
type AnalysisHandler struct {
	analyzerService service.AnalyzerService
	logger          *logger.Logger
	validate        *validator.Validate
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analyzerService service.AnalyzerService, logger *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzerService: analyzerService,
		logger:          logger,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the analysis routes to the Echo group.
func (h *AnalysisHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/analyze", h.Analyze)
}

// Analyze godoc
// @Summary Run a full technical analysis
// @Description Fetches price history for a ticker, computes indicator series and forecast blocks, and returns chart payloads
// @Tags analysis
// @Accept  json
// @Produce  json
// @Param   request  body    dto.AnalyzeRequest   true    "Ticker and period"
// @Success 200 {object} dto.AnalyzeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /analyze [post]
func (h *AnalysisHandler) Analyze(c echo.Context) error {
	var req dto.AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid ticker or period"})
	}

	resp := h.analyzerService.Analyze(c.Request().Context(), &req)
	return c.JSON(http.StatusOK, resp)
}
