package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-insight/internal/analysis/dto"
	"stock-insight/pkg/logger"
)

type stubAnalyzer struct {
	resp *dto.AnalyzeResponse
}

func (s *stubAnalyzer) Analyze(ctx context.Context, req *dto.AnalyzeRequest) *dto.AnalyzeResponse {
	return s.resp
}

func doAnalyze(t *testing.T, handler *AnalysisHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, handler.Analyze(c))
	return rec
}

func TestAnalyzeHandler_Success(t *testing.T) {
	handler := NewAnalysisHandler(&stubAnalyzer{resp: &dto.AnalyzeResponse{
		Ticker:  "NVDA",
		Success: true,
	}}, logger.NewNop())

	rec := doAnalyze(t, handler, `{"ticker":"NVDA","period":"1y"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp dto.AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "NVDA", resp.Ticker)
}

func TestAnalyzeHandler_MissingTicker(t *testing.T) {
	handler := NewAnalysisHandler(&stubAnalyzer{}, logger.NewNop())

	rec := doAnalyze(t, handler, `{"period":"1y"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid ticker or period")
}

func TestAnalyzeHandler_BadPeriod(t *testing.T) {
	handler := NewAnalysisHandler(&stubAnalyzer{}, logger.NewNop())

	rec := doAnalyze(t, handler, `{"ticker":"NVDA","period":"14d"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeHandler_NonAlphanumericTicker(t *testing.T) {
	handler := NewAnalysisHandler(&stubAnalyzer{}, logger.NewNop())

	rec := doAnalyze(t, handler, `{"ticker":"NV DA;drop"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeHandler_MalformedBody(t *testing.T) {
	handler := NewAnalysisHandler(&stubAnalyzer{}, logger.NewNop())

	rec := doAnalyze(t, handler, `{"ticker":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request payload")
}

func TestAnalyzeHandler_DownstreamFailureStaysHTTP200(t *testing.T) {
	handler := NewAnalysisHandler(&stubAnalyzer{resp: &dto.AnalyzeResponse{
		Ticker:  "NVDA",
		Success: false,
		Error:   "insufficient data (need at least 60 data points)",
	}}, logger.NewNop())

	rec := doAnalyze(t, handler, `{"ticker":"NVDA"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient data")
}
