package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-insight/internal/agent/dto"
	"stock-insight/internal/entity"
	"stock-insight/pkg/logger"
)

type stubChatService struct {
	resp    *dto.ChatResponse
	cleared []string
}

func (s *stubChatService) Chat(ctx context.Context, req *dto.ChatRequest) *dto.ChatResponse {
	return s.resp
}

func (s *stubChatService) ClearMemory(ticker string) bool {
	s.cleared = append(s.cleared, ticker)
	return true
}

func (s *stubChatService) MemoryStats() (int, int) { return 2, 7 }

type stubNewsService struct {
	resp *dto.NewsResponse
	err  error
}

func (s *stubNewsService) GetNews(ctx context.Context, ticker string) (*dto.NewsResponse, error) {
	return s.resp, s.err
}

func newHandler(chat *stubChatService, news *stubNewsService) *AgentHandler {
	return NewAgentHandler(chat, news, logger.NewNop())
}

func TestChatHandler_Success(t *testing.T) {
	handler := newHandler(&stubChatService{resp: &dto.ChatResponse{Response: "hi", Mode: "json"}}, &stubNewsService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat",
		strings.NewReader(`{"ticker":"NVDA","message":"how is it?"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, handler.Chat(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"mode":"json"`)
}

func TestChatHandler_MissingMessage(t *testing.T) {
	handler := newHandler(&stubChatService{}, &stubNewsService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"ticker":"NVDA"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, handler.Chat(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewsHandler_Success(t *testing.T) {
	handler := newHandler(&stubChatService{}, &stubNewsService{resp: &dto.NewsResponse{
		Ticker: "NVDA",
		Items:  []entity.NewsItem{{Title: "headline"}},
		Digest: "things are happening",
	}})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/news/:ticker")
	c.SetParamNames("ticker")
	c.SetParamValues("nvda")
	require.NoError(t, handler.News(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "headline")
	assert.Contains(t, rec.Body.String(), "things are happening")
}

func TestNewsHandler_FeedFailure(t *testing.T) {
	handler := newHandler(&stubChatService{}, &stubNewsService{err: errors.New("feed down")})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/news/:ticker")
	c.SetParamNames("ticker")
	c.SetParamValues("NVDA")
	require.NoError(t, handler.News(c))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestClearMemoryHandler(t *testing.T) {
	chat := &stubChatService{}
	handler := newHandler(chat, &stubNewsService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/memory/:ticker")
	c.SetParamNames("ticker")
	c.SetParamValues("nvda")
	require.NoError(t, handler.ClearMemory(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"NVDA"}, chat.cleared)
	assert.Contains(t, rec.Body.String(), `"cleared":true`)
}

func TestHealthHandler_ReportsMemoryStats(t *testing.T) {
	handler := newHandler(&stubChatService{}, &stubNewsService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, handler.Health(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tracked_tickers":2`)
	assert.Contains(t, rec.Body.String(), `"stored_exchanges":7`)
}

func TestProcessTimeMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(ProcessTimeMiddleware())
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Process-Time"))
}
