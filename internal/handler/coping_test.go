package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"backend/internal/coping"
	"backend/internal/llm"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubCompleter struct {
	response string
	err      error
}

func (s *stubCompleter) Complete(context.Context, llm.CompletionRequest) (string, error) {
	return s.response, s.err
}

func newCopingRouter(completer llm.Completer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	service := coping.NewService(completer, zap.NewNop())
	h := NewCopingHandler(service, zap.NewNop())

	router := gin.New()
	router.POST("/api/coping-strategies", h.GetCopingStrategies)
	return router
}

func TestGetCopingStrategies(t *testing.T) {
	router := newCopingRouter(&stubCompleter{
		response: `[{"title": "Box Breathing", "icon": "heart", "description": "Slow down", "instructions": "Inhale 4, hold 4, exhale 4."}]`,
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/coping-strategies",
		strings.NewReader(`{"emotional_state": "anxious", "user_type": "child"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Box Breathing")
}

func TestGetCopingStrategies_FallbackStill200(t *testing.T) {
	router := newCopingRouter(&stubCompleter{err: errors.New("provider down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/coping-strategies",
		strings.NewReader(`{"emotional_state": "stressed"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Deep Breathing")
}

func TestGetCopingStrategies_MissingEmotionalState(t *testing.T) {
	router := newCopingRouter(&stubCompleter{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/coping-strategies",
		strings.NewReader(`{"user_type": "child"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
