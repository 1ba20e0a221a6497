package apperror

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("RequestID", "req-1"); c.Next() })
	r.Use(ErrorHandler(zap.NewNop()))
	r.GET("/", handler)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestErrorHandler(t *testing.T) {
	t.Run("Should render AppError code and message", func(t *testing.T) {
		rec, body := serve(t, func(c *gin.Context) {
			_ = c.Error(BadGateway("Failed to send message.", errors.New("relay down")))
		})
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.False(t, body.Success)
		assert.Equal(t, "Failed to send message.", body.Message)
		assert.Equal(t, "req-1", body.RequestID)
		assert.NotContains(t, rec.Body.String(), "relay down")
	})

	t.Run("Should hide plain errors behind a generic message", func(t *testing.T) {
		rec, body := serve(t, func(c *gin.Context) {
			_ = c.Error(errors.New("database exploded"))
		})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, body.Message, "database")
	})

	t.Run("Should pass through success responses", func(t *testing.T) {
		rec, body := serve(t, func(c *gin.Context) {
			Success(c, http.StatusOK, "ok", gin.H{"n": 1})
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, body.Success)
		assert.Equal(t, map[string]any{"n": float64(1)}, body.Data)
	})
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	err := Conflict("busy", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "busy", err.Error())
	assert.Equal(t, http.StatusConflict, err.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, Unprocessable("x").Code)
	assert.Equal(t, http.StatusInternalServerError, Internal(cause).Code)
}
