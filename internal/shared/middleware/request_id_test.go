package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/utils/requestctx"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("generates an ID and propagates it", func(t *testing.T) {
		var fromHelper, fromCtx string

		r := gin.New()
		r.Use(RequestID())
		r.GET("/", func(c *gin.Context) {
			fromHelper = GetRequestID(c)
			fromCtx = requestctx.RequestID(c.Request.Context())
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, fromHelper)
		assert.Equal(t, fromHelper, fromCtx)
		assert.Equal(t, fromHelper, w.Header().Get(RequestIDHeader))
	})

	t.Run("keeps a caller-supplied ID", func(t *testing.T) {
		var seen string

		r := gin.New()
		r.Use(RequestID())
		r.GET("/", func(c *gin.Context) {
			seen = GetRequestID(c)
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-789")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-789", seen)
		assert.Equal(t, "req-789", w.Header().Get(RequestIDHeader))
	})
}
