package collaboration

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/shared/metrics"
	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/shared/middleware"
)

type stubResolver struct {
	title string
	err   error
}

func (r *stubResolver) ResolveForShare(ctx context.Context, documentID string, ownerID uuid.UUID) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.title, nil
}

func newShareContext(t *testing.T) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/documents/doc-1/share", nil)
	c.Params = gin.Params{{Key: "id", Value: "doc-1"}}
	c.Set(middleware.UserIDKey, uuid.New())
	c.Set(middleware.EmailKey, "a@x.com")
	return w, c
}

func TestHandler_ShareDocument(t *testing.T) {
	newHandler := func(resolver DocumentResolver) *Handler {
		svc := NewService(newMemStore(), nil, nil, zap.NewNop())
		return NewHandler(svc, resolver, metrics.New("test", prometheus.NewRegistry()))
	}

	t.Run("owner gets a link", func(t *testing.T) {
		w, c := newShareContext(t)
		newHandler(&stubResolver{title: "Budget2024"}).ShareDocument(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp ShareResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Link)
		assert.Equal(t, "doc-1", resp.Link.DocumentID)
		assert.Equal(t, "Budget2024", resp.Link.DocumentTitle)
		assert.Contains(t, resp.URL, "collab="+resp.Link.ID)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		w, c := newShareContext(t)
		newHandler(&stubResolver{err: ErrNotOwner}).ShareDocument(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "not_owner")
	})

	t.Run("unknown document is not found", func(t *testing.T) {
		w, c := newShareContext(t)
		newHandler(&stubResolver{err: ErrDocumentNotFound}).ShareDocument(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "document_not_found")
	})

	t.Run("resolver failure is internal", func(t *testing.T) {
		w, c := newShareContext(t)
		newHandler(&stubResolver{err: errors.New("connection refused")}).ShareDocument(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "internal_error")
	})
}
