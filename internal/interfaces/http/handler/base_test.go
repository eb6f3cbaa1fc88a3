package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventra/backend/internal/domain/shared"
	"github.com/inventra/backend/internal/interfaces/http/dto"
)

type bindTestRequest struct {
	SKU      string  `json:"sku" binding:"required"`
	Quantity float64 `json:"quantity" binding:"gt=0"`
}

func newBindTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &BaseHandler{}
	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req bindTestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestBindError(t *testing.T) {
	t.Run("expands validation failures into field details", func(t *testing.T) {
		router := newBindTestRouter()

		req := httptest.NewRequest("POST", "/test", bytes.NewReader([]byte(`{"quantity": -1}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 2)

		byField := map[string]string{}
		for _, d := range resp.Error.Details {
			byField[d.Field] = d.Message
		}
		assert.Equal(t, "is required", byField["sku"])
		assert.Equal(t, "must be greater than 0", byField["quantity"])
	})

	t.Run("falls back to bad request for malformed JSON", func(t *testing.T) {
		router := newBindTestRouter()

		req := httptest.NewRequest("POST", "/test", bytes.NewReader([]byte(`{not json`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
		assert.Empty(t, resp.Error.Details)
	})

	t.Run("passes valid requests through", func(t *testing.T) {
		router := newBindTestRouter()

		req := httptest.NewRequest("POST", "/test", bytes.NewReader([]byte(`{"sku": "WIDGET-1", "quantity": 5}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &BaseHandler{}

	t.Run("maps domain error codes to status codes", func(t *testing.T) {
		router := gin.New()
		router.GET("/test", func(c *gin.Context) {
			h.HandleError(c, &shared.DomainError{Code: "NOT_FOUND", Message: "Product not found"})
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
		assert.Equal(t, "Product not found", resp.Error.Message)
	})

	t.Run("hides unexpected errors behind a 500", func(t *testing.T) {
		router := gin.New()
		router.GET("/test", func(c *gin.Context) {
			h.HandleError(c, assert.AnError)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	})
}
