package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationPayload struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Type   string  `json:"type" binding:"required,oneof=PURCHASE SALE"`
}

func TestHandleValidationError(t *testing.T) {
	SetupValidator()

	router := gin.New()
	router.Use(RequestID())
	router.POST("/transactions", func(c *gin.Context) {
		var req validationPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	t.Run("reports field-level details with json names", func(t *testing.T) {
		body := []byte(`{"amount":-5,"type":"REFUND"}`)
		req := httptest.NewRequest("POST", "/transactions", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response dto.Response
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.False(t, response.Success)
		require.NotNil(t, response.Error)
		assert.Equal(t, dto.ErrCodeValidation, response.Error.Code)

		fields := make(map[string]bool)
		for _, d := range response.Error.Details {
			fields[d.Field] = true
		}
		assert.True(t, fields["amount"])
		assert.True(t, fields["type"])
	})

	t.Run("accepts a valid body", func(t *testing.T) {
		body := []byte(`{"amount":10,"type":"SALE"}`)
		req := httptest.NewRequest("POST", "/transactions", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
