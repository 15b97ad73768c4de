package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kommunity/models"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{models.NewError(models.ErrSlotUnavailable, models.SlotUnavailableMessage), http.StatusConflict},
		{models.NewError(models.ErrInvalidRange, "bad"), http.StatusBadRequest},
		{models.NewError(models.ErrRequestNotFound, "missing"), http.StatusNotFound},
		{models.NewError(models.ErrForbidden, "no"), http.StatusForbidden},
		{models.StorageError("book slot", errors.New("timeout")), http.StatusServiceUnavailable},
		{fmt.Errorf("load: %w", models.NewError(models.ErrOverlap, "overlap")), http.StatusConflict},
		{errors.New("mystery"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func TestRespondErrorRendersSlotConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/requests/1/assign", nil)

	RespondError(c, models.NewError(models.ErrSlotUnavailable, models.SlotUnavailableMessage))

	assert.Equal(t, http.StatusConflict, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "slot no longer available, please choose another", body.Message)
	assert.Equal(t, "slotUnavailable", body.Code)
}

func TestRespondErrorHidesUnknownErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/requests", nil)

	RespondError(c, errors.New("driver exploded at 0xdeadbeef"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "0xdeadbeef")
}
