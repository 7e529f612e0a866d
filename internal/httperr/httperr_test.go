package httperr

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsBusiness(t *testing.T) {
	err := fmt.Errorf("create: %w", ErrBusiness("slot_taken"))

	assert.True(t, IsBusiness(err, "slot_taken"))
	assert.False(t, IsBusiness(err, "invalid_state"))
	assert.False(t, IsBusiness(nil, "slot_taken"))
}

func TestIsExclusionConflict(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	exclusion := &pgconn.PgError{Code: "23P01"}
	other := &pgconn.PgError{Code: "23503"}

	assert.True(t, IsExclusionConflict(unique))
	assert.True(t, IsExclusionConflict(exclusion))
	assert.False(t, IsExclusionConflict(other))
	assert.False(t, IsExclusionConflict(fmt.Errorf("boom")))
}

func TestBusinessStatusAndMessage(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{"invalid_slot", http.StatusBadRequest},
		{"appointment_not_found", http.StatusNotFound},
		{"not_owner", http.StatusForbidden},
		{"invalid_state", http.StatusConflict},
		{"idempotency_key_mismatch", http.StatusConflict},
		{"something_new", http.StatusBadRequest},
	}
	for _, tt := range tests {
		be := BusinessError{Code: tt.code}
		assert.Equal(t, tt.status, be.Status(), tt.code)
	}

	assert.Equal(t, "Booking for today is closed.", BusinessError{Code: "booking_closed_today"}.Message())
	assert.Empty(t, BusinessError{Code: "something_new"}.Message())
}

func TestBusinessWriter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Business(c, BusinessError{Code: "not_owner"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error_code":"not_owner","message":"This appointment does not belong to you."}`, w.Body.String())
}
