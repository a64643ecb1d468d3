package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/bitforce-booking/internal/domain"
)

type backendError struct {
	sentinel error
	detail   string
}

func (e *backendError) Error() string  { return e.detail }
func (e *backendError) Unwrap() error  { return e.sentinel }
func (e *backendError) Detail() string { return e.detail }

func TestRespondGatewayError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantHandled bool
		wantStatus  int
		wantBody    ErrorResponse
	}{
		{
			name:        "blocked",
			err:         fmt.Errorf("wrap: %w", &domain.BlockedError{Reason: domain.ReasonCutoffClosed}),
			wantHandled: true,
			wantStatus:  http.StatusConflict,
			wantBody:    ErrorResponse{Error: msgActionBlocked, Reason: "CUTOFF_CLOSED"},
		},
		{
			name:        "validation with detail",
			err:         fmt.Errorf("wrap: %w", &backendError{sentinel: domain.ErrValidation, detail: "No hay cupos"}),
			wantHandled: true,
			wantStatus:  http.StatusUnprocessableEntity,
			wantBody:    ErrorResponse{Error: "No hay cupos"},
		},
		{
			name:        "validation without detail",
			err:         domain.ErrValidation,
			wantHandled: true,
			wantStatus:  http.StatusUnprocessableEntity,
			wantBody:    ErrorResponse{Error: msgRejected},
		},
		{
			name:        "not found",
			err:         fmt.Errorf("x: %w", domain.ErrNotFound),
			wantHandled: true,
			wantStatus:  http.StatusNotFound,
			wantBody:    ErrorResponse{Error: msgNotFound},
		},
		{
			name:        "forbidden",
			err:         domain.ErrForbidden,
			wantHandled: true,
			wantStatus:  http.StatusForbidden,
			wantBody:    ErrorResponse{Error: msgForbidden},
		},
		{
			name:        "network",
			err:         fmt.Errorf("x: %w", domain.ErrNetwork),
			wantHandled: true,
			wantStatus:  http.StatusBadGateway,
			wantBody:    ErrorResponse{Error: msgGatewayDown},
		},
		{
			name: "unrelated",
			err:  errors.New("boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			handled := RespondGatewayError(rec, tt.err)

			require.Equal(t, tt.wantHandled, handled)
			if !handled {
				assert.Equal(t, 0, rec.Body.Len())
				return
			}
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var v struct {
		SlotID int64 `json:"slotId"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"slotId": 5}`))
	require.NoError(t, DecodeJSON(req, &v))
	assert.Equal(t, int64(5), v.SlotID)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"slotId": 5, "extra": true}`))
	assert.Error(t, DecodeJSON(req, &v))
}
