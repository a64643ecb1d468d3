package reserve_slot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/bitforce-booking/internal/api/middleware"
	"github.com/m04kA/bitforce-booking/internal/domain"
	reserveSlot "github.com/m04kA/bitforce-booking/internal/usecase/reserve_slot"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	got  *reserveSlot.Request
	resp *reserveSlot.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *reserveSlot.Request) (*reserveSlot.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(uc *fakeUseCase, path string, session *domain.Session) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/classes/{slotId}/reservations", NewHandler(uc, nopLogger{}).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, path, nil)
	if session != nil {
		req = req.WithContext(middleware.WithSession(req.Context(), *session))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	credits := 4
	created := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &reserveSlot.Response{ReservationID: 77, SlotID: 15, CreatedAt: created, Credits: &credits}}
	session := domain.Session{AccessToken: "tok"}

	rec := serve(uc, "/classes/15/reservations", &session)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(15), uc.got.SlotID)
	assert.Equal(t, session, uc.got.Session)

	var body ReservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(77), body.ReservationID)
	assert.Equal(t, "2025-10-15T09:00:00Z", body.CreatedAt)
	require.NotNil(t, body.Credits)
	assert.Equal(t, 4, *body.Credits)
}

func TestHandle_Errors(t *testing.T) {
	session := &domain.Session{UserID: 3}

	tests := []struct {
		name       string
		path       string
		session    *domain.Session
		err        error
		wantStatus int
	}{
		{name: "no session", path: "/classes/15/reservations", wantStatus: http.StatusUnauthorized},
		{name: "bad id", path: "/classes/abc/reservations", session: session, wantStatus: http.StatusBadRequest},
		{name: "zero id", path: "/classes/0/reservations", session: session, wantStatus: http.StatusBadRequest},
		{
			name:       "blocked locally",
			path:       "/classes/15/reservations",
			session:    session,
			err:        &domain.BlockedError{Reason: domain.ReasonOverlap},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "backend rejected",
			path:       "/classes/15/reservations",
			session:    session,
			err:        fmt.Errorf("%w: %w", reserveSlot.ErrReserveFailed, domain.ErrValidation),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "backend down",
			path:       "/classes/15/reservations",
			session:    session,
			err:        fmt.Errorf("%w: %w", reserveSlot.ErrReserveFailed, domain.ErrNetwork),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "unexpected",
			path:       "/classes/15/reservations",
			session:    session,
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.err}, tt.path, tt.session)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandle_BlockedReasonInBody(t *testing.T) {
	rec := serve(&fakeUseCase{err: &domain.BlockedError{Reason: domain.ReasonNoCredits}},
		"/classes/15/reservations", &domain.Session{UserID: 1})

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reason":"NO_CREDITS"`)
}
