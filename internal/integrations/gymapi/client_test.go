package gymapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/bitforce-booking/internal/domain"
	"github.com/m04kA/bitforce-booking/pkg/requestid"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type gatewayMetrics struct {
	mu     sync.Mutex
	calls  []string
	failed int
}

func (m *gatewayMetrics) ObserveGateway(op string, err error, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, op)
	if err != nil {
		m.failed++
	}
}

const token = "secret"

// gymZone зона зала (UTC-3, без перехода на летнее время)
var gymZone = time.FixedZone("ART", -3*60*60)

func newBackend(t *testing.T) (*Client, *gatewayMetrics) {
	t.Helper()

	r := mux.NewRouter()

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Header.Get("Authorization") != "Bearer "+token {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail":"Las credenciales de autenticación no se proveyeron."}`))
				return
			}
			if req.Header.Get(requestid.Header) == "" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			next.ServeHTTP(w, req)
		})
	})

	r.HandleFunc("/api/me/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":5,"username":"ana","creditos":"8","fecha_vencimiento":"2024-02-01T00:00:00Z","fecha_activacion":null}`))
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/claseprogramada/", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		if q.Get("ordering") != "inicio" || q.Get("only_future") != "1" || q.Get("sucursal") != "2" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"count":3,"results":[
			{"id":1,"inicio":"2024-01-10T10:00:00-03:00","duracion":45,"cutoff_minutes":30,"capacidad":20,"reservas_count":5,
			 "actividad":3,"actividad_nombre":"Yoga","sucursal":2,"sucursal_nombre":"Centro","sucursal_dir":"Av. 1"},
			{"id":2,"inicio":"2024-01-10T12:00:00.000000Z","fin":"2024-01-10T13:30:00Z","cutoff":"abc","capacidad_maxima":"12","ocupados":12},
			{"id":3,"inicio":""}
		]}`))
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/booking/", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("ordering") != "-creado" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`[
			{"id":70,"user_info":{"id":5},"slot":1,"slot_info":{"id":1,"inicio":"2024-01-10T10:00:00Z","cutoff":15,"actividad":"Yoga","sucursal":"Centro"},"creado":"2024-01-09T08:00:00Z"},
			{"id":71,"user":9,"slot_info":{"id":4,"inicio":"2024-01-11T10:00:00Z"}}
		]`))
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/bookings/reservar/", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]int64
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		switch body["slot"] {
		case 1:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":99,"user":5,"slot":1,"creado":"2024-01-09T09:00:00Z"}`))
		case 2:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"non_field_errors":["No hay cupos disponibles."]}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}).Methods(http.MethodPost)

	r.HandleFunc("/api/booking/{id}/", func(w http.ResponseWriter, req *http.Request) {
		switch mux.Vars(req)["id"] {
		case "70":
			w.WriteHeader(http.StatusNoContent)
		case "71":
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"detail":"No se puede cancelar."}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}).Methods(http.MethodDelete)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	m := &gatewayMetrics{}
	return NewClient(srv.URL+"/api/", 2*time.Second, gymZone, m, nopLogger{}), m
}

var session = domain.Session{AccessToken: token}

func TestClient_GetCurrentUser(t *testing.T) {
	c, m := newBackend(t)

	user, err := c.GetCurrentUser(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, int64(5), user.UserID)
	assert.Equal(t, "ana", user.Username)
	assert.Equal(t, 8, user.Balance)
	require.NotNil(t, user.ExpiresAt)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), user.ExpiresAt.UTC())
	assert.Nil(t, user.ActivatedAt)
	assert.Equal(t, []string{opGetCurrentUser}, m.calls)
}

func TestClient_FetchSlots(t *testing.T) {
	c, _ := newBackend(t)
	branch := int64(2)

	slots, err := c.FetchSlots(context.Background(), session, domain.SlotQuery{BranchID: &branch})
	require.NoError(t, err)
	require.Len(t, slots, 3)

	first := slots[0]
	assert.Equal(t, int64(3), first.ActivityID)
	assert.Equal(t, "Yoga", first.ActivityName)
	assert.Equal(t, int64(2), first.BranchID)
	assert.Equal(t, "Av. 1", first.BranchAddress)
	assert.Equal(t, time.Date(2024, 1, 10, 13, 0, 0, 0, time.UTC), first.Start.UTC())
	require.NotNil(t, first.DurationMinutes)
	assert.Equal(t, 45, *first.DurationMinutes)
	require.NotNil(t, first.CutoffMinutes)
	assert.Equal(t, 30, *first.CutoffMinutes)
	assert.Equal(t, 15, first.AvailableCapacity())

	second := slots[1]
	assert.Nil(t, second.CutoffMinutes, "non-numeric cutoff is treated as absent")
	assert.Equal(t, 12, second.Capacity)
	assert.Equal(t, 12, second.Occupancy)
	require.NotNil(t, second.End)
	assert.Equal(t, 90*time.Minute, second.EndTime().Sub(second.Start))

	assert.True(t, slots[2].IsMalformed())
}

func TestClient_FetchMyReservations(t *testing.T) {
	c, _ := newBackend(t)

	reservations, err := c.FetchMyReservations(context.Background(), session)
	require.NoError(t, err)
	require.Len(t, reservations, 2)

	first := reservations[0]
	assert.Equal(t, int64(5), first.UserID)
	assert.Equal(t, int64(1), first.SlotID)
	require.NotNil(t, first.Slot)
	assert.Equal(t, "Yoga", first.Slot.ActivityName)
	assert.Equal(t, "Centro", first.Slot.BranchName)
	assert.Equal(t, 15*time.Minute, first.Slot.Cutoff())
	assert.Equal(t, time.Date(2024, 1, 9, 8, 0, 0, 0, time.UTC), first.CreatedAt.UTC())

	second := reservations[1]
	assert.Equal(t, int64(9), second.UserID)
	assert.Equal(t, int64(4), second.SlotID, "slot id taken from slot_info")
}

func TestClient_CreateReservation(t *testing.T) {
	c, _ := newBackend(t)

	reservation, err := c.CreateReservation(context.Background(), session, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(99), reservation.ID)
	assert.Equal(t, int64(1), reservation.SlotID)

	_, err = c.CreateReservation(context.Background(), session, 2)
	assert.ErrorIs(t, err, domain.ErrValidation)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "No hay cupos disponibles.", apiErr.Detail())

	_, err = c.CreateReservation(context.Background(), session, 3)
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestClient_CancelReservation(t *testing.T) {
	c, m := newBackend(t)

	assert.NoError(t, c.CancelReservation(context.Background(), session, 70))

	err := c.CancelReservation(context.Background(), session, 71)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Contains(t, err.Error(), "No se puede cancelar.")

	assert.ErrorIs(t, c.CancelReservation(context.Background(), session, 72), domain.ErrNotFound)

	assert.Equal(t, 2, m.failed)
}

func TestClient_Unauthorized(t *testing.T) {
	c, _ := newBackend(t)

	_, err := c.GetCurrentUser(context.Background(), domain.Session{AccessToken: "wrong"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second, gymZone, &gatewayMetrics{}, nopLogger{})
	_, err := c.GetCurrentUser(context.Background(), session)
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestClient_InvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results": "oops"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, time.Second, gymZone, &gatewayMetrics{}, nopLogger{})
	_, err := c.FetchSlots(context.Background(), session, domain.SlotQuery{})
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestFlexInt(t *testing.T) {
	tests := []struct {
		raw   string
		valid bool
		value int
	}{
		{`15`, true, 15},
		{`"20"`, true, 20},
		{`" 5 "`, true, 5},
		{`"abc"`, false, 0},
		{`null`, false, 0},
		{`{"id": 7}`, true, 7},
		{`true`, false, 0},
	}

	for _, tt := range tests {
		var f flexInt
		require.NoError(t, json.Unmarshal([]byte(tt.raw), &f), tt.raw)
		assert.Equal(t, tt.valid, f.Valid, tt.raw)
		assert.Equal(t, tt.value, f.Int(), tt.raw)
	}
}

func TestClient_ZonelessTimesAreGymLocal(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/claseprogramada/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"inicio":"2024-01-10T01:30:00","fin":"2024-01-10T02:30:00","cutoff_minutes":30}]`))
	}).Methods(http.MethodGet)
	r.HandleFunc("/booking/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":7,"user":5,"slot_info":{"id":1,"inicio":"2024-01-10T01:30:00"},"creado":"2024-01-09T20:00:00"}]`))
	}).Methods(http.MethodGet)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, time.Second, gymZone, &gatewayMetrics{}, nopLogger{})

	slots, err := c.FetchSlots(context.Background(), session, domain.SlotQuery{})
	require.NoError(t, err)
	require.Len(t, slots, 1)

	slot := slots[0]
	assert.True(t, slot.Start.Equal(time.Date(2024, 1, 10, 1, 30, 0, 0, gymZone)))
	require.NotNil(t, slot.End)
	assert.True(t, slot.End.Equal(time.Date(2024, 1, 10, 2, 30, 0, 0, gymZone)))

	// Класс остаётся в своём локальном дне
	jan10 := domain.SlotFilter{Day: time.Date(2024, 1, 10, 12, 0, 0, 0, gymZone)}
	assert.True(t, jan10.Matches(slot, gymZone))

	// До начала по местному времени класс не начался и запись ещё открыта
	beforeStart := time.Date(2024, 1, 9, 22, 59, 0, 0, gymZone)
	assert.False(t, slot.HasStarted(beforeStart))
	assert.True(t, slot.IsBeforeCutoff(beforeStart))
	assert.True(t, slot.HasStarted(time.Date(2024, 1, 10, 1, 30, 0, 0, gymZone)))

	reservations, err := c.FetchMyReservations(context.Background(), session)
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	require.NotNil(t, reservations[0].Slot)
	assert.True(t, reservations[0].Slot.Start.Equal(slot.Start))
	assert.True(t, reservations[0].CreatedAt.Equal(time.Date(2024, 1, 9, 20, 0, 0, 0, gymZone)))
}

func TestFlexTime(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{raw: `"2024-01-10T10:00:00-03:00"`, want: time.Date(2024, 1, 10, 13, 0, 0, 0, time.UTC)},
		{raw: `"2024-01-10T10:00:00Z"`, want: time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)},
		{raw: `"2024-01-10T10:00:00"`, want: time.Date(2024, 1, 10, 10, 0, 0, 0, gymZone)},
		{raw: `"2024-01-10"`, want: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		{raw: `""`},
		{raw: `"tomorrow"`},
		{raw: `null`},
		{raw: `12`},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var f flexTime
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &f))

			got := f.InZone(gymZone)
			if tt.want.IsZero() {
				assert.True(t, got.IsZero())
				assert.Nil(t, f.PtrInZone(gymZone))
				return
			}
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}
