package middleware

import (
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

type observation struct {
	method string
	route  string
	status int
}

type fakeMetrics struct {
	mu  sync.Mutex
	obs []observation
}

func (m *fakeMetrics) ObserveHTTP(method, route string, status int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obs = append(m.obs, observation{method: method, route: route, status: status})
}

func sessionEcho(t *testing.T, got *domain.Session) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		require.True(t, ok)
		*got = session
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		want       domain.Session
	}{
		{
			name:       "bearer token",
			headers:    map[string]string{HeaderAuthorization: "Bearer abc"},
			wantStatus: http.StatusNoContent,
			want:       domain.Session{AccessToken: "abc"},
		},
		{
			name:       "user id only",
			headers:    map[string]string{HeaderUserID: "42"},
			wantStatus: http.StatusNoContent,
			want:       domain.Session{UserID: 42},
		},
		{
			name:       "both",
			headers:    map[string]string{HeaderAuthorization: "Bearer abc", HeaderUserID: "7"},
			wantStatus: http.StatusNoContent,
			want:       domain.Session{AccessToken: "abc", UserID: 7},
		},
		{
			name:       "no credentials",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "basic auth",
			headers:    map[string]string{HeaderAuthorization: "Basic Zm9vOmJhcg=="},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty bearer",
			headers:    map[string]string{HeaderAuthorization: "Bearer  "},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "bad user id",
			headers:    map[string]string{HeaderUserID: "abc"},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.Session
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()

			Auth(sessionEcho(t, &got)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSessionFromContext_Missing(t *testing.T) {
	_, ok := SessionFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = requestid.FromContext(r.Context())
	}))

	t.Run("keeps incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestid.Header, "req-1")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, "req-1", seen)
		assert.Equal(t, "req-1", rec.Header().Get(requestid.Header))
	})

	t.Run("generates id", func(t *testing.T) {
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(requestid.Header))
	})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := &fakeMetrics{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/classes/{slotId}/reservations", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}).Methods(http.MethodPost)
	r.HandleFunc("/credits", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}).Methods(http.MethodGet)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPost, "/classes/15/reservations", nil),
		httptest.NewRequest(http.MethodGet, "/credits", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	require.Len(t, m.obs, 2)
	assert.Equal(t, observation{method: http.MethodPost, route: "/classes/{slotId}/reservations", status: http.StatusCreated}, m.obs[0])
	assert.Equal(t, observation{method: http.MethodGet, route: "/credits", status: http.StatusOK}, m.obs[1])
}
