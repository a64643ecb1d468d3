package get_my_reservations

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/bitforce-booking/internal/api/handlers"
	"github.com/m04kA/bitforce-booking/internal/api/middleware"
	getMyReservations "github.com/m04kA/bitforce-booking/internal/usecase/get_my_reservations"
)

const (
	msgInvalidRefresh = "некорректный параметр refresh"
	msgUnavailable    = "не удалось загрузить бронирования"
)

type Handler struct {
	useCase GetMyReservationsUseCase
	logger  Logger
}

func NewHandler(useCase GetMyReservationsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/reservations
// Query params: refresh (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	force := false
	if raw := r.URL.Query().Get("refresh"); raw != "" {
		var err error
		if force, err = strconv.ParseBool(raw); err != nil {
			h.logger.Warn("GET /reservations - Invalid refresh flag: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidRefresh)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &getMyReservations.Request{
		Session:      session,
		ForceRefresh: force,
	})
	if err != nil {
		switch {
		case errors.Is(err, getMyReservations.ErrUnavailable):
			h.logger.Error("GET /reservations - Reservations unavailable: %v", err)
			if !handlers.RespondGatewayError(w, err) {
				handlers.RespondError(w, http.StatusBadGateway, msgUnavailable)
			}

		default:
			h.logger.Error("GET /reservations - Failed to get reservations: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /reservations - Reservations retrieved: upcoming=%d, history=%d",
		len(result.Upcoming), len(result.History))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
