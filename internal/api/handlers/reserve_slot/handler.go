package reserve_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/bitforce-booking/internal/api/handlers"
	"github.com/m04kA/bitforce-booking/internal/api/middleware"
	reserveSlot "github.com/m04kA/bitforce-booking/internal/usecase/reserve_slot"
)

const (
	msgInvalidSlotID = "некорректный ID класса"
)

type Handler struct {
	useCase ReserveSlotUseCase
	logger  Logger
}

func NewHandler(useCase ReserveSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/classes/{slotId}/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil || slotID <= 0 {
		h.logger.Warn("POST /classes/{id}/reservations - Invalid slot ID: %q", mux.Vars(r)["slotId"])
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &reserveSlot.Request{
		Session: session,
		SlotID:  slotID,
	})
	if err != nil {
		switch {
		case errors.Is(err, reserveSlot.ErrInvalidInput):
			h.logger.Warn("POST /classes/{id}/reservations - Invalid input: slot_id=%d, error=%v", slotID, err)
			handlers.RespondBadRequest(w, msgInvalidSlotID)

		case handlers.RespondGatewayError(w, err):
			h.logger.Warn("POST /classes/{id}/reservations - Reservation rejected: slot_id=%d, error=%v", slotID, err)

		default:
			h.logger.Error("POST /classes/{id}/reservations - Failed to reserve: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /classes/{id}/reservations - Reservation created: reservation_id=%d, slot_id=%d",
		result.ReservationID, result.SlotID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
