package get_class_board

import (
	"errors"
	"net/http"

	"github.com/m04kA/bitforce-booking/internal/api/handlers"
	"github.com/m04kA/bitforce-booking/internal/api/middleware"
	getClassBoard "github.com/m04kA/bitforce-booking/internal/usecase/get_class_board"
)

const (
	msgInvalidQuery     = "некорректные параметры: branchId и activityId должны быть числами, date в формате YYYY-MM-DD"
	msgInvalidFilter    = "некорректный фильтр"
	msgBoardUnavailable = "не удалось загрузить расписание"
)

type Handler struct {
	useCase GetClassBoardUseCase
	logger  Logger
}

func NewHandler(useCase GetClassBoardUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/classes
// Query params: branchId, activityId, date (YYYY-MM-DD), refresh (все опциональны)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	q := r.URL.Query()
	useCaseReq, err := ToUseCaseRequest(session, q.Get("branchId"), q.Get("activityId"), q.Get("date"), q.Get("refresh"))
	if err != nil {
		h.logger.Warn("GET /classes - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getClassBoard.ErrInvalidInput):
			h.logger.Warn("GET /classes - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		case errors.Is(err, getClassBoard.ErrBoardUnavailable):
			h.logger.Error("GET /classes - Board unavailable: %v", err)
			if !handlers.RespondGatewayError(w, err) {
				handlers.RespondError(w, http.StatusBadGateway, msgBoardUnavailable)
			}

		default:
			h.logger.Error("GET /classes - Failed to build board: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /classes - Board built: date=%s, days=%d, stale=%t",
		response.Date, len(response.Days), response.Stale)
	handlers.RespondJSON(w, http.StatusOK, response)
}
