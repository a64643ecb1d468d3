package get_credit_summary

import (
	"errors"
	"net/http"

	"github.com/m04kA/bitforce-booking/internal/api/handlers"
	"github.com/m04kA/bitforce-booking/internal/api/middleware"
	getCreditSummary "github.com/m04kA/bitforce-booking/internal/usecase/get_credit_summary"
)

const (
	msgUnavailable = "не удалось загрузить кредиты"
)

type Handler struct {
	useCase GetCreditSummaryUseCase
	logger  Logger
}

func NewHandler(useCase GetCreditSummaryUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/credits
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getCreditSummary.Request{
		Session:      session,
		ForceRefresh: r.URL.Query().Get("refresh") == "1",
	})
	if err != nil {
		switch {
		case errors.Is(err, getCreditSummary.ErrUnavailable):
			h.logger.Error("GET /credits - Credits unavailable: %v", err)
			if !handlers.RespondGatewayError(w, err) {
				handlers.RespondError(w, http.StatusBadGateway, msgUnavailable)
			}

		default:
			h.logger.Error("GET /credits - Failed to get credits: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /credits - Credits retrieved: user_id=%d, available=%d", result.UserID, result.Available)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
