package get_credit_summary

import (
	"time"

	"github.com/m04kA/bitforce-booking/internal/domain"
	getCreditSummary "github.com/m04kA/bitforce-booking/internal/usecase/get_credit_summary"
)

// CreditSummaryResponse HTTP response model
type CreditSummaryResponse struct {
	UserID     int64   `json:"userId"`
	Username   string  `json:"username"`
	Total      int     `json:"total"`
	Used       int     `json:"used"`
	Available  int     `json:"available"`
	PeriodFrom *string `json:"periodFrom,omitempty"` // "2025-10-01"
	PeriodTo   *string `json:"periodTo,omitempty"`
	Expired    bool    `json:"expired"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getCreditSummary.Response) *CreditSummaryResponse {
	return &CreditSummaryResponse{
		UserID:     resp.UserID,
		Username:   resp.Username,
		Total:      resp.Total,
		Used:       resp.Used,
		Available:  resp.Available,
		PeriodFrom: formatDate(resp.PeriodFrom),
		PeriodTo:   formatDate(resp.PeriodTo),
		Expired:    resp.Expired,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateFormat)
	return &s
}
