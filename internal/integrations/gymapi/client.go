package gymapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/m04kA/bitforce-booking/internal/domain"
	"github.com/m04kA/bitforce-booking/pkg/requestid"
)

// Операции для метрик и логов
const (
	opGetCurrentUser      = "get_current_user"
	opFetchSlots          = "fetch_slots"
	opFetchMyReservations = "fetch_my_reservations"
	opCreateReservation   = "create_reservation"
	opCancelReservation   = "cancel_reservation"
)

// maxBodySize ограничение на размер ответа
const maxBodySize = 4 << 20

// Client клиент REST API бэкенда спортзала
type Client struct {
	baseURL    string
	httpClient *http.Client
	location   *time.Location
	metrics    Metrics
	log        Logger
}

// NewClient создает новый экземпляр клиента.
// location зона зала: в ней читается время без часового пояса.
// Транспорт обёрнут в otelhttp: исходящие запросы попадают в трейс входящего.
func NewClient(baseURL string, timeout time.Duration, location *time.Location, metrics Metrics, log Logger) *Client {
	if location == nil {
		location = time.Local
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		location: location,
		metrics:  metrics,
		log:      log,
	}
}

// GetCurrentUser получает профиль и кредиты текущего пользователя
func (c *Client) GetCurrentUser(ctx context.Context, session domain.Session) (*domain.UserCredit, error) {
	var me Me
	if err := c.do(ctx, session, opGetCurrentUser, http.MethodGet, "/me/", nil, nil, &me); err != nil {
		return nil, err
	}
	return me.toDomain(c.location), nil
}

// FetchSlots получает будущие классы с фильтром по филиалу и активности.
// Ограничение по дню применяет вызывающий код.
func (c *Client) FetchSlots(ctx context.Context, session domain.Session, query domain.SlotQuery) ([]*domain.Slot, error) {
	params := url.Values{}
	params.Set("ordering", "inicio")
	params.Set("only_future", "1")
	if query.BranchID != nil {
		params.Set("sucursal", strconv.FormatInt(*query.BranchID, 10))
	}
	if query.ActivityID != nil {
		params.Set("actividad", strconv.FormatInt(*query.ActivityID, 10))
	}

	var raw json.RawMessage
	if err := c.do(ctx, session, opFetchSlots, http.MethodGet, "/claseprogramada/", params, nil, &raw); err != nil {
		return nil, err
	}

	classes, err := decodeList[ScheduledClass](raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: failed to decode classes: %v", domain.ErrNetwork, ErrInvalidResponse, err)
	}

	slots := make([]*domain.Slot, 0, len(classes))
	for i := range classes {
		slots = append(slots, classes[i].toDomain(c.location))
	}
	return slots, nil
}

// FetchMyReservations получает бронирования, видимые пользователю (новые первыми).
// Бэкенд может вернуть и чужие бронирования: фильтрация по пользователю на стороне вызывающего.
func (c *Client) FetchMyReservations(ctx context.Context, session domain.Session) ([]*domain.Reservation, error) {
	params := url.Values{}
	params.Set("ordering", "-creado")

	var raw json.RawMessage
	if err := c.do(ctx, session, opFetchMyReservations, http.MethodGet, "/booking/", params, nil, &raw); err != nil {
		return nil, err
	}

	bookings, err := decodeList[Booking](raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: failed to decode bookings: %v", domain.ErrNetwork, ErrInvalidResponse, err)
	}

	reservations := make([]*domain.Reservation, 0, len(bookings))
	for i := range bookings {
		reservations = append(reservations, bookings[i].toDomain(c.location))
	}
	return reservations, nil
}

// CreateReservation бронирует слот
func (c *Client) CreateReservation(ctx context.Context, session domain.Session, slotID int64) (*domain.Reservation, error) {
	var raw json.RawMessage
	if err := c.do(ctx, session, opCreateReservation, http.MethodPost, "/bookings/reservar/", nil,
		reserveRequest{Slot: slotID}, &raw); err != nil {
		return nil, err
	}

	// Тело ответа может отличаться между версиями бэкенда: достаточно ID
	var booking Booking
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &booking); err != nil {
			c.log.Warn("CreateReservation: unexpected response body for slot=%d: %v", slotID, err)
		}
	}

	reservation := booking.toDomain(c.location)
	if reservation.SlotID == 0 {
		reservation.SlotID = slotID
	}
	return reservation, nil
}

// CancelReservation отменяет бронирование
func (c *Client) CancelReservation(ctx context.Context, session domain.Session, reservationID int64) error {
	path := fmt.Sprintf("/booking/%d/", reservationID)
	return c.do(ctx, session, opCancelReservation, http.MethodDelete, path, nil, nil, nil)
}

// do выполняет запрос и декодирует ответ в out (если out != nil)
func (c *Client) do(
	ctx context.Context,
	session domain.Session,
	op, method, path string,
	params url.Values,
	body interface{},
	out interface{},
) (err error) {
	started := time.Now()
	defer func() {
		c.metrics.ObserveGateway(op, err, time.Since(started))
	}()

	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	}
	req.Header.Set(requestid.Header, requestid.Ensure(ctx))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("%s: %s %s failed: %v", op, method, path, err)
		return fmt.Errorf("%w: %s %s: %w", domain.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: %w: failed to read response: %v", domain.ErrNetwork, ErrInvalidResponse, err)
	}

	// Обработка статус-кодов
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Operation: op, StatusCode: resp.StatusCode}

		var errResp errorResponse
		if json.Unmarshal(data, &errResp) == nil {
			apiErr.Message = errResp.message()
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			c.log.Error("%s: backend error: %v", op, apiErr)
		} else {
			c.log.Warn("%s: backend rejected request: %v", op, apiErr)
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %w: failed to decode response: %v", domain.ErrNetwork, ErrInvalidResponse, err)
	}

	return nil
}
