package gym

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/bitforce-booking/internal/domain"
)

func TestSlotsQuery(t *testing.T) {
	from := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	branch := int64(2)

	query, args, err := slotsQuery(domain.SlotQuery{BranchID: &branch, From: from, To: to}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "FROM gym_slots s JOIN activities a ON a.id = s.activity_id JOIN branches b ON b.id = s.branch_id")
	assert.Contains(t, query, "s.starts_at >= $1")
	assert.Contains(t, query, "s.starts_at < $2")
	assert.Contains(t, query, "s.branch_id = $3")
	assert.NotContains(t, query, "s.activity_id =")
	assert.Contains(t, query, "ORDER BY s.starts_at, s.id")
	assert.Equal(t, []interface{}{from, to, branch}, args)
}

func TestSlotsQuery_NoFilters(t *testing.T) {
	query, args, err := slotsQuery(domain.SlotQuery{}).ToSql()
	require.NoError(t, err)

	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)
}

func TestReservationsQuery(t *testing.T) {
	query, args, err := reservationsQuery(5).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "FROM reservations res JOIN gym_slots s ON s.id = res.slot_id")
	assert.Contains(t, query, "res.user_id = $1")
	assert.Contains(t, query, "res.cancelled_at IS NULL")
	assert.Contains(t, query, "ORDER BY res.created_at DESC")
	assert.Equal(t, []interface{}{int64(5)}, args)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []error
	}{
		{"no rows", sql.ErrNoRows, []error{domain.ErrNotFound}},
		{"unique", &pq.Error{Code: pgUniqueViolation}, []error{domain.ErrValidation, ErrAlreadyBooked}},
		{"foreign key", &pq.Error{Code: pgForeignKeyViolation}, []error{domain.ErrNotFound}},
		{"serialization", &pq.Error{Code: pgSerializationFail}, []error{domain.ErrNetwork, ErrTransaction}},
		{"other", errors.New("connection refused"), []error{domain.ErrNetwork, ErrExecQuery}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapError(ErrExecQuery, "op", tt.err)
			for _, want := range tt.want {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestSessionUser(t *testing.T) {
	_, err := sessionUser(domain.Session{AccessToken: "t"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	id, err := sessionUser(domain.Session{UserID: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestNullableScanners(t *testing.T) {
	var slot domain.Slot
	dest := slotDest(&slot)

	require.NoError(t, dest[8].(nullInt).Scan(int64(45)))
	require.NotNil(t, slot.DurationMinutes)
	assert.Equal(t, 45, *slot.DurationMinutes)

	require.NoError(t, dest[10].(nullInt).Scan(nil))
	assert.Nil(t, slot.CutoffMinutes)

	end := time.Date(2024, 1, 10, 11, 0, 0, 0, time.UTC)
	require.NoError(t, dest[7].(nullTime).Scan(end))
	require.NotNil(t, slot.End)
	assert.Equal(t, end, *slot.End)

	require.NoError(t, dest[7].(nullTime).Scan(nil))
	assert.Nil(t, slot.End)
}
