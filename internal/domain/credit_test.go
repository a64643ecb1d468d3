package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestUserCredit_Period(t *testing.T) {
	expiry := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	activation := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	_, _, ok := (&UserCredit{}).Period()
	assert.False(t, ok)

	from, to, ok := (&UserCredit{ExpiresAt: &expiry}).Period()
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, expiry, to)

	from, _, ok = (&UserCredit{ExpiresAt: &expiry, ActivatedAt: &activation}).Period()
	assert.True(t, ok)
	assert.Equal(t, activation, from)
}

func TestUserCredit_UsedCredits(t *testing.T) {
	expiry := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	activation := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)
	user := &UserCredit{Balance: 8, ExpiresAt: &expiry, ActivatedAt: &activation}

	reservation := func(start time.Time) *Reservation {
		return &Reservation{Slot: &Slot{Start: start}}
	}

	reservations := []*Reservation{
		reservation(time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)),  // до периода
		reservation(activation),                                    // граница периода
		reservation(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)), // внутри
		reservation(now), // начался ровно сейчас
		reservation(time.Date(2024, 1, 25, 10, 0, 0, 0, time.UTC)), // будущий
		{ID: 9},
		nil,
	}

	assert.Equal(t, 3, user.UsedCredits(reservations, now))
	assert.Equal(t, 0, (&UserCredit{Balance: 8}).UsedCredits(reservations, now))
}

func TestUserCredit_AvailableCredits(t *testing.T) {
	assert.Equal(t, 5, (&UserCredit{Balance: 8}).AvailableCredits(3))
	assert.Equal(t, 0, (&UserCredit{Balance: 2}).AvailableCredits(3))
	assert.Equal(t, MaxDisplayedCredits, (&UserCredit{Balance: 20000}).AvailableCredits(0))

	var missing *UserCredit
	assert.Equal(t, 0, missing.AvailableCredits(0))
}

func TestUserCredit_IsExpired(t *testing.T) {
	now := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	assert.False(t, (&UserCredit{}).IsExpired(now))
	assert.False(t, (&UserCredit{ExpiresAt: timePtr(now)}).IsExpired(now))
	assert.True(t, (&UserCredit{ExpiresAt: timePtr(now.Add(-time.Second))}).IsExpired(now))
}

func TestBlockedError(t *testing.T) {
	var err error = &BlockedError{Reason: ReasonNoCredits}

	assert.True(t, errors.Is(err, ErrBlocked))

	var blocked *BlockedError
	assert.True(t, errors.As(err, &blocked))
	assert.Equal(t, ReasonNoCredits, blocked.Reason)
	assert.Contains(t, err.Error(), "NO_CREDITS")
}
