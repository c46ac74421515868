package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextDeletionStatus(t *testing.T) {
	next, err := NextDeletionStatus(DeletionPending, true)
	assert.NoError(t, err)
	assert.Equal(t, DeletionApproved, next)

	next, err = NextDeletionStatus(DeletionPending, false)
	assert.NoError(t, err)
	assert.Equal(t, DeletionDenied, next)

	for _, terminal := range []DeletionStatus{DeletionApproved, DeletionDenied} {
		for _, approve := range []bool{true, false} {
			next, err := NextDeletionStatus(terminal, approve)
			assert.ErrorIs(t, err, ErrAlreadyResolved)
			assert.Equal(t, terminal, next)
		}
	}
}

func TestValidateStart(t *testing.T) {
	now := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

	assert.ErrorIs(t, ValidateStart(time.Time{}, now), ErrInvalidStart)
	assert.ErrorIs(t, ValidateStart(time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC), now), ErrInvalidStart)
	assert.ErrorIs(t, ValidateStart(now.AddDate(-2, 0, 0), now), ErrInvalidStart)

	assert.NoError(t, ValidateStart(now.Add(-2*time.Hour), now))
	assert.NoError(t, ValidateStart(now.AddDate(0, 1, 0), now))
}
