package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/agenda-scheduler/internal/db/dbtest"
	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

func TestDeletion_ApproveRemovesAppointment(t *testing.T) {
	db := dbtest.New(t)
	f := seed(t, db, "centro")
	ledger := NewLedgerGormRepository(db)
	repo := NewDeletionGormRepository(db)
	ctx := context.Background()

	ap, err := ledger.Create(ctx, newBooking(f, at("2025-06-02", "09:00")))
	require.NoError(t, err)

	dr := &models.DeletionRequest{TenantID: f.tenant.ID, AppointmentID: &ap.ID, ClientID: f.client.ID}
	require.NoError(t, repo.Create(ctx, dr))
	assert.NotEqual(t, uuid.Nil, dr.Code)
	assert.Equal(t, "pending", dr.Status)

	now := at("2025-06-01", "18:00")
	got, err := repo.Resolve(ctx, dr.Code, true, now)
	require.NoError(t, err)
	assert.Equal(t, "approved", got.Status)
	require.NotNil(t, got.ResolvedAt)

	_, err = ledger.Get(ctx, f.tenant.ID, ap.ID)
	assert.ErrorIs(t, err, domain.ErrAppointmentNotFound)

	stored, err := repo.GetByCode(ctx, dr.Code)
	require.NoError(t, err)
	assert.Nil(t, stored.AppointmentID)

	// horário liberado
	_, err = ledger.Create(ctx, newBooking(f, at("2025-06-02", "09:00")))
	assert.NoError(t, err)
}

func TestDeletion_DenyKeepsAppointment(t *testing.T) {
	db := dbtest.New(t)
	f := seed(t, db, "centro")
	ledger := NewLedgerGormRepository(db)
	repo := NewDeletionGormRepository(db)
	ctx := context.Background()

	ap, err := ledger.Create(ctx, newBooking(f, at("2025-06-02", "09:00")))
	require.NoError(t, err)

	dr := &models.DeletionRequest{TenantID: f.tenant.ID, AppointmentID: &ap.ID, ClientID: f.client.ID}
	require.NoError(t, repo.Create(ctx, dr))

	got, err := repo.Resolve(ctx, dr.Code, false, at("2025-06-01", "18:00"))
	require.NoError(t, err)
	assert.Equal(t, "denied", got.Status)

	_, err = ledger.Get(ctx, f.tenant.ID, ap.ID)
	assert.NoError(t, err)
}

func TestDeletion_TerminalStatesDoNotMove(t *testing.T) {
	db := dbtest.New(t)
	f := seed(t, db, "centro")
	repo := NewDeletionGormRepository(db)
	ctx := context.Background()

	for _, first := range []bool{true, false} {
		dr := &models.DeletionRequest{TenantID: f.tenant.ID, ClientID: f.client.ID}
		require.NoError(t, repo.Create(ctx, dr))

		resolved, err := repo.Resolve(ctx, dr.Code, first, at("2025-06-01", "18:00"))
		require.NoError(t, err)

		for _, second := range []bool{true, false} {
			_, err := repo.Resolve(ctx, dr.Code, second, at("2025-06-01", "19:00"))
			assert.ErrorIs(t, err, domain.ErrAlreadyResolved)
		}

		stored, err := repo.GetByCode(ctx, dr.Code)
		require.NoError(t, err)
		assert.Equal(t, resolved.Status, stored.Status)
	}
}

func TestDeletion_UnknownCode(t *testing.T) {
	db := dbtest.New(t)
	repo := NewDeletionGormRepository(db)

	_, err := repo.GetByCode(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)

	_, err = repo.Resolve(context.Background(), uuid.New(), true, at("2025-06-01", "18:00"))
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
}
