package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/notify"
)

func TestMarkCompleted_Idempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.booking().Execute(ctx, e.input("09:00"))
	require.NoError(t, err)

	uc := NewMarkCompleted(e.catalog, e.ledger, nil)
	uc.now = clock

	ok, err := uc.Execute(ctx, e.tenant.ID, nil, res.Appointment.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uc.Execute(ctx, e.tenant.ID, nil, res.Appointment.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ap, err := e.ledger.Get(ctx, e.tenant.ID, res.Appointment.ID)
	require.NoError(t, err)
	assert.True(t, ap.Completed)

	ok, err = uc.Execute(ctx, e.tenant.ID, nil, 9999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteAppointment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.booking().Execute(ctx, e.input("09:00"))
	require.NoError(t, err)

	uc := NewDeleteAppointment(e.ledger, nil)
	ok, err := uc.Execute(ctx, e.tenant.ID, nil, res.Appointment.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uc.Execute(ctx, e.tenant.ID, nil, res.Appointment.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// horário volta a ficar livre
	_, err = e.booking().Execute(ctx, e.input("09:00"))
	assert.NoError(t, err)
}

func TestSweepAutoComplete_UsesTenantClock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	for _, hhmm := range []string{"09:00", "14:00"} {
		_, err := e.booking().Execute(ctx, e.input(hhmm))
		require.NoError(t, err)
	}

	uc := NewSweepAutoComplete(e.catalog, e.ledger, nil)
	// 15:00 UTC = 12:00 em São Paulo
	uc.now = func() time.Time { return wall(monday, "15:00") }

	n, err := uc.Execute(ctx, e.tenant.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = uc.Execute(ctx, e.tenant.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeletionWorkflow_Approve(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.booking().Execute(ctx, e.input("09:00"))
	require.NoError(t, err)

	request := NewRequestDeletion(e.catalog, e.ledger, e.deletions, e.notifier, nil, opts)
	dr, err := request.Execute(ctx, e.tenant.ID, nil, res.Appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.DeletionPending), dr.Status)

	msg := e.notifier.last()
	assert.Equal(t, notify.KindDeletionRequest, msg.Kind)
	assert.Contains(t, msg.Text, "Olá, Maria!")
	assert.Contains(t, msg.Text, DeletionLink(opts.PublicBaseURL, dr.Code))

	status := NewGetDeletionStatus(e.catalog, e.deletions)
	view, err := status.Execute(ctx, dr.Code)
	require.NoError(t, err)
	assert.Equal(t, DeletionStatusView{Status: "pending", Slug: "barbearia-centro"}, *view)

	resolve := NewResolveDeletion(e.catalog, e.deletions, e.notifier, nil, opts)
	resolve.now = clock

	got, err := resolve.Execute(ctx, dr.Code, true)
	require.NoError(t, err)
	assert.Equal(t, string(domain.DeletionApproved), got.Status)
	assert.Equal(t, notify.KindDeletionCompleted, e.notifier.last().Kind)

	_, err = e.ledger.Get(ctx, e.tenant.ID, res.Appointment.ID)
	assert.ErrorIs(t, err, domain.ErrAppointmentNotFound)

	view, err = status.Execute(ctx, dr.Code)
	require.NoError(t, err)
	assert.Equal(t, "approved", view.Status)
}

func TestDeletionWorkflow_DenyAndTerminal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.booking().Execute(ctx, e.input("09:00"))
	require.NoError(t, err)

	dr, err := NewRequestDeletion(e.catalog, e.ledger, e.deletions, e.notifier, nil, opts).
		Execute(ctx, e.tenant.ID, nil, res.Appointment.ID)
	require.NoError(t, err)

	resolve := NewResolveDeletion(e.catalog, e.deletions, e.notifier, nil, opts)
	resolve.now = clock

	got, err := resolve.Execute(ctx, dr.Code, false)
	require.NoError(t, err)
	assert.Equal(t, string(domain.DeletionDenied), got.Status)
	assert.Equal(t, notify.KindDeletionCancelled, e.notifier.last().Kind)

	sent := len(e.notifier.kinds())
	for _, approve := range []bool{true, false} {
		_, err := resolve.Execute(ctx, dr.Code, approve)
		assert.ErrorIs(t, err, domain.ErrAlreadyResolved)
	}
	assert.Len(t, e.notifier.kinds(), sent)

	var count int64
	require.NoError(t, e.db.Model(&models.Appointment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeletionWorkflow_UnknownCode(t *testing.T) {
	e := newEnv(t)

	_, err := NewGetDeletionStatus(e.catalog, e.deletions).Execute(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)

	_, err = NewRequestDeletion(e.catalog, e.ledger, e.deletions, e.notifier, nil, opts).
		Execute(context.Background(), e.tenant.ID, nil, 9999)
	assert.ErrorIs(t, err, domain.ErrAppointmentNotFound)
}
