package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/db/dbtest"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestAvailability_ListRulesByRange(t *testing.T) {
	db := dbtest.New(t)
	f := seed(t, db, "centro")
	repo := NewAvailabilityGormRepository(db)
	ctx := context.Background()

	rules := []models.AvailabilityRule{
		{StaffID: f.staff.ID, Weekday: ptr(1), StartTime: "09:00", EndTime: "18:00"},
		{StaffID: f.staff.ID, Date: ptr("2025-06-07"), StartTime: "09:00", EndTime: "12:00"},
		{StaffID: f.staff.ID, Date: ptr("2025-07-01"), StartTime: "09:00", EndTime: "12:00"},
	}
	for i := range rules {
		require.NoError(t, repo.CreateRule(ctx, &rules[i]))
	}

	got, err := repo.ListRules(ctx, f.tenant.ID, f.staff.ID, at("2025-06-02", "00:00"), at("2025-06-08", "00:00"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, rules[0].ID, got[0].ID)
	assert.Equal(t, rules[1].ID, got[1].ID)
}

func TestAvailability_RulesAreTenantScoped(t *testing.T) {
	db := dbtest.New(t)
	f := seed(t, db, "centro")
	g := seed(t, db, "bairro")
	repo := NewAvailabilityGormRepository(db)
	ctx := context.Background()

	rule := models.AvailabilityRule{StaffID: f.staff.ID, Weekday: ptr(1), StartTime: "09:00", EndTime: "18:00"}
	require.NoError(t, repo.CreateRule(ctx, &rule))

	list, err := repo.ListStaffRules(ctx, g.tenant.ID, f.staff.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	ranged, err := repo.ListRules(ctx, g.tenant.ID, f.staff.ID, at("2025-06-02", "00:00"), at("2025-06-08", "00:00"))
	require.NoError(t, err)
	assert.Empty(t, ranged)

	rule.EndTime = "12:00"
	err = repo.UpdateRule(ctx, g.tenant.ID, &rule)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	ok, err := repo.DeleteRule(ctx, g.tenant.ID, rule.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.UpdateRule(ctx, f.tenant.ID, &rule))
	list, err = repo.ListStaffRules(ctx, f.tenant.ID, f.staff.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "12:00", list[0].EndTime)

	ok, err = repo.DeleteRule(ctx, f.tenant.ID, rule.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAvailability_UpdateRuleSwitchesKind(t *testing.T) {
	db := dbtest.New(t)
	f := seed(t, db, "centro")
	repo := NewAvailabilityGormRepository(db)
	ctx := context.Background()

	rule := models.AvailabilityRule{StaffID: f.staff.ID, Weekday: ptr(1), StartTime: "09:00", EndTime: "18:00"}
	require.NoError(t, repo.CreateRule(ctx, &rule))

	rule.Weekday = nil
	rule.Date = ptr("2025-06-10")
	require.NoError(t, repo.UpdateRule(ctx, f.tenant.ID, &rule))

	list, err := repo.ListStaffRules(ctx, f.tenant.ID, f.staff.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Weekday)
	require.NotNil(t, list[0].Date)
	assert.Equal(t, "2025-06-10", *list[0].Date)
}

func TestAvailability_Blocks(t *testing.T) {
	db := dbtest.New(t)
	f := seed(t, db, "centro")
	g := seed(t, db, "bairro")
	repo := NewAvailabilityGormRepository(db)
	ctx := context.Background()

	blocks := []models.Block{
		{TenantID: f.tenant.ID, StaffID: f.staff.ID, Date: "2025-06-02", StartTime: "14:00", EndTime: "15:00"},
		{TenantID: f.tenant.ID, StaffID: f.staff.ID, Date: "2025-06-02", StartTime: "09:00", EndTime: "10:00"},
		{TenantID: f.tenant.ID, StaffID: f.staff.ID, Date: "2025-06-20", StartTime: "09:00", EndTime: "10:00"},
	}
	for i := range blocks {
		require.NoError(t, repo.CreateBlock(ctx, &blocks[i]))
	}

	got, err := repo.ListBlocks(ctx, f.tenant.ID, f.staff.ID, at("2025-06-02", "00:00"), at("2025-06-03", "00:00"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "09:00", got[0].StartTime)

	got, err = repo.ListBlocks(ctx, g.tenant.ID, f.staff.ID, at("2025-06-01", "00:00"), at("2025-06-30", "00:00"))
	require.NoError(t, err)
	assert.Empty(t, got)

	ok, err := repo.DeleteBlock(ctx, g.tenant.ID, blocks[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.DeleteBlock(ctx, f.tenant.ID, blocks[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)
}
