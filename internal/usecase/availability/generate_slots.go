package availability

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	slots "github.com/BruksfildServices01/agenda-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/metrics"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type GenerateSlotsInput struct {
	TenantID  uint
	StaffID   uint
	ServiceID uint
	From      time.Time // só a data conta
	To        time.Time // inclusive
}

// ======================================================
// USE CASE
// ======================================================

type GenerateSlots struct {
	catalog      domain.Catalog
	rules        slots.RuleStore
	blocks       slots.BlockStore
	ledger       domain.Ledger
	maxRangeDays int

	now func() time.Time
}

func NewGenerateSlots(
	catalog domain.Catalog,
	rules slots.RuleStore,
	blocks slots.BlockStore,
	ledger domain.Ledger,
	maxRangeDays int,
) *GenerateSlots {
	return &GenerateSlots{
		catalog:      catalog,
		rules:        rules,
		blocks:       blocks,
		ledger:       ledger,
		maxRangeDays: maxRangeDays,
		now:          time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *GenerateSlots) Execute(
	ctx context.Context,
	in GenerateSlotsInput,
) ([]slots.Slot, error) {

	started := time.Now()
	metrics.SlotQueries.Inc()
	defer func() {
		metrics.SlotGeneration.Observe(time.Since(started).Seconds())
	}()

	// --------------------------------------------------
	// 1️⃣ Tenant
	// --------------------------------------------------
	tenant, err := uc.catalog.GetTenant(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckTenant(tenant); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Profissional
	// --------------------------------------------------
	staff, err := uc.catalog.GetStaff(ctx, in.StaffID)
	if errors.Is(err, domain.ErrStaffNotFound) {
		return nil, domain.ErrStaffUnknown
	}
	if err != nil {
		return nil, err
	}
	if err := domain.CheckStaff(staff, tenant.ID); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Serviço (a duração define o grid)
	// --------------------------------------------------
	svc, err := uc.catalog.GetService(ctx, in.ServiceID)
	if errors.Is(err, domain.ErrServiceNotFound) {
		return nil, domain.ErrServiceUnknown
	}
	if err != nil {
		return nil, err
	}
	if err := domain.CheckService(svc, tenant.ID); err != nil {
		return nil, err
	}

	offers, err := uc.catalog.StaffOffers(ctx, staff.ID, svc.ID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckOffer(offers); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Intervalo de datas
	// --------------------------------------------------
	from := slots.Day(in.From)
	to := slots.Day(in.To)
	if from.After(to) {
		return []slots.Slot{}, nil
	}
	if uc.maxRangeDays > 0 && to.Sub(from) >= time.Duration(uc.maxRangeDays)*24*time.Hour {
		return nil, httperr.Detailed(httperr.CodeInvalidInput, "date range too wide")
	}

	// --------------------------------------------------
	// 5️⃣ Leitura (snapshot, sem lock)
	// --------------------------------------------------
	ruleRows, err := uc.rules.ListRules(ctx, tenant.ID, staff.ID, from, to)
	if err != nil {
		return nil, err
	}

	blockRows, err := uc.blocks.ListBlocks(ctx, tenant.ID, staff.ID, from, to)
	if err != nil {
		return nil, err
	}

	busy, err := uc.ledger.ListBusy(ctx, tenant.ID, staff.ID, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	q := slots.Query{
		From:     from,
		To:       to,
		Duration: time.Duration(svc.DurationMinutes) * time.Minute,
		Busy:     busy,
	}

	for _, row := range ruleRows {
		rule, err := slots.RuleFromModel(row)
		if err != nil {
			// regra gravada inválida não derruba a agenda inteira
			log.Warn().Err(err).Uint("rule_id", row.ID).Msg("skipping invalid availability rule")
			continue
		}
		q.Rules = append(q.Rules, rule)
	}

	for _, row := range blockRows {
		block, err := slots.BlockFromModel(row)
		if err != nil {
			log.Warn().Err(err).Uint("block_id", row.ID).Msg("skipping invalid block")
			continue
		}
		q.Blocks = append(q.Blocks, block)
	}

	// --------------------------------------------------
	// 6️⃣ Geração (sem horários já passados no relógio do tenant)
	// --------------------------------------------------
	return dropPast(slots.Generate(q), timezone.WallClock(uc.now(), tenant.Timezone)), nil
}

func dropPast(list []slots.Slot, now time.Time) []slots.Slot {
	out := list[:0]
	for _, s := range list {
		if s.Start.Before(now) {
			continue
		}
		out = append(out, s)
	}
	return out
}
