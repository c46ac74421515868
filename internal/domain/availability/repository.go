package availability

import (
	"context"
	"time"

	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

// RuleStore lê e grava regras de um profissional.
type RuleStore interface {
	// ListRules devolve as recorrentes e as de data dentro de [from, to],
	// ordenadas por id. Profissional de outro tenant não tem regras.
	ListRules(ctx context.Context, tenantID, staffID uint, from, to time.Time) ([]models.AvailabilityRule, error)
	ListStaffRules(ctx context.Context, tenantID, staffID uint) ([]models.AvailabilityRule, error)
	CreateRule(ctx context.Context, rule *models.AvailabilityRule) error
	UpdateRule(ctx context.Context, tenantID uint, rule *models.AvailabilityRule) error
	DeleteRule(ctx context.Context, tenantID, ruleID uint) (bool, error)
}

type BlockStore interface {
	ListBlocks(ctx context.Context, tenantID, staffID uint, from, to time.Time) ([]models.Block, error)
	CreateBlock(ctx context.Context, block *models.Block) error
	DeleteBlock(ctx context.Context, tenantID, blockID uint) (bool, error)
}
