package inventory

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/agenda-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/inventory"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type MoveStockInput struct {
	TenantID  uint
	ProductID uint
	Kind      string // in | out
	Quantity  int    // sempre positiva; o tipo define o sinal
	Reason    string
	ActorID   *uint
}

type MoveStock struct {
	store domain.Store
	audit *audit.Dispatcher
}

func NewMoveStock(store domain.Store, audit *audit.Dispatcher) *MoveStock {
	return &MoveStock{store: store, audit: audit}
}

func (uc *MoveStock) Execute(
	ctx context.Context,
	in MoveStockInput,
) (*models.StockMovement, error) {

	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	delta := in.Quantity
	switch in.Kind {
	case domain.KindIn:
	case domain.KindOut:
		delta = -in.Quantity
	default:
		return nil, domain.ErrInvalidKind
	}

	mov, err := uc.store.Move(ctx, in.TenantID, in.ProductID, delta, in.Kind, strings.TrimSpace(in.Reason))
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		ActorID:  in.ActorID,
		Action:   audit.ActionStockMoved,
		Entity:   "product",
		EntityID: &mov.ProductID,
		Metadata: map[string]any{
			"quantity":    mov.Quantity,
			"stock_after": mov.StockAfter,
		},
	})

	return mov, nil
}
