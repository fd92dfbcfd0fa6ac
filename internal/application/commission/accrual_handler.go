package commission

import (
	"context"
	"fmt"

	"github.com/erp/distribution/internal/domain/commission"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/erp/distribution/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderDeliveredHandler accrues pending commissions for the salesman of a
// delivered order, one per applicable structure.
type OrderDeliveredHandler struct {
	svc *CommissionService
	log *zap.Logger
}

// NewOrderDeliveredHandler creates a new OrderDeliveredHandler
func NewOrderDeliveredHandler(svc *CommissionService, log *zap.Logger) *OrderDeliveredHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderDeliveredHandler{svc: svc, log: log}
}

// EventTypes returns the event types this handler consumes
func (h *OrderDeliveredHandler) EventTypes() []string {
	return []string{trade.EventTypeOrderDelivered}
}

// Handle accrues commissions for an OrderDelivered event
func (h *OrderDeliveredHandler) Handle(ctx context.Context, e shared.DomainEvent) error {
	evt, ok := e.(*trade.OrderDeliveredEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T", e)
	}
	if evt.SalesmanID == nil {
		return nil
	}
	tenantID := evt.TenantID()
	structures, err := h.svc.structureRepo.FindApplicable(ctx, tenantID, *evt.SalesmanID, evt.OccurredAt())
	if err != nil {
		return fmt.Errorf("load commission structures: %w", err)
	}

	for i := range structures {
		st := &structures[i]
		base, qty, covered := orderBasis(evt, st)
		if !covered {
			continue
		}
		c, err := commission.NewCommission(tenantID, *evt.SalesmanID, commission.SourceOrder, &evt.OrderID,
			base, qty, st.Calculate(base, qty), commission.OrderAccrualKey(evt.OrderID, st.ID))
		if err != nil {
			return err
		}
		c.FromStructure(st.ID)
		created, _, err := h.svc.create(ctx, c)
		if err != nil {
			return fmt.Errorf("accrue commission for structure %s: %w", st.ID, err)
		}
		if created {
			h.log.Info("commission accrued",
				zap.String("order_id", evt.OrderID.String()),
				zap.String("structure_id", st.ID.String()),
				zap.String("amount", c.CommissionAmount.String()))
		}
	}
	return nil
}

// orderBasis returns the base amount and quantity a structure sees on an
// order. Product-scoped structures only count their product's lines.
func orderBasis(evt *trade.OrderDeliveredEvent, st *commission.Structure) (decimal.Decimal, int64, bool) {
	if st.ProductID == nil {
		return evt.TotalAmount, evt.TotalQuantity(), true
	}
	base := decimal.Zero
	var qty int64
	for _, l := range evt.Lines {
		if l.ProductID == *st.ProductID {
			base = base.Add(l.LineTotal)
			qty += l.Quantity
		}
	}
	return base, qty, qty > 0
}
