package event

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/erp/distribution/internal/domain/shared"
	"go.uber.org/zap"
)

const eventKeyPrefix = "event:"

// IdempotencyStats counts outcomes of an IdempotentHandler
type IdempotencyStats struct {
	Processed int64 `json:"processed"`
	Duplicate int64 `json:"duplicate"`
	Failed    int64 `json:"failed"`
}

// IdempotentHandler drops events whose ID was already handled
type IdempotentHandler struct {
	handler shared.EventHandler
	store   shared.IdempotencyStore
	ttl     time.Duration
	log     *zap.Logger

	processed atomic.Int64
	duplicate atomic.Int64
	failed    atomic.Int64
}

// NewIdempotentHandler wraps handler; ttl <= 0 uses shared.DefaultIdempotencyTTL
func NewIdempotentHandler(handler shared.EventHandler, store shared.IdempotencyStore, ttl time.Duration, log *zap.Logger) *IdempotentHandler {
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &IdempotentHandler{handler: handler, store: store, ttl: ttl, log: log}
}

// EventTypes delegates to the wrapped handler
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle runs the wrapped handler once per event ID. When the store is
// unreachable the event is processed anyway. A failed run releases the key
// so redelivery can retry.
func (h *IdempotentHandler) Handle(ctx context.Context, e shared.DomainEvent) error {
	key := eventKeyPrefix + e.EventID().String()

	fresh, err := h.store.MarkProcessed(ctx, key, h.ttl)
	switch {
	case err != nil:
		h.log.Warn("idempotency check failed, processing anyway",
			zap.String("event_id", e.EventID().String()),
			zap.Error(err),
		)
	case !fresh:
		h.duplicate.Add(1)
		h.log.Debug("duplicate event skipped",
			zap.String("event_id", e.EventID().String()),
			zap.String("event_type", e.EventType()),
		)
		return nil
	}

	if err := h.handler.Handle(ctx, e); err != nil {
		h.failed.Add(1)
		if rerr := h.store.Release(ctx, key); rerr != nil {
			h.log.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(rerr))
		}
		return err
	}
	h.processed.Add(1)
	return nil
}

// Stats returns a snapshot of the counters
func (h *IdempotentHandler) Stats() IdempotencyStats {
	return IdempotencyStats{
		Processed: h.processed.Load(),
		Duplicate: h.duplicate.Load(),
		Failed:    h.failed.Load(),
	}
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
