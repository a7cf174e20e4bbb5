package vending

import (
	"context"

	"github.com/google/uuid"
)

// Cached rows are dropped only after commit. A failed delete leaves a stale
// entry until its TTL expires; it never affects the committed result.
func (s *service) invalidateUser(ctx context.Context, id uuid.UUID) {
	if err := s.cache.DeleteUser(context.WithoutCancel(ctx), id); err != nil {
		s.metrics.RecordError("cache_invalidate", "user")
	}
}

func (s *service) invalidateProduct(ctx context.Context, id uuid.UUID) {
	if err := s.cache.DeleteProduct(context.WithoutCancel(ctx), id); err != nil {
		s.metrics.RecordError("cache_invalidate", "product")
	}
}
