package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/threadline/threadline-backend/pkg/logger"
)

// Invalidator drops cached order reads after a mutation commits. Failures
// are logged and swallowed so writes never fail on the cache.
type Invalidator struct {
	cache Cache
	logg  *logger.Logger
}

func NewInvalidator(c Cache, logg *logger.Logger) *Invalidator {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Invalidator{cache: c, logg: logg}
}

// OrdersChanged clears every admin list page, every client list page and the
// single-order entries for the given ids. A nil client id skips the client
// pattern.
func (i *Invalidator) OrdersChanged(ctx context.Context, adminID, clientID uuid.UUID, orderIDs ...uuid.UUID) {
	if i == nil || i.cache == nil {
		return
	}
	if adminID != uuid.Nil {
		i.delPattern(ctx, AdminOrdersPattern(adminID))
	}
	if clientID != uuid.Nil {
		i.delPattern(ctx, ClientOrdersPattern(clientID))
	}
	if len(orderIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(orderIDs))
	for _, id := range orderIDs {
		if id != uuid.Nil {
			keys = append(keys, OrderKey(id))
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := i.cache.Del(ctx, keys...); err != nil {
		i.logg.WarnErr(i.logg.WithField(ctx, "keys", keys), "cache invalidation failed", err)
	}
}

func (i *Invalidator) delPattern(ctx context.Context, pattern string) {
	if err := i.cache.DelPattern(ctx, pattern); err != nil {
		i.logg.WarnErr(i.logg.WithField(ctx, "pattern", pattern), "cache invalidation failed", err)
	}
}
