package orders

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/threadline/threadline-backend/pkg/errors"
)

const defaultNumberAttempts = 5

type numberExistsFunc func(ctx context.Context, adminID uuid.UUID, number string) (bool, error)

// NumberGenerator produces ORD-<unix millis>-<3 digits> identifiers unique
// per admin. Collisions are retried a bounded number of times.
type NumberGenerator struct {
	now         func() time.Time
	randIntN    func(n int) int
	maxAttempts int
}

// NewNumberGenerator returns a generator using the wall clock and a
// non-cryptographic random source.
func NewNumberGenerator(maxAttempts int) *NumberGenerator {
	if maxAttempts <= 0 {
		maxAttempts = defaultNumberAttempts
	}
	return &NumberGenerator{
		now:         time.Now,
		randIntN:    rand.IntN,
		maxAttempts: maxAttempts,
	}
}

// Format renders an order number for the given instant and suffix.
func Format(at time.Time, suffix int) string {
	return fmt.Sprintf("ORD-%d-%03d", at.UnixMilli(), suffix)
}

// Generate returns a number not yet used by adminID.
func (g *NumberGenerator) Generate(ctx context.Context, adminID uuid.UUID, exists numberExistsFunc) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		candidate := Format(g.now(), g.randIntN(1000))
		taken, err := exists(ctx, adminID, candidate)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order number")
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, "could not allocate a unique order number").
		WithDetails(map[string]any{"attempts": g.maxAttempts})
}
