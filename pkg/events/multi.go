package events

import (
	"context"

	"go.uber.org/multierr"
)

// Multi fans an event out to every publisher and combines their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var err error
	for _, p := range m {
		if p == nil {
			continue
		}
		err = multierr.Append(err, p.Publish(ctx, event))
	}
	return err
}
