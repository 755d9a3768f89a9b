package negotiation

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/offer"
	"dispatch/internal/core/ports"
)

// FanOut publishes every event to all of its publishers. A failing publisher
// does not keep the event from the others.
type FanOut []ports.OfferEventPublisher

func (f FanOut) Publish(ctx context.Context, event offer.Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
