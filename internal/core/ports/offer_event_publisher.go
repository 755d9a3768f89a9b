package ports

import (
	"context"

	"dispatch/internal/core/domain/model/offer"
)

// OfferEventPublisher delivers offer countdown and outcome events to the
// driver UI and downstream consumers.
type OfferEventPublisher interface {
	Publish(ctx context.Context, event offer.Event) error
}
