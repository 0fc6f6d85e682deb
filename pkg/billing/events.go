package billing

import (
	"context"

	"github.com/dmitrymomot/billingkit/pkg/broadcast"
)

// Event is a domain event emitted for external subscribers. Events carry
// the records and raw payloads involved; consumers must treat them as
// snapshots, not live references.
type Event interface {
	EventName() string
}

// WebhookReceived is emitted for every authenticated, well-formed webhook
// delivery before dispatch.
type WebhookReceived struct {
	Payload WebhookPayload
}

func (WebhookReceived) EventName() string { return "webhook.received" }

// WebhookHandled is emitted for deliveries whose event type has no
// registered handler. Unknown event types are not errors.
type WebhookHandled struct {
	Payload WebhookPayload
}

func (WebhookHandled) EventName() string { return "webhook.handled" }

// SubscriptionCreated is emitted after a subscription.create delivery,
// whether or not a new record was built. Customer and Subscription are nil
// when the respective local lookup missed.
type SubscriptionCreated struct {
	Customer     *Customer
	Subscription *Subscription
	Payload      WebhookPayload
}

func (SubscriptionCreated) EventName() string { return "subscription.created" }

// SubscriptionEnabled is emitted when a status push (enable or failed
// invoice carrying a status) was applied to a local record.
type SubscriptionEnabled struct {
	Customer     *Customer
	Subscription *Subscription
	Payload      WebhookPayload
}

func (SubscriptionEnabled) EventName() string { return "subscription.enabled" }

// SubscriptionCancelled is emitted when a disable push cancelled a local
// record. Duplicate deliveries produce exactly one event.
type SubscriptionCancelled struct {
	Subscription *Subscription
	Payload      WebhookPayload
}

func (SubscriptionCancelled) EventName() string { return "subscription.cancelled" }

func (s *Service) publish(ctx context.Context, ev Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Broadcast(ctx, broadcast.Message[Event]{Data: ev}); err != nil {
		s.log.WarnContext(ctx, "failed to publish billing event", "event", ev.EventName(), "error", err)
	}
}
