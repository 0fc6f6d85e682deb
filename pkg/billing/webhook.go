package billing

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

// WebhookPayload is the decoded body of a processor webhook delivery.
type WebhookPayload struct {
	Event string      `json:"event"`
	Data  WebhookData `json:"data"`
}

// WebhookData carries the subscription-relevant fields of a delivery. The
// raw payload includes much more; only what reconciliation reads is
// decoded.
type WebhookData struct {
	ID               int64           `json:"id"`
	SubscriptionCode string          `json:"subscription_code"`
	Status           string          `json:"status"`
	NextPaymentDate  *time.Time      `json:"next_payment_date"`
	Customer         WebhookCustomer `json:"customer"`
	Plan             WebhookPlan     `json:"plan"`
}

// WebhookCustomer identifies the remote customer a delivery belongs to.
type WebhookCustomer struct {
	CustomerCode string `json:"customer_code"`
	Email        string `json:"email"`
}

// WebhookPlan identifies the plan a delivery refers to.
type WebhookPlan struct {
	Name     string `json:"name"`
	PlanCode string `json:"plan_code"`
}

// WebhookResult tells the HTTP layer how to answer the sender.
type WebhookResult int

const (
	// WebhookIgnored means the body carried no event field; the sender
	// gets an empty success so it stops retrying a harmless ping.
	WebhookIgnored WebhookResult = iota

	// WebhookHandledOK means the delivery was dispatched (or its event
	// type is unknown, which is not an error either).
	WebhookHandledOK
)

type webhookHandler func(ctx context.Context, payload WebhookPayload) error

// Webhook reconciles local subscription state from processor deliveries.
// Dispatch uses an explicit event registry validated at construction, and
// every handler is idempotent: duplicated or out-of-order deliveries are
// absorbed by existence and state checks, never retried back to the sender.
type Webhook struct {
	svc      *Service
	secret   string
	handlers map[string]webhookHandler
	log      *slog.Logger
}

// NewWebhook builds the reconciler for the given service. The secret is the
// shared key deliveries are signed with.
func NewWebhook(svc *Service, secret string) (*Webhook, error) {
	if svc == nil {
		panic("billing: Service is required")
	}
	if secret == "" {
		return nil, ErrMissingWebhookSecret
	}

	w := &Webhook{svc: svc, secret: secret, log: svc.log}
	w.handlers = map[string]webhookHandler{
		"subscription.create":    w.handleSubscriptionCreate,
		"subscription.enable":    w.handleSubscriptionEnable,
		"subscription.disable":   w.handleSubscriptionDisable,
		"subscription.not_renew": w.handleSubscriptionDisable,
		"invoice.payment_failed": w.handleSubscriptionEnable,
		"invoice.failed":         w.handleSubscriptionEnable,
	}
	for event, h := range w.handlers {
		if h == nil {
			return nil, errors.Join(ErrInvalidWebhookHandler, errors.New(event))
		}
	}
	return w, nil
}

// VerifySignature authenticates a raw delivery against the configured
// secret.
func (w *Webhook) VerifySignature(payload []byte, signature string) error {
	return VerifySignature(w.secret, payload, signature)
}

// Handle parses and dispatches an authenticated delivery. Callers must
// verify the signature first. Handlers report success regardless of their
// internal outcome; a missing local record is not the sender's problem to
// retry, so internal misses are logged and swallowed.
func (w *Webhook) Handle(ctx context.Context, body []byte) (WebhookResult, error) {
	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil || payload.Event == "" {
		return WebhookIgnored, nil
	}

	w.svc.publish(ctx, WebhookReceived{Payload: payload})

	handler, ok := w.handlers[payload.Event]
	if !ok {
		w.svc.publish(ctx, WebhookHandled{Payload: payload})
		return WebhookHandledOK, nil
	}

	if err := handler(ctx, payload); err != nil {
		w.log.ErrorContext(ctx, "webhook handler failed",
			slog.String("event", payload.Event),
			slog.String("subscription_code", payload.Data.SubscriptionCode),
			slog.Any("error", err))
	}
	return WebhookHandledOK, nil
}

// handleSubscriptionCreate builds a local record for a subscription first
// seen via webhook. Duplicate deliveries no-op on the existing record; the
// created event fires either way.
func (w *Webhook) handleSubscriptionCreate(ctx context.Context, payload WebhookPayload) error {
	data := payload.Data

	customer, err := w.svc.customers.ByProviderCode(ctx, data.Customer.CustomerCode)
	if err != nil && !errors.Is(err, ErrCustomerNotFound) {
		return err
	}
	sub, err := w.svc.subscriptions.ByProviderCode(ctx, data.SubscriptionCode)
	if err != nil && !errors.Is(err, ErrSubscriptionNotFound) {
		return err
	}

	if customer != nil && sub == nil {
		builder := w.svc.NewSubscription(customer.Owner, data.Plan.Name, data.Plan.PlanCode)
		sub, err = builder.Add(ctx, RemoteSubscription{
			ID:     data.ID,
			Code:   data.SubscriptionCode,
			Status: Status(data.Status),
		})
		if err != nil {
			return err
		}
	}

	w.svc.publish(ctx, SubscriptionCreated{Customer: customer, Subscription: sub, Payload: payload})
	return nil
}

// handleSubscriptionEnable applies a status push to the owner's matching
// subscription. Also serves failed-invoice deliveries, which carry the same
// status and next payment date fields.
func (w *Webhook) handleSubscriptionEnable(ctx context.Context, payload WebhookPayload) error {
	data := payload.Data

	customer, err := w.svc.customers.ByProviderCode(ctx, data.Customer.CustomerCode)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			return nil
		}
		return err
	}
	if data.Status == "" {
		return nil
	}

	subs, err := w.svc.subscriptions.ByOwner(ctx, customer.Owner)
	if err != nil {
		return err
	}
	for _, sub := range subs {
		if sub.ProviderCode != data.SubscriptionCode {
			continue
		}
		sub.ProviderStatus = Status(data.Status)
		sub.EndsAt = cloneTime(data.NextPaymentDate)
		sub.UpdatedAt = w.svc.now()
		if err := w.svc.subscriptions.Save(ctx, sub); err != nil {
			return err
		}
		w.svc.publish(ctx, SubscriptionEnabled{Customer: customer, Subscription: sub, Payload: payload})
	}
	return nil
}

// handleSubscriptionDisable cancels the local record unless it has already
// fully ended, which keeps duplicate deliveries from re-firing the
// cancellation event or resetting the ending timestamp.
func (w *Webhook) handleSubscriptionDisable(ctx context.Context, payload WebhookPayload) error {
	sub, err := w.svc.subscriptions.ByProviderCode(ctx, payload.Data.SubscriptionCode)
	if err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			return nil
		}
		return err
	}

	now := w.svc.now()
	if !sub.CancelledAt(now) || sub.OnGracePeriodAt(now) {
		sub.MarkAsCancelled(now)
		if err := w.svc.subscriptions.Save(ctx, sub); err != nil {
			return err
		}
		w.svc.publish(ctx, SubscriptionCancelled{Subscription: sub, Payload: payload})
	}
	return nil
}
