// Package billing manages recurring billing relationships between a billable
// entity and the Paystack payment processor: customer provisioning, the
// subscription lifecycle (trial → active → grace period → cancelled), and
// idempotent reconciliation of subscription state from inbound webhook events.
//
// The package keeps local records authoritative while absorbing the
// processor's asynchronous, possibly duplicated or out-of-order notifications.
// Subscription states are not stored tags but booleans derived freshly from
// the record's fields on every read, so concurrent last-write-wins updates
// always yield a consistent view.
//
// # Core Components
//
//   - Service: user-facing subscription operations (cancel, resume, swap,
//     sync, charge) plus customer provisioning
//   - SubscriptionBuilder: fluent construction of new subscriptions, from a
//     direct processor call or from webhook data
//   - Webhook: signature verification and event dispatch with an explicit,
//     startup-validated handler registry
//   - Processor: the narrow client interface to the remote billing API
//   - CustomerStore / SubscriptionStore: persistence ports with in-memory
//     implementations in this package and a pgx-backed one in pgstore
//
// # Quick Start
//
//	client, _ := paystack.NewClient(paystack.Config{SecretKey: secret})
//	svc := billing.NewService(cfg, billing.NewPaystackProcessor(client),
//		billing.NewInMemCustomerStore(), billing.NewInMemSubscriptionStore())
//
//	sub, err := svc.NewSubscription(owner, "default", "PLN_monthly").
//		TrialDays(14).
//		Create(ctx)
//
// Webhook deliveries are verified and dispatched separately:
//
//	wh, _ := billing.NewWebhook(svc, secret)
//	result, _ := wh.Handle(ctx, rawBody)
package billing
