package billing

// Config carries the billing core's own settings. Processor transport
// settings live in the processor client's config; webhook routing lives in
// the HTTP module.
type Config struct {
	// Currency is the default ISO currency code applied to charges that do
	// not specify one.
	Currency string `env:"BILLING_CURRENCY" envDefault:"NGN"`

	// WebhookSecret signs inbound webhook payloads. Paystack signs
	// deliveries with the account's secret key.
	WebhookSecret string `env:"PAYSTACK_SECRET_KEY"`
}
