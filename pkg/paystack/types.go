package paystack

import "time"

// Response is the standard Paystack API envelope.
type Response[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Customer is a Paystack customer resource.
type Customer struct {
	ID           int64  `json:"id"`
	CustomerCode string `json:"customer_code"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
}

// CreateCustomerRequest creates a customer resource.
type CreateCustomerRequest struct {
	Email     string         `json:"email"`
	FirstName string         `json:"first_name,omitempty"`
	LastName  string         `json:"last_name,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Plan is the plan summary embedded in subscription resources.
type Plan struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	PlanCode string `json:"plan_code"`
	Amount   int64  `json:"amount"`
	Interval string `json:"interval"`
}

// Subscription is a Paystack subscription resource.
type Subscription struct {
	ID               int64      `json:"id"`
	SubscriptionCode string     `json:"subscription_code"`
	Status           string     `json:"status"`
	EmailToken       string     `json:"email_token"`
	Amount           int64      `json:"amount"`
	NextPaymentDate  *time.Time `json:"next_payment_date"`
	Plan             Plan       `json:"plan"`
	Customer         Customer   `json:"customer"`
}

// CreateSubscriptionRequest creates a subscription resource. Customer takes
// an email or customer code; Authorization is optional and defaults to the
// customer's most recent one.
type CreateSubscriptionRequest struct {
	Customer      string `json:"customer"`
	Plan          string `json:"plan"`
	StartDate     string `json:"start_date,omitempty"` // RFC3339
	Authorization string `json:"authorization,omitempty"`
}

// ToggleSubscriptionRequest enables or disables a subscription. Token is
// the email token issued with the subscription.
type ToggleSubscriptionRequest struct {
	Code  string `json:"code"`
	Token string `json:"token"`
}

// ChargeRequest drives the charge, charge_authorization and
// transaction/initialize endpoints. Amount is in the smallest currency
// unit.
type ChargeRequest struct {
	Email             string         `json:"email"`
	Amount            int64          `json:"amount"`
	Currency          string         `json:"currency,omitempty"`
	Reference         string         `json:"reference,omitempty"`
	AuthorizationCode string         `json:"authorization_code,omitempty"`
	Card              map[string]any `json:"card,omitempty"`
	Bank              map[string]any `json:"bank,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
}

// Transaction is the charge/initialize result resource.
type Transaction struct {
	Reference        string `json:"reference"`
	Status           string `json:"status"`
	AuthorizationURL string `json:"authorization_url,omitempty"`
	AccessCode       string `json:"access_code,omitempty"`
	Amount           int64  `json:"amount,omitempty"`
}

// RefundRequest refunds a settled transaction; a zero Amount refunds in
// full.
type RefundRequest struct {
	Transaction string `json:"transaction"`
	Amount      int64  `json:"amount,omitempty"`
}

// Refund is the refund result resource.
type Refund struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Amount int64  `json:"amount"`
}
