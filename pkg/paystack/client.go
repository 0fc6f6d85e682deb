package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Config holds the Paystack client settings.
type Config struct {
	SecretKey string `env:"PAYSTACK_SECRET_KEY,required"`
	BaseURL   string `env:"PAYSTACK_BASE_URL" envDefault:"https://api.paystack.co"`
}

// Client calls the Paystack REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

// ClientOption configures optional Client settings.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client, e.g. to adjust the
// transport timeout.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// NewClient creates a Paystack API client.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	if cfg.SecretKey == "" {
		return nil, ErrMissingSecretKey
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		secretKey:  cfg.SecretKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// do issues one API call and decodes the envelope into out, which must be a
// pointer to a Response[T].
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Join(ErrRequestFailed, err)
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: unexpected status %d", ErrRequestFailed, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Join(ErrDecodeResponse, err)
	}
	return nil
}

// CreateCustomer creates a customer resource.
func (c *Client) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*Response[Customer], error) {
	var resp Response[Customer]
	if err := c.do(ctx, http.MethodPost, "/customer", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchCustomer retrieves a customer by id or code.
func (c *Client) FetchCustomer(ctx context.Context, id int64) (*Response[Customer], error) {
	var resp Response[Customer]
	if err := c.do(ctx, http.MethodGet, "/customer/"+strconv.FormatInt(id, 10), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateCustomer updates a customer resource.
func (c *Client) UpdateCustomer(ctx context.Context, id int64, req CreateCustomerRequest) (*Response[Customer], error) {
	var resp Response[Customer]
	if err := c.do(ctx, http.MethodPut, "/customer/"+strconv.FormatInt(id, 10), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateSubscription creates a subscription resource.
func (c *Client) CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (*Response[Subscription], error) {
	var resp Response[Subscription]
	if err := c.do(ctx, http.MethodPost, "/subscription", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListSubscriptions returns the subscriptions belonging to a customer.
func (c *Client) ListSubscriptions(ctx context.Context, customerID int64) (*Response[[]Subscription], error) {
	query := url.Values{"customer": {strconv.FormatInt(customerID, 10)}}
	var resp Response[[]Subscription]
	if err := c.do(ctx, http.MethodGet, "/subscription?"+query.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EnableSubscription re-enables a disabled subscription.
func (c *Client) EnableSubscription(ctx context.Context, req ToggleSubscriptionRequest) (*Response[struct{}], error) {
	var resp Response[struct{}]
	if err := c.do(ctx, http.MethodPost, "/subscription/enable", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DisableSubscription stops further renewals of a subscription.
func (c *Client) DisableSubscription(ctx context.Context, req ToggleSubscriptionRequest) (*Response[struct{}], error) {
	var resp Response[struct{}]
	if err := c.do(ctx, http.MethodPost, "/subscription/disable", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Charge executes a direct charge with card or bank details.
func (c *Client) Charge(ctx context.Context, req ChargeRequest) (*Response[Transaction], error) {
	var resp Response[Transaction]
	if err := c.do(ctx, http.MethodPost, "/charge", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChargeAuthorization charges a stored authorization.
func (c *Client) ChargeAuthorization(ctx context.Context, req ChargeRequest) (*Response[Transaction], error) {
	var resp Response[Transaction]
	if err := c.do(ctx, http.MethodPost, "/transaction/charge_authorization", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TransactionInitialize starts a redirect-based transaction.
func (c *Client) TransactionInitialize(ctx context.Context, req ChargeRequest) (*Response[Transaction], error) {
	var resp Response[Transaction]
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TransactionVerify verifies a transaction by reference.
func (c *Client) TransactionVerify(ctx context.Context, reference string) (*Response[Transaction], error) {
	var resp Response[Transaction]
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateRefund refunds a settled transaction.
func (c *Client) CreateRefund(ctx context.Context, req RefundRequest) (*Response[Refund], error) {
	var resp Response[Refund]
	if err := c.do(ctx, http.MethodPost, "/refund", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
