package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrymomot/billingkit/pkg/paystack"
)

// PaystackProcessor adapts the Paystack API client to the Processor
// interface, normalizing the wire envelope: status=false responses surface
// as ErrProcessor carrying the remote message.
type PaystackProcessor struct {
	client *paystack.Client
}

// NewPaystackProcessor wraps a Paystack API client.
func NewPaystackProcessor(client *paystack.Client) *PaystackProcessor {
	if client == nil {
		panic("billing: paystack client is required")
	}
	return &PaystackProcessor{client: client}
}

var _ Processor = (*PaystackProcessor)(nil)

func processorErr(op, message string) error {
	return fmt.Errorf("%w: %s: %s", ErrProcessor, op, message)
}

func (p *PaystackProcessor) CreateCustomer(ctx context.Context, email string) (*RemoteCustomer, error) {
	resp, err := p.client.CreateCustomer(ctx, paystack.CreateCustomerRequest{Email: email})
	if err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, processorErr("create customer", resp.Message)
	}
	return &RemoteCustomer{ID: resp.Data.ID, Code: resp.Data.CustomerCode, Email: resp.Data.Email}, nil
}

func (p *PaystackProcessor) FetchCustomer(ctx context.Context, id int64) (*RemoteCustomer, error) {
	resp, err := p.client.FetchCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, processorErr("fetch customer", resp.Message)
	}
	return &RemoteCustomer{ID: resp.Data.ID, Code: resp.Data.CustomerCode, Email: resp.Data.Email}, nil
}

func (p *PaystackProcessor) CreateSubscription(ctx context.Context, payload SubscriptionPayload) (*RemoteSubscription, error) {
	resp, err := p.client.CreateSubscription(ctx, paystack.CreateSubscriptionRequest{
		Customer:      payload.CustomerCode,
		Plan:          payload.Plan,
		StartDate:     payload.StartDate.Format(time.RFC3339),
		Authorization: payload.Authorization,
	})
	if err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, processorErr("create subscription", resp.Message)
	}
	remote := normalizeSubscription(resp.Data)
	return &remote, nil
}

func (p *PaystackProcessor) EnableSubscription(ctx context.Context, code, emailToken string) error {
	resp, err := p.client.EnableSubscription(ctx, paystack.ToggleSubscriptionRequest{Code: code, Token: emailToken})
	if err != nil {
		return err
	}
	if !resp.Status {
		return processorErr("enable subscription", resp.Message)
	}
	return nil
}

func (p *PaystackProcessor) DisableSubscription(ctx context.Context, code, emailToken string) error {
	resp, err := p.client.DisableSubscription(ctx, paystack.ToggleSubscriptionRequest{Code: code, Token: emailToken})
	if err != nil {
		return err
	}
	if !resp.Status {
		return processorErr("disable subscription", resp.Message)
	}
	return nil
}

func (p *PaystackProcessor) ListSubscriptions(ctx context.Context, customerID int64) ([]RemoteSubscription, error) {
	resp, err := p.client.ListSubscriptions(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, processorErr("list subscriptions", resp.Message)
	}
	list := make([]RemoteSubscription, 0, len(resp.Data))
	for _, sub := range resp.Data {
		list = append(list, normalizeSubscription(sub))
	}
	return list, nil
}

func (p *PaystackProcessor) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	resp, err := p.client.Charge(ctx, chargeRequest(req))
	if err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, processorErr("charge", resp.Message)
	}
	return chargeResult(resp.Data), nil
}

func (p *PaystackProcessor) ChargeAuthorization(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	resp, err := p.client.ChargeAuthorization(ctx, chargeRequest(req))
	if err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, processorErr("charge authorization", resp.Message)
	}
	return chargeResult(resp.Data), nil
}

func (p *PaystackProcessor) InitializeTransaction(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	resp, err := p.client.TransactionInitialize(ctx, chargeRequest(req))
	if err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, processorErr("initialize transaction", resp.Message)
	}
	return chargeResult(resp.Data), nil
}

func (p *PaystackProcessor) Refund(ctx context.Context, transaction string, amount int64) error {
	resp, err := p.client.CreateRefund(ctx, paystack.RefundRequest{Transaction: transaction, Amount: amount})
	if err != nil {
		return err
	}
	if !resp.Status {
		return processorErr("refund", resp.Message)
	}
	return nil
}

func normalizeSubscription(sub paystack.Subscription) RemoteSubscription {
	return RemoteSubscription{
		ID:              sub.ID,
		Code:            sub.SubscriptionCode,
		Status:          Status(sub.Status),
		Plan:            sub.Plan.PlanCode,
		EmailToken:      sub.EmailToken,
		NextPaymentDate: cloneTime(sub.NextPaymentDate),
		Amount:          sub.Amount,
	}
}

func chargeRequest(req ChargeRequest) paystack.ChargeRequest {
	return paystack.ChargeRequest{
		Email:             req.Email,
		Amount:            req.Amount,
		Currency:          req.Currency,
		Reference:         req.Reference,
		AuthorizationCode: req.Authorization,
		Card:              req.Card,
		Bank:              req.Bank,
		Metadata:          req.Metadata,
	}
}

func chargeResult(tx paystack.Transaction) *ChargeResult {
	return &ChargeResult{
		Reference:        tx.Reference,
		Status:           tx.Status,
		AuthorizationURL: tx.AuthorizationURL,
		AccessCode:       tx.AccessCode,
	}
}
