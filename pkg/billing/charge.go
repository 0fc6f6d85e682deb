package billing

import (
	"context"

	"github.com/google/uuid"
)

// Charge performs a one-off charge for the owner. The funding source picks
// the processor operation: a stored authorization charges directly, raw
// card/bank details go through the charge endpoint, and with neither a
// redirect transaction is initialized. Currency defaults to the configured
// one and a reference is generated when absent.
func (s *Service) Charge(ctx context.Context, owner OwnerRef, amount int64, req ChargeRequest) (*ChargeResult, error) {
	customer, err := s.customers.ByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	req.Amount = amount
	if req.Email == "" {
		req.Email = customer.Email
	}
	if req.Currency == "" {
		req.Currency = s.cfg.Currency
	}
	if req.Reference == "" {
		req.Reference = TransactionReference()
	}
	if req.Authorization == "" && customer.HasAuthorization() {
		req.Authorization = customer.Authorization
	}

	switch {
	case req.Authorization != "":
		return s.processor.ChargeAuthorization(ctx, req)
	case req.Card != nil || req.Bank != nil:
		return s.processor.Charge(ctx, req)
	default:
		return s.processor.InitializeTransaction(ctx, req)
	}
}

// Refund refunds a settled transaction. A zero amount refunds in full.
func (s *Service) Refund(ctx context.Context, transaction string, amount int64) error {
	return s.processor.Refund(ctx, transaction, amount)
}

// TransactionReference generates a unique reference for a charge.
func TransactionReference() string {
	return uuid.New().String()
}
