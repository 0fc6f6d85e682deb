package paystack

import "errors"

var (
	ErrMissingSecretKey = errors.New("paystack secret key is required")
	ErrRequestFailed    = errors.New("paystack request failed")
	ErrDecodeResponse   = errors.New("failed to decode paystack response")
)
