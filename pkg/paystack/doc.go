// Package paystack is a thin typed client for the Paystack REST API,
// covering the customer, subscription, transaction and refund endpoints the
// billing core drives. Every response arrives in the standard envelope
// {status, message, data}; callers decide how to surface status=false.
//
// The client owns transport concerns only: authentication, serialization
// and timeouts. It performs no retries and holds no state.
package paystack
