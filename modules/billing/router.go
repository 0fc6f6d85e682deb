// Package billing exposes the webhook endpoint wiring for the billing core.
package billing

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/billingkit/pkg/billing"
)

// SignatureHeader carries the hex HMAC-SHA512 of the raw request body.
const SignatureHeader = "X-Paystack-Signature"

// maxBodyBytes caps webhook bodies; Paystack payloads are a few KB.
const maxBodyBytes = 1 << 20

// Router mounts the webhook endpoint.
//
//	r := chi.NewRouter()
//	r.Mount("/billing", billing.Router(wh))
func Router(wh *billing.Webhook) chi.Router {
	r := chi.NewRouter()
	r.Handle("/webhook/paystack", WebhookHandler(wh))
	return r
}

// WebhookHandler answers processor deliveries. Non-POST requests and
// missing or mismatched signatures are denied with 403 before the body is
// parsed; well-formed deliveries always succeed with 200 so the sender
// never retries events we have absorbed.
func WebhookHandler(wh *billing.Webhook) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Invalid Request", http.StatusForbidden)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			http.Error(w, "Invalid Request", http.StatusForbidden)
			return
		}
		if err := wh.VerifySignature(body, r.Header.Get(SignatureHeader)); err != nil {
			http.Error(w, "No signatures found matching the expected signature for payload", http.StatusForbidden)
			return
		}

		result, _ := wh.Handle(r.Context(), body)
		switch result {
		case billing.WebhookIgnored:
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("Webhook Handled"))
		}
	})
}
