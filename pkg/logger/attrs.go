// Package logger provides slog attribute constructors that standardize the
// keys billing services log under, so records stay queryable across
// components.
package logger

import "log/slog"

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the webhook or domain event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Owner records the billable entity reference under the keys "owner_type"
// and "owner_id".
func Owner(ownerType, ownerID string) slog.Attr {
	return slog.Attr{Key: "owner", Value: slog.GroupValue(
		slog.String("owner_type", ownerType),
		slog.String("owner_id", ownerID),
	)}
}

// CustomerCode records the processor-assigned customer code.
func CustomerCode(code string) slog.Attr {
	return slog.String("customer_code", code)
}

// SubscriptionCode records the processor-assigned subscription code.
func SubscriptionCode(code string) slog.Attr {
	return slog.String("subscription_code", code)
}

// Plan records the plan code under the key "plan".
func Plan(code string) slog.Attr {
	return slog.String("plan", code)
}

// Reference records a transaction reference under the key "reference".
func Reference(ref string) slog.Attr {
	return slog.String("reference", ref)
}
