package stripeclient

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76/webhook"
)

const (
	EventPaymentIntentSucceeded = "payment_intent.succeeded"
	EventPaymentIntentFailed    = "payment_intent.payment_failed"
	EventChargeRefunded         = "charge.refunded"
)

// ErrMalformedEvent is returned for bodies that are not a JSON object with a type.
var ErrMalformedEvent = errors.New("stripe: malformed event")

// Event is the envelope of a webhook notification.
type Event struct {
	ID      string
	Type    string
	Created int64

	object json.RawMessage
}

// Object holds the keys of data.object that reconciliation reads. PaymentIntent is set for
// charges, whether the intent arrives as an id or expanded.
type Object struct {
	ID            string
	OrderID       string
	PaymentIntent string
}

// DecodeEvent parses a webhook body. Only the envelope is validated: the body must be a
// JSON object with a non-empty string type. Every other key is read leniently.
func DecodeEvent(payload []byte) (*Event, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: not an object", ErrMalformedEvent)
	}

	var eventType string
	if raw, ok := fields["type"]; ok {
		if err := json.Unmarshal(raw, &eventType); err != nil {
			return nil, fmt.Errorf("%w: type is not a string", ErrMalformedEvent)
		}
	}
	if eventType == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedEvent)
	}

	event := &Event{
		ID:   stringField(fields["id"]),
		Type: eventType,
	}
	_ = json.Unmarshal(fields["created"], &event.Created)

	var data map[string]json.RawMessage
	if json.Unmarshal(fields["data"], &data) == nil {
		event.object = data["object"]
	}
	return event, nil
}

// Object extracts the reconciliation keys from data.object. Keys that are missing or of an
// unexpected type come back empty.
func (e *Event) Object() Object {
	var fields map[string]json.RawMessage
	if json.Unmarshal(e.object, &fields) != nil {
		return Object{}
	}

	obj := Object{ID: stringField(fields["id"])}

	var metadata map[string]json.RawMessage
	if json.Unmarshal(fields["metadata"], &metadata) == nil {
		obj.OrderID = stringField(metadata["order_id"])
	}

	intent := fields["payment_intent"]
	if obj.PaymentIntent = stringField(intent); obj.PaymentIntent == "" {
		var expanded map[string]json.RawMessage
		if json.Unmarshal(intent, &expanded) == nil {
			obj.PaymentIntent = stringField(expanded["id"])
		}
	}
	return obj
}

func stringField(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// VerifySignature checks the Stripe-Signature header against the endpoint secret.
func VerifySignature(payload []byte, header, secret string) error {
	if err := webhook.ValidatePayload(payload, header, secret); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return nil
}
