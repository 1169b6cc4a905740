package stripeclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ChargeParams describes a one-off card charge.
type ChargeParams struct {
	CustomerID     string
	Amount         int64 // minor units
	Currency       string
	PaymentMethod  string
	Metadata       map[string]string
	IdempotencyKey string
}

// Charge statuses reported in ChargeResult.
const (
	ChargeSucceeded  = "succeeded"
	ChargeProcessing = "processing"
)

// ChargeResult carries the provider reference of an accepted charge. A processing charge
// is settled later by a payment_intent webhook.
type ChargeResult struct {
	PaymentIntentID string
	Status          string
}

// Settled reports whether the money has been collected.
func (r *ChargeResult) Settled() bool {
	return r.Status == ChargeSucceeded
}

// ActionRequiredError is returned when the customer has to complete the payment on a
// provider-hosted page (3-D Secure and similar).
type ActionRequiredError struct {
	PaymentIntentID string
	ClientSecret    string
	Status          string
}

func (e *ActionRequiredError) Error() string {
	return fmt.Sprintf("stripe: payment intent %s requires action (%s)", e.PaymentIntentID, e.Status)
}

// Client talks to Stripe through a private API client so several keys can coexist.
type Client struct {
	api *client.API
}

// New creates a Client for the given secret key.
func New(secret string) *Client {
	return newClient(secret, nil)
}

func newClient(secret string, backends *stripe.Backends) *Client {
	api := &client.API{}
	api.Init(secret, backends)
	return &Client{api: api}
}

// EnsureCustomer returns existingID when set, otherwise creates a Stripe customer for email.
func (c *Client) EnsureCustomer(ctx context.Context, email, existingID string) (string, error) {
	if existingID != "" {
		return existingID, nil
	}
	params := &stripe.CustomerParams{Email: stripe.String(email)}
	params.Context = ctx
	cus, err := c.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create customer: %w", err)
	}
	return cus.ID, nil
}

// Charge creates and confirms a PaymentIntent in one call.
func (c *Client) Charge(ctx context.Context, p ChargeParams) (*ChargeResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(p.Amount),
		Currency:           stripe.String(strings.ToLower(p.Currency)),
		PaymentMethod:      stripe.String(p.PaymentMethod),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Confirm:            stripe.Bool(true),
	}
	if p.CustomerID != "" {
		params.Customer = stripe.String(p.CustomerID)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}
	if p.IdempotencyKey != "" {
		params.SetIdempotencyKey(p.IdempotencyKey)
	}
	params.Context = ctx

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.PaymentIntent != nil && needsAction(stripeErr.PaymentIntent.Status) {
			return nil, &ActionRequiredError{
				PaymentIntentID: stripeErr.PaymentIntent.ID,
				ClientSecret:    stripeErr.PaymentIntent.ClientSecret,
				Status:          string(stripeErr.PaymentIntent.Status),
			}
		}
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}

	switch {
	case pi.Status == stripe.PaymentIntentStatusSucceeded:
		return &ChargeResult{PaymentIntentID: pi.ID, Status: ChargeSucceeded}, nil
	case pi.Status == stripe.PaymentIntentStatusProcessing:
		return &ChargeResult{PaymentIntentID: pi.ID, Status: ChargeProcessing}, nil
	case needsAction(pi.Status):
		return nil, &ActionRequiredError{PaymentIntentID: pi.ID, ClientSecret: pi.ClientSecret, Status: string(pi.Status)}
	default:
		return nil, fmt.Errorf("stripe: payment intent %s ended in status %s", pi.ID, pi.Status)
	}
}

func needsAction(status stripe.PaymentIntentStatus) bool {
	return status == stripe.PaymentIntentStatusRequiresAction || status == stripe.PaymentIntentStatusRequiresConfirmation
}

// SetDefaultPaymentMethod attaches the payment method to the customer and makes it the
// default for future invoices.
func (c *Client) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethod string) error {
	attach := &stripe.PaymentMethodAttachParams{Customer: stripe.String(customerID)}
	attach.Context = ctx
	if _, err := c.api.PaymentMethods.Attach(paymentMethod, attach); err != nil {
		return fmt.Errorf("stripe: attach payment method: %w", err)
	}

	update := &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethod),
		},
	}
	update.Context = ctx
	if _, err := c.api.Customers.Update(customerID, update); err != nil {
		return fmt.Errorf("stripe: update default payment method: %w", err)
	}
	return nil
}
