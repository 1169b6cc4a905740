package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/stripeclient"

	"github.com/rs/zerolog/log"
)

// PaymentProcessor is the card processor used for charges and saved cards.
// stripeclient.Client and stripeclient.Mock implement it.
type PaymentProcessor interface {
	EnsureCustomer(ctx context.Context, email, existingID string) (string, error)
	Charge(ctx context.Context, params stripeclient.ChargeParams) (*stripeclient.ChargeResult, error)
	SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethod string) error
}

// PaymentService charges customers and keeps payment records in line with the processor.
type PaymentService struct {
	payments  repositories.PaymentRepository
	users     repositories.UserRepository
	processor PaymentProcessor
}

func NewPaymentService(payments repositories.PaymentRepository, users repositories.UserRepository, processor PaymentProcessor) *PaymentService {
	return &PaymentService{payments: payments, users: users, processor: processor}
}

// Charge collects amount (minor units) for order. A captured Payment is stored only when the
// processor reports success; a charge still processing is stored as authorized and settled by
// the payment_intent webhook. A charge that needs customer action returns
// *models.IncompletePaymentError; every other failure wraps models.ErrPaymentFailed.
func (s *PaymentService) Charge(ctx context.Context, customer *models.User, amount int64, paymentMethod string, order *models.Order) (*models.Payment, error) {
	customerID, err := s.ensureCustomer(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrPaymentFailed, err)
	}

	res, err := s.processor.Charge(ctx, stripeclient.ChargeParams{
		CustomerID:    customerID,
		Amount:        amount,
		Currency:      order.Currency,
		PaymentMethod: paymentMethod,
		Metadata: map[string]string{
			"order_id":     order.ID,
			"order_number": order.Number,
		},
		IdempotencyKey: "order-" + order.ID,
	})
	if err != nil {
		var actionErr *stripeclient.ActionRequiredError
		if errors.As(err, &actionErr) {
			return nil, &models.IncompletePaymentError{
				PaymentIntentID: actionErr.PaymentIntentID,
				ClientSecret:    actionErr.ClientSecret,
				Status:          actionErr.Status,
			}
		}
		return nil, fmt.Errorf("%w: %v", models.ErrPaymentFailed, err)
	}

	status := models.PaymentStatusCaptured
	if !res.Settled() {
		status = models.PaymentStatusAuthorized
	}

	providerID := res.PaymentIntentID
	payment := &models.Payment{
		OrderID:    order.ID,
		Provider:   models.ProviderStripe,
		ProviderID: &providerID,
		Amount:     amount,
		Currency:   order.Currency,
		Status:     status,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Str("provider_id", providerID).Msg("charge succeeded but payment record was not stored")
		return nil, err
	}
	return payment, nil
}

// SavePaymentMethodAsDefault stores the card as the customer's default. Failures are logged
// and never surface to the caller.
func (s *PaymentService) SavePaymentMethodAsDefault(ctx context.Context, customer *models.User, paymentMethod string) {
	customerID, err := s.ensureCustomer(ctx, customer)
	if err == nil {
		err = s.processor.SetDefaultPaymentMethod(ctx, customerID, paymentMethod)
	}
	if err != nil {
		log.Warn().Err(err).Str("user_id", customer.ID).Msg("failed to save default payment method")
	}
}

func (s *PaymentService) ensureCustomer(ctx context.Context, customer *models.User) (string, error) {
	id, err := s.processor.EnsureCustomer(ctx, customer.Email, customer.StripeCustomerID)
	if err != nil {
		return "", err
	}
	if id != customer.StripeCustomerID {
		if err := s.users.SetStripeCustomerID(ctx, customer.ID, id); err != nil {
			log.Warn().Err(err).Str("user_id", customer.ID).Msg("failed to store processor customer id")
		}
		customer.StripeCustomerID = id
	}
	return id, nil
}

// MarkCaptured, MarkFailed and MarkRefunded update every payment carrying providerID and
// report how many changed. An unknown reference changes nothing.
func (s *PaymentService) MarkCaptured(ctx context.Context, providerID string) (int64, error) {
	return s.payments.UpdateStatusByProviderID(ctx, models.ProviderStripe, providerID, models.PaymentStatusCaptured)
}

func (s *PaymentService) MarkFailed(ctx context.Context, providerID string) (int64, error) {
	return s.payments.UpdateStatusByProviderID(ctx, models.ProviderStripe, providerID, models.PaymentStatusFailed)
}

func (s *PaymentService) MarkRefunded(ctx context.Context, providerID string) (int64, error) {
	return s.payments.UpdateStatusByProviderID(ctx, models.ProviderStripe, providerID, models.PaymentStatusRefunded)
}
