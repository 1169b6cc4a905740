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

// ReconciliationService applies payment processor notifications to orders and payments.
type ReconciliationService struct {
	orders        *OrderService
	payments      *PaymentService
	events        repositories.EventRepository
	webhookSecret string
}

// NewReconciliationService creates the webhook processor. An empty webhookSecret skips
// signature verification.
func NewReconciliationService(orders *OrderService, payments *PaymentService, events repositories.EventRepository, webhookSecret string) *ReconciliationService {
	return &ReconciliationService{orders: orders, payments: payments, events: events, webhookSecret: webhookSecret}
}

// Handle verifies, decodes and applies one notification. Malformed bodies and bad signatures
// return models.ErrInvalidPayload. Events already processed are acknowledged without effect,
// and so are transitions out of a terminal state. Any other error means the processor should
// retry.
func (s *ReconciliationService) Handle(ctx context.Context, payload []byte, signature string) error {
	if s.webhookSecret != "" {
		if err := stripeclient.VerifySignature(payload, signature, s.webhookSecret); err != nil {
			return fmt.Errorf("%w: %v", models.ErrInvalidPayload, err)
		}
	}

	event, err := stripeclient.DecodeEvent(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidPayload, err)
	}
	logger := log.With().Str("event_id", event.ID).Str("event_type", event.Type).Logger()

	if event.ID != "" {
		seen, err := s.events.Seen(ctx, event.ID)
		if err != nil {
			return err
		}
		if seen {
			logger.Info().Msg("event already processed")
			return nil
		}
	}

	if err := s.dispatch(ctx, event); err != nil {
		return err
	}

	if event.ID != "" {
		if err := s.events.Record(ctx, event.ID, event.Type); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReconciliationService) dispatch(ctx context.Context, event *stripeclient.Event) error {
	obj := event.Object()

	switch event.Type {
	case stripeclient.EventPaymentIntentSucceeded:
		var errs []error
		if obj.OrderID != "" {
			errs = append(errs, s.tolerate(event, skipMissing(s.orders.MarkOrderPaid(ctx, obj.OrderID))))
		}
		if obj.ID != "" {
			_, err := s.payments.MarkCaptured(ctx, obj.ID)
			errs = append(errs, s.tolerate(event, err))
		}
		return errors.Join(errs...)

	case stripeclient.EventPaymentIntentFailed:
		var errs []error
		if obj.OrderID != "" {
			errs = append(errs, s.tolerate(event, skipMissing(s.orders.MarkOrderCancelled(ctx, obj.OrderID))))
		}
		if obj.ID != "" {
			_, err := s.payments.MarkFailed(ctx, obj.ID)
			errs = append(errs, s.tolerate(event, err))
		}
		return errors.Join(errs...)

	case stripeclient.EventChargeRefunded:
		// Payments are stored under the intent id; older integrations stored the charge id.
		refs := []string{obj.ID}
		if obj.PaymentIntent != "" && obj.PaymentIntent != obj.ID {
			refs = append(refs, obj.PaymentIntent)
		}
		var errs []error
		for _, ref := range refs {
			if ref == "" {
				continue
			}
			_, err := s.payments.MarkRefunded(ctx, ref)
			errs = append(errs, s.tolerate(event, err))
		}
		return errors.Join(errs...)

	default:
		log.Debug().Str("event_type", event.Type).Msg("ignoring webhook event")
		return nil
	}
}

// tolerate drops terminal-state violations after logging them. Retrying would not change the outcome.
func (s *ReconciliationService) tolerate(event *stripeclient.Event, err error) error {
	if errors.Is(err, models.ErrOrderFinalized) || errors.Is(err, models.ErrInvalidStatusTransition) {
		log.Warn().Err(err).Str("event_id", event.ID).Str("event_type", event.Type).Msg("webhook conflicts with final state")
		return nil
	}
	return err
}

func skipMissing(err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	return err
}
