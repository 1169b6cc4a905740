package services_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type reconFixture struct {
	service  *services.ReconciliationService
	orders   *MockOrderRepository
	payments *MockPaymentRepository
	events   *MockEventRepository
}

func newReconFixture(secret string) reconFixture {
	f := reconFixture{
		orders:   new(MockOrderRepository),
		payments: new(MockPaymentRepository),
		events:   new(MockEventRepository),
	}
	orderService := services.NewOrderService(f.orders, "USD", nil)
	paymentService := services.NewPaymentService(f.payments, new(MockUserRepository), new(MockProcessor))
	f.service = services.NewReconciliationService(orderService, paymentService, f.events, secret)
	return f
}

func TestReconciliation_InvalidPayload(t *testing.T) {
	f := newReconFixture("")
	for _, body := range []string{``, `garbage`, `[]`, `"text"`, `{"data":{}}`} {
		err := f.service.Handle(context.Background(), []byte(body), "")
		assert.ErrorIs(t, err, models.ErrInvalidPayload, body)
	}
	f.events.AssertNotCalled(t, "Seen", mock.Anything, mock.Anything)
}

func TestReconciliation_SignatureRequiredWhenConfigured(t *testing.T) {
	f := newReconFixture("whsec_test")
	err := f.service.Handle(context.Background(), []byte(`{"type":"payment_intent.succeeded"}`), "t=1,v1=bogus")
	assert.ErrorIs(t, err, models.ErrInvalidPayload)
}

func TestReconciliation_UnknownTypeIsAcknowledged(t *testing.T) {
	f := newReconFixture("")
	assert.NoError(t, f.service.Handle(context.Background(), []byte(`{"type":"something.else"}`), ""))
	f.orders.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
	f.payments.AssertNotCalled(t, "UpdateStatusByProviderID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReconciliation_PaymentSucceeded(t *testing.T) {
	f := newReconFixture("")
	ctx := context.Background()
	body := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","metadata":{"order_id":"o1"}}}}`)

	f.events.On("Seen", ctx, "evt_1").Return(false, nil).Once()
	f.orders.On("MarkPaid", ctx, "o1", mock.AnythingOfType("time.Time")).Return(nil).Once()
	f.payments.On("UpdateStatusByProviderID", ctx, models.ProviderStripe, "pi_1", models.PaymentStatusCaptured).Return(int64(1), nil).Once()
	f.events.On("Record", ctx, "evt_1", "payment_intent.succeeded").Return(nil).Once()

	assert.NoError(t, f.service.Handle(ctx, body, ""))
	f.orders.AssertExpectations(t)
	f.payments.AssertExpectations(t)
	f.events.AssertExpectations(t)
}

func TestReconciliation_ReplayIsSkipped(t *testing.T) {
	f := newReconFixture("")
	ctx := context.Background()
	body := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","metadata":{"order_id":"o1"}}}}`)

	f.events.On("Seen", ctx, "evt_1").Return(true, nil).Once()

	assert.NoError(t, f.service.Handle(ctx, body, ""))
	f.orders.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
	f.events.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconciliation_PaymentFailed(t *testing.T) {
	f := newReconFixture("")
	ctx := context.Background()
	body := []byte(`{"type":"payment_intent.payment_failed","data":{"object":{"id":"pi_2","metadata":{"order_id":"o2"}}}}`)

	f.orders.On("MarkCancelled", ctx, "o2").Return(nil).Once()
	f.payments.On("UpdateStatusByProviderID", ctx, models.ProviderStripe, "pi_2", models.PaymentStatusFailed).Return(int64(0), nil).Once()

	// Without an event id nothing is recorded.
	assert.NoError(t, f.service.Handle(ctx, body, ""))
	f.orders.AssertExpectations(t)
	f.payments.AssertExpectations(t)
	f.events.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconciliation_FinalStateIsAcknowledged(t *testing.T) {
	f := newReconFixture("")
	ctx := context.Background()
	body := []byte(`{"id":"evt_9","type":"payment_intent.payment_failed","data":{"object":{"id":"pi_9","metadata":{"order_id":"o9"}}}}`)

	f.events.On("Seen", ctx, "evt_9").Return(false, nil).Once()
	f.orders.On("MarkCancelled", ctx, "o9").Return(models.ErrOrderFinalized).Once()
	f.payments.On("UpdateStatusByProviderID", ctx, models.ProviderStripe, "pi_9", models.PaymentStatusFailed).
		Return(int64(0), models.ErrInvalidStatusTransition).Once()
	f.events.On("Record", ctx, "evt_9", "payment_intent.payment_failed").Return(nil).Once()

	assert.NoError(t, f.service.Handle(ctx, body, ""))
	f.events.AssertExpectations(t)
}

func TestReconciliation_MissingOrderIsIgnored(t *testing.T) {
	f := newReconFixture("")
	ctx := context.Background()
	body := []byte(`{"type":"payment_intent.succeeded","data":{"object":{"id":"pi_x","metadata":{"order_id":"gone"}}}}`)

	f.orders.On("MarkPaid", ctx, "gone", mock.AnythingOfType("time.Time")).Return(models.ErrNotFound).Once()
	f.payments.On("UpdateStatusByProviderID", ctx, models.ProviderStripe, "pi_x", models.PaymentStatusCaptured).Return(int64(0), nil).Once()

	assert.NoError(t, f.service.Handle(ctx, body, ""))
}

func TestReconciliation_ChargeRefunded(t *testing.T) {
	f := newReconFixture("")
	ctx := context.Background()
	body := []byte(`{"type":"charge.refunded","data":{"object":{"id":"ch_1","payment_intent":"pi_1"}}}`)

	f.payments.On("UpdateStatusByProviderID", ctx, models.ProviderStripe, "ch_1", models.PaymentStatusRefunded).Return(int64(0), nil).Once()
	f.payments.On("UpdateStatusByProviderID", ctx, models.ProviderStripe, "pi_1", models.PaymentStatusRefunded).Return(int64(1), nil).Once()

	assert.NoError(t, f.service.Handle(ctx, body, ""))
	f.payments.AssertExpectations(t)
}

func TestReconciliation_StorageFailureIsRetried(t *testing.T) {
	f := newReconFixture("")
	ctx := context.Background()
	body := []byte(`{"id":"evt_5","type":"payment_intent.succeeded","data":{"object":{"id":"pi_5","metadata":{"order_id":"o5"}}}}`)

	f.events.On("Seen", ctx, "evt_5").Return(false, nil).Once()
	f.orders.On("MarkPaid", ctx, "o5", mock.AnythingOfType("time.Time")).Return(errors.New("database is locked")).Once()
	f.payments.On("UpdateStatusByProviderID", ctx, models.ProviderStripe, "pi_5", models.PaymentStatusCaptured).Return(int64(1), nil).Once()

	err := f.service.Handle(ctx, body, "")
	assert.ErrorContains(t, err, "database is locked")
	assert.NotErrorIs(t, err, models.ErrInvalidPayload)
	// The event stays unrecorded so the processor's retry is applied.
	f.events.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconciliation_UnreadFieldsMayHaveAnyType(t *testing.T) {
	f := newReconFixture("")
	ctx := context.Background()

	f.orders.On("MarkPaid", ctx, "o1", mock.AnythingOfType("time.Time")).Return(nil).Once()
	f.payments.On("UpdateStatusByProviderID", ctx, models.ProviderStripe, "pi_1", models.PaymentStatusCaptured).Return(int64(1), nil).Once()
	assert.NoError(t, f.service.Handle(ctx, []byte(`{"type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","amount":"12.00","metadata":{"order_id":"o1","retries":3}}}}`), ""))

	// Expanded intent on a charge
	f.payments.On("UpdateStatusByProviderID", ctx, models.ProviderStripe, "ch_1", models.PaymentStatusRefunded).Return(int64(0), nil).Once()
	f.payments.On("UpdateStatusByProviderID", ctx, models.ProviderStripe, "pi_1", models.PaymentStatusRefunded).Return(int64(1), nil).Once()
	assert.NoError(t, f.service.Handle(ctx, []byte(`{"type":"charge.refunded","data":{"object":{"id":"ch_1","refunded":"yes","payment_intent":{"id":"pi_1","amount":"x"}}}}`), ""))

	f.orders.AssertExpectations(t)
	f.payments.AssertExpectations(t)
}

func TestReconciliation_ShapelessObjectIsAcknowledged(t *testing.T) {
	f := newReconFixture("")
	for _, body := range []string{
		`{"type":"payment_intent.succeeded","data":{"object":[]}}`,
		`{"type":"payment_intent.payment_failed","data":"none"}`,
		`{"id":7,"type":"charge.refunded","created":"soon"}`,
	} {
		assert.NoError(t, f.service.Handle(context.Background(), []byte(body), ""), body)
	}
	f.orders.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "MarkCancelled", mock.Anything, mock.Anything)
	f.payments.AssertNotCalled(t, "UpdateStatusByProviderID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.events.AssertNotCalled(t, "Seen", mock.Anything, mock.Anything)
}
