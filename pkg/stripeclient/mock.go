package stripeclient

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Mock stands in for Stripe when no live secret is configured. Every charge is accepted with
// a pi_test_ reference and succeeds unless SetChargeStatus says otherwise.
type Mock struct {
	mu      sync.Mutex
	charges []ChargeParams
	status  string
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) EnsureCustomer(_ context.Context, _ string, existingID string) (string, error) {
	if existingID != "" {
		return existingID, nil
	}
	return "cus_test_" + randomSuffix(), nil
}

func (m *Mock) Charge(_ context.Context, p ChargeParams) (*ChargeResult, error) {
	m.mu.Lock()
	m.charges = append(m.charges, p)
	status := m.status
	m.mu.Unlock()
	if status == "" {
		status = ChargeSucceeded
	}
	return &ChargeResult{PaymentIntentID: "pi_test_" + randomSuffix(), Status: status}, nil
}

// SetChargeStatus makes later charges report status, e.g. ChargeProcessing.
func (m *Mock) SetChargeStatus(status string) {
	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

func (m *Mock) SetDefaultPaymentMethod(context.Context, string, string) error {
	return nil
}

// Charges returns a copy of every charge request seen so far.
func (m *Mock) Charges() []ChargeParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ChargeParams, len(m.charges))
	copy(out, m.charges)
	return out
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
