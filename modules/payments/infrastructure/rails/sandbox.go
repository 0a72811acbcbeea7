package rails

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/tabison/suppliers/modules/payments/domain"
)

// Sandbox settles every charge immediately. It is only registered outside
// production.
type Sandbox struct{}

func NewSandbox() *Sandbox { return &Sandbox{} }

func (s *Sandbox) Method() domain.Method { return domain.MethodSandbox }

func (s *Sandbox) Charge(ctx context.Context, req domain.ChargeRequest) (domain.Result, error) {
	id := uuid.New().String()
	return domain.Result{
		Rail:          domain.MethodSandbox,
		Status:        domain.StatusSucceeded,
		Reference:     "sbx_" + id,
		TransactionID: "sbx_" + id,
		ReceiptNumber: "SBX" + strings.ToUpper(id[:8]),
		Message:       "sandbox payment approved",
	}, nil
}

func (s *Sandbox) Confirm(ctx context.Context, reference string) (domain.Result, error) {
	return domain.Result{
		Rail:          domain.MethodSandbox,
		Status:        domain.StatusSucceeded,
		Reference:     reference,
		TransactionID: reference,
		Message:       "sandbox payment approved",
	}, nil
}
