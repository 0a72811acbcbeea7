// Package commands contains the payment use cases.
package commands

import (
	"context"
	"fmt"

	"github.com/tabison/suppliers/modules/payments/domain"
)

// Outcome is what a payment use case reports back to the buyer.
type Outcome struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
	Payment domain.Result `json:"payment"`
}

// settle writes a rail result to the order. Only a success marks it paid.
func settle(ctx context.Context, orders domain.Orders, orderID string, result domain.Result) (*domain.Order, error) {
	if result.Succeeded() {
		order, err := orders.MarkPaid(ctx, orderID, result)
		if err != nil {
			return nil, fmt.Errorf("marking order paid: %w", err)
		}
		return order, nil
	}
	order, err := orders.Record(ctx, orderID, result)
	if err != nil {
		return nil, fmt.Errorf("recording payment: %w", err)
	}
	return order, nil
}

func outcomeMessage(r domain.Result) string {
	switch r.Status {
	case domain.StatusSucceeded:
		return "Payment successful"
	case domain.StatusFailed:
		if r.Message != "" {
			return "Payment failed: " + r.Message
		}
		return "Payment failed"
	}
	switch r.Rail {
	case domain.MethodMpesa:
		return "Payment request sent. Enter your M-Pesa PIN on your phone to complete the payment"
	case domain.MethodCard:
		return "Payment intent created. Complete the card payment to finish"
	case domain.MethodPayPal:
		return "Approve the payment on PayPal to finish"
	}
	return "Payment pending"
}
