// Package adapters connects the payments module to other modules.
package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/tabison/suppliers/modules/orders"
	"github.com/tabison/suppliers/modules/payments/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

// OrdersModule is the part of orders.Module payments uses.
type OrdersModule interface {
	GetOrder(ctx context.Context, orderID, userID string, isAdmin bool) (*orders.Order, error)
	RecordPayment(ctx context.Context, orderID string, result orders.PaymentResult) (*orders.Order, error)
	MarkPaid(ctx context.Context, orderID string, result orders.PaymentResult) (*orders.Order, error)
}

// Orders implements domain.Orders on top of the orders module.
type Orders struct {
	module OrdersModule
}

func NewOrders(module OrdersModule) *Orders {
	return &Orders{module: module}
}

func (o *Orders) Get(ctx context.Context, orderID, userID string, isAdmin bool) (*domain.Order, error) {
	order, err := o.module.GetOrder(ctx, orderID, userID, isAdmin)
	if err != nil {
		return nil, translate(err)
	}
	return toDomain(order), nil
}

func (o *Orders) Record(ctx context.Context, orderID string, result domain.Result) (*domain.Order, error) {
	order, err := o.module.RecordPayment(ctx, orderID, toPaymentResult(result))
	if err != nil {
		return nil, translate(err)
	}
	return toDomain(order), nil
}

func (o *Orders) MarkPaid(ctx context.Context, orderID string, result domain.Result) (*domain.Order, error) {
	order, err := o.module.MarkPaid(ctx, orderID, toPaymentResult(result))
	if err != nil {
		return nil, translate(err)
	}
	return toDomain(order), nil
}

func toPaymentResult(r domain.Result) orders.PaymentResult {
	return orders.PaymentResult{
		Rail:          string(r.Rail),
		Reference:     r.Reference,
		TransactionID: r.TransactionID,
		ReceiptNumber: r.ReceiptNumber,
		Status:        string(r.Status),
		Message:       r.Message,
	}
}

func toDomain(o *orders.Order) *domain.Order {
	out := &domain.Order{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		UserID:        o.UserID,
		TotalPrice:    o.TotalPrice,
		Currency:      o.Currency,
		Status:        o.Status,
		IsPaid:        o.IsPaid,
		PaidAt:        o.PaidAt,
		PaymentMethod: o.PaymentMethod,
		Phone:         o.ShippingAddress.Phone,
	}
	if p := o.PaymentResult; p != nil {
		out.Payment = &domain.Result{
			Rail:          domain.Method(p.Rail),
			Status:        domain.Status(p.Status),
			Reference:     p.Reference,
			TransactionID: p.TransactionID,
			ReceiptNumber: p.ReceiptNumber,
			Message:       p.Message,
		}
	}
	return out
}

func translate(err error) error {
	switch {
	case errors.Is(err, orders.ErrOrderNotFound), errors.Is(err, types.ErrInvalidID):
		return fmt.Errorf("%w: %w", domain.ErrOrderNotFound, err)
	case errors.Is(err, orders.ErrForbidden):
		return fmt.Errorf("%w: %w", domain.ErrForbidden, err)
	case errors.Is(err, orders.ErrAlreadyPaid):
		return fmt.Errorf("%w: %w", domain.ErrAlreadyPaid, err)
	case errors.Is(err, orders.ErrInvalidTransition):
		return fmt.Errorf("%w: %w", domain.ErrNotPayable, err)
	}
	return err
}
