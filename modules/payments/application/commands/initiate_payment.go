package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tabison/suppliers/modules/payments/domain"
)

// InitiatePaymentCommand starts a payment for an order. Method defaults to
// the order's payment method; Phone defaults to the shipping phone.
type InitiatePaymentCommand struct {
	OrderID string
	UserID  string
	IsAdmin bool
	Method  string
	Phone   string
}

type InitiatePaymentHandler struct {
	orders        domain.Orders
	rails         domain.Rails
	publicBaseURL string
	logger        *slog.Logger
}

func NewInitiatePaymentHandler(orders domain.Orders, rails domain.Rails, publicBaseURL string, logger *slog.Logger) *InitiatePaymentHandler {
	return &InitiatePaymentHandler{
		orders:        orders,
		rails:         rails,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

func (h *InitiatePaymentHandler) Handle(ctx context.Context, cmd InitiatePaymentCommand) (*Outcome, error) {
	order, err := h.orders.Get(ctx, cmd.OrderID, cmd.UserID, cmd.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("finding order: %w", err)
	}
	if err := order.CheckPayable(); err != nil {
		return nil, err
	}

	methodName := cmd.Method
	if methodName == "" {
		methodName = order.PaymentMethod
	}
	method, err := domain.ParseMethod(methodName)
	if err != nil {
		return nil, err
	}
	rail, err := h.rails.Get(method)
	if err != nil {
		return nil, err
	}

	req := domain.ChargeRequest{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Amount:      order.TotalPrice,
		Currency:    order.Currency,
		Phone:       cmd.Phone,
		CallbackURL: h.publicBaseURL + "/api/payments/mpesa/callback/" + order.ID,
	}
	if method == domain.MethodMpesa {
		if req.Phone == "" {
			req.Phone = order.Phone
		}
		if req.Phone == "" {
			return nil, domain.ErrPhoneRequired
		}
	}

	result, err := rail.Charge(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrUpstream) {
			h.recordFailure(ctx, order.ID, method, err)
		}
		return nil, fmt.Errorf("charging %s: %w", method, err)
	}

	h.logger.Info("payment initiated",
		slog.String("order_id", order.ID),
		slog.String("rail", string(method)),
		slog.String("status", string(result.Status)),
		slog.String("reference", result.Reference),
	)

	updated, err := settle(ctx, h.orders, order.ID, result)
	if err != nil {
		return nil, err
	}
	return &Outcome{Message: outcomeMessage(result), Order: updated, Payment: result}, nil
}

// recordFailure stores a failed attempt so the order shows why it is still
// unpaid. It is best-effort.
func (h *InitiatePaymentHandler) recordFailure(ctx context.Context, orderID string, method domain.Method, cause error) {
	_, err := h.orders.Record(ctx, orderID, domain.Result{
		Rail:    method,
		Status:  domain.StatusFailed,
		Message: domain.ErrUpstream.Error(),
	})
	if err != nil {
		h.logger.Error("failed to record payment failure",
			slog.String("order_id", orderID),
			slog.Any("error", err),
		)
	}
	h.logger.Warn("payment rail call failed",
		slog.String("order_id", orderID),
		slog.String("rail", string(method)),
		slog.Any("error", cause),
	)
}
