// Package queries contains read use cases for the orders module.
package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/tabison/suppliers/modules/orders/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

// OrderDTO is a read model for order data.
type OrderDTO struct {
	ID              string         `json:"id"`
	OrderNumber     string         `json:"orderNumber"`
	UserID          string         `json:"userId"`
	OrderItems      []OrderItemDTO `json:"orderItems"`
	ShippingAddress AddressDTO     `json:"shippingAddress"`
	PaymentMethod   string         `json:"paymentMethod"`
	ItemsPrice      int64          `json:"itemsPrice"`
	TaxPrice        int64          `json:"taxPrice"`
	ShippingPrice   int64          `json:"shippingPrice"`
	TotalPrice      int64          `json:"totalPrice"`
	Currency        string         `json:"currency"`
	Status          string         `json:"status"`
	IsPaid          bool           `json:"isPaid"`
	PaidAt          *time.Time     `json:"paidAt,omitempty"`
	PaymentResult   *PaymentDTO    `json:"paymentResult,omitempty"`
	TrackingNumber  string         `json:"trackingNumber,omitempty"`
	ShippedAt       *time.Time     `json:"shippedAt,omitempty"`
	DeliveredAt     *time.Time     `json:"deliveredAt,omitempty"`
	CancelledAt     *time.Time     `json:"cancelledAt,omitempty"`
	StockReserved   bool           `json:"stockReserved"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

type OrderItemDTO struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
	LineTotal int64  `json:"lineTotal"`
}

type AddressDTO struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	County     string `json:"county,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

type PaymentDTO struct {
	Rail          string    `json:"rail"`
	Reference     string    `json:"reference,omitempty"`
	TransactionID string    `json:"transactionId,omitempty"`
	ReceiptNumber string    `json:"receiptNumber,omitempty"`
	Status        string    `json:"status"`
	Message       string    `json:"message,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// GetOrderQuery retrieves an order for its owner or an admin.
type GetOrderQuery struct {
	OrderID string
	UserID  string
	IsAdmin bool
}

type GetOrderHandler struct {
	repo domain.OrderRepository
}

func NewGetOrderHandler(repo domain.OrderRepository) *GetOrderHandler {
	return &GetOrderHandler{repo: repo}
}

func (h *GetOrderHandler) Handle(ctx context.Context, query GetOrderQuery) (*OrderDTO, error) {
	orderID, err := types.ParseOrderID(query.OrderID)
	if err != nil {
		return nil, fmt.Errorf("invalid order ID: %w", err)
	}

	var userID types.UserID
	if !query.IsAdmin {
		if userID, err = types.ParseUserID(query.UserID); err != nil {
			return nil, fmt.Errorf("invalid user ID: %w", err)
		}
	}

	order, err := h.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanBeViewedBy(userID, query.IsAdmin) {
		return nil, domain.ErrForbidden
	}

	return ToOrderDTO(order), nil
}

func ToOrderDTO(order *domain.Order) *OrderDTO {
	items := order.Items()
	itemDTOs := make([]OrderItemDTO, len(items))
	for i, item := range items {
		itemDTOs[i] = OrderItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Quantity:  item.Quantity,
			Price:     item.UnitPrice.Amount(),
			LineTotal: item.Subtotal().Amount(),
		}
	}

	addr := order.Address()
	p := order.Pricing()
	dto := &OrderDTO{
		ID:          order.ID().String(),
		OrderNumber: order.Number(),
		UserID:      order.UserID().String(),
		OrderItems:  itemDTOs,
		ShippingAddress: AddressDTO{
			FullName:   addr.FullName,
			Phone:      addr.Phone,
			Street:     addr.Street,
			City:       addr.City,
			County:     addr.County,
			PostalCode: addr.PostalCode,
			Country:    addr.Country,
		},
		PaymentMethod:  order.PaymentMethod().String(),
		ItemsPrice:     p.Subtotal.Amount(),
		TaxPrice:       p.Tax.Amount(),
		ShippingPrice:  p.Shipping.Amount(),
		TotalPrice:     p.Total.Amount(),
		Currency:       p.Total.Currency(),
		Status:         order.Status().String(),
		IsPaid:         order.IsPaid(),
		PaidAt:         order.PaidAt(),
		TrackingNumber: order.TrackingNumber(),
		ShippedAt:      order.ShippedAt(),
		DeliveredAt:    order.DeliveredAt(),
		CancelledAt:    order.CancelledAt(),
		StockReserved:  order.StockReserved(),
		CreatedAt:      order.CreatedAt(),
		UpdatedAt:      order.UpdatedAt(),
	}
	if pay := order.Payment(); !pay.IsZero() {
		dto.PaymentResult = &PaymentDTO{
			Rail:          pay.Rail,
			Reference:     pay.Reference,
			TransactionID: pay.TransactionID,
			ReceiptNumber: pay.ReceiptNumber,
			Status:        pay.Status,
			Message:       pay.Message,
			UpdatedAt:     pay.UpdatedAt,
		}
	}
	return dto
}
