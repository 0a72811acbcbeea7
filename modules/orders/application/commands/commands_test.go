package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/tabison/suppliers/internal/platform/eventbus"
	"github.com/tabison/suppliers/modules/orders/application/commands"
	"github.com/tabison/suppliers/modules/orders/domain"
	"github.com/tabison/suppliers/modules/shared/events"
	"github.com/tabison/suppliers/modules/shared/events/contracts"
	"github.com/tabison/suppliers/modules/shared/types"
)

// --- Mocks ---

type mockOrderRepository struct {
	saveFn     func(ctx context.Context, order *domain.Order) error
	findByIDFn func(ctx context.Context, id types.OrderID) (*domain.Order, error)
}

func (m *mockOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	return m.saveFn(ctx, order)
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id types.OrderID) (*domain.Order, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockOrderRepository) FindAll(ctx context.Context, f domain.ListFilter, offset, limit int) ([]*domain.Order, int, error) {
	return nil, 0, nil
}

func (m *mockOrderRepository) Count(ctx context.Context, f domain.ListFilter) (int, error) {
	return 0, nil
}

func (m *mockOrderRepository) PaidRevenue(ctx context.Context) (int64, error) {
	return 0, nil
}

type mockCatalog struct {
	productsFn func(ctx context.Context, ids []string) (map[string]domain.Product, error)
	reserveFn  func(ctx context.Context, lines []domain.StockLine) error
	releaseFn  func(ctx context.Context, lines []domain.StockLine) error
}

func (m *mockCatalog) Products(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	return m.productsFn(ctx, ids)
}

func (m *mockCatalog) Reserve(ctx context.Context, lines []domain.StockLine) error {
	return m.reserveFn(ctx, lines)
}

func (m *mockCatalog) Release(ctx context.Context, lines []domain.StockLine) error {
	return m.releaseFn(ctx, lines)
}

type mockCarts struct {
	linesFn func(ctx context.Context, userID types.UserID) ([]domain.CartLine, error)
	clearFn func(ctx context.Context, userID types.UserID) error
}

func (m *mockCarts) Lines(ctx context.Context, userID types.UserID) ([]domain.CartLine, error) {
	return m.linesFn(ctx, userID)
}

func (m *mockCarts) Clear(ctx context.Context, userID types.UserID) error {
	return m.clearFn(ctx, userID)
}

type mockTransactionScope struct {
	executeFn func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.executeFn(ctx, fn)
}

type recordingPublisher struct {
	published []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evts ...events.Event) error {
	p.published = append(p.published, evts...)
	return nil
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func passthroughUnitOfWork(after events.Publisher) *eventbus.UnitOfWork {
	scope := &mockTransactionScope{
		executeFn: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}
	return eventbus.NewUnitOfWork(scope, nil, after, discard)
}

const ironSheetID = "7f1c7a4e-2a4b-4b55-9a51-0f3a9f0c1b11"

func ironSheetCatalog() *mockCatalog {
	return &mockCatalog{
		productsFn: func(ctx context.Context, ids []string) (map[string]domain.Product, error) {
			found := map[string]domain.Product{}
			for _, id := range ids {
				if id == ironSheetID {
					found[id] = domain.Product{ID: id, Name: "Iron sheet", Image: "iron.jpg", Price: types.MustNewMoney(3000, "KES")}
				}
			}
			return found, nil
		},
		reserveFn: func(ctx context.Context, lines []domain.StockLine) error { return nil },
		releaseFn: func(ctx context.Context, lines []domain.StockLine) error { return nil },
	}
}

func address() commands.AddressInput {
	return commands.AddressInput{FullName: "Wanjiku Kamau", Phone: "254712345678", Street: "Moi Avenue 12", City: "Nairobi"}
}

func pendingOrder(t *testing.T, userID types.UserID, reserved bool) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(userID, []domain.LineItem{{
		ProductID: ironSheetID,
		Name:      "Iron sheet",
		Quantity:  2,
		UnitPrice: types.MustNewMoney(3000, "KES"),
	}}, domain.ShippingAddress{FullName: "A", Phone: "1", Street: "S", City: "C"}, domain.PaymentMpesa, "KES", time.Now())
	if err != nil {
		t.Fatalf("failed to create order: %v", err)
	}
	if reserved {
		order.MarkStockReserved()
	}
	order.PopDomainEvents()
	return order
}

// --- Tests ---

func TestCreateOrderHandler_Handle(t *testing.T) {
	var saved *domain.Order
	repo := &mockOrderRepository{
		saveFn: func(ctx context.Context, order *domain.Order) error {
			saved = order
			return nil
		},
	}
	after := &recordingPublisher{}
	handler := commands.NewCreateOrderHandler(repo, ironSheetCatalog(), passthroughUnitOfWork(after), "KES", discard)

	id, err := handler.Handle(context.Background(), commands.CreateOrderCommand{
		UserID:          types.NewUserID().String(),
		Items:           []commands.ItemInput{{ProductID: ironSheetID, Quantity: 2}},
		ShippingAddress: address(),
		PaymentMethod:   "mpesa",
		ClientTotals:    &commands.ClientTotals{TotalPrice: 1},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if saved == nil || saved.ID().String() != id {
		t.Fatal("expected the order to be saved")
	}
	if got := saved.Pricing().Total.Amount(); got != 6960 {
		t.Errorf("expected server-computed total 6960, got %d", got)
	}
	if saved.StockReserved() {
		t.Error("expected direct orders not to reserve stock")
	}
	if len(after.published) != 1 || after.published[0].EventType() != contracts.OrderPlacedEventType {
		t.Errorf("expected OrderPlaced after commit, got %v", after.published)
	}
}

func TestCreateOrderHandler_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		items   []commands.ItemInput
		method  string
		wantErr error
	}{
		{name: "empty items", method: "mpesa", wantErr: domain.ErrEmptyOrder},
		{name: "unknown product", items: []commands.ItemInput{{ProductID: "8a0c5a9e-0000-4000-8000-000000000000", Quantity: 1}}, method: "mpesa", wantErr: domain.ErrProductNotFound},
		{name: "zero quantity", items: []commands.ItemInput{{ProductID: ironSheetID, Quantity: 0}}, method: "mpesa", wantErr: domain.ErrInvalidQuantity},
		{name: "unknown method", items: []commands.ItemInput{{ProductID: ironSheetID, Quantity: 1}}, method: "barter", wantErr: domain.ErrInvalidPaymentMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saveCalled := false
			repo := &mockOrderRepository{
				saveFn: func(ctx context.Context, order *domain.Order) error {
					saveCalled = true
					return nil
				},
			}
			handler := commands.NewCreateOrderHandler(repo, ironSheetCatalog(), passthroughUnitOfWork(nil), "KES", discard)

			_, err := handler.Handle(context.Background(), commands.CreateOrderCommand{
				UserID:          types.NewUserID().String(),
				Items:           tt.items,
				ShippingAddress: address(),
				PaymentMethod:   tt.method,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if saveCalled {
				t.Error("expected nothing to be persisted")
			}
		})
	}
}

func TestCheckoutHandler_Handle(t *testing.T) {
	userID := types.NewUserID()
	var reserved []domain.StockLine
	var saved *domain.Order
	cleared := false

	catalog := ironSheetCatalog()
	catalog.reserveFn = func(ctx context.Context, lines []domain.StockLine) error {
		reserved = lines
		return nil
	}
	carts := &mockCarts{
		linesFn: func(ctx context.Context, id types.UserID) ([]domain.CartLine, error) {
			return []domain.CartLine{{ProductID: ironSheetID, Quantity: 2}}, nil
		},
		clearFn: func(ctx context.Context, id types.UserID) error {
			cleared = id == userID
			return nil
		},
	}
	repo := &mockOrderRepository{
		saveFn: func(ctx context.Context, order *domain.Order) error {
			saved = order
			return nil
		},
	}
	handler := commands.NewCheckoutHandler(repo, catalog, carts, passthroughUnitOfWork(nil), "KES", discard)

	_, err := handler.Handle(context.Background(), commands.CheckoutCommand{
		UserID:          userID.String(),
		ShippingAddress: address(),
		PaymentMethod:   "card",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(reserved) != 1 || reserved[0].Quantity != 2 {
		t.Errorf("expected 2 units reserved, got %v", reserved)
	}
	if saved == nil || !saved.StockReserved() {
		t.Error("expected a saved order with stock reserved")
	}
	if !cleared {
		t.Error("expected the cart to be cleared")
	}
}

func TestCheckoutHandler_InsufficientStockPersistsNothing(t *testing.T) {
	catalog := ironSheetCatalog()
	catalog.reserveFn = func(ctx context.Context, lines []domain.StockLine) error {
		return domain.ErrInsufficientStock
	}
	carts := &mockCarts{
		linesFn: func(ctx context.Context, id types.UserID) ([]domain.CartLine, error) {
			return []domain.CartLine{{ProductID: ironSheetID, Quantity: 50}}, nil
		},
		clearFn: func(ctx context.Context, id types.UserID) error {
			t.Error("cart must not be cleared when checkout fails")
			return nil
		},
	}
	repo := &mockOrderRepository{
		saveFn: func(ctx context.Context, order *domain.Order) error {
			t.Error("order must not be saved when stock is short")
			return nil
		},
	}
	handler := commands.NewCheckoutHandler(repo, catalog, carts, passthroughUnitOfWork(nil), "KES", discard)

	_, err := handler.Handle(context.Background(), commands.CheckoutCommand{
		UserID:          types.NewUserID().String(),
		ShippingAddress: address(),
		PaymentMethod:   "card",
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Errorf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestCheckoutHandler_EmptyCart(t *testing.T) {
	carts := &mockCarts{
		linesFn: func(ctx context.Context, id types.UserID) ([]domain.CartLine, error) {
			return nil, nil
		},
	}
	handler := commands.NewCheckoutHandler(&mockOrderRepository{}, ironSheetCatalog(), carts, passthroughUnitOfWork(nil), "KES", discard)

	_, err := handler.Handle(context.Background(), commands.CheckoutCommand{
		UserID:          types.NewUserID().String(),
		ShippingAddress: address(),
		PaymentMethod:   "card",
	})
	if !errors.Is(err, domain.ErrEmptyOrder) {
		t.Errorf("expected ErrEmptyOrder, got %v", err)
	}
}

func TestCancelOrderHandler_Handle(t *testing.T) {
	owner := types.NewUserID()

	tests := []struct {
		name        string
		caller      types.UserID
		wantErr     error
		wantRelease bool
	}{
		{name: "owner cancels and stock is released", caller: owner, wantRelease: true},
		{name: "other user is forbidden", caller: types.NewUserID(), wantErr: domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := pendingOrder(t, owner, true)
			released := false
			catalog := ironSheetCatalog()
			catalog.releaseFn = func(ctx context.Context, lines []domain.StockLine) error {
				released = true
				return nil
			}
			repo := &mockOrderRepository{
				findByIDFn: func(ctx context.Context, id types.OrderID) (*domain.Order, error) {
					return order, nil
				},
				saveFn: func(ctx context.Context, o *domain.Order) error { return nil },
			}
			handler := commands.NewCancelOrderHandler(repo, catalog, passthroughUnitOfWork(nil))

			err := handler.Handle(context.Background(), commands.CancelOrderCommand{
				UserID:  tt.caller.String(),
				OrderID: order.ID().String(),
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if released != tt.wantRelease {
				t.Errorf("expected release=%v, got %v", tt.wantRelease, released)
			}
			if order.Status() != domain.StatusCancelled || order.StockReserved() {
				t.Errorf("expected cancelled order without reservation, got %s reserved=%v", order.Status(), order.StockReserved())
			}
		})
	}
}

func TestUpdateStatusHandler_Handle(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		tracking string
		wantErr  error
	}{
		{name: "next step", status: "confirmed"},
		{name: "skipping ahead", status: "shipped", tracking: "TRK", wantErr: domain.ErrInvalidTransition},
		{name: "unknown status", status: "lost", wantErr: domain.ErrInvalidStatus},
		{name: "cancel", status: "cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := pendingOrder(t, types.NewUserID(), false)
			saved := false
			repo := &mockOrderRepository{
				findByIDFn: func(ctx context.Context, id types.OrderID) (*domain.Order, error) {
					return order, nil
				},
				saveFn: func(ctx context.Context, o *domain.Order) error {
					saved = true
					return nil
				},
			}
			handler := commands.NewUpdateStatusHandler(repo, ironSheetCatalog(), passthroughUnitOfWork(nil), discard)

			err := handler.Handle(context.Background(), commands.UpdateStatusCommand{
				OrderID:        order.ID().String(),
				Status:         tt.status,
				TrackingNumber: tt.tracking,
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				if saved {
					t.Error("expected a rejected transition to write nothing")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if order.Status().String() != tt.status {
				t.Errorf("expected status %s, got %s", tt.status, order.Status())
			}
		})
	}
}

func TestRecordPaymentHandler_PaidPublishesAfterCommit(t *testing.T) {
	order := pendingOrder(t, types.NewUserID(), true)
	repo := &mockOrderRepository{
		findByIDFn: func(ctx context.Context, id types.OrderID) (*domain.Order, error) {
			return order, nil
		},
		saveFn: func(ctx context.Context, o *domain.Order) error { return nil },
	}
	after := &recordingPublisher{}
	handler := commands.NewRecordPaymentHandler(repo, passthroughUnitOfWork(after), discard)

	err := handler.Handle(context.Background(), commands.RecordPaymentCommand{
		OrderID: order.ID().String(),
		Payment: commands.PaymentInput{Rail: "mpesa", Reference: "ws_CO_1", Status: "pending"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if order.IsPaid() || len(after.published) != 0 {
		t.Fatal("expected a pending attempt to publish nothing and leave the order unpaid")
	}

	err = handler.Handle(context.Background(), commands.RecordPaymentCommand{
		OrderID: order.ID().String(),
		Paid:    true,
		Payment: commands.PaymentInput{Rail: "mpesa", Reference: "ws_CO_1", ReceiptNumber: "QK12ABC", Status: "succeeded"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !order.IsPaid() || order.Status() != domain.StatusConfirmed {
		t.Errorf("expected paid confirmed order, got paid=%v status=%s", order.IsPaid(), order.Status())
	}
	if len(after.published) != 1 || after.published[0].EventType() != contracts.OrderPaidEventType {
		t.Errorf("expected OrderPaid after commit, got %v", after.published)
	}
}

func TestRecordPaymentHandler_SaveFailureRollsBack(t *testing.T) {
	order := pendingOrder(t, types.NewUserID(), false)
	repo := &mockOrderRepository{
		findByIDFn: func(ctx context.Context, id types.OrderID) (*domain.Order, error) {
			return order, nil
		},
		saveFn: func(ctx context.Context, o *domain.Order) error {
			return errors.New("database unavailable")
		},
	}
	after := &recordingPublisher{}
	handler := commands.NewRecordPaymentHandler(repo, passthroughUnitOfWork(after), discard)

	err := handler.Handle(context.Background(), commands.RecordPaymentCommand{
		OrderID: order.ID().String(),
		Paid:    true,
		Payment: commands.PaymentInput{Rail: "sandbox", Status: "succeeded"},
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(after.published) != 0 {
		t.Error("expected no event when the paid order was not stored")
	}
}
