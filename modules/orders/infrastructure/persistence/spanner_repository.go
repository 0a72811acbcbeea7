package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	platformspanner "github.com/tabison/suppliers/internal/platform/spanner"
	"github.com/tabison/suppliers/modules/orders/domain"
	"github.com/tabison/suppliers/modules/shared/pricing"
	"github.com/tabison/suppliers/modules/shared/types"
)

var orderColumns = []string{
	"OrderID", "OrderNumber", "UserID", "Status", "PaymentMethod",
	"ItemsPrice", "TaxPrice", "ShippingPrice", "TotalPrice", "Currency",
	"ShipFullName", "ShipPhone", "ShipStreet", "ShipCity", "ShipCounty", "ShipPostalCode", "ShipCountry",
	"IsPaid", "PaidAt",
	"PaymentRail", "PaymentReference", "PaymentTransactionID", "PaymentReceiptNumber",
	"PaymentStatus", "PaymentMessage", "PaymentUpdatedAt",
	"TrackingNumber", "ShippedAt", "DeliveredAt", "CancelledAt",
	"StockReserved", "CreatedAt", "UpdatedAt",
}

var itemColumns = []string{"OrderID", "ItemIndex", "ProductID", "Name", "Image", "Quantity", "UnitPrice", "Currency"}

// SpannerRepository implements OrderRepository using Cloud Spanner. Line
// items live in OrderItems, interleaved in Orders.
type SpannerRepository struct {
	client *spanner.Client
}

func NewSpannerRepository(client *spanner.Client) *SpannerRepository {
	return &SpannerRepository{client: client}
}

// Compile-time interface check.
var _ domain.OrderRepository = (*SpannerRepository)(nil)

// Save persists an order and replaces its items.
// It buffers into the transaction in ctx when there is one.
func (r *SpannerRepository) Save(ctx context.Context, order *domain.Order) error {
	s := order.State()
	orderID := s.ID.String()

	mutations := []*spanner.Mutation{
		spanner.InsertOrUpdate("Orders", orderColumns, orderValues(s)),
		spanner.Delete("OrderItems", spanner.KeyRange{
			Start: spanner.Key{orderID},
			End:   spanner.Key{orderID},
			Kind:  spanner.ClosedClosed,
		}),
	}
	for i, item := range s.Items {
		mutations = append(mutations, spanner.Insert("OrderItems", itemColumns, []any{
			orderID,
			int64(i),
			item.ProductID,
			item.Name,
			item.Image,
			int64(item.Quantity),
			item.UnitPrice.Amount(),
			item.UnitPrice.Currency(),
		}))
	}

	if err := platformspanner.Write(ctx, r.client, mutations...); err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

func (r *SpannerRepository) FindByID(ctx context.Context, id types.OrderID) (*domain.Order, error) {
	reader, ok := platformspanner.ReadTransactionFromContext(ctx)
	if !ok {
		// Orders + OrderItems need one snapshot.
		roTx := r.client.ReadOnlyTransaction()
		defer roTx.Close()
		reader = roTx
	}

	row, err := reader.ReadRow(ctx, "Orders", spanner.Key{id.String()}, orderColumns)
	if err != nil {
		if platformspanner.IsNotFound(err) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to read order: %w", err)
	}
	state, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	items, err := r.readItems(ctx, reader, []string{id.String()})
	if err != nil {
		return nil, err
	}
	state.Items = items[id.String()]

	return domain.Reconstitute(state), nil
}

func (r *SpannerRepository) FindAll(ctx context.Context, filter domain.ListFilter, offset, limit int) ([]*domain.Order, int, error) {
	reader, ok := platformspanner.ReadTransactionFromContext(ctx)
	if !ok {
		// COUNT + page + items need one snapshot.
		roTx := r.client.ReadOnlyTransaction()
		defer roTx.Close()
		reader = roTx
	}

	where, params := filterClause(filter)
	total, err := r.count(ctx, reader, where, params)
	if err != nil {
		return nil, 0, err
	}

	pageParams := map[string]any{"limit": int64(limit), "offset": int64(offset)}
	for k, v := range params {
		pageParams[k] = v
	}
	iter := reader.Query(ctx, spanner.Statement{
		SQL: `SELECT ` + strings.Join(orderColumns, ", ") + ` FROM Orders` + where +
			` ORDER BY CreatedAt DESC, OrderID DESC LIMIT @limit OFFSET @offset`,
		Params: pageParams,
	})
	defer iter.Stop()

	var states []domain.State
	var ids []string
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to query orders: %w", err)
		}
		s, err := scanOrder(row)
		if err != nil {
			return nil, 0, err
		}
		states = append(states, s)
		ids = append(ids, s.ID.String())
	}

	items, err := r.readItems(ctx, reader, ids)
	if err != nil {
		return nil, 0, err
	}

	orders := make([]*domain.Order, len(states))
	for i, s := range states {
		s.Items = items[s.ID.String()]
		orders[i] = domain.Reconstitute(s)
	}
	return orders, total, nil
}

func (r *SpannerRepository) Count(ctx context.Context, filter domain.ListFilter) (int, error) {
	where, params := filterClause(filter)
	return r.count(ctx, platformspanner.Reader(ctx, r.client), where, params)
}

func (r *SpannerRepository) PaidRevenue(ctx context.Context) (int64, error) {
	iter := platformspanner.Reader(ctx, r.client).Query(ctx, spanner.Statement{
		SQL: `SELECT COALESCE(SUM(TotalPrice), 0) FROM Orders WHERE IsPaid = TRUE`,
	})
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	var sum int64
	if err := row.Columns(&sum); err != nil {
		return 0, fmt.Errorf("failed to scan revenue: %w", err)
	}
	return sum, nil
}

func (r *SpannerRepository) count(ctx context.Context, reader platformspanner.ReadTransaction, where string, params map[string]any) (int, error) {
	iter := reader.Query(ctx, spanner.Statement{
		SQL:    `SELECT COUNT(*) FROM Orders` + where,
		Params: params,
	})
	defer iter.Stop()

	var total int64
	row, err := iter.Next()
	if err != nil && err != iterator.Done {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	if row != nil {
		if err := row.Columns(&total); err != nil {
			return 0, fmt.Errorf("failed to scan count: %w", err)
		}
	}
	return int(total), nil
}

// readItems loads the items of several orders in one query, keyed by order id.
func (r *SpannerRepository) readItems(ctx context.Context, reader platformspanner.ReadTransaction, orderIDs []string) (map[string][]domain.LineItem, error) {
	items := make(map[string][]domain.LineItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return items, nil
	}

	iter := reader.Query(ctx, spanner.Statement{
		SQL: `SELECT ` + strings.Join(itemColumns, ", ") + ` FROM OrderItems
		      WHERE OrderID IN UNNEST(@ids) ORDER BY OrderID, ItemIndex`,
		Params: map[string]any{"ids": orderIDs},
	})
	defer iter.Stop()

	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read order items: %w", err)
		}

		var orderID, productID, name, image, currency string
		var index, quantity, unitPrice int64
		if err := row.Columns(&orderID, &index, &productID, &name, &image, &quantity, &unitPrice, &currency); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		price, err := types.NewMoney(unitPrice, currency)
		if err != nil {
			return nil, fmt.Errorf("failed to parse item price: %w", err)
		}
		items[orderID] = append(items[orderID], domain.LineItem{
			ProductID: productID,
			Name:      name,
			Image:     image,
			Quantity:  int(quantity),
			UnitPrice: price,
		})
	}
	return items, nil
}

func filterClause(f domain.ListFilter) (string, map[string]any) {
	var conds []string
	params := map[string]any{}
	if !f.UserID.IsZero() {
		conds = append(conds, "UserID = @userID")
		params["userID"] = f.UserID.String()
	}
	if f.Status != "" {
		conds = append(conds, "Status = @status")
		params["status"] = f.Status.String()
	}
	if len(conds) == 0 {
		return "", params
	}
	return " WHERE " + strings.Join(conds, " AND "), params
}

func orderValues(s domain.State) []any {
	return []any{
		s.ID.String(),
		s.Number,
		s.UserID.String(),
		s.Status.String(),
		s.PaymentMethod.String(),
		s.Pricing.Subtotal.Amount(),
		s.Pricing.Tax.Amount(),
		s.Pricing.Shipping.Amount(),
		s.Pricing.Total.Amount(),
		s.Pricing.Total.Currency(),
		s.Address.FullName,
		s.Address.Phone,
		s.Address.Street,
		s.Address.City,
		s.Address.County,
		s.Address.PostalCode,
		s.Address.Country,
		s.IsPaid,
		nullTime(s.PaidAt),
		s.Payment.Rail,
		s.Payment.Reference,
		s.Payment.TransactionID,
		s.Payment.ReceiptNumber,
		s.Payment.Status,
		s.Payment.Message,
		nullTime(timePtr(s.Payment.UpdatedAt)),
		s.TrackingNumber,
		nullTime(s.ShippedAt),
		nullTime(s.DeliveredAt),
		nullTime(s.CancelledAt),
		s.StockReserved,
		s.CreatedAt,
		s.UpdatedAt,
	}
}

func scanOrder(row *spanner.Row) (domain.State, error) {
	var (
		orderID, number, userID, status, method, currency          string
		itemsPrice, taxPrice, shippingPrice, totalPrice            int64
		a                                                          domain.ShippingAddress
		isPaid, stockReserved                                      bool
		paidAt, paymentUpdatedAt, shippedAt, deliveredAt, cancelAt spanner.NullTime
		p                                                          domain.PaymentResult
		tracking                                                   string
		createdAt, updatedAt                                       time.Time
	)
	if err := row.Columns(
		&orderID, &number, &userID, &status, &method,
		&itemsPrice, &taxPrice, &shippingPrice, &totalPrice, &currency,
		&a.FullName, &a.Phone, &a.Street, &a.City, &a.County, &a.PostalCode, &a.Country,
		&isPaid, &paidAt,
		&p.Rail, &p.Reference, &p.TransactionID, &p.ReceiptNumber,
		&p.Status, &p.Message, &paymentUpdatedAt,
		&tracking, &shippedAt, &deliveredAt, &cancelAt,
		&stockReserved, &createdAt, &updatedAt,
	); err != nil {
		return domain.State{}, fmt.Errorf("failed to scan order: %w", err)
	}

	id, err := types.ParseOrderID(orderID)
	if err != nil {
		return domain.State{}, fmt.Errorf("failed to parse order id: %w", err)
	}
	uid, err := types.ParseUserID(userID)
	if err != nil {
		return domain.State{}, fmt.Errorf("failed to parse user id: %w", err)
	}
	if _, err := types.NewMoney(totalPrice, currency); err != nil {
		return domain.State{}, fmt.Errorf("failed to parse total: %w", err)
	}
	if paymentUpdatedAt.Valid {
		p.UpdatedAt = paymentUpdatedAt.Time
	}

	return domain.State{
		ID:            id,
		Number:        number,
		UserID:        uid,
		Address:       a,
		PaymentMethod: domain.PaymentMethod(method),
		Pricing: pricing.Breakdown{
			Subtotal: types.MustNewMoney(itemsPrice, currency),
			Tax:      types.MustNewMoney(taxPrice, currency),
			Shipping: types.MustNewMoney(shippingPrice, currency),
			Total:    types.MustNewMoney(totalPrice, currency),
		},
		Status:         domain.Status(status),
		IsPaid:         isPaid,
		PaidAt:         fromNullTime(paidAt),
		Payment:        p,
		TrackingNumber: tracking,
		ShippedAt:      fromNullTime(shippedAt),
		DeliveredAt:    fromNullTime(deliveredAt),
		CancelledAt:    fromNullTime(cancelAt),
		StockReserved:  stockReserved,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}, nil
}

func nullTime(t *time.Time) spanner.NullTime {
	if t == nil {
		return spanner.NullTime{}
	}
	return spanner.NullTime{Time: *t, Valid: true}
}

func fromNullTime(t spanner.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
