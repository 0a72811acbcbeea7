package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	platformspanner "github.com/tabison/suppliers/internal/platform/spanner"
	"github.com/tabison/suppliers/modules/catalog/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

var productColumns = []string{
	"ProductID", "Name", "Description", "Category", "Price", "WholesalePrice", "Currency",
	"Stock", "Tags", "Images", "SupplierID", "CreatedAt", "UpdatedAt",
}

// SpannerRepository implements ProductRepository using Cloud Spanner.
type SpannerRepository struct {
	client *spanner.Client
}

func NewSpannerRepository(client *spanner.Client) *SpannerRepository {
	return &SpannerRepository{client: client}
}

// Compile-time interface check.
var _ domain.ProductRepository = (*SpannerRepository)(nil)

func (r *SpannerRepository) Save(ctx context.Context, product *domain.Product) error {
	if err := platformspanner.Write(ctx, r.client, productMutation(product)); err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

func (r *SpannerRepository) FindByID(ctx context.Context, id types.ProductID) (*domain.Product, error) {
	row, err := platformspanner.Reader(ctx, r.client).ReadRow(ctx, "Products", spanner.Key{id.String()}, productColumns)
	if err != nil {
		if platformspanner.IsNotFound(err) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to read product: %w", err)
	}
	return scanProduct(row)
}

func (r *SpannerRepository) FindByIDs(ctx context.Context, ids []types.ProductID) (map[string]*domain.Product, error) {
	found := make(map[string]*domain.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	keys := make([]spanner.KeySet, len(ids))
	for i, id := range ids {
		keys[i] = spanner.Key{id.String()}
	}

	iter := platformspanner.Reader(ctx, r.client).Read(ctx, "Products", spanner.KeySets(keys...), productColumns)
	defer iter.Stop()

	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read products: %w", err)
		}
		p, err := scanProduct(row)
		if err != nil {
			return nil, err
		}
		found[p.ID().String()] = p
	}
	return found, nil
}

func (r *SpannerRepository) FindAll(ctx context.Context, filter domain.ListFilter, offset, limit int) ([]*domain.Product, int, error) {
	rtx, ok := platformspanner.ReadTransactionFromContext(ctx)
	if !ok {
		roTx := r.client.ReadOnlyTransaction()
		defer roTx.Close()
		rtx = roTx
	}

	where, params := filterClause(filter)

	countIter := rtx.Query(ctx, spanner.Statement{
		SQL:    `SELECT COUNT(*) FROM Products` + where,
		Params: params,
	})
	defer countIter.Stop()

	var total int64
	countRow, err := countIter.Next()
	if err != nil && err != iterator.Done {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}
	if countRow != nil {
		if err := countRow.Columns(&total); err != nil {
			return nil, 0, fmt.Errorf("failed to scan count: %w", err)
		}
	}

	pageParams := map[string]any{"limit": int64(limit), "offset": int64(offset)}
	for k, v := range params {
		pageParams[k] = v
	}
	iter := rtx.Query(ctx, spanner.Statement{
		SQL: `SELECT ` + strings.Join(productColumns, ", ") + ` FROM Products` + where +
			` ORDER BY CreatedAt DESC, ProductID LIMIT @limit OFFSET @offset`,
		Params: pageParams,
	})
	defer iter.Stop()

	var products []*domain.Product
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to query products: %w", err)
		}
		p, err := scanProduct(row)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, int(total), nil
}

func (r *SpannerRepository) Delete(ctx context.Context, id types.ProductID) error {
	return platformspanner.InReadWrite(ctx, r.client, func(ctx context.Context, tx *spanner.ReadWriteTransaction) error {
		if _, err := tx.ReadRow(ctx, "Products", spanner.Key{id.String()}, []string{"ProductID"}); err != nil {
			if platformspanner.IsNotFound(err) {
				return domain.ErrProductNotFound
			}
			return fmt.Errorf("failed to read product: %w", err)
		}
		return tx.BufferWrite([]*spanner.Mutation{spanner.Delete("Products", spanner.Key{id.String()})})
	})
}

func (r *SpannerRepository) Reserve(ctx context.Context, lines []domain.StockLine) error {
	return r.adjustStock(ctx, lines, true)
}

func (r *SpannerRepository) Release(ctx context.Context, lines []domain.StockLine) error {
	return r.adjustStock(ctx, lines, false)
}

// adjustStock reads every affected row in the transaction, applies the
// domain rule to each, and buffers the updates only when all lines pass.
func (r *SpannerRepository) adjustStock(ctx context.Context, lines []domain.StockLine, reserve bool) error {
	return platformspanner.InReadWrite(ctx, r.client, func(ctx context.Context, tx *spanner.ReadWriteTransaction) error {
		ids := make([]types.ProductID, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.ProductID)
		}
		products, err := r.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}

		touched := make(map[string]*domain.Product)
		for _, line := range lines {
			p, ok := products[line.ProductID.String()]
			if !ok {
				if reserve {
					return fmt.Errorf("%w: %s", domain.ErrProductNotFound, line.ProductID)
				}
				continue
			}
			if reserve {
				err = p.Reserve(line.Quantity)
			} else {
				err = p.Release(line.Quantity)
			}
			if err != nil {
				return err
			}
			touched[line.ProductID.String()] = p
		}

		mutations := make([]*spanner.Mutation, 0, len(touched))
		for _, p := range touched {
			mutations = append(mutations, spanner.Update("Products",
				[]string{"ProductID", "Stock", "UpdatedAt"},
				[]any{p.ID().String(), int64(p.Stock()), p.UpdatedAt()},
			))
		}
		return tx.BufferWrite(mutations)
	})
}

func productMutation(p *domain.Product) *spanner.Mutation {
	var supplier spanner.NullString
	if p.SupplierID() != "" {
		supplier = spanner.NullString{StringVal: p.SupplierID(), Valid: true}
	}
	return spanner.InsertOrUpdate("Products", productColumns, []any{
		p.ID().String(),
		p.Name(),
		p.Description(),
		p.Category().String(),
		p.Price().Amount(),
		p.WholesalePrice().Amount(),
		p.Price().Currency(),
		int64(p.Stock()),
		p.Tags(),
		p.Images(),
		supplier,
		p.CreatedAt(),
		p.UpdatedAt(),
	})
}

func filterClause(f domain.ListFilter) (string, map[string]any) {
	var conds []string
	params := map[string]any{}
	if f.Category != "" {
		conds = append(conds, "Category = @category")
		params["category"] = f.Category.String()
	}
	if f.MaxStock != nil {
		conds = append(conds, "Stock <= @maxStock")
		params["maxStock"] = int64(*f.MaxStock)
	}
	if f.Query != "" {
		conds = append(conds, `(LOWER(Name) LIKE @query OR LOWER(Description) LIKE @query
			OR EXISTS (SELECT 1 FROM UNNEST(Tags) AS tag WHERE LOWER(tag) LIKE @query))`)
		params["query"] = "%" + strings.ToLower(f.Query) + "%"
	}
	if len(conds) == 0 {
		return "", params
	}
	return " WHERE " + strings.Join(conds, " AND "), params
}

func scanProduct(row *spanner.Row) (*domain.Product, error) {
	var (
		productID, name, description, category, currency string
		price, wholesale, stock                          int64
		tags, images                                     []string
		supplier                                         spanner.NullString
		createdAt, updatedAt                             time.Time
	)
	if err := row.Columns(&productID, &name, &description, &category, &price, &wholesale, &currency,
		&stock, &tags, &images, &supplier, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	id, err := types.ParseProductID(productID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse product id: %w", err)
	}
	priceMoney, err := types.NewMoney(price, currency)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price: %w", err)
	}

	return domain.Reconstitute(id, domain.Details{
		Name:           name,
		Description:    description,
		Category:       domain.Category(category),
		Price:          priceMoney,
		WholesalePrice: types.MustNewMoney(wholesale, currency),
		Stock:          int(stock),
		Tags:           tags,
		Images:         images,
		SupplierID:     supplier.StringVal,
	}, createdAt, updatedAt), nil
}
