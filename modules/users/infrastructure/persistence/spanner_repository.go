package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	platformspanner "github.com/tabison/suppliers/internal/platform/spanner"
	"github.com/tabison/suppliers/modules/shared/types"
	"github.com/tabison/suppliers/modules/users/domain"
)

var userColumns = []string{
	"UserID", "Email", "FirstName", "LastName", "Phone", "Role", "Status", "CreatedAt", "UpdatedAt",
}

// SpannerRepository implements UserRepository using Cloud Spanner.
type SpannerRepository struct {
	client *spanner.Client
}

func NewSpannerRepository(client *spanner.Client) *SpannerRepository {
	return &SpannerRepository{client: client}
}

// Compile-time interface check.
var _ domain.UserRepository = (*SpannerRepository)(nil)

func (r *SpannerRepository) Save(ctx context.Context, user *domain.User) error {
	m := spanner.InsertOrUpdate("Users", userColumns, []any{
		user.ID().String(),
		user.Email().String(),
		user.Name().FirstName(),
		user.Name().LastName(),
		user.Phone().String(),
		user.Role().String(),
		user.Status().String(),
		user.CreatedAt(),
		user.UpdatedAt(),
	})
	if err := platformspanner.Write(ctx, r.client, m); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *SpannerRepository) FindByID(ctx context.Context, id types.UserID) (*domain.User, error) {
	row, err := platformspanner.Reader(ctx, r.client).ReadRow(ctx, "Users", spanner.Key{id.String()}, userColumns)
	if err != nil {
		if platformspanner.IsNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	return scanUser(row)
}

func (r *SpannerRepository) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	iter := platformspanner.Reader(ctx, r.client).Query(ctx, spanner.Statement{
		SQL: `SELECT ` + strings.Join(userColumns, ", ") + `
		      FROM Users@{FORCE_INDEX=UsersByEmail}
		      WHERE Email = @email AND Status != 'deleted'
		      LIMIT 1`,
		Params: map[string]any{"email": email.String()},
	})
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	return scanUser(row)
}

func (r *SpannerRepository) FindAll(ctx context.Context, offset, limit int) ([]*domain.User, int, error) {
	rtx, ok := platformspanner.ReadTransactionFromContext(ctx)
	if !ok {
		roTx := r.client.ReadOnlyTransaction()
		defer roTx.Close()
		rtx = roTx
	}

	total, err := countLive(ctx, rtx)
	if err != nil {
		return nil, 0, err
	}

	iter := rtx.Query(ctx, spanner.Statement{
		SQL: `SELECT ` + strings.Join(userColumns, ", ") + `
		      FROM Users
		      WHERE Status != 'deleted'
		      ORDER BY CreatedAt DESC, UserID
		      LIMIT @limit OFFSET @offset`,
		Params: map[string]any{
			"limit":  int64(limit),
			"offset": int64(offset),
		},
	})
	defer iter.Stop()

	var users []*domain.User
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to query users: %w", err)
		}
		user, err := scanUser(row)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	return users, total, nil
}

func (r *SpannerRepository) Count(ctx context.Context) (int, error) {
	return countLive(ctx, platformspanner.Reader(ctx, r.client))
}

func countLive(ctx context.Context, reader platformspanner.ReadTransaction) (int, error) {
	iter := reader.Query(ctx, spanner.Statement{
		SQL: `SELECT COUNT(*) FROM Users WHERE Status != 'deleted'`,
	})
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	var n int64
	if err := row.Columns(&n); err != nil {
		return 0, fmt.Errorf("failed to scan count: %w", err)
	}
	return int(n), nil
}

func scanUser(row *spanner.Row) (*domain.User, error) {
	var userID, emailStr, firstName, lastName, phoneStr, role, status string
	var createdAt, updatedAt time.Time

	if err := row.Columns(&userID, &emailStr, &firstName, &lastName, &phoneStr, &role, &status, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	id, err := types.ParseUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user id: %w", err)
	}
	email, err := domain.NewEmail(emailStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email: %w", err)
	}
	name, err := domain.NewName(firstName, lastName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse name: %w", err)
	}
	phone, err := domain.NewPhone(phoneStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse phone: %w", err)
	}

	return domain.Reconstitute(id, email, name, phone, domain.Role(role), domain.Status(status), createdAt, updatedAt), nil
}
