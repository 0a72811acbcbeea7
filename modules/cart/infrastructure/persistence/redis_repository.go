// Package persistence stores carts in Redis.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tabison/suppliers/modules/cart/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

const keyPrefix = "cart:"

// document is the stored shape of a cart.
type document struct {
	Items []domain.Item `json:"items"`
}

// RedisRepository keeps each cart as one JSON value under cart:<userId>
// with a sliding TTL. Mutations are optimistic: WATCH the key, read,
// apply, then MULTI/EXEC the write; a concurrent write aborts EXEC and
// the mutation is retried.
type RedisRepository struct {
	client     *redis.Client
	ttl        time.Duration
	maxRetries int
}

func NewRedisRepository(client *redis.Client, ttl time.Duration, maxRetries int) *RedisRepository {
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &RedisRepository{client: client, ttl: ttl, maxRetries: maxRetries}
}

// Compile-time interface check.
var _ domain.CartRepository = (*RedisRepository)(nil)

func key(userID types.UserID) string {
	return keyPrefix + userID.String()
}

func (r *RedisRepository) Load(ctx context.Context, userID types.UserID) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, key(userID)).Bytes()
	return decode(userID, data, err)
}

func (r *RedisRepository) Mutate(ctx context.Context, userID types.UserID, fn domain.MutateFunc) (*domain.Cart, error) {
	k := key(userID)

	for range r.maxRetries {
		var cart *domain.Cart
		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, k).Bytes()
			cart, err = decode(userID, data, err)
			if err != nil {
				return err
			}
			if err := fn(cart); err != nil {
				return err
			}

			payload, err := encode(cart)
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				if cart.IsEmpty() {
					pipe.Del(ctx, k)
				} else {
					pipe.Set(ctx, k, payload, r.ttl)
				}
				return nil
			})
			return err
		}, k)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return cart, nil
	}
	return nil, domain.ErrConcurrentModification
}

func (r *RedisRepository) Delete(ctx context.Context, userID types.UserID) error {
	if err := r.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("deleting cart: %w", err)
	}
	return nil
}

func decode(userID types.UserID, data []byte, err error) (*domain.Cart, error) {
	if errors.Is(err, redis.Nil) {
		return domain.NewCart(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cart: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding cart: %w", err)
	}
	return domain.Reconstitute(userID, doc.Items), nil
}

func encode(cart *domain.Cart) ([]byte, error) {
	data, err := json.Marshal(document{Items: cart.Items()})
	if err != nil {
		return nil, fmt.Errorf("encoding cart: %w", err)
	}
	return data, nil
}
