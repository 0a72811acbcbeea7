// Package types holds the value objects every module agrees on: identifiers
// and money.
package types

import (
	"github.com/google/uuid"
)

// uuidValue is the canonical text form of a UUID. Each identifier type embeds
// it so a UserID can never be passed where a ProductID is expected.
type uuidValue struct {
	value string
}

func (v uuidValue) String() string { return v.value }
func (v uuidValue) IsZero() bool   { return v.value == "" }

func parseUUID(s string) (uuidValue, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuidValue{}, ErrInvalidID
	}
	return uuidValue{value: parsed.String()}, nil
}

// UserID identifies a marketplace account. It is the subject of the bearer
// token that authenticated the account.
type UserID struct{ uuidValue }

func NewUserID() UserID { return UserID{uuidValue{value: uuid.NewString()}} }

func ParseUserID(s string) (UserID, error) {
	v, err := parseUUID(s)
	return UserID{v}, err
}

// ProductID identifies a catalog product.
type ProductID struct{ uuidValue }

func NewProductID() ProductID { return ProductID{uuidValue{value: uuid.NewString()}} }

func ParseProductID(s string) (ProductID, error) {
	v, err := parseUUID(s)
	return ProductID{v}, err
}

// OrderID identifies an order. Order IDs are UUIDv7 so they sort by creation time.
type OrderID struct{ uuidValue }

func NewOrderID() OrderID { return OrderID{uuidValue{value: uuid.Must(uuid.NewV7()).String()}} }

func ParseOrderID(s string) (OrderID, error) {
	v, err := parseUUID(s)
	return OrderID{v}, err
}
