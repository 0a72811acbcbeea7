package domain

import "strings"

// ShippingAddress is where an order is delivered.
type ShippingAddress struct {
	FullName   string
	Phone      string
	Street     string
	City       string
	County     string
	PostalCode string
	Country    string
}

// Validate requires the fields a courier needs.
func (a ShippingAddress) Validate() error {
	for _, v := range []string{a.FullName, a.Phone, a.Street, a.City} {
		if strings.TrimSpace(v) == "" {
			return ErrInvalidAddress
		}
	}
	return nil
}
