// Package domain holds the shopping cart rules.
package domain

import (
	"fmt"
	"maps"
	"slices"

	"github.com/tabison/suppliers/modules/shared/types"
)

// Item is one cart line. The cart references products; it never copies
// their data.
type Item struct {
	ProductID       string            `json:"productId"`
	Quantity        int               `json:"quantity"`
	SelectedOptions map[string]string `json:"selectedOptions,omitempty"`
}

// Cart is the item list of exactly one user.
type Cart struct {
	userID types.UserID
	items  []Item
}

// NewCart returns an empty cart for userID.
func NewCart(userID types.UserID) *Cart {
	return &Cart{userID: userID}
}

// Reconstitute recreates a cart from storage.
func Reconstitute(userID types.UserID, items []Item) *Cart {
	return &Cart{userID: userID, items: slices.Clone(items)}
}

func (c *Cart) UserID() types.UserID { return c.userID }
func (c *Cart) IsEmpty() bool        { return len(c.items) == 0 }

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	for i, it := range c.items {
		out[i] = Item{ProductID: it.ProductID, Quantity: it.Quantity, SelectedOptions: maps.Clone(it.SelectedOptions)}
	}
	return out
}

// ProductIDs returns the product references in line order.
func (c *Cart) ProductIDs() []string {
	ids := make([]string, len(c.items))
	for i, it := range c.items {
		ids[i] = it.ProductID
	}
	return ids
}

// Quantity returns the quantity held for productID, 0 when absent.
func (c *Cart) Quantity(productID string) int {
	if i := c.index(productID); i >= 0 {
		return c.items[i].Quantity
	}
	return 0
}

func (c *Cart) index(productID string) int {
	return slices.IndexFunc(c.items, func(it Item) bool { return it.ProductID == productID })
}

// Add merges quantity into the line for productID, or appends a new line.
// Options are shallow-merged, new keys winning. stock is the product's
// current stock; the merged quantity must not exceed it.
func (c *Cart) Add(productID string, quantity int, options map[string]string, stock int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	i := c.index(productID)
	existing := 0
	if i >= 0 {
		existing = c.items[i].Quantity
	}
	if existing+quantity > stock {
		return fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, existing+quantity, stock)
	}

	if i < 0 {
		c.items = append(c.items, Item{ProductID: productID, Quantity: quantity, SelectedOptions: maps.Clone(options)})
		return nil
	}
	c.items[i].Quantity += quantity
	if len(options) > 0 {
		if c.items[i].SelectedOptions == nil {
			c.items[i].SelectedOptions = make(map[string]string, len(options))
		}
		maps.Copy(c.items[i].SelectedOptions, options)
	}
	return nil
}

// SetQuantity replaces the quantity of an existing line.
func (c *Cart) SetQuantity(productID string, quantity int, stock int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	i := c.index(productID)
	if i < 0 {
		return ErrItemNotFound
	}
	if quantity > stock {
		return fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, quantity, stock)
	}
	c.items[i].Quantity = quantity
	return nil
}

// Remove drops the line for productID. It reports whether a line existed.
func (c *Cart) Remove(productID string) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	c.items = slices.Delete(c.items, i, i+1)
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// Prune drops lines whose product no longer exists. It reports whether
// anything was dropped.
func (c *Cart) Prune(exists func(productID string) bool) bool {
	before := len(c.items)
	c.items = slices.DeleteFunc(c.items, func(it Item) bool { return !exists(it.ProductID) })
	return len(c.items) != before
}
