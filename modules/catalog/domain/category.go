package domain

import "fmt"

// Category groups products on the storefront.
type Category string

const (
	CategoryBuilding     Category = "building"
	CategoryElectrical   Category = "electrical"
	CategoryPlumbing     Category = "plumbing"
	CategoryHardware     Category = "hardware"
	CategoryAgricultural Category = "agricultural"
	CategoryOffice       Category = "office"
	CategoryOther        Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryBuilding,
	CategoryElectrical,
	CategoryPlumbing,
	CategoryHardware,
	CategoryAgricultural,
	CategoryOffice,
	CategoryOther,
}

func (c Category) String() string { return string(c) }

func (c Category) IsValid() bool {
	switch c {
	case CategoryBuilding, CategoryElectrical, CategoryPlumbing, CategoryHardware,
		CategoryAgricultural, CategoryOffice, CategoryOther:
		return true
	default:
		return false
	}
}

// ParseCategory validates s. An empty string yields CategoryOther.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return CategoryOther, nil
	}
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}
