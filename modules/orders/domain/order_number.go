package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewOrderNumber returns a human-readable order number of the form
// ORD-<yyyymmddhhmmss>-<6 hex>. Numbers sort by creation second; the random
// suffix keeps numbers created in the same second distinct.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
	return "ORD-" + now.UTC().Format("20060102150405") + "-" + strings.ToUpper(suffix)
}
