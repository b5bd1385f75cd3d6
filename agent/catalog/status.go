package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

type Status string

const (
	StatusNotFound   Status = "not_found"
	StatusInStock    Status = "in_stock"
	StatusOutOfStock Status = "out_of_stock"
	StatusCheckedOut Status = "checked_out"
)

type Availability struct {
	ProductID string `json:"product_id"`
	Status    Status `json:"status"`
	Quantity  int    `json:"quantity,omitempty"`
}

func (a Availability) String() string {
	switch a.Status {
	case StatusInStock:
		return fmt.Sprintf("✅ Product %s is available (%d units).", a.ProductID, a.Quantity)
	case StatusOutOfStock:
		return fmt.Sprintf("❌ Product %s is out of stock.", a.ProductID)
	default:
		return notFound(a.ProductID)
	}
}

type CheckoutResult struct {
	ProductID string `json:"product_id"`
	Status    Status `json:"status"`
	Remaining int    `json:"remaining,omitempty"`
}

func (r CheckoutResult) OK() bool {
	return r.Status == StatusCheckedOut
}

func (r CheckoutResult) String() string {
	switch r.Status {
	case StatusCheckedOut:
		return fmt.Sprintf("✅ Product %s checked out successfully.", r.ProductID)
	case StatusOutOfStock:
		return fmt.Sprintf("❌ Product %s is out of stock.", r.ProductID)
	default:
		return notFound(r.ProductID)
	}
}

func notFound(id string) string {
	return fmt.Sprintf("❌ No product found with ID %s.", id)
}

const matchesHeader = "Here are the best matches I found:"

// RenderMatches formats a filter result for the model.
func RenderMatches(products []Product) string {
	lines := make([]string, 0, len(products)+1)
	lines = append(lines, matchesHeader)
	for _, p := range products {
		lines = append(lines, fmt.Sprintf("• %s (ID: %s) — $%s | ⭐ %s | %s",
			p.Name, p.ID, formatNumber(p.Price), formatNumber(p.Rating), p.Brand))
	}
	return strings.Join(lines, "\n")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
