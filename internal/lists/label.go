package lists

import (
	"strings"

	"github.com/user/skyscan/internal/types"
)

// ItemLabel builds the human-readable label submitted for a product:
// the name, then " (brand)" only when the brand is non-empty and not
// already contained in the name (case-insensitive), then the quantity.
func ItemLabel(p types.Product) string {
	label := strings.TrimSpace(p.Name)
	brand := strings.TrimSpace(p.Brand)

	if brand != "" && !strings.Contains(strings.ToLower(label), strings.ToLower(brand)) {
		label += " (" + brand + ")"
	}
	if quantity := strings.TrimSpace(p.Quantity); quantity != "" {
		label += " " + quantity
	}
	return label
}
