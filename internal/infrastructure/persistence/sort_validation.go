package persistence

import (
	"fmt"
	"strings"

	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/shared"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting
// to DESC.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField checks the sort field against a whitelist. Unknown or
// empty fields fall back to the default. Sort columns are interpolated into
// ORDER BY, so only whitelisted identifiers may pass.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// orderClause builds a safe ORDER BY expression from a filter
func orderClause(filter shared.Filter, allowedFields map[string]bool) string {
	field := ValidateSortField(filter.OrderBy, allowedFields, "created_at")
	return fmt.Sprintf("%s %s", field, ValidateSortOrder(filter.OrderDir))
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"category":      true,
	"selling_price": true,
	"stock":         true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"status":     true,
	"total":      true,
}
