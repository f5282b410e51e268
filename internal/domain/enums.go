package domain

// DiscountScope tells which quantity a volume discount step is measured against
type DiscountScope string

const (
	DiscountScopeItem DiscountScope = "item"
	DiscountScopeCart DiscountScope = "cart"
)

// IsValid checks if the discount scope is valid
func (s DiscountScope) IsValid() bool {
	switch s {
	case DiscountScopeItem, DiscountScopeCart:
		return true
	default:
		return false
	}
}

// ValidationType categorizes a cart validation result
type ValidationType string

const (
	ValidationMinimumQuantity ValidationType = "minimum_quantity"
	ValidationStock           ValidationType = "stock"
	ValidationDiscontinued    ValidationType = "discontinued"
	ValidationTierRestriction ValidationType = "tier_restriction"
)

// IsValid checks if the validation type is valid
func (t ValidationType) IsValid() bool {
	switch t {
	case ValidationMinimumQuantity,
		ValidationStock,
		ValidationDiscontinued,
		ValidationTierRestriction:
		return true
	default:
		return false
	}
}

// Severity ranks validation results
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// IsValid checks if the severity is valid
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// Blocking reports whether the result must stop a checkout
func (r ValidationResult) Blocking() bool {
	return r.Severity == SeverityError
}
