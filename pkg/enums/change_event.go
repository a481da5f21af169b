package enums

import "fmt"

// ChangeEventType names the post-commit notifications emitted by the ledger.
type ChangeEventType string

const (
	EventOrderCreated   ChangeEventType = "order_created"
	EventOrderUpdated   ChangeEventType = "order_updated"
	EventOrderDeleted   ChangeEventType = "order_deleted"
	EventPaymentAdded   ChangeEventType = "payment_added"
	EventPaymentDeleted ChangeEventType = "payment_deleted"
)

var validChangeEventTypes = []ChangeEventType{
	EventOrderCreated,
	EventOrderUpdated,
	EventOrderDeleted,
	EventPaymentAdded,
	EventPaymentDeleted,
}

// String implements fmt.Stringer.
func (e ChangeEventType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known ChangeEventType.
func (e ChangeEventType) IsValid() bool {
	for _, candidate := range validChangeEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseChangeEventType converts raw input into a ChangeEventType.
func ParseChangeEventType(value string) (ChangeEventType, error) {
	for _, candidate := range validChangeEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid change event type %q", value)
}
