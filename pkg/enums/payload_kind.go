package enums

import "fmt"

// PayloadKind names one half of the reconciliation snapshot.
type PayloadKind string

const (
	PayloadKindSales PayloadKind = "sales"
	PayloadKindCosts PayloadKind = "costs"
)

var validPayloadKinds = []PayloadKind{
	PayloadKindSales,
	PayloadKindCosts,
}

// String implements fmt.Stringer.
func (k PayloadKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known PayloadKind.
func (k PayloadKind) IsValid() bool {
	for _, candidate := range validPayloadKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParsePayloadKind converts raw input into a PayloadKind.
func ParsePayloadKind(value string) (PayloadKind, error) {
	for _, candidate := range validPayloadKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payload kind %q", value)
}
