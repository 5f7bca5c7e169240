package enums

import "fmt"

// MakingChargesType selects how a product's fabrication fee is computed.
type MakingChargesType string

const (
	MakingChargesTypeFixed      MakingChargesType = "fixed"
	MakingChargesTypePercentage MakingChargesType = "percentage"
	MakingChargesTypePerGram    MakingChargesType = "per_gram"
)

var validMakingChargesTypes = []MakingChargesType{
	MakingChargesTypeFixed,
	MakingChargesTypePercentage,
	MakingChargesTypePerGram,
}

// String implements fmt.Stringer.
func (m MakingChargesType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MakingChargesType.
func (m MakingChargesType) IsValid() bool {
	for _, candidate := range validMakingChargesTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMakingChargesType converts raw input into a MakingChargesType.
func ParseMakingChargesType(value string) (MakingChargesType, error) {
	for _, candidate := range validMakingChargesTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid making charges type %q", value)
}
