package enums

import "fmt"

// MetalType is the base metal a product is made of.
type MetalType string

const (
	MetalTypeGold   MetalType = "gold"
	MetalTypeSilver MetalType = "silver"
)

var validMetalTypes = []MetalType{
	MetalTypeGold,
	MetalTypeSilver,
}

// String implements fmt.Stringer.
func (m MetalType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MetalType.
func (m MetalType) IsValid() bool {
	for _, candidate := range validMetalTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMetalType converts raw input into a MetalType.
func ParseMetalType(value string) (MetalType, error) {
	for _, candidate := range validMetalTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid metal type %q", value)
}
