package enums

import "fmt"

// MetalKey identifies a priced metal/purity combination in the rate table.
type MetalKey string

const (
	MetalKeyGold24K MetalKey = "gold_24k"
	MetalKeyGold22K MetalKey = "gold_22k"
	MetalKeySilver  MetalKey = "silver"
)

var validMetalKeys = []MetalKey{
	MetalKeyGold24K,
	MetalKeyGold22K,
	MetalKeySilver,
}

// String implements fmt.Stringer.
func (m MetalKey) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MetalKey.
func (m MetalKey) IsValid() bool {
	for _, candidate := range validMetalKeys {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMetalKey converts raw input into a MetalKey.
func ParseMetalKey(value string) (MetalKey, error) {
	for _, candidate := range validMetalKeys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid metal key %q", value)
}

// ResolveMetalKey maps product attributes onto the rate key. Gold without an
// explicit "24K" purity is priced as 22K.
func ResolveMetalKey(metal MetalType, purity *string) MetalKey {
	switch metal {
	case MetalTypeGold:
		if purity != nil && *purity == "24K" {
			return MetalKeyGold24K
		}
		return MetalKeyGold22K
	case MetalTypeSilver:
		return MetalKeySilver
	default:
		return ""
	}
}
