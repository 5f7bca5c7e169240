package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is the structured shipping address stored as jsonb on the order row.
type Address struct {
	FullName   string  `json:"full_name" validate:"required"`
	Phone      string  `json:"phone" validate:"required"`
	Line1      string  `json:"line1" validate:"required"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city" validate:"required"`
	State      string  `json:"state" validate:"required"`
	PostalCode string  `json:"postal_code" validate:"required"`
	Country    string  `json:"country" validate:"required"`
}

// Validate reports the first structurally missing field.
func (a Address) Validate() error {
	required := map[string]string{
		"full_name":   a.FullName,
		"phone":       a.Phone,
		"line1":       a.Line1,
		"city":        a.City,
		"state":       a.State,
		"postal_code": a.PostalCode,
		"country":     a.Country,
	}
	for _, field := range []string{"full_name", "phone", "line1", "city", "state", "postal_code", "country"} {
		if strings.TrimSpace(required[field]) == "" {
			return fmt.Errorf("address: missing %s", field)
		}
	}
	return nil
}

// Value marshals the address for storage.
func (a Address) Value() (driver.Value, error) {
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("address: marshal: %w", err)
	}
	return string(raw), nil
}

// Scan rehydrates the stored address blob.
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("address: unsupported scan type %T", value)
	}
	return json.Unmarshal(raw, a)
}
