package types

import "fmt"

// ValidateIDs ensures at least one non-empty id was supplied.
func ValidateIDs(ids []string, field string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%s: at least one id is required", field)
	}
	for i, id := range ids {
		if id == "" {
			return fmt.Errorf("%s[%d]: id cannot be empty", field, i)
		}
	}
	return nil
}

// ValidateRequired ensures value is non-empty.
func ValidateRequired(value, field string) error {
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}
