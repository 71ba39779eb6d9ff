package engine

import "fmt"

// ValidateRules checks that rules describe a playable game
func ValidateRules(rules Rules) error {
	if rules.FieldSize < MinFieldSize || rules.FieldSize > MaxFieldSize {
		return fmt.Errorf("rules validation: field_size must be between %d and %d, got %d",
			MinFieldSize, MaxFieldSize, rules.FieldSize)
	}
	if rules.DrawSize < 1 || rules.DrawSize > MaxFieldSize {
		return fmt.Errorf("rules validation: draw_size must be between 1 and %d, got %d",
			MaxFieldSize, rules.DrawSize)
	}
	return nil
}
