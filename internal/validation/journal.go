package validation

import (
	"errors"
	"strings"
)

// ValidateEnergy validates a mood check-in energy rating
func ValidateEnergy(energy int) error {
	if energy < 1 || energy > 5 {
		return errors.New("energy must be between 1 and 5")
	}
	return nil
}

// ValidateSleepHours validates a sleep log duration
func ValidateSleepHours(hours float64) error {
	if hours < 0 || hours > 24 {
		return errors.New("sleep hours must be between 0 and 24")
	}
	return nil
}

// ValidateHabitTitle validates a habit title
func ValidateHabitTitle(title string) error {
	trimmed := strings.TrimSpace(title)

	if trimmed == "" {
		return errors.New("habit title is required")
	}

	if len(trimmed) > 200 {
		return errors.New("habit title is too long (max 200 characters)")
	}

	return nil
}
