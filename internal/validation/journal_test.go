package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEnergy(t *testing.T) {
	assert.NoError(t, ValidateEnergy(1))
	assert.NoError(t, ValidateEnergy(5))
	assert.Error(t, ValidateEnergy(0))
	assert.Error(t, ValidateEnergy(6))
}

func TestValidateSleepHours(t *testing.T) {
	assert.NoError(t, ValidateSleepHours(0))
	assert.NoError(t, ValidateSleepHours(7.5))
	assert.NoError(t, ValidateSleepHours(24))
	assert.Error(t, ValidateSleepHours(-0.5))
	assert.Error(t, ValidateSleepHours(24.5))
}

func TestValidateHabitTitle(t *testing.T) {
	assert.NoError(t, ValidateHabitTitle("Meditar"))
	assert.NoError(t, ValidateHabitTitle("  com espaços  "))
	assert.Error(t, ValidateHabitTitle(""))
	assert.Error(t, ValidateHabitTitle("   "))
	assert.Error(t, ValidateHabitTitle(strings.Repeat("a", 201)))
}
