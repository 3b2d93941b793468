package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf(t *testing.T) {
	instant := time.Date(2024, 7, 25, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, Date("2024-07-25"), DateOf(instant))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-07-25")
	require.NoError(t, err)
	assert.Equal(t, Date("2024-07-25"), d)

	_, err = ParseDate("25/07/2024")
	assert.Error(t, err)

	_, err = ParseDate("2024-13-01")
	assert.Error(t, err)
}

func TestDateComparison(t *testing.T) {
	assert.True(t, Date("2024-07-20").Before("2024-07-25"))
	assert.False(t, Date("2024-07-25").Before("2024-07-25"))
	assert.True(t, Date("2024-08-01").After("2024-07-25"))

	// Lexicographic order is calendar order across month/year boundaries.
	assert.True(t, Date("2024-12-31").Before("2025-01-01"))
	assert.True(t, Date("2024-09-30").Before("2024-10-01"))
}

func TestDateAddDays(t *testing.T) {
	assert.Equal(t, Date("2024-08-01"), Date("2024-07-31").AddDays(1))
	assert.Equal(t, Date("2024-02-29"), Date("2024-02-28").AddDays(1), "leap year")
	assert.Equal(t, Date("2024-07-24"), Date("2024-07-25").AddDays(-1))
}

func TestDateValid(t *testing.T) {
	assert.True(t, Date("2024-07-25").Valid())
	assert.False(t, Date("not-a-date").Valid())
	assert.False(t, Date("").Valid())
}
