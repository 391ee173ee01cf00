package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	assert.Equal(t, 42, ParseValue(" 42 "))
	assert.Equal(t, 3.5, ParseValue("3.5"))
	assert.Equal(t, "1_1_2024-01-01", ParseValue("1_1_2024-01-01"))
	assert.Equal(t, "NaN", ParseValue("NaN"))
	assert.Equal(t, "", ParseValue("   "))

	// digit separators and hex floats stay text
	assert.Equal(t, "1_1_20240101", ParseValue("1_1_20240101"))
	assert.Equal(t, "1_000", ParseValue("1_000"))
	assert.Equal(t, "0x1p4", ParseValue("0x1p4"))
	assert.Equal(t, 1e5, ParseValue("1e5"))
}

func TestNumeric_Lenient(t *testing.T) {
	assert.Equal(t, 100.0, Numeric("100"))
	assert.Equal(t, 7.0, Numeric(7))
	assert.Equal(t, 0.0, Numeric("N/A"))
	assert.Equal(t, 0.0, Numeric("NaN"))
	assert.Equal(t, 0.0, Numeric(math.Inf(1)))
	assert.Equal(t, 0.0, Numeric(nil))
	assert.Equal(t, 0.0, Numeric("1_000"))
	assert.Equal(t, 0.0, Numeric("0x10p0"))
}

func TestToInt(t *testing.T) {
	n, err := ToInt("12")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = ToInt(2023.0)
	require.NoError(t, err)
	assert.Equal(t, 2023, n)

	_, err = ToInt(1.5)
	assert.Error(t, err)

	_, err = ToInt("June")
	assert.Error(t, err)

	_, err = ToInt(1e300)
	assert.Error(t, err)

	_, err = ToInt(-1e19)
	assert.Error(t, err)
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 3.0, RoundHalfUp(2.5))
	assert.Equal(t, -2.0, RoundHalfUp(-2.5))
	assert.Equal(t, 200.0, RoundHalfUp(199.6))
}
