package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(f float64) *float64 { return &f }

func TestFormatCurrencyScaledTiers(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{12.346, "$12.35"},
		{999.99, "$999.99"},
		{1e3, "$1.00K"},
		{1500, "$1.50K"},
		{999_999, "$1000.00K"},
		{1e6, "$1.00M"},
		{2_500_000, "$2.50M"},
		{1e9, "$1.00B"},
		{3.21e11, "$321.00B"},
		{1e12, "$1.00T"},
		{2_750_000_000_000, "$2.75T"},
		{4.2e15, "$4200.00T"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatCurrencyScaled(ptr(tc.in)), "input %v", tc.in)
	}
}

func TestFormatCurrencyScaledNegative(t *testing.T) {
	assert.Equal(t, "-$1.50K", FormatCurrencyScaled(ptr(-1500)))
	assert.Equal(t, "-$2.00B", FormatCurrencyScaled(ptr(-2e9)))
	assert.Equal(t, "-$12.00", FormatCurrencyScaled(ptr(-12)))
	assert.Equal(t, "-$1.00T", FormatCurrencyScaled(ptr(-1e12)))
	// rounds to zero: no stray sign
	assert.Equal(t, "$0.00", FormatCurrencyScaled(ptr(-0.001)))
}

func TestFormatCurrencyScaledMissing(t *testing.T) {
	assert.Equal(t, NotAvailable, FormatCurrencyScaled(nil))
	assert.Equal(t, NotAvailable, FormatCurrencyScaled(ptr(math.NaN())))
	assert.Equal(t, NotAvailable, FormatCurrencyScaled(ptr(math.Inf(-1))))
}

func TestDollar(t *testing.T) {
	assert.Equal(t, "$172.50", Dollar(172.5))
	assert.Equal(t, "$-1.20", Dollar(-1.2))
	assert.Equal(t, NotAvailable, Dollar(math.NaN()))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "-0.69%", Percent(-0.0069))
	assert.Equal(t, "0.44%", Percent(0.0044))
	assert.Equal(t, "100.00%", Percent(1))
}

func TestCount(t *testing.T) {
	assert.Equal(t, "0", Count(0))
	assert.Equal(t, "999", Count(999))
	assert.Equal(t, "1,000", Count(1000))
	assert.Equal(t, "54,321,987", Count(54321987))
	assert.Equal(t, "-1,234", Count(-1234))
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "28.91", Plain(28.9123))
	assert.Equal(t, "-3.00", Plain(-3))
}
