package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{61.98, "$61.98"},
		{56.98, "$56.98"},
		{0, "$0.00"},
		{0.001, "$0.00"},
		{12.5, "$12.50"},
		{-5, "-$5.00"},
		{5.99 * 3, "$17.97"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Format("", tc.amount))
	}
}

func TestFormatWithSymbol(t *testing.T) {
	assert.Equal(t, "Rp10.00", Format("Rp", 10))
	assert.Equal(t, "95.73", Plain(95.73))
}
