package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountFromMinorUnits(t *testing.T) {
	cases := []struct {
		minor int64
		want  string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{100, "1.00"},
		{2599, "25.99"},
		{1050, "10.50"},
		{999999999, "9999999.99"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, AmountFromMinorUnits(tc.minor).StringFixed(2))
	}
}
