package payments

import (
	// Go Internal Packages
	"testing"

	// External Packages
	"github.com/stretchr/testify/assert"
)

func TestCalculatePrice(t *testing.T) {
	tests := []struct {
		clients int
		want    Price
	}{
		{1, Price{Base: 550000, Tax: 5555, Total: 555555}},
		{2, Price{Base: 1100000, Tax: 11110, Total: 1111110}},
		{3, Price{Base: 1650000, Tax: 16665, Total: 1666665}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CalculatePrice(tt.clients, 550000))
	}
}

func TestCalculateTaxRounding(t *testing.T) {
	// 150/100 = 1.5, + 0.015 = 1.515
	assert.Equal(t, uint64(2), CalculateTax(150))
	// 49/100 = 0.49, + 0.0049 = 0.4949
	assert.Equal(t, uint64(0), CalculateTax(49))
	// 4950/100 = 49.5, + 0.495 = 49.995
	assert.Equal(t, uint64(50), CalculateTax(4950))
	assert.Equal(t, uint64(0), CalculateTax(0))
}
