package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateMinConversionRate(t *testing.T) {
	expected := decimal.RequireFromString("2.5")

	tests := []struct {
		name   string
		config SlippageConfig
		want   string
	}{
		{name: "fixed", config: SlippageConfig{Type: SlippageFixed, Value: 0.95}, want: "0.95"},
		{name: "percent", config: SlippageConfig{Type: SlippagePercent, Value: 1}, want: "2.475"},
		{name: "percent truncates", config: SlippageConfig{Type: SlippagePercent, Value: 33.333}, want: "1.666675"},
		{name: "none", config: SlippageConfig{Type: SlippageNone}, want: "0"},
		{name: "unknown", config: SlippageConfig{Type: "weird"}, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateMinConversionRate(expected, tt.config)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestSlippageConfigValidate(t *testing.T) {
	assert.NoError(t, SlippageConfig{Type: SlippagePercent, Value: 0.5}.Validate())
	assert.NoError(t, SlippageConfig{Type: SlippageNone}.Validate())
	assert.NoError(t, SlippageConfig{Type: SlippageFixed, Value: 1.2}.Validate())
	assert.Error(t, SlippageConfig{Type: SlippagePercent, Value: 100}.Validate())
	assert.Error(t, SlippageConfig{Type: SlippageFixed, Value: -1}.Validate())
	assert.Error(t, SlippageConfig{Type: "weird"}.Validate())
}
