// internal/types/slippage.go
package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SlippageType определяет тип политики проскальзывания
type SlippageType string

const (
	// SlippageFixed использует фиксированное значение minConversionRate
	SlippageFixed SlippageType = "fixed"
	// SlippagePercent использует процент от котируемого курса
	SlippagePercent SlippageType = "percent"
	// SlippageNone не ограничивает курс снизу
	SlippageNone SlippageType = "none"
)

// rateScale is the number of decimal places kept in a derived min rate.
const rateScale = 8

// SlippageConfig конфигурирует политику проскальзывания
type SlippageConfig struct {
	// Type определяет тип политики проскальзывания
	Type SlippageType `json:"type" mapstructure:"type"`
	// Value содержит значение для выбранной политики:
	// - для SlippageFixed: точное значение minConversionRate
	// - для SlippagePercent: процент допустимого проскальзывания (например, 1.0 = 1%)
	// - для SlippageNone: игнорируется
	Value float64 `json:"value" mapstructure:"value"`
}

// Validate проверяет корректность политики
func (c SlippageConfig) Validate() error {
	switch c.Type {
	case SlippageFixed:
		if c.Value < 0 {
			return fmt.Errorf("fixed slippage rate must be non-negative, got %v", c.Value)
		}
	case SlippagePercent:
		if c.Value < 0 || c.Value >= 100 {
			return fmt.Errorf("slippage percent must be in [0, 100), got %v", c.Value)
		}
	case SlippageNone:
	default:
		return fmt.Errorf("unknown slippage type %q", c.Type)
	}
	return nil
}

// CalculateMinConversionRate вычисляет minConversionRate на основе политики проскальзывания
func CalculateMinConversionRate(expectedRate decimal.Decimal, config SlippageConfig) decimal.Decimal {
	switch config.Type {
	case SlippageFixed:
		return decimal.NewFromFloat(config.Value)
	case SlippagePercent:
		// Например, если проскальзывание 1% (value = 1.0), то минимум будет 99% от котировки
		multiplier := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(config.Value).Div(decimal.NewFromInt(100)))
		return expectedRate.Mul(multiplier).Truncate(rateScale)
	default:
		// Без ограничения сеть принимает любой курс
		return decimal.Zero
	}
}
