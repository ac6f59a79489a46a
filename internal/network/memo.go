// internal/network/memo.go
package network

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FormatMemo builds the trade memo read by the network contract:
// "<destPrecision> <destSymbol>,<destTokenAccount>,<minConversionRate>".
func FormatMemo(destPrecision uint8, destSymbol, destTokenAccount string, minConversionRate decimal.Decimal) string {
	return fmt.Sprintf("%d %s,%s,%s", destPrecision, destSymbol, destTokenAccount, minConversionRate.String())
}

// FormatAsset builds the transfer quantity "<amount> <symbol>". The amount keeps
// the scale it was created with, so "1.0000" stays "1.0000" and matches the
// token's precision.
func FormatAsset(amount decimal.Decimal, symbol string) string {
	places := int32(0)
	if exp := amount.Exponent(); exp < 0 {
		places = -exp
	}
	return fmt.Sprintf("%s %s", amount.StringFixed(places), symbol)
}
