// internal/network/rows.go
package network

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rovshanmuradov/eos-network/internal/blockchain"
)

// NativeSymbol is the network-native token every pair trades against.
const NativeSymbol = "EOS"

// stateRow mirrors a row of the network contract's "state" singleton.
type stateRow struct {
	Owner       string          `json:"owner"`
	EOSContract string          `json:"eos_contract"`
	IsEnabled   blockchain.Bool `json:"is_enabled"`
}

// reserveRow mirrors a row of the network contract's "reservespert" table.
type reserveRow struct {
	Symbol           string   `json:"symbol"`
	TokenContract    string   `json:"token_contract"`
	ReserveContracts []string `json:"reserve_contracts"`
	NumReserves      int      `json:"num_reserves"`
}

// symbolCode returns the SYMBOL part of a "<precision>,<SYMBOL>" string.
func (r reserveRow) symbolCode() string {
	parts := strings.Split(r.Symbol, ",")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// reserves returns the listed reserve accounts in table order, without the
// empty names the contract pads the vector with.
func (r reserveRow) reserves() []string {
	out := make([]string, 0, len(r.ReserveContracts))
	for _, name := range r.ReserveContracts {
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// TargetToken picks the non-native side of a pair.
func TargetToken(srcSymbol, destSymbol string) string {
	if srcSymbol == NativeSymbol {
		return destSymbol
	}
	return srcSymbol
}

// firstMatchingRow returns the first row listing token. Later rows for the
// same token are never consulted.
func firstMatchingRow(rows []reserveRow, token string) (reserveRow, bool) {
	for _, row := range rows {
		if row.symbolCode() == token {
			return row, true
		}
	}
	return reserveRow{}, false
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parseBalance reads the leading number of an asset string, so "12.3400 EOS" is 12.34.
func parseBalance(s string) (float64, error) {
	num := leadingNumber.FindString(strings.TrimSpace(s))
	if num == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBalance, s)
	}
	return strconv.ParseFloat(num, 64)
}
