// internal/reserve/stored.go
package reserve

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/eos-network/internal/blockchain"
	"github.com/rovshanmuradov/eos-network/internal/network"
)

const (
	stateTable = "state"
	rateTable  = "rate"
)

var _ network.RateQuoter = (*StoredQuoter)(nil)

// reserveState mirrors the reserve contract's "state" singleton.
type reserveState struct {
	Owner           string          `json:"owner"`
	NetworkContract string          `json:"network_contract"`
	TokenSymbol     string          `json:"token_symbol"`
	TokenContract   string          `json:"token_contract"`
	EOSContract     string          `json:"eos_contract"`
	TradeEnabled    blockchain.Bool `json:"trade_enabled"`
}

// storedRate mirrors the reserve contract's "rate" singleton: the result of the
// last getconvrate call, whoever made it.
type storedRate struct {
	StoredRate blockchain.Float `json:"stored_rate"`
	DestAmount string           `json:"dest_amount"`
}

// destSymbol returns the symbol code of the stored dest asset, "" when the
// reserve stored an empty asset for a zero rate.
func (r storedRate) destSymbol() string {
	fields := strings.Fields(r.DestAmount)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// StoredQuoter reads the last conversion rate a reserve contract stored on chain.
// It does not compute a fresh quote: the stored rate answers whatever amount the
// last getconvrate caller asked for, so it is only used when its dest token is
// the requested one. A reserve that is not initialized, has trading disabled,
// holds another token or stored a quote for the opposite direction quotes 0 so
// that the network keeps looking at the remaining reserves.
type StoredQuoter struct {
	client blockchain.Client
	logger *zap.Logger
}

// NewStoredQuoter создаёт котировщик, читающий таблицы резервов через клиент блокчейна.
func NewStoredQuoter(client blockchain.Client, logger *zap.Logger) *StoredQuoter {
	return &StoredQuoter{
		client: client,
		logger: logger.Named("stored-quoter"),
	}
}

// GetRate implements network.RateQuoter.
func (q *StoredQuoter) GetRate(ctx context.Context, query network.RateQuery) (float64, error) {
	reserve := query.ReserveAccount

	var states []reserveState
	if err := q.client.GetTableRows(ctx, blockchain.TableQuery{
		Code:  reserve,
		Scope: reserve,
		Table: stateTable,
	}, &states); err != nil {
		return 0, fmt.Errorf("read %s state: %w", reserve, err)
	}
	if len(states) == 0 || !states[0].TradeEnabled {
		q.logger.Debug("Reserve not trading", zap.String("reserve", reserve))
		return 0, nil
	}

	token := network.TargetToken(query.SrcSymbol, query.DestSymbol)
	if code := symbolCode(states[0].TokenSymbol); code != token {
		q.logger.Debug("Reserve holds another token",
			zap.String("reserve", reserve),
			zap.String("holds", code),
			zap.String("wanted", token))
		return 0, nil
	}

	var rates []storedRate
	if err := q.client.GetTableRows(ctx, blockchain.TableQuery{
		Code:  reserve,
		Scope: reserve,
		Table: rateTable,
	}, &rates); err != nil {
		return 0, fmt.Errorf("read %s rate: %w", reserve, err)
	}
	if len(rates) == 0 || rates[0].StoredRate <= 0 {
		q.logger.Debug("No stored rate", zap.String("reserve", reserve))
		return 0, nil
	}
	if dest := rates[0].destSymbol(); dest != query.DestSymbol {
		q.logger.Debug("Stored rate is for another direction",
			zap.String("reserve", reserve),
			zap.String("stored_dest", dest),
			zap.String("wanted_dest", query.DestSymbol))
		return 0, nil
	}
	return float64(rates[0].StoredRate), nil
}

func symbolCode(symbol string) string {
	if i := strings.IndexByte(symbol, ','); i >= 0 {
		return symbol[i+1:]
	}
	return symbol
}
