// internal/network/trade.go
package network

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/eos-network/internal/blockchain"
)

// TradeRequest describes a trade executed by transferring the source token to the network.
type TradeRequest struct {
	NetworkAccount    string
	UserAccount       string
	SrcAmount         decimal.Decimal
	SrcTokenAccount   string
	DestTokenAccount  string
	SrcSymbol         string
	DestPrecision     uint8
	DestSymbol        string
	MinConversionRate decimal.Decimal
}

// Trade transfers SrcAmount of SrcSymbol from the user to the network with a memo
// naming the destination token and the minimal acceptable rate. It returns the
// transaction id as soon as the node accepts the push; settlement is not awaited.
func (s *Service) Trade(ctx context.Context, req TradeRequest) (string, error) {
	memo := FormatMemo(req.DestPrecision, req.DestSymbol, req.DestTokenAccount, req.MinConversionRate)
	quantity := FormatAsset(req.SrcAmount, req.SrcSymbol)

	logger := s.logger.With(
		zap.String("user", req.UserAccount),
		zap.String("quantity", quantity),
		zap.String("memo", memo))

	txID, err := s.client.Transfer(ctx, blockchain.TransferRequest{
		Contract:      req.SrcTokenAccount,
		From:          req.UserAccount,
		To:            req.NetworkAccount,
		Quantity:      quantity,
		Memo:          memo,
		Authorization: []string{req.UserAccount + "@active"},
	})
	s.metrics.RecordTrade(err == nil)
	if err != nil {
		logger.Error("Trade transfer failed", zap.Error(err))
		return "", fmt.Errorf("trade transfer: %w", err)
	}

	logger.Info("Trade transfer pushed", zap.String("tx_id", txID))
	return txID, nil
}
