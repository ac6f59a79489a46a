// internal/blockchain/eosbc/client.go
package eosbc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	eos "github.com/eoscanada/eos-go"
	"github.com/eoscanada/eos-go/token"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/eos-network/internal/blockchain"
	"github.com/rovshanmuradov/eos-network/internal/utils/metrics"
)

// Определение ошибок
var (
	ErrNoSigner       = errors.New("no signing keys configured")
	ErrInvalidRequest = errors.New("invalid transfer request")
)

// Проверяем, что Client реализует blockchain.Client интерфейс
var _ blockchain.Client = (*Client)(nil)

// NodeInfo is the subset of get_info the client cares about.
type NodeInfo struct {
	ServerVersion string
	HeadBlockNum  uint32
}

// Client – тонкий адаптер для взаимодействия с нодой EOS через eos-go.
type Client struct {
	api     *eos.API
	logger  *zap.Logger
	metrics *metrics.Collector
	timeout time.Duration
	signer  bool
}

// NewClient создаёт новый клиент, принимая URL ноды и логгер через dependency injection.
// A zero timeout leaves deadlines to the caller's context.
func NewClient(nodeURL string, timeout time.Duration, logger *zap.Logger, mc *metrics.Collector) *Client {
	return &Client{
		api:     eos.New(nodeURL),
		logger:  logger.Named("eosbc-client"),
		metrics: mc,
		timeout: timeout,
	}
}

// UseKeys устанавливает KeyBag с WIF-ключами в качестве подписанта транзакций.
func (c *Client) UseKeys(ctx context.Context, wifKeys []string) error {
	if len(wifKeys) == 0 {
		return ErrNoSigner
	}
	keyBag := eos.NewKeyBag()
	for i, key := range wifKeys {
		if err := keyBag.ImportPrivateKey(ctx, key); err != nil {
			return fmt.Errorf("import key #%d: %w", i, err)
		}
	}
	c.api.SetSigner(keyBag)
	c.signer = true
	return nil
}

// WaitReady опрашивает get_info с экспоненциальной задержкой, пока нода не ответит.
func (c *Client) WaitReady(ctx context.Context, maxTries uint, initialInterval time.Duration) (*NodeInfo, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = initialInterval
	policy.MaxInterval = initialInterval * 10

	notify := func(err error, duration time.Duration) {
		c.logger.Warn("Node not ready, retrying", zap.Error(err), zap.Duration("backoff", duration))
	}

	operation := func() (*NodeInfo, error) {
		return c.GetInfo(ctx)
	}

	info, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(maxTries),
		backoff.WithNotify(notify))
	if err != nil {
		c.logger.Error("Node unreachable after all attempts", zap.Uint("tries", maxTries), zap.Error(err))
		return nil, err
	}

	c.logger.Info("Node ready",
		zap.String("server_version", info.ServerVersion),
		zap.Uint32("head_block", info.HeadBlockNum))
	return info, nil
}

// GetInfo запрашивает get_info у ноды.
func (c *Client) GetInfo(ctx context.Context) (*NodeInfo, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	resp, err := c.api.GetInfo(ctx)
	c.metrics.RecordRPC("get_info", time.Since(start), err)
	if err != nil {
		c.logger.Debug("GetInfo error", zap.Error(err))
		return nil, err
	}
	return &NodeInfo{ServerVersion: resp.ServerVersion, HeadBlockNum: resp.HeadBlockNum}, nil
}

// GetCurrencyBalance возвращает балансы аккаунта в виде строк asset.
func (c *Client) GetCurrencyBalance(ctx context.Context, code, account, symbol string) ([]string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	assets, err := c.api.GetCurrencyBalance(ctx, eos.AN(account), symbol, eos.AN(code))
	c.metrics.RecordRPC("get_currency_balance", time.Since(start), err)
	if err != nil {
		c.logger.Debug("GetCurrencyBalance error",
			zap.String("code", code),
			zap.String("account", account),
			zap.String("symbol", symbol),
			zap.Error(err))
		return nil, err
	}

	balances := make([]string, 0, len(assets))
	for _, a := range assets {
		balances = append(balances, a.String())
	}
	return balances, nil
}

// GetTableRows читает таблицу контракта в JSON-режиме и декодирует rows в out.
func (c *Client) GetTableRows(ctx context.Context, query blockchain.TableQuery, out any) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	resp, err := c.api.GetTableRows(ctx, eos.GetTableRowsRequest{
		Code:  query.Code,
		Scope: query.Scope,
		Table: query.Table,
		Limit: query.Limit,
		JSON:  true,
	})
	c.metrics.RecordRPC("get_table_rows", time.Since(start), err)
	if err != nil {
		c.logger.Debug("GetTableRows error",
			zap.String("code", query.Code),
			zap.String("table", query.Table),
			zap.Error(err))
		return err
	}

	if err := json.Unmarshal(resp.Rows, out); err != nil {
		return fmt.Errorf("decode %s rows: %w", query.Table, err)
	}
	return nil
}

// Transfer подписывает и отправляет transfer-действие на контракте токена.
func (c *Client) Transfer(ctx context.Context, req blockchain.TransferRequest) (string, error) {
	if !c.signer {
		return "", ErrNoSigner
	}
	action, err := buildTransferAction(req)
	if err != nil {
		return "", err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	out, err := c.api.SignPushActions(ctx, action)
	c.metrics.RecordRPC("push_transaction", time.Since(start), err)
	if err != nil {
		c.logger.Error("Transfer error",
			zap.String("contract", req.Contract),
			zap.String("from", req.From),
			zap.String("to", req.To),
			zap.Error(err))
		return "", err
	}

	c.logger.Debug("Transfer pushed", zap.String("tx_id", out.TransactionID))
	return out.TransactionID, nil
}

func buildTransferAction(req blockchain.TransferRequest) (*eos.Action, error) {
	if req.Contract == "" || req.From == "" || req.To == "" {
		return nil, fmt.Errorf("%w: contract, from and to are required", ErrInvalidRequest)
	}
	quantity, err := eos.NewAssetFromString(req.Quantity)
	if err != nil {
		return nil, fmt.Errorf("%w: quantity %q: %v", ErrInvalidRequest, req.Quantity, err)
	}

	action := token.NewTransfer(eos.AN(req.From), eos.AN(req.To), quantity, req.Memo)
	action.Account = eos.AN(req.Contract)

	if len(req.Authorization) > 0 {
		perms := make([]eos.PermissionLevel, 0, len(req.Authorization))
		for _, auth := range req.Authorization {
			level, err := eos.NewPermissionLevel(auth)
			if err != nil {
				return nil, fmt.Errorf("%w: authorization %q: %v", ErrInvalidRequest, auth, err)
			}
			perms = append(perms, level)
		}
		action.Authorization = perms
	}
	return action, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}
