// internal/reserve/http.go
package reserve

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/eos-network/internal/network"
)

// ErrQuoteRejected is returned when the rate service answers with a non-2xx status.
var ErrQuoteRejected = errors.New("rate service rejected quote")

var _ network.RateQuoter = (*HTTPQuoter)(nil)

type rateResponse struct {
	Rate float64 `json:"rate"`
}

// HTTPQuoter asks an external rate service for reserve quotes.
type HTTPQuoter struct {
	client *resty.Client
	logger *zap.Logger
}

// NewHTTPQuoter создаёт HTTP-котировщик для сервиса по адресу baseURL.
func NewHTTPQuoter(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPQuoter {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &HTTPQuoter{
		client: client,
		logger: logger.Named("http-quoter"),
	}
}

// GetRate implements network.RateQuoter.
func (q *HTTPQuoter) GetRate(ctx context.Context, query network.RateQuery) (float64, error) {
	var out rateResponse
	resp, err := q.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"reserve":   query.ReserveAccount,
			"eos_token": query.EOSTokenAccount,
			"src":       query.SrcSymbol,
			"dest":      query.DestSymbol,
			"amount":    strconv.FormatFloat(query.SrcAmount, 'f', -1, 64),
		}).
		SetResult(&out).
		Get("/rate")
	if err != nil {
		return 0, fmt.Errorf("quote %s: %w", query.ReserveAccount, err)
	}
	if resp.IsError() {
		q.logger.Debug("Quote rejected",
			zap.String("reserve", query.ReserveAccount),
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()))
		return 0, fmt.Errorf("%w: %s: status %d", ErrQuoteRejected, query.ReserveAccount, resp.StatusCode())
	}
	return out.Rate, nil
}
