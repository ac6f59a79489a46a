// internal/reserve/http_test.go
package reserve

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/eos-network/internal/network"
)

func TestHTTPQuoterGetRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rate", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "res1", q.Get("reserve"))
		assert.Equal(t, "eosio.token", q.Get("eos_token"))
		assert.Equal(t, "EOS", q.Get("src"))
		assert.Equal(t, "USDT", q.Get("dest"))
		assert.Equal(t, "10", q.Get("amount"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rate":2.75}`))
	}))
	defer srv.Close()

	q := NewHTTPQuoter(srv.URL+"/", time.Second, zaptest.NewLogger(t))
	rate, err := q.GetRate(context.Background(), buyQuery("res1"))

	require.NoError(t, err)
	assert.Equal(t, 2.75, rate)
}

func TestHTTPQuoterRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	q := NewHTTPQuoter(srv.URL, time.Second, zaptest.NewLogger(t))
	_, err := q.GetRate(context.Background(), buyQuery("res1"))
	assert.ErrorIs(t, err, ErrQuoteRejected)
}

func TestHTTPQuoterFractionalAmount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0.125", r.URL.Query().Get("amount"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rate":0}`))
	}))
	defer srv.Close()

	q := NewHTTPQuoter(srv.URL, time.Second, zaptest.NewLogger(t))
	rate, err := q.GetRate(context.Background(), network.RateQuery{ReserveAccount: "res1", SrcSymbol: "USDT", DestSymbol: "EOS", SrcAmount: 0.125})
	require.NoError(t, err)
	assert.Equal(t, 0.0, rate)
}
