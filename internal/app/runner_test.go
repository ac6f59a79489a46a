// internal/app/runner_test.go
package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/eos-network/internal/config"
	"github.com/rovshanmuradov/eos-network/internal/reserve"
	"github.com/rovshanmuradov/eos-network/internal/types"
	"github.com/rovshanmuradov/eos-network/internal/utils/logger"
)

const testChainID = "aca376f206b8fc25a6ed44dbdc66547c36c6c33e3a119ffbeaef943642f0e906"

// fakeNode answers get_info and serves a single-row network state table.
func fakeNode(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/chain/get_info":
			_, _ = w.Write([]byte(`{"server_version":"d1bc8d3","chain_id":"` + testChainID + `","head_block_num":42}`))
		case "/v1/chain/get_table_rows":
			raw, _ := io.ReadAll(r.Body)
			var body map[string]any
			require.NoError(t, json.Unmarshal(raw, &body))
			require.Equal(t, "state", body["table"])
			_, _ = w.Write([]byte(`{"rows":[{"owner":"network","eos_contract":"eosio.token","is_enabled":1}],"more":false}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(nodeURL string) *config.Config {
	return &config.Config{
		NodeURL:          nodeURL,
		NetworkAccount:   "network",
		EOSTokenAccount:  config.DefaultEOSTokenAccount,
		Concurrency:      2,
		RequestTimeoutMS: 2000,
		StartupRetries:   1,
		Slippage:         types.SlippageConfig{Type: types.SlippagePercent, Value: 1},
		Quoter:           config.QuoterConfig{Mode: config.QuoterStored, TimeoutMS: 1000},
		Monitor: config.MonitorConfig{
			IntervalMS: 1000,
			Pairs:      []config.PairConfig{{Src: "EOS", Dest: "USDT", Amount: 1}},
		},
	}
}

func testLogger(t *testing.T) *logger.Logger {
	return &logger.Logger{Logger: zaptest.NewLogger(t)}
}

func TestRunnerInitialize(t *testing.T) {
	srv := fakeNode(t)
	runner := NewRunner(testConfig(srv.URL), testLogger(t))

	require.NoError(t, runner.Initialize(context.Background()))
	require.NotNil(t, runner.Service())
	assert.Nil(t, runner.Keyring())

	enabled, err := runner.Service().GetEnabled(context.Background(), "network")
	require.NoError(t, err)
	assert.True(t, enabled)

	mon, err := runner.NewRateMonitor()
	require.NoError(t, err)
	assert.NotNil(t, mon)
}

func TestRunnerInitializeNodeDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	runner := NewRunner(testConfig(srv.URL), testLogger(t))
	assert.Error(t, runner.Initialize(context.Background()))
	assert.Nil(t, runner.Service())

	_, err := runner.NewRateMonitor()
	assert.Error(t, err)
}

func TestRunnerHTTPQuoter(t *testing.T) {
	srv := fakeNode(t)
	cfg := testConfig(srv.URL)
	cfg.Quoter = config.QuoterConfig{Mode: config.QuoterHTTP, URL: "http://127.0.0.1:1", TimeoutMS: 100}

	runner := NewRunner(cfg, testLogger(t))
	require.NoError(t, runner.Initialize(context.Background()))

	q, err := runner.newQuoter()
	require.NoError(t, err)
	assert.IsType(t, &reserve.HTTPQuoter{}, q)
}

func TestRunnerLoadsKeys(t *testing.T) {
	srv := fakeNode(t)
	keysPath := filepath.Join(t.TempDir(), "keys.yaml")
	require.NoError(t, os.WriteFile(keysPath, []byte(`
accounts:
  - name: alice
    private_key: 5KQwrPbwdL6PhXujxW37FSSQZ1JiwsST4cqQzDeyXtP79zkvFD3
`), 0o600))

	cfg := testConfig(srv.URL)
	cfg.KeysFile = keysPath

	runner := NewRunner(cfg, testLogger(t))
	require.NoError(t, runner.Initialize(context.Background()))
	require.NotNil(t, runner.Keyring())

	_, ok := runner.Keyring().Account("alice")
	assert.True(t, ok)
}
