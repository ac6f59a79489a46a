package wallet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Well-known development key of a local nodeos.
const devKey = "5KQwrPbwdL6PhXujxW37FSSQZ1JiwsST4cqQzDeyXtP79zkvFD3"

func writeKeys(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keys.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadKeyring(t *testing.T) {
	path := writeKeys(t, `
accounts:
  - name: bob
    private_key: `+devKey+`
  - name: alice
    private_key: `+devKey+`
  - name: broken
    private_key: not-a-key
  - name: ""
    private_key: `+devKey+`
`)

	core, logs := observer.New(zapcore.WarnLevel)
	ring, err := LoadKeyring(path, zap.New(core))
	require.NoError(t, err)

	skipped := logs.FilterMessage("Skipping key entry").All()
	require.Len(t, skipped, 1)
	assert.Equal(t, "broken", skipped[0].ContextMap()["name"])
	assert.Equal(t, 1, logs.FilterMessage("Skipping incomplete key entry").Len())

	alice, ok := ring.Account("alice")
	require.True(t, ok)
	assert.Equal(t, devKey, alice.PrivateKey)
	assert.NotEmpty(t, alice.PublicKey)

	_, ok = ring.Account("broken")
	assert.False(t, ok)

	assert.Equal(t, []string{devKey, devKey}, ring.PrivateKeys())
}

func TestLoadKeyringErrors(t *testing.T) {
	_, err := LoadKeyring(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)

	_, err = LoadKeyring(writeKeys(t, "accounts: []\n"), nil)
	assert.Error(t, err)

	_, err = LoadKeyring(writeKeys(t, "accounts:\n  - name: alice\n    private_key: junk\n"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"alice"`)

	_, err = LoadKeyring(writeKeys(t, "accounts: [\n"), nil)
	assert.Error(t, err)
}

func TestNewAccount(t *testing.T) {
	acc, err := NewAccount("alice", devKey)
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.Name)
	assert.Contains(t, []string{"EOS", "PUB"}, acc.PublicKey[:3])

	_, err = NewAccount("alice", "5Kbad")
	assert.Error(t, err)
}
