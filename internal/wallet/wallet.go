// internal/wallet/wallet.go
package wallet

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/eoscanada/eos-go/ecc"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Account is a chain account with the key that signs for its active permission.
type Account struct {
	Name       string
	PrivateKey string
	PublicKey  string
}

// keysFile represents the structure of the keys YAML file
type keysFile struct {
	Accounts []struct {
		Name       string `yaml:"name"`
		PrivateKey string `yaml:"private_key"`
	} `yaml:"accounts"`
}

// Keyring holds the accounts loaded from a keys file.
type Keyring struct {
	accounts map[string]Account
}

// NewAccount проверяет WIF-ключ и создаёт аккаунт.
func NewAccount(name, wif string) (Account, error) {
	priv, err := ecc.NewPrivateKey(wif)
	if err != nil {
		return Account{}, fmt.Errorf("invalid private key for %s: %w", name, err)
	}
	return Account{
		Name:       name,
		PrivateKey: wif,
		PublicKey:  priv.PublicKey().String(),
	}, nil
}

// LoadKeyring загружает аккаунты из YAML-файла.
// Entries without a name or with an invalid key are skipped with a warning
// naming the entry and the reason.
func LoadKeyring(path string, logger *zap.Logger) (*Keyring, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var file keysFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(file.Accounts) == 0 {
		return nil, fmt.Errorf("no accounts found in %s", path)
	}

	accounts := make(map[string]Account)
	var skipped []string
	for i, entry := range file.Accounts {
		if entry.Name == "" || entry.PrivateKey == "" {
			logger.Warn("Skipping incomplete key entry", zap.Int("index", i), zap.String("name", entry.Name))
			skipped = append(skipped, fmt.Sprintf("#%d %q: name and private_key are required", i, entry.Name))
			continue
		}
		acc, err := NewAccount(entry.Name, entry.PrivateKey)
		if err != nil {
			logger.Warn("Skipping key entry", zap.String("name", entry.Name), zap.Error(err))
			skipped = append(skipped, fmt.Sprintf("%q: %v", entry.Name, err))
			continue
		}
		accounts[entry.Name] = acc
	}

	if len(accounts) == 0 {
		return nil, fmt.Errorf("no valid accounts loaded from %s: %s", path, strings.Join(skipped, "; "))
	}
	return &Keyring{accounts: accounts}, nil
}

// Account returns the named account.
func (k *Keyring) Account(name string) (Account, bool) {
	acc, ok := k.accounts[name]
	return acc, ok
}

// PrivateKeys returns every loaded key, ordered by account name.
func (k *Keyring) PrivateKeys() []string {
	names := make([]string, 0, len(k.accounts))
	for name := range k.accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, k.accounts[name].PrivateKey)
	}
	return keys
}
