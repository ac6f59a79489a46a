// internal/blockchain/types.go
package blockchain

import (
	"context"
)

// TableQuery describes a contract table read.
type TableQuery struct {
	Code  string
	Scope string
	Table string
	// Limit of 0 leaves the node default in place.
	Limit uint32
}

// TransferRequest describes a token transfer action on Contract.
type TransferRequest struct {
	Contract string
	From     string
	To       string
	Quantity string
	Memo     string
	// Authorization holds "actor@permission" entries.
	Authorization []string
}

// Client определяет общий интерфейс для взаимодействия с EOS-совместимым блокчейном.
type Client interface {
	// Получить балансы аккаунта в контракте токена, в виде строк "12.3400 EOS".
	GetCurrencyBalance(ctx context.Context, code, account, symbol string) ([]string, error)
	// Прочитать строки таблицы контракта и декодировать их в out.
	GetTableRows(ctx context.Context, query TableQuery, out any) error
	// Отправить transfer-транзакцию, вернуть ID транзакции.
	Transfer(ctx context.Context, req TransferRequest) (string, error)
}
