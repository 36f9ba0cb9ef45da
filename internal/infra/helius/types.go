package helius

import "pnl-research/internal/domain"

// lamportsPerSol converts native balance changes to SOL.
const lamportsPerSol = 1_000_000_000

// AccountData carries the native balance change for one account in a
// transaction.
type AccountData struct {
	Account             string `json:"account"`
	NativeBalanceChange int64  `json:"nativeBalanceChange"` // lamports
}

// Transaction is one enhanced transaction for a wallet.
type Transaction struct {
	Signature      string                 `json:"signature"`
	Timestamp      int64                  `json:"timestamp"` // epoch seconds
	Type           string                 `json:"type"`
	TokenTransfers []domain.TokenTransfer `json:"tokenTransfers"`
	AccountData    []AccountData          `json:"accountData"`
}

// SolDelta returns the wallet's SOL balance change in this transaction,
// positive when the wallet received SOL.
func (t Transaction) SolDelta(wallet string) float64 {
	for _, acc := range t.AccountData {
		if acc.Account == wallet {
			return float64(acc.NativeBalanceChange) / lamportsPerSol
		}
	}
	return 0
}
