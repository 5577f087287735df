package ledger

import (
	"context"

	"github.com/dmitrijs2005/zviewer/internal/models"
)

// Repository persists one LedgerEntry per (wallet, txid).
type Repository interface {
	// Put replaces any entry with the same wallet and txid.
	Put(ctx context.Context, e models.LedgerEntry) error
	Get(ctx context.Context, walletID, txid string) (*models.LedgerEntry, error)
	ListByWallet(ctx context.Context, walletID string) ([]models.LedgerEntry, error)
	DeleteByWallet(ctx context.Context, walletID string) error
}
