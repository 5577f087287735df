package pending

import (
	"context"

	"github.com/dmitrijs2005/zviewer/internal/client/models"
)

// Repository keeps spend evidence that has not matched a note yet.
type Repository interface {
	// Add is a no-op when the same evidence is already pending for the wallet.
	Add(ctx context.Context, p models.PendingSpend) error
	ListByWallet(ctx context.Context, walletID string) ([]models.PendingSpend, error)
	Remove(ctx context.Context, walletID, evidenceKey string) error
	DeleteByWallet(ctx context.Context, walletID string) error
}
