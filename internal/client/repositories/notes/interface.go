package notes

import (
	"context"

	"github.com/dmitrijs2005/zviewer/internal/models"
)

// Repository persists StoredNote records keyed by their deterministic id.
type Repository interface {
	// Upsert inserts the note or overwrites the mutable fields of an existing
	// row with the same id.
	Upsert(ctx context.Context, n models.StoredNote) error
	ListByWallet(ctx context.Context, walletID string) ([]models.StoredNote, error)
	DeleteByWallet(ctx context.Context, walletID string) error
}
