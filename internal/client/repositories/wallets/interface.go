package wallets

import (
	"context"

	"github.com/dmitrijs2005/zviewer/internal/client/models"
)

// Repository stores imported wallets.
type Repository interface {
	Create(ctx context.Context, w *models.Wallet) error
	// GetByID and GetByName return common.ErrorNotFound for unknown wallets.
	GetByID(ctx context.Context, id string) (*models.Wallet, error)
	GetByName(ctx context.Context, name string) (*models.Wallet, error)
	// List returns wallets ordered by creation time.
	List(ctx context.Context) ([]models.Wallet, error)
	Delete(ctx context.Context, id string) error
}
