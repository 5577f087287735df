package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/zviewer/internal/client/models"
	"github.com/dmitrijs2005/zviewer/internal/client/repositories/repomanager"
	"github.com/dmitrijs2005/zviewer/internal/common"
	"github.com/dmitrijs2005/zviewer/internal/cryptox"
	"github.com/dmitrijs2005/zviewer/internal/dbx"
	"github.com/dmitrijs2005/zviewer/internal/logging"
	"github.com/dmitrijs2005/zviewer/internal/viewkey"
	"github.com/google/uuid"
)

// ErrKeyMismatch means the unsealed key no longer matches the wallet row.
var ErrKeyMismatch = errors.New("stored key does not match wallet record")

// WalletService manages imported viewing keys.
type WalletService interface {
	// Add classifies keyString and stores it sealed under masterKey.
	Add(ctx context.Context, name, keyString string, masterKey []byte) (*models.Wallet, error)
	List(ctx context.Context) ([]models.Wallet, error)
	// Find looks a wallet up by id, then by name.
	Find(ctx context.Context, ref string) (*models.Wallet, error)
	// Key unseals and re-classifies the viewing key of w.
	Key(ctx context.Context, w *models.Wallet, masterKey []byte) (*viewkey.Key, error)
	// Remove deletes the wallet together with its notes, ledger and pending
	// spends.
	Remove(ctx context.Context, id string) error
}

type walletService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
	now    func() time.Time
}

func NewWalletService(db *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger) WalletService {
	return &walletService{db: db, repos: repos, logger: logger, now: time.Now}
}

func (s *walletService) Add(ctx context.Context, name, keyString string, masterKey []byte) (*models.Wallet, error) {
	if masterKey == nil {
		return nil, common.ErrorLocked
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("wallet name is empty")
	}

	key, err := viewkey.Classify(keyString)
	if err != nil {
		return nil, err
	}

	repo := s.repos.Wallets(s.db)
	if _, err := repo.GetByName(ctx, name); err == nil {
		return nil, fmt.Errorf("wallet %q: %w", name, common.ErrorAlreadyExists)
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	id := uuid.NewString()
	sealed, nonce, err := cryptox.EncryptEntry(models.KeyEnvelope{Kind: key.Kind.String(), Key: key.Encoded}, masterKey, []byte(id))
	if err != nil {
		return nil, fmt.Errorf("encryption error: %w", err)
	}

	w := &models.Wallet{
		ID:         id,
		Name:       name,
		Network:    key.Capability.Network,
		KeyKind:    key.Kind.String(),
		Capability: key.Capability,
		SealedKey:  sealed,
		KeyNonce:   nonce,
		CreatedAt:  s.now().UTC(),
	}
	if err := repo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}

	s.logger.Info(ctx, "wallet added", "wallet", w.ID, "kind", w.KeyKind, "network", w.Network, "pools", w.Capability.Pools())
	return w, nil
}

func (s *walletService) List(ctx context.Context) ([]models.Wallet, error) {
	return s.repos.Wallets(s.db).List(ctx)
}

func (s *walletService) Find(ctx context.Context, ref string) (*models.Wallet, error) {
	repo := s.repos.Wallets(s.db)
	w, err := repo.GetByID(ctx, ref)
	if errors.Is(err, common.ErrorNotFound) {
		return repo.GetByName(ctx, ref)
	}
	return w, err
}

func (s *walletService) Key(ctx context.Context, w *models.Wallet, masterKey []byte) (*viewkey.Key, error) {
	if masterKey == nil {
		return nil, common.ErrorLocked
	}
	var env models.KeyEnvelope
	if err := cryptox.DecryptEntry(w.SealedKey, w.KeyNonce, masterKey, []byte(w.ID), &env); err != nil {
		return nil, fmt.Errorf("error decrypting key of wallet %s: %w", w.ID, err)
	}
	key, err := viewkey.Classify(env.Key)
	if err != nil {
		return nil, err
	}
	kind, err := viewkey.ParseKind(w.KeyKind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyMismatch, err)
	}
	if key.Kind != kind || key.Capability.Network != w.Network {
		return nil, fmt.Errorf("%w: wallet %s is %s/%s, key is %s/%s",
			ErrKeyMismatch, w.ID, kind, w.Network, key.Kind, key.Capability.Network)
	}
	return key, nil
}

func (s *walletService) Remove(ctx context.Context, id string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Pending(tx).DeleteByWallet(ctx, id); err != nil {
			return err
		}
		if err := s.repos.Ledger(tx).DeleteByWallet(ctx, id); err != nil {
			return err
		}
		if err := s.repos.Notes(tx).DeleteByWallet(ctx, id); err != nil {
			return err
		}
		return s.repos.Wallets(tx).Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("error deleting wallet: %w", err)
	}
	s.logger.Info(ctx, "wallet removed", "wallet", id)
	return nil
}
