// Package services contains application services for the zviewer client.
// This file defines the vault: a local passphrase that unlocks the master key
// under which viewing keys are sealed.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/zviewer/internal/client/repositories/repomanager"
	"github.com/dmitrijs2005/zviewer/internal/common"
	"github.com/dmitrijs2005/zviewer/internal/cryptox"
	"github.com/dmitrijs2005/zviewer/internal/dbx"
)

const (
	metaSalt     = "salt"
	metaVerifier = "verifier"
)

// VaultService guards the master key.
//
// Contract:
//   - Initialized: whether a passphrase has been set.
//   - Unlock: derive the master key; the first call creates the vault.
//   - Reset: forget the passphrase. Sealed keys become unreadable.
type VaultService interface {
	Initialized(ctx context.Context) (bool, error)
	Unlock(ctx context.Context, passphrase []byte) ([]byte, error)
	Reset(ctx context.Context) error
}

type vaultService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewVaultService(db *sql.DB, repos repomanager.RepositoryManager) VaultService {
	return &vaultService{db: db, repos: repos}
}

func (v *vaultService) Initialized(ctx context.Context) (bool, error) {
	_, err := v.repos.Metadata(v.db).Get(ctx, metaSalt)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Unlock derives a master key from passphrase and the stored salt and checks
// it against the stored verifier. On a fresh database a random salt is
// generated and the verifier of the new key is saved. Returns
// common.ErrorUnauthorized for a wrong passphrase.
func (v *vaultService) Unlock(ctx context.Context, passphrase []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("%w: empty passphrase", common.ErrorUnauthorized)
	}

	metadataRepo := v.repos.Metadata(v.db)

	salt, err := metadataRepo.Get(ctx, metaSalt)
	if errors.Is(err, common.ErrorNotFound) {
		return v.create(ctx, passphrase)
	}
	if err != nil {
		return nil, err
	}

	savedVerifier, err := metadataRepo.Get(ctx, metaVerifier)
	if err != nil {
		return nil, fmt.Errorf("vault verifier: %w", err)
	}

	masterKeyCandidate := cryptox.DeriveMasterKey(passphrase, salt)
	verifierCandidate := cryptox.MakeVerifier(masterKeyCandidate)

	if subtle.ConstantTimeCompare(savedVerifier, verifierCandidate) == 0 {
		common.WipeByteArray(masterKeyCandidate)
		return nil, common.ErrorUnauthorized
	}
	return masterKeyCandidate, nil
}

func (v *vaultService) create(ctx context.Context, passphrase []byte) ([]byte, error) {
	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	key := cryptox.DeriveMasterKey(passphrase, salt)
	verifier := cryptox.MakeVerifier(key)

	err := dbx.WithTx(ctx, v.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := v.repos.Metadata(tx)
		if err := repo.Set(ctx, metaSalt, salt); err != nil {
			return err
		}
		return repo.Set(ctx, metaVerifier, verifier)
	})
	if err != nil {
		return nil, fmt.Errorf("vault creation: %w", err)
	}
	return key, nil
}

func (v *vaultService) Reset(ctx context.Context) error {
	return v.repos.Metadata(v.db).Clear(ctx)
}
