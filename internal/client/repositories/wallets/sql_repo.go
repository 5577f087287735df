package wallets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/zviewer/internal/client/models"
	"github.com/dmitrijs2005/zviewer/internal/common"
	"github.com/dmitrijs2005/zviewer/internal/dbx"
	core "github.com/dmitrijs2005/zviewer/internal/models"
)

const walletColumns = `id, name, network, key_kind, cap_sapling, cap_orchard, cap_transparent, sealed_key, key_nonce, created_at`

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) Create(ctx context.Context, w *models.Wallet) error {
	query := `INSERT INTO wallets (` + walletColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(query),
		w.ID, w.Name, string(w.Network), w.KeyKind,
		w.Capability.Sapling, w.Capability.Orchard, w.Capability.Transparent,
		w.SealedKey, w.KeyNonce, w.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWallet(row rowScanner) (*models.Wallet, error) {
	var (
		w       models.Wallet
		network string
		created int64
	)
	err := row.Scan(&w.ID, &w.Name, &network, &w.KeyKind,
		&w.Capability.Sapling, &w.Capability.Orchard, &w.Capability.Transparent,
		&w.SealedKey, &w.KeyNonce, &created)
	if err != nil {
		return nil, err
	}
	w.Network = core.Network(network)
	w.Capability.Network = w.Network
	w.CreatedAt = time.Unix(0, created).UTC()
	return &w, nil
}

func (r *SQLRepository) getOne(ctx context.Context, where string, arg any) (*models.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE ` + where + ` = ?`

	w, err := scanWallet(r.db.QueryRowContext(ctx, r.dialect.Rebind(query), arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return w, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.Wallet, error) {
	return r.getOne(ctx, "id", id)
}

func (r *SQLRepository) GetByName(ctx context.Context, name string) (*models.Wallet, error) {
	return r.getOne(ctx, "name", name)
}

func (r *SQLRepository) List(ctx context.Context) ([]models.Wallet, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+walletColumns+` FROM wallets ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM wallets WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrorNotFound
	}
	return nil
}
