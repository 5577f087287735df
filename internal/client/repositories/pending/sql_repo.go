// Package pending stores unmatched spend evidence for later retry.
package pending

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/zviewer/internal/client/models"
	"github.com/dmitrijs2005/zviewer/internal/dbx"
	core "github.com/dmitrijs2005/zviewer/internal/models"
)

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) Add(ctx context.Context, p models.PendingSpend) error {
	var height sql.NullInt64
	if p.Height != nil {
		height = sql.NullInt64{Int64: int64(*p.Height), Valid: true}
	}

	query := `
		INSERT INTO pending_spends (wallet_id, evidence_key, pool, nullifier, prev_txid, prev_index, spending_txid, height, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(wallet_id, evidence_key) DO NOTHING`

	ev := p.Evidence
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(query),
		p.WalletID, ev.Key(), string(ev.Pool), ev.Nullifier, ev.PrevTxID, int64(ev.PrevIndex),
		p.SpendingTxID, height, p.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListByWallet returns pending evidence oldest first.
func (r *SQLRepository) ListByWallet(ctx context.Context, walletID string) ([]models.PendingSpend, error) {
	query := `
		SELECT pool, nullifier, prev_txid, prev_index, spending_txid, height, created_at
		FROM pending_spends WHERE wallet_id = ? ORDER BY created_at, evidence_key`

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), walletID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.PendingSpend
	for rows.Next() {
		var (
			p             models.PendingSpend
			pool          string
			prevIndex, ts int64
			height        sql.NullInt64
		)
		if err := rows.Scan(&pool, &p.Evidence.Nullifier, &p.Evidence.PrevTxID, &prevIndex,
			&p.SpendingTxID, &height, &ts); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		p.WalletID = walletID
		p.Evidence.Pool = core.Pool(pool)
		p.Evidence.PrevIndex = uint32(prevIndex)
		if height.Valid {
			h := uint32(height.Int64)
			p.Height = &h
		}
		p.CreatedAt = time.Unix(0, ts).UTC()
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) Remove(ctx context.Context, walletID, evidenceKey string) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM pending_spends WHERE wallet_id = ? AND evidence_key = ?`), walletID, evidenceKey)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) DeleteByWallet(ctx context.Context, walletID string) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM pending_spends WHERE wallet_id = ?`), walletID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
