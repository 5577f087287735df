// Package ledger stores the per-transaction history of every wallet. Note id
// lists are kept as JSON arrays.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/zviewer/internal/common"
	"github.com/dmitrijs2005/zviewer/internal/dbx"
	"github.com/dmitrijs2005/zviewer/internal/models"
)

const entryColumns = `wallet_id, txid, received_ids, spent_ids, net_change, height, ts`

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func encodeIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	return string(b), err
}

func (r *SQLRepository) Put(ctx context.Context, e models.LedgerEntry) error {
	received, err := encodeIDs(e.ReceivedNoteIDs)
	if err != nil {
		return err
	}
	spent, err := encodeIDs(e.SpentNoteIDs)
	if err != nil {
		return err
	}

	var height sql.NullInt64
	if e.Height != nil {
		height = sql.NullInt64{Int64: int64(*e.Height), Valid: true}
	}

	query := `
		INSERT INTO ledger_entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(wallet_id, txid) DO UPDATE SET
			received_ids = excluded.received_ids,
			spent_ids = excluded.spent_ids,
			net_change = excluded.net_change,
			height = excluded.height,
			ts = excluded.ts`

	_, err = r.db.ExecContext(ctx, r.dialect.Rebind(query),
		e.WalletID, e.TxID, received, spent, e.NetChange, height, e.Timestamp.UnixNano())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.LedgerEntry, error) {
	var (
		e               models.LedgerEntry
		received, spent string
		height          sql.NullInt64
		ts              int64
	)
	if err := row.Scan(&e.WalletID, &e.TxID, &received, &spent, &e.NetChange, &height, &ts); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(received), &e.ReceivedNoteIDs); err != nil {
		return nil, fmt.Errorf("received ids of %s: %w", e.TxID, err)
	}
	if err := json.Unmarshal([]byte(spent), &e.SpentNoteIDs); err != nil {
		return nil, fmt.Errorf("spent ids of %s: %w", e.TxID, err)
	}
	if height.Valid {
		h := uint32(height.Int64)
		e.Height = &h
	}
	e.Timestamp = time.Unix(0, ts).UTC()
	return &e, nil
}

func (r *SQLRepository) Get(ctx context.Context, walletID, txid string) (*models.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE wallet_id = ? AND txid = ?`

	e, err := scanEntry(r.db.QueryRowContext(ctx, r.dialect.Rebind(query), walletID, txid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

// ListByWallet returns entries in storage order; callers sort chronologically.
func (r *SQLRepository) ListByWallet(ctx context.Context, walletID string) ([]models.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE wallet_id = ?`

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), walletID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) DeleteByWallet(ctx context.Context, walletID string) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM ledger_entries WHERE wallet_id = ?`), walletID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
