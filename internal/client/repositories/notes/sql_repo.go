// Package notes stores the reconciled notes of every wallet.
package notes

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/zviewer/internal/dbx"
	"github.com/dmitrijs2005/zviewer/internal/memo"
	"github.com/dmitrijs2005/zviewer/internal/models"
)

const noteColumns = `id, wallet_id, txid, output_index, pool, value, commitment, nullifier, memo, message, address, decrypted, spent_txid, spent_at_height, created_at`

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullHeight(h *uint32) sql.NullInt64 {
	if h == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*h), Valid: true}
}

// nullMessage stores a memo header as JSON.
func nullMessage(m *memo.Message) (sql.NullString, error) {
	if m == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode message: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func (r *SQLRepository) Upsert(ctx context.Context, n models.StoredNote) error {
	query := `
		INSERT INTO notes (` + noteColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			value = excluded.value,
			nullifier = excluded.nullifier,
			memo = excluded.memo,
			message = excluded.message,
			address = excluded.address,
			decrypted = excluded.decrypted,
			spent_txid = excluded.spent_txid,
			spent_at_height = excluded.spent_at_height`

	msg, err := nullMessage(n.Message)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, r.dialect.Rebind(query),
		n.ID, n.WalletID, n.TxID, n.OutputIndex, string(n.Pool), int64(n.Value),
		n.Commitment, n.Nullifier, nullString(n.Memo), msg, nullString(n.Address), n.Decrypted,
		nullString(n.SpentTxID), nullHeight(n.SpentAtHeight), n.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) ListByWallet(ctx context.Context, walletID string) ([]models.StoredNote, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE wallet_id = ? ORDER BY created_at, txid, pool, output_index`

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), walletID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.StoredNote
	for rows.Next() {
		var (
			n               models.StoredNote
			pool            string
			value, created  int64
			text, msg, addr sql.NullString
			spentTxID       sql.NullString
			spentAt         sql.NullInt64
		)
		err := rows.Scan(&n.ID, &n.WalletID, &n.TxID, &n.OutputIndex, &pool, &value,
			&n.Commitment, &n.Nullifier, &text, &msg, &addr, &n.Decrypted, &spentTxID, &spentAt, &created)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		n.Pool = models.Pool(pool)
		n.Value = uint64(value)
		n.Memo = fromNull(text)
		if msg.Valid {
			n.Message = &memo.Message{}
			if err := json.Unmarshal([]byte(msg.String), n.Message); err != nil {
				return nil, fmt.Errorf("decode message of note %s: %w", n.ID, err)
			}
		}
		n.Address = fromNull(addr)
		n.SpentTxID = fromNull(spentTxID)
		if spentAt.Valid {
			h := uint32(spentAt.Int64)
			n.SpentAtHeight = &h
		}
		n.CreatedAt = time.Unix(0, created).UTC()
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func fromNull(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func (r *SQLRepository) DeleteByWallet(ctx context.Context, walletID string) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM notes WHERE wallet_id = ?`), walletID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
