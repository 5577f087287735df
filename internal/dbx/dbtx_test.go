package dbx_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/zviewer/internal/client/repositories/repomanager"
	"github.com/dmitrijs2005/zviewer/internal/client/repositories/repotest"
	"github.com/dmitrijs2005/zviewer/internal/dbx"
	"github.com/dmitrijs2005/zviewer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const walletID = "w1"

var (
	repos = repomanager.NewSQLRepositoryManager(dbx.SQLite)
	at    = time.Unix(1_740_000_000, 0).UTC()
)

func openStore(t *testing.T) *sql.DB {
	t.Helper()
	db := repotest.OpenSQLite(t)
	_, err := db.Exec(`INSERT INTO wallets (id, name, network, key_kind, cap_sapling, cap_orchard, cap_transparent, sealed_key, key_nonce, created_at)
		VALUES (?, 'main', 'testnet', 'ufvk', 1, 1, 1, x'00', x'00', 0)`, walletID)
	require.NoError(t, err)
	return db
}

func received(txid string) (models.StoredNote, models.LedgerEntry) {
	n := models.StoredNote{
		ID:       models.NoteID(walletID, txid, models.PoolTransparent, 0),
		WalletID: walletID, TxID: txid, Pool: models.PoolTransparent,
		Value: 50_000, Decrypted: true, CreatedAt: at,
	}
	e := models.LedgerEntry{
		WalletID: walletID, TxID: txid, ReceivedNoteIDs: []string{n.ID},
		NetChange: 50_000, Timestamp: at,
	}
	return n, e
}

// record writes the note and its ledger entry through repositories bound to tx.
func record(ctx context.Context, tx dbx.DBTX, txid string) error {
	n, e := received(txid)
	if err := repos.Notes(tx).Upsert(ctx, n); err != nil {
		return err
	}
	return repos.Ledger(tx).Put(ctx, e)
}

func stored(t *testing.T, db *sql.DB) (int, int) {
	t.Helper()
	notes, err := repos.Notes(db).ListByWallet(context.Background(), walletID)
	require.NoError(t, err)
	entries, err := repos.Ledger(db).ListByWallet(context.Background(), walletID)
	require.NoError(t, err)
	return len(notes), len(entries)
}

func TestWithTx_CommitsNoteAndEntryTogether(t *testing.T) {
	db := openStore(t)

	err := dbx.WithTx(context.Background(), db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return record(ctx, tx, "aa")
	})
	require.NoError(t, err)

	n, e := stored(t, db)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, e)
}

func TestWithTx_RollsBackUpsertOnError(t *testing.T) {
	db := openStore(t)
	boom := errors.New("ledger write refused")

	err := dbx.WithTx(context.Background(), db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, _ := received("bb")
		if err := repos.Notes(tx).Upsert(ctx, n); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, e := stored(t, db)
	assert.Zero(t, n, "note upsert must not survive the failed transaction")
	assert.Zero(t, e)
}

func TestWithTx_KeepsEarlierCommits(t *testing.T) {
	db := openStore(t)
	ctx := context.Background()

	require.NoError(t, dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return record(ctx, tx, "aa")
	}))
	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := record(ctx, tx, "bb"); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	n, e := stored(t, db)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, e)
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	db := openStore(t)

	require.PanicsWithValue(t, "kaput", func() {
		_ = dbx.WithTx(context.Background(), db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			require.NoError(t, record(ctx, tx, "cc"))
			panic("kaput")
		})
	})

	n, e := stored(t, db)
	assert.Zero(t, n)
	assert.Zero(t, e)
}

func TestWithTx_BeginError(t *testing.T) {
	db := openStore(t)
	require.NoError(t, db.Close())

	called := false
	err := dbx.WithTx(context.Background(), db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
}
