package services

import (
	"bytes"
	"database/sql"
	"encoding/hex"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/dmitrijs2005/zviewer/internal/client/repositories/repomanager"
	"github.com/dmitrijs2005/zviewer/internal/client/repositories/repotest"
	"github.com/dmitrijs2005/zviewer/internal/dbx"
	"github.com/dmitrijs2005/zviewer/internal/logging"
	"github.com/dmitrijs2005/zviewer/internal/models"
	"github.com/dmitrijs2005/zviewer/internal/scanner"
	"github.com/dmitrijs2005/zviewer/internal/txdecode"
	"github.com/dmitrijs2005/zviewer/internal/txdecode/txtest"
	"github.com/dmitrijs2005/zviewer/internal/viewkey"
	"github.com/stretchr/testify/require"
)

const mine = 0xEE

// fakeDecryptor accepts Orchard actions whose ephemeral key starts with mine.
// The value is the first commitment byte times 1000 and the nullifier is the
// commitment itself.
type fakeDecryptor struct{}

func (fakeDecryptor) TryDecrypt(item scanner.Item) (scanner.DecryptedItem, bool) {
	if item.EphemeralKey[0] != mine {
		return scanner.DecryptedItem{}, false
	}
	return scanner.DecryptedItem{Value: uint64(item.Commitment[0]) * 1000, Address: "utest1me"}, true
}

func (fakeDecryptor) Nullifier(item scanner.Item, _ scanner.DecryptedItem) (string, error) {
	return hex.EncodeToString(item.Commitment[:]), nil
}

func testScanner() *scanner.Scanner {
	return scanner.New(scanner.WithDecryptor(models.PoolOrchard, func(*viewkey.Key, *uint32) scanner.Decryptor {
		return fakeDecryptor{}
	}))
}

// fullKey is a testnet UFVK with transparent, Sapling and Orchard items.
func fullKey(t *testing.T) string {
	t.Helper()
	s, err := viewkey.EncodeUnified(viewkey.KindUnifiedFull, models.NetworkTestnet, []viewkey.Item{
		{Typecode: viewkey.TypeP2PKH, Value: bytes.Repeat([]byte{1}, 65)},
		{Typecode: viewkey.TypeSapling, Value: bytes.Repeat([]byte{2}, 128)},
		{Typecode: viewkey.TypeOrchard, Value: bytes.Repeat([]byte{3}, 96)},
	})
	require.NoError(t, err)
	return s
}

type testEnv struct {
	db      *sql.DB
	repos   repomanager.RepositoryManager
	vault   VaultService
	wallets WalletService
	scans   ScanService
	reports ReportService
	exports ExportService
	master  []byte
	clock   time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := repotest.OpenSQLite(t)
	repos := repomanager.NewSQLRepositoryManager(dbx.SQLite)
	log := logging.Discard()

	e := &testEnv{
		db:    db,
		repos: repos,
		vault: NewVaultService(db, repos),
		clock: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	e.wallets = NewWalletService(db, repos, log)
	sc := NewScanService(db, repos, e.wallets, testScanner(), nil, log)
	sc.(*scanService).now = func() time.Time { return e.clock }
	e.scans = sc
	e.reports = NewReportService(db, repos)
	e.exports = NewExportService(e.reports)

	master, err := e.vault.Unlock(testContext(t), []byte("correct horse"))
	require.NoError(t, err)
	e.master = master
	return e
}

func (e *testEnv) addWallet(t *testing.T, name string) string {
	t.Helper()
	w, err := e.wallets.Add(testContext(t), name, fullKey(t), e.master)
	require.NoError(t, err)
	return w.ID
}

// fundingTx pays 50000 to a transparent address and 7000 to an Orchard note
// the key can decrypt.
func fundingTx() []byte {
	return txtest.V5(&txdecode.Transaction{
		TxOut: []*wire.TxOut{wire.NewTxOut(50_000, txtest.P2PKH([20]byte{9}))},
		Orchard: txdecode.OrchardBundle{Actions: []txdecode.OrchardAction{
			{Nullifier: txtest.Filled(0x51), CMX: txtest.Filled(0x07), EphemeralKey: txtest.Filled(mine)},
		}},
	}, txdecode.NU6.BranchID)
}

// spendingTx spends both outputs of fundingTx and pays to a foreign Orchard
// note.
func spendingTx(t *testing.T, fundingID string) []byte {
	t.Helper()
	prev, err := chainhash.NewHashFromStr(fundingID)
	require.NoError(t, err)
	return txtest.V5(&txdecode.Transaction{
		TxIn: []*wire.TxIn{{PreviousOutPoint: wire.OutPoint{Hash: *prev, Index: 0}}},
		Orchard: txdecode.OrchardBundle{Actions: []txdecode.OrchardAction{
			{Nullifier: txtest.Filled(0x07), CMX: txtest.Filled(0x09), EphemeralKey: txtest.Filled(0x01)},
		}},
	}, txdecode.NU6.BranchID)
}

func txID(t *testing.T, raw []byte) string {
	t.Helper()
	tx, err := txdecode.Decode(raw, models.NetworkTestnet)
	require.NoError(t, err)
	return tx.TxID()
}

func u32(v uint32) *uint32 { return &v }
