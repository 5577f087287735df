package txdecode_test

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/dmitrijs2005/zviewer/internal/models"
	"github.com/dmitrijs2005/zviewer/internal/txdecode"
	"github.com/dmitrijs2005/zviewer/internal/txdecode/txtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transparentTx() *txdecode.Transaction {
	prev := chainhash.Hash(txtest.Filled(0x11))
	return &txdecode.Transaction{
		LockTime:     0,
		ExpiryHeight: 2_500_000,
		TxIn: []*wire.TxIn{{
			PreviousOutPoint: wire.OutPoint{Hash: prev, Index: 3},
			SignatureScript:  []byte{0x01, 0x02},
			Sequence:         0xFFFFFFFF,
		}},
		TxOut: []*wire.TxOut{
			wire.NewTxOut(150_000, txtest.P2PKH([20]byte{1, 2, 3})),
		},
	}
}

func shieldedTx() *txdecode.Transaction {
	tx := transparentTx()
	tx.Sapling = txdecode.SaplingBundle{
		Spends: []txdecode.SaplingSpend{
			{CV: txtest.Filled(1), Nullifier: txtest.Filled(2), RK: txtest.Filled(3)},
		},
		Outputs: []txdecode.SaplingOutput{
			{CV: txtest.Filled(4), CMU: txtest.Filled(5), EphemeralKey: txtest.Filled(6)},
			{CV: txtest.Filled(7), CMU: txtest.Filled(8), EphemeralKey: txtest.Filled(9)},
		},
		ValueBalance: -10_000,
		Anchor:       txtest.Filled(0xAA),
	}
	tx.Orchard = txdecode.OrchardBundle{
		Actions: []txdecode.OrchardAction{
			{Nullifier: txtest.Filled(0x21), CMX: txtest.Filled(0x22)},
		},
		Flags:        0x03,
		ValueBalance: 5_000,
		Anchor:       txtest.Filled(0xBB),
	}
	return tx
}

func TestDecode_V4Transparent(t *testing.T) {
	raw := txtest.V4(transparentTx())

	tx, err := txdecode.Decode(raw, models.NetworkMainnet)
	require.NoError(t, err)

	assert.Equal(t, uint32(4), tx.Version)
	assert.Equal(t, txdecode.NU6, tx.Epoch, "v4 parses under the newest epoch")
	assert.Equal(t, models.NetworkMainnet, tx.Network)
	require.Len(t, tx.TxIn, 1)
	require.Len(t, tx.TxOut, 1)
	assert.Equal(t, uint32(3), tx.TxIn[0].PreviousOutPoint.Index)
	assert.Equal(t, int64(150_000), tx.TxOut[0].Value)
	assert.Equal(t, uint32(2_500_000), tx.ExpiryHeight)

	assert.Equal(t, chainhash.DoubleHashH(raw).String(), tx.TxID())
}

func TestDecode_V4Sapling(t *testing.T) {
	src := shieldedTx()
	src.Orchard = txdecode.OrchardBundle{}
	src.JoinSplits = 1

	tx, err := txdecode.Decode(txtest.V4(src), models.NetworkTestnet)
	require.NoError(t, err)

	require.Len(t, tx.Sapling.Spends, 1)
	require.Len(t, tx.Sapling.Outputs, 2)
	assert.Equal(t, txtest.Filled(2), tx.Sapling.Spends[0].Nullifier)
	assert.Equal(t, txtest.Filled(8), tx.Sapling.Outputs[1].CMU)
	assert.Equal(t, int64(-10_000), tx.Sapling.ValueBalance)
	assert.Equal(t, 1, tx.JoinSplits)
}

func TestDecode_V5PicksMatchingEpoch(t *testing.T) {
	for _, e := range []txdecode.Epoch{txdecode.NU6, txdecode.NU5} {
		t.Run(e.Name, func(t *testing.T) {
			tx, err := txdecode.Decode(txtest.V5(shieldedTx(), e.BranchID), models.NetworkMainnet)
			require.NoError(t, err)

			assert.Equal(t, uint32(5), tx.Version)
			assert.Equal(t, e, tx.Epoch)
			assert.Equal(t, e.BranchID, tx.BranchID)

			require.Len(t, tx.Sapling.Spends, 1)
			assert.Equal(t, txtest.Filled(0xAA), tx.Sapling.Spends[0].Anchor)
			require.Len(t, tx.Orchard.Actions, 1)
			assert.Equal(t, txtest.Filled(0x22), tx.Orchard.Actions[0].CMX)
			assert.Equal(t, byte(0x03), tx.Orchard.Flags)
			assert.Equal(t, int64(5_000), tx.Orchard.ValueBalance)
		})
	}
}

func TestDecode_V5TxIDIsZIP244(t *testing.T) {
	raw := txtest.V5(shieldedTx(), txdecode.NU5.BranchID)

	a, err := txdecode.Decode(raw, models.NetworkMainnet)
	require.NoError(t, err)
	b, err := txdecode.Decode(raw, models.NetworkMainnet)
	require.NoError(t, err)

	assert.Equal(t, a.TxID(), b.TxID())
	assert.Len(t, a.TxID(), 64)
	assert.NotEqual(t, chainhash.DoubleHashH(raw).String(), a.TxID())

	// effecting data changes the id, the same tx under another branch too
	other := shieldedTx()
	other.Orchard.Actions[0].CMX = txtest.Filled(0x23)
	c, err := txdecode.Decode(txtest.V5(other, txdecode.NU5.BranchID), models.NetworkMainnet)
	require.NoError(t, err)
	assert.NotEqual(t, a.TxID(), c.TxID())

	d, err := txdecode.Decode(txtest.V5(shieldedTx(), txdecode.NU6.BranchID), models.NetworkMainnet)
	require.NoError(t, err)
	assert.NotEqual(t, a.TxID(), d.TxID())
}

func TestDecode_V5TxIDKnownAnswer(t *testing.T) {
	// computed with a separate ZIP-244 implementation over the same fields
	tests := []struct {
		name string
		tx   *txdecode.Transaction
		want string
	}{
		{"transparent only", transparentTx(), "7f0790bad23c88872d464f0faafc43facc0ab34bd860df58b0a49758f06522e2"},
		{"all pools", shieldedTx(), "84a9930b4e08f600bdd3f918625858141eb64dd199a583c5ed40b7aa54644b0a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := txdecode.Decode(txtest.V5(tt.tx, txdecode.NU5.BranchID), models.NetworkMainnet)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tx.TxID())
		})
	}
}

func TestDecode_V5EmptyBundles(t *testing.T) {
	tx, err := txdecode.Decode(txtest.V5(transparentTx(), txdecode.NU5.BranchID), models.NetworkMainnet)
	require.NoError(t, err)
	assert.True(t, tx.Sapling.Empty())
	assert.True(t, tx.Orchard.Empty())
}

func TestDecode_Failures(t *testing.T) {
	good := txtest.V4(transparentTx())

	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"truncated", good[:len(good)-3]},
		{"trailing bytes", append(append([]byte(nil), good...), 0x00)},
		{"not overwintered", []byte{0x04, 0, 0, 0, 0x85, 0x20, 0x2f, 0x89}},
		{"unknown branch", txtest.V5(transparentTx(), 0x12345678)},
		{"v5 under canopy branch", txtest.V5(transparentTx(), txdecode.Canopy.BranchID)},
		{"negative output value", func() []byte {
			tx := transparentTx()
			tx.TxOut[0].Value = -1
			return txtest.V4(tx)
		}()},
		{"output value above max money", func() []byte {
			tx := transparentTx()
			tx.TxOut[0].Value = txdecode.MaxMoney + 1
			return txtest.V5(tx, txdecode.NU5.BranchID)
		}()},
		{"huge count", func() []byte {
			b := append([]byte(nil), good[:8]...)
			return append(b, 0xFE, 0xFF, 0xFF, 0xFF, 0x7F)
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := txdecode.Decode(tt.raw, models.NetworkMainnet)
			require.ErrorIs(t, err, txdecode.ErrDecodeFailure)
		})
	}
}

func TestDecode_MaxMoneyOutput(t *testing.T) {
	src := transparentTx()
	src.TxOut[0].Value = txdecode.MaxMoney

	tx, err := txdecode.Decode(txtest.V4(src), models.NetworkMainnet)
	require.NoError(t, err)
	assert.Equal(t, int64(txdecode.MaxMoney), tx.TxOut[0].Value)
}

func TestDecodeHex(t *testing.T) {
	raw := txtest.V4(transparentTx())

	tx, err := txdecode.DecodeHex("  "+hex.EncodeToString(raw)+"\n", models.NetworkMainnet)
	require.NoError(t, err)
	assert.Equal(t, chainhash.DoubleHashH(raw).String(), tx.TxID())

	_, err = txdecode.DecodeHex("zz", models.NetworkMainnet)
	require.ErrorIs(t, err, txdecode.ErrDecodeFailure)
}

func TestIsCoinbase(t *testing.T) {
	cb := &wire.TxIn{PreviousOutPoint: wire.OutPoint{Index: wire.MaxPrevOutIndex}}
	assert.True(t, txdecode.IsCoinbase(cb))
	assert.False(t, txdecode.IsCoinbase(transparentTx().TxIn[0]))
}
