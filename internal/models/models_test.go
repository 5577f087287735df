package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePool(t *testing.T) {
	for in, want := range map[string]Pool{
		"transparent": PoolTransparent,
		"Sapling":     PoolSapling,
		" ORCHARD ":   PoolOrchard,
	} {
		got, err := ParsePool(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParsePool("sprout")
	require.Error(t, err)

	assert.False(t, PoolTransparent.Shielded())
	assert.True(t, PoolOrchard.Shielded())
}

func TestParseNetwork(t *testing.T) {
	for in, want := range map[string]Network{
		"mainnet": NetworkMainnet,
		"main":    NetworkMainnet,
		"TestNet": NetworkTestnet,
		"test":    NetworkTestnet,
		"regtest": NetworkRegtest,
	} {
		got, err := ParseNetwork(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseNetwork("signet")
	require.Error(t, err)
}

func TestNoteID(t *testing.T) {
	a := NoteID("w", "tx", PoolOrchard, 1)
	assert.Equal(t, a, NoteID("w", "tx", PoolOrchard, 1))
	assert.NotEqual(t, a, NoteID("w", "tx", PoolOrchard, 2))
	assert.NotEqual(t, a, NoteID("w", "tx", PoolSapling, 1))
	assert.NotEqual(t, a, NoteID("w2", "tx", PoolOrchard, 1))

	u, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), u.Version())
}

func TestCapability(t *testing.T) {
	c := Capability{Orchard: true, Transparent: true}
	assert.Equal(t, []Pool{PoolTransparent, PoolOrchard}, c.Pools())
	assert.False(t, c.CanView(PoolSapling))
	assert.False(t, c.CanView(Pool("sprout")))
}

func TestScannedNote(t *testing.T) {
	ph := ScannedNote{Pool: PoolSapling, Commitment: "cm"}
	assert.True(t, ph.IsPlaceholder())
	assert.Zero(t, ph.Value())
	assert.Empty(t, ph.Nullifier())

	nf := "ab"
	n := ScannedNote{Plaintext: &NotePlaintext{Value: 9, Nullifier: &nf}}
	assert.Equal(t, uint64(9), n.Value())
	assert.Equal(t, "ab", n.Nullifier())
}

func TestSpendEvidenceKey(t *testing.T) {
	assert.Equal(t, "orchard:ff", NullifierEvidence(SpentNullifier{Pool: PoolOrchard, Nullifier: "ff"}).Key())
	assert.Equal(t, "transparent:tx:3", OutpointEvidence(TransparentSpend{PrevTxID: "tx", PrevIndex: 3}).Key())

	r := &ScanResult{
		SpentNullifiers:   []SpentNullifier{{Pool: PoolSapling, Nullifier: "a"}},
		TransparentSpends: []TransparentSpend{{PrevTxID: "t", PrevIndex: 1}},
	}
	ev := r.Evidence()
	require.Len(t, ev, 2)
	assert.Equal(t, PoolSapling, ev[0].Pool)
	assert.Equal(t, PoolTransparent, ev[1].Pool)
}
