package notes

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/zviewer/internal/memo"
	"github.com/dmitrijs2005/zviewer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// carrying returns one note per memo, received in txid at consecutive outputs.
func carrying(t *testing.T, txid string, memos [][]byte) []models.StoredNote {
	t.Helper()
	out := make([]models.StoredNote, 0, len(memos))
	for i, raw := range memos {
		m, err := memo.Decode(raw)
		require.NoError(t, err)
		sn := decrypted(models.PoolOrchard, i, 1000, "")
		sn.Plaintext.Memo = strp(m.Content)
		sn.Plaintext.Message = m
		out = append(out, NewStoredNote(wallet, txid, sn, now))
	}
	return out
}

func TestMessages_ReassemblesFragments(t *testing.T) {
	long := strings.Repeat("z", memo.MaxPayload*2+10)
	frags, err := memo.EncodeFragments(long, 200, 9)
	require.NoError(t, err)
	require.Len(t, frags, 3)
	text, err := memo.Encode("hello", 100, 1)
	require.NoError(t, err)

	s := Set{}
	// fragments arrive in separate transactions and out of order
	for _, n := range carrying(t, "tx-b", [][]byte{frags[2], frags[0]}) {
		s.AddOrUpdate(n)
	}
	s.AddOrUpdate(carrying(t, "tx-a", [][]byte{text})[0])

	got := s.Messages()
	require.Len(t, got, 2)
	assert.Equal(t, "hello", got[0].Text)
	assert.True(t, got[0].Complete)
	assert.Equal(t, memo.TypeFragment, got[1].Type)
	assert.False(t, got[1].Complete)
	assert.Empty(t, got[1].Text)
	assert.Equal(t, 2, got[1].Have)
	assert.Equal(t, 3, got[1].Total)

	s.AddOrUpdate(carrying(t, "tx-c", [][]byte{frags[1]})[0])
	got = s.Messages()
	require.Len(t, got, 2)
	assert.True(t, got[1].Complete)
	assert.Equal(t, long, got[1].Text)
	assert.Len(t, got[1].NoteIDs, 3)
}

func TestMessages_DuplicateFragmentCountsOnce(t *testing.T) {
	frags, err := memo.EncodeFragments(strings.Repeat("q", memo.MaxPayload+1), 50, 2)
	require.NoError(t, err)
	require.Len(t, frags, 2)

	s := Set{}
	for _, n := range carrying(t, "tx1", [][]byte{frags[0], frags[0]}) {
		s.AddOrUpdate(n)
	}
	got := s.Messages()
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Have)
	assert.False(t, got[0].Complete)
	assert.Len(t, got[0].NoteIDs, 2)

	s.AddOrUpdate(carrying(t, "tx2", [][]byte{frags[1]})[0])
	got = s.Messages()
	require.Len(t, got, 1)
	assert.True(t, got[0].Complete)
}

func TestMessages_IgnoresPlainMemos(t *testing.T) {
	s := Set{}
	sn := decrypted(models.PoolSapling, 0, 10, "nf")
	sn.Plaintext.Memo = strp("just a note")
	s.AddOrUpdate(NewStoredNote(wallet, "tx1", sn, now))

	assert.Empty(t, s.Messages())
}
