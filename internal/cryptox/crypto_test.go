package cryptox

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveMasterKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveMasterKey(password, salt)
	key2 := DeriveMasterKey(password, salt)
	require.True(t, bytes.Equal(key1, key2))
	require.Len(t, key1, KeySize)

	// snapshot of the argon2id parameters in use
	assert.Equal(t, "9290403300158e19f27e48e7087f7383b03065bf5b25ef23ebc40229616cd8b3", hex.EncodeToString(key1))
}

func TestDeriveMasterKey_DifferentSalts(t *testing.T) {
	password := []byte("secret-password")
	assert.NotEqual(t,
		DeriveMasterKey(password, []byte("salt-1")),
		DeriveMasterKey(password, []byte("salt-2")))
}

func TestMakeVerifier(t *testing.T) {
	v := MakeVerifier([]byte("key"))
	assert.Len(t, v, 32)
	assert.Equal(t, v, MakeVerifier([]byte("key")))
	assert.NotEqual(t, v, MakeVerifier([]byte("key2")))
}

func TestSealOpen(t *testing.T) {
	key := bytes.Repeat([]byte{7}, KeySize)
	ad := []byte("wallet-1")

	ct, nonce, err := Seal([]byte("uview1secret"), key, ad)
	require.NoError(t, err)
	assert.NotContains(t, string(ct), "uview1secret")

	pt, err := Open(ct, nonce, key, ad)
	require.NoError(t, err)
	assert.Equal(t, "uview1secret", string(pt))

	t.Run("wrong key", func(t *testing.T) {
		_, err := Open(ct, nonce, bytes.Repeat([]byte{8}, KeySize), ad)
		require.ErrorIs(t, err, ErrOpen)
	})
	t.Run("wrong additional data", func(t *testing.T) {
		_, err := Open(ct, nonce, key, []byte("wallet-2"))
		require.ErrorIs(t, err, ErrOpen)
	})
	t.Run("short nonce", func(t *testing.T) {
		_, err := Open(ct, nonce[:4], key, ad)
		require.ErrorIs(t, err, ErrOpen)
	})
	t.Run("bad key size", func(t *testing.T) {
		_, _, err := Seal([]byte("x"), []byte("short"), nil)
		require.Error(t, err)
	})
}

func TestEncryptDecryptEntry(t *testing.T) {
	type secret struct {
		Key  string `json:"key"`
		Kind string `json:"kind"`
	}
	key := bytes.Repeat([]byte{1}, KeySize)
	in := secret{Key: "zxviews1abc", Kind: "sapling-efvk"}

	ct, nonce, err := EncryptEntry(in, key, []byte("w"))
	require.NoError(t, err)

	var out secret
	require.NoError(t, DecryptEntry(ct, nonce, key, []byte("w"), &out))
	assert.Equal(t, in, out)

	require.Error(t, DecryptEntry(ct, nonce, key, []byte("x"), &out))
}
