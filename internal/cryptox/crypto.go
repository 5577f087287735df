// Package cryptox holds the vault primitives: passphrase stretching, the
// master key verifier and AES-GCM sealing of secrets at rest.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/json"
	"errors"

	"github.com/dmitrijs2005/zviewer/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	KeySize  = 32
	SaltSize = 16
)

var ErrOpen = errors.New("cryptox: message authentication failed")

func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// DeriveMasterKey stretches a passphrase with argon2id.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext under key with a fresh random nonce.
// additional is authenticated but not encrypted; it binds the ciphertext to
// its owner (e.g. a wallet id) so sealed values cannot be swapped.
func Seal(plaintext, key, additional []byte) (ciphertext, nonce []byte, err error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	nonce = common.GenerateRandByteArray(aead.NonceSize())
	return aead.Seal(nil, nonce, plaintext, additional), nonce, nil
}

// Open reverses Seal. A wrong key, nonce or additional data yields ErrOpen.
func Open(ciphertext, nonce, key, additional []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aead.NonceSize() {
		return nil, ErrOpen
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, additional)
	if err != nil {
		return nil, ErrOpen
	}
	return plaintext, nil
}

// EncryptEntry serializes entry to JSON and seals it.
//
//	sealed, nonce, err := cryptox.EncryptEntry(secret, masterKey, []byte(walletID))
func EncryptEntry(entry any, key, additional []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(entry)
	if err != nil {
		return nil, nil, err
	}
	defer common.WipeByteArray(plaintext)
	return Seal(plaintext, key, additional)
}

// DecryptEntry opens ciphertext and unmarshals the JSON into v.
func DecryptEntry(ciphertext, nonce, key, additional []byte, v any) error {
	plaintext, err := Open(ciphertext, nonce, key, additional)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(plaintext)
	return json.Unmarshal(plaintext, v)
}
