// Package scanner finds the notes of a viewing key in a decoded transaction
// and extracts the public spend evidence it carries.
//
// Shielded pools are driven by a strategy table: each pool knows how to list
// its output items and its spent nullifiers. Trial decryption is pluggable
// per pool through a DecryptorFactory; without one, every shielded output of
// a visible pool is reported as a placeholder carrying only its commitment.
package scanner

import (
	"bytes"
	"encoding/hex"
	"unicode/utf8"

	"github.com/dmitrijs2005/zviewer/internal/memo"
	"github.com/dmitrijs2005/zviewer/internal/models"
	"github.com/dmitrijs2005/zviewer/internal/txdecode"
	"github.com/dmitrijs2005/zviewer/internal/viewkey"
)

type Scanner struct {
	decryptors map[models.Pool]DecryptorFactory
}

type Option func(*Scanner)

// WithDecryptor registers trial decryption for a shielded pool.
func WithDecryptor(pool models.Pool, f DecryptorFactory) Option {
	return func(s *Scanner) {
		s.decryptors[pool] = f
	}
}

func New(opts ...Option) *Scanner {
	s := &Scanner{decryptors: make(map[models.Pool]DecryptorFactory)}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Scan reports the notes visible to key and all spend evidence of tx.
// height is forwarded to decryptor factories. A well-formed transaction never
// fails mid-scan.
func (s *Scanner) Scan(tx *txdecode.Transaction, key *viewkey.Key, height *uint32) (*models.ScanResult, error) {
	res := &models.ScanResult{TxID: tx.TxID()}
	capability := key.Capability

	for _, in := range tx.TxIn {
		if txdecode.IsCoinbase(in) {
			continue
		}
		res.TransparentSpends = append(res.TransparentSpends, models.TransparentSpend{
			PrevTxID:  in.PreviousOutPoint.Hash.String(),
			PrevIndex: in.PreviousOutPoint.Index,
		})
	}

	if capability.Transparent {
		for i, out := range tx.TxOut {
			value := uint64(out.Value)
			pt := &models.NotePlaintext{Value: value}
			if addr, ok := TransparentAddress(out.PkScript, capability.Network); ok {
				pt.Address = &addr
			}
			res.Notes = append(res.Notes, models.ScannedNote{
				OutputIndex: i,
				Pool:        models.PoolTransparent,
				Plaintext:   pt,
			})
			res.TransparentReceived += value
		}
	}

	for _, st := range strategies {
		res.SpentNullifiers = append(res.SpentNullifiers, st.spends(tx)...)

		if !capability.CanView(st.pool) {
			continue
		}

		var dec Decryptor
		if f, ok := s.decryptors[st.pool]; ok {
			dec = f(key, height)
		}
		for _, item := range st.items(tx) {
			res.Notes = append(res.Notes, scanItem(item, dec))
		}
	}

	return res, nil
}

func scanItem(item Item, dec Decryptor) models.ScannedNote {
	note := models.ScannedNote{
		OutputIndex: item.Index,
		Pool:        item.Pool,
		Commitment:  hex.EncodeToString(item.Commitment[:]),
	}
	if dec == nil {
		return note
	}

	d, ok := dec.TryDecrypt(item)
	if !ok {
		return note
	}

	pt := &models.NotePlaintext{Value: d.Value}
	if d.Address != "" {
		addr := d.Address
		pt.Address = &addr
	}
	pt.Memo, pt.Message = readMemo(d.Memo)
	if nf, err := dec.Nullifier(item, d); err == nil && nf != "" {
		pt.Nullifier = &nf
	}
	note.Plaintext = pt
	return note
}

// readMemo keeps the memo only when it is text. A memo carrying a protocol
// message is replaced by the message content.
func readMemo(raw []byte) (*string, *memo.Message) {
	if m, err := memo.Decode(raw); err == nil {
		content := m.Content
		return &content, m
	}

	trimmed := bytes.TrimRight(raw, "\x00")
	if len(trimmed) == 0 || !utf8.Valid(trimmed) {
		return nil, nil
	}
	text := string(trimmed)
	return &text, nil
}
