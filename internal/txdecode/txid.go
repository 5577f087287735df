package txdecode

import (
	"bytes"
	"encoding/binary"
	"hash"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	blake2b "github.com/minio/blake2b-simd"
)

// ZIP-244 personalizations.
const (
	personHeaders     = "ZTxIdHeadersHash"
	personTransparent = "ZTxIdTranspaHash"
	personPrevouts    = "ZTxIdPrevoutHash"
	personSequence    = "ZTxIdSequencHash"
	personOutputs     = "ZTxIdOutputsHash"
	personSapling     = "ZTxIdSaplingHash"
	personSSpends     = "ZTxIdSSpendsHash"
	personSSpendsC    = "ZTxIdSSpendCHash"
	personSSpendsN    = "ZTxIdSSpendNHash"
	personSOutputs    = "ZTxIdSOutputHash"
	personSOutputsC   = "ZTxIdSOutC__Hash"
	personSOutputsM   = "ZTxIdSOutM__Hash"
	personSOutputsN   = "ZTxIdSOutN__Hash"
	personOrchard     = "ZTxIdOrchardHash"
	personOrchardC    = "ZTxIdOrcActCHash"
	personOrchardM    = "ZTxIdOrcActMHash"
	personOrchardN    = "ZTxIdOrcActNHash"
	personTxHash      = "ZcashTxHash_"
)

func newHash(person []byte) hash.Hash {
	h, err := blake2b.New(&blake2b.Config{Size: 32, Person: person})
	if err != nil {
		// only reachable with a personalization longer than 16 bytes
		panic(err)
	}
	return h
}

func digest(person string, parts ...[]byte) []byte {
	h := newHash([]byte(person))
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

func le32(v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return b[:]
}

func le64(v int64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	return b[:]
}

// txidDigest computes the non-malleable v5 txid of ZIP-244.
func txidDigest(tx *Transaction, header uint32) chainhash.Hash {
	person := append([]byte(personTxHash), le32(tx.BranchID)...)

	h := newHash(person)
	h.Write(headerDigest(tx, header))
	h.Write(transparentDigest(tx))
	h.Write(saplingDigest(&tx.Sapling))
	h.Write(orchardDigest(&tx.Orchard))

	var out chainhash.Hash
	copy(out[:], h.Sum(nil))
	return out
}

func headerDigest(tx *Transaction, header uint32) []byte {
	return digest(personHeaders,
		le32(header),
		le32(tx.VersionGroupID),
		le32(tx.BranchID),
		le32(tx.LockTime),
		le32(tx.ExpiryHeight),
	)
}

func transparentDigest(tx *Transaction) []byte {
	if len(tx.TxIn) == 0 && len(tx.TxOut) == 0 {
		return digest(personTransparent)
	}

	prevouts := newHash([]byte(personPrevouts))
	sequence := newHash([]byte(personSequence))
	for _, in := range tx.TxIn {
		prevouts.Write(in.PreviousOutPoint.Hash[:])
		prevouts.Write(le32(in.PreviousOutPoint.Index))
		sequence.Write(le32(in.Sequence))
	}

	outputs := newHash([]byte(personOutputs))
	var buf bytes.Buffer
	for _, out := range tx.TxOut {
		buf.Reset()
		buf.Write(le64(out.Value))
		_ = wire.WriteVarBytes(&buf, 0, out.PkScript)
		outputs.Write(buf.Bytes())
	}

	return digest(personTransparent, prevouts.Sum(nil), sequence.Sum(nil), outputs.Sum(nil))
}

func saplingDigest(b *SaplingBundle) []byte {
	if b.Empty() {
		return digest(personSapling)
	}
	return digest(personSapling, saplingSpendsDigest(b), saplingOutputsDigest(b), le64(b.ValueBalance))
}

func saplingSpendsDigest(b *SaplingBundle) []byte {
	if len(b.Spends) == 0 {
		return digest(personSSpends)
	}
	compact := newHash([]byte(personSSpendsC))
	noncompact := newHash([]byte(personSSpendsN))
	for i := range b.Spends {
		s := &b.Spends[i]
		compact.Write(s.Nullifier[:])
		noncompact.Write(s.CV[:])
		noncompact.Write(s.Anchor[:])
		noncompact.Write(s.RK[:])
	}
	return digest(personSSpends, compact.Sum(nil), noncompact.Sum(nil))
}

func saplingOutputsDigest(b *SaplingBundle) []byte {
	if len(b.Outputs) == 0 {
		return digest(personSOutputs)
	}
	compact := newHash([]byte(personSOutputsC))
	memos := newHash([]byte(personSOutputsM))
	noncompact := newHash([]byte(personSOutputsN))
	for i := range b.Outputs {
		o := &b.Outputs[i]
		compact.Write(o.CMU[:])
		compact.Write(o.EphemeralKey[:])
		compact.Write(o.EncCiphertext[:compactNoteSize])
		memos.Write(o.EncCiphertext[compactNoteSize:memoEnd])
		noncompact.Write(o.CV[:])
		noncompact.Write(o.EncCiphertext[memoEnd:])
		noncompact.Write(o.OutCiphertext[:])
	}
	return digest(personSOutputs, compact.Sum(nil), memos.Sum(nil), noncompact.Sum(nil))
}

func orchardDigest(b *OrchardBundle) []byte {
	if b.Empty() {
		return digest(personOrchard)
	}
	compact := newHash([]byte(personOrchardC))
	memos := newHash([]byte(personOrchardM))
	noncompact := newHash([]byte(personOrchardN))
	for i := range b.Actions {
		a := &b.Actions[i]
		compact.Write(a.Nullifier[:])
		compact.Write(a.CMX[:])
		compact.Write(a.EphemeralKey[:])
		compact.Write(a.EncCiphertext[:compactNoteSize])
		memos.Write(a.EncCiphertext[compactNoteSize:memoEnd])
		noncompact.Write(a.CV[:])
		noncompact.Write(a.RK[:])
		noncompact.Write(a.EncCiphertext[memoEnd:])
		noncompact.Write(a.OutCiphertext[:])
	}
	return digest(personOrchard,
		compact.Sum(nil), memos.Sum(nil), noncompact.Sum(nil),
		[]byte{b.Flags}, le64(b.ValueBalance), b.Anchor[:])
}
