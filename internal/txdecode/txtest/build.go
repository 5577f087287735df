// Package txtest serializes transactions for tests. Proofs and signatures
// are written as zero bytes of the right length, so the output parses but
// would never validate on chain.
package txtest

import (
	"bytes"
	"encoding/binary"

	"github.com/btcsuite/btcd/wire"
	"github.com/dmitrijs2005/zviewer/internal/txdecode"
)

const (
	proofSize      = 192
	signatureSize  = 64
	joinSplitSize  = 1698
	orchardProofSz = 10
)

type builder struct {
	buf bytes.Buffer
}

func (b *builder) u8(v byte)         { b.buf.WriteByte(v) }
func (b *builder) u32(v uint32)      { _ = binary.Write(&b.buf, binary.LittleEndian, v) }
func (b *builder) i64(v int64)       { _ = binary.Write(&b.buf, binary.LittleEndian, v) }
func (b *builder) raw(p []byte)      { b.buf.Write(p) }
func (b *builder) zeros(n int)       { b.buf.Write(make([]byte, n)) }
func (b *builder) varInt(v uint64)   { _ = wire.WriteVarInt(&b.buf, 0, v) }
func (b *builder) varBytes(p []byte) { _ = wire.WriteVarBytes(&b.buf, 0, p) }

func (b *builder) transparent(tx *txdecode.Transaction) {
	b.varInt(uint64(len(tx.TxIn)))
	for _, in := range tx.TxIn {
		b.raw(in.PreviousOutPoint.Hash[:])
		b.u32(in.PreviousOutPoint.Index)
		b.varBytes(in.SignatureScript)
		b.u32(in.Sequence)
	}
	b.varInt(uint64(len(tx.TxOut)))
	for _, out := range tx.TxOut {
		b.i64(out.Value)
		b.varBytes(out.PkScript)
	}
}

func (b *builder) saplingOutput(o *txdecode.SaplingOutput) {
	b.raw(o.CV[:])
	b.raw(o.CMU[:])
	b.raw(o.EphemeralKey[:])
	b.raw(o.EncCiphertext[:])
	b.raw(o.OutCiphertext[:])
}

// V4 serializes tx in the Sapling (v4) layout.
func V4(tx *txdecode.Transaction) []byte {
	var b builder
	b.u32(1<<31 | 4)
	b.u32(0x892F2085)
	b.transparent(tx)
	b.u32(tx.LockTime)
	b.u32(tx.ExpiryHeight)
	b.i64(tx.Sapling.ValueBalance)

	b.varInt(uint64(len(tx.Sapling.Spends)))
	for _, s := range tx.Sapling.Spends {
		b.raw(s.CV[:])
		b.raw(s.Anchor[:])
		b.raw(s.Nullifier[:])
		b.raw(s.RK[:])
		b.zeros(proofSize + signatureSize)
	}
	b.varInt(uint64(len(tx.Sapling.Outputs)))
	for i := range tx.Sapling.Outputs {
		b.saplingOutput(&tx.Sapling.Outputs[i])
		b.zeros(proofSize)
	}
	b.varInt(uint64(tx.JoinSplits))
	b.zeros(tx.JoinSplits * joinSplitSize)
	if tx.JoinSplits > 0 {
		b.zeros(32 + signatureSize)
	}
	if !tx.Sapling.Empty() {
		b.zeros(signatureSize)
	}
	return b.buf.Bytes()
}

// V5 serializes tx in the NU5 (v5) layout with the given branch id.
func V5(tx *txdecode.Transaction, branchID uint32) []byte {
	var b builder
	b.u32(1<<31 | 5)
	b.u32(0x26A7270A)
	b.u32(branchID)
	b.u32(tx.LockTime)
	b.u32(tx.ExpiryHeight)
	b.transparent(tx)

	s := &tx.Sapling
	b.varInt(uint64(len(s.Spends)))
	for _, sp := range s.Spends {
		b.raw(sp.CV[:])
		b.raw(sp.Nullifier[:])
		b.raw(sp.RK[:])
	}
	b.varInt(uint64(len(s.Outputs)))
	for i := range s.Outputs {
		b.saplingOutput(&s.Outputs[i])
	}
	if !s.Empty() {
		b.i64(s.ValueBalance)
	}
	if len(s.Spends) > 0 {
		b.raw(s.Anchor[:])
	}
	b.zeros(len(s.Spends) * (proofSize + signatureSize))
	b.zeros(len(s.Outputs) * proofSize)
	if !s.Empty() {
		b.zeros(signatureSize)
	}

	o := &tx.Orchard
	b.varInt(uint64(len(o.Actions)))
	for _, a := range o.Actions {
		b.raw(a.CV[:])
		b.raw(a.Nullifier[:])
		b.raw(a.RK[:])
		b.raw(a.CMX[:])
		b.raw(a.EphemeralKey[:])
		b.raw(a.EncCiphertext[:])
		b.raw(a.OutCiphertext[:])
	}
	if len(o.Actions) > 0 {
		b.u8(o.Flags)
		b.i64(o.ValueBalance)
		b.raw(o.Anchor[:])
		b.varInt(orchardProofSz)
		b.zeros(orchardProofSz)
		b.zeros(len(o.Actions) * signatureSize)
		b.zeros(signatureSize)
	}
	return b.buf.Bytes()
}

// Filled returns a 32-byte array with every byte set to v.
func Filled(v byte) (h [32]byte) {
	for i := range h {
		h[i] = v
	}
	return h
}

// P2PKH returns a standard pay-to-pubkey-hash script for a 20-byte hash.
func P2PKH(hash160 [20]byte) []byte {
	s := []byte{0x76, 0xa9, 0x14}
	s = append(s, hash160[:]...)
	return append(s, 0x88, 0xac)
}
