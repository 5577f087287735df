// Package txdecode parses raw v4 (Sapling) and v5 (NU5) transactions.
//
// The epoch a transaction was built for is not known up front, so Decode
// tries the supported epochs newest first and keeps the first one that
// parses. A v4 transaction parses under every epoch and is therefore always
// attributed to the newest one.
package txdecode

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/dmitrijs2005/zviewer/internal/models"
)

var ErrDecodeFailure = errors.New("transaction decode failure")

// MaxMoney is the total supply in zatoshi; no single amount may exceed it.
const MaxMoney = 21_000_000 * 100_000_000

const (
	v4SpendSize     = 32 + 32 + 32 + 32 + 192 + 64
	v4OutputSize    = 32 + 32 + 32 + encCiphertextSize + outCiphertextSize + 192
	v4JoinSplitSize = 8 + 8 + 32 + 64 + 64 + 32 + 32 + 64 + 192 + 2*601

	v5SpendSize   = 32 + 32 + 32
	v5OutputSize  = 32 + 32 + 32 + encCiphertextSize + outCiphertextSize
	v5ActionSize  = 32*5 + encCiphertextSize + outCiphertextSize
	txInMinSize   = 32 + 4 + 1 + 4
	txOutMinSize  = 8 + 1
	proofSize     = 192
	signatureSize = 64
)

// Decode parses raw under each supported epoch and returns the first
// success. network is recorded on the result and does not affect parsing.
func Decode(raw []byte, network models.Network) (*Transaction, error) {
	var last error
	for _, e := range Epochs {
		tx, err := decodeAs(raw, e)
		if err == nil {
			tx.Network = network
			return tx, nil
		}
		last = err
	}
	return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, last)
}

// DecodeHex is Decode for hex input; surrounding whitespace is ignored.
func DecodeHex(s string, network models.Network) (*Transaction, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid hex: %w", ErrDecodeFailure, err)
	}
	return Decode(raw, network)
}

func decodeAs(raw []byte, e Epoch) (*Transaction, error) {
	r := newReader(raw)

	header := r.u32()
	if r.err != nil {
		return nil, r.err
	}
	if header&overwinterFlag == 0 {
		return nil, fmt.Errorf("transaction is not overwintered (header 0x%08x)", header)
	}

	tx := &Transaction{Epoch: e, Version: header &^ overwinterFlag}
	tx.VersionGroupID = r.u32()

	switch tx.Version {
	case 4:
		if tx.VersionGroupID != saplingVersionGroupID {
			return nil, fmt.Errorf("unexpected v4 version group id 0x%08x", tx.VersionGroupID)
		}
		tx.BranchID = e.BranchID
		readV4(r, tx)
	case 5:
		if !e.V5 {
			return nil, fmt.Errorf("v5 transactions are not valid under %s", e)
		}
		if tx.VersionGroupID != v5VersionGroupID {
			return nil, fmt.Errorf("unexpected v5 version group id 0x%08x", tx.VersionGroupID)
		}
		tx.BranchID = r.u32()
		if r.err == nil && tx.BranchID != e.BranchID {
			return nil, fmt.Errorf("branch id 0x%08x does not match %s", tx.BranchID, e)
		}
		readV5(r, tx)
	default:
		return nil, fmt.Errorf("unsupported transaction version %d", tx.Version)
	}

	if r.err != nil {
		return nil, r.err
	}
	if n := r.remaining(); n != 0 {
		return nil, fmt.Errorf("%d trailing bytes after transaction", n)
	}

	if tx.Version == 4 {
		tx.hash = chainhash.DoubleHashH(raw)
	} else {
		tx.hash = txidDigest(tx, header)
	}
	return tx, nil
}

func readTransparent(r *reader, tx *Transaction) {
	nIn := r.count("transparent input", txInMinSize)
	tx.TxIn = make([]*wire.TxIn, 0, nIn)
	for i := 0; i < nIn && r.err == nil; i++ {
		in := &wire.TxIn{}
		in.PreviousOutPoint.Hash = r.hash()
		in.PreviousOutPoint.Index = r.u32()
		in.SignatureScript = r.varBytes("scriptSig")
		in.Sequence = r.u32()
		tx.TxIn = append(tx.TxIn, in)
	}

	nOut := r.count("transparent output", txOutMinSize)
	tx.TxOut = make([]*wire.TxOut, 0, nOut)
	for i := 0; i < nOut && r.err == nil; i++ {
		value := r.i64()
		if r.err == nil && (value < 0 || value > MaxMoney) {
			r.fail(fmt.Errorf("transparent output %d value %d out of range", i, value))
		}
		script := r.varBytes("scriptPubKey")
		tx.TxOut = append(tx.TxOut, wire.NewTxOut(value, script))
	}
}

func readV4(r *reader, tx *Transaction) {
	readTransparent(r, tx)
	tx.LockTime = r.u32()
	tx.ExpiryHeight = r.u32()
	tx.Sapling.ValueBalance = r.i64()

	nSpends := r.count("sapling spend", v4SpendSize)
	tx.Sapling.Spends = make([]SaplingSpend, nSpends)
	for i := 0; i < nSpends && r.err == nil; i++ {
		s := &tx.Sapling.Spends[i]
		s.CV = r.hash()
		s.Anchor = r.hash()
		s.Nullifier = r.hash()
		s.RK = r.hash()
		r.skip(proofSize + signatureSize)
	}

	nOutputs := r.count("sapling output", v4OutputSize)
	tx.Sapling.Outputs = make([]SaplingOutput, nOutputs)
	for i := 0; i < nOutputs && r.err == nil; i++ {
		o := &tx.Sapling.Outputs[i]
		readSaplingOutput(r, o)
		r.skip(proofSize)
	}

	tx.JoinSplits = r.count("joinsplit", v4JoinSplitSize)
	r.skip(tx.JoinSplits * v4JoinSplitSize)
	if tx.JoinSplits > 0 {
		r.skip(32 + signatureSize) // joinSplitPubKey, joinSplitSig
	}

	if !tx.Sapling.Empty() {
		r.skip(signatureSize) // bindingSig
	}
}

func readSaplingOutput(r *reader, o *SaplingOutput) {
	o.CV = r.hash()
	o.CMU = r.hash()
	o.EphemeralKey = r.hash()
	r.fill(o.EncCiphertext[:])
	r.fill(o.OutCiphertext[:])
}

func readV5(r *reader, tx *Transaction) {
	tx.LockTime = r.u32()
	tx.ExpiryHeight = r.u32()
	readTransparent(r, tx)

	// Sapling
	nSpends := r.count("sapling spend", v5SpendSize)
	tx.Sapling.Spends = make([]SaplingSpend, nSpends)
	for i := 0; i < nSpends && r.err == nil; i++ {
		s := &tx.Sapling.Spends[i]
		s.CV = r.hash()
		s.Nullifier = r.hash()
		s.RK = r.hash()
	}

	nOutputs := r.count("sapling output", v5OutputSize)
	tx.Sapling.Outputs = make([]SaplingOutput, nOutputs)
	for i := 0; i < nOutputs && r.err == nil; i++ {
		readSaplingOutput(r, &tx.Sapling.Outputs[i])
	}

	if !tx.Sapling.Empty() {
		tx.Sapling.ValueBalance = r.i64()
	}
	if nSpends > 0 {
		tx.Sapling.Anchor = r.hash()
		for i := range tx.Sapling.Spends {
			tx.Sapling.Spends[i].Anchor = tx.Sapling.Anchor
		}
	}
	r.skip(nSpends * (proofSize + signatureSize))
	r.skip(nOutputs * proofSize)
	if !tx.Sapling.Empty() {
		r.skip(signatureSize)
	}

	// Orchard
	nActions := r.count("orchard action", v5ActionSize)
	tx.Orchard.Actions = make([]OrchardAction, nActions)
	for i := 0; i < nActions && r.err == nil; i++ {
		a := &tx.Orchard.Actions[i]
		a.CV = r.hash()
		a.Nullifier = r.hash()
		a.RK = r.hash()
		a.CMX = r.hash()
		a.EphemeralKey = r.hash()
		r.fill(a.EncCiphertext[:])
		r.fill(a.OutCiphertext[:])
	}

	if nActions > 0 {
		tx.Orchard.Flags = r.u8()
		tx.Orchard.ValueBalance = r.i64()
		tx.Orchard.Anchor = r.hash()
		proofs := r.count("orchard proof byte", 1)
		r.skip(proofs)
		r.skip(nActions * signatureSize)
		r.skip(signatureSize)
	}
}
