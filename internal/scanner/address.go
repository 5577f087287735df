package scanner

import (
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/txscript"
	"github.com/dmitrijs2005/zviewer/internal/models"
)

type addressPrefixes struct {
	p2pkh, p2sh [2]byte
}

var transparentPrefixes = map[models.Network]addressPrefixes{
	models.NetworkMainnet: {p2pkh: [2]byte{0x1C, 0xB8}, p2sh: [2]byte{0x1C, 0xBD}},
	models.NetworkTestnet: {p2pkh: [2]byte{0x1D, 0x25}, p2sh: [2]byte{0x1C, 0xBA}},
	models.NetworkRegtest: {p2pkh: [2]byte{0x1D, 0x25}, p2sh: [2]byte{0x1C, 0xBA}},
}

// TransparentAddress renders the t-address paid by a standard P2PKH or P2SH
// script. ok is false for any other script.
func TransparentAddress(script []byte, network models.Network) (addr string, ok bool) {
	prefixes, known := transparentPrefixes[network]
	if !known {
		return "", false
	}

	var (
		prefix [2]byte
		hash   []byte
	)
	switch txscript.GetScriptClass(script) {
	case txscript.PubKeyHashTy:
		prefix, hash = prefixes.p2pkh, script[3:23]
	case txscript.ScriptHashTy:
		prefix, hash = prefixes.p2sh, script[2:22]
	default:
		return "", false
	}

	// base58check with a two byte version: the first byte goes in as the
	// version, the second leads the payload.
	payload := make([]byte, 0, 1+len(hash))
	payload = append(payload, prefix[1])
	payload = append(payload, hash...)
	return base58.CheckEncode(payload, prefix[0]), true
}
