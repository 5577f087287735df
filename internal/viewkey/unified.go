package viewkey

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/wire"
	"github.com/dmitrijs2005/zviewer/internal/models"
)

// Unified container typecodes.
const (
	TypeP2PKH   uint64 = 0x00
	TypeP2SH    uint64 = 0x01
	TypeSapling uint64 = 0x02
	TypeOrchard uint64 = 0x03
)

const paddingLen = 16

// Item is one typed entry of a unified container.
type Item struct {
	Typecode uint64
	Value    []byte
}

var unifiedHRPs = map[Kind]map[models.Network]string{
	KindUnifiedFull: {
		models.NetworkMainnet: "uview",
		models.NetworkTestnet: "uviewtest",
		models.NetworkRegtest: "uviewregtest",
	},
	KindUnifiedIncoming: {
		models.NetworkMainnet: "uivk",
		models.NetworkTestnet: "uivktest",
		models.NetworkRegtest: "uivkregtest",
	},
}

// itemLengths are the fixed encodings of the known item types.
var itemLengths = map[Kind]map[uint64]int{
	KindUnifiedFull:     {TypeP2PKH: 65, TypeSapling: 128, TypeOrchard: 96},
	KindUnifiedIncoming: {TypeP2PKH: 65, TypeSapling: 64, TypeOrchard: 64},
}

// HRP returns the human-readable part used for a unified key of the given
// kind on network.
func HRP(kind Kind, network models.Network) (string, error) {
	hrp, ok := unifiedHRPs[kind][network]
	if !ok {
		return "", fmt.Errorf("no unified encoding for %s on %s", kind, network)
	}
	return hrp, nil
}

func networkForHRP(kind Kind, hrp string) (models.Network, bool) {
	for n, h := range unifiedHRPs[kind] {
		if h == hrp {
			return n, true
		}
	}
	return "", false
}

func decodeUnified(s string, kind Kind) (*Key, error) {
	hrp, data, version, err := bech32.DecodeNoLimitWithVersion(s)
	if err != nil {
		return nil, err
	}
	if version != bech32.VersionM {
		return nil, errors.New("unified encoding requires bech32m")
	}
	network, ok := networkForHRP(kind, hrp)
	if !ok {
		return nil, fmt.Errorf("hrp %q is not a %s", hrp, kind)
	}

	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, err
	}
	plain, err := F4JumbleInv(raw)
	if err != nil {
		return nil, err
	}

	body, pad := plain[:len(plain)-paddingLen], plain[len(plain)-paddingLen:]
	if !bytes.Equal(pad, hrpPadding(hrp)) {
		return nil, errors.New("invalid hrp padding")
	}

	items, err := parseItems(body, kind)
	if err != nil {
		return nil, err
	}

	capability := models.Capability{Network: network}
	for _, it := range items {
		switch it.Typecode {
		case TypeP2PKH:
			capability.Transparent = true
		case TypeSapling:
			capability.Sapling = true
		case TypeOrchard:
			capability.Orchard = true
		}
	}
	if kind == KindUnifiedIncoming {
		// the incoming container is not introspected per pool
		capability.Sapling = true
		capability.Orchard = true
	}

	return &Key{Kind: kind, Capability: capability, Items: items, Encoded: s}, nil
}

func hrpPadding(hrp string) []byte {
	p := make([]byte, paddingLen)
	copy(p, hrp)
	return p
}

func parseItems(body []byte, kind Kind) ([]Item, error) {
	r := bytes.NewReader(body)
	var (
		items    []Item
		shielded bool
		seen     = make(map[uint64]struct{})
	)
	for r.Len() > 0 {
		tc, err := wire.ReadVarInt(r, 0)
		if err != nil {
			return nil, fmt.Errorf("typecode: %w", err)
		}
		n, err := wire.ReadVarInt(r, 0)
		if err != nil {
			return nil, fmt.Errorf("item length: %w", err)
		}
		if n > uint64(r.Len()) {
			return nil, fmt.Errorf("item 0x%x length %d exceeds container", tc, n)
		}
		if tc == TypeP2SH {
			return nil, errors.New("p2sh item in a viewing key")
		}
		if want, known := itemLengths[kind][tc]; known && uint64(want) != n {
			return nil, fmt.Errorf("item 0x%x has length %d, want %d", tc, n, want)
		}
		if _, dup := seen[tc]; dup {
			return nil, fmt.Errorf("duplicate item 0x%x", tc)
		}
		seen[tc] = struct{}{}

		v := make([]byte, n)
		_, _ = r.Read(v)
		items = append(items, Item{Typecode: tc, Value: v})
		if tc != TypeP2PKH {
			shielded = true
		}
	}
	if !shielded {
		return nil, errors.New("container has no shielded item")
	}
	return items, nil
}

// EncodeUnified builds the string form of a unified key. Items are written in
// the given order.
func EncodeUnified(kind Kind, network models.Network, items []Item) (string, error) {
	hrp, err := HRP(kind, network)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	for _, it := range items {
		_ = wire.WriteVarInt(&buf, 0, it.Typecode)
		_ = wire.WriteVarInt(&buf, 0, uint64(len(it.Value)))
		buf.Write(it.Value)
	}
	buf.Write(hrpPadding(hrp))

	jumbled, err := F4Jumble(buf.Bytes())
	if err != nil {
		return "", err
	}
	data, err := bech32.ConvertBits(jumbled, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.EncodeM(hrp, data)
}
