// Package viewkey classifies viewing key strings and reports which pools
// they can see.
//
// Three formats are recognised, tried in order:
//
//   - unified full viewing keys (uview...), Bech32m over an F4Jumble'd
//     item container;
//   - unified incoming viewing keys (uivk...), same container;
//   - legacy Sapling extended full viewing keys (zxviews...), plain Bech32.
//
// Classification never derives key material; the item payloads are kept as
// opaque bytes for the decryptors that need them.
package viewkey

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/dmitrijs2005/zviewer/internal/models"
)

var ErrUnrecognizedKey = errors.New("unrecognized viewing key")

type Kind int

const (
	KindUnifiedFull Kind = iota + 1
	KindUnifiedIncoming
	KindLegacySapling
)

func (k Kind) String() string {
	switch k {
	case KindUnifiedFull:
		return "ufvk"
	case KindUnifiedIncoming:
		return "uivk"
	case KindLegacySapling:
		return "sapling-efvk"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{KindUnifiedFull, KindUnifiedIncoming, KindLegacySapling} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown key kind %q", s)
}

// Key is a classified viewing key.
type Key struct {
	Kind       Kind
	Capability models.Capability
	// Items holds the unified container items in encoding order. Legacy keys
	// carry a single Sapling item with the raw Bech32 payload.
	Items   []Item
	Encoded string
}

// Item returns the first item with the given typecode.
func (k *Key) Item(typecode uint64) (Item, bool) {
	for _, it := range k.Items {
		if it.Typecode == typecode {
			return it, true
		}
	}
	return Item{}, false
}

var legacyPrefixes = []struct {
	hrp     string
	network models.Network
}{
	{"zxviewregtestsapling", models.NetworkRegtest},
	{"zxviewtestsapling", models.NetworkTestnet},
	{"zxviews", models.NetworkMainnet},
}

// Classify determines the kind and capability of a viewing key string.
func Classify(s string) (*Key, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrUnrecognizedKey)
	}

	if k, err := decodeUnified(s, KindUnifiedFull); err == nil {
		return k, nil
	}
	if k, err := decodeUnified(s, KindUnifiedIncoming); err == nil {
		return k, nil
	}
	if k, ok := decodeLegacy(s); ok {
		return k, nil
	}
	return nil, ErrUnrecognizedKey
}

func decodeLegacy(s string) (*Key, bool) {
	lower := strings.ToLower(s)
	for _, p := range legacyPrefixes {
		if !strings.HasPrefix(lower, p.hrp+"1") {
			continue
		}
		hrp, data, err := bech32.DecodeNoLimit(s)
		if err != nil || hrp != p.hrp {
			return nil, false
		}
		return &Key{
			Kind:       KindLegacySapling,
			Capability: models.Capability{Sapling: true, Network: p.network},
			Items:      []Item{{Typecode: TypeSapling, Value: data}},
			Encoded:    s,
		}, true
	}
	return nil, false
}
