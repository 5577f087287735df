// Package memo implements the message protocol carried inside the 512-byte
// memo field of shielded outputs.
//
// Layout of a single memo (all integers big-endian):
//
//	offset  size  field
//	0       1     version (always 0x01)
//	1       1     type: 0 = Text, 1 = Ack, 2 = Fragment
//	2       4     unix timestamp
//	6       4     nonce
//	10      2     total fragments (Fragment only)
//	12      2     fragment index  (Fragment only)
//	14      498   UTF-8 payload, zero padded
//
// Messages longer than one payload are split into Fragment memos that share a
// timestamp and nonce and are put back together with Reassemble.
package memo

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

const (
	// Size is the fixed length of a memo field.
	Size = 512
	// HeaderSize is the length of the message header.
	HeaderSize = 14
	// MaxPayload is the number of payload bytes one memo can carry.
	MaxPayload = Size - HeaderSize
	// Version is the only supported protocol version.
	Version byte = 0x01
)

var (
	ErrMemoFormat  = errors.New("memo format error")
	ErrFragmentSet = errors.New("fragment set error")
)

type Type uint8

const (
	TypeText     Type = 0
	TypeAck      Type = 1
	TypeFragment Type = 2
)

func (t Type) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeAck:
		return "ack"
	case TypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

func parseType(b byte) (Type, error) {
	switch Type(b) {
	case TypeText, TypeAck, TypeFragment:
		return Type(b), nil
	default:
		return 0, fmt.Errorf("%w: invalid message type %d", ErrMemoFormat, b)
	}
}

// FragmentInfo positions a fragment inside its message.
type FragmentInfo struct {
	Total uint16 `json:"total"`
	Index uint16 `json:"index"`
}

// Message is a decoded memo.
type Message struct {
	Version   uint8         `json:"version"`
	Type      Type          `json:"type"`
	Timestamp uint32        `json:"timestamp"`
	Nonce     uint32        `json:"nonce"`
	Fragment  *FragmentInfo `json:"fragment,omitempty"`
	Content   string        `json:"content"`
}

func build(t Type, timestamp, nonce uint32, frag FragmentInfo, payload []byte) []byte {
	m := make([]byte, Size)
	m[0] = Version
	m[1] = byte(t)
	binary.BigEndian.PutUint32(m[2:6], timestamp)
	binary.BigEndian.PutUint32(m[6:10], nonce)
	binary.BigEndian.PutUint16(m[10:12], frag.Total)
	binary.BigEndian.PutUint16(m[12:14], frag.Index)
	copy(m[HeaderSize:], payload)
	return m
}

// Encode builds a single Text memo. Text longer than MaxPayload bytes is
// rejected; use EncodeFragments or EncodeMessage for it.
func Encode(text string, timestamp, nonce uint32) ([]byte, error) {
	if len(text) > MaxPayload {
		return nil, fmt.Errorf("%w: message too long (%d bytes, max %d)", ErrMemoFormat, len(text), MaxPayload)
	}
	return build(TypeText, timestamp, nonce, FragmentInfo{}, []byte(text)), nil
}

// EncodeAck builds an Ack memo. The content usually references the nonce of
// the acknowledged message.
func EncodeAck(content string, timestamp, nonce uint32) ([]byte, error) {
	if len(content) > MaxPayload {
		return nil, fmt.Errorf("%w: ack too long (%d bytes, max %d)", ErrMemoFormat, len(content), MaxPayload)
	}
	return build(TypeAck, timestamp, nonce, FragmentInfo{}, []byte(content)), nil
}

// EncodeFragments splits text into Fragment memos sharing timestamp and nonce.
// Chunks never split a UTF-8 sequence, so every fragment decodes on its own.
func EncodeFragments(text string, timestamp, nonce uint32) ([][]byte, error) {
	chunks := split(text, MaxPayload)
	if len(chunks) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: message too long (%d bytes)", ErrMemoFormat, len(text))
	}

	total := uint16(len(chunks))
	out := make([][]byte, 0, len(chunks))
	for i, c := range chunks {
		out = append(out, build(TypeFragment, timestamp, nonce, FragmentInfo{Total: total, Index: uint16(i)}, []byte(c)))
	}
	return out, nil
}

// EncodeMessage returns one Text memo when text fits, fragments otherwise.
func EncodeMessage(text string, timestamp, nonce uint32) ([][]byte, error) {
	if len(text) <= MaxPayload {
		m, err := Encode(text, timestamp, nonce)
		if err != nil {
			return nil, err
		}
		return [][]byte{m}, nil
	}
	return EncodeFragments(text, timestamp, nonce)
}

// split cuts s into chunks of at most max bytes, backing off to the previous
// rune boundary when a cut would land inside a multi-byte sequence.
func split(s string, max int) []string {
	var chunks []string
	for len(s) > 0 {
		if len(s) <= max {
			chunks = append(chunks, s)
			break
		}
		cut := max
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		if cut == 0 {
			// not valid UTF-8 at all; fall back to a raw cut
			cut = max
		}
		chunks = append(chunks, s[:cut])
		s = s[cut:]
	}
	return chunks
}

// Decode parses a memo. Content ends at the first zero byte.
func Decode(memo []byte) (*Message, error) {
	if len(memo) < HeaderSize {
		return nil, fmt.Errorf("%w: memo too short (%d bytes)", ErrMemoFormat, len(memo))
	}
	if memo[0] != Version {
		return nil, fmt.Errorf("%w: invalid version 0x%02x", ErrMemoFormat, memo[0])
	}
	t, err := parseType(memo[1])
	if err != nil {
		return nil, err
	}

	msg := &Message{
		Version:   memo[0],
		Type:      t,
		Timestamp: binary.BigEndian.Uint32(memo[2:6]),
		Nonce:     binary.BigEndian.Uint32(memo[6:10]),
	}

	if t == TypeFragment {
		fi := FragmentInfo{
			Total: binary.BigEndian.Uint16(memo[10:12]),
			Index: binary.BigEndian.Uint16(memo[12:14]),
		}
		if fi.Total == 0 {
			return nil, fmt.Errorf("%w: total fragments cannot be zero", ErrMemoFormat)
		}
		if fi.Index >= fi.Total {
			return nil, fmt.Errorf("%w: fragment index %d >= total fragments %d", ErrMemoFormat, fi.Index, fi.Total)
		}
		msg.Fragment = &fi
	}

	payload := memo[HeaderSize:]
	for i, b := range payload {
		if b == 0 {
			payload = payload[:i]
			break
		}
	}
	if !utf8.Valid(payload) {
		return nil, fmt.Errorf("%w: payload is not valid UTF-8", ErrMemoFormat)
	}
	msg.Content = string(payload)

	return msg, nil
}
