package viewkey

import (
	"encoding/binary"
	"fmt"

	blake2b "github.com/minio/blake2b-simd"
)

// Message length bounds of the unified encoding's F4Jumble.
const (
	f4MinLen = 48
	f4MaxLen = 4194368
	f4HLen   = 64
)

type f4 struct {
	left, right int
}

func newF4(n int) (f4, error) {
	if n < f4MinLen || n > f4MaxLen {
		return f4{}, fmt.Errorf("f4jumble: message length %d out of range", n)
	}
	l := min(f4HLen, n/2)
	return f4{left: l, right: n - l}, nil
}

// h xors the round-i H hash of u into dst (len(dst) == left).
func (f f4) h(i byte, u, dst []byte) {
	person := []byte("UA_F4Jumble_H\x00\x00\x00")
	person[13] = i
	hs, err := blake2b.New(&blake2b.Config{Size: uint8(f.left), Person: person})
	if err != nil {
		panic(err)
	}
	hs.Write(u)
	xor(dst, hs.Sum(nil))
}

// g xors the round-i G hash of u into dst (len(dst) == right).
func (f f4) g(i byte, u, dst []byte) {
	person := []byte("UA_F4Jumble_G\x00\x00\x00")
	person[13] = i
	for j, off := 0, 0; off < f.right; j, off = j+1, off+64 {
		binary.LittleEndian.PutUint16(person[14:], uint16(j))
		hs, err := blake2b.New(&blake2b.Config{Size: 64, Person: person})
		if err != nil {
			panic(err)
		}
		hs.Write(u)
		end := min(off+64, f.right)
		xor(dst[off:end], hs.Sum(nil))
	}
}

func xor(dst, src []byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}

// F4Jumble applies the unkeyed 4-round Feistel permutation used by unified
// addresses and keys. The input is not modified.
func F4Jumble(m []byte) ([]byte, error) {
	f, err := newF4(len(m))
	if err != nil {
		return nil, err
	}
	out := append([]byte(nil), m...)
	a, b := out[:f.left], out[f.left:]

	f.g(0, a, b) // x
	f.h(0, b, a) // y
	f.g(1, a, b) // d
	f.h(1, b, a) // c
	return out, nil
}

// F4JumbleInv is the inverse of F4Jumble.
func F4JumbleInv(m []byte) ([]byte, error) {
	f, err := newF4(len(m))
	if err != nil {
		return nil, err
	}
	out := append([]byte(nil), m...)
	c, d := out[:f.left], out[f.left:]

	f.h(1, d, c) // y
	f.g(1, c, d) // x
	f.h(0, d, c) // a
	f.g(0, c, d) // b
	return out, nil
}
