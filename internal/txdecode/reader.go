package txdecode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/wire"
)

// reader is a sticky-error cursor over a serialized transaction. After the
// first failure every call is a no-op returning zero values.
type reader struct {
	r   *bytes.Reader
	err error
}

func newReader(b []byte) *reader {
	return &reader{r: bytes.NewReader(b)}
}

func (r *reader) remaining() int { return r.r.Len() }

func (r *reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *reader) read(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > r.r.Len() {
		r.fail(io.ErrUnexpectedEOF)
		return nil
	}
	b := make([]byte, n)
	_, _ = io.ReadFull(r.r, b)
	return b
}

func (r *reader) fill(dst []byte) {
	if b := r.read(len(dst)); b != nil {
		copy(dst, b)
	}
}

func (r *reader) skip(n int) {
	if r.err != nil {
		return
	}
	if n < 0 || n > r.r.Len() {
		r.fail(io.ErrUnexpectedEOF)
		return
	}
	_, _ = r.r.Seek(int64(n), io.SeekCurrent)
}

func (r *reader) u8() byte {
	b := r.read(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) u32() uint32 {
	b := r.read(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) i64() int64 {
	b := r.read(8)
	if b == nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b))
}

func (r *reader) hash() (h [32]byte) {
	r.fill(h[:])
	return h
}

func (r *reader) varInt() uint64 {
	if r.err != nil {
		return 0
	}
	v, err := wire.ReadVarInt(r.r, 0)
	if err != nil {
		r.fail(err)
		return 0
	}
	return v
}

// count reads a compact-size element count and checks that count elements
// of itemSize bytes can still fit in the input.
func (r *reader) count(what string, itemSize int) int {
	n := r.varInt()
	if r.err != nil {
		return 0
	}
	if n > uint64(r.r.Len()/itemSize) {
		r.fail(fmt.Errorf("%s count %d exceeds remaining %d bytes", what, n, r.r.Len()))
		return 0
	}
	return int(n)
}

func (r *reader) varBytes(field string) []byte {
	if r.err != nil {
		return nil
	}
	b, err := wire.ReadVarBytes(r.r, 0, uint32(r.r.Len()), field)
	if err != nil {
		r.fail(err)
		return nil
	}
	return b
}
