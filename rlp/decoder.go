// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package rlp

import (
	"fmt"
	"math"
)

// Decoder walks a canonical RLP stream. Every element it returns has passed the
// minimal-encoding checks, so two different byte strings never decode to the same value.
type Decoder struct {
	buf *buf
}

func NewDecoder(buf []byte) *Decoder {
	return &Decoder{
		buf: newBuf(buf, 0),
	}
}

func (d *Decoder) String() string {
	return fmt.Sprintf(`left=%x pos=%d`, d.buf.Bytes(), d.buf.off)
}

func (d *Decoder) Empty() bool {
	return d.buf.empty()
}

func (d *Decoder) Offset() int {
	return d.buf.Offset()
}

func (d *Decoder) Bytes() []byte {
	return d.buf.Bytes()
}

func (d *Decoder) PeekToken() (Token, error) {
	prefix, err := d.buf.PeekByte()
	if err != nil {
		return TokenUnknown, err
	}
	return identifyToken(prefix), nil
}

// Elem reads the next element and returns its content (without the prefix).
// For TokenDecimal the content is the single byte itself.
func (d *Decoder) Elem() ([]byte, Token, error) {
	w := d.buf
	prefix, err := w.ReadByte()
	if err != nil {
		return nil, TokenUnknown, err
	}
	token := identifyToken(prefix)

	var content []byte
	switch token {
	case TokenDecimal:
		content = w.u[w.off-1 : w.off]
	case TokenShortBlob:
		content, err = nextFull(w, int(token.Diff(prefix)))
		if err == nil && len(content) == 1 && content[0] < shortStringOffset {
			err = ErrCanonSize
		}
	case TokenLongBlob, TokenLongList:
		var sz int
		sz, err = nextBeInt(w, int(token.Diff(prefix)))
		if err != nil {
			return nil, token, err
		}
		content, err = nextFull(w, sz)
	case TokenShortList:
		content, err = nextFull(w, int(token.Diff(prefix)))
	default:
		return nil, token, fmt.Errorf("%w: unknown token", ErrDecode)
	}
	if err != nil {
		return nil, token, err
	}
	return content, token, nil
}

// List reads the next element, which must be a list, and returns a decoder over its items.
func (d *Decoder) List() (*Decoder, error) {
	content, token, err := d.Elem()
	if err != nil {
		return nil, err
	}
	if !token.IsList() {
		return nil, ErrExpectedList
	}
	return NewDecoder(content), nil
}

// Blob reads the next element, which must be a string.
func (d *Decoder) Blob() ([]byte, error) {
	content, token, err := d.Elem()
	if err != nil {
		return nil, err
	}
	if token.IsList() {
		return nil, ErrExpectedString
	}
	return content, nil
}

// ForList calls fn for every item of the next element, which must be a list.
func (d *Decoder) ForList(fn func(*Decoder) error) error {
	dec, err := d.List()
	if err != nil {
		return err
	}
	for !dec.Empty() {
		if err := fn(dec); err != nil {
			return err
		}
	}
	return nil
}

// CountValues returns the number of top-level elements in b.
func CountValues(b []byte) (int, error) {
	d := NewDecoder(b)
	n := 0
	for !d.Empty() {
		if _, _, err := d.Elem(); err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

// SplitList checks that b holds exactly one list and returns its content.
func SplitList(b []byte) ([]byte, error) {
	d := NewDecoder(b)
	content, token, err := d.Elem()
	if err != nil {
		return nil, err
	}
	if !token.IsList() {
		return nil, ErrExpectedList
	}
	if !d.Empty() {
		return nil, ErrTrailingBytes
	}
	return content, nil
}

func nextBeInt(w *buf, lenSz int) (int, error) {
	bts, err := nextFull(w, lenSz)
	if err != nil {
		return 0, err
	}
	if bts[0] == 0 {
		return 0, ErrCanonSize
	}
	var sz uint64
	for _, b := range bts {
		sz = sz<<8 | uint64(b)
	}
	if sz < shortPayloadLimit {
		return 0, ErrCanonSize
	}
	if sz > math.MaxInt32 {
		return 0, ErrValueTooLarge
	}
	return int(sz), nil
}

func nextFull(w *buf, n int) ([]byte, error) {
	if w.Len() < n {
		return nil, ErrUnexpectedEOF
	}
	return w.Next(n), nil
}

type buf struct {
	u   []byte
	off int
}

func newBuf(u []byte, off int) *buf {
	return &buf{u: u, off: off}
}

func (b *buf) empty() bool { return len(b.u) <= b.off }

func (b *buf) PeekByte() (n byte, err error) {
	if len(b.u) <= b.off {
		return 0, ErrUnexpectedEOF
	}
	return b.u[b.off], nil
}

func (b *buf) ReadByte() (n byte, err error) {
	if len(b.u) <= b.off {
		return 0, ErrUnexpectedEOF
	}
	b.off++
	return b.u[b.off-1], nil
}

func (b *buf) Next(n int) (xs []byte) {
	m := b.Len()
	if n > m {
		n = m
	}
	data := b.u[b.off : b.off+n]
	b.off += n
	return data
}

func (b *buf) Offset() int {
	return b.off
}

func (b *buf) Bytes() []byte {
	return b.u[b.off:]
}

func (b *buf) Len() int { return len(b.u) - b.off }
