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

package schema

import (
	"fmt"

	"github.com/erigontech/minter-tx/rlp"
)

// Encode returns the canonical RLP list of all fields in declared order.
func (r *Record) Encode() []byte {
	return r.EncodePrefix(len(r.values))
}

// EncodePrefix returns the canonical RLP list of the first n fields.
func (r *Record) EncodePrefix(n int) []byte {
	if n < 0 || n > len(r.values) {
		panic(fmt.Sprintf("schema %s: prefix %d out of range", r.schema.name, n))
	}
	out := make([]byte, rlp.ListLen(r.payloadLen(n)))
	r.encodeTo(out, n)
	return out
}

// EncodingSize is the size of Encode's output.
func (r *Record) EncodingSize() int {
	return rlp.ListLen(r.payloadLen(len(r.values)))
}

func (r *Record) payloadLen(n int) int {
	size := 0
	for i := 0; i < n; i++ {
		size += r.fieldLen(i)
	}
	return size
}

func (r *Record) fieldLen(i int) int {
	f, v := &r.schema.fields[i], r.values[i]
	switch {
	case f.Record != nil:
		size := 0
		for _, rec := range v.records {
			size += rlp.ListLen(rec.payloadLen(len(rec.values)))
		}
		return rlp.ListLen(size)
	case f.Elem != nil:
		size := 0
		for _, b := range v.items {
			size += rlp.StringLen(b)
		}
		return rlp.ListLen(size)
	default:
		return rlp.StringLen(v.bytes)
	}
}

func (r *Record) encodeTo(to []byte, n int) int {
	pos := rlp.EncodeListPrefix(r.payloadLen(n), to)
	for i := 0; i < n; i++ {
		f, v := &r.schema.fields[i], r.values[i]
		switch {
		case f.Record != nil:
			size := 0
			for _, rec := range v.records {
				size += rlp.ListLen(rec.payloadLen(len(rec.values)))
			}
			pos += rlp.EncodeListPrefix(size, to[pos:])
			for _, rec := range v.records {
				pos += rec.encodeTo(to[pos:], len(rec.values))
			}
		case f.Elem != nil:
			size := 0
			for _, b := range v.items {
				size += rlp.StringLen(b)
			}
			pos += rlp.EncodeListPrefix(size, to[pos:])
			for _, b := range v.items {
				pos += rlp.EncodeString(b, to[pos:])
			}
		default:
			pos += rlp.EncodeString(v.bytes, to[pos:])
		}
	}
	return pos
}

// Decode parses a canonical RLP list into a record of schema s. Missing trailing fields
// take their defaults; anything else that does not match the schema is a DecodeError.
func Decode(s *Schema, data []byte) (*Record, error) {
	content, err := rlp.SplitList(data)
	if err != nil {
		return nil, s.decodeErr("", err)
	}
	return decodeList(s, content)
}

func decodeList(s *Schema, content []byte) (*Record, error) {
	d := rlp.NewDecoder(content)
	r := &Record{schema: s, values: make([]value, len(s.fields))}
	i := 0
	for ; !d.Empty(); i++ {
		if i >= len(s.fields) {
			return nil, s.decodeErr("", fmt.Errorf("%w: more than %d", ErrTooManyFields, len(s.fields)))
		}
		f := &s.fields[i]
		elem, token, err := d.Elem()
		if err != nil {
			return nil, s.decodeErr(f.Name, err)
		}
		if f.IsArray() != token.IsList() {
			if f.IsArray() {
				return nil, s.decodeErr(f.Name, ErrNotArray)
			}
			return nil, s.decodeErr(f.Name, ErrNotScalar)
		}
		if r.values[i], err = decodeField(f, elem); err != nil {
			return nil, s.decodeErr(f.Name, err)
		}
	}
	for ; i < len(s.fields); i++ {
		if err := r.setDefault(i); err != nil {
			return nil, s.decodeErr(s.fields[i].Name, fmt.Errorf("%w: %w", ErrMissingField, err))
		}
	}
	return r, nil
}

func decodeField(f *FieldSpec, elem []byte) (value, error) {
	switch {
	case f.Record != nil:
		var records []*Record
		d := rlp.NewDecoder(elem)
		for j := 0; !d.Empty(); j++ {
			content, token, err := d.Elem()
			if err == nil && !token.IsList() {
				err = rlp.ErrExpectedList
			}
			var rec *Record
			if err == nil {
				rec, err = decodeList(f.Record, content)
			}
			if err != nil {
				return value{}, fmt.Errorf("element %d: %w", j, err)
			}
			records = append(records, rec)
		}
		return value{records: records}, nil
	case f.Elem != nil:
		var items [][]byte
		d := rlp.NewDecoder(elem)
		for j := 0; !d.Empty(); j++ {
			b, err := d.Blob()
			if err == nil {
				b, err = normalize(f.Elem, append([]byte{}, b...), true)
			}
			if err != nil {
				return value{}, fmt.Errorf("element %d: %w", j, err)
			}
			items = append(items, b)
		}
		return value{items: items}, nil
	default:
		b, err := normalize(f, append([]byte{}, elem...), true)
		if err != nil {
			return value{}, err
		}
		return value{bytes: b}, nil
	}
}
