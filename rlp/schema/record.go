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
	"bytes"
	"fmt"

	"github.com/holiman/uint256"
)

// value holds one field: bytes for scalar fields, items or records for arrays.
type value struct {
	bytes   []byte
	items   [][]byte
	records []*Record
}

// Record is an ordered tuple of field values laid out by a Schema. A Record owns all
// of its bytes: inputs are copied in and accessors copy out.
type Record struct {
	schema *Schema
	values []value
}

// New builds a record from named values. Fields without a value take their default.
func New(s *Schema, values Values) (*Record, error) {
	r := &Record{schema: s, values: make([]value, len(s.fields))}
	given := make([]bool, len(s.fields))
	for key := range values {
		i, ok := s.index[key]
		if !ok {
			return nil, s.schemaErr(key, ErrUnknownField)
		}
		if given[i] {
			return nil, s.schemaErr(s.fields[i].Name, ErrDuplicateField)
		}
		given[i] = true
	}
	for i := range s.fields {
		f := &s.fields[i]
		if !given[i] {
			if err := r.setDefault(i); err != nil {
				return nil, s.schemaErr(f.Name, fmt.Errorf("%w: %w", ErrMissingField, err))
			}
			continue
		}
		v, ok := values[f.Name]
		if !ok {
			v = values[f.Alias]
		}
		if err := r.set(i, v); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustNew is New for static data known to be valid.
func MustNew(s *Schema, values Values) *Record {
	r, err := New(s, values)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Record) set(i int, v any) error {
	s, f := r.schema, &r.schema.fields[i]
	switch {
	case f.Record != nil:
		items, err := toItems(v)
		if err != nil {
			return s.schemaErr(f.Name, err)
		}
		records := make([]*Record, len(items))
		for j, item := range items {
			if records[j], err = toRecord(f.Record, item); err != nil {
				return s.schemaErr(fmt.Sprintf("%s[%d]", f.Name, j), err)
			}
		}
		r.values[i] = value{records: records}
	case f.Elem != nil:
		items, err := toItems(v)
		if err != nil {
			return s.schemaErr(f.Name, err)
		}
		out := make([][]byte, len(items))
		for j, item := range items {
			b, err := ToBytes(item)
			if err == nil {
				b, err = normalize(f.Elem, b, false)
			}
			if err != nil {
				return s.schemaErr(fmt.Sprintf("%s[%d]", f.Name, j), err)
			}
			out[j] = b
		}
		r.values[i] = value{items: out}
	default:
		b, err := ToBytes(v)
		if err == nil {
			b, err = normalize(f, b, false)
		}
		if err != nil {
			return s.schemaErr(f.Name, err)
		}
		r.values[i] = value{bytes: b}
	}
	return nil
}

func toRecord(s *Schema, v any) (*Record, error) {
	switch x := v.(type) {
	case *Record:
		if x.schema != s {
			return nil, ErrSchemaMismatch
		}
		return x.Copy(), nil
	case Values:
		return New(s, x)
	case map[string]any:
		return New(s, x)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

func (r *Record) setDefault(i int) error {
	f := &r.schema.fields[i]
	if f.IsArray() {
		r.values[i] = value{}
		return nil
	}
	b, err := normalize(f, append([]byte{}, f.Default...), false)
	if err != nil {
		return err
	}
	r.values[i] = value{bytes: b}
	return nil
}

// Set replaces the value of a field after construction.
func (r *Record) Set(name string, v any) error {
	i, ok := r.schema.index[name]
	if !ok {
		return r.schema.schemaErr(name, ErrUnknownField)
	}
	return r.set(i, v)
}

func (r *Record) Schema() *Schema { return r.schema }

// Bytes returns a copy of a scalar field.
func (r *Record) Bytes(name string) []byte {
	return append([]byte{}, r.values[r.schema.mustIndex(name)].bytes...)
}

// Padded returns a scalar field left-padded with zeros to its declared length.
func (r *Record) Padded(name string) []byte {
	i := r.schema.mustIndex(name)
	b, l := r.values[i].bytes, r.schema.fields[i].Length
	if len(b) >= l {
		return append([]byte{}, b...)
	}
	out := make([]byte, l)
	copy(out[l-len(b):], b)
	return out
}

// Uint256 interprets a scalar field as a big-endian integer.
func (r *Record) Uint256(name string) *uint256.Int {
	return new(uint256.Int).SetBytes(r.values[r.schema.mustIndex(name)].bytes)
}

// Uint64 interprets a scalar field as a big-endian integer; ok is false on overflow.
func (r *Record) Uint64(name string) (v uint64, ok bool) {
	b := r.values[r.schema.mustIndex(name)].bytes
	if len(b) > 8 {
		return 0, false
	}
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, true
}

// Items returns a copy of an array-of-bytes field.
func (r *Record) Items(name string) [][]byte {
	items := r.values[r.schema.mustIndex(name)].items
	out := make([][]byte, len(items))
	for i, b := range items {
		out[i] = append([]byte{}, b...)
	}
	return out
}

// Records returns copies of the nested records of an array-of-records field.
func (r *Record) Records(name string) []*Record {
	records := r.values[r.schema.mustIndex(name)].records
	out := make([]*Record, len(records))
	for i, rec := range records {
		out[i] = rec.Copy()
	}
	return out
}

// Raw returns the record as nested []any of []byte, the shape generic RLP encoders take.
func (r *Record) Raw() []any {
	out := make([]any, len(r.values))
	for i := range r.values {
		out[i] = r.rawField(i)
	}
	return out
}

func (r *Record) rawField(i int) any {
	f, v := &r.schema.fields[i], r.values[i]
	switch {
	case f.Record != nil:
		list := make([]any, len(v.records))
		for j, rec := range v.records {
			list[j] = rec.Raw()
		}
		return list
	case f.Elem != nil:
		list := make([]any, len(v.items))
		for j, b := range v.items {
			list[j] = append([]byte{}, b...)
		}
		return list
	default:
		return append([]byte{}, v.bytes...)
	}
}

func (r *Record) Copy() *Record {
	cpy := &Record{schema: r.schema, values: make([]value, len(r.values))}
	for i, v := range r.values {
		c := value{bytes: append([]byte{}, v.bytes...)}
		if v.items != nil {
			c.items = make([][]byte, len(v.items))
			for j, b := range v.items {
				c.items[j] = append([]byte{}, b...)
			}
		}
		if v.records != nil {
			c.records = make([]*Record, len(v.records))
			for j, rec := range v.records {
				c.records[j] = rec.Copy()
			}
		}
		cpy.values[i] = c
	}
	return cpy
}

// Equal reports whether both records share a schema and hold the same values.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.schema != other.schema {
		return false
	}
	for i := range r.values {
		a, b := r.values[i], other.values[i]
		if !bytes.Equal(a.bytes, b.bytes) || len(a.items) != len(b.items) || len(a.records) != len(b.records) {
			return false
		}
		for j := range a.items {
			if !bytes.Equal(a.items[j], b.items[j]) {
				return false
			}
		}
		for j := range a.records {
			if !a.records[j].Equal(b.records[j]) {
				return false
			}
		}
	}
	return true
}

func (r *Record) String() string {
	return fmt.Sprintf("%s%x", r.schema.name, r.Raw())
}
