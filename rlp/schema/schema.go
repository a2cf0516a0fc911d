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

// Package schema describes records as ordered lists of typed fields and encodes them
// canonically as RLP lists.
package schema

import (
	"fmt"

	"github.com/erigontech/minter-tx/rlp"
)

// FieldSpec describes one field of a record.
//
// A field is a byte string unless Elem or Record is set, in which case it is an array
// encoded as an RLP list: of byte strings (Elem) or of nested records (Record).
type FieldSpec struct {
	Name  string
	Alias string

	// Length is the exact byte width of the value, 0 means unbounded.
	Length int
	// AllowLess marks a big-endian integer: it may be shorter than Length and is kept
	// without leading zero bytes.
	AllowLess bool
	// AllowZero accepts an empty value even when Length is set.
	AllowZero bool
	// Default is used when no value is supplied. It is validated like any other value.
	Default []byte

	Elem   *FieldSpec
	Record *Schema
}

func (f *FieldSpec) IsArray() bool { return f.Elem != nil || f.Record != nil }

// Schema is an immutable ordered list of fields.
type Schema struct {
	name   string
	fields []FieldSpec
	index  map[string]int
}

func NewSchema(name string, fields ...FieldSpec) (*Schema, error) {
	s := &Schema{
		name:   name,
		fields: make([]FieldSpec, len(fields)),
		index:  make(map[string]int, len(fields)*2),
	}
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema %s: field %d has no name", name, i)
		}
		if f.Elem != nil && f.Record != nil {
			return nil, fmt.Errorf("schema %s: field %s: both element spec and record schema set", name, f.Name)
		}
		if f.Elem != nil && f.Elem.IsArray() {
			return nil, fmt.Errorf("schema %s: field %s: nested arrays need a record schema", name, f.Name)
		}
		for _, key := range []string{f.Name, f.Alias} {
			if key == "" {
				continue
			}
			if _, ok := s.index[key]; ok {
				return nil, fmt.Errorf("schema %s: %w: %s", name, ErrDuplicateField, key)
			}
			s.index[key] = i
		}
		f.Default = append([]byte{}, f.Default...)
		s.fields[i] = f
	}
	return s, nil
}

func MustNewSchema(name string, fields ...FieldSpec) *Schema {
	s, err := NewSchema(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Name() string { return s.name }

func (s *Schema) Len() int { return len(s.fields) }

func (s *Schema) Field(i int) FieldSpec { return s.fields[i] }

// Index resolves a field name or alias.
func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

func (s *Schema) mustIndex(name string) int {
	i, ok := s.index[name]
	if !ok {
		panic(fmt.Sprintf("schema %s: no field %q", s.name, name))
	}
	return i
}

func (s *Schema) schemaErr(field string, err error) error {
	return &SchemaError{Schema: s.name, Field: field, Err: err}
}

func (s *Schema) decodeErr(field string, err error) error {
	return &DecodeError{Schema: s.name, Field: field, Err: err}
}

// normalize validates b against f and returns the canonical form. When strict is set
// (decoding) non-canonical input is rejected instead of being minimised.
func normalize(f *FieldSpec, b []byte, strict bool) ([]byte, error) {
	if !f.AllowZero && len(b) == 1 && b[0] == 0 {
		if strict {
			return nil, rlp.ErrNonCanonicalInteger
		}
		b = b[:0]
	}
	if f.AllowLess {
		if strict {
			if len(b) > 0 && b[0] == 0 {
				return nil, rlp.ErrNonCanonicalInteger
			}
		} else {
			b = stripZeros(b)
		}
		if f.Length > 0 && len(b) > f.Length {
			return nil, fmt.Errorf("%w: %d bytes, at most %d allowed", ErrInvalidLength, len(b), f.Length)
		}
		return b, nil
	}
	if f.Length > 0 && !(f.AllowZero && len(b) == 0) && len(b) != f.Length {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrInvalidLength, len(b), f.Length)
	}
	return b, nil
}

func stripZeros(b []byte) []byte {
	for i, v := range b {
		if v != 0 {
			return b[i:]
		}
	}
	return b[len(b):]
}
