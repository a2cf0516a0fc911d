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
	"errors"
	"fmt"

	"github.com/erigontech/minter-tx/rlp"
)

var (
	ErrUnknownField     = errors.New("unknown field")
	ErrDuplicateField   = errors.New("field given more than once")
	ErrMissingField     = errors.New("missing field")
	ErrInvalidLength    = errors.New("invalid length")
	ErrUnsupportedValue = errors.New("unsupported value type")
	ErrNegativeValue    = errors.New("negative integer")
	ErrNotArray         = errors.New("expected array")
	ErrNotScalar        = errors.New("expected byte string")
	ErrTooManyFields    = errors.New("too many fields")
	ErrSchemaMismatch   = errors.New("record belongs to another schema")
)

// SchemaError is returned when a value violates its FieldSpec at construction time.
type SchemaError struct {
	Schema string
	Field  string
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: field %s: %v", e.Schema, e.Field, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// DecodeError is returned for malformed input. It always matches rlp.ErrDecode.
type DecodeError struct {
	Schema string
	Field  string // empty when the failure is not tied to a field
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode %s: %v", e.Schema, e.Err)
	}
	return fmt.Sprintf("decode %s: field %s: %v", e.Schema, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == rlp.ErrDecode }
