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
	"encoding/binary"
	"fmt"
	"math/big"
	"reflect"

	"github.com/holiman/uint256"
)

// Values is the named-field input of New. Keys are field names or aliases.
type Values map[string]any

// ToBytes converts a scalar input to a freshly allocated byte string. Integers become
// their minimal big-endian form, strings are taken as raw bytes.
func ToBytes(v any) ([]byte, error) {
	switch x := v.(type) {
	case nil:
		return []byte{}, nil
	case []byte:
		return append([]byte{}, x...), nil
	case string:
		return []byte(x), nil
	case uint8:
		return uintBytes(uint64(x)), nil
	case uint16:
		return uintBytes(uint64(x)), nil
	case uint32:
		return uintBytes(uint64(x)), nil
	case uint64:
		return uintBytes(x), nil
	case uint:
		return uintBytes(uint64(x)), nil
	case int:
		return intBytes(int64(x))
	case int32:
		return intBytes(int64(x))
	case int64:
		return intBytes(x)
	case *uint256.Int:
		if x == nil {
			return []byte{}, nil
		}
		return x.Bytes(), nil
	case *big.Int:
		if x == nil {
			return []byte{}, nil
		}
		if x.Sign() < 0 {
			return nil, ErrNegativeValue
		}
		return x.Bytes(), nil
	case interface{ Bytes() []byte }:
		return append([]byte{}, x.Bytes()...), nil
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8:
		out := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(out), rv)
		return out, nil
	case rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8:
		return append([]byte{}, rv.Bytes()...), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

func uintBytes(i uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], i)
	return stripZeros(b[:])
}

func intBytes(i int64) ([]byte, error) {
	if i < 0 {
		return nil, ErrNegativeValue
	}
	return uintBytes(uint64(i)), nil
}

// toItems flattens an array input into its elements.
func toItems(v any) ([]any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return x, nil
	case []byte, string:
		return nil, ErrNotArray
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, fmt.Errorf("%w: %T", ErrNotArray, v)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}
