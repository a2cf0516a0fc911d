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

package types

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSig       = errors.New("invalid transaction v, r, s values")
	ErrUnknownTxType    = errors.New("unknown transaction type")
	ErrMalformedPayload = errors.New("malformed payload")
	ErrWrongTxType      = errors.New("payload of another transaction type")
)

// UnknownTypeError is returned for a type code outside the registry.
type UnknownTypeError struct {
	Type TxType
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("%v: 0x%02x", ErrUnknownTxType, byte(e.Type))
}

func (e *UnknownTypeError) Is(target error) bool { return target == ErrUnknownTxType }

// SignatureError explains why a signature did not yield a sender.
type SignatureError struct {
	Violation Violation
	Err       error
}

func (e *SignatureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", ErrInvalidSig, e.Violation, e.Err)
	}
	return fmt.Sprintf("%v: %s", ErrInvalidSig, e.Violation)
}

func (e *SignatureError) Unwrap() error { return e.Err }

func (e *SignatureError) Is(target error) bool { return target == ErrInvalidSig }
