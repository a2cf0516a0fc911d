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
	"errors"
	"fmt"
)

var ErrDecode = errors.New("rlp: decode error")

var (
	ErrCanonSize           = fmt.Errorf("%w: non-canonical size information", ErrDecode)
	ErrNonCanonicalInteger = fmt.Errorf("%w: non-canonical integer (leading zero bytes)", ErrDecode)
	ErrValueTooLarge       = fmt.Errorf("%w: value size exceeds available input length", ErrDecode)
	ErrUnexpectedEOF       = fmt.Errorf("%w: unexpected end of input", ErrDecode)
	ErrExpectedList        = fmt.Errorf("%w: expected list", ErrDecode)
	ErrExpectedString      = fmt.Errorf("%w: expected string or byte", ErrDecode)
	ErrTrailingBytes       = fmt.Errorf("%w: input contains more than one value", ErrDecode)
)
