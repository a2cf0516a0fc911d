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

type Token int32

const (
	TokenUnknown Token = iota
	TokenDecimal
	TokenShortBlob
	TokenLongBlob
	TokenShortList
	TokenLongList
)

func (t Token) String() string {
	switch t {
	case TokenDecimal:
		return "decimal"
	case TokenShortBlob:
		return "short_blob"
	case TokenLongBlob:
		return "long_blob"
	case TokenShortList:
		return "short_list"
	case TokenLongList:
		return "long_list"
	default:
		return "unknown"
	}
}

func (t Token) IsList() bool {
	return t == TokenShortList || t == TokenLongList
}

// Diff is the distance of prefix from the token's base offset: the payload size for
// short forms, the length-of-length for long forms.
func (t Token) Diff(prefix byte) byte {
	switch t {
	case TokenShortBlob:
		return prefix - shortStringOffset
	case TokenLongBlob:
		return prefix - longStringOffset
	case TokenShortList:
		return prefix - shortListOffset
	case TokenLongList:
		return prefix - longListOffset
	default:
		return 0
	}
}

func identifyToken(b byte) Token {
	switch {
	case b < shortStringOffset:
		return TokenDecimal
	case b <= longStringOffset:
		return TokenShortBlob
	case b < shortListOffset:
		return TokenLongBlob
	case b <= longListOffset:
		return TokenShortList
	default:
		return TokenLongList
	}
}
