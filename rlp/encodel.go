/*
   Copyright 2021 Erigon contributors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package rlp

import (
	"math/bits"
)

// General design:
//      - rlp package doesn't manage memory - and Caller must ensure buffers are big enough.
//      - no io.Writer, because it's incompatible with binary.BigEndian functions and Writer can't be used as temporary buffer
//
// Composition:
//     - each Encode method does write to given buffer and return written len
//     - each *Len method returns the full encoded size, so a caller can size the buffer up front
//
// General rules:
//      - functions to calculate prefix len are fast (and pure). it's ok to call them multiple times during encoding of large object for readability.
//      - rlp has 2 data types: List and String (bytes array), and low-level funcs are operate with this types.
//

const (
	shortStringOffset = 0x80
	longStringOffset  = 0xb7
	shortListOffset   = 0xc0
	longListOffset    = 0xf7

	// payloads shorter than this are encoded with a single prefix byte
	shortPayloadLimit = 56
)

// beLen is the number of bytes needed for the big-endian form of n
func beLen(n uint64) int {
	return (bits.Len64(n) + 7) / 8
}

// putBE writes the minimal big-endian form of n, which must be exactly size bytes long
func putBE(to []byte, n uint64, size int) {
	_ = to[size-1]
	for i := size - 1; i >= 0; i-- {
		to[i] = byte(n)
		n >>= 8
	}
}

func ListPrefixLen(dataLen int) int {
	if dataLen >= shortPayloadLimit {
		return 1 + beLen(uint64(dataLen))
	}
	return 1
}

func EncodeListPrefix(dataLen int, to []byte) int {
	if dataLen >= shortPayloadLimit {
		l := beLen(uint64(dataLen))
		to[0] = longListOffset + byte(l)
		putBE(to[1:], uint64(dataLen), l)
		return 1 + l
	}
	to[0] = shortListOffset + byte(dataLen)
	return 1
}

// ListLen is the encoded size of a list whose items take dataLen bytes
func ListLen(dataLen int) int {
	return ListPrefixLen(dataLen) + dataLen
}

func StringPrefixLen(s []byte) int {
	switch {
	case len(s) == 1 && s[0] < shortStringOffset:
		return 0
	case len(s) >= shortPayloadLimit:
		return 1 + beLen(uint64(len(s)))
	default:
		return 1
	}
}

// StringLen is the encoded size of s, prefix included
func StringLen(s []byte) int {
	return StringPrefixLen(s) + len(s)
}

func EncodeString(s []byte, to []byte) int {
	switch {
	case len(s) >= shortPayloadLimit:
		l := beLen(uint64(len(s)))
		_ = to[l+len(s)]
		to[0] = longStringOffset + byte(l)
		putBE(to[1:], uint64(len(s)), l)
		copy(to[1+l:], s)
		return 1 + l + len(s)
	case len(s) == 0:
		to[0] = shortStringOffset
		return 1
	case len(s) == 1 && s[0] < shortStringOffset:
		to[0] = s[0]
		return 1
	default: // 1<=s<56
		_ = to[len(s)]
		to[0] = shortStringOffset + byte(len(s))
		copy(to[1:], s)
		return 1 + len(s)
	}
}

func U64Len(i uint64) int {
	if i >= shortStringOffset {
		return 1 + beLen(i)
	}
	return 1
}

func EncodeU64(i uint64, to []byte) int {
	if i >= shortStringOffset {
		l := beLen(i)
		to[0] = shortStringOffset + byte(l)
		putBE(to[1:], i, l)
		return 1 + l
	}
	if i == 0 {
		to[0] = shortStringOffset
		return 1
	}
	to[0] = byte(i)
	return 1
}

// EncodeToBytes returns the encoding of a single string
func EncodeToBytes(s []byte) []byte {
	out := make([]byte, StringLen(s))
	EncodeString(s, out)
	return out
}
