// Copyright 2015 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Lengths of hashes, addresses and validator public keys in bytes.
const (
	HashLength      = 32
	AddressLength   = 20
	PublicKeyLength = 32
)

// Human readable prefixes of the protocol.
const (
	AddressPrefix   = "Mx"
	PublicKeyPrefix = "Mp"
	TxHashPrefix    = "Mt"
)

var ErrInvalidPrefix = errors.New("invalid prefix")

/////////// Hash

// Hash represents the 32 byte Keccak256 hash of arbitrary data.
type Hash [HashLength]byte

// BytesToHash sets b to hash.
// If b is larger than len(h), b will be cropped from the left.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// SetBytes sets the hash to the value of b.
// If b is larger than len(h), b will be cropped from the left.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

func (h Hash) Bytes() []byte { return h[:] }

// Hex converts a hash to a 0x prefixed hex string.
func (h Hash) Hex() string { return hexutil.Encode(h[:]) }

// String renders the hash the way explorers show transaction ids.
func (h Hash) String() string { return TxHashPrefix + hexutil.Encode(h[:])[2:] }

// TerminalString implements log.TerminalStringer, formatting a string for console
// output during logging.
func (h Hash) TerminalString() string {
	return fmt.Sprintf("%x..%x", h[:3], h[29:])
}

func (h Hash) MarshalText() ([]byte, error) { return hexutil.Bytes(h[:]).MarshalText() }

func (h *Hash) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("Hash", input, h[:])
}

/////////// Address

// Address is the 20 byte account address derived from a public key.
type Address [AddressLength]byte

// BytesToAddress returns Address with value b.
// If b is larger than len(h), b will be cropped from the left.
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

func (a *Address) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

func (a Address) Bytes() []byte { return a[:] }

// Hex returns the 0x prefixed form.
func (a Address) Hex() string { return hexutil.Encode(a[:]) }

// String returns the Mx prefixed form.
func (a Address) String() string { return AddressPrefix + hexutil.Encode(a[:])[2:] }

func (a Address) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Address) UnmarshalText(input []byte) error {
	parsed, err := ParseAddress(string(input))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress accepts Mx or 0x prefixed hex of exactly 20 bytes.
func ParseAddress(s string) (Address, error) {
	var a Address
	b, err := decodePrefixed(s, AddressPrefix)
	if err != nil {
		return a, fmt.Errorf("address %q: %w", s, err)
	}
	if len(b) != AddressLength {
		return a, fmt.Errorf("address %q: %d bytes, want %d", s, len(b), AddressLength)
	}
	copy(a[:], b)
	return a, nil
}

/////////// PublicKey

// PublicKey is a validator public key as used by staking payloads.
type PublicKey [PublicKeyLength]byte

func (p PublicKey) Bytes() []byte { return p[:] }

func (p PublicKey) String() string { return PublicKeyPrefix + hexutil.Encode(p[:])[2:] }

func (p PublicKey) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *PublicKey) UnmarshalText(input []byte) error {
	parsed, err := ParsePublicKey(string(input))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePublicKey accepts Mp or 0x prefixed hex of exactly 32 bytes.
func ParsePublicKey(s string) (PublicKey, error) {
	var p PublicKey
	b, err := decodePrefixed(s, PublicKeyPrefix)
	if err != nil {
		return p, fmt.Errorf("public key %q: %w", s, err)
	}
	if len(b) != PublicKeyLength {
		return p, fmt.Errorf("public key %q: %d bytes, want %d", s, len(b), PublicKeyLength)
	}
	copy(p[:], b)
	return p, nil
}

func decodePrefixed(s, prefix string) ([]byte, error) {
	switch {
	case len(s) >= 2 && strings.EqualFold(s[:2], prefix):
		s = "0x" + s[2:]
	case has0xPrefix(s):
	default:
		return nil, fmt.Errorf("%w: want %s or 0x", ErrInvalidPrefix, prefix)
	}
	return hexutil.Decode(s)
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
