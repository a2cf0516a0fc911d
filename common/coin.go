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

package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

const (
	CoinSymbolLength = 10
	minSymbolLength  = 3

	// PipDecimals is the number of fractional digits of a coin unit; amounts on the
	// wire are integers of pip.
	PipDecimals = 18
)

var (
	ErrInvalidCoinSymbol = errors.New("invalid coin symbol")
	ErrInvalidAmount     = errors.New("invalid amount")
)

// CoinSymbol is a ticker right-padded with zero bytes to CoinSymbolLength.
type CoinSymbol [CoinSymbolLength]byte

// ParseCoinSymbol accepts 3 to 10 upper case latin letters and digits.
func ParseCoinSymbol(s string) (CoinSymbol, error) {
	var c CoinSymbol
	if len(s) < minSymbolLength || len(s) > CoinSymbolLength {
		return c, fmt.Errorf("%w: %q: length %d", ErrInvalidCoinSymbol, s, len(s))
	}
	for i := 0; i < len(s); i++ {
		if ch := s[i]; !(ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9') {
			return c, fmt.Errorf("%w: %q: character %q", ErrInvalidCoinSymbol, s, ch)
		}
	}
	copy(c[:], s)
	return c, nil
}

// CoinFromBytes reads a padded symbol as found in payloads.
func CoinFromBytes(b []byte) (CoinSymbol, error) {
	var c CoinSymbol
	if len(b) != CoinSymbolLength {
		return c, fmt.Errorf("%w: %d bytes", ErrInvalidCoinSymbol, len(b))
	}
	copy(c[:], b)
	return c, nil
}

func (c CoinSymbol) Bytes() []byte { return c[:] }

func (c CoinSymbol) String() string { return strings.TrimRight(string(c[:]), "\x00") }

func (c CoinSymbol) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *CoinSymbol) UnmarshalText(input []byte) error {
	parsed, err := ParseCoinSymbol(string(input))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseAmount converts a decimal amount of coin units into pip, e.g. "1.5" becomes
// 1500000000000000000.
func ParseAmount(s string) (*uint256.Int, error) {
	whole, frac, hasPoint := strings.Cut(s, ".")
	if whole == "" && frac == "" || hasPoint && frac == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if len(frac) > PipDecimals {
		return nil, fmt.Errorf("%w: %q: more than %d decimals", ErrInvalidAmount, s, PipDecimals)
	}
	digits := strings.TrimLeft(whole+frac+strings.Repeat("0", PipDecimals-len(frac)), "0")
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
	}
	if digits == "" {
		return new(uint256.Int), nil
	}
	v, err := uint256.FromDecimal(digits)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidAmount, s, err)
	}
	return v, nil
}

// FormatAmount renders pip as decimal coin units without trailing zeros.
func FormatAmount(pip *uint256.Int) string {
	digits := pip.Dec()
	if len(digits) <= PipDecimals {
		digits = strings.Repeat("0", PipDecimals-len(digits)+1) + digits
	}
	whole, frac := digits[:len(digits)-PipDecimals], strings.TrimRight(digits[len(digits)-PipDecimals:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}
