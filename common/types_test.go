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
	"encoding/hex"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	const want = "Mx376615b9a3187747dc7c32e51723515ee62e37dc"
	for _, in := range []string{
		"Mx376615B9A3187747dC7c32e51723515Ee62e37Dc",
		"mx376615b9a3187747dc7c32e51723515ee62e37dc",
		"0x376615b9a3187747dc7c32e51723515ee62e37dc",
	} {
		a, err := ParseAddress(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, a.String())
		assert.Equal(t, "0x376615b9a3187747dc7c32e51723515ee62e37dc", a.Hex())
	}

	for _, in := range []string{
		"Mp376615b9a3187747dc7c32e51723515ee62e37dc",
		"376615b9a3187747dc7c32e51723515ee62e37dc",
		"Mx376615b9a3187747dc7c32e51723515ee62e37",
		"Mx376615b9a3187747dc7c32e51723515ee62e37dc00",
		"Mxzz6615b9a3187747dc7c32e51723515ee62e37dc",
		"",
	} {
		_, err := ParseAddress(in)
		assert.Error(t, err, in)
	}
	_, err := ParseAddress("Mp376615b9a3187747dc7c32e51723515ee62e37dc")
	require.ErrorIs(t, err, ErrInvalidPrefix)
}

func TestAddressText(t *testing.T) {
	a := BytesToAddress([]byte{1, 2, 3})
	text, err := a.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "Mx0000000000000000000000000000000000010203", string(text))

	var back Address
	require.NoError(t, back.UnmarshalText(text))
	require.Equal(t, a, back)
}

func TestParsePublicKey(t *testing.T) {
	const in = "Mpf9e036839a29f7fba2d5394bd489eda927ccb95acc99e506e688e4888082b3a3"
	p, err := ParsePublicKey(in)
	require.NoError(t, err)
	require.Equal(t, in, p.String())
	require.Equal(t, byte(0xf9), p[0])

	_, err = ParsePublicKey("Mpf9e036")
	require.Error(t, err)
}

func TestHash(t *testing.T) {
	h := BytesToHash([]byte{0xab})
	require.Equal(t, "Mt00000000000000000000000000000000000000000000000000000000000000ab", h.String())
	require.Equal(t, "0x00000000000000000000000000000000000000000000000000000000000000ab", h.Hex())

	text, err := h.MarshalText()
	require.NoError(t, err)
	var back Hash
	require.NoError(t, back.UnmarshalText(text))
	require.Equal(t, h, back)

	long := make([]byte, 40)
	long[39] = 1
	require.Equal(t, byte(1), BytesToHash(long)[31])
}

func TestCoinSymbol(t *testing.T) {
	tests := []struct {
		in  string
		hex string
		err bool
	}{
		{in: "MNT", hex: "4d4e5400000000000000"},
		{in: "BELTCOIN", hex: "42454c54434f494e0000"},
		{in: "ABCDEFGHIJ", hex: "4142434445464748494a"},
		{in: "mnt", err: true},
		{in: "AB", err: true},
		{in: "ABCDEFGHIJK", err: true},
		{in: "MN T", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseCoinSymbol(tt.in)
			if tt.err {
				require.ErrorIs(t, err, ErrInvalidCoinSymbol)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.hex, hex.EncodeToString(c.Bytes()))
			require.Equal(t, tt.in, c.String())

			back, err := CoinFromBytes(c.Bytes())
			require.NoError(t, err)
			require.Equal(t, c, back)
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  bool
	}{
		{in: "1", want: "1000000000000000000"},
		{in: "1.5", want: "1500000000000000000"},
		{in: ".5", want: "500000000000000000"},
		{in: "0.000000000000000001", want: "1"},
		{in: "0", want: "0"},
		{in: "000", want: "0"},
		{in: "100000", want: "100000000000000000000000"},
		{in: "", err: true},
		{in: ".", err: true},
		{in: "1.", err: true},
		{in: "-1", err: true},
		{in: "1e18", err: true},
		{in: "1.0000000000000000001", err: true},
		{in: "1000000000000000000000000000000000000000000000000000000000000000000000000000000", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := ParseAmount(tt.in)
			if tt.err {
				require.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, v.Dec())
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		pip  *uint256.Int
		want string
	}{
		{pip: uint256.NewInt(0), want: "0"},
		{pip: uint256.NewInt(1), want: "0.000000000000000001"},
		{pip: uint256.NewInt(1500000000000000000), want: "1.5"},
		{pip: uint256.NewInt(10000000000000000000), want: "10"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.pip))
		back, err := ParseAmount(tt.want)
		require.NoError(t, err)
		assert.Equal(t, tt.pip, back)
	}
}
