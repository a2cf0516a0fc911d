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
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/minter-tx/common"
	"github.com/erigontech/minter-tx/rlp/schema"
)

const (
	testAddr1  = "Mxee81347211c72524338f9680072af90744333146"
	testAddr2  = "Mxee81347211c72524338f9680072af90744333145"
	testPubKey = "Mpf9e036839a29f7fba2d5394bd489eda927ccb95acc99e506e688e4888082b3a3"
)

func TestTxTypeRegistry(t *testing.T) {
	for typ, name := range txTypeNames {
		t.Run(name, func(t *testing.T) {
			s, err := LookupSchema(typ)
			require.NoError(t, err)
			require.Equal(t, name, s.Name())

			for _, in := range []string{name, strings.ToUpper(name), fmt.Sprintf("%d", byte(typ)), fmt.Sprintf("0x%02x", byte(typ))} {
				parsed, err := ParseTxType(in)
				require.NoError(t, err, in)
				require.Equal(t, typ, parsed)
			}
		})
	}
	require.Len(t, txTypeNames, 14)

	for _, code := range []TxType{0x00, 0x0F, 0x10, 0xFF} {
		_, err := LookupSchema(code)
		require.ErrorIs(t, err, ErrUnknownTxType)
		var typeErr *UnknownTypeError
		require.ErrorAs(t, err, &typeErr)
		require.Equal(t, code, typeErr.Type)
	}
	for _, in := range []string{"", "bogus", "15", "0x0f", "300", "-1"} {
		_, err := ParseTxType(in)
		require.ErrorIs(t, err, ErrUnknownTxType, in)
	}
}

func TestTxTypeText(t *testing.T) {
	text, err := CreateMultisigTxType.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "create_multisig", string(text))

	var back TxType
	require.NoError(t, back.UnmarshalText(text))
	require.Equal(t, CreateMultisigTxType, back)

	_, err = TxType(0x42).MarshalText()
	require.ErrorIs(t, err, ErrUnknownTxType)
	require.Equal(t, "unknown(0x42)", TxType(0x42).String())
}

func TestCreateMultisigVector(t *testing.T) {
	addresses := []string{
		"0xee81347211c72524338f9680072af90744333146",
		"0xee81347211c72524338f9680072af90744333145",
		"0xee81347211c72524338f9680072af90744333144",
	}
	tests := []struct {
		threshold uint64
		weights   []uint64
		expect    string
	}{
		{
			threshold: 7,
			weights:   []uint64{1, 3, 5},
			expect:    "f84607c3010305f83f94ee81347211c72524338f9680072af9074433314694ee81347211c72524338f9680072af9074433314594ee81347211c72524338f9680072af90744333144",
		},
		{
			threshold: 350,
			weights:   []uint64{33, 55, 557},
			expect:    "f84a82015ec5213782022df83f94ee81347211c72524338f9680072af9074433314694ee81347211c72524338f9680072af9074433314594ee81347211c72524338f9680072af90744333144",
		},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("threshold_%d", tt.threshold), func(t *testing.T) {
			weights := make([]any, len(tt.weights))
			for i, w := range tt.weights {
				weights[i] = w
			}
			data, err := NewTxData(CreateMultisigTxType, map[string]any{
				"addresses": addresses,
				"weights":   weights,
				"threshold": tt.threshold,
			})
			require.NoError(t, err)
			require.Equal(t, tt.expect, hex.EncodeToString(data.Encode()))

			var addrs []common.Address
			for _, a := range addresses {
				addr, err := common.ParseAddress(a)
				require.NoError(t, err)
				addrs = append(addrs, addr)
			}
			typed := NewCreateMultisigData(tt.threshold, tt.weights, addrs)
			require.True(t, data.Equal(typed))

			decoded, err := DecodeTxData(CreateMultisigTxType, data.Encode())
			require.NoError(t, err)
			ms, err := decoded.CreateMultisig()
			require.NoError(t, err)
			require.Equal(t, CreateMultisigData{Threshold: tt.threshold, Weights: tt.weights, Addresses: addrs}, ms)
		})
	}
}

func TestSellVector(t *testing.T) {
	data, err := NewTxData(SellTxType, map[string]any{
		"coin_to_sell":  "MNT",
		"value_to_sell": 10,
		"coin_to_buy":   "BELTCOIN",
	})
	require.NoError(t, err)
	require.Equal(t, "d78a4d4e54000000000000000a8a42454c54434f494e0000", hex.EncodeToString(data.Encode()))

	rec := data.Record()
	require.Equal(t, []byte{77, 78, 84, 0, 0, 0, 0, 0, 0, 0}, rec.Bytes("coin_to_sell"))
	require.Equal(t, []byte{10}, rec.Bytes("value_to_sell"))
	require.Equal(t, []byte{66, 69, 76, 84, 67, 79, 73, 78, 0, 0}, rec.Bytes("coin_to_buy"))
}

func catalogInputs() map[TxType]map[string]any {
	return map[TxType]map[string]any{
		SendTxType:    {"to": testAddr1, "coin": "MNT", "value": "1.5"},
		SellTxType:    {"coin_to_sell": "MNT", "value_to_sell": "10", "coin_to_buy": "BELTCOIN"},
		SellAllTxType: {"coin_to_sell": "MNT", "coin_to_buy": "BELTCOIN"},
		BuyTxType:     {"coin_to_buy": "BELTCOIN", "value_to_buy": "0.001", "coin_to_sell": "MNT"},
		CreateCoinTxType: {
			"name": "Belt coin", "symbol": "BELTCOIN", "initial_amount": "1000",
			"initial_reserve": "10000", "constant_reserve_ratio": "50",
		},
		DeclareCandidacyTxType: {"address": testAddr1, "pub_key": testPubKey, "commission": "10", "coin": "MNT", "stake": "5"},
		DelegateTxType:         {"pub_key": testPubKey, "coin": "MNT", "stake": "5"},
		UnbondTxType:           {"pub_key": testPubKey, "coin": "MNT", "value": "5"},
		RedeemCheckTxType: {
			"check": "0xf8ae3102",
			"proof": "0x" + strings.Repeat("ab", 65),
		},
		SetCandidateOnTxType:  {"pub_key": testPubKey},
		SetCandidateOffTxType: {"pub_key": testPubKey},
		CreateMultisigTxType:  {"threshold": "7", "weights": []any{"1", "3", "5"}, "addresses": []any{testAddr1, testAddr2, testAddr1}},
		MultisendTxType: {"list": []any{
			map[string]any{"to": testAddr1, "coin": "MNT", "value": "1"},
			map[string]any{"to": testAddr2, "coin": "BELTCOIN", "value": "0.5"},
		}},
		EditCandidateTxType: {"pub_key": testPubKey, "reward_address": testAddr1, "owner_address": testAddr2},
	}
}

func TestPayloadCatalogRoundTrip(t *testing.T) {
	inputs := catalogInputs()
	require.Len(t, inputs, len(txTypeNames))
	for typ, values := range inputs {
		t.Run(typ.String(), func(t *testing.T) {
			data, err := NewTxData(typ, values)
			require.NoError(t, err)
			require.Equal(t, typ, data.Type())

			decoded, err := DecodeTxData(typ, data.Encode())
			require.NoError(t, err)
			require.True(t, data.Equal(decoded))

			// application level rendering converts back to the same payload
			again, err := NewTxData(typ, decoded.Fields())
			require.NoError(t, err)
			require.True(t, data.Equal(again), "fields %v", decoded.Fields())
		})
	}
}

func TestPayloadFields(t *testing.T) {
	data, err := NewTxData(MultisendTxType, catalogInputs()[MultisendTxType])
	require.NoError(t, err)
	fields := data.Fields()
	list := fields["list"].([]any)
	require.Len(t, list, 2)
	second := list[1].(map[string]any)
	assert.Equal(t, testAddr2, second["to"])
	assert.Equal(t, "BELTCOIN", second["coin"])
	assert.Equal(t, "0.5", second["value"])

	sends, err := data.Multisend()
	require.NoError(t, err)
	require.Len(t, sends, 2)
	assert.Equal(t, "500000000000000000", sends[1].Value.Dec())
	assert.Equal(t, testAddr2, sends[1].To.String())

	_, err = data.Send()
	require.ErrorIs(t, err, ErrWrongTxType)
	_, err = data.CreateMultisig()
	require.ErrorIs(t, err, ErrWrongTxType)

	again := NewMultisendData(sends)
	require.True(t, data.Equal(again))
}

func TestNewTxDataErrors(t *testing.T) {
	tests := []struct {
		name   string
		typ    TxType
		values map[string]any
		field  string
		err    error
	}{
		{name: "bad prefix", typ: SendTxType, values: map[string]any{"to": "Mp00", "coin": "MNT"}, field: "to", err: common.ErrInvalidPrefix},
		{name: "bad coin", typ: SendTxType, values: map[string]any{"to": testAddr1, "coin": "mnt"}, field: "coin", err: common.ErrInvalidCoinSymbol},
		{name: "bad amount", typ: SendTxType, values: map[string]any{"to": testAddr1, "coin": "MNT", "value": "1,5"}, field: "value", err: common.ErrInvalidAmount},
		{name: "unknown field", typ: SendTxType, values: map[string]any{"to": testAddr1, "coin": "MNT", "memo": "x"}, field: "memo", err: schema.ErrUnknownField},
		{name: "missing field", typ: DelegateTxType, values: map[string]any{"coin": "MNT"}, field: "pub_key", err: schema.ErrMissingField},
		{name: "ratio too wide", typ: CreateCoinTxType, values: map[string]any{"name": "x", "symbol": "ABC", "constant_reserve_ratio": 256}, field: "constant_reserve_ratio", err: schema.ErrInvalidLength},
		{name: "nested", typ: MultisendTxType, values: map[string]any{"list": []any{map[string]any{"to": "Mp00"}}}, field: "list", err: common.ErrInvalidPrefix},
		{name: "short proof", typ: RedeemCheckTxType, values: map[string]any{"proof": "0xabcd"}, field: "proof", err: schema.ErrInvalidLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTxData(tt.typ, tt.values)
			require.ErrorIs(t, err, tt.err)
			var schemaErr *schema.SchemaError
			require.ErrorAs(t, err, &schemaErr)
			require.Equal(t, tt.field, schemaErr.Field)
		})
	}

	_, err := NewTxData(0x33, nil)
	require.ErrorIs(t, err, ErrUnknownTxType)
	_, err = DecodeTxData(0x33, []byte{0xc0})
	require.ErrorIs(t, err, ErrUnknownTxType)
}
