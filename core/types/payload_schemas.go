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
	"github.com/erigontech/minter-tx/common"
	"github.com/erigontech/minter-tx/rlp/schema"
)

// fieldKind tells how an application level value maps onto a payload field.
type fieldKind uint8

const (
	kindBytes   fieldKind = iota // hex string or raw bytes
	kindText                     // UTF-8 string stored as is
	kindAddress                  // Mx address
	kindPubKey                   // Mp public key
	kindCoin                     // coin symbol
	kindAmount                   // pip, or decimal coin units when given as a string
	kindUint                     // plain integer
	kindRecord                   // nested payload
)

type payloadField struct {
	kind   fieldKind
	spec   schema.FieldSpec
	record *payloadSchema
}

// payloadSchema pairs a wire layout with the input kinds of its fields.
type payloadSchema struct {
	*schema.Schema
	fields []payloadField
}

func newPayloadSchema(name string, fields ...payloadField) *payloadSchema {
	specs := make([]schema.FieldSpec, len(fields))
	for i, f := range fields {
		specs[i] = f.spec
	}
	return &payloadSchema{Schema: schema.MustNewSchema(name, specs...), fields: fields}
}

func (p *payloadSchema) field(name string) (payloadField, bool) {
	i, ok := p.Index(name)
	if !ok {
		return payloadField{}, false
	}
	return p.fields[i], true
}

func addressField(name string) payloadField {
	return payloadField{kind: kindAddress, spec: schema.FieldSpec{Name: name, Length: common.AddressLength}}
}

func pubKeyField(name string) payloadField {
	return payloadField{kind: kindPubKey, spec: schema.FieldSpec{Name: name, Length: common.PublicKeyLength}}
}

func coinField(name string) payloadField {
	return payloadField{kind: kindCoin, spec: schema.FieldSpec{Name: name, Length: common.CoinSymbolLength}}
}

func amountField(name string) payloadField {
	return payloadField{kind: kindAmount, spec: schema.FieldSpec{Name: name, Length: 32, AllowLess: true}}
}

func uintField(name string, length int) payloadField {
	return payloadField{kind: kindUint, spec: schema.FieldSpec{Name: name, Length: length, AllowLess: true}}
}

func arrayField(name string, elem payloadField) payloadField {
	spec := elem.spec
	spec.Name = ""
	return payloadField{kind: elem.kind, spec: schema.FieldSpec{Name: name, Elem: &spec}}
}

func recordField(name string, record *payloadSchema) payloadField {
	return payloadField{kind: kindRecord, spec: schema.FieldSpec{Name: name, Record: record.Schema}, record: record}
}

var (
	sendPayload = newPayloadSchema("send",
		addressField("to"),
		coinField("coin"),
		amountField("value"),
	)
	sellPayload = newPayloadSchema("sell",
		coinField("coin_to_sell"),
		amountField("value_to_sell"),
		coinField("coin_to_buy"),
	)
	sellAllPayload = newPayloadSchema("sell_all",
		coinField("coin_to_sell"),
		coinField("coin_to_buy"),
	)
	buyPayload = newPayloadSchema("buy",
		coinField("coin_to_buy"),
		amountField("value_to_buy"),
		coinField("coin_to_sell"),
	)
	createCoinPayload = newPayloadSchema("create_coin",
		payloadField{kind: kindText, spec: schema.FieldSpec{Name: "name"}},
		coinField("symbol"),
		amountField("initial_amount"),
		amountField("initial_reserve"),
		uintField("constant_reserve_ratio", 1),
	)
	declareCandidacyPayload = newPayloadSchema("declare_candidacy",
		addressField("address"),
		pubKeyField("pub_key"),
		uintField("commission", 1),
		coinField("coin"),
		amountField("stake"),
	)
	delegatePayload = newPayloadSchema("delegate",
		pubKeyField("pub_key"),
		coinField("coin"),
		amountField("stake"),
	)
	unbondPayload = newPayloadSchema("unbond",
		pubKeyField("pub_key"),
		coinField("coin"),
		amountField("value"),
	)
	redeemCheckPayload = newPayloadSchema("redeem_check",
		payloadField{kind: kindBytes, spec: schema.FieldSpec{Name: "check", AllowZero: true}},
		payloadField{kind: kindBytes, spec: schema.FieldSpec{Name: "proof", Length: 65, AllowZero: true}},
	)
	setCandidateOnPayload = newPayloadSchema("set_candidate_on",
		pubKeyField("pub_key"),
	)
	setCandidateOffPayload = newPayloadSchema("set_candidate_off",
		pubKeyField("pub_key"),
	)
	createMultisigPayload = newPayloadSchema("create_multisig",
		uintField("threshold", 32),
		arrayField("weights", uintField("", 32)),
		arrayField("addresses", addressField("")),
	)
	multisendPayload = newPayloadSchema("multisend",
		recordField("list", sendPayload),
	)
	editCandidatePayload = newPayloadSchema("edit_candidate",
		pubKeyField("pub_key"),
		addressField("reward_address"),
		addressField("owner_address"),
	)
)
