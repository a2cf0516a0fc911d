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
	"bytes"
	"fmt"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/erigontech/minter-tx/common"
	"github.com/erigontech/minter-tx/crypto"
	"github.com/erigontech/minter-tx/params"
	"github.com/erigontech/minter-tx/rlp/schema"
)

// signingFields is the number of leading envelope fields covered by SigningHash.
const signingFields = 6

var txSchema = schema.MustNewSchema("transaction",
	schema.FieldSpec{Name: "nonce", Length: 32, AllowLess: true},
	schema.FieldSpec{Name: "gasPrice", Length: 32, AllowLess: true},
	schema.FieldSpec{Name: "type", Length: 1, AllowLess: true},
	schema.FieldSpec{Name: "data", Alias: "input", AllowZero: true},
	schema.FieldSpec{Name: "payload", AllowZero: true},
	schema.FieldSpec{Name: "serviceData", AllowZero: true},
	schema.FieldSpec{Name: "v", Length: 1, AllowLess: true, AllowZero: true, Default: []byte{params.DefaultSignatureV}},
	schema.FieldSpec{Name: "r", Length: 32, AllowLess: true, AllowZero: true},
	schema.FieldSpec{Name: "s", Length: 32, AllowLess: true, AllowZero: true},
)

// TxParams are the unsigned envelope fields.
type TxParams struct {
	Nonce       *uint256.Int
	GasPrice    *uint256.Int
	Type        TxType
	Payload     []byte // type specific data, see TxData
	ExtraData   []byte // free form memo
	ServiceData []byte
}

// Transaction is a signed or unsigned transaction envelope.
//
// SetSignature must not race with other calls; once signed, a Transaction is safe for
// concurrent readers.
type Transaction struct {
	rec *schema.Record

	// cache
	from atomic.Pointer[sender]
}

type sender struct {
	pub  []byte
	addr common.Address
}

// NewTransaction builds an unsigned transaction. The payload must be the canonical
// encoding of a payload of p.Type.
func NewTransaction(p TxParams) (*Transaction, error) {
	payloadSchema, err := LookupSchema(p.Type)
	if err != nil {
		return nil, err
	}
	if err := checkPayload(payloadSchema, p.Payload); err != nil {
		return nil, err
	}
	rec, err := schema.New(txSchema, schema.Values{
		"nonce":       p.Nonce,
		"gasPrice":    p.GasPrice,
		"type":        byte(p.Type),
		"data":        p.Payload,
		"payload":     p.ExtraData,
		"serviceData": p.ServiceData,
	})
	if err != nil {
		return nil, err
	}
	return &Transaction{rec: rec}, nil
}

// BuildTransaction wraps a payload into an unsigned transaction.
func BuildTransaction(data *TxData, nonce, gasPrice *uint256.Int, extra []byte) (*Transaction, error) {
	return NewTransaction(TxParams{
		Nonce:     nonce,
		GasPrice:  gasPrice,
		Type:      data.Type(),
		Payload:   data.Encode(),
		ExtraData: extra,
	})
}

func checkPayload(s *schema.Schema, payload []byte) error {
	rec, err := schema.Decode(s, payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if !bytes.Equal(rec.Encode(), payload) {
		return fmt.Errorf("%w: %s payload is not canonical", ErrMalformedPayload, s.Name())
	}
	return nil
}

// DecodeTransaction parses a transaction from its canonical encoding. The type code and
// payload are not checked here, see Validate.
func DecodeTransaction(b []byte) (*Transaction, error) {
	rec, err := schema.Decode(txSchema, b)
	if err != nil {
		return nil, err
	}
	return &Transaction{rec: rec}, nil
}

func (tx *Transaction) Nonce() *uint256.Int    { return tx.rec.Uint256("nonce") }
func (tx *Transaction) GasPrice() *uint256.Int { return tx.rec.Uint256("gasPrice") }

func (tx *Transaction) Type() TxType {
	t, _ := tx.rec.Uint64("type")
	return TxType(t)
}

// Payload returns the type specific data, the "data" field on the wire.
func (tx *Transaction) Payload() []byte { return tx.rec.Bytes("data") }

// ExtraData returns the memo, the "payload" field on the wire.
func (tx *Transaction) ExtraData() []byte { return tx.rec.Bytes("payload") }

func (tx *Transaction) ServiceData() []byte { return tx.rec.Bytes("serviceData") }

// RawSignatureValues returns the V, R, S signature values of the transaction.
func (tx *Transaction) RawSignatureValues() (v, r, s *uint256.Int) {
	return tx.rec.Uint256("v"), tx.rec.Uint256("r"), tx.rec.Uint256("s")
}

// IsSigned reports whether r and s are present.
func (tx *Transaction) IsSigned() bool {
	return len(tx.rec.Bytes("r")) > 0 && len(tx.rec.Bytes("s")) > 0
}

// TxData decodes the payload according to the transaction type.
func (tx *Transaction) TxData() (*TxData, error) {
	return DecodeTxData(tx.Type(), tx.Payload())
}

// SigningHash is the digest signed by the sender. It covers the first six fields and
// none of v, r, s.
func (tx *Transaction) SigningHash() common.Hash {
	return crypto.Keccak256Hash(tx.rec.EncodePrefix(signingFields))
}

// Hash identifies the transaction including its signature.
func (tx *Transaction) Hash() common.Hash {
	return crypto.Keccak256Hash(tx.rec.Encode())
}

// SetSignature replaces the signature values.
func (tx *Transaction) SetSignature(v, r, s *uint256.Int) error {
	rec := tx.rec.Copy()
	for _, f := range []struct {
		name string
		val  *uint256.Int
	}{{"v", v}, {"r", r}, {"s", s}} {
		if err := rec.Set(f.name, f.val); err != nil {
			return err
		}
	}
	tx.rec = rec
	tx.from.Store(nil)
	return nil
}

// Copy creates a deep copy of the transaction without the sender cache.
func (tx *Transaction) Copy() *Transaction {
	return &Transaction{rec: tx.rec.Copy()}
}

// EncodingSize returns the length of MarshalBinary's output.
func (tx *Transaction) EncodingSize() int { return tx.rec.EncodingSize() }

func (tx *Transaction) MarshalBinary() ([]byte, error) {
	return tx.rec.Encode(), nil
}

func (tx *Transaction) UnmarshalBinary(b []byte) error {
	dec, err := DecodeTransaction(b)
	if err != nil {
		return err
	}
	tx.rec = dec.rec
	tx.from.Store(nil)
	return nil
}

// MarshalText returns the 0x prefixed hex form nodes accept.
func (tx *Transaction) MarshalText() ([]byte, error) {
	b, err := tx.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return hexutil.Bytes(b).MarshalText()
}

func (tx *Transaction) UnmarshalText(input []byte) error {
	var b hexutil.Bytes
	if err := b.UnmarshalText(input); err != nil {
		return err
	}
	return tx.UnmarshalBinary(b)
}

func (tx *Transaction) String() string {
	return fmt.Sprintf("tx{type=%s nonce=%s hash=%s}", tx.Type(), tx.Nonce().Dec(), tx.Hash())
}
