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
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/erigontech/minter-tx/common"
	"github.com/erigontech/minter-tx/rlp/schema"
)

// TxData is the decoded type specific payload of a transaction.
type TxData struct {
	txType TxType
	rec    *schema.Record
}

// NewTxData builds a payload of type t from application level values: Mx addresses,
// Mp public keys, coin symbols, and amounts as pip integers or decimal coin strings.
// Values of the wire form ([]byte, common.Address, *uint256.Int, ...) pass through.
func NewTxData(t TxType, values map[string]any) (*TxData, error) {
	p, err := lookupPayload(t)
	if err != nil {
		return nil, err
	}
	converted, err := p.convert(values)
	if err != nil {
		return nil, err
	}
	rec, err := schema.New(p.Schema, converted)
	if err != nil {
		return nil, err
	}
	return &TxData{txType: t, rec: rec}, nil
}

// DecodeTxData parses payload bytes of type t.
func DecodeTxData(t TxType, b []byte) (*TxData, error) {
	p, err := lookupPayload(t)
	if err != nil {
		return nil, err
	}
	rec, err := schema.Decode(p.Schema, b)
	if err != nil {
		return nil, err
	}
	return &TxData{txType: t, rec: rec}, nil
}

func (d *TxData) Type() TxType { return d.txType }

// Encode returns the canonical payload bytes as carried in the transaction data field.
func (d *TxData) Encode() []byte { return d.rec.Encode() }

// Record returns a copy of the underlying record.
func (d *TxData) Record() *schema.Record { return d.rec.Copy() }

func (d *TxData) Equal(other *TxData) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.txType == other.txType && d.rec.Equal(other.rec)
}

func (d *TxData) String() string {
	return fmt.Sprintf("%s%v", d.txType, d.Fields())
}

// Fields renders the payload with application level values, the inverse of NewTxData.
func (d *TxData) Fields() map[string]any {
	p, _ := lookupPayload(d.txType)
	return p.render(d.rec)
}

func (p *payloadSchema) convert(values map[string]any) (schema.Values, error) {
	out := make(schema.Values, len(values))
	for key, v := range values {
		f, ok := p.field(key)
		if !ok {
			// left for schema.New to report
			out[key] = v
			continue
		}
		var err error
		if out[key], err = f.convert(v); err != nil {
			return nil, &schema.SchemaError{Schema: p.Name(), Field: key, Err: err}
		}
	}
	return out, nil
}

func (f payloadField) convert(v any) (any, error) {
	switch {
	case f.kind == kindRecord:
		return convertList(v, func(item any) (any, error) {
			switch x := item.(type) {
			case map[string]any:
				return f.record.convert(x)
			case schema.Values:
				return f.record.convert(x)
			}
			return item, nil
		})
	case f.spec.Elem != nil:
		return convertList(v, func(item any) (any, error) { return convertScalar(f.kind, item) })
	default:
		return convertScalar(f.kind, v)
	}
}

// convertList converts the elements of generic lists; typed slices pass through.
func convertList(v any, fn func(any) (any, error)) (any, error) {
	var items []any
	switch x := v.(type) {
	case []any:
		items = x
	case []string:
		items = make([]any, len(x))
		for i, s := range x {
			items[i] = s
		}
	case []map[string]any:
		items = make([]any, len(x))
		for i, m := range x {
			items[i] = m
		}
	case []schema.Values:
		items = make([]any, len(x))
		for i, m := range x {
			items[i] = m
		}
	default:
		return v, nil
	}
	out := make([]any, len(items))
	for i, item := range items {
		var err error
		if out[i], err = fn(item); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return out, nil
}

func convertScalar(kind fieldKind, v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return v, nil
	}
	switch kind {
	case kindAddress:
		return common.ParseAddress(s)
	case kindPubKey:
		return common.ParsePublicKey(s)
	case kindCoin:
		return common.ParseCoinSymbol(s)
	case kindAmount:
		return common.ParseAmount(s)
	case kindUint:
		if strings.HasPrefix(s, "0x") {
			return uint256.FromHex(s)
		}
		return uint256.FromDecimal(s)
	case kindBytes:
		return hexutil.Decode(s)
	default:
		return []byte(s), nil
	}
}

func (p *payloadSchema) render(rec *schema.Record) map[string]any {
	out := make(map[string]any, len(p.fields))
	for _, f := range p.fields {
		name := f.spec.Name
		switch {
		case f.kind == kindRecord:
			records := rec.Records(name)
			list := make([]any, len(records))
			for i, r := range records {
				list[i] = f.record.render(r)
			}
			out[name] = list
		case f.spec.Elem != nil:
			items := rec.Items(name)
			list := make([]any, len(items))
			for i, b := range items {
				list[i] = renderScalar(f.kind, b)
			}
			out[name] = list
		default:
			out[name] = renderScalar(f.kind, rec.Bytes(name))
		}
	}
	return out
}

func renderScalar(kind fieldKind, b []byte) any {
	switch kind {
	case kindAddress:
		return common.BytesToAddress(b).String()
	case kindPubKey:
		var p common.PublicKey
		copy(p[:], b)
		return p.String()
	case kindCoin:
		c, _ := common.CoinFromBytes(b)
		return c.String()
	case kindAmount:
		return common.FormatAmount(new(uint256.Int).SetBytes(b))
	case kindUint:
		return new(uint256.Int).SetBytes(b).Dec()
	case kindText:
		return string(b)
	default:
		return hexutil.Bytes(b)
	}
}

// SendData is the payload of a coin transfer and of each multisend entry.
type SendData struct {
	To    common.Address
	Coin  common.CoinSymbol
	Value *uint256.Int
}

func (s SendData) values() schema.Values {
	return schema.Values{"to": s.To, "coin": s.Coin, "value": s.Value}
}

func NewSendData(to common.Address, coin common.CoinSymbol, value *uint256.Int) *TxData {
	return &TxData{txType: SendTxType, rec: schema.MustNew(sendPayload.Schema, SendData{To: to, Coin: coin, Value: value}.values())}
}

func (d *TxData) Send() (SendData, error) {
	if d.txType != SendTxType {
		return SendData{}, fmt.Errorf("%w: %s", ErrWrongTxType, d.txType)
	}
	return readSend(d.rec), nil
}

func readSend(rec *schema.Record) SendData {
	coin, _ := common.CoinFromBytes(rec.Bytes("coin"))
	return SendData{
		To:    common.BytesToAddress(rec.Bytes("to")),
		Coin:  coin,
		Value: rec.Uint256("value"),
	}
}

// CreateMultisigData is the payload creating a multisig account.
type CreateMultisigData struct {
	Threshold uint64
	Weights   []uint64
	Addresses []common.Address
}

func NewCreateMultisigData(threshold uint64, weights []uint64, addresses []common.Address) *TxData {
	rec := schema.MustNew(createMultisigPayload.Schema, schema.Values{
		"threshold": threshold,
		"weights":   weights,
		"addresses": addresses,
	})
	return &TxData{txType: CreateMultisigTxType, rec: rec}
}

func (d *TxData) CreateMultisig() (CreateMultisigData, error) {
	if d.txType != CreateMultisigTxType {
		return CreateMultisigData{}, fmt.Errorf("%w: %s", ErrWrongTxType, d.txType)
	}
	threshold, ok := d.rec.Uint64("threshold")
	if !ok {
		return CreateMultisigData{}, fmt.Errorf("threshold %s overflows uint64", d.rec.Uint256("threshold"))
	}
	out := CreateMultisigData{Threshold: threshold}
	for i, b := range d.rec.Items("weights") {
		w := new(uint256.Int).SetBytes(b)
		if !w.IsUint64() {
			return CreateMultisigData{}, fmt.Errorf("weight %d: %s overflows uint64", i, w)
		}
		out.Weights = append(out.Weights, w.Uint64())
	}
	for _, b := range d.rec.Items("addresses") {
		out.Addresses = append(out.Addresses, common.BytesToAddress(b))
	}
	return out, nil
}

// NewMultisendData builds a payload transferring to every entry of list.
func NewMultisendData(list []SendData) *TxData {
	items := make([]schema.Values, len(list))
	for i, s := range list {
		items[i] = s.values()
	}
	return &TxData{txType: MultisendTxType, rec: schema.MustNew(multisendPayload.Schema, schema.Values{"list": items})}
}

func (d *TxData) Multisend() ([]SendData, error) {
	if d.txType != MultisendTxType {
		return nil, fmt.Errorf("%w: %s", ErrWrongTxType, d.txType)
	}
	records := d.rec.Records("list")
	out := make([]SendData, len(records))
	for i, rec := range records {
		out[i] = readSend(rec)
	}
	return out, nil
}
