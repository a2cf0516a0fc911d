// Copyright 2016 The go-ethereum Authors
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

package types

import (
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/erigontech/minter-tx/common"
	"github.com/erigontech/minter-tx/rlp/schema"
)

// txJSON is the JSON representation of transactions.
type txJSON struct {
	Type        hexutil.Uint64 `json:"type"`
	Nonce       *hexutil.Big   `json:"nonce"`
	GasPrice    *hexutil.Big   `json:"gasPrice"`
	Data        hexutil.Bytes  `json:"data"`
	Payload     hexutil.Bytes  `json:"payload"`
	ServiceData hexutil.Bytes  `json:"serviceData"`
	V           *hexutil.Big   `json:"v"`
	R           *hexutil.Big   `json:"r"`
	S           *hexutil.Big   `json:"s"`

	// Only used for encoding:
	Hash     common.Hash     `json:"hash"`
	TypeName string          `json:"typeName,omitempty"`
	From     *common.Address `json:"from,omitempty"`
	TxData   map[string]any  `json:"txData,omitempty"`
}

func toHexBig(x *uint256.Int) *hexutil.Big { return (*hexutil.Big)(x.ToBig()) }

// MarshalJSON marshals as JSON with a hash, and the sender and decoded payload when
// available.
func (tx *Transaction) MarshalJSON() ([]byte, error) {
	v, r, s := tx.RawSignatureValues()
	enc := txJSON{
		Type:        hexutil.Uint64(tx.Type()),
		Nonce:       toHexBig(tx.Nonce()),
		GasPrice:    toHexBig(tx.GasPrice()),
		Data:        tx.Payload(),
		Payload:     tx.ExtraData(),
		ServiceData: tx.ServiceData(),
		V:           toHexBig(v),
		R:           toHexBig(r),
		S:           toHexBig(s),
		Hash:        tx.Hash(),
	}
	if data, err := tx.TxData(); err == nil {
		enc.TypeName = tx.Type().String()
		enc.TxData = data.Fields()
	}
	if from, err := tx.Sender(); err == nil {
		enc.From = &from
	}
	return json.Marshal(&enc)
}

// UnmarshalJSON unmarshals from JSON. Type and payload are not checked, see Validate.
func (tx *Transaction) UnmarshalJSON(input []byte) error {
	var dec txJSON
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	if dec.Nonce == nil {
		return errors.New("missing required field 'nonce' in transaction")
	}
	if dec.GasPrice == nil {
		return errors.New("missing required field 'gasPrice' in transaction")
	}
	values := schema.Values{
		"nonce":       dec.Nonce.ToInt(),
		"gasPrice":    dec.GasPrice.ToInt(),
		"type":        uint64(dec.Type),
		"data":        []byte(dec.Data),
		"payload":     []byte(dec.Payload),
		"serviceData": []byte(dec.ServiceData),
	}
	if dec.V != nil {
		values["v"] = dec.V.ToInt()
	}
	if dec.R != nil {
		values["r"] = dec.R.ToInt()
	}
	if dec.S != nil {
		values["s"] = dec.S.ToInt()
	}
	rec, err := schema.New(txSchema, values)
	if err != nil {
		return err
	}
	tx.rec = rec
	tx.from.Store(nil)
	return nil
}
