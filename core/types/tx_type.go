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
	"strconv"
	"strings"

	"github.com/erigontech/minter-tx/rlp/schema"
)

// TxType selects the payload layout of a transaction.
type TxType byte

// Transaction types.
const (
	SendTxType             TxType = 0x01
	SellTxType             TxType = 0x02
	SellAllTxType          TxType = 0x03
	BuyTxType              TxType = 0x04
	CreateCoinTxType       TxType = 0x05
	DeclareCandidacyTxType TxType = 0x06
	DelegateTxType         TxType = 0x07
	UnbondTxType           TxType = 0x08
	RedeemCheckTxType      TxType = 0x09
	SetCandidateOnTxType   TxType = 0x0A
	SetCandidateOffTxType  TxType = 0x0B
	CreateMultisigTxType   TxType = 0x0C
	MultisendTxType        TxType = 0x0D
	EditCandidateTxType    TxType = 0x0E
)

var txTypeNames = map[TxType]string{
	SendTxType:             "send",
	SellTxType:             "sell",
	SellAllTxType:          "sell_all",
	BuyTxType:              "buy",
	CreateCoinTxType:       "create_coin",
	DeclareCandidacyTxType: "declare_candidacy",
	DelegateTxType:         "delegate",
	UnbondTxType:           "unbond",
	RedeemCheckTxType:      "redeem_check",
	SetCandidateOnTxType:   "set_candidate_on",
	SetCandidateOffTxType:  "set_candidate_off",
	CreateMultisigTxType:   "create_multisig",
	MultisendTxType:        "multisend",
	EditCandidateTxType:    "edit_candidate",
}

func (t TxType) String() string {
	if name, ok := txTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(0x%02x)", byte(t))
}

func (t TxType) MarshalText() ([]byte, error) {
	if _, ok := txTypeNames[t]; !ok {
		return nil, &UnknownTypeError{Type: t}
	}
	return []byte(t.String()), nil
}

func (t *TxType) UnmarshalText(input []byte) error {
	parsed, err := ParseTxType(string(input))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTxType accepts a type name in any case ("send", "CREATE_MULTISIG") or a code in
// decimal or 0x hex.
func ParseTxType(s string) (TxType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t, n := range txTypeNames {
		if n == name {
			return t, nil
		}
	}
	code, err := strconv.ParseUint(name, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTxType, s)
	}
	t := TxType(code)
	if _, err := LookupSchema(t); err != nil {
		return 0, err
	}
	return t, nil
}

// LookupSchema returns the payload layout of t.
func LookupSchema(t TxType) (*schema.Schema, error) {
	p, err := lookupPayload(t)
	if err != nil {
		return nil, err
	}
	return p.Schema, nil
}

func lookupPayload(t TxType) (*payloadSchema, error) {
	switch t {
	case SendTxType:
		return sendPayload, nil
	case SellTxType:
		return sellPayload, nil
	case SellAllTxType:
		return sellAllPayload, nil
	case BuyTxType:
		return buyPayload, nil
	case CreateCoinTxType:
		return createCoinPayload, nil
	case DeclareCandidacyTxType:
		return declareCandidacyPayload, nil
	case DelegateTxType:
		return delegatePayload, nil
	case UnbondTxType:
		return unbondPayload, nil
	case RedeemCheckTxType:
		return redeemCheckPayload, nil
	case SetCandidateOnTxType:
		return setCandidateOnPayload, nil
	case SetCandidateOffTxType:
		return setCandidateOffPayload, nil
	case CreateMultisigTxType:
		return createMultisigPayload, nil
	case MultisendTxType:
		return multisendPayload, nil
	case EditCandidateTxType:
		return editCandidatePayload, nil
	default:
		return nil, &UnknownTypeError{Type: t}
	}
}
