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
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/erigontech/minter-tx/common"
	"github.com/erigontech/minter-tx/crypto"
	"github.com/erigontech/minter-tx/params"
)

// SignTx signs the transaction with the given private key.
func SignTx(tx *Transaction, prv *ecdsa.PrivateKey) error {
	h := tx.SigningHash()
	sig, err := crypto.Sign(h[:], prv)
	if err != nil {
		return err
	}
	v, r, s := SignatureValues(sig)
	return tx.SetSignature(v, r, s)
}

// Sign signs the transaction in place.
func (tx *Transaction) Sign(prv *ecdsa.PrivateKey) error {
	return SignTx(tx, prv)
}

// SignatureValues returns signature values. This signature
// needs to be in the [R || S || V] format where V is 0 or 1.
func SignatureValues(sig []byte) (v, r, s *uint256.Int) {
	if len(sig) != crypto.SignatureLength {
		panic(fmt.Sprintf("wrong size for signature: got %d, want %d", len(sig), crypto.SignatureLength))
	}
	r = new(uint256.Int).SetBytes(sig[:32])
	s = new(uint256.Int).SetBytes(sig[32:64])
	v = uint256.NewInt(uint64(sig[crypto.RecoveryIDOffset]) + params.SignatureVOffset)
	return v, r, s
}

// RecoverPlain returns the uncompressed public key that signed sighash. High s values
// are rejected even when the point would recover.
func RecoverPlain(sighash common.Hash, Vb, R, S *uint256.Int) ([]byte, error) {
	if R.IsZero() || S.IsZero() {
		return nil, &SignatureError{Violation: ViolationSignatureMissing}
	}
	if Vb.BitLen() > 8 {
		return nil, &SignatureError{Violation: ViolationInvalidSignature, Err: fmt.Errorf("v %s out of range", Vb)}
	}
	v := Vb.Uint64()
	if v != params.SignatureVOffset && v != params.SignatureVOffset+1 {
		return nil, &SignatureError{Violation: ViolationInvalidSignature, Err: fmt.Errorf("v %d out of range", v)}
	}
	V := byte(v - params.SignatureVOffset)
	if !crypto.IsLowS(S) {
		return nil, &SignatureError{Violation: ViolationHighS}
	}
	if !crypto.ValidateSignatureValues(V, R, S, true) {
		return nil, &SignatureError{Violation: ViolationInvalidSignature, Err: errors.New("r or s exceeds curve order")}
	}
	// encode the signature in uncompressed format
	sig := make([]byte, crypto.SignatureLength)
	R.WriteToSlice(sig[:32])
	S.WriteToSlice(sig[32:64])
	sig[crypto.RecoveryIDOffset] = V
	// recover the public key from the signature
	pub, err := crypto.Ecrecover(sighash[:], sig)
	if err != nil {
		return nil, &SignatureError{Violation: ViolationInvalidSignature, Err: err}
	}
	if len(pub) == 0 || pub[0] != 4 {
		return nil, &SignatureError{Violation: ViolationInvalidSignature, Err: errors.New("invalid public key")}
	}
	return pub, nil
}

func (tx *Transaction) recoverSender() (*sender, error) {
	if sc := tx.from.Load(); sc != nil {
		return sc, nil
	}
	v, r, s := tx.RawSignatureValues()
	pub, err := RecoverPlain(tx.SigningHash(), v, r, s)
	if err != nil {
		return nil, err
	}
	sc := &sender{pub: pub, addr: crypto.PubkeyBytesToAddress(pub)}
	tx.from.Store(sc)
	return sc, nil
}

// Sender returns the address derived from the signature (V, R, S) using secp256k1
// elliptic curve and an error if it failed deriving or upon an incorrect
// signature. The result is cached until the signature changes.
func (tx *Transaction) Sender() (common.Address, error) {
	sc, err := tx.recoverSender()
	if err != nil {
		return common.Address{}, err
	}
	return sc.addr, nil
}

// SenderPublicKey returns the 65 byte uncompressed public key of the signer.
func (tx *Transaction) SenderPublicKey() ([]byte, error) {
	sc, err := tx.recoverSender()
	if err != nil {
		return nil, err
	}
	return append([]byte{}, sc.pub...), nil
}

// VerifySignature reports whether a sender can be recovered. It never fails loudly.
func (tx *Transaction) VerifySignature() bool {
	_, err := tx.recoverSender()
	return err == nil
}
