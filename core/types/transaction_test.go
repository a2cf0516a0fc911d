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
	"crypto/ecdsa"
	"encoding/json"
	"testing"

	gethrlp "github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/minter-tx/common"
	"github.com/erigontech/minter-tx/crypto"
	"github.com/erigontech/minter-tx/params"
	"github.com/erigontech/minter-tx/rlp"
	"github.com/erigontech/minter-tx/rlp/schema"
)

var (
	testKey, _  = crypto.HexToECDSA("289c2857d4598e37fb9647507e47a309d6133539bf21a8b9cb6df88fd5232032")
	testKeyAddr = "Mx970e8128ab834e8eac17ab8e3812f010678cf791"
)

func newTestTx(t *testing.T, nonce uint64) *Transaction {
	t.Helper()
	to, err := common.ParseAddress("Mx376615B9A3187747dC7c32e51723515Ee62e37Dc")
	require.NoError(t, err)
	coin, err := common.ParseCoinSymbol("MNT")
	require.NoError(t, err)
	value, err := common.ParseAmount("1")
	require.NoError(t, err)

	tx, err := BuildTransaction(NewSendData(to, coin, value), uint256.NewInt(nonce), uint256.NewInt(1), []byte("custom text"))
	require.NoError(t, err)
	return tx
}

func newSignedTx(t *testing.T, nonce uint64, key *ecdsa.PrivateKey) *Transaction {
	t.Helper()
	tx := newTestTx(t, nonce)
	require.NoError(t, tx.Sign(key))
	return tx
}

func TestUnsignedTransaction(t *testing.T) {
	tx := newTestTx(t, 1)
	require.Equal(t, SendTxType, tx.Type())
	require.Equal(t, uint64(1), tx.Nonce().Uint64())
	require.Equal(t, []byte("custom text"), tx.ExtraData())
	require.Empty(t, tx.ServiceData())
	require.False(t, tx.IsSigned())

	v, r, s := tx.RawSignatureValues()
	require.Equal(t, uint64(params.DefaultSignatureV), v.Uint64())
	require.True(t, r.IsZero())
	require.True(t, s.IsZero())

	enc, err := tx.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, []byte{0x1c, 0x80, 0x80}, enc[len(enc)-3:])
	require.Equal(t, len(enc), tx.EncodingSize())

	require.False(t, tx.VerifySignature())
	_, err = tx.Sender()
	require.ErrorIs(t, err, ErrInvalidSig)
	var sigErr *SignatureError
	require.ErrorAs(t, err, &sigErr)
	require.Equal(t, ViolationSignatureMissing, sigErr.Violation)

	res := tx.Validate()
	require.False(t, res.OK())
	require.Equal(t, []string{"signature-missing"}, res.Tags())
	require.Equal(t, "Signature Missing", res.String())

	data, err := tx.TxData()
	require.NoError(t, err)
	send, err := data.Send()
	require.NoError(t, err)
	require.Equal(t, "Mx376615b9a3187747dc7c32e51723515ee62e37dc", send.To.String())
}

func TestSigningHashMatchesGeth(t *testing.T) {
	tx := newSignedTx(t, 7, testKey)
	raw := tx.rec.Raw()
	require.Len(t, raw, 9)

	unsigned, err := gethrlp.EncodeToBytes(raw[:6])
	require.NoError(t, err)
	require.Equal(t, crypto.Keccak256Hash(unsigned), tx.SigningHash())

	full, err := gethrlp.EncodeToBytes(raw)
	require.NoError(t, err)
	require.Equal(t, crypto.Keccak256Hash(full), tx.Hash())
	enc, _ := tx.MarshalBinary()
	require.Equal(t, full, enc)
}

func TestTransactionRoundTrip(t *testing.T) {
	for _, signed := range []bool{false, true} {
		tx := newTestTx(t, 42)
		if signed {
			require.NoError(t, tx.Sign(testKey))
		}
		enc, err := tx.MarshalBinary()
		require.NoError(t, err)

		dec, err := DecodeTransaction(enc)
		require.NoError(t, err)
		require.True(t, tx.rec.Equal(dec.rec))
		require.Equal(t, tx.Hash(), dec.Hash())
		require.Equal(t, tx.SigningHash(), dec.SigningHash())
		require.Equal(t, tx.Payload(), dec.Payload())

		again, err := dec.MarshalBinary()
		require.NoError(t, err)
		require.Equal(t, enc, again)

		var viaText Transaction
		text, err := tx.MarshalText()
		require.NoError(t, err)
		require.Equal(t, "0x", string(text[:2]))
		require.NoError(t, viaText.UnmarshalText(text))
		require.Equal(t, tx.Hash(), viaText.Hash())
	}
}

func TestSignVerifyRecover(t *testing.T) {
	tx := newSignedTx(t, 1, testKey)
	require.True(t, tx.IsSigned())
	require.True(t, tx.VerifySignature())
	require.True(t, tx.Validate().OK())

	from, err := tx.Sender()
	require.NoError(t, err)
	require.Equal(t, testKeyAddr, from.String())

	pub, err := tx.SenderPublicKey()
	require.NoError(t, err)
	require.Equal(t, crypto.MarshalPubkey(&testKey.PublicKey), pub)

	v, _, s := tx.RawSignatureValues()
	require.Contains(t, []uint64{27, 28}, v.Uint64())
	require.True(t, crypto.IsLowS(s))

	for i := 0; i < 8; i++ {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		tx := newSignedTx(t, uint64(i), key)

		enc, _ := tx.MarshalBinary()
		dec, err := DecodeTransaction(enc)
		require.NoError(t, err)
		require.True(t, dec.VerifySignature())
		from, err := dec.Sender()
		require.NoError(t, err)
		require.Equal(t, crypto.PubkeyToAddress(key.PublicKey), from)
	}
}

func TestDigestExclusion(t *testing.T) {
	tx := newSignedTx(t, 3, testKey)
	signingHash, hash := tx.SigningHash(), tx.Hash()
	v, r, s := tx.RawSignatureValues()

	one := uint256.NewInt(1)
	changes := []struct {
		name    string
		v, r, s *uint256.Int
	}{
		{name: "v", v: uint256.NewInt(55 - v.Uint64()), r: r, s: s},
		{name: "r", v: v, r: new(uint256.Int).Add(r, one), s: s},
		{name: "s", v: v, r: r, s: new(uint256.Int).Add(s, one)},
		{name: "cleared", v: uint256.NewInt(params.DefaultSignatureV), r: new(uint256.Int), s: new(uint256.Int)},
	}
	for _, c := range changes {
		t.Run(c.name, func(t *testing.T) {
			cpy := tx.Copy()
			require.NoError(t, cpy.SetSignature(c.v, c.r, c.s))
			require.Equal(t, signingHash, cpy.SigningHash())
			require.NotEqual(t, hash, cpy.Hash())
		})
	}

	cpy := tx.Copy()
	require.NoError(t, cpy.SetSignature(v, r, s))
	require.Equal(t, hash, cpy.Hash())
}

func TestHighSRejected(t *testing.T) {
	tx := newSignedTx(t, 5, testKey)
	v, r, s := tx.RawSignatureValues()
	pub := crypto.MarshalPubkey(&testKey.PublicKey)

	highS := new(uint256.Int).Sub(crypto.CurveOrder(), s)
	flippedV := uint256.NewInt(55 - v.Uint64())
	require.NoError(t, tx.SetSignature(flippedV, r, highS))

	// the mirrored signature still recovers the signer
	sig := make([]byte, crypto.SignatureLength)
	r.WriteToSlice(sig[:32])
	highS.WriteToSlice(sig[32:64])
	sig[crypto.RecoveryIDOffset] = byte(flippedV.Uint64() - params.SignatureVOffset)
	h := tx.SigningHash()
	recovered, err := crypto.Ecrecover(h[:], sig)
	require.NoError(t, err)
	require.Equal(t, pub, recovered)

	// but it is never accepted
	require.False(t, tx.VerifySignature())
	_, err = tx.Sender()
	require.ErrorIs(t, err, ErrInvalidSig)
	var sigErr *SignatureError
	require.ErrorAs(t, err, &sigErr)
	require.Equal(t, ViolationHighS, sigErr.Violation)

	res := tx.Validate()
	require.Equal(t, []string{"invalid-signature", "high-s"}, res.Tags())
	require.True(t, res.Has(ViolationHighS))

	// restoring the low s form makes it valid again
	require.NoError(t, tx.SetSignature(v, r, s))
	require.True(t, tx.VerifySignature())
}

func TestRecoverPlainErrors(t *testing.T) {
	tx := newSignedTx(t, 9, testKey)
	v, r, s := tx.RawSignatureValues()
	h := tx.SigningHash()

	_, err := RecoverPlain(h, v, r, s)
	require.NoError(t, err)

	tests := []struct {
		name      string
		v, r, s   *uint256.Int
		violation Violation
	}{
		{name: "zero r", v: v, r: new(uint256.Int), s: s, violation: ViolationSignatureMissing},
		{name: "zero s", v: v, r: r, s: new(uint256.Int), violation: ViolationSignatureMissing},
		{name: "v 26", v: uint256.NewInt(26), r: r, s: s, violation: ViolationInvalidSignature},
		{name: "v 29", v: uint256.NewInt(29), r: r, s: s, violation: ViolationInvalidSignature},
		{name: "v wide", v: new(uint256.Int).Lsh(uint256.NewInt(1), 64), r: r, s: s, violation: ViolationInvalidSignature},
		{name: "r over order", v: v, r: crypto.CurveOrder(), s: s, violation: ViolationInvalidSignature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RecoverPlain(h, tt.v, tt.r, tt.s)
			require.ErrorIs(t, err, ErrInvalidSig)
			var sigErr *SignatureError
			require.ErrorAs(t, err, &sigErr)
			require.Equal(t, tt.violation, sigErr.Violation)
		})
	}
}

func TestSenderCacheReset(t *testing.T) {
	tx := newSignedTx(t, 1, testKey)
	from, err := tx.Sender()
	require.NoError(t, err)

	other, err := crypto.GenerateKey()
	require.NoError(t, err)
	require.NoError(t, tx.Sign(other))
	from2, err := tx.Sender()
	require.NoError(t, err)
	require.NotEqual(t, from, from2)
	require.Equal(t, crypto.PubkeyToAddress(other.PublicKey), from2)
}

func TestUnknownTypeRejected(t *testing.T) {
	payload := NewSendData(common.Address{1}, common.CoinSymbol{'M', 'N', 'T'}, uint256.NewInt(1)).Encode()
	tx, err := NewTransaction(TxParams{Nonce: uint256.NewInt(1), GasPrice: uint256.NewInt(1), Type: 0x20, Payload: payload})
	require.Nil(t, tx)
	require.ErrorIs(t, err, ErrUnknownTxType)
	var typeErr *UnknownTypeError
	require.ErrorAs(t, err, &typeErr)
	require.Equal(t, TxType(0x20), typeErr.Type)
}

func TestMalformedPayloadRejected(t *testing.T) {
	multisig := NewCreateMultisigData(1, []uint64{1}, []common.Address{{1}}).Encode()
	tests := []struct {
		name    string
		typ     TxType
		payload []byte
	}{
		{name: "other type", typ: SendTxType, payload: multisig},
		{name: "not rlp", typ: SendTxType, payload: []byte{0xff, 0x01}},
		{name: "empty", typ: SetCandidateOnTxType, payload: nil},
		// decodes with a trailing default but does not re-encode to the same bytes
		{name: "trailing default omitted", typ: RedeemCheckTxType, payload: []byte{0xc1, 0x80}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := NewTransaction(TxParams{Nonce: uint256.NewInt(1), GasPrice: uint256.NewInt(1), Type: tt.typ, Payload: tt.payload})
			require.Nil(t, tx)
			require.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestDecodeTransactionErrors(t *testing.T) {
	tx := newSignedTx(t, 1, testKey)
	enc, _ := tx.MarshalBinary()

	_, err := DecodeTransaction(append(enc, 0x00))
	require.ErrorIs(t, err, rlp.ErrTrailingBytes)
	require.ErrorIs(t, err, rlp.ErrDecode)

	_, err = DecodeTransaction(enc[:len(enc)-2])
	require.ErrorIs(t, err, rlp.ErrDecode)

	tenFields, err := gethrlp.EncodeToBytes(append(tx.rec.Raw(), []byte{1}))
	require.NoError(t, err)
	_, err = DecodeTransaction(tenFields)
	require.ErrorIs(t, err, schema.ErrTooManyFields)

	// a leading zero in the nonce
	raw := tx.rec.Raw()
	raw[0] = []byte{0x00, 0x01}
	nonCanonical, err := gethrlp.EncodeToBytes(raw)
	require.NoError(t, err)
	_, err = DecodeTransaction(nonCanonical)
	require.ErrorIs(t, err, rlp.ErrNonCanonicalInteger)
	var decErr *schema.DecodeError
	require.ErrorAs(t, err, &decErr)
	require.Equal(t, "nonce", decErr.Field)

	// v is a single byte recovery id
	for _, tc := range []struct {
		v   []byte
		err error
	}{
		{v: []byte{0x00, 0x1c}, err: rlp.ErrNonCanonicalInteger},
		{v: []byte{0x01, 0x1c}, err: schema.ErrInvalidLength},
	} {
		raw := tx.rec.Raw()
		raw[6] = tc.v
		enc, err := gethrlp.EncodeToBytes(raw)
		require.NoError(t, err)
		_, err = DecodeTransaction(enc)
		require.ErrorIs(t, err, tc.err)
		require.ErrorAs(t, err, &decErr)
		require.Equal(t, "v", decErr.Field)
	}
	require.ErrorIs(t, tx.Copy().SetSignature(uint256.NewInt(0x11c), new(uint256.Int), new(uint256.Int)), schema.ErrInvalidLength)
}

func TestDecodeFillsTrailingSignature(t *testing.T) {
	tx := newTestTx(t, 1)
	sixFields, err := gethrlp.EncodeToBytes(tx.rec.Raw()[:6])
	require.NoError(t, err)

	dec, err := DecodeTransaction(sixFields)
	require.NoError(t, err)
	require.Equal(t, tx.Hash(), dec.Hash())
	v, _, _ := dec.RawSignatureValues()
	require.Equal(t, uint64(params.DefaultSignatureV), v.Uint64())
}

func TestValidateUnknownTypeAndPayload(t *testing.T) {
	signed := newSignedTx(t, 1, testKey)
	raw := signed.rec.Raw()

	raw[2] = []byte{0x30}
	enc, err := gethrlp.EncodeToBytes(raw)
	require.NoError(t, err)
	tx, err := DecodeTransaction(enc)
	require.NoError(t, err)
	// the signature no longer matches the altered type
	res := tx.Validate()
	require.True(t, res.Has(ViolationUnknownType))
	_, err = tx.TxData()
	require.ErrorIs(t, err, ErrUnknownTxType)

	raw = signed.rec.Raw()
	raw[3] = []byte{0xc0}
	enc, err = gethrlp.EncodeToBytes(raw)
	require.NoError(t, err)
	tx, err = DecodeTransaction(enc)
	require.NoError(t, err)
	res = tx.Validate()
	require.True(t, res.Has(ViolationMalformedPayload))
	require.False(t, res.Has(ViolationUnknownType))
}

func TestTransactionJSON(t *testing.T) {
	tx := newSignedTx(t, 11, testKey)
	b, err := json.Marshal(tx)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(b, &fields))
	assert.Equal(t, testKeyAddr, fields["from"])
	assert.Equal(t, "send", fields["typeName"])
	assert.Equal(t, "0xb", fields["nonce"])
	assert.Equal(t, tx.Hash().Hex(), fields["hash"])
	txData := fields["txData"].(map[string]any)
	assert.Equal(t, "MNT", txData["coin"])
	assert.Equal(t, "1", txData["value"])

	var back Transaction
	require.NoError(t, json.Unmarshal(b, &back))
	enc, _ := tx.MarshalBinary()
	backEnc, _ := back.MarshalBinary()
	require.Equal(t, enc, backEnc)

	require.Error(t, json.Unmarshal([]byte(`{"gasPrice":"0x1","type":"0x1"}`), &back))
}
