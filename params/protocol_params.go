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

package params

import (
	"github.com/c2h5oh/datasize"
)

const (
	// DefaultSignatureV is the v byte of a transaction before it is signed.
	DefaultSignatureV = 0x1c

	// SignatureVOffset is added to the secp256k1 recovery id to form v.
	SignatureVOffset = 27

	// DefaultGasPrice is the minimal gas price multiplier accepted by the network.
	DefaultGasPrice = 1
)

// DefaultMaxTxSize bounds the encoded size of a transaction the tools accept.
const DefaultMaxTxSize = 32 * datasize.KB
