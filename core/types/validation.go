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
	"errors"
	"strings"
)

// Violation names a transaction invariant that does not hold.
type Violation string

const (
	ViolationInvalidSignature Violation = "invalid-signature"
	ViolationSignatureMissing Violation = "signature-missing"
	ViolationHighS            Violation = "high-s"
	ViolationUnknownType      Violation = "unknown-type"
	ViolationMalformedPayload Violation = "malformed-payload"
)

var violationText = map[Violation]string{
	ViolationInvalidSignature: "Invalid Signature",
	ViolationSignatureMissing: "Signature Missing",
	ViolationHighS:            "Signature S Value Too High",
	ViolationUnknownType:      "Unknown Transaction Type",
	ViolationMalformedPayload: "Malformed Payload",
}

// Description is the human readable form of v.
func (v Violation) Description() string {
	if s, ok := violationText[v]; ok {
		return s
	}
	return string(v)
}

// ValidationResult lists the violations found by Validate, in a stable order.
type ValidationResult struct {
	Violations []Violation
}

func (r ValidationResult) OK() bool { return len(r.Violations) == 0 }

func (r ValidationResult) Has(v Violation) bool {
	for _, x := range r.Violations {
		if x == v {
			return true
		}
	}
	return false
}

func (r ValidationResult) Tags() []string {
	tags := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		tags[i] = string(v)
	}
	return tags
}

func (r ValidationResult) String() string {
	if r.OK() {
		return "ok"
	}
	descs := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		descs[i] = v.Description()
	}
	return strings.Join(descs, " ")
}

// Validate checks the signature and that the payload matches the type. A high s value
// is reported as both invalid-signature and high-s.
func (tx *Transaction) Validate() ValidationResult {
	var res ValidationResult
	if _, err := tx.recoverSender(); err != nil {
		var sigErr *SignatureError
		switch {
		case errors.As(err, &sigErr) && sigErr.Violation == ViolationSignatureMissing:
			res.Violations = append(res.Violations, ViolationSignatureMissing)
		case errors.As(err, &sigErr) && sigErr.Violation == ViolationHighS:
			res.Violations = append(res.Violations, ViolationInvalidSignature, ViolationHighS)
		default:
			res.Violations = append(res.Violations, ViolationInvalidSignature)
		}
	}
	s, err := LookupSchema(tx.Type())
	if err != nil {
		res.Violations = append(res.Violations, ViolationUnknownType)
		return res
	}
	if err := checkPayload(s, tx.Payload()); err != nil {
		res.Violations = append(res.Violations, ViolationMalformedPayload)
	}
	return res
}
