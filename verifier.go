// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package srp

import (
	"errors"
	"io"
	"math/big"

	"github.com/frekui/srp/internal/pkg/digest"
	"github.com/frekui/srp/internal/pkg/group"
	"github.com/frekui/srp/internal/pkg/secret"
)

// DefaultSaltLength is the salt size used by the executables in cmd/.
const DefaultSaltLength = 16

// passwordHash computes x = H(salt | H(username | ":" | password)).
func passwordHash(alg digest.Algorithm, username string, password, salt []byte) []byte {
	inner := digest.Sum(alg, []byte(username), colon, password)
	defer secret.Wipe(inner)
	return digest.Sum(alg, salt, inner)
}

// ComputePasswordHash returns x = H(salt | H(username | ":" | password)) with
// the named digest algorithm (DefaultDigestAlgorithm if empty). x must never
// leave the process; the caller should wipe the result when done.
func ComputePasswordHash(username string, password, salt []byte, digestAlgorithm string) ([]byte, error) {
	if digestAlgorithm == "" {
		digestAlgorithm = DefaultDigestAlgorithm
	}
	alg, err := digest.Lookup(digestAlgorithm)
	if err != nil {
		return nil, err
	}
	return passwordHash(alg, username, password, salt), nil
}

// computeX returns x as an integer.
func computeX(p *params, username string, password []byte) *big.Int {
	xb := passwordHash(p.digest, username, password, p.salt)
	defer secret.Wipe(xb)
	return new(big.Int).SetBytes(xb)
}

// ComputeVerifier returns the password verifier v = g^x mod N for username
// and password under p (which carries N, g and the salt). It is a pure
// function: the same inputs always give the same verifier.
//
// v is what the server stores instead of the password.
func ComputeVerifier(username string, password []byte, p *Params) ([]byte, error) {
	rp, err := p.resolve()
	if err != nil {
		return nil, err
	}
	x := computeX(rp, username, password)
	defer secret.WipeInt(x)
	return group.Trim(rp.grp.Exp(x)), nil
}

// GenerateSalt returns n random bytes read from r, or from crypto/rand if r
// is nil.
func GenerateSalt(r io.Reader, n int) ([]byte, error) {
	if n <= 0 {
		return nil, errors.New("srp: salt length must be positive")
	}
	if r == nil {
		r = randr
	}
	salt := make([]byte, n)
	if _, err := io.ReadFull(r, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// ClearPassword overwrites a password buffer with zeros. Call it as soon as
// the password has been handed to NewClientSession or ComputeVerifier.
func ClearPassword(password []byte) {
	secret.Wipe(password)
}
