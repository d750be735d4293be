// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package srp

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/binary"
	"math/big"

	"github.com/frekui/srp/internal/pkg/digest"
	"github.com/frekui/srp/internal/pkg/group"
)

var randr = rand.Reader

// colon separates username and password in the inner hash of x.
var colon = []byte(":")

// transcriptPrefix starts chain with H(N) xor H(g), H(username), salt. Both
// sides must feed exactly these bytes, in this order, before any per-session
// value.
func transcriptPrefix(chain *digest.Chain, p *params, username string) {
	hn := digest.Sum(p.digest, p.nBytes)
	hg := digest.Sum(p.digest, p.gBytes)
	for i := range hn {
		hn[i] ^= hg[i]
	}
	chain.Update(hn)
	chain.Update(digest.Sum(p.digest, []byte(username)))
	chain.Update(p.salt)
}

// scramble computes u as the first 32 bits of H(B), read as a big-endian
// unsigned integer.
func scramble(p *params, b []byte) *big.Int {
	h := digest.Sum(p.digest, b)
	return new(big.Int).SetUint64(uint64(binary.BigEndian.Uint32(h[:4])))
}

// sessionKey derives K = H_session(S).
func sessionKey(p *params, s *big.Int) []byte {
	return digest.Sum(p.session, group.Trim(s))
}

func equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
