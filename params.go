// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package srp

import (
	"fmt"
	"math/big"

	"github.com/frekui/srp/internal/pkg/digest"
	"github.com/frekui/srp/internal/pkg/group"
)

// DefaultDigestAlgorithm is the transcript hash used when
// Params.DigestAlgorithm is empty.
const DefaultDigestAlgorithm = "SHA-1"

// Params is the cryptographic material both peers must agree on before a
// session starts: the group (N, g), the user's salt and the hash algorithms.
//
// N, G and Salt are big-endian byte strings. Both sessions of one negotiation
// must be constructed with byte-identical values. A mismatch is not detected
// here; it makes the peers derive different keys and the proofs fail.
type Params struct {
	N    []byte
	G    []byte
	Salt []byte

	// HashAlgorithm names the hash used to derive the session key
	// K = H(S). Empty means the same as DigestAlgorithm.
	HashAlgorithm string

	// DigestAlgorithm names the hash used for x, u and the proofs M1
	// and M2. Empty means DefaultDigestAlgorithm.
	DigestAlgorithm string
}

// GroupParams returns N and g of a named group, e.g. "rfc5054-2048". The
// returned Params has no salt and default algorithms.
func GroupParams(name string) (*Params, error) {
	g, ok := group.Named(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown group %q", ErrInvalidParams, name)
	}
	return &Params{N: group.Trim(g.N), G: group.Trim(g.G)}, nil
}

// GroupNames lists the names accepted by GroupParams.
func GroupNames() []string {
	return group.Names()
}

// WithSalt returns a copy of p using salt.
func (p *Params) WithSalt(salt []byte) *Params {
	cp := *p
	cp.Salt = copyBytes(salt)
	return &cp
}

// Validate checks that p is usable: N > 1, 1 < g < N, and both
// algorithms are known.
func (p *Params) Validate() error {
	_, err := p.resolve()
	return err
}

// params is the parsed form of Params shared by the session types.
type params struct {
	grp     group.Group
	nBytes  []byte
	gBytes  []byte
	salt    []byte
	digest  digest.Algorithm
	session digest.Algorithm
}

func (p *Params) resolve() (*params, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil params", ErrInvalidParams)
	}
	if len(p.N) == 0 || len(p.G) == 0 {
		return nil, fmt.Errorf("%w: empty N or g", ErrInvalidParams)
	}
	n := new(big.Int).SetBytes(p.N)
	g := new(big.Int).SetBytes(p.G)
	if n.Cmp(big.NewInt(1)) <= 0 {
		return nil, fmt.Errorf("%w: N must be greater than 1", ErrInvalidParams)
	}
	if !group.IsInGroup(g, n) || g.Cmp(big.NewInt(1)) == 0 {
		return nil, fmt.Errorf("%w: g must satisfy 1 < g < N", ErrInvalidParams)
	}

	digestName := p.DigestAlgorithm
	if digestName == "" {
		digestName = DefaultDigestAlgorithm
	}
	dg, err := digest.Lookup(digestName)
	if err != nil {
		return nil, err
	}
	session := dg
	if p.HashAlgorithm != "" {
		session, err = digest.Lookup(p.HashAlgorithm)
		if err != nil {
			return nil, err
		}
	}

	return &params{
		grp:     group.Group{G: g, N: n},
		nBytes:  copyBytes(p.N),
		gBytes:  copyBytes(p.G),
		salt:    copyBytes(p.Salt),
		digest:  dg,
		session: session,
	}, nil
}
