// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package srp

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/frekui/srp/internal/pkg/digest"
	"github.com/frekui/srp/internal/pkg/group"
	"github.com/frekui/srp/internal/pkg/secret"
	"github.com/pion/logging"
)

// ServerSession keeps track of state needed on the server-side during one run
// of the SRP handshake. It is built from the verifier record looked up for
// the username; the server never sees the password.
//
// Usage:
//
//	sess, _ := srp.NewServerSession(username, verifier, params)
//	B, _ := sess.Exponential()
//	// receive A, send B
//	_ = sess.BuildSessionKey(A)
//	// receive M1
//	ok, _ := sess.Verify(M1)
//	M2, _ := sess.ServerResponse()
//	// send M2
//	K, _ := sess.SessionKey()
//	sess.Close()
type ServerSession struct {
	mu    sync.Mutex
	state State

	username string
	p        *params
	opts     *options
	log      logging.LeveledLogger

	v *big.Int

	// Ephemeral private value and the public B = (v + g^b) mod N.
	b      *big.Int
	bBytes []byte

	k  []byte
	m2 []byte

	clientHash *digest.Chain
	serverHash *digest.Chain
}

// NewServerSession creates the server side of a handshake for username with
// the stored verifier v. The verifier must satisfy 0 < v < N.
func NewServerSession(username string, verifier []byte, p *Params, opts ...Option) (*ServerSession, error) {
	rp, err := p.resolve()
	if err != nil {
		return nil, err
	}
	v := new(big.Int).SetBytes(verifier)
	if !group.IsInGroup(v, rp.grp.N) {
		return nil, fmt.Errorf("%w: verifier out of range", ErrInvalidParams)
	}
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}

	s := &ServerSession{
		state:      StateInit,
		username:   username,
		p:          rp,
		opts:       o,
		log:        o.logger("srp-server"),
		v:          v,
		clientHash: digest.NewChain(rp.digest),
		serverHash: digest.NewChain(rp.digest),
	}
	transcriptPrefix(s.clientHash, rp, username)
	if s.log != nil {
		s.log.Debugf("server session for %q (digest %s, session hash %s)", username, rp.digest.Name, rp.session.Name)
		s.log.Tracef("H(H(N) xor H(g) | H(U) | s) = %x", s.clientHash.Peek())
	}
	return s, nil
}

// State returns the current handshake state.
func (s *ServerSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Exponential returns the server's public value B = (v + g^b) mod N in
// canonical form. The first call draws b; later calls return the same B.
func (s *ServerSession) Exponential() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return nil, ErrProtocolOrder
	}
	if s.state != StateInit {
		return copyBytes(s.bBytes), nil
	}

	n := s.p.grp.N
	for {
		b, err := s.opts.ephemeralSecret()
		if err != nil {
			return nil, err
		}
		B := s.p.grp.Exp(b)
		B.Add(B, s.v)
		if B.Cmp(n) >= 0 {
			B.Sub(B, n)
		}
		if B.Sign() != 0 {
			s.b = b
			s.bBytes = group.Trim(B)
			break
		}
		// Clients reject B = 0 mod N. Draw again.
		secret.WipeInt(b)
		if s.opts.ephemeral != nil {
			return nil, ErrDegenerateEphemeral
		}
	}

	s.state = StateHaveExponential
	if s.log != nil {
		s.log.Tracef("B = %x", s.bBytes)
	}
	return copyBytes(s.bBytes), nil
}

// BuildSessionKey processes the client's public value A and derives the
// session key. It must be called exactly once, after Exponential and before
// Verify.
func (s *ServerSession) BuildSessionKey(a []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateHaveExponential {
		return ErrProtocolOrder
	}

	n := s.p.grp.N
	aInt := new(big.Int).SetBytes(a)
	if group.IsZeroMod(aInt, n) {
		s.state = StateFailed
		return ErrInvalidPublicValue
	}

	s.clientHash.Update(a, s.bBytes)
	s.serverHash.Update(a)

	u := scramble(s.p, s.bBytes)

	// S = (A * v^u) ^ b mod N
	base := new(big.Int).Exp(s.v, u, n)
	base.Mul(base, aInt)
	base.Mod(base, n)
	S := new(big.Int).Exp(base, s.b, n)
	s.k = sessionKey(s.p, S)
	secret.WipeInt(S)
	secret.WipeInt(base)

	s.clientHash.Update(s.k)
	s.state = StateHaveProof
	if s.log != nil {
		s.log.Tracef("A = %x, u = %v", a, u)
		s.log.Tracef("expected M1 = %x", s.clientHash.Peek())
	}
	return nil
}

// Verify checks the client's proof M1. On success the server proof M2
// becomes available through ServerResponse. On failure the session is
// terminal and never yields an M2.
func (s *ServerSession) Verify(m1 []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateHaveProof {
		return false, ErrProtocolOrder
	}
	expected, err := s.clientHash.Finish()
	if err != nil {
		return false, err
	}
	if !equal(expected, m1) {
		// serverHash is left without M1 and K on purpose.
		s.state = StateFailed
		if s.log != nil {
			s.log.Infof("client proof mismatch for %q", s.username)
		}
		return false, nil
	}
	s.serverHash.Update(expected, s.k)
	s.state = StateVerified
	if s.log != nil {
		s.log.Debugf("client %q verified", s.username)
	}
	return true, nil
}

// ServerResponse returns the server's proof M2 = H(A | M1 | K). It is only
// available after a successful Verify and returns the same value on every
// call.
func (s *ServerSession) ServerResponse() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateVerified:
	case StateFailed:
		return nil, ErrAuthenticationFailed
	default:
		return nil, ErrProtocolOrder
	}
	if s.m2 == nil {
		m2, err := s.serverHash.Finish()
		if err != nil {
			return nil, err
		}
		s.m2 = m2
	}
	return copyBytes(s.m2), nil
}

// SessionKey returns the derived session key K. Access is checked with the
// KeyGuard given through WithKeyGuard, if any. The key is available once
// BuildSessionKey has returned and stays available unless the client's proof
// fails.
func (s *ServerSession) SessionKey() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateHaveProof, StateVerified:
	case StateFailed:
		return nil, ErrAuthenticationFailed
	default:
		return nil, ErrProtocolOrder
	}
	if s.opts.guard != nil {
		if err := s.opts.guard(s.username); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrKeyAccessDenied, err)
		}
	}
	return copyBytes(s.k), nil
}

// Close wipes the session's secrets. The session is unusable afterwards.
func (s *ServerSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	secret.WipeInt(s.b)
	secret.Wipe(s.k)
	s.b, s.k = nil, nil
	secret.Wipe(s.opts.ephemeral)
	s.state = StateClosed
}
