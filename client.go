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

// ClientSession keeps track of state needed on the client-side during one run
// of the SRP handshake. A ClientSession cannot be reused; a failed handshake
// requires a new session.
//
// Usage:
//
//	sess, _ := srp.NewClientSession(username, password, params)
//	srp.ClearPassword(password)
//	A, _ := sess.Exponential()
//	// send A, receive B
//	M1, _ := sess.Response(B)
//	// send M1, receive M2
//	ok, _ := sess.Verify(M2)
//	K, _ := sess.SessionKey()
//	sess.Close()
type ClientSession struct {
	mu    sync.Mutex
	state State

	username string
	p        *params
	opts     *options
	log      logging.LeveledLogger

	// x is the private key derived from the password, v = g^x.
	x *big.Int
	v *big.Int

	// Ephemeral private value and the public A = g^a mod N.
	a      *big.Int
	aBytes []byte

	k []byte

	// clientHash accumulates M1, serverHash accumulates the expected M2.
	clientHash *digest.Chain
	serverHash *digest.Chain
}

// NewClientSession creates the client side of a handshake for username. The
// password is only read during construction; the caller should clear it with
// ClearPassword afterwards.
func NewClientSession(username string, password []byte, p *Params, opts ...Option) (*ClientSession, error) {
	rp, err := p.resolve()
	if err != nil {
		return nil, err
	}
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}

	s := &ClientSession{
		state:      StateInit,
		username:   username,
		p:          rp,
		opts:       o,
		log:        o.logger("srp-client"),
		clientHash: digest.NewChain(rp.digest),
		serverHash: digest.NewChain(rp.digest),
	}
	s.x = computeX(rp, username, password)
	s.v = rp.grp.Exp(s.x)

	transcriptPrefix(s.clientHash, rp, username)
	if s.log != nil {
		s.log.Debugf("client session for %q (digest %s, session hash %s)", username, rp.digest.Name, rp.session.Name)
		s.log.Tracef("H(H(N) xor H(g) | H(U) | s) = %x", s.clientHash.Peek())
	}
	return s, nil
}

// State returns the current handshake state.
func (s *ClientSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Exponential returns the client's public value A = g^a mod N in canonical
// form. The first call draws a; later calls return the same A.
func (s *ClientSession) Exponential() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return nil, ErrProtocolOrder
	}
	if s.state != StateInit {
		return copyBytes(s.aBytes), nil
	}

	a, err := s.opts.ephemeralSecret()
	if err != nil {
		return nil, err
	}
	s.a = a
	s.aBytes = group.Trim(s.p.grp.Exp(a))

	s.clientHash.Update(s.aBytes)
	s.serverHash.Update(s.aBytes)
	s.state = StateHaveExponential
	if s.log != nil {
		s.log.Tracef("A = %x", s.aBytes)
	}
	return copyBytes(s.aBytes), nil
}

// Response processes the server's public value B and returns the client's
// proof M1. It must be called exactly once, after Exponential.
func (s *ClientSession) Response(b []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateHaveExponential {
		return nil, ErrProtocolOrder
	}

	n := s.p.grp.N
	bInt := new(big.Int).SetBytes(b)
	if group.IsZeroMod(bInt, n) {
		s.state = StateFailed
		return nil, ErrInvalidPublicValue
	}
	s.clientHash.Update(b)

	u := scramble(s.p, b)

	// S = (B - v) ^ (a + u*x) mod N. B < v is folded back into range by
	// adding N before the subtraction.
	base := new(big.Int).Set(bInt)
	if base.Cmp(s.v) < 0 {
		base.Add(base, n)
	}
	base.Sub(base, s.v)
	exp := new(big.Int).Mul(u, s.x)
	exp.Add(exp, s.a)
	S := new(big.Int).Exp(base, exp, n)
	s.k = sessionKey(s.p, S)
	secret.WipeInt(S)
	secret.WipeInt(exp)
	secret.WipeInt(base)

	s.clientHash.Update(s.k)
	m1, err := s.clientHash.Finish()
	if err != nil {
		return nil, err
	}
	s.serverHash.Update(m1, s.k)
	s.state = StateHaveProof
	if s.log != nil {
		s.log.Tracef("B = %x, u = %v", b, u)
		s.log.Tracef("M1 = %x", m1)
		s.log.Tracef("H(A | M1 | K) = %x", s.serverHash.Peek())
	}
	return m1, nil
}

// Verify checks the server's proof M2. It returns true if the server showed
// knowledge of the same session key. A false result is terminal for the
// session.
func (s *ClientSession) Verify(m2 []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateHaveProof {
		return false, ErrProtocolOrder
	}
	expected, err := s.serverHash.Finish()
	if err != nil {
		return false, err
	}
	if !equal(expected, m2) {
		s.state = StateFailed
		if s.log != nil {
			s.log.Infof("server proof mismatch for %q", s.username)
		}
		return false, nil
	}
	s.state = StateVerified
	if s.log != nil {
		s.log.Debugf("server verified for %q", s.username)
	}
	return true, nil
}

// SessionKey returns the derived session key K. Access is checked with the
// KeyGuard given through WithKeyGuard, if any. The key is available once
// Response has returned and stays available unless the server's proof fails.
func (s *ClientSession) SessionKey() ([]byte, error) {
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
func (s *ClientSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	secret.WipeInt(s.x)
	secret.WipeInt(s.v)
	secret.WipeInt(s.a)
	secret.Wipe(s.k)
	s.x, s.v, s.a, s.k = nil, nil, nil, nil
	secret.Wipe(s.opts.ephemeral)
	s.state = StateClosed
}
