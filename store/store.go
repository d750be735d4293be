// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

// Package store keeps enrolled SRP verifiers. A Record holds everything the
// server needs to run a handshake for one user; the password itself is never
// stored.
package store

import (
	"io"

	"github.com/frekui/srp"
	"github.com/pkg/errors"
)

// ErrNotFound is returned (possibly wrapped, test with errors.Cause) when no
// record exists for a username.
var ErrNotFound = errors.New("store: record not found")

// Record is the server-side state for one enrolled user.
type Record struct {
	Username        string `json:"username"`
	Salt            []byte `json:"salt"`
	Verifier        []byte `json:"verifier"`
	N               []byte `json:"n"`
	G               []byte `json:"g"`
	HashAlgorithm   string `json:"hash_algorithm,omitempty"`
	DigestAlgorithm string `json:"digest_algorithm,omitempty"`
}

// Params returns the handshake parameters of r.
func (r *Record) Params() *srp.Params {
	return &srp.Params{
		N:               append([]byte(nil), r.N...),
		G:               append([]byte(nil), r.G...),
		Salt:            append([]byte(nil), r.Salt...),
		HashAlgorithm:   r.HashAlgorithm,
		DigestAlgorithm: r.DigestAlgorithm,
	}
}

// Store is a verifier database. Implementations are safe for concurrent use.
type Store interface {
	Get(username string) (*Record, error)
	Put(r *Record) error
	Delete(username string) error
	Close() error
}

// Enroll creates a record for username with a fresh salt of saltLen bytes
// read from rand (crypto/rand if nil) and stores it in st. The group and
// algorithms are taken from template. password is cleared before Enroll
// returns, also on error.
func Enroll(st Store, username string, password []byte, template *srp.Params, saltLen int, rand io.Reader) (*Record, error) {
	defer srp.ClearPassword(password)

	if username == "" {
		return nil, errors.New("store: empty username")
	}
	if err := template.Validate(); err != nil {
		return nil, errors.Wrap(err, "store: enroll")
	}
	salt, err := srp.GenerateSalt(rand, saltLen)
	if err != nil {
		return nil, errors.Wrap(err, "store: generate salt")
	}
	p := template.WithSalt(salt)
	v, err := srp.ComputeVerifier(username, password, p)
	if err != nil {
		return nil, errors.Wrap(err, "store: compute verifier")
	}
	r := &Record{
		Username:        username,
		Salt:            salt,
		Verifier:        v,
		N:               p.N,
		G:               p.G,
		HashAlgorithm:   p.HashAlgorithm,
		DigestAlgorithm: p.DigestAlgorithm,
	}
	if err := st.Put(r); err != nil {
		return nil, err
	}
	return r, nil
}
