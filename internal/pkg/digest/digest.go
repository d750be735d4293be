// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

// Package digest implements the accumulating hash chains used by the SRP
// transcript. A Chain can be forked at any point with Copy, which makes it
// possible to read an intermediate hash value while the original chain keeps
// accumulating.
package digest

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding"
	"errors"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

var (
	// ErrUnknownAlgorithm is returned when an algorithm name does not
	// resolve to a supported hash function.
	ErrUnknownAlgorithm = errors.New("digest: unknown algorithm")

	// ErrFinished is returned by Finish on a chain that was already
	// finished.
	ErrFinished = errors.New("digest: chain already finished")
)

// Algorithm is a named hash function.
type Algorithm struct {
	Name string
	New  func() hash.Hash
}

// Size returns the output length in bytes.
func (a Algorithm) Size() int {
	return a.New().Size()
}

func newBlake2b256() hash.Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		// Only fails for keys longer than 64 bytes.
		panic(err)
	}
	return h
}

func newBlake2b512() hash.Hash {
	h, err := blake2b.New512(nil)
	if err != nil {
		panic(err)
	}
	return h
}

// algorithms is keyed by normalized name, see normalize.
var algorithms = map[string]Algorithm{
	"sha":        {"SHA-1", sha1.New},
	"sha1":       {"SHA-1", sha1.New},
	"sha224":     {"SHA-224", sha256.New224},
	"sha256":     {"SHA-256", sha256.New},
	"sha384":     {"SHA-384", sha512.New384},
	"sha512":     {"SHA-512", sha512.New},
	"sha3256":    {"SHA3-256", sha3.New256},
	"sha3512":    {"SHA3-512", sha3.New512},
	"blake2b256": {"BLAKE2b-256", newBlake2b256},
	"blake2b512": {"BLAKE2b-512", newBlake2b512},
}

func normalize(name string) string {
	name = strings.ToLower(name)
	name = strings.Replace(name, "-", "", -1)
	return strings.Replace(name, "_", "", -1)
}

// Lookup resolves an algorithm name such as "SHA-256" or "sha256". Matching
// ignores case, dashes and underscores.
func Lookup(name string) (Algorithm, error) {
	alg, ok := algorithms[normalize(name)]
	if !ok {
		return Algorithm{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return alg, nil
}

// Sum hashes the concatenation of data with the named algorithm.
func Sum(alg Algorithm, data ...[]byte) []byte {
	h := alg.New()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// Chain is an order sensitive hash accumulator.
//
// Chains are not safe for concurrent use.
type Chain struct {
	alg      Algorithm
	h        hash.Hash
	finished bool

	// replay is set when h cannot be cloned through its binary marshaling.
	// All input is then kept in buf so that Copy can rebuild the state.
	replay bool
	buf    []byte
}

// New returns an empty chain for the named algorithm.
func New(name string) (*Chain, error) {
	alg, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return NewChain(alg), nil
}

// NewChain returns an empty chain for alg.
func NewChain(alg Algorithm) *Chain {
	c := &Chain{alg: alg, h: alg.New()}
	if _, ok := c.h.(encoding.BinaryMarshaler); !ok {
		c.replay = true
	}
	return c
}

// Algorithm returns the chain's hash algorithm.
func (c *Chain) Algorithm() Algorithm {
	return c.alg
}

// Update feeds data into the chain. Updating a finished chain panics.
func (c *Chain) Update(data ...[]byte) {
	if c.finished {
		panic("digest: update of finished chain")
	}
	for _, d := range data {
		c.h.Write(d)
		if c.replay {
			c.buf = append(c.buf, d...)
		}
	}
}

// Copy returns an independent chain with the same state as c. Updates to
// the copy do not affect c and vice versa.
func (c *Chain) Copy() *Chain {
	cp := &Chain{alg: c.alg, finished: c.finished, replay: c.replay}
	if !c.replay {
		state, err := c.h.(encoding.BinaryMarshaler).MarshalBinary()
		if err == nil {
			h := c.alg.New()
			if u, ok := h.(encoding.BinaryUnmarshaler); ok && u.UnmarshalBinary(state) == nil {
				cp.h = h
				return cp
			}
		}
		// The hash advertised marshaling but could not round trip. Such a
		// chain has no transcript to replay, so this is a bug.
		panic("digest: cannot clone " + c.alg.Name + " state")
	}
	cp.h = c.alg.New()
	cp.buf = append([]byte(nil), c.buf...)
	cp.h.Write(cp.buf)
	return cp
}

// Peek returns the hash of everything fed so far without finishing c.
func (c *Chain) Peek() []byte {
	return c.Copy().h.Sum(nil)
}

// Finish returns the hash of everything fed into the chain. A chain can be
// finished only once.
func (c *Chain) Finish() ([]byte, error) {
	if c.finished {
		return nil, ErrFinished
	}
	c.finished = true
	sum := c.h.Sum(nil)
	for i := range c.buf {
		c.buf[i] = 0
	}
	c.buf = nil
	return sum, nil
}

// Finished reports whether Finish has been called.
func (c *Chain) Finished() bool {
	return c.finished
}
