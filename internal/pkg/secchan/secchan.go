// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

// Package secchan implements a minimal encrypted channel keyed from an SRP
// session key. It is used by the example server and client in cmd/ after a
// successful handshake.
package secchan

import (
	"crypto/cipher"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// Role selects which direction a Channel seals in.
type Role int

const (
	Client Role = iota
	Server
)

var (
	infoClientToServer = []byte("srp secchan client to server")
	infoServerToClient = []byte("srp secchan server to client")
)

// ErrAuthtagMismatch is returned by Open if the ciphertext could not be
// authenticated. This includes replayed and reordered messages.
var ErrAuthtagMismatch = errors.New("secchan: authtag mismatch")

// ErrExhausted is returned when a direction has used up its nonces.
var ErrExhausted = errors.New("secchan: nonce space exhausted")

// Channel seals outgoing and opens incoming messages. Each direction has its
// own key derived with HKDF-SHA256 from the session key and a 64-bit message
// counter used as nonce, so messages must be opened in the order they were
// sealed.
type Channel struct {
	mu       sync.Mutex
	send     cipher.AEAD
	recv     cipher.AEAD
	sendSeq  uint64
	recvSeq  uint64
	overhead int
}

// New derives a Channel from the session key k. Both peers call New with the
// same k and opposite roles.
func New(k []byte, role Role) (*Channel, error) {
	if len(k) == 0 {
		return nil, errors.New("secchan: empty key")
	}
	c2s, err := deriveAEAD(k, infoClientToServer)
	if err != nil {
		return nil, err
	}
	s2c, err := deriveAEAD(k, infoServerToClient)
	if err != nil {
		return nil, err
	}
	ch := &Channel{overhead: c2s.Overhead()}
	switch role {
	case Client:
		ch.send, ch.recv = c2s, s2c
	case Server:
		ch.send, ch.recv = s2c, c2s
	default:
		return nil, fmt.Errorf("secchan: invalid role %d", role)
	}
	return ch, nil
}

func deriveAEAD(k, info []byte) (cipher.AEAD, error) {
	kdfr := hkdf.New(sha256.New, k, nil, info)
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(kdfr, key); err != nil {
		return nil, err
	}
	return chacha20poly1305.New(key)
}

func nonce(seq uint64) []byte {
	n := make([]byte, chacha20poly1305.NonceSize)
	binary.BigEndian.PutUint64(n[chacha20poly1305.NonceSize-8:], seq)
	return n
}

// Seal encrypts and authenticates plaintext as the next outgoing message.
func (c *Channel) Seal(plaintext []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendSeq == math.MaxUint64 {
		return nil, ErrExhausted
	}
	out := c.send.Seal(nil, nonce(c.sendSeq), plaintext, nil)
	c.sendSeq++
	return out, nil
}

// Open authenticates and decrypts the next incoming message.
func (c *Channel) Open(ciphertext []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(ciphertext) < c.overhead {
		return nil, fmt.Errorf("secchan: input too short")
	}
	if c.recvSeq == math.MaxUint64 {
		return nil, ErrExhausted
	}
	plaintext, err := c.recv.Open(nil, nonce(c.recvSeq), ciphertext, nil)
	if err != nil {
		return nil, ErrAuthtagMismatch
	}
	c.recvSeq++
	return plaintext, nil
}
