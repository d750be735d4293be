// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package secchan

import (
	"bytes"
	"testing"
)

func pair(t *testing.T, k []byte) (*Channel, *Channel) {
	c, err := New(k, Client)
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(k, Server)
	if err != nil {
		t.Fatal(err)
	}
	return c, s
}

func TestSealOpen(t *testing.T) {
	key := bytes.Repeat([]byte{7}, 20)
	client, server := pair(t, key)
	for _, msg := range [][]byte{{}, []byte("hello"), bytes.Repeat([]byte{1}, 1000)} {
		ct, err := client.Seal(msg)
		if err != nil {
			t.Fatal(err)
		}
		pt, err := server.Open(ct)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		if !bytes.Equal(pt, msg) {
			t.Fatalf("got %v, expected %v", pt, msg)
		}

		ct, err = server.Seal(msg)
		if err != nil {
			t.Fatal(err)
		}
		pt, err = client.Open(ct)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		if !bytes.Equal(pt, msg) {
			t.Fatalf("got %v, expected %v", pt, msg)
		}
	}
}

func TestDirectionsDiffer(t *testing.T) {
	key := []byte("0123456789abcdef0123")
	client, server := pair(t, key)
	c1, _ := client.Seal([]byte("greeting"))
	s1, _ := server.Seal([]byte("greeting"))
	if bytes.Equal(c1, s1) {
		t.Fatalf("both directions produced the same ciphertext")
	}
	// A client cannot open its own message.
	other, _ := New(key, Client)
	if _, err := other.Open(c1); err != ErrAuthtagMismatch {
		t.Fatalf("reflected message accepted: %v", err)
	}
}

func TestTamperReplayWrongKey(t *testing.T) {
	key := bytes.Repeat([]byte{3}, 32)
	client, server := pair(t, key)

	ct, _ := client.Seal([]byte("first"))
	bad := append([]byte(nil), ct...)
	bad[len(bad)-1] ^= 1
	if _, err := server.Open(bad); err != ErrAuthtagMismatch {
		t.Fatalf("tampered ciphertext: %v", err)
	}
	if _, err := server.Open(ct); err != nil {
		t.Fatalf("Open after rejected tamper: %v", err)
	}
	if _, err := server.Open(ct); err != ErrAuthtagMismatch {
		t.Fatalf("replay accepted: %v", err)
	}

	wrong := append([]byte(nil), key...)
	wrong[0] ^= 1
	_, wrongServer := pair(t, wrong)
	ct, _ = client.Seal([]byte("second"))
	if _, err := wrongServer.Open(ct); err != ErrAuthtagMismatch {
		t.Fatalf("wrong key accepted: %v", err)
	}

	if _, err := server.Open([]byte{1, 2}); err == nil {
		t.Fatalf("short input accepted")
	}
}

func TestNew(t *testing.T) {
	if _, err := New(nil, Client); err == nil {
		t.Fatalf("empty key accepted")
	}
	if _, err := New([]byte{1}, Role(7)); err == nil {
		t.Fatalf("invalid role accepted")
	}
}
