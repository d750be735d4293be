// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"net"
	"testing"

	"github.com/frekui/srp"
	"github.com/frekui/srp/internal/pkg/secchan"
	"github.com/frekui/srp/internal/pkg/wire"
	"github.com/frekui/srp/store"
	"github.com/pion/logging"
)

func newTestServer(t *testing.T) *server {
	st := store.NewMemory()
	p, err := srp.GroupParams("rfc5054-1024")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Enroll(st, "alice", []byte("wonderland"), p, 16, nil); err != nil {
		t.Fatal(err)
	}
	return newServer(st, logging.NewDefaultLoggerFactory())
}

type result struct {
	received string
	err      error
}

func startAuth(s *server) (net.Conn, chan result) {
	a, b := net.Pipe()
	done := make(chan result, 1)
	go func() {
		defer b.Close()
		received, err := s.auth(wire.NewConn(b, nil))
		done <- result{received, err}
	}()
	return a, done
}

// handshake plays the client side up to M1 and returns the session and the
// reply to M1.
func handshake(t *testing.T, c *wire.Conn, username, password string) (*srp.ClientSession, wire.ServerProof, error) {
	if err := c.Send(wire.Hello{Username: username}); err != nil {
		t.Fatal(err)
	}
	var msgP wire.Params
	if err := c.Receive(&msgP); err != nil {
		return nil, wire.ServerProof{}, err
	}
	p := &srp.Params{N: msgP.N, G: msgP.G, Salt: msgP.Salt, HashAlgorithm: msgP.HashAlgorithm, DigestAlgorithm: msgP.DigestAlgorithm}
	sess, err := srp.NewClientSession(username, []byte(password), p)
	if err != nil {
		t.Fatal(err)
	}
	A, _ := sess.Exponential()
	if err := c.Send(wire.ClientExponential{A: A}); err != nil {
		t.Fatal(err)
	}
	var msgB wire.ServerExponential
	if err := c.Receive(&msgB); err != nil {
		t.Fatal(err)
	}
	M1, err := sess.Response(msgB.B)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Send(wire.ClientProof{M1: M1}); err != nil {
		t.Fatal(err)
	}
	var msgM2 wire.ServerProof
	err = c.Receive(&msgM2)
	return sess, msgM2, err
}

func TestAuth(t *testing.T) {
	s := newTestServer(t)
	conn, done := startAuth(s)
	defer conn.Close()
	c := wire.NewConn(conn, nil)

	sess, msgM2, err := handshake(t, c, "alice", "wonderland")
	if err != nil {
		t.Fatal(err)
	}
	if ok, err := sess.Verify(msgM2.M2); !ok || err != nil {
		t.Fatalf("Verify = %v, %v", ok, err)
	}
	k, err := sess.SessionKey()
	if err != nil {
		t.Fatal(err)
	}
	ch, err := secchan.New(k, secchan.Client)
	if err != nil {
		t.Fatal(err)
	}
	greeting, err := c.ReceiveSealed(ch)
	if err != nil {
		t.Fatal(err)
	}
	if greeting != toClient {
		t.Fatalf("got %q", greeting)
	}
	if err := c.SendSealed(ch, "Hi server!"); err != nil {
		t.Fatal(err)
	}
	res := <-done
	if res.err != nil || res.received != "Hi server!" {
		t.Fatalf("server result %+v", res)
	}
}

func TestAuthWrongPassword(t *testing.T) {
	s := newTestServer(t)
	conn, done := startAuth(s)
	defer conn.Close()

	_, _, err := handshake(t, wire.NewConn(conn, nil), "alice", "looking-glass")
	if _, ok := err.(*wire.RemoteError); !ok {
		t.Fatalf("expected remote error, got %v", err)
	}
	if res := <-done; res.err == nil {
		t.Fatalf("server accepted a wrong password")
	}
}

func TestAuthUnknownUser(t *testing.T) {
	s := newTestServer(t)
	conn, done := startAuth(s)
	defer conn.Close()

	_, _, err := handshake(t, wire.NewConn(conn, nil), "mallory", "x")
	if _, ok := err.(*wire.RemoteError); !ok {
		t.Fatalf("expected remote error, got %v", err)
	}
	if res := <-done; res.err == nil {
		t.Fatalf("server accepted an unknown user")
	}
}

func TestServe(t *testing.T) {
	s := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	stopped := make(chan struct{})
	go func() {
		s.serve(ln)
		close(stopped)
	}()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	sess, msgM2, err := handshake(t, wire.NewConn(conn, nil), "alice", "wonderland")
	if err != nil {
		t.Fatal(err)
	}
	if ok, _ := sess.Verify(msgM2.M2); !ok {
		t.Fatalf("server proof did not verify")
	}
	conn.Close()
	ln.Close()
	<-stopped
}
