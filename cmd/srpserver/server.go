// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/frekui/srp"
	"github.com/frekui/srp/internal/pkg/secchan"
	"github.com/frekui/srp/internal/pkg/wire"
	"github.com/frekui/srp/store"
	"github.com/pion/logging"
	perrors "github.com/pkg/errors"
)

const toClient = "Hi client!"

type server struct {
	st  store.Store
	lf  logging.LoggerFactory
	log logging.LeveledLogger
}

func newServer(st store.Store, lf logging.LoggerFactory) *server {
	return &server{st: st, lf: lf, log: lf.NewLogger("srpserver")}
}

// serve accepts connections until ln is closed and waits for the running
// handshakes to finish.
func (s *server) serve(ln net.Listener) {
	var wg sync.WaitGroup
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				break
			}
			s.log.Warnf("accept: %v", err)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleConn(conn)
		}()
	}
	wg.Wait()
}

func (s *server) handleConn(conn net.Conn) {
	defer conn.Close()
	s.log.Infof("got connection from %s", conn.RemoteAddr())
	received, err := s.auth(wire.NewConn(conn, s.lf.NewLogger("wire")))
	if err != nil {
		s.log.Infof("auth: %s", err)
		return
	}
	s.log.Infof("received '%s'", received)
}

// auth runs one handshake and the greeting exchange. It returns the
// client's greeting.
func (s *server) auth(c *wire.Conn) (string, error) {
	var hello wire.Hello
	if err := c.Receive(&hello); err != nil {
		return "", err
	}
	rec, err := s.st.Get(hello.Username)
	if perrors.Cause(err) == store.ErrNotFound {
		c.SendError("authentication failed")
		return "", fmt.Errorf("no such user '%s'", hello.Username)
	}
	if err != nil {
		c.SendError("internal error")
		return "", err
	}
	p := rec.Params()
	sess, err := srp.NewServerSession(rec.Username, rec.Verifier, p, srp.WithLoggerFactory(s.lf))
	if err != nil {
		c.SendError("internal error")
		return "", err
	}
	defer sess.Close()

	err = c.Send(wire.Params{
		N:               p.N,
		G:               p.G,
		Salt:            p.Salt,
		HashAlgorithm:   p.HashAlgorithm,
		DigestAlgorithm: p.DigestAlgorithm,
	})
	if err != nil {
		return "", err
	}

	var msgA wire.ClientExponential
	if err := c.Receive(&msgA); err != nil {
		return "", err
	}
	B, err := sess.Exponential()
	if err != nil {
		c.SendError("internal error")
		return "", err
	}
	if err := sess.BuildSessionKey(msgA.A); err != nil {
		c.SendError("invalid public value")
		return "", err
	}
	if err := c.Send(wire.ServerExponential{B: B}); err != nil {
		return "", err
	}

	var msgM1 wire.ClientProof
	if err := c.Receive(&msgM1); err != nil {
		return "", err
	}
	ok, err := sess.Verify(msgM1.M1)
	if err != nil {
		return "", err
	}
	if !ok {
		c.SendError("authentication failed")
		return "", fmt.Errorf("client proof for '%s' did not verify", rec.Username)
	}
	M2, err := sess.ServerResponse()
	if err != nil {
		return "", err
	}
	if err := c.Send(wire.ServerProof{M2: M2}); err != nil {
		return "", err
	}

	k, err := sess.SessionKey()
	if err != nil {
		return "", err
	}
	ch, err := secchan.New(k, secchan.Server)
	if err != nil {
		return "", err
	}
	s.log.Debugf("sending '%s'", toClient)
	if err := c.SendSealed(ch, toClient); err != nil {
		return "", err
	}
	return c.ReceiveSealed(ch)
}
