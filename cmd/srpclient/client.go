// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/frekui/srp"
	"github.com/frekui/srp/internal/pkg/secchan"
	"github.com/frekui/srp/internal/pkg/wire"
	"github.com/pion/logging"
)

const toServer = "Hi server!"

type client struct {
	lf  logging.LoggerFactory
	log logging.LeveledLogger
}

func newClient(lf logging.LoggerFactory) *client {
	return &client{lf: lf, log: lf.NewLogger("srpclient")}
}

// auth authenticates as username over rw and returns the server's greeting.
// password is cleared once the session has been created.
func (cl *client) auth(rw io.ReadWriter, username string, password []byte) (string, error) {
	defer srp.ClearPassword(password)
	c := wire.NewConn(rw, cl.lf.NewLogger("wire"))

	if err := c.Send(wire.Hello{Username: username}); err != nil {
		return "", err
	}
	var msgP wire.Params
	if err := c.Receive(&msgP); err != nil {
		return "", err
	}
	p := &srp.Params{
		N:               msgP.N,
		G:               msgP.G,
		Salt:            msgP.Salt,
		HashAlgorithm:   msgP.HashAlgorithm,
		DigestAlgorithm: msgP.DigestAlgorithm,
	}
	sess, err := srp.NewClientSession(username, password, p, srp.WithLoggerFactory(cl.lf))
	if err != nil {
		return "", err
	}
	srp.ClearPassword(password)
	defer sess.Close()

	A, err := sess.Exponential()
	if err != nil {
		return "", err
	}
	if err := c.Send(wire.ClientExponential{A: A}); err != nil {
		return "", err
	}
	var msgB wire.ServerExponential
	if err := c.Receive(&msgB); err != nil {
		return "", err
	}
	M1, err := sess.Response(msgB.B)
	if err != nil {
		return "", err
	}
	if err := c.Send(wire.ClientProof{M1: M1}); err != nil {
		return "", err
	}
	var msgM2 wire.ServerProof
	if err := c.Receive(&msgM2); err != nil {
		return "", err
	}
	ok, err := sess.Verify(msgM2.M2)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("server proof did not verify")
	}

	k, err := sess.SessionKey()
	if err != nil {
		return "", err
	}
	ch, err := secchan.New(k, secchan.Client)
	if err != nil {
		return "", err
	}
	received, err := c.ReceiveSealed(ch)
	if err != nil {
		return "", err
	}
	cl.log.Debugf("sending '%s'", toServer)
	if err := c.SendSealed(ch, toServer); err != nil {
		return "", err
	}
	return received, nil
}
