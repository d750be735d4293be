// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

// Package wire contains the message framing used by the example server and
// client in cmd/. Every message is one JSON object on its own line.
package wire

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/frekui/srp/internal/pkg/secchan"
	"github.com/pion/logging"
)

// Hello starts a handshake.
type Hello struct {
	Username string `json:"username"`
}

// Params is the server's answer to Hello.
type Params struct {
	N               []byte `json:"n"`
	G               []byte `json:"g"`
	Salt            []byte `json:"salt"`
	HashAlgorithm   string `json:"hash_algorithm,omitempty"`
	DigestAlgorithm string `json:"digest_algorithm,omitempty"`
}

// ClientExponential carries A.
type ClientExponential struct {
	A []byte `json:"a"`
}

// ServerExponential carries B.
type ServerExponential struct {
	B []byte `json:"b"`
}

// ClientProof carries M1.
type ClientProof struct {
	M1 []byte `json:"m1"`
}

// ServerProof carries M2.
type ServerProof struct {
	M2 []byte `json:"m2"`
}

// Sealed carries a message protected by a secchan.Channel.
type Sealed struct {
	Data []byte `json:"data"`
}

type errorMsg struct {
	Error string `json:"error"`
}

// RemoteError is returned by Receive when the peer sent an error message
// instead of the expected one.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return "remote: " + e.Message
}

// Conn reads and writes messages on a stream.
type Conn struct {
	r   *bufio.Reader
	w   *bufio.Writer
	log logging.LeveledLogger
}

// NewConn wraps rw. log may be nil.
func NewConn(rw io.ReadWriter, log logging.LeveledLogger) *Conn {
	return &Conn{r: bufio.NewReader(rw), w: bufio.NewWriter(rw), log: log}
}

func (c *Conn) write(data []byte) error {
	if c.log != nil {
		c.log.Tracef("> %s", data)
	}
	c.w.Write(data)
	c.w.WriteByte('\n')
	return c.w.Flush()
}

func (c *Conn) read() ([]byte, error) {
	data, err := c.r.ReadBytes('\n')
	if err != nil {
		return nil, err
	}
	data = data[:len(data)-1]
	if c.log != nil {
		c.log.Tracef("< %s", data)
	}
	return data, nil
}

// Send writes v as one message.
func (c *Conn) Send(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.write(data)
}

// SendError tells the peer that the exchange failed.
func (c *Conn) SendError(msg string) error {
	return c.Send(errorMsg{Error: msg})
}

// Receive reads the next message into v. If the peer sent an error message
// a *RemoteError is returned.
func (c *Conn) Receive(v interface{}) error {
	data, err := c.read()
	if err != nil {
		return err
	}
	var em errorMsg
	if err := json.Unmarshal(data, &em); err != nil {
		return fmt.Errorf("wire: malformed message: %v", err)
	}
	if em.Error != "" {
		return &RemoteError{Message: em.Error}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("wire: malformed message: %v", err)
	}
	return nil
}

// SendSealed seals plaintext with ch and sends it.
func (c *Conn) SendSealed(ch *secchan.Channel, plaintext string) error {
	ct, err := ch.Seal([]byte(plaintext))
	if err != nil {
		return err
	}
	return c.Send(Sealed{Data: ct})
}

// ReceiveSealed reads a sealed message and opens it with ch.
func (c *Conn) ReceiveSealed(ch *secchan.Channel) (string, error) {
	var msg Sealed
	if err := c.Receive(&msg); err != nil {
		return "", err
	}
	pt, err := ch.Open(msg.Data)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}
