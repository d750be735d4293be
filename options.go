// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package srp

import (
	"errors"
	"io"
	"math/big"

	"github.com/frekui/srp/internal/pkg/group"
	"github.com/pion/logging"
)

// KeyGuard decides whether the caller may read the session key of username.
// A non-nil error denies access.
type KeyGuard func(username string) error

// Option configures a ClientSession or ServerSession.
type Option func(*options) error

type options struct {
	rand          io.Reader
	ephemeral     []byte
	loggerFactory logging.LoggerFactory
	guard         KeyGuard
}

func newOptions(opts []Option) (*options, error) {
	o := &options{rand: randr}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithRand sets the source used to draw the ephemeral secret.
func WithRand(r io.Reader) Option {
	return func(o *options) error {
		if r == nil {
			return errors.New("srp: nil random source")
		}
		o.rand = r
		return nil
	}
}

// WithEphemeral fixes the ephemeral secret (a or b) instead of drawing it.
// It exists for test harnesses that need reproducible exchanges.
func WithEphemeral(b []byte) Option {
	return func(o *options) error {
		if _, err := group.EphemeralFromBytes(b); err != nil {
			return err
		}
		o.ephemeral = copyBytes(b)
		return nil
	}
}

// WithLoggerFactory enables logging. Without it sessions do not log.
func WithLoggerFactory(f logging.LoggerFactory) Option {
	return func(o *options) error {
		o.loggerFactory = f
		return nil
	}
}

// WithKeyGuard installs the authorization check run by SessionKey.
func WithKeyGuard(g KeyGuard) Option {
	return func(o *options) error {
		o.guard = g
		return nil
	}
}

func (o *options) logger(scope string) logging.LeveledLogger {
	if o.loggerFactory == nil {
		return nil
	}
	return o.loggerFactory.NewLogger(scope)
}

// ephemeralSecret returns the fixed ephemeral if one was given and draws a
// fresh one otherwise.
func (o *options) ephemeralSecret() (*big.Int, error) {
	if o.ephemeral != nil {
		return group.EphemeralFromBytes(o.ephemeral)
	}
	return group.GenerateEphemeral(o.rand)
}
