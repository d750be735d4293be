// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package srp

import (
	"errors"

	"github.com/frekui/srp/internal/pkg/digest"
	"github.com/frekui/srp/internal/pkg/group"
)

// Errors.
var (
	// ErrUnknownAlgorithm is returned when Params names a hash that is not
	// supported.
	ErrUnknownAlgorithm = digest.ErrUnknownAlgorithm

	ErrInvalidParams = errors.New("srp: invalid group parameters")

	// ErrProtocolOrder is returned when a session method is called in a
	// state where it is not allowed, e.g. Response before Exponential.
	ErrProtocolOrder = errors.New("srp: method called out of protocol order")

	// ErrInvalidPublicValue is returned when the peer's A or B is 0 mod N.
	ErrInvalidPublicValue = errors.New("srp: invalid public value")

	// ErrDegenerateEphemeral is returned when fixed ephemeral bytes given
	// through WithEphemeral encode a value <= 1.
	ErrDegenerateEphemeral = group.ErrDegenerate

	ErrAuthenticationFailed = errors.New("srp: authentication failed")
	ErrKeyAccessDenied      = errors.New("srp: session key access denied")
)
