// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package srp

// State is the position of a session in the handshake.
//
//	client: Init -> HaveExponential (A sent) -> HaveProof (M1 sent) -> Verified | Failed
//	server: Init -> HaveExponential (B sent) -> HaveProof (K derived) -> Verified | Failed
//
// Close moves a session of any state to Closed.
type State int

const (
	StateInit State = iota
	StateHaveExponential
	StateHaveProof
	StateVerified
	StateFailed
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateHaveExponential:
		return "HaveExponential"
	case StateHaveProof:
		return "HaveProof"
	case StateVerified:
		return "Verified"
	case StateFailed:
		return "Failed"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}
