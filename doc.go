// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

/*
Package srp contains an implementation of the Secure Remote Password protocol
(SRP-6 family), a password authenticated key exchange. SRP is described in [1]
and [2].

SRP can be split into two parts, enrollment and authentication. At enrollment
the server stores a salt and a verifier v = g^x mod N computed by
ComputeVerifier, where x = H(salt | H(username | ":" | password)). The password
itself is never stored. Authentication runs a ClientSession against a
ServerSession through four messages:

	Client                                   Server
	------                                   ------
	NewClientSession(U, P, params)           NewServerSession(U, v, params)
	A = Exponential()            -- A -->    BuildSessionKey(A)
	M1 = Response(B)             <-- B --    B = Exponential()
	                             -- M1 -->   Verify(M1)
	Verify(M2)                   <-- M2 --   M2 = ServerResponse()

with

	u  = first 32 bits of H(B)
	S  = (B - v)^(a + u*x) mod N = (A * v^u)^b mod N
	K  = H_session(S)
	M1 = H(H(N) xor H(g) | H(U) | s | A | B | K)
	M2 = H(A | M1 | K)

If both sides used a matching password and verifier they end up with the same
session key K, which can be read with SessionKey and used to protect
further communication between the peers. Authentication failure is reported
as a false result from Verify, not as an error.

Each session is single use and tracks its progress in an explicit State.
Methods called out of order return ErrProtocolOrder. Sessions are safe for
concurrent use, but the handshake itself is sequential.

It's up to the user of the package to move A, B, M1 and M2 between the peers.
In the example server and client (cmd/srpserver and cmd/srpclient) the values
are sent as JSON, one message per line.

IMPORTANT NOTE: This code has been written for educational purposes only. No
experts in cryptography or IT security have reviewed it. Do not use it for
anything important.

[1] T. Wu, "The Secure Remote Password Protocol", NDSS 1998.

[2] http://srp.stanford.edu/design.html
*/
package srp
