// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.
//
// This file contains the modular arithmetic helpers shared by both sides of
// an SRP exchange over the group Z^*_N.

// Package group contains SRP group parameters and the arithmetic helpers that
// operate on them.
package group

import (
	"errors"
	"io"
	"math/big"
	"sort"
)

// EphemeralSize is the number of random bytes drawn for an ephemeral secret.
const EphemeralSize = 32

// ErrDegenerate is returned when bytes supplied for an ephemeral secret
// encode a value <= 1.
var ErrDegenerate = errors.New("group: degenerate ephemeral secret")

var one = big.NewInt(1)

// Group represents the group Z^*_N with generator G.
type Group struct {
	// Group generator.
	G *big.Int

	// Group modulus, a large safe prime.
	N *big.Int
}

// Trim returns the canonical big-endian encoding of x: no leading zero bytes
// and no loss of significant bytes. Zero encodes as a single zero byte so
// that it still contributes to a hash.
func Trim(x *big.Int) []byte {
	b := x.Bytes()
	if len(b) == 0 {
		return []byte{0}
	}
	return b
}

// IsZeroMod reports whether x is congruent to zero modulo n. A peer that
// sends such a public value forces the shared secret to a known constant.
func IsZeroMod(x, n *big.Int) bool {
	z := new(big.Int)
	return z.Mod(x, n).Sign() == 0
}

// IsInGroup returns true if x is in the group Z^*_p and false otherwise.
func IsInGroup(x *big.Int, p *big.Int) bool {
	if big.NewInt(0).Cmp(x) != -1 || x.Cmp(p) != -1 {
		return false
	}
	return true
}

// GenerateEphemeral draws an ephemeral secret from r. Values <= 1 are
// discarded and redrawn.
func GenerateEphemeral(r io.Reader) (*big.Int, error) {
	buf := make([]byte, EphemeralSize)
	defer func() {
		for i := range buf {
			buf[i] = 0
		}
	}()
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		key := new(big.Int).SetBytes(buf)
		if key.Cmp(one) > 0 {
			return key, nil
		}
	}
}

// EphemeralFromBytes interprets fixed bytes as an ephemeral secret. Unlike
// GenerateEphemeral there is nothing to redraw, so degenerate input is an
// error.
func EphemeralFromBytes(b []byte) (*big.Int, error) {
	key := new(big.Int).SetBytes(b)
	if key.Cmp(one) <= 0 {
		return nil, ErrDegenerate
	}
	return key, nil
}

// Exp returns g^x mod N.
func (g Group) Exp(x *big.Int) *big.Int {
	ret := new(big.Int)
	return ret.Exp(g.G, x, g.N)
}

func mustHex(s string) *big.Int {
	x, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("big.Int SetString failed")
	}
	return x
}

// Rfc5054_1024 is the 1024-bit group from RFC 5054, Appendix A.
var Rfc5054_1024 = Group{
	G: big.NewInt(2),
	N: mustHex(
		"EEAF0AB9ADB38DD69C33F80AFA8FC5E86072618775FF3C0B9EA2314C9C256576" +
			"D674DF7496EA81D3383B4813D692C6E0E0D5D8E250B98BE48E495C1D6089DAD1" +
			"5DC7D7B46154D6B6CE8EF4AD69B15D4982559B297BCF1885C529F566660E57EC" +
			"68EDBC3C05726CC02FD4CBF4976EAA9AFD5138FE8376435B9FC61D2FC0EB06E3"),
}

// Rfc5054_1536 is the 1536-bit group from RFC 5054, Appendix A.
var Rfc5054_1536 = Group{
	G: big.NewInt(2),
	N: mustHex(
		"9DEF3CAFB939277AB1F12A8617A47BBBDBA51DF499AC4C80BEEEA9614B19CC4D" +
			"5F4F5F556E27CBDE51C6A94BE4607A291558903BA0D0F84380B655BB9A22E8DC" +
			"DF028A7CEC67F0D08134B1C8B97989149B609E0BE3BAB63D47548381DBC5B1FC" +
			"764E3F4B53DD9DA1158BFD3E2B9C8CF56EDF019539349627DB2FD53D24B7C486" +
			"65772E437D6C7F8CE442734AF7CCB7AE837C264AE3A9BEB87F8A2FE9B8B5292E" +
			"5A021FFF5E91479E8CE7A28C2442C6F315180F93499A234DCF76E3FED135F9BB"),
}

// Rfc5054_2048 is the 2048-bit group from RFC 5054, Appendix A.
var Rfc5054_2048 = Group{
	G: big.NewInt(2),
	N: mustHex(
		"AC6BDB41324A9A9BF166DE5E1389582FAF72B6651987EE07FC3192943DB56050" +
			"A37329CBB4A099ED8193E0757767A13DD52312AB4B03310DCD7F48A9DA04FD50" +
			"E8083969EDB767B0CF6095179A163AB3661A05FBD5FAAAE82918A9962F0B93B8" +
			"55F97993EC975EEAA80D740ADBF4FF747359D041D5C33EA71D281E446B14773B" +
			"CA97B43A23FB801676BD207A436C6481F1D2B9078717461A5B9D32E688F87748" +
			"544523B524B0D57D5EA77A2775D2ECFA032CFBDBF52FB3786160279004E57AE6" +
			"AF874E7303CE53299CCC041C7BC308D82A5698F3A8D0C38271AE35F8E9DBFBB6" +
			"94B5C803D89F7AE435DE236D525F54759B65E372FCD68EF20FA7111F9E4AFF73"),
}

// Rfc3526_2048 is the 2048-bit MODP Group from RFC 3526.
var Rfc3526_2048 = Group{
	G: big.NewInt(2),
	N: mustHex(
		"FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088A67CC74" +
			"020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B302B0A6DF25F1437" +
			"4FE1356D6D51C245E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7ED" +
			"EE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3DC2007CB8A163BF05" +
			"98DA48361C55D39A69163FA8FD24CF5F83655D23DCA3AD961C62F356208552BB" +
			"9ED529077096966D670C354E4ABC9804F1746C08CA18217C32905E462E36CE3B" +
			"E39E772C180E86039B2783A2EC07A28FB5C55DF06F4C52C9DE2BCBF695581718" +
			"3995497CEA956AE515D2261898FA051015728E5A8AACAA68FFFFFFFFFFFFFFFF"),
}

var named = map[string]Group{
	"rfc5054-1024": Rfc5054_1024,
	"rfc5054-1536": Rfc5054_1536,
	"rfc5054-2048": Rfc5054_2048,
	"rfc3526-2048": Rfc3526_2048,
}

// Named returns the group registered under name.
func Named(name string) (Group, bool) {
	g, ok := named[name]
	return g, ok
}

// Names returns the registered group names in sorted order.
func Names() []string {
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
