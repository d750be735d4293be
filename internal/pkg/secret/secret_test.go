// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package secret

import (
	"math/big"
	"testing"
)

func TestWipe(t *testing.T) {
	b := []byte("wonderland")
	Wipe(b)
	for i, c := range b {
		if c != 0 {
			t.Fatalf("b[%d] = %d after Wipe", i, c)
		}
	}
	Wipe(nil)
}

func TestWipeInt(t *testing.T) {
	x, ok := new(big.Int).SetString("123456789abcdef0123456789abcdef", 16)
	if !ok {
		t.Fatal("SetString failed")
	}
	words := x.Bits()
	WipeInt(x)
	if x.Sign() != 0 {
		t.Fatalf("x = %v after WipeInt", x)
	}
	for i, w := range words {
		if w != 0 {
			t.Fatalf("word %d = %x after WipeInt", i, w)
		}
	}
	WipeInt(nil)
}
