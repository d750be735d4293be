// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package digest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"testing"
)

func TestLookup(t *testing.T) {
	for _, tst := range []struct {
		name     string
		expected string
		size     int
	}{
		{"SHA", "SHA-1", 20},
		{"sha-1", "SHA-1", 20},
		{"SHA1", "SHA-1", 20},
		{"SHA-224", "SHA-224", 28},
		{"sha256", "SHA-256", 32},
		{"SHA_384", "SHA-384", 48},
		{"SHA-512", "SHA-512", 64},
		{"sha3-256", "SHA3-256", 32},
		{"SHA3-512", "SHA3-512", 64},
		{"blake2b-256", "BLAKE2b-256", 32},
		{"BLAKE2B512", "BLAKE2b-512", 64},
	} {
		alg, err := Lookup(tst.name)
		if err != nil {
			t.Fatalf("Lookup(%q): %s", tst.name, err)
		}
		if alg.Name != tst.expected {
			t.Fatalf("Lookup(%q).Name = %q, expected %q", tst.name, alg.Name, tst.expected)
		}
		if alg.Size() != tst.size {
			t.Fatalf("%s size %d, expected %d", alg.Name, alg.Size(), tst.size)
		}
	}

	for _, name := range []string{"", "MD5", "SHA-2", "whirlpool"} {
		if _, err := New(name); err == nil {
			t.Fatalf("New(%q) unexpectedly succeeded", name)
		}
	}
}

func TestChainVectors(t *testing.T) {
	for _, tst := range []struct {
		alg      string
		parts    []string
		expected string
	}{
		{"SHA-1", []string{"abc"}, "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{"SHA-1", []string{"a", "b", "c"}, "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{"SHA-256", []string{"ab", "c"}, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"SHA-256", []string{""}, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
	} {
		c, err := New(tst.alg)
		if err != nil {
			t.Fatal(err)
		}
		for _, p := range tst.parts {
			c.Update([]byte(p))
		}
		sum, err := c.Finish()
		if err != nil {
			t.Fatal(err)
		}
		if hex.EncodeToString(sum) != tst.expected {
			t.Fatalf("%s(%v) = %x, expected %s", tst.alg, tst.parts, sum, tst.expected)
		}
	}
}

// opaqueHash hides the binary marshaling methods of the wrapped hash, which
// forces a Chain into transcript replay mode.
type opaqueHash struct {
	hash.Hash
}

func testCopyIndependence(t *testing.T, c *Chain) {
	c.Update([]byte("prefix"))
	fork := c.Copy()
	peek := c.Peek()

	fork.Update([]byte("fork only"))
	c.Update([]byte("suffix"))

	expected := Sum(c.Algorithm(), []byte("prefix"), []byte("suffix"))
	sum, err := c.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(sum, expected) {
		t.Fatalf("original chain affected by its copy")
	}

	forkSum, err := fork.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(forkSum, Sum(c.Algorithm(), []byte("prefixfork only"))) {
		t.Fatalf("copy did not start from the original's state")
	}
	if !bytes.Equal(peek, Sum(c.Algorithm(), []byte("prefix"))) {
		t.Fatalf("Peek returned %x", peek)
	}
}

func TestCopy(t *testing.T) {
	for _, name := range []string{"SHA-1", "SHA-256", "SHA-512", "SHA3-256", "BLAKE2b-256"} {
		c, err := New(name)
		if err != nil {
			t.Fatal(err)
		}
		testCopyIndependence(t, c)
	}
}

func TestCopyReplay(t *testing.T) {
	alg := Algorithm{Name: "opaque-sha256", New: func() hash.Hash { return opaqueHash{sha256.New()} }}
	c := NewChain(alg)
	if !c.replay {
		t.Fatalf("expected replay mode for a hash without marshaling")
	}
	testCopyIndependence(t, c)
}

func TestFinishTwice(t *testing.T) {
	c, err := New("SHA-256")
	if err != nil {
		t.Fatal(err)
	}
	c.Update([]byte("x"))
	if _, err := c.Finish(); err != nil {
		t.Fatal(err)
	}
	if !c.Finished() {
		t.Fatalf("chain not marked finished")
	}
	if _, err := c.Finish(); err != ErrFinished {
		t.Fatalf("second Finish returned %v, expected %v", err, ErrFinished)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("Update after Finish did not panic")
		}
	}()
	c.Update([]byte("y"))
}
