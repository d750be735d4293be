// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package cli

import (
	"bytes"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	root := NewRootCommand("srptest", "short", "long")
	root.AddCommand(NewVersionCommand("srptest"))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "srptest v"+Version+"\n" {
		t.Fatalf("got %q", out.String())
	}

	root.SetArgs([]string{"version", "extra"})
	if err := root.Execute(); err == nil {
		t.Fatalf("extra argument accepted")
	}
}
