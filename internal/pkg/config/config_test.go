// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/frekui/srp"
	"github.com/go-test/deep"
	"github.com/pion/logging"
)

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.toml")
	conf := DefaultServer()
	conf.Group = "rfc5054-2048"
	conf.HashAlgorithm = "SHA-256"
	if err := Save(path, conf); err != nil {
		t.Fatal(err)
	}
	var got Server
	if err := Load(path, &got); err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(&got, conf); diff != nil {
		t.Fatalf("diff: %v", diff)
	}
	if err := Save(path, conf); err == nil {
		t.Fatalf("Save overwrote an existing file")
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.toml")
	if err := os.WriteFile(path, []byte("log_level = \"debug\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	conf := DefaultClient()
	if err := Load(path, conf); err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(conf, &Client{Address: DefaultAddress, LogLevel: "debug"}); diff != nil {
		t.Fatalf("diff: %v", diff)
	}
	if err := Load(filepath.Join(t.TempDir(), "missing.toml"), conf); err == nil {
		t.Fatalf("missing file accepted")
	}
}

func TestServerParams(t *testing.T) {
	conf := DefaultServer()
	p, err := conf.Params()
	if err != nil {
		t.Fatal(err)
	}
	ref, _ := srp.GroupParams("rfc5054-1024")
	if diff := deep.Equal(p.N, ref.N); diff != nil {
		t.Fatalf("diff: %v", diff)
	}
	if p.DigestAlgorithm != "SHA-1" || p.Salt != nil {
		t.Fatalf("unexpected params %+v", p)
	}

	conf.Group = "nope"
	if _, err := conf.Params(); !errors.Is(err, srp.ErrInvalidParams) {
		t.Fatalf("unknown group: %v", err)
	}
	conf = DefaultServer()
	conf.HashAlgorithm = "MD5"
	if _, err := conf.Params(); !errors.Is(err, srp.ErrUnknownAlgorithm) {
		t.Fatalf("unknown algorithm: %v", err)
	}
}

func TestResolvePath(t *testing.T) {
	if got := ResolvePath("verifiers.db", "/etc/srp/server.toml"); got != "/etc/srp/verifiers.db" {
		t.Fatalf("got %s", got)
	}
	if got := ResolvePath("/var/db", "/etc/srp/server.toml"); got != "/var/db" {
		t.Fatalf("got %s", got)
	}
}

func TestLogLevels(t *testing.T) {
	for _, tst := range []struct {
		in       string
		expected logging.LogLevel
		ok       bool
	}{
		{"", logging.LogLevelInfo, true},
		{"info", logging.LogLevelInfo, true},
		{"TRACE", logging.LogLevelTrace, true},
		{"disabled", logging.LogLevelDisabled, true},
		{"loud", logging.LogLevelDisabled, false},
	} {
		l, err := ParseLogLevel(tst.in)
		if (err == nil) != tst.ok || l != tst.expected {
			t.Fatalf("ParseLogLevel(%q) = %v, %v", tst.in, l, err)
		}
	}

	var buf bytes.Buffer
	lf, err := LoggerFactory("warn", &buf)
	if err != nil {
		t.Fatal(err)
	}
	log := lf.NewLogger("srpserver")
	log.Info("hidden")
	log.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected log output %q", buf.String())
	}
}
