// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

// Package config reads and writes the TOML configuration files of the
// example server and client in cmd/.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/frekui/srp"
	"github.com/pion/logging"
)

// DefaultAddress is where the example server listens by default.
const DefaultAddress = "localhost:9999"

// Server is the configuration of cmd/srpserver.
type Server struct {
	Address         string `toml:"address"`
	Database        string `toml:"database"`
	Group           string `toml:"group"`
	HashAlgorithm   string `toml:"hash_algorithm"`
	DigestAlgorithm string `toml:"digest_algorithm"`
	SaltLength      int    `toml:"salt_length"`
	LogLevel        string `toml:"log_level"`
}

// Client is the configuration of cmd/srpclient.
type Client struct {
	Address  string `toml:"address"`
	LogLevel string `toml:"log_level"`
}

// DefaultServer returns the configuration written by "srpserver init".
func DefaultServer() *Server {
	return &Server{
		Address:         DefaultAddress,
		Database:        "verifiers.db",
		Group:           "rfc5054-1024",
		HashAlgorithm:   srp.DefaultDigestAlgorithm,
		DigestAlgorithm: srp.DefaultDigestAlgorithm,
		SaltLength:      srp.DefaultSaltLength,
		LogLevel:        "info",
	}
}

// DefaultClient returns the client configuration used when no file is given.
func DefaultClient() *Client {
	return &Client{Address: DefaultAddress, LogLevel: "info"}
}

// Params returns the enrollment template described by c: the named group
// and the two algorithms, without salt.
func (c *Server) Params() (*srp.Params, error) {
	p, err := srp.GroupParams(c.Group)
	if err != nil {
		return nil, err
	}
	p.HashAlgorithm = c.HashAlgorithm
	p.DigestAlgorithm = c.DigestAlgorithm
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Load decodes the TOML file at path into v. Fields missing from the file
// keep the value they had in v.
func Load(path string, v interface{}) error {
	if _, err := toml.DecodeFile(path, v); err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}
	return nil
}

// Save encodes v as TOML and writes it to path. An existing file is never
// overwritten.
func Save(path string, v interface{}) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("can't write file, %s already exists", path)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0600)
}

// ResolvePath returns file relative to the directory of other unless file is
// absolute.
func ResolvePath(file, other string) string {
	if !filepath.IsAbs(file) {
		file = filepath.Join(filepath.Dir(other), file)
	}
	return file
}

var levels = map[string]logging.LogLevel{
	"disabled": logging.LogLevelDisabled,
	"error":    logging.LogLevelError,
	"warn":     logging.LogLevelWarn,
	"info":     logging.LogLevelInfo,
	"debug":    logging.LogLevelDebug,
	"trace":    logging.LogLevelTrace,
}

// ParseLogLevel maps a log_level value to a pion log level. The empty string
// means info.
func ParseLogLevel(s string) (logging.LogLevel, error) {
	if s == "" {
		return logging.LogLevelInfo, nil
	}
	l, ok := levels[strings.ToLower(s)]
	if !ok {
		return logging.LogLevelDisabled, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// LoggerFactory builds a logger factory writing to w at the given level.
func LoggerFactory(level string, w io.Writer) (*logging.DefaultLoggerFactory, error) {
	l, err := ParseLogLevel(level)
	if err != nil {
		return nil, err
	}
	return &logging.DefaultLoggerFactory{
		Writer:          w,
		DefaultLogLevel: l,
		ScopeLevels:     map[string]logging.LogLevel{},
	}, nil
}
