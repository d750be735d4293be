// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package store

import (
	"sync"

	"github.com/pkg/errors"
)

type memory struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemory returns an empty Store that lives in memory only.
func NewMemory() Store {
	return &memory{records: map[string]Record{}}
}

func (m *memory) Get(username string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[username]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "user %q", username)
	}
	return &r, nil
}

func (m *memory) Put(r *Record) error {
	if r == nil || r.Username == "" {
		return errors.New("store: record without username")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.Username] = *r
	return nil
}

func (m *memory) Delete(username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[username]; !ok {
		return errors.Wrapf(ErrNotFound, "user %q", username)
	}
	delete(m.records, username)
	return nil
}

func (m *memory) Close() error {
	return nil
}
