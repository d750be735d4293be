// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package store

import (
	"encoding/json"

	"github.com/pion/logging"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

const keyPrefix = "u:"

type levelDB struct {
	db  *leveldb.DB
	log logging.LeveledLogger
}

// OpenLevelDB opens (or creates) a LevelDB database at path and uses it as a
// Store. lf may be nil, which disables logging.
func OpenLevelDB(path string, lf logging.LoggerFactory) (Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "store: open %s", path)
	}
	return WrapLevelDB(db, lf), nil
}

// WrapLevelDB uses db as a Store. Records are JSON encoded under the key
// "u:" + username and every write is synchronous.
func WrapLevelDB(db *leveldb.DB, lf logging.LoggerFactory) Store {
	s := &levelDB{db: db}
	if lf != nil {
		s.log = lf.NewLogger("srp-store")
	}
	return s
}

func key(username string) []byte {
	return []byte(keyPrefix + username)
}

func (s *levelDB) Get(username string) (*Record, error) {
	data, err := s.db.Get(key(username), nil)
	if err == leveldb.ErrNotFound {
		return nil, errors.Wrapf(ErrNotFound, "user %q", username)
	}
	if err != nil {
		return nil, errors.Wrap(err, "store: get")
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrapf(err, "store: corrupt record for %q", username)
	}
	return &r, nil
}

func (s *levelDB) Put(r *Record) error {
	if r == nil || r.Username == "" {
		return errors.New("store: record without username")
	}
	data, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "store: encode record")
	}
	if err := s.db.Put(key(r.Username), data, &opt.WriteOptions{Sync: true}); err != nil {
		return errors.Wrap(err, "store: put")
	}
	if s.log != nil {
		s.log.Debugf("stored verifier for %q", r.Username)
	}
	return nil
}

func (s *levelDB) Delete(username string) error {
	k := key(username)
	ok, err := s.db.Has(k, nil)
	if err != nil {
		return errors.Wrap(err, "store: delete")
	}
	if !ok {
		return errors.Wrapf(ErrNotFound, "user %q", username)
	}
	if err := s.db.Delete(k, &opt.WriteOptions{Sync: true}); err != nil {
		return errors.Wrap(err, "store: delete")
	}
	if s.log != nil {
		s.log.Debugf("deleted verifier for %q", username)
	}
	return nil
}

func (s *levelDB) Close() error {
	return s.db.Close()
}
