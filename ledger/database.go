// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/util"
	"github.com/bitmark-inc/logger"
)

// key prefix for statements
const statementPrefix = 'S'

// Database - ledger persisted in LevelDB
//
// the chain is verified when opened and kept in memory for reading
type Database struct {
	sync.RWMutex
	log        *logger.L
	db         *leveldb.DB
	statements []Statement
}

// Open - open or create a ledger database
func Open(path string) (*Database, error) {
	log := logger.New("ledger")

	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: false,
	}
	db, err := leveldb.OpenFile(path, opt)
	if nil != err {
		return nil, err
	}

	d := &Database{
		log:        log,
		db:         db,
		statements: make([]Statement, 0),
	}

	r := &ldb_util.Range{
		Start: []byte{statementPrefix},
		Limit: []byte{statementPrefix + 1},
	}
	iter := db.NewIterator(r, nil)
	for iter.Next() {
		key := iter.Key()
		if 9 != len(key) {
			err = fault.ErrIncorrectChain
			break
		}
		s, err2 := unpackStatement(binary.BigEndian.Uint64(key[1:]), iter.Value())
		if nil != err2 {
			err = err2
			break
		}
		d.statements = append(d.statements, s)
	}
	iter.Release()
	if nil == err {
		err = iter.Error()
	}
	if nil == err {
		err = VerifyChain(d.statements)
	}
	if nil != err {
		log.Criticalf("ledger: %q  load error: %s", path, err)
		db.Close()
		return nil, err
	}

	log.Infof("ledger: %q  statements: %d", path, len(d.statements))
	return d, nil
}

// Close - release the database
func (d *Database) Close() {
	d.Lock()
	defer d.Unlock()
	if nil != d.db {
		d.db.Close()
		d.db = nil
	}
}

// Publish - append and persist a statement
func (d *Database) Publish(data []byte) (Receipt, error) {
	d.Lock()
	defer d.Unlock()

	if nil == d.db {
		return Receipt{}, fault.ErrDatabaseIsNotSet
	}

	s := next(d.statements, data)
	if err := d.db.Put(statementKey(s.Sequence), packStatement(s), nil); nil != err {
		d.log.Criticalf("publish: %d  error: %s", s.Sequence, err)
		return Receipt{}, err
	}
	d.statements = append(d.statements, s)

	d.log.Debugf("published: %d  digest: %s", s.Sequence, s.Digest)

	return Receipt{
		Sequence: s.Sequence,
		Digest:   s.Digest,
	}, nil
}

// Statements - everything from start onwards
func (d *Database) Statements(start int) ([]Statement, error) {
	d.RLock()
	defer d.RUnlock()
	return statementsFrom(d.statements, start)
}

// Count - number of statements
func (d *Database) Count() int {
	d.RLock()
	defer d.RUnlock()
	return len(d.statements)
}

// Verify - audit the whole chain
func (d *Database) Verify() error {
	d.RLock()
	defer d.RUnlock()
	return VerifyChain(d.statements)
}

func statementKey(sequence uint64) []byte {
	key := make([]byte, 9)
	key[0] = statementPrefix
	binary.BigEndian.PutUint64(key[1:], sequence)
	return key
}

// timestamp ++ data ++ digest
func packStatement(s Statement) []byte {
	buffer := util.AppendSigned(nil, s.Timestamp.UnixNano())
	buffer = util.AppendBytes(buffer, s.Data)
	return append(buffer, s.Digest[:]...)
}

func unpackStatement(sequence uint64, buffer []byte) (Statement, error) {
	u := util.NewUnpacker(buffer)
	ns, err := u.Signed()
	if nil != err {
		return Statement{}, err
	}
	data, err := u.Bytes()
	if nil != err {
		return Statement{}, err
	}
	digest, err := u.Fixed(DigestLength)
	if nil != err {
		return Statement{}, err
	}
	if 0 != u.Remaining() {
		return Statement{}, fault.ErrTrailingData
	}
	s := Statement{
		Sequence:  sequence,
		Data:      data,
		Timestamp: time.Unix(0, ns).UTC(),
	}
	copy(s.Digest[:], digest)
	return s, nil
}
