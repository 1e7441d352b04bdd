// Package utxostore persists spendable outputs between planning sessions in
// a bbolt database. Records use the same wire codec as the signing pipeline,
// so stored entries feed directly into SigningInput.Utxos.
package utxostore

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/txforgeorg/libtxforge-go/txproto"
)

var (
	bucketUtxos = []byte("utxos")
	bucketSpent = []byte("spent")
)

// Store wraps a bbolt database holding unspent and spent outputs.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("utxostore: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("utxostore: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketUtxos, bucketSpent} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("utxostore: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("utxostore: create buckets: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// outPointKey encodes an out-point as txid hash plus 4-byte big-endian index.
// Keys sort by hash then index, so listings are deterministic.
func outPointKey(p txproto.OutPoint) []byte {
	k := make([]byte, len(p.Hash)+4)
	copy(k, p.Hash)
	binary.BigEndian.PutUint32(k[len(p.Hash):], p.Index)
	return k
}

// Put stores an unspent output. Returns ErrDuplicateUtxo if the out-point is
// already tracked, spent or not.
func (s *Store) Put(u *txproto.Utxo) error {
	if u == nil {
		return fmt.Errorf("%w: utxo", ErrNilParam)
	}
	if len(u.OutPoint.Hash) == 0 || len(u.Script) == 0 {
		return fmt.Errorf("%w: out-point hash and script required", ErrInvalidUtxo)
	}

	key := outPointKey(u.OutPoint)
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketUtxos).Get(key) != nil || tx.Bucket(bucketSpent).Get(key) != nil {
			return ErrDuplicateUtxo
		}
		if err := tx.Bucket(bucketUtxos).Put(key, u.Marshal()); err != nil {
			return fmt.Errorf("utxostore: put utxo: %w", err)
		}
		return nil
	})
}

// Get retrieves an unspent output by out-point.
func (s *Store) Get(p txproto.OutPoint) (*txproto.Utxo, error) {
	var u txproto.Utxo
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketUtxos).Get(outPointKey(p))
		if data == nil {
			return ErrUtxoNotFound
		}
		if err := u.Unmarshal(data); err != nil {
			return fmt.Errorf("utxostore: decode utxo: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns all unspent outputs in deterministic key order.
func (s *Store) List() ([]txproto.Utxo, error) {
	var utxos []txproto.Utxo
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketUtxos).ForEach(func(_, v []byte) error {
			var u txproto.Utxo
			if err := u.Unmarshal(v); err != nil {
				return fmt.Errorf("utxostore: decode utxo in list: %w", err)
			}
			utxos = append(utxos, u)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("utxostore: list utxos: %w", err)
	}
	return utxos, nil
}

// Balance returns the sum of all unspent output amounts.
func (s *Store) Balance() (uint64, error) {
	var total uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketUtxos).ForEach(func(_, v []byte) error {
			var u txproto.Utxo
			if err := u.Unmarshal(v); err != nil {
				return fmt.Errorf("utxostore: decode utxo in balance: %w", err)
			}
			total += u.Amount
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// MarkSpent moves an output from the unspent set to the spent set. Outputs
// consumed by a compiled transaction are marked here after broadcast.
func (s *Store) MarkSpent(p txproto.OutPoint) error {
	key := outPointKey(p)
	return s.db.Update(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketUtxos).Get(key)
		if data == nil {
			return ErrUtxoNotFound
		}
		if err := tx.Bucket(bucketSpent).Put(key, data); err != nil {
			return fmt.Errorf("utxostore: put spent utxo: %w", err)
		}
		if err := tx.Bucket(bucketUtxos).Delete(key); err != nil {
			return fmt.Errorf("utxostore: delete utxo: %w", err)
		}
		return nil
	})
}

// Remove drops an output from both sets.
func (s *Store) Remove(p txproto.OutPoint) error {
	key := outPointKey(p)
	return s.db.Update(func(tx *bbolt.Tx) error {
		unspent := tx.Bucket(bucketUtxos).Get(key) != nil
		spent := tx.Bucket(bucketSpent).Get(key) != nil
		if !unspent && !spent {
			return ErrUtxoNotFound
		}
		if err := tx.Bucket(bucketUtxos).Delete(key); err != nil {
			return fmt.Errorf("utxostore: delete utxo: %w", err)
		}
		if err := tx.Bucket(bucketSpent).Delete(key); err != nil {
			return fmt.Errorf("utxostore: delete spent utxo: %w", err)
		}
		return nil
	})
}
