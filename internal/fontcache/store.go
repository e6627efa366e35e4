// SPDX-License-Identifier: MIT

package fontcache

import (
	"encoding/json"
	"errors"

	"github.com/dgraph-io/badger/v4"
)

// ArtifactStore persists resolved cache artifacts keyed by variant and
// digest, so a matching artifact survives process restarts and repeated
// builds with the same font set skip the builder entirely.
type ArtifactStore struct {
	db *badger.DB
}

// OpenArtifactStore opens (or creates) the store at the given path.
func OpenArtifactStore(path string) (*ArtifactStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &ArtifactStore{db: db}, nil
}

// Close releases the underlying database.
func (s *ArtifactStore) Close() error { return s.db.Close() }

func storeKey(key string) []byte {
	return []byte("artifact:" + key)
}

// Get returns the artifact for the key, reporting whether one was found.
func (s *ArtifactStore) Get(key string) (*Artifact, bool, error) {
	var out Artifact
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(storeKey(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &out, true, nil
}

// Put stores the artifact under the key.
func (s *ArtifactStore) Put(key string, a *Artifact) error {
	buf, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(storeKey(key), buf)
	})
}

// Delete removes the artifact under the key, if present.
func (s *ArtifactStore) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(storeKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}
