package metadata

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const badgerKeyPrefix = "meta:"

// BadgerRepository keeps metadata in an embedded badger database under a
// fixed key prefix, so the same database can hold other client data.
type BadgerRepository struct {
	db *badger.DB
}

func NewBadgerRepository(db *badger.DB) *BadgerRepository {
	return &BadgerRepository{db: db}
}

func badgerKey(key string) []byte {
	return []byte(badgerKeyPrefix + key)
}

func (r *BadgerRepository) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *BadgerRepository) SetAll(_ context.Context, values map[string][]byte) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		for k, v := range values {
			if err := txn.Set(badgerKey(k), v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set metadata batch: %w", err)
	}
	return nil
}

func (r *BadgerRepository) Delete(_ context.Context, keys ...string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		for _, k := range keys {
			if err := txn.Delete(badgerKey(k)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete metadata: %w", err)
	}
	return nil
}
