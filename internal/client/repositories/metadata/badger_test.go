package metadata

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBadger(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestBadger_RoundTrip(t *testing.T) {
	r := NewBadgerRepository(setupBadger(t))
	ctx := context.Background()

	v, err := r.Get(ctx, "arch1v_token")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, r.SetAll(ctx, map[string][]byte{
		"arch1v_token": []byte("T1"),
		"arch1v_user":  []byte("alice"),
	}))

	v, err = r.Get(ctx, "arch1v_user")
	require.NoError(t, err)
	assert.Equal(t, []byte("alice"), v)

	require.NoError(t, r.Delete(ctx, "arch1v_token", "arch1v_user"))
	require.NoError(t, r.Delete(ctx, "arch1v_token"))

	v, err = r.Get(ctx, "arch1v_token")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestBadger_KeysArePrefixed(t *testing.T) {
	db := setupBadger(t)
	r := NewBadgerRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("arch1v_user"), []byte("foreign"))
	}))
	require.NoError(t, r.SetAll(ctx, map[string][]byte{"arch1v_user": []byte("alice")}))
	require.NoError(t, r.Delete(ctx, "arch1v_user"))

	require.NoError(t, db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("arch1v_user"))
		if err != nil {
			return err
		}
		v, err := item.ValueCopy(nil)
		assert.Equal(t, []byte("foreign"), v)
		return err
	}))
}
