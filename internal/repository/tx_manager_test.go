package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"bizledger/internal/apperr"
	"bizledger/internal/model"
	"bizledger/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInTx_CommitsOnSuccess(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewStore(db, nil)
	ctx := context.Background()

	err := store.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		assert.True(t, InTx(txCtx))
		return store.Products.Append(txCtx, product("P1", "Widget", 10))
	}, model.TableProducts)
	require.NoError(t, err)

	_, err = store.Products.Get(ctx, "P1")
	assert.NoError(t, err)
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewStore(db, nil)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := store.Products.Append(txCtx, product("P1", "Widget", 10)); err != nil {
			return err
		}
		return boom
	}, model.TableProducts)
	assert.Equal(t, boom, err)

	_, err = store.Products.Get(ctx, "P1")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestRunInTx_NestedReusesTransaction(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewStore(db, NewMutexLocker(50*time.Millisecond))
	ctx := context.Background()

	err := store.Tx.RunInTx(ctx, func(outer context.Context) error {
		// would time out on the products lock if it were taken again
		return store.Tx.RunInTx(outer, func(inner context.Context) error {
			return store.Products.Append(inner, product("P1", "Widget", 10))
		}, model.TableProducts)
	}, model.TableProducts)
	require.NoError(t, err)

	n, err := store.Products.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRunInTx_LockTimeoutIsPersistenceError(t *testing.T) {
	db := testutil.NewTestDB(t)
	locker := NewMutexLocker(30 * time.Millisecond)
	tm := NewTransactionManager(db, locker)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, model.TableProducts)
	require.NoError(t, err)
	defer unlock()

	called := false
	err = tm.RunInTx(ctx, func(context.Context) error {
		called = true
		return nil
	}, model.TableProducts)
	assert.True(t, errors.Is(err, apperr.ErrPersistence))
	assert.False(t, called)
}
