package repository

import (
	"context"
	"errors"
	"testing"

	"bizledger/internal/apperr"
	"bizledger/internal/model"
	"bizledger/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id, name string, stock int) *model.Product {
	return &model.Product{ID: id, Name: name, Category: "General", Stock: stock, UnitPrice: decimal.NewFromInt(5)}
}

func TestCollection_AppendAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	products := NewCollection[model.Product](db, model.TableProducts, "id")
	ctx := context.Background()

	require.NoError(t, products.Append(ctx, product("P1", "Widget", 10)))

	got, err := products.Get(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)
	assert.Equal(t, 10, got.Stock)
	assert.True(t, decimal.NewFromInt(5).Equal(got.UnitPrice))

	byName, err := products.FirstBy(ctx, "name", "Widget")
	require.NoError(t, err)
	assert.Equal(t, "P1", byName.ID)
}

func TestCollection_AppendRejectsDuplicateAndEmptyKey(t *testing.T) {
	db := testutil.NewTestDB(t)
	products := NewCollection[model.Product](db, model.TableProducts, "id")
	ctx := context.Background()

	require.NoError(t, products.Append(ctx, product("P1", "Widget", 10)))

	err := products.Append(ctx, product("P1", "Gadget", 1))
	assert.True(t, errors.Is(err, apperr.ErrDuplicateKey))

	err = products.Append(ctx, product("", "Gadget", 1))
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	n, err := products.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCollection_AllKeepsInsertionOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	products := NewCollection[model.Product](db, model.TableProducts, "id")
	ctx := context.Background()

	for _, id := range []string{"P3", "P1", "P2"} {
		require.NoError(t, products.Append(ctx, product(id, "name-"+id, 1)))
	}

	all, err := products.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "P3", all[0].ID)
	assert.Equal(t, "P1", all[1].ID)
	assert.Equal(t, "P2", all[2].ID)

	low, err := products.Find(ctx, func(p model.Product) bool { return p.ID != "P1" })
	require.NoError(t, err)
	assert.Len(t, low, 2)
}

func TestCollection_UpdateTouchesLastUpdated(t *testing.T) {
	db := testutil.NewTestDB(t)
	products := WithClock(NewCollection[model.Product](db, model.TableProducts, "id"), testutil.FixedClock("2026-03-01"))
	ctx := context.Background()
	require.NoError(t, products.Append(ctx, product("P1", "Widget", 10)))

	updated, err := products.Update(ctx, "P1", func(p *model.Product) error {
		p.Category = "Tools"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", updated.LastUpdated)

	got, err := products.Get(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, "Tools", got.Category)
	assert.Equal(t, "2026-03-01", got.LastUpdated)
}

func TestCollection_UpdateErrors(t *testing.T) {
	db := testutil.NewTestDB(t)
	products := NewCollection[model.Product](db, model.TableProducts, "id")
	ctx := context.Background()
	require.NoError(t, products.Append(ctx, product("P1", "Widget", 10)))

	_, err := products.Update(ctx, "missing", func(p *model.Product) error { return nil })
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = products.Update(ctx, "P1", func(p *model.Product) error {
		p.ID = "P2"
		return nil
	})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	patchErr := apperr.Validation("nope")
	_, err = products.Update(ctx, "P1", func(p *model.Product) error { return patchErr })
	assert.Equal(t, patchErr, err)
}

func TestCollection_RemoveAndWipe(t *testing.T) {
	db := testutil.NewTestDB(t)
	products := NewCollection[model.Product](db, model.TableProducts, "id")
	ctx := context.Background()
	require.NoError(t, products.Append(ctx, product("P1", "Widget", 10)))
	require.NoError(t, products.Append(ctx, product("P2", "Gadget", 10)))

	require.NoError(t, products.Remove(ctx, "P1"))
	err := products.Remove(ctx, "P1")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = products.Get(ctx, "P1")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	require.NoError(t, products.Wipe(ctx))
	n, err := products.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCollection_PersistenceFailure(t *testing.T) {
	db := testutil.NewTestDB(t)
	products := NewCollection[model.Product](db, model.TableProducts, "id")
	ctx := context.Background()

	require.NoError(t, db.Migrator().DropTable(&model.Product{}))

	err := products.Append(ctx, product("P1", "Widget", 10))
	assert.True(t, errors.Is(err, apperr.ErrPersistence))
	assert.NotNil(t, errors.Unwrap(err))

	_, err = products.All(ctx)
	assert.True(t, errors.Is(err, apperr.ErrPersistence))
}
