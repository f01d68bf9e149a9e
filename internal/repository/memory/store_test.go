package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/hannan/internal/domain/models"
	"github.com/mamadbah2/hannan/internal/domain/modules"
	"github.com/mamadbah2/hannan/internal/repository"
)

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	schema, ok := modules.Lookup(modules.Expenses)
	require.True(t, ok)
	store := NewStore()

	require.NoError(t, store.Insert(ctx, schema, models.Record{"expense_id": "EX-1", "date": "2026-09-01", "category": "Feed", "description": "Maize bran"}))
	require.NoError(t, store.Insert(ctx, schema, models.Record{"expense_id": "EX-2", "date": "2026-09-15", "category": "Veterinary", "description": "Dewormer"}))
	assert.ErrorIs(t, store.Insert(ctx, schema, models.Record{"expense_id": "EX-1"}), repository.ErrDuplicate)

	list, err := store.List(ctx, schema)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "EX-2", list[0]["expense_id"], "newest first")

	found, err := store.Search(ctx, schema, "DEWORM")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "EX-2", found[0]["expense_id"])

	require.NoError(t, store.Replace(ctx, schema, "EX-1", models.Record{"expense_id": "EX-1", "date": "2026-09-01", "category": "Feed", "description": "Maize bran 50kg"}))
	got, err := store.Get(ctx, schema, "EX-1")
	require.NoError(t, err)
	assert.Equal(t, "Maize bran 50kg", got["description"])

	require.NoError(t, store.Delete(ctx, schema, "EX-1"))
	_, err = store.Get(ctx, schema, "EX-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, schema, "EX-1"), repository.ErrNotFound)
	assert.ErrorIs(t, store.Replace(ctx, schema, "EX-9", models.Record{}), repository.ErrNotFound)
}

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	schema, _ := modules.Lookup(modules.Coffee)
	store := NewStore()
	require.NoError(t, store.Insert(ctx, schema, models.Record{"coffee_id": "CF-1", "activity": "Harvest"}))

	list, err := store.List(ctx, schema)
	require.NoError(t, err)
	list[0]["activity"] = "Changed"

	got, err := store.Get(ctx, schema, "CF-1")
	require.NoError(t, err)
	assert.Equal(t, "Harvest", got["activity"])
}
