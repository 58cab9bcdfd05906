package model

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"networth-api/pkg/provider"
)

type fakeLinkItemsModel struct {
	rows map[string]LinkItems
}

func newFakeModel() *fakeLinkItemsModel {
	return &fakeLinkItemsModel{rows: make(map[string]LinkItems)}
}

func (m *fakeLinkItemsModel) Upsert(_ context.Context, data *LinkItems) error {
	m.rows[data.ContainerId] = *data
	return nil
}

func (m *fakeLinkItemsModel) FindOne(_ context.Context, containerId string) (*LinkItems, error) {
	if row, ok := m.rows[containerId]; ok {
		return &row, nil
	}
	return nil, ErrNotFound
}

func (m *fakeLinkItemsModel) FindAll(_ context.Context) ([]LinkItems, error) {
	out := make([]LinkItems, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, row)
	}
	return out, nil
}

func (m *fakeLinkItemsModel) Delete(_ context.Context, containerId string) (int64, error) {
	if _, ok := m.rows[containerId]; !ok {
		return 0, nil
	}
	delete(m.rows, containerId)
	return 1, nil
}

func TestLinkStoreRoundTrip(t *testing.T) {
	store := NewLinkStore(newFakeModel())
	ctx := context.Background()

	item := provider.LinkItem{
		ContainerID:     "schwab",
		AccessToken:     "access-123",
		ItemID:          "item-9",
		InstitutionName: "Charles Schwab",
		CreatedAt:       time.Now().UTC(),
	}
	require.NoError(t, store.Save(ctx, item))

	found, err := store.Find(ctx, "schwab")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "access-123", found.AccessToken)
	assert.Equal(t, "Charles Schwab", found.InstitutionName)

	items, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	removed, err := store.Delete(ctx, "schwab")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Delete(ctx, "schwab")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestLinkStoreFindMissingIsNil(t *testing.T) {
	store := NewLinkStore(newFakeModel())

	found, err := store.Find(context.Background(), "nope")
	require.NoError(t, err, "a missing row is not an error")
	assert.Nil(t, found)
}

func TestLinkStoreEmptyOptionalFields(t *testing.T) {
	store := NewLinkStore(newFakeModel())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, provider.LinkItem{
		ContainerID: "bare",
		AccessToken: "tok",
	}))

	found, err := store.Find(ctx, "bare")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Empty(t, found.ItemID)
	assert.Empty(t, found.InstitutionName)
}
