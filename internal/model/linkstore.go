package model

import (
	"context"
	"database/sql"
	"errors"

	"networth-api/pkg/provider"
)

var _ provider.LinkStore = (*LinkStore)(nil)

// LinkStore adapts the link_items model to the provider.LinkStore contract.
type LinkStore struct {
	model LinkItemsModel
}

// NewLinkStore wraps a LinkItemsModel as a provider link store.
func NewLinkStore(model LinkItemsModel) *LinkStore {
	return &LinkStore{model: model}
}

func (s *LinkStore) Save(ctx context.Context, item provider.LinkItem) error {
	return s.model.Upsert(ctx, &LinkItems{
		ContainerId:     item.ContainerID,
		AccessToken:     item.AccessToken,
		ItemId:          nullString(item.ItemID),
		InstitutionName: nullString(item.InstitutionName),
		CreatedAt:       item.CreatedAt,
	})
}

func (s *LinkStore) Find(ctx context.Context, containerID string) (*provider.LinkItem, error) {
	row, err := s.model.FindOne(ctx, containerID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	item := toLinkItem(row)
	return &item, nil
}

func (s *LinkStore) Delete(ctx context.Context, containerID string) (bool, error) {
	affected, err := s.model.Delete(ctx, containerID)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *LinkStore) List(ctx context.Context) ([]provider.LinkItem, error) {
	rows, err := s.model.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]provider.LinkItem, 0, len(rows))
	for i := range rows {
		items = append(items, toLinkItem(&rows[i]))
	}
	return items, nil
}

func toLinkItem(row *LinkItems) provider.LinkItem {
	return provider.LinkItem{
		ContainerID:     row.ContainerId,
		AccessToken:     row.AccessToken,
		ItemID:          row.ItemId.String,
		InstitutionName: row.InstitutionName.String,
		CreatedAt:       row.CreatedAt,
	}
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
