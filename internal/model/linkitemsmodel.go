package model

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ LinkItemsModel = (*defaultLinkItemsModel)(nil)

// LinkItems is one row of the link_items table: the stored Plaid access
// token for a linked brokerage container.
type LinkItems struct {
	ContainerId     string         `db:"container_id"`
	AccessToken     string         `db:"access_token"`
	ItemId          sql.NullString `db:"item_id"`
	InstitutionName sql.NullString `db:"institution_name"`
	CreatedAt       time.Time      `db:"created_at"`
}

type (
	// LinkItemsModel is an interface to be customized, add more methods here,
	// and implement the added methods in defaultLinkItemsModel.
	LinkItemsModel interface {
		Upsert(ctx context.Context, data *LinkItems) error
		FindOne(ctx context.Context, containerId string) (*LinkItems, error)
		FindAll(ctx context.Context) ([]LinkItems, error)
		Delete(ctx context.Context, containerId string) (int64, error)
	}

	defaultLinkItemsModel struct {
		conn sqlx.SqlConn
	}
)

// NewLinkItemsModel returns a model for the database table.
func NewLinkItemsModel(conn sqlx.SqlConn) LinkItemsModel {
	return &defaultLinkItemsModel{conn: conn}
}

const linkItemsColumns = `container_id, access_token, item_id, institution_name, created_at`

// Upsert inserts or replaces the stored token for a container. Re-linking an
// institution overwrites the previous credential.
func (m *defaultLinkItemsModel) Upsert(ctx context.Context, data *LinkItems) error {
	const query = `
INSERT INTO public.link_items (container_id, access_token, item_id, institution_name, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (container_id) DO UPDATE SET
    access_token = EXCLUDED.access_token,
    item_id = EXCLUDED.item_id,
    institution_name = EXCLUDED.institution_name,
    created_at = EXCLUDED.created_at`

	_, err := m.conn.ExecCtx(ctx, query,
		data.ContainerId, data.AccessToken, data.ItemId, data.InstitutionName, data.CreatedAt)
	if err != nil {
		return fmt.Errorf("link_items.Upsert: %w", err)
	}
	return nil
}

func (m *defaultLinkItemsModel) FindOne(ctx context.Context, containerId string) (*LinkItems, error) {
	query := fmt.Sprintf("SELECT %s FROM public.link_items WHERE container_id = $1 LIMIT 1", linkItemsColumns)

	var row LinkItems
	err := m.conn.QueryRowCtx(ctx, &row, query, containerId)
	switch err {
	case nil:
		return &row, nil
	case sqlx.ErrNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("link_items.FindOne: %w", err)
	}
}

func (m *defaultLinkItemsModel) FindAll(ctx context.Context) ([]LinkItems, error) {
	query := fmt.Sprintf("SELECT %s FROM public.link_items ORDER BY container_id", linkItemsColumns)

	var rows []LinkItems
	if err := m.conn.QueryRowsCtx(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("link_items.FindAll: %w", err)
	}
	return rows, nil
}

// Delete removes the stored token and reports how many rows went away.
func (m *defaultLinkItemsModel) Delete(ctx context.Context, containerId string) (int64, error) {
	result, err := m.conn.ExecCtx(ctx, "DELETE FROM public.link_items WHERE container_id = $1", containerId)
	if err != nil {
		return 0, fmt.Errorf("link_items.Delete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("link_items.Delete rows affected: %w", err)
	}
	return affected, nil
}
