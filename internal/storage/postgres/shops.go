package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/orderflow/internal/domain/model"
)

type shopRepository struct {
	storage *Storage
}

func (r *shopRepository) Create(ctx context.Context, ownerID int64, name, phone string) (*model.Shop, error) {
	const query = `INSERT INTO shops (owner_id, name, phone) VALUES ($1, $2, $3) RETURNING id, created_at`
	shop := model.Shop{OwnerID: ownerID, Name: name, Phone: phone}
	if err := r.storage.pool.QueryRow(ctx, query, ownerID, name, phone).Scan(&shop.ID, &shop.CreatedAt); err != nil {
		return nil, storageError(err)
	}
	return &shop, nil
}

func (r *shopRepository) GetByID(ctx context.Context, id int64) (*model.Shop, error) {
	const query = `SELECT id, owner_id, name, phone, created_at FROM shops WHERE id=$1`
	var shop model.Shop
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&shop.ID, &shop.OwnerID, &shop.Name, &shop.Phone, &shop.CreatedAt)
	if err != nil {
		return nil, storageError(err)
	}
	return &shop, nil
}

func (r *shopRepository) Menu(ctx context.Context, shopID int64) ([]model.MenuItem, error) {
	const query = `SELECT id, shop_id, name, price, available
                   FROM menu_items WHERE shop_id=$1 ORDER BY position, id`
	rows, err := r.storage.pool.Query(ctx, query, shopID)
	if err != nil {
		return nil, storageError(err)
	}
	defer rows.Close()

	var items []model.MenuItem
	for rows.Next() {
		var item model.MenuItem
		if err := rows.Scan(&item.ID, &item.ShopID, &item.Name, &item.Price, &item.Available); err != nil {
			return nil, storageError(err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err)
	}
	return items, nil
}

// ReplaceMenu swaps the whole menu of a shop in one transaction. Orders keep
// their own snapshot of items, so old rows can simply be removed.
func (r *shopRepository) ReplaceMenu(ctx context.Context, shopID int64, items []model.MenuItem) ([]model.MenuItem, error) {
	stored := make([]model.MenuItem, 0, len(items))
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var id int64
		if err := tx.QueryRow(ctx, `SELECT id FROM shops WHERE id=$1 FOR UPDATE`, shopID).Scan(&id); err != nil {
			return storageError(err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM menu_items WHERE shop_id=$1`, shopID); err != nil {
			return storageError(err)
		}

		const insert = `INSERT INTO menu_items (shop_id, position, name, price, available)
                        VALUES ($1, $2, $3, $4, $5) RETURNING id`
		for i, item := range items {
			item.ShopID = shopID
			if err := tx.QueryRow(ctx, insert, shopID, i, item.Name, item.Price, item.Available).Scan(&item.ID); err != nil {
				return storageError(err)
			}
			stored = append(stored, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}
