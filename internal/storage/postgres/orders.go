package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/orderflow/internal/domain/errors"
	"github.com/polkiloo/orderflow/internal/domain/model"
)

type orderRepository struct {
	storage *Storage
}

const orderColumns = `id::text, sequence_number, shop_id, customer_name, phone, address, items, total, status, created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	const query = `INSERT INTO orders
                   (id, sequence_number, shop_id, customer_name, phone, address, items, total, status, created_at, updated_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.storage.pool.Exec(ctx, query,
		order.ID, order.SequenceNumber, order.ShopID, order.CustomerName, order.Phone, order.Address,
		items, order.Total, order.Status, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return storageError(err)
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if err != nil {
		return nil, storageError(err)
	}
	return order, nil
}

func (r *orderRepository) ListByShop(ctx context.Context, shopID int64) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + `
                   FROM orders WHERE shop_id=$1 ORDER BY created_at DESC, sequence_number DESC`
	rows, err := r.storage.pool.Query(ctx, query, shopID)
	if err != nil {
		return nil, storageError(err)
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, storageError(err)
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err)
	}
	return result, nil
}

// UpdateStatus applies a compare-and-set on the status column and records the
// change in the audit table within the same transaction.
func (r *orderRepository) UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus, changedBy int64) (*model.Order, error) {
	var updated *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const update = `UPDATE orders SET status=$1, updated_at=NOW()
                        WHERE id=$2 AND status=$3
                        RETURNING ` + orderColumns
		order, err := scanOrder(tx.QueryRow(ctx, update, to, id, from))
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id=$1)`, id).Scan(&exists); err != nil {
				return storageError(err)
			}
			if !exists {
				return domainErrors.ErrNotFound
			}
			return domainErrors.ErrInvalidTransition
		}
		if err != nil {
			return storageError(err)
		}

		const insertHistory = `INSERT INTO order_status_history (order_id, from_status, to_status, changed_by, changed_at)
                               VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.Exec(ctx, insertHistory, id, from, to, changedBy, order.UpdatedAt); err != nil {
			return storageError(err)
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *orderRepository) History(ctx context.Context, id string) ([]model.StatusChange, error) {
	const query = `SELECT order_id::text, from_status, to_status, changed_by, changed_at
                   FROM order_status_history WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, id)
	if err != nil {
		return nil, storageError(err)
	}
	defer rows.Close()

	var result []model.StatusChange
	for rows.Next() {
		var c model.StatusChange
		if err := rows.Scan(&c.OrderID, &c.From, &c.To, &c.ChangedBy, &c.ChangedAt); err != nil {
			return nil, storageError(err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err)
	}
	return result, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o     model.Order
		items []byte
	)
	err := row.Scan(&o.ID, &o.SequenceNumber, &o.ShopID, &o.CustomerName, &o.Phone, &o.Address,
		&items, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items of order %s: %w", o.ID, err)
	}
	return &o, nil
}
