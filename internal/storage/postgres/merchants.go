package postgres

import (
	"context"

	"github.com/polkiloo/orderflow/internal/domain/model"
)

type merchantRepository struct {
	storage *Storage
}

const merchantColumns = `id, login, password_hash, role, created_at`

func (r *merchantRepository) Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.Merchant, error) {
	const query = `INSERT INTO merchants (login, password_hash, role) VALUES ($1, $2, $3) RETURNING id, created_at`
	m := model.Merchant{Login: login, PasswordHash: passwordHash, Role: role}
	if err := r.storage.pool.QueryRow(ctx, query, login, passwordHash, role).Scan(&m.ID, &m.CreatedAt); err != nil {
		return nil, storageError(err)
	}
	return &m, nil
}

func (r *merchantRepository) GetByLogin(ctx context.Context, login string) (*model.Merchant, error) {
	return r.get(ctx, `SELECT `+merchantColumns+` FROM merchants WHERE login=$1`, login)
}

func (r *merchantRepository) GetByID(ctx context.Context, id int64) (*model.Merchant, error) {
	return r.get(ctx, `SELECT `+merchantColumns+` FROM merchants WHERE id=$1`, id)
}

func (r *merchantRepository) get(ctx context.Context, query string, arg any) (*model.Merchant, error) {
	var m model.Merchant
	err := r.storage.pool.QueryRow(ctx, query, arg).Scan(&m.ID, &m.Login, &m.PasswordHash, &m.Role, &m.CreatedAt)
	if err != nil {
		return nil, storageError(err)
	}
	return &m, nil
}
