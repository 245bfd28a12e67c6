package postgres

import "context"

type sequenceAllocator struct {
	storage *Storage
}

// Allocate increments the named counter and returns the new value. A missing
// counter starts at zero, so the first call yields 1. The upsert takes a row
// lock, which serializes concurrent callers of the same sequence.
func (a *sequenceAllocator) Allocate(ctx context.Context, name string) (int64, error) {
	const query = `INSERT INTO sequences (name, value) VALUES ($1, 1)
                   ON CONFLICT (name) DO UPDATE SET value = sequences.value + 1
                   RETURNING value`
	var value int64
	if err := a.storage.pool.QueryRow(ctx, query, name).Scan(&value); err != nil {
		return 0, storageError(err)
	}
	return value, nil
}
