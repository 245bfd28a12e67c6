package repository

import "context"

// SequenceAllocator issues monotonically increasing numbers per named
// sequence. Allocate must be an atomic increment-and-return.
type SequenceAllocator interface {
	Allocate(ctx context.Context, name string) (int64, error)
}
