package storage

import (
	"context"

	"github.com/example/table-booker/internal/domain/booking"
)

type TableRepo struct{ store *Adapter }

func NewTableRepo(a *Adapter) *TableRepo { return &TableRepo{store: a} }

func (r *TableRepo) List(ctx context.Context) ([]booking.Table, error) {
	var ts []booking.Table
	if err := r.store.LoadList(ctx, KeyTables, &ts); err != nil {
		return nil, err
	}
	return ts, nil
}

// Seed stores defaults when no usable table list is present. It reports
// whether it wrote anything.
func (r *TableRepo) Seed(ctx context.Context, defaults []booking.Table) (bool, error) {
	ts, err := r.List(ctx)
	if err != nil {
		return false, err
	}
	if len(ts) > 0 {
		return false, nil
	}
	return true, r.store.SaveList(ctx, KeyTables, defaults)
}
