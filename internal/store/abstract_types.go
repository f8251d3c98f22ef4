package store

import (
	"context"
	"fmt"
)

// TypeRepository is the typed access path to the abstract types partition.
type TypeRepository struct {
	repo
}

const typeCols = `id, name, description, color`

func scanType(scanner rowScanner) (*AbstractType, error) {
	t := &AbstractType{}
	if err := scanner.Scan(&t.ID, &t.Name, &t.Description, &t.Color); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TypeRepository) GetByID(ctx context.Context, id int64) (*AbstractType, error) {
	t, err := queryOne(ctx, r.repo, scanType, "SELECT "+typeCols+" FROM abstract_types WHERE id = ?", id)
	if err != nil {
		return nil, r.fail("get", id, err)
	}
	return t, nil
}

func (r *TypeRepository) GetByName(ctx context.Context, name string) (*AbstractType, error) {
	t, err := queryOne(ctx, r.repo, scanType, "SELECT "+typeCols+" FROM abstract_types WHERE name = ?", name)
	if err != nil {
		return nil, r.fail("get by name", name, err)
	}
	return t, nil
}

func (r *TypeRepository) GetAll(ctx context.Context) ([]*AbstractType, error) {
	ts, err := queryAll(ctx, r.repo, scanType, "SELECT "+typeCols+" FROM abstract_types ORDER BY id")
	if err != nil {
		return nil, r.fail("get all", nil, err)
	}
	return ts, nil
}

// Create inserts t, ignoring t.ID, and writes the assigned id back into t.
func (r *TypeRepository) Create(ctx context.Context, t *AbstractType) (int64, error) {
	id, err := r.insert(ctx,
		"INSERT INTO abstract_types (name, description, color) VALUES (?, ?, ?)",
		t.Name, t.Description, t.Color,
	)
	if err != nil {
		return 0, r.fail("create", t.Name, err)
	}
	t.ID = id
	return id, nil
}

// Update replaces the record with t.ID, inserting it if it no longer exists.
func (r *TypeRepository) Update(ctx context.Context, t *AbstractType) error {
	if t.ID <= 0 {
		return r.fail("update", t.Name, fmt.Errorf("%w: type id must be positive", ErrInvalidArgument))
	}
	err := r.exec(ctx,
		`INSERT INTO abstract_types (id, name, description, color) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, description = excluded.description, color = excluded.color`,
		t.ID, t.Name, t.Description, t.Color,
	)
	if err != nil {
		return r.fail("update", t.ID, err)
	}
	return nil
}
