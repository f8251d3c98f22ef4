package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Repositories groups the five entity repositories over one Store. When bound
// to a transaction (see Store.InTx) every call shares it; otherwise each call
// runs in its own scoped connection and transaction.
type Repositories struct {
	Languages    *LanguageRepository
	Types        *TypeRepository
	TypeMappings *TypeMappingRepository
	Functions    *FunctionRepository
	Patterns     *PatternRepository
}

func newRepositories(s *Store, tx *sql.Tx) *Repositories {
	return &Repositories{
		Languages:    &LanguageRepository{repo{s: s, tx: tx, partition: partLanguages}},
		Types:        &TypeRepository{repo{s: s, tx: tx, partition: partTypes}},
		TypeMappings: &TypeMappingRepository{repo{s: s, tx: tx, partition: partTypeMappings}},
		Functions:    &FunctionRepository{repo{s: s, tx: tx, partition: partFunctions}},
		Patterns:     &PatternRepository{repo{s: s, tx: tx, partition: partPatterns}},
	}
}

// Clear deletes every record from every partition. Bound to a transaction,
// the deletes commit together with the rest of it.
func (rs *Repositories) Clear(ctx context.Context) error {
	r := rs.Languages.repo
	err := r.run(ctx, func(q querier) error {
		for _, p := range Partitions {
			if _, err := q.ExecContext(ctx, "DELETE FROM "+p.Table); err != nil {
				return fmt.Errorf("clear %s: %w", p.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return opError("clear", "all", nil, err)
	}
	return nil
}

// repo is the state shared by every entity repository.
type repo struct {
	s         *Store
	tx        *sql.Tx
	partition string
}

func (r repo) run(ctx context.Context, fn func(q querier) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	return r.s.withTx(ctx, func(tx *sql.Tx) error { return fn(tx) })
}

func (r repo) fail(op string, key any, err error) error {
	return opError(op, r.partition, key, err)
}

func (r repo) table() string {
	for _, p := range Partitions {
		if p.Name == r.partition {
			return p.Table
		}
	}
	panic(fmt.Sprintf("store: unknown partition %q", r.partition))
}

// insert runs an INSERT and returns the assigned row id.
func (r repo) insert(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	err := r.run(ctx, func(q querier) error {
		res, err := q.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		return nil
	})
	return id, err
}

func (r repo) exec(ctx context.Context, query string, args ...any) error {
	return r.run(ctx, func(q querier) error {
		_, err := q.ExecContext(ctx, query, args...)
		return err
	})
}

// Delete removes the record with id. Deleting a missing id succeeds.
func (r repo) Delete(ctx context.Context, id int64) error {
	if err := r.exec(ctx, "DELETE FROM "+r.table()+" WHERE id = ?", id); err != nil {
		return r.fail("delete", id, err)
	}
	return nil
}

// Count returns the number of records in the partition.
func (r repo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.run(ctx, func(q querier) error {
		return q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+r.table()).Scan(&n)
	})
	if err != nil {
		return 0, r.fail("count", nil, err)
	}
	return n, nil
}

// queryOne returns the first row of query, or nil when there is none.
func queryOne[T any](ctx context.Context, r repo, scan func(rowScanner) (*T, error), query string, args ...any) (*T, error) {
	var out *T
	err := r.run(ctx, func(q querier) error {
		v, err := scan(q.QueryRowContext(ctx, query, args...))
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// queryAll returns every row of query. An empty result is a nil slice.
func queryAll[T any](ctx context.Context, r repo, scan func(rowScanner) (*T, error), query string, args ...any) ([]*T, error) {
	var out []*T
	err := r.run(ctx, func(q querier) error {
		rows, err := q.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			v, err := scan(rows)
			if err != nil {
				return fmt.Errorf("scan %s: %w", r.partition, err)
			}
			out = append(out, v)
		}
		return rows.Err()
	})
	return out, err
}
