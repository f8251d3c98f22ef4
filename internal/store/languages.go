package store

import (
	"context"
	"fmt"
)

// LanguageRepository is the typed access path to the languages partition.
type LanguageRepository struct {
	repo
}

const languageCols = `id, name, version, description, website, syntax, enabled`

func scanLanguage(scanner rowScanner) (*Language, error) {
	l := &Language{}
	var syntax string
	if err := scanner.Scan(&l.ID, &l.Name, &l.Version, &l.Description, &l.Website, &syntax, &l.Enabled); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(syntax, &l.Syntax); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *LanguageRepository) GetByID(ctx context.Context, id int64) (*Language, error) {
	l, err := queryOne(ctx, r.repo, scanLanguage, "SELECT "+languageCols+" FROM languages WHERE id = ?", id)
	if err != nil {
		return nil, r.fail("get", id, err)
	}
	return l, nil
}

func (r *LanguageRepository) GetByName(ctx context.Context, name string) (*Language, error) {
	l, err := queryOne(ctx, r.repo, scanLanguage, "SELECT "+languageCols+" FROM languages WHERE name = ?", name)
	if err != nil {
		return nil, r.fail("get by name", name, err)
	}
	return l, nil
}

func (r *LanguageRepository) GetAll(ctx context.Context) ([]*Language, error) {
	ls, err := queryAll(ctx, r.repo, scanLanguage, "SELECT "+languageCols+" FROM languages ORDER BY id")
	if err != nil {
		return nil, r.fail("get all", nil, err)
	}
	return ls, nil
}

// Create inserts l, ignoring l.ID, and writes the assigned id back into l.
func (r *LanguageRepository) Create(ctx context.Context, l *Language) (int64, error) {
	syntax, err := marshalJSON(l.Syntax)
	if err != nil {
		return 0, r.fail("create", l.Name, err)
	}
	id, err := r.insert(ctx,
		`INSERT INTO languages (name, version, description, website, syntax, enabled)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		l.Name, l.Version, l.Description, l.Website, syntax, l.Enabled,
	)
	if err != nil {
		return 0, r.fail("create", l.Name, err)
	}
	l.ID = id
	return id, nil
}

// Update replaces the record with l.ID, inserting it if it no longer exists.
func (r *LanguageRepository) Update(ctx context.Context, l *Language) error {
	if l.ID <= 0 {
		return r.fail("update", l.Name, fmt.Errorf("%w: language id must be positive", ErrInvalidArgument))
	}
	syntax, err := marshalJSON(l.Syntax)
	if err != nil {
		return r.fail("update", l.ID, err)
	}
	err = r.exec(ctx,
		`INSERT INTO languages (id, name, version, description, website, syntax, enabled)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, version = excluded.version, description = excluded.description,
		   website = excluded.website, syntax = excluded.syntax, enabled = excluded.enabled`,
		l.ID, l.Name, l.Version, l.Description, l.Website, syntax, l.Enabled,
	)
	if err != nil {
		return r.fail("update", l.ID, err)
	}
	return nil
}
