package store

import (
	"context"
	"fmt"
	"strings"
)

// FunctionRepository is the typed access path to the functions partition.
type FunctionRepository struct {
	repo
}

const functionCols = `id, name, display_name, description, category, parameters, return_type, is_builtin, tags`

func scanFunction(scanner rowScanner) (*Function, error) {
	f := &Function{}
	var params, tags string
	err := scanner.Scan(
		&f.ID, &f.Name, &f.DisplayName, &f.Description, &f.Category,
		&params, &f.ReturnType, &f.IsBuiltIn, &tags,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSON(params, &f.Parameters); err != nil {
		return nil, err
	}
	f.Tags = unmarshalList(tags)
	return f, nil
}

func encodeParameters(params []Parameter) (string, error) {
	if params == nil {
		return "null", nil
	}
	return marshalJSON(params)
}

// validateFunction rejects categories outside Categories.
func validateFunction(f *Function) error {
	if !f.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidArgument, f.Category)
	}
	return nil
}

func (r *FunctionRepository) GetByID(ctx context.Context, id int64) (*Function, error) {
	f, err := queryOne(ctx, r.repo, scanFunction, "SELECT "+functionCols+" FROM functions WHERE id = ?", id)
	if err != nil {
		return nil, r.fail("get", id, err)
	}
	return f, nil
}

func (r *FunctionRepository) GetByName(ctx context.Context, name string) (*Function, error) {
	f, err := queryOne(ctx, r.repo, scanFunction, "SELECT "+functionCols+" FROM functions WHERE name = ?", name)
	if err != nil {
		return nil, r.fail("get by name", name, err)
	}
	return f, nil
}

func (r *FunctionRepository) GetAll(ctx context.Context) ([]*Function, error) {
	fs, err := queryAll(ctx, r.repo, scanFunction, "SELECT "+functionCols+" FROM functions ORDER BY id")
	if err != nil {
		return nil, r.fail("get all", nil, err)
	}
	return fs, nil
}

func (r *FunctionRepository) GetByCategory(ctx context.Context, category Category) ([]*Function, error) {
	fs, err := queryAll(ctx, r.repo, scanFunction,
		"SELECT "+functionCols+" FROM functions WHERE category = ? ORDER BY id", category)
	if err != nil {
		return nil, r.fail("get by category", category, err)
	}
	return fs, nil
}

// GetBuiltIns returns the functions flagged as language built-ins.
func (r *FunctionRepository) GetBuiltIns(ctx context.Context) ([]*Function, error) {
	fs, err := queryAll(ctx, r.repo, scanFunction,
		"SELECT "+functionCols+" FROM functions WHERE is_builtin = ? ORDER BY id", true)
	if err != nil {
		return nil, r.fail("get built-ins", nil, err)
	}
	return fs, nil
}

// Search returns functions whose name, display name, description or any tag
// contains query, ignoring case. A blank query returns every function.
func (r *FunctionRepository) Search(ctx context.Context, query string) ([]*Function, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return all, nil
	}
	var matches []*Function
	for _, f := range all {
		if f.matches(needle) {
			matches = append(matches, f)
		}
	}
	return matches, nil
}

// matches reports whether the lowercase needle occurs in any searchable field.
func (f *Function) matches(needle string) bool {
	for _, field := range []string{f.Name, f.DisplayName, f.Description} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	for _, tag := range f.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// Create inserts f, ignoring f.ID, and writes the assigned id back into f.
func (r *FunctionRepository) Create(ctx context.Context, f *Function) (int64, error) {
	if err := validateFunction(f); err != nil {
		return 0, r.fail("create", f.Name, err)
	}
	params, err := encodeParameters(f.Parameters)
	if err != nil {
		return 0, r.fail("create", f.Name, err)
	}
	id, err := r.insert(ctx,
		`INSERT INTO functions (name, display_name, description, category, parameters, return_type, is_builtin, tags)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Name, f.DisplayName, f.Description, f.Category, params, f.ReturnType, f.IsBuiltIn, marshalList(f.Tags),
	)
	if err != nil {
		return 0, r.fail("create", f.Name, err)
	}
	f.ID = id
	return id, nil
}

// Update replaces the record with f.ID, inserting it if it no longer exists.
func (r *FunctionRepository) Update(ctx context.Context, f *Function) error {
	if f.ID <= 0 {
		return r.fail("update", f.Name, fmt.Errorf("%w: function id must be positive", ErrInvalidArgument))
	}
	if err := validateFunction(f); err != nil {
		return r.fail("update", f.ID, err)
	}
	params, err := encodeParameters(f.Parameters)
	if err != nil {
		return r.fail("update", f.ID, err)
	}
	err = r.exec(ctx,
		`INSERT INTO functions (id, name, display_name, description, category, parameters, return_type, is_builtin, tags)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, display_name = excluded.display_name, description = excluded.description,
		   category = excluded.category, parameters = excluded.parameters, return_type = excluded.return_type,
		   is_builtin = excluded.is_builtin, tags = excluded.tags`,
		f.ID, f.Name, f.DisplayName, f.Description, f.Category, params, f.ReturnType, f.IsBuiltIn, marshalList(f.Tags),
	)
	if err != nil {
		return r.fail("update", f.ID, err)
	}
	return nil
}
