package store

import (
	"context"
	"fmt"
)

// PatternRepository is the typed access path to the syntax patterns
// partition. (function_id, language_id) is unique.
type PatternRepository struct {
	repo
}

const patternCols = `id, function_id, language_id, pattern, kind, imports`

func scanPattern(scanner rowScanner) (*SyntaxPattern, error) {
	p := &SyntaxPattern{}
	var imports string
	if err := scanner.Scan(&p.ID, &p.FunctionID, &p.LanguageID, &p.Pattern, &p.Kind, &imports); err != nil {
		return nil, err
	}
	p.Imports = unmarshalList(imports)
	return p, nil
}

func (r *PatternRepository) GetByID(ctx context.Context, id int64) (*SyntaxPattern, error) {
	p, err := queryOne(ctx, r.repo, scanPattern, "SELECT "+patternCols+" FROM syntax_patterns WHERE id = ?", id)
	if err != nil {
		return nil, r.fail("get", id, err)
	}
	return p, nil
}

func (r *PatternRepository) GetAll(ctx context.Context) ([]*SyntaxPattern, error) {
	ps, err := queryAll(ctx, r.repo, scanPattern, "SELECT "+patternCols+" FROM syntax_patterns ORDER BY id")
	if err != nil {
		return nil, r.fail("get all", nil, err)
	}
	return ps, nil
}

// GetByLanguage returns every pattern for languageID.
func (r *PatternRepository) GetByLanguage(ctx context.Context, languageID int64) ([]*SyntaxPattern, error) {
	ps, err := queryAll(ctx, r.repo, scanPattern,
		"SELECT "+patternCols+" FROM syntax_patterns WHERE language_id = ? ORDER BY id", languageID)
	if err != nil {
		return nil, r.fail("get by language", languageID, err)
	}
	return ps, nil
}

// GetByFunction returns the patterns for functionID across all languages.
func (r *PatternRepository) GetByFunction(ctx context.Context, functionID int64) ([]*SyntaxPattern, error) {
	ps, err := queryAll(ctx, r.repo, scanPattern,
		"SELECT "+patternCols+" FROM syntax_patterns WHERE function_id = ? ORDER BY id", functionID)
	if err != nil {
		return nil, r.fail("get by function", functionID, err)
	}
	return ps, nil
}

// GetByFunctionAndLanguage returns the pattern for exactly (functionID, languageID).
func (r *PatternRepository) GetByFunctionAndLanguage(ctx context.Context, functionID, languageID int64) (*SyntaxPattern, error) {
	p, err := queryOne(ctx, r.repo, scanPattern,
		"SELECT "+patternCols+" FROM syntax_patterns WHERE function_id = ? AND language_id = ?",
		functionID, languageID)
	if err != nil {
		return nil, r.fail("get by function and language", [2]int64{functionID, languageID}, err)
	}
	return p, nil
}

// Create inserts p, ignoring p.ID, and writes the assigned id back into p.
func (r *PatternRepository) Create(ctx context.Context, p *SyntaxPattern) (int64, error) {
	id, err := r.insert(ctx,
		`INSERT INTO syntax_patterns (function_id, language_id, pattern, kind, imports)
		 VALUES (?, ?, ?, ?, ?)`,
		p.FunctionID, p.LanguageID, p.Pattern, p.Kind, marshalList(p.Imports),
	)
	if err != nil {
		return 0, r.fail("create", [2]int64{p.FunctionID, p.LanguageID}, err)
	}
	p.ID = id
	return id, nil
}

// Update replaces the record with p.ID, inserting it if it no longer exists.
func (r *PatternRepository) Update(ctx context.Context, p *SyntaxPattern) error {
	if p.ID <= 0 {
		return r.fail("update", nil, fmt.Errorf("%w: pattern id must be positive", ErrInvalidArgument))
	}
	err := r.exec(ctx,
		`INSERT INTO syntax_patterns (id, function_id, language_id, pattern, kind, imports)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   function_id = excluded.function_id, language_id = excluded.language_id,
		   pattern = excluded.pattern, kind = excluded.kind, imports = excluded.imports`,
		p.ID, p.FunctionID, p.LanguageID, p.Pattern, p.Kind, marshalList(p.Imports),
	)
	if err != nil {
		return r.fail("update", p.ID, err)
	}
	return nil
}
