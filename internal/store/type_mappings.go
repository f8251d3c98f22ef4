package store

import (
	"context"
	"fmt"
)

// TypeMappingRepository is the typed access path to the type mappings
// partition. (abstract_type_id, language_id) is unique.
type TypeMappingRepository struct {
	repo
}

const typeMappingCols = `id, abstract_type_id, language_id, concrete_type, imports`

func scanTypeMapping(scanner rowScanner) (*TypeMapping, error) {
	m := &TypeMapping{}
	var imports string
	if err := scanner.Scan(&m.ID, &m.AbstractTypeID, &m.LanguageID, &m.ConcreteType, &imports); err != nil {
		return nil, err
	}
	m.Imports = unmarshalList(imports)
	return m, nil
}

func (r *TypeMappingRepository) GetByID(ctx context.Context, id int64) (*TypeMapping, error) {
	m, err := queryOne(ctx, r.repo, scanTypeMapping, "SELECT "+typeMappingCols+" FROM type_mappings WHERE id = ?", id)
	if err != nil {
		return nil, r.fail("get", id, err)
	}
	return m, nil
}

func (r *TypeMappingRepository) GetAll(ctx context.Context) ([]*TypeMapping, error) {
	ms, err := queryAll(ctx, r.repo, scanTypeMapping, "SELECT "+typeMappingCols+" FROM type_mappings ORDER BY id")
	if err != nil {
		return nil, r.fail("get all", nil, err)
	}
	return ms, nil
}

// GetByLanguage returns every mapping for languageID.
func (r *TypeMappingRepository) GetByLanguage(ctx context.Context, languageID int64) ([]*TypeMapping, error) {
	ms, err := queryAll(ctx, r.repo, scanTypeMapping,
		"SELECT "+typeMappingCols+" FROM type_mappings WHERE language_id = ? ORDER BY id", languageID)
	if err != nil {
		return nil, r.fail("get by language", languageID, err)
	}
	return ms, nil
}

// GetByTypeAndLanguage returns the mapping for exactly (typeID, languageID).
func (r *TypeMappingRepository) GetByTypeAndLanguage(ctx context.Context, typeID, languageID int64) (*TypeMapping, error) {
	m, err := queryOne(ctx, r.repo, scanTypeMapping,
		"SELECT "+typeMappingCols+" FROM type_mappings WHERE abstract_type_id = ? AND language_id = ?",
		typeID, languageID)
	if err != nil {
		return nil, r.fail("get by type and language", [2]int64{typeID, languageID}, err)
	}
	return m, nil
}

// Create inserts m, ignoring m.ID, and writes the assigned id back into m.
func (r *TypeMappingRepository) Create(ctx context.Context, m *TypeMapping) (int64, error) {
	id, err := r.insert(ctx,
		`INSERT INTO type_mappings (abstract_type_id, language_id, concrete_type, imports)
		 VALUES (?, ?, ?, ?)`,
		m.AbstractTypeID, m.LanguageID, m.ConcreteType, marshalList(m.Imports),
	)
	if err != nil {
		return 0, r.fail("create", [2]int64{m.AbstractTypeID, m.LanguageID}, err)
	}
	m.ID = id
	return id, nil
}

// Update replaces the record with m.ID, inserting it if it no longer exists.
func (r *TypeMappingRepository) Update(ctx context.Context, m *TypeMapping) error {
	if m.ID <= 0 {
		return r.fail("update", nil, fmt.Errorf("%w: type mapping id must be positive", ErrInvalidArgument))
	}
	err := r.exec(ctx,
		`INSERT INTO type_mappings (id, abstract_type_id, language_id, concrete_type, imports)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   abstract_type_id = excluded.abstract_type_id, language_id = excluded.language_id,
		   concrete_type = excluded.concrete_type, imports = excluded.imports`,
		m.ID, m.AbstractTypeID, m.LanguageID, m.ConcreteType, marshalList(m.Imports),
	)
	if err != nil {
		return r.fail("update", m.ID, err)
	}
	return nil
}
