package syntaxcat

import (
	"context"
)

// ---------------------------------------------------------------------------
// Languages
// ---------------------------------------------------------------------------

func (s *Service) Languages(ctx context.Context) ([]*Language, error) {
	return call(ctx, s, func() ([]*Language, error) { return s.repos.Languages.GetAll(ctx) })
}

// Language returns the language with id, or nil.
func (s *Service) Language(ctx context.Context, id int64) (*Language, error) {
	return call(ctx, s, func() (*Language, error) { return s.repos.Languages.GetByID(ctx, id) })
}

// LanguageByName returns the language with the exact name, or nil.
func (s *Service) LanguageByName(ctx context.Context, name string) (*Language, error) {
	return call(ctx, s, func() (*Language, error) { return s.repos.Languages.GetByName(ctx, name) })
}

// CreateLanguage inserts l, ignoring l.ID, and returns the assigned id.
func (s *Service) CreateLanguage(ctx context.Context, l *Language) (int64, error) {
	return call(ctx, s, func() (int64, error) { return s.repos.Languages.Create(ctx, l) })
}

func (s *Service) UpdateLanguage(ctx context.Context, l *Language) error {
	return do(ctx, s, func() error { return s.repos.Languages.Update(ctx, l) })
}

func (s *Service) DeleteLanguage(ctx context.Context, id int64) error {
	return do(ctx, s, func() error { return s.repos.Languages.Delete(ctx, id) })
}

// ---------------------------------------------------------------------------
// Abstract types
// ---------------------------------------------------------------------------

func (s *Service) Types(ctx context.Context) ([]*AbstractType, error) {
	return call(ctx, s, func() ([]*AbstractType, error) { return s.repos.Types.GetAll(ctx) })
}

func (s *Service) Type(ctx context.Context, id int64) (*AbstractType, error) {
	return call(ctx, s, func() (*AbstractType, error) { return s.repos.Types.GetByID(ctx, id) })
}

func (s *Service) TypeByName(ctx context.Context, name string) (*AbstractType, error) {
	return call(ctx, s, func() (*AbstractType, error) { return s.repos.Types.GetByName(ctx, name) })
}

func (s *Service) CreateType(ctx context.Context, t *AbstractType) (int64, error) {
	return call(ctx, s, func() (int64, error) { return s.repos.Types.Create(ctx, t) })
}

func (s *Service) UpdateType(ctx context.Context, t *AbstractType) error {
	return do(ctx, s, func() error { return s.repos.Types.Update(ctx, t) })
}

func (s *Service) DeleteType(ctx context.Context, id int64) error {
	return do(ctx, s, func() error { return s.repos.Types.Delete(ctx, id) })
}

// ---------------------------------------------------------------------------
// Type mappings
// ---------------------------------------------------------------------------

func (s *Service) TypeMappings(ctx context.Context) ([]*TypeMapping, error) {
	return call(ctx, s, func() ([]*TypeMapping, error) { return s.repos.TypeMappings.GetAll(ctx) })
}

func (s *Service) TypeMapping(ctx context.Context, id int64) (*TypeMapping, error) {
	return call(ctx, s, func() (*TypeMapping, error) { return s.repos.TypeMappings.GetByID(ctx, id) })
}

func (s *Service) TypeMappingsByLanguage(ctx context.Context, languageID int64) ([]*TypeMapping, error) {
	return call(ctx, s, func() ([]*TypeMapping, error) {
		return s.repos.TypeMappings.GetByLanguage(ctx, languageID)
	})
}

// TypeMappingFor returns the concrete type for typeID in languageID, or nil.
func (s *Service) TypeMappingFor(ctx context.Context, typeID, languageID int64) (*TypeMapping, error) {
	return call(ctx, s, func() (*TypeMapping, error) {
		return s.repos.TypeMappings.GetByTypeAndLanguage(ctx, typeID, languageID)
	})
}

func (s *Service) CreateTypeMapping(ctx context.Context, m *TypeMapping) (int64, error) {
	return call(ctx, s, func() (int64, error) { return s.repos.TypeMappings.Create(ctx, m) })
}

func (s *Service) UpdateTypeMapping(ctx context.Context, m *TypeMapping) error {
	return do(ctx, s, func() error { return s.repos.TypeMappings.Update(ctx, m) })
}

func (s *Service) DeleteTypeMapping(ctx context.Context, id int64) error {
	return do(ctx, s, func() error { return s.repos.TypeMappings.Delete(ctx, id) })
}

// ---------------------------------------------------------------------------
// Functions
// ---------------------------------------------------------------------------

func (s *Service) Functions(ctx context.Context) ([]*Function, error) {
	return call(ctx, s, func() ([]*Function, error) { return s.repos.Functions.GetAll(ctx) })
}

func (s *Service) Function(ctx context.Context, id int64) (*Function, error) {
	return call(ctx, s, func() (*Function, error) { return s.repos.Functions.GetByID(ctx, id) })
}

func (s *Service) FunctionByName(ctx context.Context, name string) (*Function, error) {
	return call(ctx, s, func() (*Function, error) { return s.repos.Functions.GetByName(ctx, name) })
}

func (s *Service) FunctionsByCategory(ctx context.Context, category Category) ([]*Function, error) {
	return call(ctx, s, func() ([]*Function, error) { return s.repos.Functions.GetByCategory(ctx, category) })
}

func (s *Service) BuiltInFunctions(ctx context.Context) ([]*Function, error) {
	return call(ctx, s, func() ([]*Function, error) { return s.repos.Functions.GetBuiltIns(ctx) })
}

// SearchFunctions returns functions whose name, display name, description or
// any tag contains query, ignoring case. A blank query returns every function.
func (s *Service) SearchFunctions(ctx context.Context, query string) ([]*Function, error) {
	return call(ctx, s, func() ([]*Function, error) { return s.repos.Functions.Search(ctx, query) })
}

func (s *Service) CreateFunction(ctx context.Context, f *Function) (int64, error) {
	return call(ctx, s, func() (int64, error) { return s.repos.Functions.Create(ctx, f) })
}

func (s *Service) UpdateFunction(ctx context.Context, f *Function) error {
	return do(ctx, s, func() error { return s.repos.Functions.Update(ctx, f) })
}

// DeleteFunction removes the function. Its patterns are left in place.
func (s *Service) DeleteFunction(ctx context.Context, id int64) error {
	return do(ctx, s, func() error { return s.repos.Functions.Delete(ctx, id) })
}

// ---------------------------------------------------------------------------
// Syntax patterns
// ---------------------------------------------------------------------------

func (s *Service) Patterns(ctx context.Context) ([]*SyntaxPattern, error) {
	return call(ctx, s, func() ([]*SyntaxPattern, error) { return s.repos.Patterns.GetAll(ctx) })
}

func (s *Service) Pattern(ctx context.Context, id int64) (*SyntaxPattern, error) {
	return call(ctx, s, func() (*SyntaxPattern, error) { return s.repos.Patterns.GetByID(ctx, id) })
}

func (s *Service) PatternsByLanguage(ctx context.Context, languageID int64) ([]*SyntaxPattern, error) {
	return call(ctx, s, func() ([]*SyntaxPattern, error) {
		return s.repos.Patterns.GetByLanguage(ctx, languageID)
	})
}

func (s *Service) PatternsByFunction(ctx context.Context, functionID int64) ([]*SyntaxPattern, error) {
	return call(ctx, s, func() ([]*SyntaxPattern, error) {
		return s.repos.Patterns.GetByFunction(ctx, functionID)
	})
}

// PatternFor returns the pattern rendering functionID in languageID, or nil.
func (s *Service) PatternFor(ctx context.Context, functionID, languageID int64) (*SyntaxPattern, error) {
	return call(ctx, s, func() (*SyntaxPattern, error) {
		return s.repos.Patterns.GetByFunctionAndLanguage(ctx, functionID, languageID)
	})
}

func (s *Service) CreatePattern(ctx context.Context, p *SyntaxPattern) (int64, error) {
	return call(ctx, s, func() (int64, error) { return s.repos.Patterns.Create(ctx, p) })
}

func (s *Service) UpdatePattern(ctx context.Context, p *SyntaxPattern) error {
	return do(ctx, s, func() error { return s.repos.Patterns.Update(ctx, p) })
}

func (s *Service) DeletePattern(ctx context.Context, id int64) error {
	return do(ctx, s, func() error { return s.repos.Patterns.Delete(ctx, id) })
}
