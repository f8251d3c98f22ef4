// Package seed populates an empty catalog from a per-language fixture.
package seed

import (
	"context"

	"github.com/jward/syntaxcat/internal/store"
)

// Provider supplies the seed records for one source language. Returned
// records carry no ids; the ids of earlier steps are passed to later ones.
type Provider interface {
	// Name identifies the fixture in logs, e.g. "python".
	Name() string
	LanguageDefinition(ctx context.Context) (*store.Language, error)
	TypeDefinitions(ctx context.Context) ([]*store.AbstractType, error)
	// TypeMappings receives type name → id for the types just created.
	TypeMappings(ctx context.Context, typeIDs map[string]int64, languageID int64) ([]*store.TypeMapping, error)
	BuiltInFunctions(ctx context.Context) ([]*store.Function, error)
	// SyntaxPatterns receives function name → id for the functions just created.
	SyntaxPatterns(ctx context.Context, functionIDs map[string]int64, languageID int64) ([]*store.SyntaxPattern, error)
}
