package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jward/syntaxcat/internal/store"
)

// Initializer creates the schema and seeds it from a Provider when the
// catalog holds no languages.
type Initializer struct {
	store    *store.Store
	provider Provider
	logger   *zap.Logger
}

// NewInitializer returns an Initializer. A nil logger discards output.
func NewInitializer(s *store.Store, p Provider, logger *zap.Logger) *Initializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Initializer{store: s, provider: p, logger: logger.Named("seed")}
}

// Initialize migrates the schema, then seeds if the catalog is empty.
func (in *Initializer) Initialize(ctx context.Context) error {
	if err := in.store.Migrate(ctx); err != nil {
		in.logger.Error("schema migration failed", zap.Error(err))
		return err
	}
	if _, err := in.SeedIfNeeded(ctx); err != nil {
		return err
	}
	return nil
}

// SeedIfNeeded runs the seed sequence only when the languages partition is
// empty. The whole sequence is one transaction: a failure leaves the catalog
// empty so the next start seeds again.
func (in *Initializer) SeedIfNeeded(ctx context.Context) (bool, error) {
	if in.provider == nil {
		return false, nil
	}
	seeded := false
	err := in.store.InTx(ctx, func(repos *store.Repositories) error {
		n, err := repos.Languages.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		if err := in.seed(ctx, repos); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		in.logger.Error("seeding failed", zap.String("fixture", in.provider.Name()), zap.Error(err))
		return false, err
	}
	if seeded {
		in.logger.Info("catalog seeded", zap.String("fixture", in.provider.Name()))
	} else {
		in.logger.Debug("catalog already seeded, skipping", zap.String("fixture", in.provider.Name()))
	}
	return seeded, nil
}

// seed inserts language, types, mappings, functions and patterns in
// dependency order.
func (in *Initializer) seed(ctx context.Context, repos *store.Repositories) error {
	p := in.provider

	lang, err := p.LanguageDefinition(ctx)
	if err != nil {
		return fmt.Errorf("%s: language definition: %w", p.Name(), err)
	}
	langID, err := repos.Languages.Create(ctx, lang)
	if err != nil {
		return err
	}

	types, err := p.TypeDefinitions(ctx)
	if err != nil {
		return fmt.Errorf("%s: type definitions: %w", p.Name(), err)
	}
	typeIDs := make(map[string]int64, len(types))
	for _, t := range types {
		id, err := repos.Types.Create(ctx, t)
		if err != nil {
			return err
		}
		typeIDs[t.Name] = id
	}

	mappings, err := p.TypeMappings(ctx, typeIDs, langID)
	if err != nil {
		return fmt.Errorf("%s: type mappings: %w", p.Name(), err)
	}
	for _, m := range mappings {
		if _, err := repos.TypeMappings.Create(ctx, m); err != nil {
			return err
		}
	}

	fns, err := p.BuiltInFunctions(ctx)
	if err != nil {
		return fmt.Errorf("%s: built-in functions: %w", p.Name(), err)
	}
	fnIDs := make(map[string]int64, len(fns))
	for _, f := range fns {
		id, err := repos.Functions.Create(ctx, f)
		if err != nil {
			return err
		}
		fnIDs[f.Name] = id
	}

	patterns, err := p.SyntaxPatterns(ctx, fnIDs, langID)
	if err != nil {
		return fmt.Errorf("%s: syntax patterns: %w", p.Name(), err)
	}
	for _, sp := range patterns {
		if _, err := repos.Patterns.Create(ctx, sp); err != nil {
			return err
		}
	}

	in.logger.Debug("seed records prepared",
		zap.String("language", lang.Name),
		zap.Int("types", len(types)),
		zap.Int("typeMappings", len(mappings)),
		zap.Int("functions", len(fns)),
		zap.Int("patterns", len(patterns)),
	)
	return nil
}

// Clear empties every partition in one transaction.
func (in *Initializer) Clear(ctx context.Context) error {
	if err := in.store.Clear(ctx); err != nil {
		in.logger.Error("clear failed", zap.Error(err))
		return err
	}
	in.logger.Info("catalog cleared")
	return nil
}

// Reset clears the catalog and initializes it again. The two steps are
// separate transactions.
func (in *Initializer) Reset(ctx context.Context) error {
	if err := in.Clear(ctx); err != nil {
		return err
	}
	return in.Initialize(ctx)
}
