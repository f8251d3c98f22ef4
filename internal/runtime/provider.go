package runtime

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/jward/syntaxcat/internal/analyzer"
	"github.com/jward/syntaxcat/internal/seed"
	"github.com/jward/syntaxcat/internal/store"
)

// ScriptProvider is a seed.Provider backed by a Risor fixture script. The
// script runs once; every call afterwards returns fresh copies of what it
// declared.
type ScriptProvider struct {
	rt     *Runtime
	name   string
	script string

	mu   sync.Mutex
	decl *declarations
}

var _ seed.Provider = (*ScriptProvider)(nil)

// NewScriptProvider returns a provider that runs script (a path understood by
// rt) when seed records are first requested.
func NewScriptProvider(rt *Runtime, name, script string) *ScriptProvider {
	return &ScriptProvider{rt: rt, name: name, script: script}
}

func (p *ScriptProvider) Name() string { return p.name }

// load runs the fixture script on first use. A failed run is not cached.
func (p *ScriptProvider) load(ctx context.Context) (*declarations, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.decl != nil {
		return p.decl, nil
	}

	d := &declarations{}
	globals := map[string]any{
		"language":       makeLanguageFn(d),
		"abstract_type":  makeAbstractTypeFn(d),
		"type_mapping":   makeTypeMappingFn(d),
		"builtin":        makeBuiltinFn(d),
		"pattern":        makePatternFn(d),
		"stub_functions": makeStubFunctionsFn(p.rt, d),
	}
	if err := p.rt.RunScript(ctx, p.script, globals); err != nil {
		return nil, err
	}
	if d.language == nil {
		return nil, fmt.Errorf("runtime: fixture %s declared no language", p.name)
	}

	p.rt.logger.Info("fixture loaded",
		zap.String("fixture", p.name),
		zap.String("language", d.language.Name),
		zap.Int("types", len(d.types)),
		zap.Int("functions", len(d.functions)),
		zap.Int("patterns", len(d.patterns)),
	)
	p.decl = d
	return d, nil
}

func (p *ScriptProvider) LanguageDefinition(ctx context.Context) (*store.Language, error) {
	d, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	l := *d.language
	l.Syntax.Operators = maps.Clone(d.language.Syntax.Operators)
	return &l, nil
}

func (p *ScriptProvider) TypeDefinitions(ctx context.Context) ([]*store.AbstractType, error) {
	d, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*store.AbstractType, len(d.types))
	for i, t := range d.types {
		c := *t
		out[i] = &c
	}
	return out, nil
}

// TypeMappings resolves declared type names through typeIDs. Mappings for
// unknown types are skipped with a warning.
func (p *ScriptProvider) TypeMappings(ctx context.Context, typeIDs map[string]int64, languageID int64) ([]*store.TypeMapping, error) {
	d, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []*store.TypeMapping
	for _, m := range d.mappings {
		id, ok := typeIDs[m.typeName]
		if !ok {
			p.rt.logger.Warn("type mapping references unknown type",
				zap.String("fixture", p.name), zap.String("type", m.typeName))
			continue
		}
		out = append(out, &store.TypeMapping{
			AbstractTypeID: id,
			LanguageID:     languageID,
			ConcreteType:   m.concrete,
			Imports:        slices.Clone(m.imports),
		})
	}
	return out, nil
}

func (p *ScriptProvider) BuiltInFunctions(ctx context.Context) ([]*store.Function, error) {
	d, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*store.Function, len(d.functions))
	for i, f := range d.functions {
		c := *f
		c.Parameters = slices.Clone(f.Parameters)
		c.Tags = slices.Clone(f.Tags)
		out[i] = &c
	}
	return out, nil
}

// SyntaxPatterns returns one pattern per function in functionIDs, in
// declaration order. Functions without an explicit pattern get a default
// call expression. Patterns for unknown functions are skipped with a warning.
func (p *ScriptProvider) SyntaxPatterns(ctx context.Context, functionIDs map[string]int64, languageID int64) ([]*store.SyntaxPattern, error) {
	d, err := p.load(ctx)
	if err != nil {
		return nil, err
	}

	explicit := make(map[string]patternDecl, len(d.patterns))
	for _, pd := range d.patterns {
		if _, ok := functionIDs[pd.function]; !ok {
			p.rt.logger.Warn("pattern references unknown function",
				zap.String("fixture", p.name), zap.String("function", pd.function))
			continue
		}
		explicit[pd.function] = pd
	}

	var out []*store.SyntaxPattern
	for _, f := range d.functions {
		id, ok := functionIDs[f.Name]
		if !ok {
			continue
		}
		sp := &store.SyntaxPattern{FunctionID: id, LanguageID: languageID}
		if pd, ok := explicit[f.Name]; ok {
			sp.Pattern, sp.Kind, sp.Imports = pd.pattern, pd.kind, slices.Clone(pd.imports)
		} else {
			sp.Pattern, sp.Kind = analyzer.DefaultCallPattern(f)
		}
		out = append(out, sp)
	}
	return out, nil
}
