package runtime

import (
	"context"
	"fmt"

	"github.com/risor-io/risor/object"

	"github.com/jward/syntaxcat/internal/analyzer"
	"github.com/jward/syntaxcat/internal/store"
)

// Declaration host functions. Risor scripts cannot construct Go struct
// pointers, so these accept Risor maps with primitive values and build the
// records on the Go side. Nothing touches the database here; records are
// collected and handed to the seeder later.

type mappingDecl struct {
	typeName string
	concrete string
	imports  []string
}

type patternDecl struct {
	function string
	pattern  string
	kind     store.PatternKind
	imports  []string
}

// declarations accumulates everything a fixture script declares.
type declarations struct {
	language  *store.Language
	types     []*store.AbstractType
	mappings  []mappingDecl
	functions []*store.Function
	patterns  []patternDecl
}

func (d *declarations) functionIndex(name string) int {
	for i, f := range d.functions {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// addFunction appends f. An existing function with the same name is replaced
// when replace is set and kept otherwise.
func (d *declarations) addFunction(f *store.Function, replace bool) bool {
	if i := d.functionIndex(f.Name); i >= 0 {
		if replace {
			d.functions[i] = f
		}
		return replace
	}
	d.functions = append(d.functions, f)
	return true
}

// language({"name": ..., "version": ..., "syntax": {...}})
func makeLanguageFn(d *declarations) *object.Builtin {
	return object.NewBuiltin("language", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("language", 1, len(args))
		}
		m, err := extractMap(args[0])
		if err != nil {
			return object.Errorf("language: %v", err)
		}
		if d.language != nil {
			return object.Errorf("language: already declared as %q", d.language.Name)
		}
		name := getString(m, "name")
		if name == "" {
			return object.Errorf("language: name is required")
		}

		lang := &store.Language{
			Name:        name,
			Version:     getString(m, "version"),
			Description: getString(m, "description"),
			Website:     getString(m, "website"),
			Enabled:     getBoolDefault(m, "enabled", true),
		}
		if raw, ok := m["syntax"]; ok {
			sm, err := extractMap(raw)
			if err != nil {
				return object.Errorf("language: syntax: %v", err)
			}
			lang.Syntax = store.SyntaxRules{
				LineComment:         getString(sm, "line_comment"),
				BlockCommentStart:   getString(sm, "block_comment_start"),
				BlockCommentEnd:     getString(sm, "block_comment_end"),
				StatementTerminator: getString(sm, "statement_terminator"),
				IndentStyle:         store.IndentStyle(getStringDefault(sm, "indent_style", string(store.IndentSpaces))),
				IndentSize:          getInt(sm, "indent_size"),
				FunctionTemplate:    getString(sm, "function_template"),
				VariableTemplate:    getString(sm, "variable_template"),
				Operators:           getStringMap(sm, "operators"),
			}
		}
		d.language = lang
		return object.Nil
	})
}

// abstract_type({"name": ..., "description": ..., "color": ...})
func makeAbstractTypeFn(d *declarations) *object.Builtin {
	return object.NewBuiltin("abstract_type", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("abstract_type", 1, len(args))
		}
		m, err := extractMap(args[0])
		if err != nil {
			return object.Errorf("abstract_type: %v", err)
		}
		name := getString(m, "name")
		if name == "" {
			return object.Errorf("abstract_type: name is required")
		}
		d.types = append(d.types, &store.AbstractType{
			Name:        name,
			Description: getString(m, "description"),
			Color:       getString(m, "color"),
		})
		return object.Nil
	})
}

// type_mapping({"type": "Number", "concrete": "int", "imports": [...]})
func makeTypeMappingFn(d *declarations) *object.Builtin {
	return object.NewBuiltin("type_mapping", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("type_mapping", 1, len(args))
		}
		m, err := extractMap(args[0])
		if err != nil {
			return object.Errorf("type_mapping: %v", err)
		}
		typeName, concrete := getString(m, "type"), getString(m, "concrete")
		if typeName == "" || concrete == "" {
			return object.Errorf("type_mapping: type and concrete are required")
		}
		d.mappings = append(d.mappings, mappingDecl{
			typeName: typeName,
			concrete: concrete,
			imports:  getStringList(m, "imports"),
		})
		return object.Nil
	})
}

// builtin({"name": ..., "category": ..., "parameters": [...], "return_type": ...})
//
// Missing display name, category and tags are derived from the name.
func makeBuiltinFn(d *declarations) *object.Builtin {
	return object.NewBuiltin("builtin", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("builtin", 1, len(args))
		}
		m, err := extractMap(args[0])
		if err != nil {
			return object.Errorf("builtin: %v", err)
		}
		f, err := functionFromMap(m)
		if err != nil {
			return object.Errorf("builtin: %v", err)
		}
		d.addFunction(f, true)
		return object.Nil
	})
}

func functionFromMap(m map[string]object.Object) (*store.Function, error) {
	name := getString(m, "name")
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	f := &store.Function{
		Name:        name,
		DisplayName: getStringDefault(m, "display_name", analyzer.DisplayName(name)),
		Description: getString(m, "description"),
		ReturnType:  getStringDefault(m, "return_type", analyzer.AnyType),
		IsBuiltIn:   getBoolDefault(m, "is_builtin", true),
	}
	for i, raw := range getList(m, "parameters") {
		pm, err := extractMap(raw)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %v", i, err)
		}
		p := store.Parameter{
			Name:        getString(pm, "name"),
			Type:        getStringDefault(pm, "type", analyzer.AnyType),
			Description: getString(pm, "description"),
			Default:     getOptionalString(pm, "default"),
		}
		p.Required = getBoolDefault(pm, "required", p.Default == nil)
		if p.Name == "" {
			return nil, fmt.Errorf("parameter %d: name is required", i)
		}
		f.Parameters = append(f.Parameters, p)
	}

	if cat := getString(m, "category"); cat != "" {
		f.Category = store.Category(cat)
		if !f.Category.Valid() {
			return nil, fmt.Errorf("%s: unknown category %q", name, cat)
		}
	} else {
		f.Category = analyzer.InferCategory(name, f.ReturnType)
	}

	if _, ok := m["tags"]; ok {
		f.Tags = getStringList(m, "tags")
	} else {
		f.Tags = analyzer.GenerateTags(f)
	}
	return f, nil
}

// pattern({"function": "abs", "pattern": "abs({0})", "kind": "expression", "imports": [...]})
func makePatternFn(d *declarations) *object.Builtin {
	return object.NewBuiltin("pattern", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("pattern", 1, len(args))
		}
		m, err := extractMap(args[0])
		if err != nil {
			return object.Errorf("pattern: %v", err)
		}
		fn, tmpl := getString(m, "function"), getString(m, "pattern")
		if fn == "" || tmpl == "" {
			return object.Errorf("pattern: function and pattern are required")
		}
		kind := store.PatternKind(getStringDefault(m, "kind", string(store.KindExpression)))
		switch kind {
		case store.KindExpression, store.KindStatement, store.KindBlock:
		default:
			return object.Errorf("pattern: %s: unknown kind %q", fn, kind)
		}
		d.patterns = append(d.patterns, patternDecl{
			function: fn,
			pattern:  tmpl,
			kind:     kind,
			imports:  getStringList(m, "imports"),
		})
		return object.Nil
	})
}

// --- Map extraction helpers ---

func extractMap(obj object.Object) (map[string]object.Object, error) {
	m, ok := obj.(*object.Map)
	if !ok {
		return nil, fmt.Errorf("expected map, got %s", obj.Type())
	}
	return m.Value(), nil
}

func getString(m map[string]object.Object, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	if s, ok := v.(*object.String); ok {
		return s.Value()
	}
	return ""
}

func getStringDefault(m map[string]object.Object, key, def string) string {
	v := getString(m, key)
	if v == "" {
		return def
	}
	return v
}

// getOptionalString distinguishes a missing or nil value from "".
func getOptionalString(m map[string]object.Object, key string) *string {
	v, ok := m[key]
	if !ok {
		return nil
	}
	if s, ok := v.(*object.String); ok {
		str := s.Value()
		return &str
	}
	return nil
}

func getInt(m map[string]object.Object, key string) int {
	v, ok := m[key]
	if !ok {
		return 0
	}
	if i, ok := v.(*object.Int); ok {
		return int(i.Value())
	}
	if f, ok := v.(*object.Float); ok {
		return int(f.Value())
	}
	return 0
}

func getBoolDefault(m map[string]object.Object, key string, def bool) bool {
	v, ok := m[key]
	if !ok {
		return def
	}
	if b, ok := v.(*object.Bool); ok {
		return b.Value()
	}
	return def
}

func getList(m map[string]object.Object, key string) []object.Object {
	v, ok := m[key]
	if !ok {
		return nil
	}
	if l, ok := v.(*object.List); ok {
		return l.Value()
	}
	return nil
}

// getStringList keeps only the string items of a list.
func getStringList(m map[string]object.Object, key string) []string {
	var out []string
	for _, item := range getList(m, key) {
		if s, err := toString(item); err == nil {
			out = append(out, s)
		}
	}
	return out
}

func getStringMap(m map[string]object.Object, key string) map[string]string {
	v, ok := m[key]
	if !ok {
		return nil
	}
	inner, err := extractMap(v)
	if err != nil || len(inner) == 0 {
		return nil
	}
	out := make(map[string]string, len(inner))
	for k, val := range inner {
		if s, err := toString(val); err == nil {
			out[k] = s
		}
	}
	return out
}

func toString(obj object.Object) (string, error) {
	if s, ok := obj.(*object.String); ok {
		return s.Value(), nil
	}
	return "", fmt.Errorf("expected string, got %s", obj.Type())
}
