// Package syntaxcat is a catalog of programming-language syntax metadata:
// language definitions, built-in function signatures, code-generation
// patterns, abstract types, and the mapping from abstract types to concrete
// per-language types. A visual programming tool uses it to turn abstract
// function and type nodes into source snippets for a target language.
//
// # Storage
//
// Records live in a single SQLite file with five partitions: languages,
// functions, syntax patterns, abstract types and type mappings. Names are
// unique, and at most one pattern exists per (function, language) pair and
// one mapping per (type, language) pair. Violations surface as
// ErrDuplicateKey. Lookups of missing records return nil, not an error.
//
// # Seeding
//
// The first operation on an empty catalog seeds it from a Provider. The
// bundled provider runs fixtures/python.risor, which reads Python's built-in
// signatures from a stub file with tree-sitter. Seeding happens once per
// Service even under concurrent use, and runs in a single transaction.
//
// # Usage
//
//	svc, err := syntaxcat.New("catalog.db")
//	if err != nil { ... }
//	defer svc.Close()
//
//	ctx := context.Background()
//	py, err := svc.LanguageByName(ctx, "Python")
//	abs, err := svc.FunctionByName(ctx, "abs")
//	p, err := svc.PatternFor(ctx, abs.ID, py.ID) // p.Pattern == "abs({0})"
//
// # Export and import
//
// ExportDatabase returns a Snapshot of every record. ImportDatabase replaces
// the catalog with a snapshot, assigning fresh ids. Foreign keys inside the
// snapshot are kept verbatim unless RemapForeignKeys is passed.
package syntaxcat
