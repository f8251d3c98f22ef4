package syntaxcat

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ignoreIDs compares snapshots by content. Ids are reassigned on import, and
// foreign keys follow them only when remapped.
var ignoreIDs = cmp.Options{
	cmpopts.IgnoreFields(Snapshot{}, "ID", "ExportedAt"),
	cmpopts.IgnoreFields(Language{}, "ID"),
	cmpopts.IgnoreFields(AbstractType{}, "ID"),
	cmpopts.IgnoreFields(Function{}, "ID"),
	cmpopts.IgnoreFields(SyntaxPattern{}, "ID", "FunctionID", "LanguageID"),
	cmpopts.IgnoreFields(TypeMapping{}, "ID", "AbstractTypeID", "LanguageID"),
	cmpopts.EquateEmpty(),
}

func TestExportDatabase(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, WithProvider(&testProvider{}))
	ctx := context.Background()

	snap, err := svc.ExportDatabase(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, snap.ID)
	assert.WithinDuration(t, time.Now(), snap.ExportedAt, time.Minute)
	assert.Equal(t, 1, snap.SchemaVersion)
	assert.Len(t, snap.Languages, 1)
	assert.Len(t, snap.Functions, 2)
	assert.Len(t, snap.Patterns, 2)
	assert.Len(t, snap.Types, 2)
	assert.Len(t, snap.TypeMappings, 2)
}

func TestExportDatabase_EmptyArraysNotNil(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, WithoutSeed())

	snap, err := svc.ExportDatabase(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, snap.Languages)
	assert.NotNil(t, snap.TypeMappings)

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, snap, FormatJSON))
	assert.Contains(t, buf.String(), `"languages": []`)
}

func TestImportDatabase_RoundTrip(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, WithProvider(&testProvider{}))
	ctx := context.Background()

	before, err := svc.ExportDatabase(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.ClearDatabase(ctx))
	require.NoError(t, svc.ImportDatabase(ctx, before))

	after, err := svc.ExportDatabase(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(before, after, ignoreIDs); diff != "" {
		t.Errorf("round trip mismatch (-before +after):\n%s", diff)
	}
	assert.Greater(t, after.Languages[0].ID, before.Languages[0].ID, "imported records get fresh ids")
}

func TestImportDatabase_KeepsForeignKeysByDefault(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, WithProvider(&testProvider{}))
	ctx := context.Background()

	before, err := svc.ExportDatabase(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.ImportDatabase(ctx, before))

	after, err := svc.ExportDatabase(ctx)
	require.NoError(t, err)
	require.Len(t, after.Patterns, len(before.Patterns))
	for i := range before.Patterns {
		assert.Equal(t, before.Patterns[i].FunctionID, after.Patterns[i].FunctionID)
		assert.Equal(t, before.Patterns[i].LanguageID, after.Patterns[i].LanguageID)
	}

	// The stale keys no longer resolve against the new ids.
	abs, err := svc.FunctionByName(ctx, "abs")
	require.NoError(t, err)
	lang, err := svc.LanguageByName(ctx, "Toy")
	require.NoError(t, err)
	p, err := svc.PatternFor(ctx, abs.ID, lang.ID)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestImportDatabase_RemapForeignKeys(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, WithProvider(&testProvider{}))
	ctx := context.Background()

	before, err := svc.ExportDatabase(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.ImportDatabase(ctx, before, RemapForeignKeys()))

	abs, err := svc.FunctionByName(ctx, "abs")
	require.NoError(t, err)
	lang, err := svc.LanguageByName(ctx, "Toy")
	require.NoError(t, err)
	assert.NotEqual(t, before.Languages[0].ID, lang.ID)

	p, err := svc.PatternFor(ctx, abs.ID, lang.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "abs({0})", p.Pattern)

	number, err := svc.TypeByName(ctx, "Number")
	require.NoError(t, err)
	m, err := svc.TypeMappingFor(ctx, number.ID, lang.ID)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "num", m.ConcreteType)
}

func TestImportDatabase_RemapKeepsUnknownReferences(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, WithoutSeed())
	ctx := context.Background()

	snap := &Snapshot{
		Languages: []*Language{{ID: 7, Name: "Solo"}},
		Patterns:  []*SyntaxPattern{{ID: 1, FunctionID: 42, LanguageID: 7, Pattern: "ghost()", Kind: KindExpression}},
	}
	require.NoError(t, svc.ImportDatabase(ctx, snap, RemapForeignKeys()))

	lang, err := svc.LanguageByName(ctx, "Solo")
	require.NoError(t, err)
	patterns, err := svc.PatternsByLanguage(ctx, lang.ID)
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, int64(42), patterns[0].FunctionID)
	assert.Equal(t, int64(7), snap.Languages[0].ID, "the snapshot itself is not modified")
}

func TestImportDatabase_FailureLeavesCatalogUnchanged(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, WithProvider(&testProvider{}))
	ctx := context.Background()

	before, err := svc.ExportDatabase(ctx)
	require.NoError(t, err)

	bad := &Snapshot{Languages: []*Language{{Name: "Dup"}, {Name: "Dup"}}}
	err = svc.ImportDatabase(ctx, bad)
	assert.ErrorIs(t, err, ErrDuplicateKey)

	after, err := svc.ExportDatabase(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(before, after, cmpopts.IgnoreFields(Snapshot{}, "ID", "ExportedAt")); diff != "" {
		t.Errorf("catalog changed after failed import (-before +after):\n%s", diff)
	}
}

func TestImportDatabase_NullEntry(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		format string
		doc    string
	}{
		{"json language", FormatJSON, `{"languages": [null]}`},
		{"json pattern", FormatJSON, `{"languages": [{"name": "Toy"}], "patterns": [{"pattern": "x"}, null]}`},
		{"yaml function", FormatYAML, "functions:\n  - ~\n"},
		{"yaml type mapping", FormatYAML, "typeMappings: [null]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestService(t, WithProvider(&testProvider{}))
			ctx := context.Background()
			_, err := svc.Functions(ctx)
			require.NoError(t, err)

			snap, err := ReadSnapshot(strings.NewReader(tt.doc), tt.format)
			require.NoError(t, err)
			err = svc.ImportDatabase(ctx, snap)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Contains(t, err.Error(), "is null")

			fns, err := svc.Functions(ctx)
			require.NoError(t, err)
			assert.Len(t, fns, 2, "the seeded catalog is untouched")
			langs, err := svc.Languages(ctx)
			require.NoError(t, err)
			require.Len(t, langs, 1)
			assert.Equal(t, "Toy", langs[0].Name)
		})
	}
}

func TestImportDatabase_SkipsSeeding(t *testing.T) {
	t.Parallel()
	p := &testProvider{}
	svc := newTestService(t, WithProvider(p))
	ctx := context.Background()

	require.NoError(t, svc.ImportDatabase(ctx, &Snapshot{}))
	langs, err := svc.Languages(ctx)
	require.NoError(t, err)
	assert.Empty(t, langs)
	assert.Zero(t, p.calls.Load())
}

func TestImportDatabase_NilSnapshot(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, WithoutSeed())
	err := svc.ImportDatabase(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSnapshotCodecs(t *testing.T) {
	t.Parallel()
	def := "1"
	snap := &Snapshot{
		ID:            "b0c5a0a8-1f3e-4a7a-9d55-0d3c6c1f0e11",
		ExportedAt:    time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
		SchemaVersion: 1,
		Languages: []*Language{{
			ID: 1, Name: "Python", Version: "3.12", Enabled: true,
			Syntax: SyntaxRules{LineComment: "#", IndentStyle: IndentSpaces, IndentSize: 4, Operators: map[string]string{"add": "{0} + {1}"}},
		}},
		Functions: []*Function{{
			ID: 1, Name: "round", Category: CategoryMath, ReturnType: "Number", IsBuiltIn: true,
			Parameters: []Parameter{{Name: "number", Type: "Number", Required: true}, {Name: "ndigits", Type: "Number", Default: &def}},
			Tags:       []string{"math"},
		}},
		Patterns:     []*SyntaxPattern{{ID: 1, FunctionID: 1, LanguageID: 1, Pattern: "round({0}, {1})", Kind: KindExpression}},
		Types:        []*AbstractType{{ID: 1, Name: "Number", Color: "#3b82f6"}},
		TypeMappings: []*TypeMapping{{ID: 1, AbstractTypeID: 1, LanguageID: 1, ConcreteType: "float"}},
	}

	for _, format := range []string{FormatJSON, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteSnapshot(&buf, snap, format))
			got, err := ReadSnapshot(&buf, format)
			require.NoError(t, err)
			if diff := cmp.Diff(snap, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("%s mismatch (-want +got):\n%s", format, diff)
			}
		})
	}
}

func TestSnapshotCodecs_JSONFieldNames(t *testing.T) {
	t.Parallel()
	snap := &Snapshot{
		Patterns: []*SyntaxPattern{{Pattern: "x", Kind: KindStatement}},
		Types:    []*AbstractType{},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, snap, FormatJSON))
	for _, key := range []string{`"patternType": "statement"`, `"functionId"`, `"schemaVersion"`, `"typeMappings"`, `"exportedAt"`} {
		assert.Contains(t, buf.String(), key)
	}
}

func TestSnapshotCodecs_UnknownFormat(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteSnapshot(&buf, &Snapshot{}, "toml"), ErrInvalidArgument)
	_, err := ReadSnapshot(&buf, "toml")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFormatForPath(t *testing.T) {
	t.Parallel()
	tests := []struct {
		path string
		want string
	}{
		{"catalog.json", FormatJSON},
		{"catalog.yaml", FormatYAML},
		{"CATALOG.YML", FormatYAML},
		{"catalog", FormatJSON},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatForPath(tt.path), tt.path)
	}
}
