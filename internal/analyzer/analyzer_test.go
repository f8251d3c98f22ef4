package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/syntaxcat/internal/store"
)

func ptr[T any](v T) *T { return &v }

const stubSrc = `
from typing import overload, Any

def abs(x: int, /) -> int:
    """Return the absolute value of the argument."""
    ...

@overload
def round(number: float) -> int: ...
@overload
def round(number: float, ndigits: int) -> float: ...

def print(*values: object, sep: str | None = " ", end: str = "\n") -> None:
    '''Prints the values to a stream.'''

def sorted(iterable, *, key=None, reverse: bool = False) -> list[Any]: ...

def _private(x): ...

class Thing:
    def method(self, y: int) -> int: ...

def getattr(o: object, name: str, default: Any = ..., **kwargs) -> Any: ...
`

var pythonTable = map[string]string{
	"int":    "Number",
	"float":  "Number",
	"str":    "String",
	"bool":   "Boolean",
	"list":   "List",
	"object": "Any",
	"Any":    "Any",
}

// =============================================================================
// Stub Analysis
// =============================================================================

func TestAnalyzeStub_TopLevelFunctions(t *testing.T) {
	t.Parallel()
	sigs, err := AnalyzeStub(context.Background(), "python", []byte(stubSrc))
	require.NoError(t, err)

	var names []string
	for _, s := range sigs {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"abs", "round", "print", "sorted", "getattr"}, names)
}

func TestAnalyzeStub_Parameters(t *testing.T) {
	t.Parallel()
	sigs, err := AnalyzeStub(context.Background(), "python", []byte(stubSrc))
	require.NoError(t, err)
	byName := make(map[string]Signature)
	for _, s := range sigs {
		byName[s.Name] = s
	}

	abs := byName["abs"]
	assert.Equal(t, []Param{{Name: "x", Annotation: "int"}}, abs.Params)
	assert.Equal(t, "int", abs.ReturnType)
	assert.Equal(t, "Return the absolute value of the argument.", abs.Doc)

	// First overload wins.
	assert.Equal(t, []Param{{Name: "number", Annotation: "float"}}, byName["round"].Params)

	p := byName["print"]
	require.Len(t, p.Params, 3)
	assert.Equal(t, Param{Name: "values", Annotation: "object", Variadic: true}, p.Params[0])
	assert.Equal(t, "sep", p.Params[1].Name)
	assert.Equal(t, "str | None", p.Params[1].Annotation)
	require.NotNil(t, p.Params[1].Default)
	assert.Equal(t, `" "`, *p.Params[1].Default)
	assert.Equal(t, "None", p.ReturnType)
	assert.Equal(t, "Prints the values to a stream.", p.Doc)

	s := byName["sorted"]
	assert.Equal(t, []Param{
		{Name: "iterable"},
		{Name: "key", Default: ptr("None")},
		{Name: "reverse", Annotation: "bool", Default: ptr("False")},
	}, s.Params)

	g := byName["getattr"]
	require.Len(t, g.Params, 4)
	assert.Equal(t, Param{Name: "kwargs", Variadic: true}, g.Params[3])
}

func TestAnalyzeStub_UnsupportedLanguage(t *testing.T) {
	t.Parallel()
	_, err := AnalyzeStub(context.Background(), "cobol", []byte("x"))
	require.Error(t, err)
}

func TestLanguageForFile(t *testing.T) {
	t.Parallel()
	lang, ok := LanguageForFile("fixtures/python/builtins.pyi")
	assert.True(t, ok)
	assert.Equal(t, "python", lang)

	_, ok = LanguageForFile("notes.txt")
	assert.False(t, ok)
}

// =============================================================================
// Heuristics
// =============================================================================

func TestMapAnnotation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want string
	}{
		{"int", "Number"},
		{"", "Any"},
		{"str | None", "String"},
		{"Optional[str]", "String"},
		{"list[int]", "List"},
		{"typing.Any", "Any"},
		{"Iterable[int]", "Any"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapAnnotation(tt.in, pythonTable), "annotation %q", tt.in)
	}
}

func TestInferCategory(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name, ret string
		want      store.Category
	}{
		{"abs", "Number", store.CategoryMath},
		{"print", "None", store.CategoryIO},
		{"isinstance", "Boolean", store.CategoryObject},
		{"strftime", "String", store.CategoryDateTime},
		{"capitalize_chars", "String", store.CategoryString},
		{"hypot", "Number", store.CategoryMath},
		{"frobnicate", "Any", store.CategoryUtility},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InferCategory(tt.name, tt.ret), tt.name)
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Is Instance", DisplayName("is_instance"))
	assert.Equal(t, "Len", DisplayName("len"))
	assert.Equal(t, "Private Name", DisplayName("__private_name"))
}

func TestToFunction(t *testing.T) {
	t.Parallel()
	sig := Signature{
		Name:       "get_value",
		Params:     []Param{{Name: "key", Annotation: "str"}, {Name: "default", Default: ptr("None")}, {Name: "rest", Variadic: true}},
		ReturnType: "int",
		Doc:        "Fetch a value.",
	}
	f := ToFunction(sig, pythonTable)

	assert.Equal(t, &store.Function{
		Name:        "get_value",
		DisplayName: "Get Value",
		Description: "Fetch a value.",
		Category:    store.CategoryMath,
		Parameters: []store.Parameter{
			{Name: "key", Type: "String", Required: true},
			{Name: "default", Type: "Any", Default: ptr("None")},
			{Name: "rest", Type: "Any", Description: "variadic"},
		},
		ReturnType: "Number",
		IsBuiltIn:  true,
		Tags:       []string{"get_value", "get", "value", "math", "builtin", "number"},
	}, f)
}

func TestDefaultCallPattern(t *testing.T) {
	t.Parallel()
	pattern, kind := DefaultCallPattern(&store.Function{
		Name:       "max",
		Parameters: []store.Parameter{{Name: "a"}, {Name: "b"}},
		ReturnType: "Number",
	})
	assert.Equal(t, "max({0}, {1})", pattern)
	assert.Equal(t, store.KindExpression, kind)

	pattern, kind = DefaultCallPattern(&store.Function{Name: "breakpoint", ReturnType: "None"})
	assert.Equal(t, "breakpoint()", pattern)
	assert.Equal(t, store.KindStatement, kind)
}

func TestGenerateTags_Dedupes(t *testing.T) {
	t.Parallel()
	tags := GenerateTags(&store.Function{Name: "math", Category: store.CategoryMath, ReturnType: "Any"})
	assert.Equal(t, []string{"math"}, tags)
}
