package analyzer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jward/syntaxcat/internal/store"
)

// AnyType is the abstract type used when an annotation has no mapping.
const AnyType = "Any"

// categoryByName pins well-known built-in names to a category.
var categoryByName = map[string]store.Category{
	"abs": store.CategoryMath, "round": store.CategoryMath, "pow": store.CategoryMath,
	"divmod": store.CategoryMath, "min": store.CategoryMath, "max": store.CategoryMath,
	"sum": store.CategoryMath,

	"len": store.CategoryArray, "sorted": store.CategoryArray, "reversed": store.CategoryArray,
	"enumerate": store.CategoryArray, "zip": store.CategoryArray, "map": store.CategoryArray,
	"filter": store.CategoryArray, "range": store.CategoryArray, "all": store.CategoryArray,
	"any": store.CategoryArray, "iter": store.CategoryArray, "next": store.CategoryArray,

	"print": store.CategoryIO, "input": store.CategoryIO, "open": store.CategoryIO,

	"int": store.CategoryConversion, "float": store.CategoryConversion, "str": store.CategoryConversion,
	"bool": store.CategoryConversion, "list": store.CategoryConversion, "dict": store.CategoryConversion,
	"set": store.CategoryConversion, "tuple": store.CategoryConversion, "chr": store.CategoryConversion,
	"ord": store.CategoryConversion, "bin": store.CategoryConversion, "hex": store.CategoryConversion,
	"oct": store.CategoryConversion, "repr": store.CategoryConversion, "ascii": store.CategoryConversion,

	"getattr": store.CategoryObject, "setattr": store.CategoryObject, "hasattr": store.CategoryObject,
	"delattr": store.CategoryObject, "isinstance": store.CategoryObject, "issubclass": store.CategoryObject,
	"type": store.CategoryObject, "id": store.CategoryObject, "hash": store.CategoryObject,
	"vars": store.CategoryObject, "dir": store.CategoryObject, "callable": store.CategoryObject,

	"exit": store.CategoryControlFlow, "quit": store.CategoryControlFlow, "breakpoint": store.CategoryControlFlow,
	"exec": store.CategoryControlFlow, "eval": store.CategoryControlFlow,
}

// categoryKeywords is consulted in order when a name is not pinned.
var categoryKeywords = []struct {
	keyword  string
	category store.Category
}{
	{"time", store.CategoryDateTime},
	{"date", store.CategoryDateTime},
	{"sort", store.CategoryArray},
	{"list", store.CategoryArray},
	{"str", store.CategoryString},
	{"char", store.CategoryString},
	{"format", store.CategoryString},
	{"read", store.CategoryIO},
	{"write", store.CategoryIO},
}

// InferCategory picks a category for a function from its name and abstract
// return type. Unknown names fall back to Utility.
func InferCategory(name, returnType string) store.Category {
	lower := strings.ToLower(name)
	if c, ok := categoryByName[lower]; ok {
		return c
	}
	for _, kw := range categoryKeywords {
		if strings.Contains(lower, kw.keyword) {
			return kw.category
		}
	}
	switch returnType {
	case "Number":
		return store.CategoryMath
	case "String":
		return store.CategoryString
	case "List":
		return store.CategoryArray
	}
	return store.CategoryUtility
}

// GenerateTags derives search tags from a function's name, category and
// return type. The result has no duplicates.
func GenerateTags(f *store.Function) []string {
	var tags []string
	seen := make(map[string]bool)
	add := func(tag string) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	add(f.Name)
	for _, part := range strings.Split(f.Name, "_") {
		add(part)
	}
	add(string(f.Category))
	if f.IsBuiltIn {
		add("builtin")
	}
	if f.ReturnType != "" && f.ReturnType != AnyType && f.ReturnType != "None" {
		add(f.ReturnType)
	}
	return tags
}

// DisplayName turns snake_case into Title Case, e.g. "is_instance" → "Is Instance".
func DisplayName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '_' })
	for i, p := range parts {
		runes := []rune(p)
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

// DefaultCallPattern builds "name({0}, {1}, ...)" with one placeholder per
// parameter. Functions returning None produce statements.
func DefaultCallPattern(f *store.Function) (string, store.PatternKind) {
	placeholders := make([]string, len(f.Parameters))
	for i := range f.Parameters {
		placeholders[i] = fmt.Sprintf("{%d}", i)
	}
	pattern := f.Name + "(" + strings.Join(placeholders, ", ") + ")"
	if f.ReturnType == "" || f.ReturnType == "None" {
		return pattern, store.KindStatement
	}
	return pattern, store.KindExpression
}

// MapAnnotation resolves a source type annotation to an abstract type name
// using table. Generic arguments, unions with None and Optional[] wrappers
// are stripped before lookup. Unmapped annotations yield AnyType.
func MapAnnotation(annotation string, table map[string]string) string {
	a := strings.TrimSpace(annotation)
	if a == "" {
		return AnyType
	}
	if mapped, ok := table[a]; ok {
		return mapped
	}
	if inner, ok := strings.CutPrefix(a, "Optional["); ok {
		return MapAnnotation(strings.TrimSuffix(inner, "]"), table)
	}
	if left, _, ok := strings.Cut(a, "|"); ok {
		return MapAnnotation(left, table)
	}
	if base, _, ok := strings.Cut(a, "["); ok {
		return MapAnnotation(base, table)
	}
	if _, name, ok := strings.Cut(a, "."); ok {
		return MapAnnotation(name, table)
	}
	return AnyType
}

// ToFunction converts a stub signature into a built-in function record.
// Annotations are resolved through table.
func ToFunction(sig Signature, table map[string]string) *store.Function {
	f := &store.Function{
		Name:        sig.Name,
		DisplayName: DisplayName(sig.Name),
		Description: sig.Doc,
		ReturnType:  returnType(sig.ReturnType, table),
		IsBuiltIn:   true,
	}
	for _, p := range sig.Params {
		param := store.Parameter{
			Name:     p.Name,
			Type:     MapAnnotation(p.Annotation, table),
			Required: p.Default == nil && !p.Variadic,
			Default:  p.Default,
		}
		if p.Variadic {
			param.Description = "variadic"
		}
		f.Parameters = append(f.Parameters, param)
	}
	f.Category = InferCategory(f.Name, f.ReturnType)
	f.Tags = GenerateTags(f)
	return f
}

func returnType(annotation string, table map[string]string) string {
	if strings.TrimSpace(annotation) == "None" {
		return "None"
	}
	return MapAnnotation(annotation, table)
}
