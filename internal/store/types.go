package store

import "strings"

// Catalog domain types. JSON and YAML tags define the export document shape.

// IndentStyle is the whitespace used for one indentation level.
type IndentStyle string

const (
	IndentSpaces IndentStyle = "spaces"
	IndentTabs   IndentStyle = "tabs"
)

// SyntaxRules bundles the lexical conventions of a language.
type SyntaxRules struct {
	LineComment         string            `json:"lineComment" yaml:"lineComment"`
	BlockCommentStart   string            `json:"blockCommentStart,omitempty" yaml:"blockCommentStart,omitempty"`
	BlockCommentEnd     string            `json:"blockCommentEnd,omitempty" yaml:"blockCommentEnd,omitempty"`
	StatementTerminator string            `json:"statementTerminator" yaml:"statementTerminator"`
	IndentStyle         IndentStyle       `json:"indentStyle" yaml:"indentStyle"`
	IndentSize          int               `json:"indentSize" yaml:"indentSize"`
	FunctionTemplate    string            `json:"functionTemplate" yaml:"functionTemplate"`
	VariableTemplate    string            `json:"variableTemplate" yaml:"variableTemplate"`
	Operators           map[string]string `json:"operators,omitempty" yaml:"operators,omitempty"`
}

type Language struct {
	ID          int64       `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Version     string      `json:"version" yaml:"version"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Website     string      `json:"website,omitempty" yaml:"website,omitempty"`
	Syntax      SyntaxRules `json:"syntax" yaml:"syntax"`
	Enabled     bool        `json:"enabled" yaml:"enabled"`
}

// AbstractType is a category in the abstract type system, e.g. "Number".
type AbstractType struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Color       string `json:"color" yaml:"color"`
}

// Category is the closed set of function categories.
type Category string

const (
	CategoryMath        Category = "Math"
	CategoryString      Category = "String"
	CategoryArray       Category = "Array"
	CategoryObject      Category = "Object"
	CategoryControlFlow Category = "Control Flow"
	CategoryIO          Category = "I/O"
	CategoryConversion  Category = "Conversion"
	CategoryDateTime    Category = "Date & Time"
	CategoryUtility     Category = "Utility"
	CategoryCustom      Category = "Custom"
)

// Categories lists every valid Category in display order.
var Categories = []Category{
	CategoryMath, CategoryString, CategoryArray, CategoryObject, CategoryControlFlow,
	CategoryIO, CategoryConversion, CategoryDateTime, CategoryUtility, CategoryCustom,
}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory matches s against Categories ignoring case.
func ParseCategory(s string) (Category, bool) {
	for _, known := range Categories {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}

type Parameter struct {
	Name        string  `json:"name" yaml:"name"`
	Type        string  `json:"type" yaml:"type"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool    `json:"required" yaml:"required"`
	Default     *string `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
}

type Function struct {
	ID          int64       `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	DisplayName string      `json:"displayName" yaml:"displayName"`
	Description string      `json:"description" yaml:"description"`
	Category    Category    `json:"category" yaml:"category"`
	Parameters  []Parameter `json:"parameters" yaml:"parameters"`
	ReturnType  string      `json:"returnType" yaml:"returnType"`
	IsBuiltIn   bool        `json:"isBuiltIn" yaml:"isBuiltIn"`
	Tags        []string    `json:"tags" yaml:"tags"`
}

// PatternKind classifies what a code-generation template produces.
type PatternKind string

const (
	// KindExpression yields a value inline.
	KindExpression PatternKind = "expression"
	// KindStatement is a full line with side effects.
	KindStatement PatternKind = "statement"
	// KindBlock is a multi-line construct.
	KindBlock PatternKind = "block"
)

// SyntaxPattern is the template for calling one function in one language.
// Placeholders {0}, {1}, ... are replaced with argument expressions.
type SyntaxPattern struct {
	ID         int64       `json:"id" yaml:"id"`
	FunctionID int64       `json:"functionId" yaml:"functionId"`
	LanguageID int64       `json:"languageId" yaml:"languageId"`
	Pattern    string      `json:"pattern" yaml:"pattern"`
	Kind       PatternKind `json:"patternType" yaml:"patternType"`
	Imports    []string    `json:"imports,omitempty" yaml:"imports,omitempty"`
}

type TypeMapping struct {
	ID             int64    `json:"id" yaml:"id"`
	AbstractTypeID int64    `json:"abstractTypeId" yaml:"abstractTypeId"`
	LanguageID     int64    `json:"languageId" yaml:"languageId"`
	ConcreteType   string   `json:"concreteType" yaml:"concreteType"`
	Imports        []string `json:"imports,omitempty" yaml:"imports,omitempty"`
}
