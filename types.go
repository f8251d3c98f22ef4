package syntaxcat

import (
	"github.com/jward/syntaxcat/internal/seed"
	"github.com/jward/syntaxcat/internal/store"
)

// Public type aliases for internal types used in the Service API. These are
// Go type aliases (=), identical to the internal types at compile time.

type Language = store.Language
type SyntaxRules = store.SyntaxRules
type IndentStyle = store.IndentStyle
type AbstractType = store.AbstractType
type Function = store.Function
type Parameter = store.Parameter
type Category = store.Category
type SyntaxPattern = store.SyntaxPattern
type PatternKind = store.PatternKind
type TypeMapping = store.TypeMapping
type OpError = store.OpError

// Provider supplies seed records for one language. See WithProvider.
type Provider = seed.Provider

const (
	CategoryMath        = store.CategoryMath
	CategoryString      = store.CategoryString
	CategoryArray       = store.CategoryArray
	CategoryObject      = store.CategoryObject
	CategoryControlFlow = store.CategoryControlFlow
	CategoryIO          = store.CategoryIO
	CategoryConversion  = store.CategoryConversion
	CategoryDateTime    = store.CategoryDateTime
	CategoryUtility     = store.CategoryUtility
	CategoryCustom      = store.CategoryCustom

	KindExpression = store.KindExpression
	KindStatement  = store.KindStatement
	KindBlock      = store.KindBlock

	IndentSpaces = store.IndentSpaces
	IndentTabs   = store.IndentTabs
)

// Errors callers classify with errors.Is.
var (
	ErrStoreOpen       = store.ErrStoreOpen
	ErrDuplicateKey    = store.ErrDuplicateKey
	ErrInvalidArgument = store.ErrInvalidArgument
)

// ParseCategory matches s against the category names ignoring case.
func ParseCategory(s string) (Category, bool) {
	return store.ParseCategory(s)
}
