package analyzer

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Param is one parameter of a stub signature.
type Param struct {
	Name       string
	Annotation string
	Default    *string
	Variadic   bool
}

// Signature is a top-level function declaration found in a stub file.
type Signature struct {
	Name       string
	Params     []Param
	ReturnType string
	Doc        string
}

// AnalyzeStub parses src as lang and returns its public top-level function
// signatures in source order. Overloads collapse to the first declaration.
func AnalyzeStub(ctx context.Context, lang string, src []byte) ([]Signature, error) {
	grammar, ok := GrammarFor(lang)
	if !ok {
		return nil, fmt.Errorf("analyze stub: unsupported language %q", lang)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("analyze stub: parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	seen := make(map[string]bool)
	var sigs []Signature
	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		if node.Type() == "decorated_definition" {
			node = node.ChildByFieldName("definition")
		}
		if node == nil || node.Type() != "function_definition" {
			continue
		}
		sig := readSignature(node, src)
		if sig.Name == "" || strings.HasPrefix(sig.Name, "_") || seen[sig.Name] {
			continue
		}
		seen[sig.Name] = true
		sigs = append(sigs, sig)
	}
	return sigs, nil
}

func readSignature(fn *sitter.Node, src []byte) Signature {
	sig := Signature{}
	if name := fn.ChildByFieldName("name"); name != nil {
		sig.Name = name.Content(src)
	}
	if ret := fn.ChildByFieldName("return_type"); ret != nil {
		sig.ReturnType = ret.Content(src)
	}
	if params := fn.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			if p, ok := readParam(params.NamedChild(i), src); ok {
				sig.Params = append(sig.Params, p)
			}
		}
	}
	if body := fn.ChildByFieldName("body"); body != nil {
		sig.Doc = docstring(body, src)
	}
	return sig
}

// readParam converts one child of a parameters node. Separators and self
// report false.
func readParam(node *sitter.Node, src []byte) (Param, bool) {
	var p Param
	switch node.Type() {
	case "identifier":
		p.Name = node.Content(src)
	case "typed_parameter":
		if node.NamedChildCount() > 0 {
			inner := node.NamedChild(0)
			p.Name, p.Variadic = splatName(inner, src)
		}
		if t := node.ChildByFieldName("type"); t != nil {
			p.Annotation = t.Content(src)
		}
	case "default_parameter", "typed_default_parameter":
		if n := node.ChildByFieldName("name"); n != nil {
			p.Name = n.Content(src)
		}
		if t := node.ChildByFieldName("type"); t != nil {
			p.Annotation = t.Content(src)
		}
		if v := node.ChildByFieldName("value"); v != nil {
			def := v.Content(src)
			p.Default = &def
		}
	case "list_splat_pattern", "dictionary_splat_pattern":
		p.Name, p.Variadic = splatName(node, src)
	default:
		return Param{}, false
	}
	if p.Name == "" || p.Name == "self" || p.Name == "cls" {
		return Param{}, false
	}
	return p, true
}

func splatName(node *sitter.Node, src []byte) (string, bool) {
	switch node.Type() {
	case "list_splat_pattern", "dictionary_splat_pattern":
		if node.NamedChildCount() > 0 {
			return node.NamedChild(0).Content(src), true
		}
		return strings.TrimLeft(node.Content(src), "*"), true
	}
	return node.Content(src), false
}

// docstring returns the leading string literal of a function body, unquoted.
func docstring(body *sitter.Node, src []byte) string {
	if body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Type() != "string" {
		return ""
	}
	return unquote(str.Content(src))
}

func unquote(s string) string {
	s = strings.TrimLeft(s, "rRbBuU")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(s) >= 2*len(q) && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			s = s[len(q) : len(s)-len(q)]
			break
		}
	}
	return strings.TrimSpace(s)
}
