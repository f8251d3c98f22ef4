package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jward/syntaxcat"
)

var (
	flagCategory string
	flagSuggest  int
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List languages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *syntaxcat.Service) (any, error) {
			langs, err := svc.Languages(ctx)
			return nonNil(langs), err
		})
	},
}

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List functions, optionally filtered by category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *syntaxcat.Service) (any, error) {
			if flagCategory == "" {
				fns, err := svc.Functions(ctx)
				return nonNil(fns), err
			}
			category, ok := syntaxcat.ParseCategory(flagCategory)
			if !ok {
				return nil, fmt.Errorf("invalid category %q", flagCategory)
			}
			fns, err := svc.FunctionsByCategory(ctx, category)
			return nonNil(fns), err
		})
	},
}

func init() {
	functionsCmd.Flags().StringVar(&flagCategory, "category", "", "filter by category (math, string, array, ...)")
	searchCmd.Flags().IntVar(&flagSuggest, "suggest", 5, "suggestions to offer when nothing matches")
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search functions by name, description and tags",
	Long:  "Case-insensitive substring search. When nothing matches, the closest function names are suggested.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *syntaxcat.Service) (any, error) {
			fns, err := svc.SearchFunctions(ctx, args[0])
			if err != nil {
				return nil, err
			}
			result := CLISearch{Query: args[0], Functions: nonNil(fns)}
			if len(fns) == 0 && flagSuggest > 0 {
				suggestions, err := svc.SuggestFunctions(ctx, args[0], flagSuggest)
				if err != nil {
					return nil, err
				}
				for _, s := range suggestions {
					result.Suggestions = append(result.Suggestions, s.Function.Name)
				}
			}
			return result, nil
		})
	},
}

var patternsCmd = &cobra.Command{
	Use:   "patterns <language>",
	Short: "List the syntax patterns of a language",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *syntaxcat.Service) (any, error) {
			lang, err := lookupLanguage(ctx, svc, args[0])
			if err != nil {
				return nil, err
			}
			patterns, err := svc.PatternsByLanguage(ctx, lang.ID)
			if err != nil {
				return nil, err
			}
			out := make([]CLIPattern, 0, len(patterns))
			for _, p := range patterns {
				name := fmt.Sprintf("#%d", p.FunctionID)
				f, err := svc.Function(ctx, p.FunctionID)
				if err != nil {
					return nil, err
				}
				if f != nil {
					name = f.Name
				}
				out = append(out, CLIPattern{
					ID:       p.ID,
					Function: name,
					Pattern:  p.Pattern,
					Kind:     string(p.Kind),
					Imports:  p.Imports,
				})
			}
			return out, nil
		})
	},
}

var typesCmd = &cobra.Command{
	Use:   "types <language>",
	Short: "List the concrete types an abstract type maps to in a language",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *syntaxcat.Service) (any, error) {
			lang, err := lookupLanguage(ctx, svc, args[0])
			if err != nil {
				return nil, err
			}
			mappings, err := svc.TypeMappingsByLanguage(ctx, lang.ID)
			if err != nil {
				return nil, err
			}
			out := make([]CLITypeMapping, 0, len(mappings))
			for _, m := range mappings {
				name := fmt.Sprintf("#%d", m.AbstractTypeID)
				t, err := svc.Type(ctx, m.AbstractTypeID)
				if err != nil {
					return nil, err
				}
				if t != nil {
					name = t.Name
				}
				out = append(out, CLITypeMapping{
					ID:       m.ID,
					Type:     name,
					Concrete: m.ConcreteType,
					Imports:  m.Imports,
				})
			}
			return out, nil
		})
	},
}

func lookupLanguage(ctx context.Context, svc *syntaxcat.Service, name string) (*syntaxcat.Language, error) {
	lang, err := svc.LanguageByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if lang == nil {
		return nil, fmt.Errorf("unknown language %q", name)
	}
	return lang, nil
}

// nonNil keeps empty lists rendering as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
