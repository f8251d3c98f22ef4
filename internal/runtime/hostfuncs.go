package runtime

import (
	"context"

	"github.com/risor-io/risor/object"
	"go.uber.org/zap"

	"github.com/jward/syntaxcat/internal/analyzer"
)

// makeStubFunctionsFn creates the "stub_functions" host function.
//
// stub_functions(path, annotations) → int
//
// Reads a stub file through the Runtime, extracts its top-level function
// signatures with tree-sitter, and declares each as a built-in. annotations
// maps source type annotations to abstract type names. Functions already
// declared with builtin() are left alone. Returns the number added.
func makeStubFunctionsFn(r *Runtime, d *declarations) *object.Builtin {
	return object.NewBuiltin("stub_functions", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("stub_functions", 2, len(args))
		}
		path, err := toString(args[0])
		if err != nil {
			return object.Errorf("stub_functions: path: %v", err)
		}
		annotations, err := extractMap(args[1])
		if err != nil {
			return object.Errorf("stub_functions: annotations: %v", err)
		}
		table := make(map[string]string, len(annotations))
		for k, v := range annotations {
			if s, err := toString(v); err == nil {
				table[k] = s
			}
		}

		lang, ok := analyzer.LanguageForFile(path)
		if !ok {
			return object.Errorf("stub_functions: no grammar for %s", path)
		}
		src, err := r.ReadFile(path)
		if err != nil {
			return object.Errorf("stub_functions: %v", err)
		}
		sigs, err := analyzer.AnalyzeStub(ctx, lang, src)
		if err != nil {
			return object.Errorf("stub_functions: %v", err)
		}

		added := 0
		for _, sig := range sigs {
			if d.addFunction(analyzer.ToFunction(sig, table), false) {
				added++
			}
		}
		r.logger.Debug("stub analyzed",
			zap.String("path", path),
			zap.Int("signatures", len(sigs)),
			zap.Int("added", added),
		)
		return object.NewInt(int64(added))
	})
}

// logObject provides log.Info/Warn/Error methods for Risor scripts.
type logObject struct {
	logger *zap.Logger
}

func (l *logObject) Info(msg string) {
	l.logger.Info(msg)
}

func (l *logObject) Warn(msg string) {
	l.logger.Warn(msg)
}

func (l *logObject) Error(msg string) {
	l.logger.Error(msg)
}
