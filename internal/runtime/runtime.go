package runtime

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/importer"
	"github.com/risor-io/risor/object"
	"go.uber.org/zap"
)

// Runtime embeds a Risor VM for fixture scripts. Scripts and the stub files
// they reference are read from an fs.FS or from a directory on disk.
type Runtime struct {
	scriptsDir string
	fsys       fs.FS
	logger     *zap.Logger
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithRuntimeFS reads fixture scripts and stub files from fsys, usually the
// embedded fixtures bundle. Modules a fixture imports resolve against fsys as
// well, so a bundle is self-contained.
func WithRuntimeFS(fsys fs.FS) RuntimeOption {
	return func(r *Runtime) {
		r.fsys = fsys
	}
}

// WithLogger routes the script-visible log object to logger.
func WithLogger(logger *zap.Logger) RuntimeOption {
	return func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRuntime creates a Runtime rooted at scriptsDir.
func NewRuntime(scriptsDir string, opts ...RuntimeOption) *Runtime {
	r := &Runtime{
		scriptsDir: scriptsDir,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunScript evaluates the fixture script at scriptPath. extra is merged over
// the built-in globals, so a caller can shadow log.
func (r *Runtime) RunScript(ctx context.Context, scriptPath string, extra map[string]any) error {
	src, err := r.LoadScript(scriptPath)
	if err != nil {
		return err
	}
	return r.exec(ctx, scriptPath, src, extra)
}

// RunSource evaluates src as if it were a fixture file named "<inline>".
func (r *Runtime) RunSource(ctx context.Context, src string, extra map[string]any) error {
	return r.exec(ctx, "<inline>", src, extra)
}

func (r *Runtime) exec(ctx context.Context, label, src string, extra map[string]any) error {
	globals := r.buildGlobals(extra)
	names := make([]string, 0, len(globals))
	opts := make([]risor.Option, 0, len(globals)+1)
	for name, val := range globals {
		names = append(names, name)
		opts = append(opts, risor.WithGlobal(name, val))
	}
	if imp := r.moduleImporter(names); imp != nil {
		opts = append(opts, risor.WithImporter(imp))
	}

	start := time.Now()
	if _, err := risor.Eval(ctx, src, opts...); err != nil {
		return fmt.Errorf("runtime: fixture %s: %w", label, err)
	}
	r.logger.Debug("fixture evaluated", zap.String("script", label), zap.Duration("elapsed", time.Since(start)))
	return nil
}

// moduleImporter resolves `import` statements in fixtures against the same
// source the scripts come from. Inline sources with no scriptsDir and no
// fs.FS cannot import.
func (r *Runtime) moduleImporter(globalNames []string) importer.Importer {
	switch {
	case r.fsys != nil:
		return importer.NewFSImporter(importer.FSImporterOptions{
			GlobalNames: globalNames,
			SourceFS:    r.fsys,
			Extensions:  []string{".risor"},
		})
	case r.scriptsDir != "":
		return importer.NewLocalImporter(importer.LocalImporterOptions{
			GlobalNames: globalNames,
			SourceDir:   r.scriptsDir,
			Extensions:  []string{".risor"},
		})
	default:
		return nil
	}
}

// LoadScript reads a .risor file and returns its source code.
func (r *Runtime) LoadScript(path string) (string, error) {
	data, err := r.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadFile reads a file relative to the Runtime's script source. When an
// fs.FS is configured it is used exclusively; otherwise relative paths are
// resolved against scriptsDir.
func (r *Runtime) ReadFile(path string) ([]byte, error) {
	if r.fsys != nil {
		// fs.FS paths are unrooted, e.g. "/python.risor" -> "python.risor".
		fsPath := strings.TrimPrefix(filepath.ToSlash(path), "/")
		data, err := fs.ReadFile(r.fsys, fsPath)
		if err != nil {
			return nil, fmt.Errorf("runtime: loading %s from fs: %w", fsPath, err)
		}
		return data, nil
	}

	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(r.scriptsDir, path)
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("runtime: loading %s: %w", fullPath, err)
	}
	return data, nil
}

// FixtureScriptPath returns the path to a language's fixture script.
func FixtureScriptPath(language string) string {
	return strings.ToLower(language) + ".risor"
}

// buildGlobals constructs the full set of globals exposed to Risor scripts.
func (r *Runtime) buildGlobals(extra map[string]any) map[string]any {
	globals := map[string]any{
		"log": mustProxy(&logObject{logger: r.logger.Named("script")}),
	}
	for k, v := range extra {
		globals[k] = v
	}
	return globals
}

func mustProxy(v any) object.Object {
	p, err := object.NewProxy(v)
	if err != nil {
		panic(fmt.Sprintf("runtime: proxy error: %v", err))
	}
	return p
}
