package syntaxcat

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/jward/syntaxcat/fixtures"
	"github.com/jward/syntaxcat/internal/runtime"
	"github.com/jward/syntaxcat/internal/seed"
	"github.com/jward/syntaxcat/internal/store"
)

// Service is the catalog facade. Every data operation first makes sure the
// catalog has been initialized (schema created, seeded if empty); that
// initialization runs at most once at a time and is shared by concurrent
// callers.
type Service struct {
	store  *store.Store
	repos  *store.Repositories
	init   *seed.Initializer
	logger *zap.Logger

	provider   seed.Provider
	noSeed     bool
	driver     string
	fixture    string
	scriptsDir string
	scriptsFS  fs.FS

	mu          sync.Mutex
	initialized bool
	group       singleflight.Group
}

// Option configures a Service.
type Option func(*Service)

// WithProvider seeds an empty catalog from p instead of the bundled fixture.
func WithProvider(p Provider) Option {
	return func(s *Service) {
		s.provider = p
	}
}

// WithoutSeed leaves an empty catalog empty.
func WithoutSeed() Option {
	return func(s *Service) {
		s.noSeed = true
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDriver selects the SQLite driver: "sqlite3" (default) or "sqlite".
func WithDriver(name string) Option {
	return func(s *Service) {
		s.driver = name
	}
}

// WithFixture selects the fixture script by language name, e.g. "python".
func WithFixture(name string) Option {
	return func(s *Service) {
		s.fixture = name
	}
}

// WithScriptsDir loads fixture scripts and stubs from dir on disk instead of
// the embedded bundle.
func WithScriptsDir(dir string) Option {
	return func(s *Service) {
		s.scriptsDir = dir
		s.scriptsFS = nil
	}
}

// WithScriptsFS loads fixture scripts and stubs from fsys.
func WithScriptsFS(fsys fs.FS) Option {
	return func(s *Service) {
		s.scriptsFS = fsys
		s.scriptsDir = ""
	}
}

// New opens the catalog database at dbPath. Nothing is created or seeded
// until the first operation.
func New(dbPath string, opts ...Option) (*Service, error) {
	s := &Service{
		logger:    zap.NewNop(),
		fixture:   "python",
		scriptsFS: fixtures.FS,
	}
	for _, opt := range opts {
		opt(s)
	}

	st, err := store.NewStore(dbPath, store.WithDriver(s.driver))
	if err != nil {
		return nil, fmt.Errorf("syntaxcat: %w", err)
	}
	s.store = st
	s.repos = st.Repositories()

	if s.noSeed {
		s.provider = nil
	} else if s.provider == nil {
		s.provider = s.scriptProvider()
	}
	s.init = seed.NewInitializer(st, s.provider, s.logger)
	return s, nil
}

func (s *Service) scriptProvider() seed.Provider {
	rtOpts := []runtime.RuntimeOption{runtime.WithLogger(s.logger)}
	if s.scriptsFS != nil {
		rtOpts = append(rtOpts, runtime.WithRuntimeFS(s.scriptsFS))
	}
	rt := runtime.NewRuntime(s.scriptsDir, rtOpts...)
	return runtime.NewScriptProvider(rt, s.fixture, runtime.FixtureScriptPath(s.fixture))
}

// Close releases the database.
func (s *Service) Close() error {
	return s.store.Close()
}

func (s *Service) isInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

func (s *Service) setInitialized(v bool) {
	s.mu.Lock()
	s.initialized = v
	s.mu.Unlock()
}

// EnsureInitialized creates the schema and seeds an empty catalog, once.
// Concurrent callers share one in-flight initialization. A caller whose ctx
// ends stops waiting; the initialization itself carries on.
func (s *Service) EnsureInitialized(ctx context.Context) error {
	if s.isInitialized() {
		return nil
	}
	ch := s.group.DoChan("init", func() (any, error) {
		if s.isInitialized() {
			return nil, nil
		}
		if err := s.init.Initialize(context.WithoutCancel(ctx)); err != nil {
			return nil, err
		}
		s.setInitialized(true)
		return nil, nil
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InitDatabase forces initialization to run again. A catalog that already
// holds languages is left as is.
func (s *Service) InitDatabase(ctx context.Context) error {
	s.setInitialized(false)
	return s.EnsureInitialized(ctx)
}

// ClearDatabase removes every record. The next operation seeds again.
func (s *Service) ClearDatabase(ctx context.Context) error {
	if err := s.init.Clear(ctx); err != nil {
		return err
	}
	s.setInitialized(false)
	return nil
}

// ResetDatabase clears the catalog and seeds it again.
func (s *Service) ResetDatabase(ctx context.Context) error {
	s.setInitialized(false)
	if err := s.init.Reset(ctx); err != nil {
		return err
	}
	s.setInitialized(true)
	return nil
}

// call runs fn after making sure the catalog is initialized.
func call[T any](ctx context.Context, s *Service, fn func() (T, error)) (T, error) {
	if err := s.EnsureInitialized(ctx); err != nil {
		var zero T
		return zero, err
	}
	return fn()
}

func do(ctx context.Context, s *Service, fn func() error) error {
	if err := s.EnsureInitialized(ctx); err != nil {
		return err
	}
	return fn()
}
