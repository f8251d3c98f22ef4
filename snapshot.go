package syntaxcat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jward/syntaxcat/internal/store"
)

// Snapshot is a full copy of the catalog with the ids the records had when it
// was exported.
type Snapshot struct {
	ID            string           `json:"id" yaml:"id"`
	ExportedAt    time.Time        `json:"exportedAt" yaml:"exportedAt"`
	SchemaVersion int              `json:"schemaVersion" yaml:"schemaVersion"`
	Languages     []*Language      `json:"languages" yaml:"languages"`
	Functions     []*Function      `json:"functions" yaml:"functions"`
	Patterns      []*SyntaxPattern `json:"patterns" yaml:"patterns"`
	Types         []*AbstractType  `json:"types" yaml:"types"`
	TypeMappings  []*TypeMapping   `json:"typeMappings" yaml:"typeMappings"`
}

// Snapshot encodings.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ExportDatabase reads every record in one transaction.
func (s *Service) ExportDatabase(ctx context.Context) (*Snapshot, error) {
	if err := s.EnsureInitialized(ctx); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		ID:            uuid.NewString(),
		ExportedAt:    time.Now().UTC(),
		SchemaVersion: store.SchemaVersion,
	}
	err := s.store.InTx(ctx, func(repos *store.Repositories) error {
		var err error
		if snap.Languages, err = repos.Languages.GetAll(ctx); err != nil {
			return err
		}
		if snap.Functions, err = repos.Functions.GetAll(ctx); err != nil {
			return err
		}
		if snap.Patterns, err = repos.Patterns.GetAll(ctx); err != nil {
			return err
		}
		if snap.Types, err = repos.Types.GetAll(ctx); err != nil {
			return err
		}
		snap.TypeMappings, err = repos.TypeMappings.GetAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	snap.normalize()
	return snap, nil
}

// normalize replaces nil arrays with empty ones so encoders emit [].
func (snap *Snapshot) normalize() {
	if snap.Languages == nil {
		snap.Languages = []*Language{}
	}
	if snap.Functions == nil {
		snap.Functions = []*Function{}
	}
	if snap.Patterns == nil {
		snap.Patterns = []*SyntaxPattern{}
	}
	if snap.Types == nil {
		snap.Types = []*AbstractType{}
	}
	if snap.TypeMappings == nil {
		snap.TypeMappings = []*TypeMapping{}
	}
}

// validate rejects null entries, which decoders produce for `null` or `~`
// list items.
func (snap *Snapshot) validate() error {
	for partition, i := range map[string]int{
		"languages":    firstNil(snap.Languages),
		"types":        firstNil(snap.Types),
		"functions":    firstNil(snap.Functions),
		"patterns":     firstNil(snap.Patterns),
		"typeMappings": firstNil(snap.TypeMappings),
	} {
		if i >= 0 {
			return fmt.Errorf("syntaxcat: import: %w: %s[%d] is null", ErrInvalidArgument, partition, i)
		}
	}
	return nil
}

// firstNil returns the index of the first nil item, or -1.
func firstNil[T any](items []*T) int {
	for i, item := range items {
		if item == nil {
			return i
		}
	}
	return -1
}

// ImportOption configures ImportDatabase.
type ImportOption func(*importConfig)

type importConfig struct {
	remap bool
}

// RemapForeignKeys rewrites FunctionID, LanguageID and AbstractTypeID of
// imported patterns and mappings to the ids their referents receive on import.
// References to records missing from the snapshot are kept unchanged.
func RemapForeignKeys() ImportOption {
	return func(c *importConfig) {
		c.remap = true
	}
}

// idMap records old id → new id for one partition.
type idMap map[int64]int64

func (m idMap) resolve(old int64) int64 {
	if id, ok := m[old]; ok {
		return id
	}
	return old
}

// ImportDatabase replaces the whole catalog with snap. Every record gets a
// fresh id. Without RemapForeignKeys the foreign keys of patterns and type
// mappings are written exactly as they appear in snap. The clear and every
// insert happen in one transaction; on failure the catalog is unchanged.
// The imported catalog counts as initialized and is not seeded. A snapshot
// with null entries is rejected with ErrInvalidArgument before anything is
// written.
func (s *Service) ImportDatabase(ctx context.Context, snap *Snapshot, opts ...ImportOption) error {
	if snap == nil {
		return fmt.Errorf("syntaxcat: import: %w: nil snapshot", ErrInvalidArgument)
	}
	if err := snap.validate(); err != nil {
		return err
	}
	var cfg importConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := s.store.Migrate(ctx); err != nil {
		return err
	}

	langIDs, typeIDs, funcIDs := idMap{}, idMap{}, idMap{}
	err := s.store.InTx(ctx, func(repos *store.Repositories) error {
		if err := repos.Clear(ctx); err != nil {
			return err
		}
		for _, l := range snap.Languages {
			c := *l
			id, err := repos.Languages.Create(ctx, &c)
			if err != nil {
				return err
			}
			langIDs[l.ID] = id
		}
		for _, t := range snap.Types {
			c := *t
			id, err := repos.Types.Create(ctx, &c)
			if err != nil {
				return err
			}
			typeIDs[t.ID] = id
		}
		for _, f := range snap.Functions {
			c := *f
			id, err := repos.Functions.Create(ctx, &c)
			if err != nil {
				return err
			}
			funcIDs[f.ID] = id
		}
		for _, p := range snap.Patterns {
			c := *p
			if cfg.remap {
				c.FunctionID = funcIDs.resolve(p.FunctionID)
				c.LanguageID = langIDs.resolve(p.LanguageID)
			}
			if _, err := repos.Patterns.Create(ctx, &c); err != nil {
				return err
			}
		}
		for _, m := range snap.TypeMappings {
			c := *m
			if cfg.remap {
				c.AbstractTypeID = typeIDs.resolve(m.AbstractTypeID)
				c.LanguageID = langIDs.resolve(m.LanguageID)
			}
			if _, err := repos.TypeMappings.Create(ctx, &c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("import failed", zap.Error(err))
		return err
	}

	s.setInitialized(true)
	s.logger.Info("catalog imported",
		zap.String("snapshot", snap.ID),
		zap.Int("languages", len(snap.Languages)),
		zap.Int("functions", len(snap.Functions)),
		zap.Int("patterns", len(snap.Patterns)),
		zap.Int("types", len(snap.Types)),
		zap.Int("typeMappings", len(snap.TypeMappings)),
		zap.Bool("remap", cfg.remap),
	)
	return nil
}

// FormatForPath picks a snapshot encoding from a file extension. Anything
// other than .yaml or .yml is JSON.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// WriteSnapshot encodes snap to w as JSON or YAML.
func WriteSnapshot(w io.Writer, snap *Snapshot, format string) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encode snapshot json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encode snapshot yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode snapshot yaml: %w", err)
		}
	default:
		return fmt.Errorf("syntaxcat: %w: unknown snapshot format %q", ErrInvalidArgument, format)
	}
	return nil
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader, format string) (*Snapshot, error) {
	var snap Snapshot
	switch format {
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&snap); err != nil {
			return nil, fmt.Errorf("parse snapshot json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&snap); err != nil {
			return nil, fmt.Errorf("parse snapshot yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("syntaxcat: %w: unknown snapshot format %q", ErrInvalidArgument, format)
	}
	snap.normalize()
	return &snap, nil
}
