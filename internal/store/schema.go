package store

// SchemaVersion is the version Migrate brings a database file up to.
const SchemaVersion = 1

// Partition describes one entity table.
type Partition struct {
	Name  string
	Table string
}

// Partitions is the closed list of catalog partitions, in seeding order.
var Partitions = []Partition{
	{Name: "languages", Table: "languages"},
	{Name: "types", Table: "abstract_types"},
	{Name: "typeMappings", Table: "type_mappings"},
	{Name: "functions", Table: "functions"},
	{Name: "syntaxPatterns", Table: "syntax_patterns"},
}

const (
	partLanguages    = "languages"
	partTypes        = "types"
	partTypeMappings = "typeMappings"
	partFunctions    = "functions"
	partPatterns     = "syntaxPatterns"
)

// migrations[i] upgrades a database from version i to i+1. Every step is
// additive so older partitions and indexes are never dropped.
var migrations = []string{
	schemaV1,
}

const schemaV1 = `
CREATE TABLE IF NOT EXISTS languages (
  id              INTEGER PRIMARY KEY AUTOINCREMENT,
  name            TEXT NOT NULL,
  version         TEXT NOT NULL DEFAULT '',
  description     TEXT NOT NULL DEFAULT '',
  website         TEXT NOT NULL DEFAULT '',
  syntax          TEXT NOT NULL DEFAULT '{}',
  enabled         BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS abstract_types (
  id              INTEGER PRIMARY KEY AUTOINCREMENT,
  name            TEXT NOT NULL,
  description     TEXT NOT NULL DEFAULT '',
  color           TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS type_mappings (
  id               INTEGER PRIMARY KEY AUTOINCREMENT,
  abstract_type_id INTEGER NOT NULL,
  language_id      INTEGER NOT NULL,
  concrete_type    TEXT NOT NULL,
  imports          TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS functions (
  id              INTEGER PRIMARY KEY AUTOINCREMENT,
  name            TEXT NOT NULL,
  display_name    TEXT NOT NULL DEFAULT '',
  description     TEXT NOT NULL DEFAULT '',
  category        TEXT NOT NULL,
  parameters      TEXT NOT NULL DEFAULT '[]',
  return_type     TEXT NOT NULL DEFAULT '',
  is_builtin      BOOLEAN NOT NULL DEFAULT FALSE,
  tags            TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS syntax_patterns (
  id              INTEGER PRIMARY KEY AUTOINCREMENT,
  function_id     INTEGER NOT NULL,
  language_id     INTEGER NOT NULL,
  pattern         TEXT NOT NULL,
  kind            TEXT NOT NULL,
  imports         TEXT NOT NULL DEFAULT '[]'
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_languages_name ON languages(name);
CREATE UNIQUE INDEX IF NOT EXISTS idx_abstract_types_name ON abstract_types(name);
CREATE UNIQUE INDEX IF NOT EXISTS idx_type_mappings_type_lang ON type_mappings(abstract_type_id, language_id);
CREATE INDEX IF NOT EXISTS idx_type_mappings_lang ON type_mappings(language_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_functions_name ON functions(name);
CREATE INDEX IF NOT EXISTS idx_functions_category ON functions(category);
CREATE INDEX IF NOT EXISTS idx_functions_builtin ON functions(is_builtin);
CREATE UNIQUE INDEX IF NOT EXISTS idx_syntax_patterns_func_lang ON syntax_patterns(function_id, language_id);
CREATE INDEX IF NOT EXISTS idx_syntax_patterns_lang ON syntax_patterns(language_id);
`
