package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jward/syntaxcat"
)

// cliEnv is a database path and a quiet config file in a temp dir.
type cliEnv struct {
	db     string
	config string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "syntaxcat.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("logging:\n  level: error\n"), 0o644))
	return cliEnv{db: filepath.Join(dir, "catalog.db"), config: cfg}
}

// run executes the root command in-process. Flags are package globals, so
// these tests do not run in parallel.
func (e cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flagDB, flagConfig, flagFormat = "", "", "json"
	flagCategory, flagSuggest, flagRemap = "", 5, false
	errorHandled = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--db", e.db, "--config", e.config}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

// runJSON executes a command and decodes its CLIResult envelope.
func (e cliEnv) runJSON(t *testing.T, args ...string) (map[string]any, error) {
	t.Helper()
	out, err := e.run(t, args...)
	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result), "invalid JSON output: %s", out)
	return result, err
}

func resultList(t *testing.T, result map[string]any) []any {
	t.Helper()
	list, ok := result["results"].([]any)
	require.True(t, ok, "results should be a list, got %T", result["results"])
	return list
}

func names(items []any, key string) []string {
	var out []string
	for _, item := range items {
		out = append(out, item.(map[string]any)[key].(string))
	}
	return out
}

func TestValidateFormat(t *testing.T) {
	t.Parallel()
	for _, f := range []string{"json", "yaml", "text"} {
		assert.NoError(t, validateFormat(f))
	}
	assert.ErrorContains(t, validateFormat("xml"), `invalid format "xml"`)
}

func TestSignature(t *testing.T) {
	t.Parallel()
	f := &syntaxcat.Function{
		Parameters: []syntaxcat.Parameter{
			{Name: "number", Type: "Number", Required: true},
			{Name: "ndigits", Type: "Number"},
		},
		ReturnType: "Number",
	}
	assert.Equal(t, "(number: Number, ndigits?: Number) -> Number", signature(f))
	assert.Equal(t, "()", signature(&syntaxcat.Function{}))
}

func TestCLI_Languages(t *testing.T) {
	env := newCLIEnv(t)

	result, err := env.runJSON(t, "languages")
	require.NoError(t, err)
	assert.Equal(t, "languages", result["command"])
	assert.Equal(t, []string{"Python"}, names(resultList(t, result), "name"))
	assert.FileExists(t, env.db)
}

func TestCLI_LanguagesText(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "languages", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Python")
}

func TestCLI_FunctionsByCategory(t *testing.T) {
	env := newCLIEnv(t)

	result, err := env.runJSON(t, "functions", "--category", "math")
	require.NoError(t, err)
	list := resultList(t, result)
	assert.Contains(t, names(list, "name"), "abs")
	for _, item := range list {
		assert.Equal(t, "Math", item.(map[string]any)["category"])
	}
}

func TestCLI_FunctionsInvalidCategory(t *testing.T) {
	env := newCLIEnv(t)

	result, err := env.runJSON(t, "functions", "--category", "astrology")
	require.Error(t, err)
	assert.True(t, errorHandled)
	assert.Contains(t, result["error"], `invalid category "astrology"`)
}

func TestCLI_SearchSuggests(t *testing.T) {
	env := newCLIEnv(t)

	result, err := env.runJSON(t, "search", "sortd")
	require.NoError(t, err)
	search := result["results"].(map[string]any)
	assert.Empty(t, search["functions"])
	assert.Contains(t, search["suggestions"], "sorted")

	result, err = env.runJSON(t, "search", "upper")
	require.NoError(t, err)
	search = result["results"].(map[string]any)
	assert.Contains(t, names(search["functions"].([]any), "name"), "upper")
}

func TestCLI_Patterns(t *testing.T) {
	env := newCLIEnv(t)

	result, err := env.runJSON(t, "patterns", "Python")
	require.NoError(t, err)
	var sqrt map[string]any
	for _, item := range resultList(t, result) {
		if p := item.(map[string]any); p["function"] == "sqrt" {
			sqrt = p
		}
	}
	require.NotNil(t, sqrt)
	assert.Equal(t, "math.sqrt({0})", sqrt["pattern"])
	assert.Equal(t, []any{"import math"}, sqrt["imports"])
}

func TestCLI_PatternsUnknownLanguage(t *testing.T) {
	env := newCLIEnv(t)

	result, err := env.runJSON(t, "patterns", "Cobol")
	require.Error(t, err)
	assert.Contains(t, result["error"], `unknown language "Cobol"`)
}

func TestCLI_Types(t *testing.T) {
	env := newCLIEnv(t)

	result, err := env.runJSON(t, "types", "Python")
	require.NoError(t, err)
	concrete := make(map[string]string)
	for _, item := range resultList(t, result) {
		m := item.(map[string]any)
		concrete[m["type"].(string)] = m["concrete"].(string)
	}
	assert.Equal(t, "float", concrete["Number"])
	assert.Equal(t, "Callable", concrete["Function"])
}

func TestCLI_ExportStdoutYAML(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "export", "--format", "yaml")
	require.NoError(t, err)
	var snap syntaxcat.Snapshot
	require.NoError(t, yaml.Unmarshal([]byte(out), &snap))
	require.Len(t, snap.Languages, 1)
	assert.Equal(t, "Python", snap.Languages[0].Name)
	assert.NotEmpty(t, snap.Functions)
}

func TestCLI_ExportImportRemap(t *testing.T) {
	env := newCLIEnv(t)
	file := filepath.Join(t.TempDir(), "catalog.json")

	result, err := env.runJSON(t, "export", file)
	require.NoError(t, err)
	exported := result["results"].(map[string]any)
	assert.Equal(t, file, exported["path"])
	require.FileExists(t, file)

	result, err = env.runJSON(t, "import", file, "--remap")
	require.NoError(t, err)
	imported := result["results"].(map[string]any)
	assert.Equal(t, exported["stats"], imported["stats"])

	result, err = env.runJSON(t, "patterns", "Python")
	require.NoError(t, err)
	assert.Contains(t, names(resultList(t, result), "function"), "abs",
		"remapped patterns still point at their functions")
}

func TestCLI_ImportWithoutRemapKeepsOldReferences(t *testing.T) {
	env := newCLIEnv(t)
	file := filepath.Join(t.TempDir(), "catalog.yaml")

	_, err := env.runJSON(t, "export", file)
	require.NoError(t, err)
	_, err = env.runJSON(t, "import", file)
	require.NoError(t, err)

	result, err := env.runJSON(t, "patterns", "Python")
	require.NoError(t, err)
	assert.Empty(t, resultList(t, result), "patterns still carry the old language id")
}

func TestCLI_ImportMissingFile(t *testing.T) {
	env := newCLIEnv(t)

	result, err := env.runJSON(t, "import", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, result["error"], "opening")
}

func TestCLI_ClearAndReset(t *testing.T) {
	env := newCLIEnv(t)

	result, err := env.runJSON(t, "init")
	require.NoError(t, err)
	stats := result["results"].(map[string]any)
	assert.Equal(t, float64(1), stats["languages"])
	assert.Positive(t, stats["functions"].(float64))

	result, err = env.runJSON(t, "clear")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"status": "cleared"}, result["results"])

	result, err = env.runJSON(t, "reset")
	require.NoError(t, err)
	assert.Equal(t, stats, result["results"])
}
