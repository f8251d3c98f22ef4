package main

import "github.com/jward/syntaxcat"

// CLIResult is the top-level envelope for every command.
type CLIResult struct {
	Command string `json:"command" yaml:"command"`
	Results any    `json:"results" yaml:"results"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// CLIStats counts the records in each partition.
type CLIStats struct {
	Languages    int `json:"languages" yaml:"languages"`
	Functions    int `json:"functions" yaml:"functions"`
	Patterns     int `json:"patterns" yaml:"patterns"`
	Types        int `json:"types" yaml:"types"`
	TypeMappings int `json:"type_mappings" yaml:"type_mappings"`
}

type CLIStatus struct {
	Status string `json:"status" yaml:"status"`
}

// CLISnapshot describes a snapshot file written or read.
type CLISnapshot struct {
	ID    string   `json:"id" yaml:"id"`
	Path  string   `json:"path" yaml:"path"`
	Stats CLIStats `json:"stats" yaml:"stats"`
}

// CLISearch holds search hits, or name suggestions when there are none.
type CLISearch struct {
	Query       string                `json:"query" yaml:"query"`
	Functions   []*syntaxcat.Function `json:"functions" yaml:"functions"`
	Suggestions []string              `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// CLIPattern is a syntax pattern with its function resolved to a name.
type CLIPattern struct {
	ID       int64    `json:"id" yaml:"id"`
	Function string   `json:"function" yaml:"function"`
	Pattern  string   `json:"pattern" yaml:"pattern"`
	Kind     string   `json:"kind" yaml:"kind"`
	Imports  []string `json:"imports,omitempty" yaml:"imports,omitempty"`
}

// CLITypeMapping is a type mapping with its abstract type resolved to a name.
type CLITypeMapping struct {
	ID       int64    `json:"id" yaml:"id"`
	Type     string   `json:"type" yaml:"type"`
	Concrete string   `json:"concrete" yaml:"concrete"`
	Imports  []string `json:"imports,omitempty" yaml:"imports,omitempty"`
}
