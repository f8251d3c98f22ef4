// Package fixtures embeds the bundled seed fixture scripts and the stub
// files they read.
package fixtures

import "embed"

// FS holds every fixture script at its root and stub files under a
// per-language directory, e.g. "python.risor" and "python/builtins.pyi".
//
//go:embed *.risor python
var FS embed.FS

// Python is the script path of the bundled Python fixture within FS.
const Python = "python.risor"
