// Package suite parses crucible evaluation suite files: Markdown documents
// whose YAML frontmatter holds the suite's default TestConfig and whose
// "Case:" sections each define one input, optionally with per-case
// configuration overrides and evaluation params.
package suite

import (
	"github.com/harrison/crucible/internal/models"
)

// Suite is one parsed evaluation suite.
type Suite struct {
	Name   string
	Config models.TestConfig
	Cases  []Case
}

// Case is one evaluation case: the input handed to the executor, an
// optional TestConfig override merged over the suite default, and optional
// evaluation params (e.g. a ground truth).
type Case struct {
	Name     string
	Input    string
	Override *models.TestConfig
	Params   map[string]any
}
