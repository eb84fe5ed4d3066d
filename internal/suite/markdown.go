package suite

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/harrison/crucible/internal/config"
	"github.com/harrison/crucible/internal/models"
)

// MarkdownParser parses suite files written as Markdown.
type MarkdownParser struct {
	markdown goldmark.Markdown
}

// NewMarkdownParser creates a suite parser.
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{
		markdown: goldmark.New(),
	}
}

// frontmatterConfig is the YAML frontmatter of a suite file.
type frontmatterConfig struct {
	Name           string         `yaml:"name"`
	ExecutorConfig map[string]any `yaml:"executor_config"`
	MetricConfig   map[string]any `yaml:"metric_config"`
}

// caseSettings is the optional yaml code block inside a case section.
type caseSettings struct {
	ExecutorConfig map[string]any `yaml:"executor_config"`
	MetricConfig   map[string]any `yaml:"metric_config"`
	Params         map[string]any `yaml:"params"`
}

var caseHeadingRegex = regexp.MustCompile(`^Case:\s+(.+)$`)

// ParseFile parses the suite file at the given path.
func (p *MarkdownParser) ParseFile(path string) (*Suite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open suite file: %w", err)
	}
	defer f.Close()
	return p.Parse(f)
}

// Parse parses a suite document from r.
func (p *MarkdownParser) Parse(r io.Reader) (*Suite, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read suite content: %w", err)
	}

	body, frontmatter := extractFrontmatter(content)
	if frontmatter == nil {
		return nil, fmt.Errorf("suite file missing YAML frontmatter")
	}

	var fm frontmatterConfig
	if err := yaml.Unmarshal(frontmatter, &fm); err != nil {
		return nil, fmt.Errorf("parse suite frontmatter: %w", err)
	}
	if fm.Name == "" {
		return nil, fmt.Errorf("suite frontmatter missing \"name\"")
	}

	suite := &Suite{
		Name: fm.Name,
		Config: models.TestConfig{
			ExecutorConfig: orEmpty(fm.ExecutorConfig),
			MetricConfig:   orEmpty(fm.MetricConfig),
		},
	}
	if err := config.ValidateTestConfig(suite.Config); err != nil {
		return nil, err
	}

	cases, err := p.extractCases(body)
	if err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("suite %q defines no cases", fm.Name)
	}
	suite.Cases = cases

	return suite, nil
}

// extractCases walks the markdown AST collecting "## Case: name" sections.
// Within a section, the first non-yaml fenced code block is the input and a
// yaml code block carries the case settings.
func (p *MarkdownParser) extractCases(source []byte) ([]Case, error) {
	doc := p.markdown.Parser().Parse(text.NewReader(source))

	var cases []Case
	var current *Case
	seen := make(map[string]bool)

	flush := func() error {
		if current == nil {
			return nil
		}
		if current.Input == "" {
			return fmt.Errorf("case %q has no input code block", current.Name)
		}
		cases = append(cases, *current)
		current = nil
		return nil
	}

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if heading, ok := n.(*ast.Heading); ok && heading.Level == 2 {
			if err := flush(); err != nil {
				return ast.WalkStop, err
			}

			headingText := nodeText(heading, source)
			matches := caseHeadingRegex.FindStringSubmatch(headingText)
			if len(matches) != 2 {
				return ast.WalkContinue, nil
			}

			name := strings.TrimSpace(matches[1])
			if seen[name] {
				return ast.WalkStop, fmt.Errorf("duplicate case name %q", name)
			}
			seen[name] = true
			current = &Case{Name: name}
			return ast.WalkContinue, nil
		}

		if fence, ok := n.(*ast.FencedCodeBlock); ok && current != nil {
			lang := string(fence.Language(source))
			body := blockText(fence, source)

			if lang == "yaml" {
				if err := applyCaseSettings(current, body); err != nil {
					return ast.WalkStop, fmt.Errorf("case %q: %w", current.Name, err)
				}
				return ast.WalkContinue, nil
			}
			if current.Input == "" {
				current.Input = strings.TrimRight(body, "\n")
			}
			return ast.WalkContinue, nil
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return cases, nil
}

// applyCaseSettings decodes a case's yaml block into its override and
// params.
func applyCaseSettings(c *Case, body string) error {
	var settings caseSettings
	if err := yaml.Unmarshal([]byte(body), &settings); err != nil {
		return fmt.Errorf("parse case settings: %w", err)
	}

	if settings.ExecutorConfig != nil || settings.MetricConfig != nil {
		override := &models.TestConfig{
			ExecutorConfig: orEmpty(settings.ExecutorConfig),
			MetricConfig:   orEmpty(settings.MetricConfig),
		}
		if err := config.ValidateTestConfig(*override); err != nil {
			return err
		}
		c.Override = override
	}
	c.Params = settings.Params
	return nil
}

// nodeText collects the literal text under a node (used for headings).
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
		}
	}
	return sb.String()
}

// blockText collects the raw lines of a fenced code block.
func blockText(n ast.Node, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		sb.Write(segment.Value(source))
	}
	return sb.String()
}

// extractFrontmatter splits YAML frontmatter from markdown content.
// Returns the body and the frontmatter bytes (nil when absent).
func extractFrontmatter(content []byte) ([]byte, []byte) {
	lines := bytes.Split(content, []byte("\n"))

	if len(lines) < 3 || !bytes.Equal(bytes.TrimSpace(lines[0]), []byte("---")) {
		return content, nil
	}

	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			frontmatter := bytes.Join(lines[1:i], []byte("\n"))
			body := bytes.Join(lines[i+1:], []byte("\n"))
			return body, frontmatter
		}
	}

	return content, nil
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
