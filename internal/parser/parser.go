// Package parser extracts YAML frontmatter from Markdown content.
package parser

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the parsed key/value block at the top of a note.
type Frontmatter map[string]any

// Has reports whether key is present, even when its value is null.
func (f Frontmatter) Has(key string) bool {
	if f == nil {
		return false
	}
	_, ok := f[key]
	return ok
}

// String returns the value of key rendered as a string.
// Missing keys and null values yield "".
func (f Frontmatter) String(key string) string {
	if f == nil {
		return ""
	}
	v, ok := f[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Result holds the output of parsing a Markdown file.
type Result struct {
	Frontmatter Frontmatter
	Body        string
}

// Parse splits frontmatter and body from raw Markdown bytes.
func Parse(data []byte) (*Result, error) {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}
	return &Result{
		Frontmatter: fm,
		Body:        body,
	}, nil
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. If no frontmatter is found the entire content is body.
func splitFrontmatter(data []byte) (Frontmatter, string, error) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data), nil
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter, so the whole file is body.
		return nil, string(data), nil
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm Frontmatter
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		return nil, string(data), nil
	}
	// An empty block ("---\n---") parses to nil; the note still has frontmatter.
	if fm == nil {
		fm = Frontmatter{}
	}

	return fm, body, nil
}
