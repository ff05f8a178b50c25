// Package frontmatter splits Markdown documents into a YAML metadata block
// and a body. The metadata block is retained both as decoded values and as a
// yaml.Node so documents can be re-serialized without losing field order or
// comments.
package frontmatter

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// ParseError indicates a malformed or absent frontmatter block.
type ParseError struct {
	Path    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// Document is a parsed Markdown document with YAML frontmatter.
type Document struct {
	Fields map[string]any // decoded frontmatter values
	Body   string         // Markdown body after the closing delimiter
	Raw    string         // raw YAML text between the delimiters

	node  *yaml.Node // mapping node for round-trip serialization
	dirty bool       // set once a field has been mutated
}

// Split separates document content into the raw YAML metadata text and the
// Markdown body. It fails when the opening delimiter is absent or the block
// is never closed.
func Split(content string) (meta, body string, err error) {
	if !strings.HasPrefix(content, delimiter+"\n") && !strings.HasPrefix(content, delimiter+"\r\n") {
		return "", "", &ParseError{Line: 1, Message: "missing frontmatter: document must start with ---"}
	}

	start := len(delimiter)
	if content[start] == '\r' {
		start++
	}
	start++ // consume the newline

	closeIdx := strings.Index(content[start:], "\n"+delimiter)
	if closeIdx == -1 {
		return "", "", &ParseError{Line: 1, Message: "unterminated frontmatter: closing --- not found"}
	}
	meta = content[start : start+closeIdx]

	bodyStart := start + closeIdx + 1 + len(delimiter)
	for bodyStart < len(content) && (content[bodyStart] == '\n' || content[bodyStart] == '\r') {
		bodyStart++
	}
	if bodyStart < len(content) {
		body = content[bodyStart:]
	}
	return meta, body, nil
}

// Parse splits the content and decodes the metadata block. The returned
// document retains the raw YAML and its node tree for round-trip output.
func Parse(content string) (*Document, error) {
	meta, body, err := Split(content)
	if err != nil {
		return nil, err
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(meta), &root); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("invalid YAML in frontmatter: %v", err)}
	}

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(meta), &fields); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("frontmatter is not a mapping: %v", err)}
	}
	if fields == nil {
		return nil, &ParseError{Line: 1, Message: "empty frontmatter block"}
	}

	// YAML resolves unquoted ISO dates (created: 2026-01-12) to time.Time.
	// Frontmatter dates are strings everywhere downstream, so fold them back.
	for k, v := range fields {
		if t, ok := v.(time.Time); ok {
			fields[k] = t.Format("2006-01-02")
		}
	}

	return &Document{
		Fields: fields,
		Body:   body,
		Raw:    meta,
		node:   &root,
	}, nil
}

// Mapping returns the top-level mapping node of the frontmatter, or nil when
// the document was not produced by Parse.
func (d *Document) Mapping() *yaml.Node {
	if d.node == nil || len(d.node.Content) == 0 {
		return nil
	}
	m := d.node.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil
	}
	return m
}

// FieldLine returns the source line of a top-level field within the whole
// document (accounting for the opening delimiter line), or 0 if unknown.
func (d *Document) FieldLine(name string) int {
	m := d.Mapping()
	if m == nil {
		return 0
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == name {
			return m.Content[i].Line + 1 // +1 for the opening --- line
		}
	}
	return 0
}

// Serialize renders the document back to Markdown. Untouched documents render
// their original raw metadata so re-serializing is byte-identical; documents
// mutated through SetField re-marshal the node tree.
func (d *Document) Serialize() (string, error) {
	meta := d.Raw
	if d.node != nil && d.dirty {
		out, err := yaml.Marshal(d.node)
		if err != nil {
			return "", fmt.Errorf("marshaling frontmatter: %w", err)
		}
		meta = strings.TrimSuffix(string(out), "\n")
	}
	var sb strings.Builder
	sb.WriteString(delimiter)
	sb.WriteString("\n")
	sb.WriteString(meta)
	sb.WriteString("\n")
	sb.WriteString(delimiter)
	sb.WriteString("\n")
	if d.Body != "" {
		sb.WriteString("\n")
		sb.WriteString(d.Body)
	}
	return sb.String(), nil
}

// SetField sets a top-level scalar field, updating both the decoded values
// and the node tree. New fields are appended at the end of the mapping.
func (d *Document) SetField(name string, value any) error {
	m := d.Mapping()
	if m == nil {
		return fmt.Errorf("frontmatter has no mapping node")
	}

	var valueNode yaml.Node
	if err := valueNode.Encode(value); err != nil {
		return fmt.Errorf("encoding value for %s: %w", name, err)
	}

	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == name {
			m.Content[i+1] = &valueNode
			d.Fields[name] = value
			d.dirty = true
			return nil
		}
	}

	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: name}
	m.Content = append(m.Content, keyNode, &valueNode)
	d.Fields[name] = value
	d.dirty = true
	return nil
}

// GetString returns a string field value.
func (d *Document) GetString(name string) (string, bool) {
	v, ok := d.Fields[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetInt returns an integer field value.
func (d *Document) GetInt(name string) (int, bool) {
	v, ok := d.Fields[name]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}

// GetStringList returns a list-of-strings field value. A missing field
// returns (nil, false); a present list with non-string items returns only
// the string items.
func (d *Document) GetStringList(name string) ([]string, bool) {
	v, ok := d.Fields[name]
	if !ok {
		return nil, false
	}
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}
