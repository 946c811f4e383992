package cue

import (
	"errors"
	"fmt"
	"strconv"

	yamlv3 "gopkg.in/yaml.v3"
)

// Document is a decoded YAML or JSON mapping together with its node tree,
// kept so validation issues can point at a line.
type Document struct {
	Data map[string]any
	root *yamlv3.Node
}

// ParseDocument decodes YAML or JSON content whose top level is a mapping.
func ParseDocument(content []byte) (*Document, error) {
	var root yamlv3.Node
	if err := yamlv3.Unmarshal(content, &root); err != nil {
		return nil, fmt.Errorf("error parsing document: %w", err)
	}
	if root.Kind != yamlv3.DocumentNode || len(root.Content) == 0 {
		return nil, errors.New("error parsing document: empty document")
	}
	if root.Content[0].Kind != yamlv3.MappingNode {
		return nil, fmt.Errorf("error parsing document: line %d: top level must be a mapping", root.Content[0].Line)
	}

	var data map[string]any
	if err := root.Decode(&data); err != nil {
		return nil, fmt.Errorf("error parsing document: %w", err)
	}
	return &Document{Data: data, root: &root}, nil
}

// Decode decodes the document into v using yaml struct tags.
func (d *Document) Decode(v any) error {
	if d.root == nil {
		return errors.New("document has no content")
	}
	return d.root.Decode(v)
}

// Line returns the source line of the deepest node along path. Mapping keys
// and sequence indexes are path elements; elements that cannot be followed
// stop the walk. 0 when nothing matches.
func (d *Document) Line(path []string) int {
	if d == nil || d.root == nil || len(d.root.Content) == 0 {
		return 0
	}
	node := d.root.Content[0]
	line := 0
	for _, elem := range path {
		next := child(node, elem)
		if next == nil {
			break
		}
		node = next
		line = node.Line
	}
	return line
}

func child(node *yamlv3.Node, elem string) *yamlv3.Node {
	switch node.Kind {
	case yamlv3.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == elem {
				return node.Content[i+1]
			}
		}
	case yamlv3.SequenceNode:
		idx, err := strconv.Atoi(elem)
		if err == nil && idx >= 0 && idx < len(node.Content) {
			return node.Content[idx]
		}
	}
	return nil
}
