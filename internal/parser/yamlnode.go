package parser

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// nodeError builds a ParseError located at n.
func nodeError(n *yaml.Node, format string, args ...any) *ParseError {
	return NewParseError(n.Line, n.Column, fmt.Sprintf(format, args...), nil)
}

// mappingPairs returns the key/value pairs of a mapping node.
func mappingPairs(n *yaml.Node, what string) ([][2]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, nodeError(n, "%s must be a mapping", what)
	}
	pairs := make([][2]*yaml.Node, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		pairs = append(pairs, [2]*yaml.Node{n.Content[i], n.Content[i+1]})
	}
	return pairs, nil
}

func scalarString(n *yaml.Node, what string) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", nodeError(n, "%s must be a scalar", what)
	}
	return n.Value, nil
}

func scalarBool(n *yaml.Node, what string) (bool, error) {
	s, err := scalarString(n, what)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, NewParseError(n.Line, n.Column, fmt.Sprintf("%s must be a boolean", what), err)
	}
	return b, nil
}

func scalarInt(n *yaml.Node, what string) (int64, error) {
	s, err := scalarString(n, what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, NewParseError(n.Line, n.Column, fmt.Sprintf("%s must be an integer", what), err)
	}
	return v, nil
}

func stringList(n *yaml.Node, what string) ([]string, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, nodeError(n, "%s must be a list", what)
	}
	out := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		s, err := scalarString(item, what)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func stringMap(n *yaml.Node, what string) (map[string]string, error) {
	var m map[string]string
	if err := n.Decode(&m); err != nil {
		return nil, NewParseError(n.Line, n.Column, fmt.Sprintf("%s must be a mapping of scalars", what), err)
	}
	return m, nil
}
