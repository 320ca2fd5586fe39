// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package document

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// Encode writes n as YAML, keeping mapping keys in tree order. Parsing the
// output yields an equivalent tree.
func Encode(n *Node) ([]byte, error) {
	y, err := toYAML(n)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(y); err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return buf.Bytes(), nil
}

func toYAML(n *Node) (*yaml.Node, error) {
	if n == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	switch n.Kind {
	case KindMapping:
		y := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range n.Entries {
			v, err := toYAML(e.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", e.Key, err)
			}
			y.Content = append(y.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key}, v)
		}
		return y, nil
	case KindSequence:
		y := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, item := range n.Items {
			v, err := toYAML(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			y.Content = append(y.Content, v)
		}
		return y, nil
	default:
		return scalarYAML(n.Scalar)
	}
}

func scalarYAML(v cty.Value) (*yaml.Node, error) {
	if v.IsNull() {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	switch v.Type() {
	case cty.String:
		// The encoder quotes strings that would otherwise read back as
		// another type, e.g. "Null" or "1e-4".
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.AsString()}, nil
	case cty.Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.True())}, nil
	case cty.Number:
		tag, text := formatNumber(v)
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: text}, nil
	default:
		return nil, fmt.Errorf("cannot encode value of type %s", v.Type().FriendlyName())
	}
}

// formatNumber renders integers without a fraction and everything else in
// the shortest form that parses back to the same float64.
func formatNumber(v cty.Value) (string, string) {
	bf := v.AsBigFloat()
	switch {
	case bf.IsInf():
		if bf.Sign() < 0 {
			return "!!float", "-.inf"
		}
		return "!!float", ".inf"
	case bf.IsInt():
		return "!!int", bf.Text('f', 0)
	}
	f, _ := bf.Float64()
	return "!!float", strconv.FormatFloat(f, 'g', -1, 64)
}
