package value

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Decode parses a YAML (or JSON) payload into a Value, preserving mapping key
// order. An empty payload decodes to null.
func Decode(data []byte) (Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Value{}, err
	}
	if root.Kind == 0 {
		return Null(), nil
	}
	return FromNode(&root)
}

// FromNode converts a decoded yaml.Node tree into a Value. Aliases are
// resolved and merge keys ("<<") are expanded without overriding explicit
// entries.
func FromNode(n *yaml.Node) (Value, error) {
	if n == nil {
		return Null(), nil
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return FromNode(n.Content[0])
	case yaml.AliasNode:
		return FromNode(n.Alias)
	case yaml.ScalarNode:
		return scalar(n)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, child := range n.Content {
			item, err := FromNode(child)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Value{kind: KindList, list: items}, nil
	case yaml.MappingNode:
		m, err := mapping(n)
		if err != nil {
			return Value{}, err
		}
		return MapValue(m), nil
	default:
		return Value{}, fmt.Errorf("value: unsupported yaml node kind %d at line %d", n.Kind, n.Line)
	}
}

func scalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, fmt.Errorf("value: line %d: %w", n.Line, err)
		}
		return Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("value: line %d: %w", n.Line, err)
		}
		return Number(f), nil
	default:
		return String(n.Value), nil
	}
}

func mapping(n *yaml.Node) (*Map, error) {
	m := NewMap()
	var merges []*yaml.Node

	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valueNode := n.Content[i], n.Content[i+1]
		if keyNode.ShortTag() == "!!merge" {
			merges = append(merges, valueNode)
			continue
		}
		item, err := FromNode(valueNode)
		if err != nil {
			return nil, err
		}
		m.Set(keyNode.Value, item)
	}

	for _, merge := range merges {
		if err := applyMerge(m, merge); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func applyMerge(m *Map, n *yaml.Node) error {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.SequenceNode:
		for _, child := range n.Content {
			if err := applyMerge(m, child); err != nil {
				return err
			}
		}
		return nil
	case yaml.MappingNode:
		src, err := mapping(n)
		if err != nil {
			return err
		}
		src.Each(func(key string, item Value) bool {
			if !m.Has(key) {
				m.Set(key, item)
			}
			return true
		})
		return nil
	default:
		return fmt.Errorf("value: line %d: merge key expects a mapping", n.Line)
	}
}
