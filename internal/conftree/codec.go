package conftree

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a YAML mapping node into the tree, preserving the
// key order exactly as written in the document. Anchors/aliases are
// followed and `<<` merge keys are flattened with explicit keys taking
// precedence over merged ones.
func (t *Tree) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("yaml: cannot decode %s into a mapping (line %d)", kindName(node.Kind), node.Line)
	}

	t.init()
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := node.Content[i+1]

		if keyNode.Tag == "!!merge" {
			if err := t.flattenMerge(valNode); err != nil {
				return err
			}
			continue
		}

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}

		val, err := yamlValue(valNode)
		if err != nil {
			return err
		}
		t.Set(key, val)
	}

	return nil
}

// flattenMerge splices the mapping(s) referenced by a `<<` key into the
// tree. Keys already present win over merged ones, matching YAML merge-key
// semantics for keys written before the `<<` entry.
func (t *Tree) flattenMerge(node *yaml.Node) error {
	node = resolveAlias(node)

	if node.Kind == yaml.SequenceNode {
		for _, item := range node.Content {
			if err := t.flattenMerge(item); err != nil {
				return err
			}
		}
		return nil
	}

	var sub Tree
	if err := sub.UnmarshalYAML(node); err != nil {
		return err
	}
	for _, k := range sub.keys {
		if !t.Has(k) {
			t.Set(k, sub.values[k])
		}
	}
	return nil
}

func yamlValue(node *yaml.Node) (any, error) {
	node = resolveAlias(node)

	switch node.Kind {
	case yaml.MappingNode:
		sub := New()
		if err := sub.UnmarshalYAML(node); err != nil {
			return nil, err
		}
		return sub, nil
	case yaml.SequenceNode:
		seq := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := yamlValue(item)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil
	default:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func kindName(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}

// MarshalYAML encodes the tree as a YAML mapping node with keys in
// insertion order.
func (t *Tree) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range t.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		valNode := &yaml.Node{}
		if err := valNode.Encode(t.values[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// UnmarshalJSON decodes a JSON object into the tree via the token stream,
// so key order is preserved (the object-pairs hook the stdlib decoder does
// not offer for plain maps).
func (t *Tree) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("json: cannot decode %v into a mapping", tok)
	}

	return t.decodeJSONObject(dec)
}

func (t *Tree) decodeJSONObject(dec *json.Decoder) error {
	t.init()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("json: object key is not a string: %v", keyTok)
		}

		val, err := decodeJSONValue(dec)
		if err != nil {
			return err
		}
		t.Set(key, val)
	}

	// consume the closing brace
	_, err := dec.Token()
	return err
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			sub := New()
			if err := sub.decodeJSONObject(dec); err != nil {
				return nil, err
			}
			return sub, nil
		case '[':
			seq := make([]any, 0)
			for dec.More() {
				item, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				seq = append(seq, item)
			}
			if _, err := dec.Token(); err != nil { // closing bracket
				return nil, err
			}
			return seq, nil
		default:
			return nil, fmt.Errorf("json: unexpected delimiter %q", v)
		}
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		// string, bool, or nil
		return tok, nil
	}
}

// MarshalJSON encodes the tree as a JSON object with keys in insertion
// order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valJSON, err := json.Marshal(t.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
