package blockschema

import (
	"bytes"
	"fmt"
	"io"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// FromJSONBytes parses a JSON document into the Json AST. Object member order
// and duplicate keys are preserved, which a plain map decode would lose.
func FromJSONBytes(data []byte) (Json, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("blockschema: empty or invalid JSON: %w", err)
	}
	v, err := decodeValue(dec, tok)
	if err != nil {
		return nil, err
	}
	// Trailing garbage after the document is an error.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("blockschema: trailing data after JSON document")
	}
	return v, nil
}

func decodeValue(dec *j.Decoder, tok j.Token) (Json, error) {
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("blockschema: unexpected delimiter %q", v)
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	case j.Number:
		return ParseNumber(string(v))
	case float64:
		return Float(v), nil
	case nil:
		return Null{}, nil
	default:
		return nil, fmt.Errorf("blockschema: unexpected token %T", tok)
	}
}

func decodeObject(dec *j.Decoder) (Json, error) {
	var obj Object
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, io.ErrUnexpectedEOF
		}
		if d, ok := tok.(j.Delim); ok && d == '}' {
			return obj, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("blockschema: object key must be a string, got %T", tok)
		}
		vt, err := dec.Token()
		if err != nil {
			return nil, io.ErrUnexpectedEOF
		}
		val, err := decodeValue(dec, vt)
		if err != nil {
			return nil, err
		}
		obj = append(obj, Member{Name: key, Value: val})
	}
}

func decodeArray(dec *j.Decoder) (Json, error) {
	var arr Array
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, io.ErrUnexpectedEOF
		}
		if d, ok := tok.(j.Delim); ok && d == ']' {
			return arr, nil
		}
		v, err := decodeValue(dec, tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

// FromYAMLBytes parses a single YAML document into the Json AST. The node walk
// preserves mapping order and duplicate keys, matching FromJSONBytes.
func FromYAMLBytes(data []byte) (Json, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	return yamlToJSON(&node)
}

func yamlToJSON(n *yaml.Node) (Json, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null{}, nil
		}
		return yamlToJSON(n.Content[0])
	case yaml.AliasNode:
		return yamlToJSON(n.Alias)
	case yaml.MappingNode:
		var obj Object
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			v, err := yamlToJSON(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj = append(obj, Member{Name: k.Value, Value: v})
		}
		return obj, nil
	case yaml.SequenceNode:
		var arr Array
		for _, c := range n.Content {
			v, err := yamlToJSON(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return Null{}, nil
		case "!!bool":
			return Bool(n.Value == "true" || n.Value == "True" || n.Value == "TRUE"), nil
		case "!!int", "!!float":
			return ParseNumber(n.Value)
		default:
			return String(n.Value), nil
		}
	}
	return nil, fmt.Errorf("blockschema: unsupported YAML node kind %d", n.Kind)
}
