package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// object is a JSON object that keeps key insertion order.
type object struct {
	keys   []string
	values map[string]interface{}
}

func newObject() *object {
	return &object{values: make(map[string]interface{})}
}

// set replaces the value in place, or appends the key when it is new.
func (o *object) set(key string, value interface{}) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *object) get(key string) (interface{}, bool) {
	v, ok := o.values[key]
	return v, ok
}

// clone copies the top level of the object.
func (o *object) clone() *object {
	c := &object{
		keys:   append([]string(nil), o.keys...),
		values: make(map[string]interface{}, len(o.values)),
	}
	for k, v := range o.values {
		c.values[k] = v
	}
	return c
}

// code is emitted verbatim, never quoted.
type code string

// toValue converts a YAML node into ordered JSON values.
func toValue(n *yaml.Node) (interface{}, error) {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return toValue(n.Content[0])
	case yaml.MappingNode:
		obj := newObject()
		if err := fillObject(obj, n); err != nil {
			return nil, err
		}
		return obj, nil
	case yaml.SequenceNode:
		items := make([]interface{}, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := toValue(c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.ScalarNode:
		return scalarValue(n)
	default:
		return nil, fmt.Errorf("unsupported YAML node at line %d", n.Line)
	}
}

// scalarValue decodes a scalar with YAML 1.2 core schema typing: timestamps
// stay as written and leading zeros do not make an integer octal.
func scalarValue(n *yaml.Node) (interface{}, error) {
	if n.Style == 0 {
		switch n.ShortTag() {
		case "!!timestamp":
			return n.Value, nil
		case "!!int":
			if leadingZeroInt.MatchString(n.Value) {
				if i, err := strconv.ParseInt(n.Value, 10, 64); err == nil {
					return i, nil
				}
			}
		}
	}
	var v interface{}
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

var leadingZeroInt = regexp.MustCompile(`^[-+]?0[0-9]+$`)

func fillObject(obj *object, n *yaml.Node) error {
	// Merged keys come first so the mapping's own keys override them
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Tag != "!!merge" {
			continue
		}
		src := resolveAlias(n.Content[i+1])
		sources := []*yaml.Node{src}
		if src.Kind == yaml.SequenceNode {
			sources = src.Content
		}
		for _, s := range sources {
			s = resolveAlias(s)
			if s.Kind != yaml.MappingNode {
				return fmt.Errorf("merge value at line %d is not a mapping", s.Line)
			}
			if err := fillObject(obj, s); err != nil {
				return err
			}
		}
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if k.Tag == "!!merge" {
			continue
		}
		key, err := keyText(k)
		if err != nil {
			return err
		}
		v, err := toValue(n.Content[i+1])
		if err != nil {
			return err
		}
		obj.set(key, v)
	}
	return nil
}

func keyText(k *yaml.Node) (string, error) {
	k = resolveAlias(k)
	if k.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("unsupported mapping key at line %d", k.Line)
	}
	if k.Tag == "!!null" {
		return "null", nil
	}
	return k.Value, nil
}

// writeJSON renders v the way JSON.stringify(v, null, 2) does.
func writeJSON(buf *bytes.Buffer, v interface{}, depth int) error {
	indent := strings.Repeat("  ", depth)
	inner := indent + "  "

	switch val := v.(type) {
	case code:
		buf.WriteString(string(val))
	case *object:
		if len(val.keys) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i, k := range val.keys {
			buf.WriteString(inner)
			if err := writeScalar(buf, k); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := writeJSON(buf, val.values[k], depth+1); err != nil {
				return err
			}
			if i < len(val.keys)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(indent + "}")
	case []interface{}:
		if len(val) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, item := range val {
			buf.WriteString(inner)
			if err := writeJSON(buf, item, depth+1); err != nil {
				return err
			}
			if i < len(val)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(indent + "]")
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			buf.WriteString("null")
			return nil
		}
		return writeScalar(buf, val)
	default:
		return writeScalar(buf, val)
	}
	return nil
}

func writeScalar(buf *bytes.Buffer, v interface{}) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// stringLiteral quotes s as a JSON string, which is also a valid script literal.
func stringLiteral(s string) (string, error) {
	var buf bytes.Buffer
	if err := writeScalar(&buf, s); err != nil {
		return "", err
	}
	return buf.String(), nil
}
