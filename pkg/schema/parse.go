package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ParseOption tweaks how strictly Parse treats a document.
type ParseOption func(*parseConfig)

type parseConfig struct {
	strictKinds bool
}

// WithStrictKinds turns unsupported field kinds into structural errors instead
// of warnings.
func WithStrictKinds() ParseOption {
	return func(cfg *parseConfig) {
		cfg.strictKinds = true
	}
}

// Parse decodes raw JSON text into a FormSchema. On failure the returned error
// is always a non-empty ErrorList and the schema is the zero value.
func Parse(raw []byte, options ...ParseOption) (FormSchema, error) {
	cfg := parseConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return FormSchema{}, ErrorList{decodeIssue(raw, err)}
	}

	c := &collector{}
	root, ok := doc.(map[string]any)
	if !ok {
		c.structural("", "form schema must be a JSON object, got %s", typeName(doc))
		return FormSchema{}, c.errors
	}

	if title, ok := requireString(c, root, "", "formTitle"); ok && strings.TrimSpace(title) == "" {
		c.structural("formTitle", "must not be empty")
	}
	requireString(c, root, "", "formDescription")

	switch fields, present := root["fields"]; {
	case !present:
		c.structural("", "missing required key %q", "fields")
	default:
		list, ok := fields.([]any)
		if !ok {
			c.structural("fields", "must be an array, got %s", typeName(fields))
			break
		}
		checkFields(c, list, cfg)
	}

	if len(c.errors) > 0 {
		return FormSchema{}, c.errors
	}

	out := build(root)
	if len(c.warnings) > 0 {
		out.Warnings = c.warnings
	}
	return out, nil
}

// ParseString is a convenience wrapper around Parse for editor buffers.
func ParseString(text string, options ...ParseOption) (FormSchema, error) {
	return Parse([]byte(text), options...)
}

// AsErrorList extracts the ErrorList carried by err, if any.
func AsErrorList(err error) (ErrorList, bool) {
	var list ErrorList
	if errors.As(err, &list) {
		return list, true
	}
	return nil, false
}

func checkFields(c *collector, list []any, cfg parseConfig) {
	seen := make(map[string]int, len(list))
	for idx, item := range list {
		path := fmt.Sprintf("fields[%d]", idx)
		obj, ok := item.(map[string]any)
		if !ok {
			c.structural(path, "must be an object, got %s", typeName(item))
			continue
		}

		if id, ok := requireString(c, obj, path, "id"); ok {
			switch first, dup := seen[id]; {
			case strings.TrimSpace(id) == "":
				c.structural(path+".id", "must not be empty")
			case dup:
				c.structural(path+".id", "duplicate id %q (first declared at fields[%d])", id, first)
			default:
				seen[id] = idx
			}
		}

		kind := Kind("")
		if raw, ok := requireString(c, obj, path, "type"); ok {
			kind = Kind(raw)
			if !kind.Known() {
				if cfg.strictKinds {
					c.structural(path+".type", "unsupported field type %q (expected one of %s)", raw, kindList())
				} else {
					c.warn(path+".type", "unsupported field type %q; the field will not be rendered", raw)
				}
			}
		}

		requireString(c, obj, path, "label")
		optionalBool(c, obj, path, "required")
		optionalString(c, obj, path, "placeholder")
		checkOptions(c, obj, path, kind)
		checkValidation(c, obj, path)
	}
}

func checkOptions(c *collector, obj map[string]any, path string, kind Kind) {
	raw, present := obj["options"]
	if !present {
		if kind.HasOptions() {
			c.structural(path, "missing required key %q for %s fields", "options", kind)
		}
		return
	}

	list, ok := raw.([]any)
	if !ok {
		c.structural(path+".options", "must be an array, got %s", typeName(raw))
		return
	}
	if len(list) == 0 && kind.HasOptions() {
		c.structural(path+".options", "must declare at least one option")
		return
	}

	values := make(map[string]int, len(list))
	for idx, item := range list {
		optPath := fmt.Sprintf("%s.options[%d]", path, idx)
		option, ok := item.(map[string]any)
		if !ok {
			c.structural(optPath, "must be an object, got %s", typeName(item))
			continue
		}
		value, ok := requireString(c, option, optPath, "value")
		requireString(c, option, optPath, "label")
		if !ok {
			continue
		}
		if value == "" && kind.HasOptions() {
			c.structural(optPath+".value", "must not be empty")
			continue
		}
		if first, dup := values[value]; dup {
			c.structural(optPath+".value", "duplicate option value %q (first declared at %s.options[%d])", value, path, first)
			continue
		}
		values[value] = idx
	}
}

func checkValidation(c *collector, obj map[string]any, path string) {
	raw, present := obj["validation"]
	if !present {
		return
	}
	rulePath := path + ".validation"
	rule, ok := raw.(map[string]any)
	if !ok {
		c.structural(rulePath, "must be an object, got %s", typeName(raw))
		return
	}
	if pattern, ok := requireString(c, rule, rulePath, "pattern"); ok {
		if pattern == "" {
			c.structural(rulePath+".pattern", "must not be empty")
		} else if _, err := regexp.Compile(pattern); err != nil {
			c.structural(rulePath+".pattern", "invalid regular expression: %v", err)
		}
	}
	requireString(c, rule, rulePath, "message")
}

func requireString(c *collector, obj map[string]any, parent, key string) (string, bool) {
	raw, present := obj[key]
	if !present {
		c.structural(parent, "missing required key %q", key)
		return "", false
	}
	value, ok := raw.(string)
	if !ok {
		c.structural(joinPath(parent, key), "must be a string, got %s", typeName(raw))
		return "", false
	}
	return value, true
}

func optionalString(c *collector, obj map[string]any, parent, key string) {
	raw, present := obj[key]
	if !present {
		return
	}
	if _, ok := raw.(string); !ok {
		c.structural(joinPath(parent, key), "must be a string, got %s", typeName(raw))
	}
}

func optionalBool(c *collector, obj map[string]any, parent, key string) {
	raw, present := obj[key]
	if !present {
		return
	}
	if _, ok := raw.(bool); !ok {
		c.structural(joinPath(parent, key), "must be a boolean, got %s", typeName(raw))
	}
}

// build assembles the schema from a document that passed every check, so
// the type assertions cannot fail. Only exact-case keys are read.
func build(root map[string]any) FormSchema {
	out := FormSchema{
		Title:       stringAt(root, "formTitle"),
		Description: stringAt(root, "formDescription"),
	}
	list, _ := root["fields"].([]any)
	out.Fields = make([]Field, 0, len(list))
	for _, item := range list {
		obj, _ := item.(map[string]any)
		required, _ := obj["required"].(bool)
		field := Field{
			ID:          stringAt(obj, "id"),
			Type:        Kind(stringAt(obj, "type")),
			Label:       stringAt(obj, "label"),
			Required:    required,
			Placeholder: stringAt(obj, "placeholder"),
		}
		if options, _ := obj["options"].([]any); len(options) > 0 {
			field.Options = make([]Option, 0, len(options))
			for _, raw := range options {
				option, _ := raw.(map[string]any)
				field.Options = append(field.Options, Option{
					Value: stringAt(option, "value"),
					Label: stringAt(option, "label"),
				})
			}
		}
		if rule, ok := obj["validation"].(map[string]any); ok {
			field.Validation = &Validation{
				Pattern: stringAt(rule, "pattern"),
				Message: stringAt(rule, "message"),
			}
		}
		out.Fields = append(out.Fields, field)
	}
	return out
}

func stringAt(obj map[string]any, key string) string {
	value, _ := obj[key].(string)
	return value
}

func decodeIssue(raw []byte, err error) Issue {
	message := err.Error()
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := position(raw, syntaxErr.Offset)
		message = fmt.Sprintf("%s (line %d, column %d)", message, line, col)
	}
	return Issue{Kind: IssueDecode, Message: message}
}

func position(raw []byte, offset int64) (int, int) {
	if offset > int64(len(raw)) {
		offset = int64(len(raw))
	}
	if offset < 0 {
		offset = 0
	}
	prefix := raw[:offset]
	line := bytes.Count(prefix, []byte("\n")) + 1
	col := int(offset) - bytes.LastIndexByte(prefix, '\n')
	return line, col
}

func typeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func kindList() string {
	kinds := Kinds()
	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		names = append(names, string(kind))
	}
	return strings.Join(names, ", ")
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}
