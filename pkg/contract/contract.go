// Package contract describes the submission endpoint of a form as an OpenAPI
// 3 document so backends can validate what the rendered form posts.
package contract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formschema/pkg/schema"
)

const (
	// DefaultPath is the submission route described by Build.
	DefaultPath = "/submissions"
	// DefaultVersion is the info.version of generated documents.
	DefaultVersion = "1.0.0"

	// ExtensionFieldType carries the original field kind on each property.
	ExtensionFieldType = "x-form-field-type"
	// ExtensionPatternMessage carries the validation message paired with a pattern.
	ExtensionPatternMessage = "x-form-pattern-message"
)

// Format selects the serialisation used by Marshal.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a flag value onto a Format. Empty means JSON.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("contract: unknown format %q", value)
	}
}

// Option customises Build.
type Option func(*options)

type options struct {
	path        string
	version     string
	operationID string
}

// WithPath overrides the submission route.
func WithPath(path string) Option {
	return func(o *options) {
		if path != "" {
			o.path = path
		}
	}
}

// WithVersion overrides info.version.
func WithVersion(version string) Option {
	return func(o *options) {
		if version != "" {
			o.version = version
		}
	}
}

// WithOperationID overrides the operationId of the submission operation.
func WithOperationID(id string) Option {
	return func(o *options) {
		if id != "" {
			o.operationID = id
		}
	}
}

// Build returns a validated OpenAPI document whose request body mirrors form.
// Fields with unsupported kinds are left out, the same way renderers skip them.
func Build(ctx context.Context, form schema.FormSchema, opts ...Option) (*openapi3.T, error) {
	cfg := options{path: DefaultPath, version: DefaultVersion, operationID: "submitForm"}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if !strings.HasPrefix(cfg.path, "/") {
		return nil, fmt.Errorf("contract: path %q must start with /", cfg.path)
	}

	body := SubmissionSchema(form)
	op := &openapi3.Operation{
		OperationID: cfg.operationID,
		Summary:     "Submit " + form.Title,
		Description: form.Description,
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithDescription("Values keyed by field id.").
				WithRequired(true).
				WithJSONSchema(body),
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(201, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().
					WithDescription("Submission accepted.").
					WithJSONSchema(receiptSchema(body)),
			}),
			openapi3.WithStatus(422, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().
					WithDescription("One or more fields failed validation.").
					WithJSONSchema(errorsSchema()),
			}),
		),
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       form.Title,
			Description: form.Description,
			Version:     cfg.version,
		},
		Paths: openapi3.NewPaths(openapi3.WithPath(cfg.path, &openapi3.PathItem{Post: op})),
	}

	if err := doc.Validate(ctx, openapi3.DisableSchemaFormatValidation()); err != nil {
		return nil, fmt.Errorf("contract: validate: %w", err)
	}
	return doc, nil
}

// SubmissionSchema returns the object schema of a submission body: one string
// property per renderable field. Optional fields left blank are omitted from
// the body rather than sent as "".
func SubmissionSchema(form schema.FormSchema) *openapi3.Schema {
	out := openapi3.NewObjectSchema()
	out.Title = form.Title
	required := make([]string, 0, len(form.Fields))

	for _, field := range form.Fields {
		if !field.Type.Known() {
			continue
		}
		out.WithProperty(field.ID, propertySchema(field))
		if field.Required {
			required = append(required, field.ID)
		}
	}
	if len(required) > 0 {
		out.Required = required
	}
	return out
}

func propertySchema(field schema.Field) *openapi3.Schema {
	prop := openapi3.NewStringSchema()
	prop.Title = field.Label
	prop.Extensions = map[string]any{ExtensionFieldType: string(field.Type)}

	if field.Type == schema.KindEmail {
		prop.Format = "email"
	}
	if field.Type.HasOptions() {
		values := make([]any, 0, len(field.Options))
		for _, option := range field.Options {
			values = append(values, option.Value)
		}
		prop.Enum = values
	}
	if field.Validation != nil {
		prop.Pattern = field.Validation.Pattern
		prop.Extensions[ExtensionPatternMessage] = field.Validation.Message
	}
	if field.Required && !field.Type.HasOptions() {
		prop.MinLength = 1
	}
	return prop
}

func receiptSchema(values *openapi3.Schema) *openapi3.Schema {
	id := openapi3.NewStringSchema()
	id.Format = "uuid"
	at := openapi3.NewDateTimeSchema()

	out := openapi3.NewObjectSchema().
		WithProperty("id", id).
		WithProperty("submittedAt", at).
		WithProperty("values", values)
	out.Required = []string{"id", "submittedAt", "values"}
	return out
}

func errorsSchema() *openapi3.Schema {
	messages := openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
	fields := openapi3.NewObjectSchema().WithAdditionalProperties(messages)

	out := openapi3.NewObjectSchema().WithProperty("errors", fields)
	out.Required = []string{"errors"}
	return out
}

// Marshal serialises doc. YAML output keeps the key order of the JSON form.
func Marshal(doc *openapi3.T, format Format) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("contract: document is nil")
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("contract: encode json: %w", err)
	}

	switch format {
	case "", FormatJSON:
		return append(raw, '\n'), nil
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(raw, &node); err != nil {
			return nil, fmt.Errorf("contract: decode json as yaml: %w", err)
		}
		plain(&node)
		out, err := yaml.Marshal(&node)
		if err != nil {
			return nil, fmt.Errorf("contract: encode yaml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("contract: unknown format %q", format)
	}
}

// plain drops the flow style yaml.v3 keeps from the JSON input.
func plain(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		plain(child)
	}
}
