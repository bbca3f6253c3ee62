package invariants

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// OpenAPIOptions configures payload-contract extraction from an OpenAPI
// document.
type OpenAPIOptions struct {
	// OperationID pins extraction to a specific operation. When empty the
	// first mutating operation with a request body is used, in sorted path
	// order so extraction stays deterministic.
	OperationID string
	// ResolveReferences allows the loader to follow external $refs.
	ResolveReferences bool
}

// FromOpenAPI derives Invariants from an OpenAPI document: the request body
// schema of one operation becomes the payload contract (required dot-paths
// plus expected types) and the document's info.version becomes the expected
// current version.
func FromOpenAPI(ctx context.Context, raw []byte, opts OpenAPIOptions) (Invariants, error) {
	if err := ctx.Err(); err != nil {
		return Invariants{}, err
	}
	if len(raw) == 0 {
		return Invariants{}, errors.New("invariants: openapi document is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: opts.ResolveReferences,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return Invariants{}, fmt.Errorf("invariants: load openapi document: %w", err)
	}

	operation, err := selectOperation(spec, opts.OperationID)
	if err != nil {
		return Invariants{}, err
	}

	schema := requestSchema(operation)
	if schema == nil {
		return Invariants{}, errors.New("invariants: selected operation has no request schema")
	}

	payload := PayloadSchema{Types: make(map[string]string)}
	collectPaths(schema, "", true, &payload)
	sort.Strings(payload.Required)
	if len(payload.Types) == 0 {
		payload.Types = nil
	}

	inv := Invariants{PayloadSchema: payload}
	if spec.Info != nil {
		inv.Versioning.CurrentVersion = strings.TrimSpace(spec.Info.Version)
	}
	return inv, nil
}

func selectOperation(spec *openapi3.T, operationID string) (*openapi3.Operation, error) {
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("invariants: openapi document has no paths")
	}

	paths := make([]string, 0, spec.Paths.Len())
	for path := range spec.Paths.Map() {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var fallback *openapi3.Operation
	for _, path := range paths {
		item := spec.Paths.Map()[path]
		if item == nil {
			continue
		}
		for _, op := range []*openapi3.Operation{item.Post, item.Put, item.Patch} {
			if op == nil || op.RequestBody == nil {
				continue
			}
			if operationID != "" {
				if op.OperationID == operationID {
					return op, nil
				}
				continue
			}
			if fallback == nil {
				fallback = op
			}
		}
	}

	if operationID != "" {
		return nil, fmt.Errorf("invariants: operation %q not found or has no request body", operationID)
	}
	if fallback == nil {
		return nil, errors.New("invariants: no operation with a request body found")
	}
	return fallback, nil
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

// collectPaths records a dot-path per property. A path counts as required only
// when every ancestor on the way down is required too; an optional parent makes
// its children optional for submission purposes.
func collectPaths(schema *openapi3.Schema, prefix string, parentRequired bool, payload *PayloadSchema) {
	if schema == nil {
		return
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		property := ref.Value

		path := name
		if prefix != "" {
			path = prefix + "." + name
		}

		typeName := payloadType(property)
		if typeName != "" && typeName != "object" {
			payload.Types[path] = typeName
		}
		if parentRequired && required[name] && typeName != "object" {
			payload.Required = append(payload.Required, path)
		}

		if typeName == "object" || len(property.Properties) > 0 {
			collectPaths(property, path, parentRequired && required[name], payload)
		}
	}
}

func payloadType(schema *openapi3.Schema) string {
	if schema.Type == nil {
		if len(schema.Properties) > 0 {
			return "object"
		}
		return ""
	}
	values := schema.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	switch values[0] {
	case "integer":
		return "number"
	default:
		return values[0]
	}
}
