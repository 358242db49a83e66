package analyzer

import (
	"strings"

	"github.com/sdkgen-dev/sdkgen/pkg/ir"
	"github.com/sdkgen-dev/sdkgen/pkg/utils"
)

// Naming convention labels reported by the detection helpers.
const (
	ConventionSnake    = "snake_case"
	ConventionCamel    = "camelCase"
	ConventionOriginal = "original"
)

// namingSampleSize caps how many names each detector inspects.
const namingSampleSize = 10

// DetectFieldNaming samples a schema's property names and returns the
// dominant convention, or "original" when there is no clear pattern.
func DetectFieldNaming(schema map[string]any) string {
	properties, ok := schema["properties"].(map[string]any)
	if !ok || len(properties) == 0 {
		return ConventionOriginal
	}

	names := sortedKeys(properties)
	if len(names) > namingSampleSize {
		names = names[:namingSampleSize]
	}

	snake, camel := 0, 0
	for _, name := range names {
		switch utils.DetectNamingConvention(name) {
		case "snake_case":
			snake++
		case "camelCase":
			camel++
		}
	}

	if snake > camel {
		return ConventionSnake
	}
	if camel > 0 {
		return ConventionCamel
	}
	return ConventionOriginal
}

// DetectParameterNaming samples parameter names and returns the dominant
// convention.
func DetectParameterNaming(parameters []any) string {
	if len(parameters) == 0 {
		return ConventionOriginal
	}

	sample := parameters
	if len(sample) > namingSampleSize {
		sample = sample[:namingSampleSize]
	}

	snake, camel := 0, 0
	for _, raw := range sample {
		param, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name, _ := param["name"].(string)
		if name == "" {
			continue
		}
		if strings.Contains(name, "_") {
			snake++
		} else if strings.ToLower(name) != name {
			camel++
		}
	}

	if snake > camel {
		return ConventionSnake
	}
	if camel > 0 {
		return ConventionCamel
	}
	return ConventionOriginal
}

// AnalyzeSpecNaming summarizes naming conventions across the spec.
// Requests always use snake_case so generated inputs stay idiomatic;
// responses and parameters follow whatever the API actually does.
func AnalyzeSpecNaming(spec map[string]any) ir.NamingConventions {
	out := ir.NamingConventions{
		Request:   ConventionSnake,
		Response:  ConventionCamel,
		Parameter: ConventionCamel,
	}

	if components, ok := spec["components"].(map[string]any); ok {
		if schemas, ok := components["schemas"].(map[string]any); ok && len(schemas) > 0 {
			names := sortedKeys(schemas)
			if sample, ok := schemas[names[0]].(map[string]any); ok {
				out.Response = DetectFieldNaming(sample)
			}
		}
	}

	var params []any
	if paths, ok := spec["paths"].(map[string]any); ok {
		for _, path := range sortedKeys(paths) {
			item, ok := paths[path].(map[string]any)
			if !ok {
				continue
			}
			for _, method := range httpMethods {
				op, ok := item[method].(map[string]any)
				if !ok {
					continue
				}
				if opParams, ok := op["parameters"].([]any); ok {
					params = append(params, opParams...)
				}
			}
		}
	}
	if len(params) > 0 {
		out.Parameter = DetectParameterNaming(params)
	}

	return out
}
