// Package sdkgen analyzes OpenAPI 3.x specifications into a normalized,
// fully-resolved intermediate representation of resources, operations,
// namespaces and schema types, ready for SDK code generation.
//
// Quick start:
//
//	spec, err := sdkgen.AnalyzeSpec(ctx, "https://petstore3.swagger.io/api/v3/openapi.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, resource := range spec.Resources {
//		fmt.Println(resource.Name, len(resource.Operations))
//	}
//
// For finer control over resolution, caching and filtering, use the
// resolver, analyzer and openapi packages directly.
package sdkgen

import (
	"context"

	"github.com/sdkgen-dev/sdkgen/pkg/analyzer"
	"github.com/sdkgen-dev/sdkgen/pkg/ir"
	"github.com/sdkgen-dev/sdkgen/pkg/openapi"
)

// ParseSpec loads the OpenAPI document at source (file path or URL),
// validates its structure and resolves every reference, returning the
// reference-free raw tree.
func ParseSpec(ctx context.Context, source string) (map[string]any, error) {
	parser, err := openapi.NewParser(nil)
	if err != nil {
		return nil, err
	}
	return parser.Parse(ctx, source)
}

// AnalyzeSpec parses and resolves the document at source and builds the
// complete IR from it.
func AnalyzeSpec(ctx context.Context, source string) (*ir.Spec, error) {
	resolved, err := ParseSpec(ctx, source)
	if err != nil {
		return nil, err
	}
	return analyzer.BuildIR(resolved), nil
}

// ValidateSpec validates an OpenAPI specification file without building
// anything. Useful for checking a spec before analysis.
func ValidateSpec(source string) error {
	return openapi.ValidateDocument(source)
}
