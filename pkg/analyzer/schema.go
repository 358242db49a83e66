package analyzer

import (
	"sort"
	"strings"

	"github.com/sdkgen-dev/sdkgen/pkg/ir"
)

// compositionKinds in detection priority order; a schema has at most
// one kind.
var compositionKinds = []ir.CompositionKind{ir.KindAllOf, ir.KindOneOf, ir.KindAnyOf}

// AnalyzeComposition classifies a schema's allOf/oneOf/anyOf composition
// into a Composition, or nil when the schema is not a composition.
func AnalyzeComposition(schema map[string]any) *ir.Composition {
	for _, kind := range compositionKinds {
		members, ok := schema[string(kind)].([]any)
		if !ok {
			continue
		}
		return buildComposition(kind, members, schema)
	}
	return nil
}

// IsComposition reports whether the schema uses any composition keyword.
func IsComposition(schema map[string]any) bool {
	return CompositionType(schema) != ""
}

// CompositionType returns the schema's composition kind, or "".
func CompositionType(schema map[string]any) ir.CompositionKind {
	for _, kind := range compositionKinds {
		if _, ok := schema[string(kind)]; ok {
			return kind
		}
	}
	return ""
}

func buildComposition(kind ir.CompositionKind, schemas []any, parent map[string]any) *ir.Composition {
	comp := &ir.Composition{Kind: kind}

	if disc, ok := parent["discriminator"].(map[string]any); ok {
		comp.Discriminator = ExtractDiscriminator(disc)
	}

	for _, raw := range schemas {
		member, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if ref, ok := member["$ref"].(string); ok {
			comp.Members = append(comp.Members, ir.CompositionMember{Name: schemaNameFromRef(ref)})
		} else {
			// Inline schema: downstream generation synthesizes a name.
			comp.Members = append(comp.Members, ir.CompositionMember{Inline: member})
		}
	}

	return comp
}

// ExtractDiscriminator reads a discriminator object. The property name
// defaults to "type"; mapping values are reduced to bare schema names.
func ExtractDiscriminator(disc map[string]any) *ir.Discriminator {
	propertyName, _ := disc["propertyName"].(string)
	if propertyName == "" {
		propertyName = "type"
	}

	mapping := map[string]string{}
	if raw, ok := disc["mapping"].(map[string]any); ok {
		for value, target := range raw {
			if name, ok := target.(string); ok {
				mapping[value] = schemaNameFromRef(name)
			}
		}
	}

	return &ir.Discriminator{PropertyName: propertyName, Mapping: mapping}
}

// MergeAllOf flattens an allOf chain into one object schema. Properties
// merge last-write-wins; required lists concatenate and deduplicate;
// description and title merge first-write-wins. The properties/metadata
// asymmetry is observable behavior and deliberately preserved.
func MergeAllOf(members []map[string]any) map[string]any {
	properties := map[string]any{}
	var required []string
	merged := map[string]any{
		"type":       "object",
		"properties": properties,
	}

	for _, member := range members {
		if props, ok := member["properties"].(map[string]any); ok {
			for name, prop := range props {
				properties[name] = prop
			}
		}
		for _, req := range stringSlice(member["required"]) {
			required = append(required, req)
		}
		for _, key := range []string{"description", "title"} {
			if value, ok := member[key]; ok {
				if _, present := merged[key]; !present {
					merged[key] = value
				}
			}
		}
	}

	merged["required"] = dedupeSorted(required)
	return merged
}

func dedupeSorted(values []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// schemaNameFromRef reduces a reference to the bare schema name, the
// last segment of its pointer path.
func schemaNameFromRef(ref string) string {
	if idx := strings.LastIndex(ref, "/"); idx >= 0 {
		return ref[idx+1:]
	}
	return ref
}
