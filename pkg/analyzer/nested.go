package analyzer

import "strings"

// NestedResourceExtension is the explicit extension field naming the
// nested group an operation belongs to. It always wins over the
// operationId heuristic.
const NestedResourceExtension = "x-nested-resource"

// nestedLeadVerbs reject an operationId as a nested pattern when it
// starts with one of them: a leading verb indicates a flat operation.
var nestedLeadVerbs = map[string]struct{}{
	"get": {}, "list": {}, "create": {}, "update": {}, "delete": {},
	"patch": {}, "post": {}, "put": {}, "upload": {}, "download": {},
	"fetch": {}, "search": {}, "find": {},
}

// DetectNestedResources scans a resource's operations in encounter order
// and groups them by nested-resource name, via the explicit extension or
// the resource_nested_action operationId pattern. Operations matching
// neither rule are left out of every group.
func DetectNestedResources(operations []TaggedOperation) map[string][]TaggedOperation {
	nested := map[string][]TaggedOperation{}

	for _, op := range operations {
		if name, ok := op.Operation[NestedResourceExtension].(string); ok && name != "" {
			nested[name] = append(nested[name], op)
			continue
		}

		operationID, _ := op.Operation["operationId"].(string)
		if operationID == "" {
			continue
		}
		name := ExtractNestedFromOperationID(operationID)
		if name == "" {
			continue
		}
		nested[name] = append(nested[name], op)
	}

	return nested
}

// ExtractNestedFromOperationID parses an operationId for the
// resource_nested_action pattern and returns the nested name, or "".
// Long ids containing an "api" token are framework-autogenerated, not an
// intentional nesting; ids starting with a CRUD verb are flat.
func ExtractNestedFromOperationID(operationID string) string {
	parts := strings.Split(operationID, "_")

	if len(parts) > 5 {
		for _, part := range parts {
			if part == "api" {
				return ""
			}
		}
	}

	if _, ok := nestedLeadVerbs[strings.ToLower(parts[0])]; ok {
		return ""
	}

	if len(parts) >= 3 {
		return parts[1]
	}
	return ""
}

// NestedPropertyName is the accessor name generated for a nested group.
func NestedPropertyName(nestedName string) string {
	return strings.ToLower(nestedName)
}

// ShouldCreateNestedResource reports whether a detected group warrants a
// dedicated sub-resource. Single-operation groups are folded back into
// the parent to avoid one-method classes.
func ShouldCreateNestedResource(operationCount int) bool {
	return operationCount >= 2
}
