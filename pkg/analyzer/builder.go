package analyzer

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/sdkgen-dev/sdkgen/pkg/ir"
)

// BuildIR assembles the full IR from a resolved spec: resources grouped
// by tag, inferred operation names, nested sub-resource groups and
// detected namespaces. It never fails; heuristic fallbacks surface as
// diagnostics so generation can always proceed.
func BuildIR(resolved map[string]any) *ir.Spec {
	spec := &ir.Spec{}

	if info, ok := resolved["info"].(map[string]any); ok {
		spec.Title, _ = info["title"].(string)
		spec.Version, _ = info["version"].(string)
		spec.Description, _ = info["description"].(string)
	}
	if servers, ok := resolved["servers"].([]any); ok && len(servers) > 0 {
		if server, ok := servers[0].(map[string]any); ok {
			spec.BaseURL, _ = server["url"].(string)
		}
	}

	groups := GroupByTags(resolved)
	tags := make([]string, 0, len(groups))
	for tag := range groups {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	for _, tag := range tags {
		resource, diags := buildResource(tag, groups[tag])
		spec.Resources = append(spec.Resources, resource)
		spec.Diagnostics = append(spec.Diagnostics, diags...)
	}

	spec.Namespaces = DetectNamespaces(resolved)
	for i := range spec.Namespaces {
		spec.Namespaces[i].Resources = resourcesInNamespace(spec.Namespaces[i], spec.Resources)
	}

	spec.Naming = AnalyzeSpecNaming(resolved)
	return spec
}

func buildResource(tag string, ops []TaggedOperation) (ir.Resource, []ir.Diagnostic) {
	resource := ir.Resource{Name: tag}
	var diags []ir.Diagnostic

	var paths []string
	seenPaths := map[string]struct{}{}
	for _, op := range ops {
		if _, ok := seenPaths[op.Path]; !ok {
			seenPaths[op.Path] = struct{}{}
			paths = append(paths, op.Path)
		}
	}

	resource.PathPrefix = DetectPathPrefix(paths)
	resource.RequiresID, resource.IDParamName = RequiresResourceID(paths)

	for _, op := range ops {
		converted, tier := convertOperation(op)
		resource.Operations = append(resource.Operations, converted)
		if tier == tierFallback {
			diags = append(diags, ir.Diagnostic{
				Severity:  ir.SeverityInfo,
				Component: "endpoint",
				Message:   fmt.Sprintf("no naming heuristic matched; falling back to method name %q", converted.Name),
				Path:      op.Path,
				Method:    op.Method,
			})
		}
	}

	nested := DetectNestedResources(ops)
	for _, name := range sortedNestedNames(nested) {
		group := nested[name]
		// Single-operation groups stay in the parent resource.
		if !ShouldCreateNestedResource(len(group)) {
			continue
		}
		converted := make([]ir.Operation, 0, len(group))
		for _, op := range group {
			c, _ := convertOperation(op)
			converted = append(converted, c)
		}
		if resource.Nested == nil {
			resource.Nested = map[string][]ir.Operation{}
		}
		resource.Nested[NestedPropertyName(name)] = converted
	}

	return resource, diags
}

func convertOperation(op TaggedOperation) (ir.Operation, int) {
	operationID, _ := op.Operation["operationId"].(string)
	responses, _ := op.Operation["responses"].(map[string]any)
	name, tier := inferOperationName(op.Method, op.Path, operationID, responses)

	return ir.Operation{
		Path:        op.Path,
		Method:      op.Method,
		OperationID: operationID,
		Name:        name,
		Tags:        stringSlice(op.Operation["tags"]),
		Raw:         op.Operation,
	}, tier
}

// resourcesInNamespace associates resources to a namespace by path
// containment: a resource belongs to every namespace whose token is
// detected in at least one of its operation paths.
func resourcesInNamespace(ns ir.Namespace, resources []ir.Resource) []string {
	var names []string
	for _, resource := range resources {
		for _, op := range resource.Operations {
			if ExtractNamespaceFromPath(op.Path) == ns.Name {
				names = append(names, resource.Name)
				break
			}
		}
	}
	return names
}

func sortedNestedNames(nested map[string][]TaggedOperation) []string {
	names := make([]string, 0, len(nested))
	for name := range nested {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CompileTagFilters compiles include/exclude regex patterns for
// resource filtering.
func CompileTagFilters(include, exclude []string) ([]*regexp.Regexp, []*regexp.Regexp, error) {
	inc := make([]*regexp.Regexp, 0, len(include))
	for _, p := range include {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid includeTags pattern %q: %w", p, err)
		}
		inc = append(inc, r)
	}
	exc := make([]*regexp.Regexp, 0, len(exclude))
	for _, p := range exclude {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid excludeTags pattern %q: %w", p, err)
		}
		exc = append(exc, r)
	}
	return inc, exc, nil
}

// FilterResources returns a copy of the IR keeping only resources whose
// name matches the include patterns (all, when none are given) and none
// of the exclude patterns. Namespace associations are rebuilt against
// the surviving resources.
func FilterResources(spec *ir.Spec, include, exclude []*regexp.Regexp) *ir.Spec {
	out := *spec
	out.Resources = nil

	for _, resource := range spec.Resources {
		if !matchesFilters(resource.Name, include, exclude) {
			continue
		}
		out.Resources = append(out.Resources, resource)
	}

	out.Namespaces = make([]ir.Namespace, len(spec.Namespaces))
	copy(out.Namespaces, spec.Namespaces)
	for i := range out.Namespaces {
		out.Namespaces[i].Resources = resourcesInNamespace(out.Namespaces[i], out.Resources)
	}

	return &out
}

func matchesFilters(name string, include, exclude []*regexp.Regexp) bool {
	included := len(include) == 0
	for _, r := range include {
		if r.MatchString(name) {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, r := range exclude {
		if r.MatchString(name) {
			return false
		}
	}
	return true
}
