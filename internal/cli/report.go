package cli

import (
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/sdkgen-dev/sdkgen/pkg/ir"
)

const reportTemplate = `{{ .Title }} {{ .Version }}{{ if .BaseURL }} ({{ .BaseURL }}){{ end }}

Resources: {{ len .Resources }}
{{- range .Resources }}
  {{ .Name }}{{ if .RequiresID }} [id: {{ .IDParamName }}]{{ end }}: {{ len .Operations }} operation{{ if ne (len .Operations) 1 }}s{{ end }}
{{- range .Operations }}
    {{ printf "%-7s" .Method }} {{ .Path }} -> {{ .Name }}
{{- end }}
{{- range $nested, $ops := .Nested }}
    nested {{ $nested }}: {{ len $ops }} operations
{{- end }}
{{- end }}
{{ if .Namespaces }}
Namespaces:
{{- range .Namespaces }}
  {{ .Name }} ({{ .PathPrefix }}): {{ join ", " .Resources }}
{{- end }}
{{ end }}
{{- if .Diagnostics }}
Diagnostics:
{{- range .Diagnostics }}
  [{{ .Severity }}] {{ .Component }}: {{ .Message }} ({{ .Method }} {{ .Path }})
{{- end }}
{{ end }}`

// RenderReport renders the human-readable analysis summary.
func RenderReport(spec *ir.Spec) (string, error) {
	t, err := template.New("report").Funcs(sprig.TxtFuncMap()).Parse(reportTemplate)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := t.Execute(&b, spec); err != nil {
		return "", err
	}
	return b.String(), nil
}
