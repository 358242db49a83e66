package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/sdkgen-dev/sdkgen/pkg/analyzer"
	"github.com/sdkgen-dev/sdkgen/pkg/config"
	"github.com/sdkgen-dev/sdkgen/pkg/httpcache"
	"github.com/sdkgen-dev/sdkgen/pkg/openapi"
	"github.com/sdkgen-dev/sdkgen/pkg/resolver"
)

// RunAnalyzeParams carries the analyze command flags; config file values
// act as the base and flags override them.
type RunAnalyzeParams struct {
	ConfigPath  string
	Spec        string
	Out         string
	CacheDir    string
	IncludeTags []string
	ExcludeTags []string
}

// RunAnalyze parses and resolves the spec, builds the IR, applies tag
// filters, and either writes the IR as JSON or prints a summary report.
func RunAnalyze(ctx context.Context, p RunAnalyzeParams) error {
	cfg := &config.Config{
		Spec:        p.Spec,
		Out:         p.Out,
		CacheDir:    p.CacheDir,
		IncludeTags: p.IncludeTags,
		ExcludeTags: p.ExcludeTags,
	}
	if p.ConfigPath != "" {
		loaded, err := config.Load(p.ConfigPath)
		if err != nil {
			return err
		}
		if cfg.Spec == "" {
			cfg.Spec = loaded.Spec
		}
		if cfg.Out == "" {
			cfg.Out = loaded.Out
		}
		if cfg.CacheDir == "" {
			cfg.CacheDir = loaded.CacheDir
		}
		if len(cfg.IncludeTags) == 0 {
			cfg.IncludeTags = loaded.IncludeTags
		}
		if len(cfg.ExcludeTags) == 0 {
			cfg.ExcludeTags = loaded.ExcludeTags
		}
	}
	if cfg.Spec == "" {
		return errors.New("either --config or --input must be provided")
	}

	resolved, err := parseSpec(ctx, cfg.Spec, cfg.CacheDir)
	if err != nil {
		return err
	}

	spec := analyzer.BuildIR(resolved)

	include, exclude, err := analyzer.CompileTagFilters(cfg.IncludeTags, cfg.ExcludeTags)
	if err != nil {
		return err
	}
	if len(include) > 0 || len(exclude) > 0 {
		spec = analyzer.FilterResources(spec, include, exclude)
	}

	if cfg.Out != "" {
		data, err := json.MarshalIndent(spec, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(cfg.Out, data, 0o644)
	}

	report, err := RenderReport(spec)
	if err != nil {
		return err
	}
	fmt.Print(report)
	return nil
}

// RunResolve resolves the spec and writes the reference-free document
// as JSON to out (or stdout).
func RunResolve(ctx context.Context, input, out, cacheDir string) error {
	resolved, err := parseSpec(ctx, input, cacheDir)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(resolved, "", "  ")
	if err != nil {
		return err
	}
	if out == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(out, data, 0o644)
}

// RunRefs prints the sorted inventory of $ref strings in the document.
func RunRefs(ctx context.Context, input string) error {
	cache, err := httpcache.New("")
	if err != nil {
		return err
	}
	parser, err := openapi.NewParser(cache)
	if err != nil {
		return err
	}
	spec, err := parser.ParseWithoutResolving(ctx, input)
	if err != nil {
		return err
	}
	for _, ref := range resolver.ExtractReferences(spec) {
		fmt.Println(ref)
	}
	return nil
}

// RunValidate validates the document with the full kin-openapi validator.
func RunValidate(input string) error {
	return openapi.ValidateDocument(input)
}

func parseSpec(ctx context.Context, source, cacheDir string) (map[string]any, error) {
	cache, err := httpcache.New(cacheDir)
	if err != nil {
		return nil, err
	}
	parser, err := openapi.NewParser(cache)
	if err != nil {
		return nil, err
	}
	return parser.Parse(ctx, source)
}
