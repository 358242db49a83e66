package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	cli "github.com/sdkgen-dev/sdkgen/internal/cli"
)

func main() {
	root := &cobra.Command{
		Use:   "sdkgen",
		Short: "Analyze OpenAPI specs into an SDK-ready intermediate representation",
	}

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newResolveCmd())
	root.AddCommand(newRefsCmd())
	root.AddCommand(newValidateCmd())

	if err := root.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var configPath string
	var input string
	var out string
	var cacheDir string
	var includeTags []string
	var excludeTags []string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Build the IR from an OpenAPI spec",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunAnalyze(cmd.Context(), cli.RunAnalyzeParams{
				ConfigPath:  configPath,
				Spec:        input,
				Out:         out,
				CacheDir:    cacheDir,
				IncludeTags: includeTags,
				ExcludeTags: excludeTags,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to sdkgen.yaml config")
	cmd.Flags().StringVar(&input, "input", "", "OpenAPI spec file (yaml/json) or URL")
	cmd.Flags().StringVar(&out, "out", "", "Write the IR as JSON to this file")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "HTTP cache directory")
	cmd.Flags().StringArrayVar(&includeTags, "include-tags", nil, "Regex patterns for resources to include")
	cmd.Flags().StringArrayVar(&excludeTags, "exclude-tags", nil, "Regex patterns for resources to exclude")

	return cmd
}

func newResolveCmd() *cobra.Command {
	var input string
	var out string
	var cacheDir string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve every $ref and print the reference-free spec",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunResolve(cmd.Context(), input, out, cacheDir)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "OpenAPI spec file (yaml/json) or URL")
	cmd.Flags().StringVar(&out, "out", "", "Write the resolved spec to this file")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "HTTP cache directory")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newRefsCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "refs",
		Short: "List every $ref in a spec",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunRefs(cmd.Context(), input)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "OpenAPI spec file (yaml/json) or URL")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an OpenAPI spec",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunValidate(input)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "OpenAPI spec file (yaml/json)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
